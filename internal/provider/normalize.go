package provider

import (
	"strings"
	"time"

	"daybrief/internal/model"
	"daybrief/internal/textutil"
)

// UnknownSource is used when a provider does not report an article source.
const UnknownSource = "unknown"

// Normalize cleans raw articles: drops entries without title or URL, strips markup
// from descriptions and fills missing source, category, and publish time.
func Normalize(raw []model.Article, category string, now time.Time) []model.Article {
	out := make([]model.Article, 0, len(raw))
	fetched := now.UTC().Format(time.RFC3339)
	for _, a := range raw {
		a.Title = strings.TrimSpace(textutil.StripHTML(a.Title))
		a.URL = strings.TrimSpace(a.URL)
		if !a.Valid() {
			continue
		}
		a.Description = textutil.StripHTML(a.Description)
		a.ImageURL = strings.TrimSpace(a.ImageURL)
		if strings.TrimSpace(a.Source) == "" {
			a.Source = UnknownSource
		}
		if strings.TrimSpace(a.PublishedAt) == "" {
			a.PublishedAt = fetched
		}
		if a.Category == "" {
			a.Category = category
		}
		out = append(out, a)
	}
	return out
}
