package model

import "strings"

// Article is a normalized news item from any provider.
type Article struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	ImageURL    string `json:"imageUrl,omitempty"`
	PublishedAt string `json:"publishedAt"`
	Source      string `json:"source"`
	Category    string `json:"category"`
}

// Valid reports whether the article carries both a title and a URL.
func (a Article) Valid() bool {
	return strings.TrimSpace(a.Title) != "" && strings.TrimSpace(a.URL) != ""
}

// CategoryDescriptor describes one entry of a provider's category taxonomy.
// A nil ProviderCategoryRef means the provider's default headline endpoint.
type CategoryDescriptor struct {
	ID                  string  `json:"id"`
	Label               string  `json:"label"`
	ProviderCategoryRef *string `json:"providerCategoryRef,omitempty"`
}

// Ref returns the provider reference or "" when the descriptor uses the headline endpoint.
func (c CategoryDescriptor) Ref() string {
	if c.ProviderCategoryRef == nil {
		return ""
	}
	return *c.ProviderCategoryRef
}

// StrRef is a small helper for building descriptors.
func StrRef(s string) *string { return &s }
