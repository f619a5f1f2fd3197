// Package newsapi adapts NewsAPI.org (international provider).
// Docs: https://newsapi.org/docs/endpoints
package newsapi

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"daybrief/internal/apierr"
	"daybrief/internal/catalog"
	"daybrief/internal/httpjson"
	"daybrief/internal/model"
	"daybrief/internal/provider"
)

const (
	Name        = "newsapi"
	MaxPageSize = 100
)

var authCodes = map[string]bool{
	"apiKeyMissing":   true,
	"apiKeyInvalid":   true,
	"apiKeyDisabled":  true,
	"apiKeyExhausted": true,
	"rateLimited":     true,
}

type Client struct {
	baseURL  string
	key      provider.KeyFunc
	http     httpjson.Getter
	catalog  *catalog.Cache
	country  string
	language string
}

// NewClient creates a NewsAPI client. country applies to top headlines, language to search.
func NewClient(baseURL string, key provider.KeyFunc, getter httpjson.Getter, cat *catalog.Cache, country, language string) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = "https://newsapi.org"
	}
	if country == "" {
		country = "us"
	}
	cat.Register(Name, catalog.Source{Fallback: Categories()})
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		key:      key,
		http:     getter,
		catalog:  cat,
		country:  country,
		language: language,
	}
}

func (c *Client) Name() string            { return Name }
func (c *Client) Family() provider.Family { return provider.FamilyInternational }
func (c *Client) Configured() bool        { return c.key() != "" }

func (c *Client) Supports(k provider.Capability) bool { return true }

func (c *Client) Categories(ctx context.Context) []model.CategoryDescriptor {
	return c.catalog.Categories(ctx, Name)
}

type response struct {
	Status       string    `json:"status"`
	Code         string    `json:"code"`
	Message      string    `json:"message"`
	TotalResults int       `json:"totalResults"`
	Articles     []article `json:"articles"`
}

type article struct {
	Source struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"source"`
	Author      string `json:"author"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	URLToImage  string `json:"urlToImage"`
	PublishedAt string `json:"publishedAt"`
}

// Headlines returns top headlines for the configured country, optionally by category.
func (c *Client) Headlines(ctx context.Context, category string, pageSize int) ([]model.Article, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		category = catalog.General
	}
	d, ok := c.catalog.Lookup(ctx, Name, category)
	if !ok {
		return nil, provider.ErrUnsupported
	}
	q := url.Values{
		"country":  {c.country},
		"pageSize": {strconv.Itoa(provider.ClampPageSize(pageSize, MaxPageSize))},
	}
	if ref := d.Ref(); ref != "" {
		q.Set("category", ref)
	}
	return c.fetch(ctx, "/v2/top-headlines", q, d.ID)
}

// Search queries all articles matching query, newest first.
func (c *Client) Search(ctx context.Context, query string, pageSize int) ([]model.Article, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	q := url.Values{
		"q":        {query},
		"sortBy":   {"publishedAt"},
		"pageSize": {strconv.Itoa(provider.ClampPageSize(pageSize, MaxPageSize))},
	}
	if c.language != "" {
		q.Set("language", c.language)
	}
	return c.fetch(ctx, "/v2/everything", q, "search")
}

func (c *Client) fetch(ctx context.Context, path string, q url.Values, category string) ([]model.Article, error) {
	key := c.key()
	if key == "" {
		return nil, &apierr.NotConfiguredError{What: Name}
	}
	q.Set("apiKey", key)
	var resp response
	if err := c.http.GetJSON(ctx, c.baseURL+path+"?"+q.Encode(), &resp); err != nil {
		if apierr.IsMalformed(err) {
			slog.Warn("newsapi: malformed response", "error", err)
			return nil, nil
		}
		// Quota and key failures arrive as 401 or 429 with the code in the body.
		var te *apierr.TransportError
		if errors.As(err, &te) && authCodes[te.Code] {
			return nil, apierr.NewAuthError(Name, te.Status, te.Code, te.Message)
		}
		return nil, err
	}
	if resp.Status == "error" {
		if authCodes[resp.Code] {
			return nil, apierr.NewAuthError(Name, 0, resp.Code, resp.Message)
		}
		return nil, &apierr.TransportError{Provider: Name, Code: resp.Code, Message: resp.Message}
	}
	raw := make([]model.Article, 0, len(resp.Articles))
	for _, a := range resp.Articles {
		// NewsAPI marks articles pulled by publishers with this placeholder.
		if a.Title == "[Removed]" {
			continue
		}
		raw = append(raw, model.Article{
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			ImageURL:    a.URLToImage,
			PublishedAt: a.PublishedAt,
			Source:      a.Source.Name,
		})
	}
	return provider.Normalize(raw, category, time.Now()), nil
}

// Categories is NewsAPI's fixed category list keyed by canonical category.
func Categories() []model.CategoryDescriptor {
	return []model.CategoryDescriptor{
		{ID: catalog.General, Label: "Top headlines"},
		{ID: catalog.Business, Label: "Business", ProviderCategoryRef: model.StrRef("business")},
		{ID: catalog.Entertainment, Label: "Entertainment", ProviderCategoryRef: model.StrRef("entertainment")},
		{ID: catalog.Health, Label: "Health", ProviderCategoryRef: model.StrRef("health")},
		{ID: catalog.Science, Label: "Science", ProviderCategoryRef: model.StrRef("science")},
		{ID: catalog.Sports, Label: "Sports", ProviderCategoryRef: model.StrRef("sports")},
		{ID: catalog.Technology, Label: "Technology", ProviderCategoryRef: model.StrRef("technology")},
	}
}
