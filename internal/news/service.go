// Package news chooses a provider order per request and falls back along it.
package news

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"daybrief/internal/apierr"
	"daybrief/internal/cache"
	"daybrief/internal/metrics"
	"daybrief/internal/model"
	"daybrief/internal/provider"
)

// Request describes one logical news request.
type Request struct {
	Locale    string
	Category  string
	Query     string
	PageSize  int
	SkipCache bool
}

// Service is the fallback orchestrator for news requests.
type Service struct {
	providers []provider.NewsProvider
	cache     *cache.Store
	loc       *time.Location
}

// NewService creates the orchestrator. providers lists every adapter; their relative
// order inside a family is kept. loc is the zone cache windows are computed in.
func NewService(store *cache.Store, loc *time.Location, providers ...provider.NewsProvider) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{providers: providers, cache: store, loc: loc}
}

// Headlines returns general top headlines.
func (s *Service) Headlines(ctx context.Context, req Request) ([]model.Article, error) {
	req.Category = ""
	return s.run(ctx, provider.CapHeadlines, req, func(ctx context.Context, p provider.NewsProvider) ([]model.Article, error) {
		return p.Headlines(ctx, "", req.PageSize)
	})
}

// Category returns headlines of one category.
func (s *Service) Category(ctx context.Context, req Request) ([]model.Article, error) {
	category := strings.TrimSpace(req.Category)
	return s.run(ctx, provider.CapCategory, req, func(ctx context.Context, p provider.NewsProvider) ([]model.Article, error) {
		return p.Headlines(ctx, category, req.PageSize)
	})
}

// Search returns articles matching req.Query. An empty query yields no articles.
func (s *Service) Search(ctx context.Context, req Request) ([]model.Article, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return []model.Article{}, nil
	}
	return s.run(ctx, provider.CapSearch, req, func(ctx context.Context, p provider.NewsProvider) ([]model.Article, error) {
		return p.Search(ctx, query, req.PageSize)
	})
}

// Categories returns the taxonomy of the provider first in line for locale.
func (s *Service) Categories(ctx context.Context, locale string) ([]model.CategoryDescriptor, error) {
	chain := s.Chain(locale)
	if len(chain) == 0 {
		return nil, &apierr.NotConfiguredError{What: "news"}
	}
	return chain[0].Categories(ctx), nil
}

// Configured reports whether any provider of family has a key.
func (s *Service) Configured(family provider.Family) bool {
	for _, p := range s.providers {
		if p.Family() == family && p.Configured() {
			return true
		}
	}
	return false
}

// Chain returns the configured providers in the order they are tried for locale:
// domestic first for a domestic locale with a configured domestic provider,
// international first otherwise.
func (s *Service) Chain(locale string) []provider.NewsProvider {
	var domestic, intl []provider.NewsProvider
	for _, p := range s.providers {
		if !p.Configured() {
			continue
		}
		if p.Family() == provider.FamilyDomestic {
			domestic = append(domestic, p)
		} else {
			intl = append(intl, p)
		}
	}
	if IsDomesticLocale(locale) && len(domestic) > 0 {
		return append(domestic, intl...)
	}
	return append(intl, domestic...)
}

// IsDomesticLocale reports whether locale targets the domestic (Chinese) market.
func IsDomesticLocale(locale string) bool {
	l := strings.ToLower(strings.TrimSpace(locale))
	l = strings.ReplaceAll(l, "_", "-")
	return l == "zh" || l == "cn" || strings.HasPrefix(l, "zh-")
}

type call func(ctx context.Context, p provider.NewsProvider) ([]model.Article, error)

func (s *Service) run(ctx context.Context, kind provider.Capability, req Request, fn call) ([]model.Article, error) {
	chain := s.Chain(req.Locale)
	if len(chain) == 0 {
		return nil, &apierr.NotConfiguredError{What: "news"}
	}
	w := cache.NewsWindow(s.cache.Now().In(s.loc))
	key := cache.Fingerprint("news:"+kind.String(), w,
		chain[0].Name(), req.Category, req.Query, strconv.Itoa(req.PageSize))
	return cache.Fetch(ctx, s.cache, key, w.ExpiresAt, req.SkipCache, func(ctx context.Context) ([]model.Article, error) {
		return fallback(ctx, kind, chain, fn)
	})
}

// fallback tries each provider in turn. The first success wins, including an empty
// one. Providers that cannot serve the request are skipped without counting as failures.
func fallback(ctx context.Context, kind provider.Capability, chain []provider.NewsProvider, fn call) ([]model.Article, error) {
	var failures []apierr.ProviderFailure
	for _, p := range chain {
		if !p.Supports(kind) {
			metrics.ProviderRequests.WithLabelValues(p.Name(), "skipped").Inc()
			continue
		}
		arts, err := fn(ctx, p)
		if errors.Is(err, provider.ErrUnsupported) {
			slog.Debug("news: provider cannot serve request", "provider", p.Name(), "kind", kind)
			metrics.ProviderRequests.WithLabelValues(p.Name(), "skipped").Inc()
			continue
		}
		if err != nil {
			outcome := "error"
			if apierr.IsAuth(err) {
				outcome = "auth"
			}
			metrics.ProviderRequests.WithLabelValues(p.Name(), outcome).Inc()
			slog.Warn("news: provider failed, trying next", "provider", p.Name(), "kind", kind, "error", err)
			failures = append(failures, apierr.ProviderFailure{Provider: p.Name(), Err: err})
			continue
		}
		if len(arts) == 0 {
			metrics.ProviderRequests.WithLabelValues(p.Name(), "empty").Inc()
			return []model.Article{}, nil
		}
		metrics.ProviderRequests.WithLabelValues(p.Name(), "ok").Inc()
		slog.Debug("news: served", "provider", p.Name(), "kind", kind, "count", len(arts))
		return arts, nil
	}
	if len(failures) > 0 {
		return nil, &apierr.AggregateError{Failures: failures}
	}
	return []model.Article{}, nil
}
