package catalog

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"daybrief/internal/model"

	"golang.org/x/sync/singleflight"
)

// DefaultTTL is how long a fetched taxonomy stays fresh.
const DefaultTTL = 24 * time.Hour

// Source describes how to obtain one provider's taxonomy.
type Source struct {
	// Fetch loads the taxonomy from the provider. Nil means the provider has a static list only.
	Fetch func(ctx context.Context) ([]model.CategoryDescriptor, error)
	// Fallback is served when Fetch fails or returns nothing.
	Fallback []model.CategoryDescriptor
}

type entry struct {
	items     []model.CategoryDescriptor
	fetchedAt time.Time
}

// Cache keeps one in-memory taxonomy per provider and deduplicates concurrent fetches.
type Cache struct {
	ttl     time.Duration
	now     func() time.Time
	group   singleflight.Group
	mu      sync.RWMutex
	sources map[string]Source
	entries map[string]entry
}

// New creates an empty catalog cache.
func New() *Cache {
	return &Cache{
		ttl:     DefaultTTL,
		now:     time.Now,
		sources: map[string]Source{},
		entries: map[string]entry{},
	}
}

// WithClock overrides the clock and returns the cache. Used by tests.
func (c *Cache) WithClock(now func() time.Time) *Cache {
	c.now = now
	return c
}

// Register installs the taxonomy source for a provider.
func (c *Cache) Register(provider string, src Source) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sources[provider] = src
	delete(c.entries, provider)
}

// Categories returns the provider's taxonomy. It never fails: fetch errors degrade
// to the provider's static fallback list.
func (c *Cache) Categories(ctx context.Context, provider string) []model.CategoryDescriptor {
	c.mu.RLock()
	src, ok := c.sources[provider]
	e, cached := c.entries[provider]
	c.mu.RUnlock()
	if !ok {
		return nil
	}
	if src.Fetch == nil {
		return src.Fallback
	}
	if cached && c.now().Sub(e.fetchedAt) < c.ttl {
		return e.items
	}

	v, _, _ := c.group.Do(provider, func() (any, error) {
		// A caller that lost the race may find the entry already refreshed.
		c.mu.RLock()
		e, cached := c.entries[provider]
		c.mu.RUnlock()
		if cached && c.now().Sub(e.fetchedAt) < c.ttl {
			return e.items, nil
		}
		// Shared by every waiting caller, so one caller's cancellation must not fail the rest.
		items, err := src.Fetch(context.WithoutCancel(ctx))
		if err != nil || len(items) == 0 {
			slog.Warn("catalog: fetch failed, using built-in categories", "provider", provider, "error", err)
			return src.Fallback, nil
		}
		items = fillLabels(items)
		c.mu.Lock()
		c.entries[provider] = entry{items: items, fetchedAt: c.now()}
		c.mu.Unlock()
		slog.Debug("catalog: refreshed", "provider", provider, "count", len(items))
		return items, nil
	})
	return v.([]model.CategoryDescriptor)
}

// Lookup finds a category by ID or label (case-insensitive).
func (c *Cache) Lookup(ctx context.Context, provider, key string) (model.CategoryDescriptor, bool) {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, d := range c.Categories(ctx, provider) {
		if strings.ToLower(d.ID) == key || strings.ToLower(d.Label) == key {
			return d, true
		}
	}
	return model.CategoryDescriptor{}, false
}

func fillLabels(items []model.CategoryDescriptor) []model.CategoryDescriptor {
	out := make([]model.CategoryDescriptor, 0, len(items))
	for _, d := range items {
		if strings.TrimSpace(d.Label) == "" {
			d.Label = Label(d.ID)
		}
		out = append(out, d)
	}
	return out
}
