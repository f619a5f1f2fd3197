package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"daybrief/internal/metrics"
	"daybrief/internal/storage"
)

// Store serves recent results from a persistent key-value store. It never fails a
// request: read errors count as misses and write errors are only logged.
type Store struct {
	kv  storage.KV
	now func() time.Time
}

// New wraps kv. A nil clock uses time.Now.
func New(kv storage.KV, now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{kv: kv, now: now}
}

// Now returns the store's current time; callers use it to derive windows.
func (s *Store) Now() time.Time { return s.now() }

// Get decodes a fresh entry for key into out and reports whether it did.
func (s *Store) Get(ctx context.Context, key string, out any) bool {
	if s == nil || s.kv == nil {
		return false
	}
	e, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		slog.Warn("cache: read failed, treating as miss", "key", key, "error", err)
		metrics.CacheLookups.WithLabelValues("error").Inc()
		return false
	}
	if !ok || e.Expired(s.now()) {
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		return false
	}
	if err := json.Unmarshal(e.Value, out); err != nil {
		slog.Warn("cache: undecodable entry, treating as miss", "key", key, "error", err)
		metrics.CacheLookups.WithLabelValues("error").Inc()
		return false
	}
	metrics.CacheLookups.WithLabelValues("hit").Inc()
	return true
}

// Put stores payload under key until expiresAt.
func (s *Store) Put(ctx context.Context, key string, payload any, expiresAt time.Time) {
	if s == nil || s.kv == nil {
		return
	}
	b, err := json.Marshal(payload)
	if err != nil {
		slog.Warn("cache: encode failed", "key", key, "error", err)
		return
	}
	e := storage.Entry{Key: key, Value: b, ExpiresAt: expiresAt, CreatedAt: s.now()}
	if err := s.kv.Put(ctx, e); err != nil {
		slog.Warn("cache: write failed", "key", key, "error", err)
	}
}

// Fetch returns the cached value for key, or calls fetch and stores its result.
// skip bypasses the read but still writes the fresh result back under key.
func Fetch[T any](ctx context.Context, s *Store, key string, expiresAt time.Time, skip bool, fetch func(ctx context.Context) (T, error)) (T, error) {
	return FetchExpiring(ctx, s, key, skip, func(ctx context.Context) (T, time.Time, error) {
		v, err := fetch(ctx)
		return v, expiresAt, err
	})
}

// FetchExpiring is Fetch for values whose lifetime depends on what was fetched.
func FetchExpiring[T any](ctx context.Context, s *Store, key string, skip bool, fetch func(ctx context.Context) (T, time.Time, error)) (T, error) {
	var v T
	if !skip && s.Get(ctx, key, &v) {
		return v, nil
	}
	v, expiresAt, err := fetch(ctx)
	if err != nil {
		return v, err
	}
	s.Put(ctx, key, v, expiresAt)
	return v, nil
}
