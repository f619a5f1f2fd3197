package storage

import (
	"context"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryStore is a process-local store, useful for tests and the web platform without redis.
type MemoryStore struct {
	c *gocache.Cache
}

func NewMemoryStore() *MemoryStore {
	// Entries carry their own expiry; go-cache never evicts them.
	return &MemoryStore{c: gocache.New(gocache.NoExpiration, 0)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (Entry, bool, error) {
	v, ok := s.c.Get(key)
	if !ok {
		return Entry{}, false, nil
	}
	return v.(Entry), true, nil
}

func (s *MemoryStore) Put(_ context.Context, e Entry) error {
	e.Value = append([]byte(nil), e.Value...)
	s.c.Set(e.Key, e, gocache.NoExpiration)
	return nil
}

func (s *MemoryStore) Close() error { return nil }
