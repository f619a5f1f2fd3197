package storage

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Entry is one persisted cache row.
type Entry struct {
	Key       string
	Value     []byte
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the entry is stale at now.
func (e Entry) Expired(now time.Time) bool {
	return !now.Before(e.ExpiresAt)
}

// KV is the persistent key-value store backing cached results. Entries are
// overwritten by key and never deleted by callers.
type KV interface {
	Get(ctx context.Context, key string) (Entry, bool, error)
	Put(ctx context.Context, e Entry) error
	Close() error
}

// Driver names.
const (
	DriverSQLite = "sqlite"
	DriverBolt   = "bolt"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

// Options configures Open.
type Options struct {
	Path  string
	Redis RedisOptions
}

// RedisOptions holds redis connection settings.
type RedisOptions struct {
	Addr     string
	Username string
	Password string
	DB       int
}

// Open creates the store for driver.
func Open(driver string, opts Options) (KV, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case DriverSQLite:
		return OpenSQLite(opts.Path)
	case DriverBolt:
		return OpenBolt(opts.Path)
	case DriverRedis:
		return NewRedisStore(NewRedisClient(opts.Redis)), nil
	case DriverMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", driver)
	}
}
