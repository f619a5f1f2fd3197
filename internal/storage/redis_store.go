package storage

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// retention keeps stale rows around after expiry so they can be inspected; they are
// overwritten by the next successful fetch for the same key anyway.
const retention = 7 * 24 * time.Hour

// NewRedisClient creates a Redis client from options.
func NewRedisClient(o RedisOptions) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     o.Addr,
		Username: o.Username,
		Password: o.Password,
		DB:       o.DB,
	})
}

// RedisStore keeps each entry as a hash with value, expires_at, and created_at fields.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func entryKey(key string) string {
	return fmt.Sprintf("daybrief:cache:%s", key)
}

func (s *RedisStore) Get(ctx context.Context, key string) (Entry, bool, error) {
	m, err := s.rdb.HGetAll(ctx, entryKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, err
	}
	if len(m) == 0 {
		return Entry{}, false, nil
	}
	exp, err := strconv.ParseInt(m["expires_at"], 10, 64)
	if err != nil {
		return Entry{}, false, fmt.Errorf("redis: bad expires_at for %s: %w", key, err)
	}
	created, _ := strconv.ParseInt(m["created_at"], 10, 64)
	return Entry{
		Key:       key,
		Value:     []byte(m["value"]),
		ExpiresAt: time.UnixMilli(exp),
		CreatedAt: time.UnixMilli(created),
	}, true, nil
}

func (s *RedisStore) Put(ctx context.Context, e Entry) error {
	k := entryKey(e.Key)
	pipe := s.rdb.TxPipeline()
	pipe.HSet(ctx, k,
		"value", e.Value,
		"expires_at", e.ExpiresAt.UnixMilli(),
		"created_at", e.CreatedAt.UnixMilli(),
	)
	pipe.ExpireAt(ctx, k, e.ExpiresAt.Add(retention))
	_, err := pipe.Exec(ctx)
	return err
}

// Ping checks connectivity.
func (s *RedisStore) Ping(ctx context.Context) (string, error) {
	return s.rdb.Ping(ctx).Result()
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
