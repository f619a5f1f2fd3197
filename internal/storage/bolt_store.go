package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

var cacheBucket = []byte("cache")

// BoltStore keeps entries as JSON rows in a single bucket.
type BoltStore struct {
	db *bolt.DB
}

type boltRow struct {
	Value     []byte `json:"value"`
	ExpiresAt int64  `json:"expires_at"`
	CreatedAt int64  `json:"created_at"`
}

func OpenBolt(path string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(cacheBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}
	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Get(_ context.Context, key string) (Entry, bool, error) {
	var (
		row   boltRow
		found bool
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(cacheBucket).Get([]byte(key))
		if data == nil {
			return nil
		}
		found = true
		return json.Unmarshal(data, &row)
	})
	if err != nil || !found {
		return Entry{}, false, err
	}
	return Entry{
		Key:       key,
		Value:     row.Value,
		ExpiresAt: time.UnixMilli(row.ExpiresAt),
		CreatedAt: time.UnixMilli(row.CreatedAt),
	}, true, nil
}

func (s *BoltStore) Put(_ context.Context, e Entry) error {
	data, err := json.Marshal(boltRow{
		Value:     e.Value,
		ExpiresAt: e.ExpiresAt.UnixMilli(),
		CreatedAt: e.CreatedAt.UnixMilli(),
	})
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(cacheBucket).Put([]byte(e.Key), data)
	})
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
