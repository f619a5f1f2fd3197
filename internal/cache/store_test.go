package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"daybrief/internal/metrics"
	"daybrief/internal/storage"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenKV struct{ puts int }

func (b *brokenKV) Get(context.Context, string) (storage.Entry, bool, error) {
	return storage.Entry{}, false, errors.New("disk on fire")
}

func (b *brokenKV) Put(context.Context, storage.Entry) error {
	b.puts++
	return errors.New("disk on fire")
}

func (b *brokenKV) Close() error { return nil }

func counter(fetches *int, val []string) func(context.Context) ([]string, error) {
	return func(context.Context) ([]string, error) {
		*fetches++
		return val, nil
	}
}

func TestFetchHitsWithinWindow(t *testing.T) {
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	s := New(storage.NewMemoryStore(), func() time.Time { return now })
	w := NewsWindow(s.Now())
	key := Fingerprint("news:headlines", w, "tianapi")

	fetches := 0
	v, err := Fetch(context.Background(), s, key, w.ExpiresAt, false, counter(&fetches, []string{"a"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, v)

	v, err = Fetch(context.Background(), s, key, w.ExpiresAt, false, counter(&fetches, []string{"b"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, v)
	assert.Equal(t, 1, fetches)
}

func TestFetchAfterExpiry(t *testing.T) {
	now := time.Date(2024, 5, 1, 11, 59, 0, 0, time.UTC)
	s := New(storage.NewMemoryStore(), func() time.Time { return now })
	w := NewsWindow(now)
	key := "k"

	fetches := 0
	_, err := Fetch(context.Background(), s, key, w.ExpiresAt, false, counter(&fetches, []string{"a"}))
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	v, err := Fetch(context.Background(), s, key, w.ExpiresAt, false, counter(&fetches, []string{"b"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, v)
	assert.Equal(t, 2, fetches)
}

func TestFetchExpiringUsesReturnedExpiry(t *testing.T) {
	now := time.Date(2024, 5, 1, 7, 0, 0, 0, time.UTC)
	s := New(storage.NewMemoryStore(), func() time.Time { return now })

	fetches := 0
	short := func(context.Context) (string, time.Time, error) {
		fetches++
		return "partial", now.Add(time.Hour), nil
	}
	_, err := FetchExpiring(context.Background(), s, "k", false, short)
	require.NoError(t, err)

	now = now.Add(59 * time.Minute)
	v, err := FetchExpiring(context.Background(), s, "k", false, short)
	require.NoError(t, err)
	assert.Equal(t, "partial", v)
	assert.Equal(t, 1, fetches)

	now = now.Add(2 * time.Minute)
	_, err = FetchExpiring(context.Background(), s, "k", false, short)
	require.NoError(t, err)
	assert.Equal(t, 2, fetches)
}

func TestSkipStillWritesBack(t *testing.T) {
	s := New(storage.NewMemoryStore(), nil)
	exp := time.Now().Add(time.Hour)
	fetches := 0
	_, err := Fetch(context.Background(), s, "k", exp, false, counter(&fetches, []string{"old"}))
	require.NoError(t, err)

	v, err := Fetch(context.Background(), s, "k", exp, true, counter(&fetches, []string{"new"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"new"}, v)

	v, err = Fetch(context.Background(), s, "k", exp, false, counter(&fetches, []string{"newer"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"new"}, v)
	assert.Equal(t, 2, fetches)
}

func TestFetchErrorIsNotCached(t *testing.T) {
	s := New(storage.NewMemoryStore(), nil)
	exp := time.Now().Add(time.Hour)
	_, err := Fetch(context.Background(), s, "k", exp, false, func(context.Context) ([]string, error) {
		return nil, errors.New("upstream down")
	})
	require.Error(t, err)

	fetches := 0
	v, err := Fetch(context.Background(), s, "k", exp, false, counter(&fetches, []string{"ok"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"ok"}, v)
	assert.Equal(t, 1, fetches)
}

func TestBrokenStoreDegradesToFetch(t *testing.T) {
	kv := &brokenKV{}
	s := New(kv, nil)
	errorsBefore := testutil.ToFloat64(metrics.CacheLookups.WithLabelValues("error"))

	fetches := 0
	for i := 0; i < 2; i++ {
		v, err := Fetch(context.Background(), s, "k", time.Now().Add(time.Hour), false, counter(&fetches, []string{"live"}))
		require.NoError(t, err)
		assert.Equal(t, []string{"live"}, v)
	}
	assert.Equal(t, 2, fetches)
	assert.Equal(t, 2, kv.puts)
	assert.Equal(t, errorsBefore+2, testutil.ToFloat64(metrics.CacheLookups.WithLabelValues("error")))
}

func TestUndecodableEntryIsMiss(t *testing.T) {
	kv := storage.NewMemoryStore()
	require.NoError(t, kv.Put(context.Background(), storage.Entry{Key: "k", Value: []byte("{"), ExpiresAt: time.Now().Add(time.Hour)}))
	s := New(kv, nil)
	var out []string
	assert.False(t, s.Get(context.Background(), "k", &out))
}
