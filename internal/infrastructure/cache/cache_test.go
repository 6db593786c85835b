package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avatarctic/movie-catalog-proxy/internal/infrastructure/cache"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type brokenBackend struct{}

func (brokenBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, errors.New("dial tcp 127.0.0.1:6379: connection refused")
}
func (brokenBackend) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return errors.New("dial tcp 127.0.0.1:6379: connection refused")
}
func (brokenBackend) Delete(ctx context.Context, key string) error { return nil }

func TestMemoryCache_GetAfterPutWithinTTL(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := cache.NewMemoryCacheWithClock(clock.Now)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "popular_movies", []byte(`{"results":[]}`), 30*time.Second))

	clock.Advance(29 * time.Second)
	v, ok, err := c.Get(ctx, "popular_movies")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"results":[]}`, string(v))
}

func TestMemoryCache_ExpiresAfterTTL(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := cache.NewMemoryCacheWithClock(clock.Now)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "favorite_movies_42", []byte(`{}`), 30*time.Second))
	clock.Advance(30 * time.Second)

	_, ok, err := c.Get(ctx, "favorite_movies_42")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryCache_Delete(t *testing.T) {
	c := cache.NewMemoryCache()
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	require.NoError(t, c.Delete(ctx, "k"))
	_, ok, _ := c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestResponseCache_RoundTrip(t *testing.T) {
	rc := cache.NewResponseCache(cache.NewMemoryCache(), logrus.New())
	ctx := context.Background()

	_, ok := rc.Get(ctx, "rated_movies_42")
	assert.False(t, ok)

	rc.Put(ctx, "rated_movies_42", []byte(`{"results":[{"id":1}]}`), time.Minute)
	v, ok := rc.Get(ctx, "rated_movies_42")
	require.True(t, ok)
	assert.JSONEq(t, `{"results":[{"id":1}]}`, string(v))
}

func TestResponseCache_UnavailableBackendDegradesToMiss(t *testing.T) {
	rc := cache.NewResponseCache(brokenBackend{}, logrus.New())
	ctx := context.Background()

	assert.NotPanics(t, func() { rc.Put(ctx, "popular_movies", []byte(`{}`), time.Minute) })
	_, ok := rc.Get(ctx, "popular_movies")
	assert.False(t, ok)
}

func TestResponseCache_NilBackend(t *testing.T) {
	rc := cache.NewResponseCache(nil, nil)
	rc.Put(context.Background(), "k", []byte("v"), time.Minute)
	_, ok := rc.Get(context.Background(), "k")
	assert.False(t, ok)
}
