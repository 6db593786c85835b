package configs_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avatarctic/movie-catalog-proxy/configs"
)

func setRequired(t *testing.T) {
	t.Setenv("THEMOVIEDB_API_KEY", "key")
	t.Setenv("THEMOVIEDB_ACCESS_TOKEN", "token")
	t.Setenv("ACCOUNT_ID", "42")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := configs.Load()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	assert.Equal(t, configs.CacheBackendRedis, cfg.Cache.Backend)
	assert.Equal(t, 3, cfg.TMDB.MaxRetries)
	assert.Equal(t, 2.0, cfg.TMDB.BackoffFactor)
	assert.Equal(t, time.Second, cfg.TMDB.BackoffUnit)
	assert.Equal(t, "https://api.themoviedb.org/3", cfg.TMDB.BaseURL)
	assert.Equal(t, "42", cfg.TMDB.AccountID)
}

func TestLoad_CacheDurationInSeconds(t *testing.T) {
	setRequired(t)
	t.Setenv("CACHE_DURATION", "90")

	cfg, err := configs.Load()
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, cfg.Cache.TTL)
}

func TestLoad_CacheDurationAsDuration(t *testing.T) {
	setRequired(t)
	t.Setenv("CACHE_DURATION", "2m")

	cfg, err := configs.Load()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Minute, cfg.Cache.TTL)
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("THEMOVIEDB_API_KEY", "")
	t.Setenv("THEMOVIEDB_ACCESS_TOKEN", "")
	t.Setenv("ACCOUNT_ID", "")

	_, err := configs.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "THEMOVIEDB_API_KEY")
	assert.Contains(t, err.Error(), "ACCOUNT_ID")
}

func TestLoad_RejectsUnknownCacheBackend(t *testing.T) {
	setRequired(t)
	t.Setenv("CACHE_BACKEND", "memcached")

	_, err := configs.Load()
	require.Error(t, err)
}
