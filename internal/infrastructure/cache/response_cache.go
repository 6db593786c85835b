package cache

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/avatarctic/movie-catalog-proxy/internal/core/ports"
)

var cacheLookupsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "movie_cache_lookups_total",
		Help: "Response cache lookups by result (hit, miss, error)",
	},
	[]string{"result"},
)

func init() {
	prometheus.MustRegister(cacheLookupsTotal)
}

// ResponseCache wraps a ports.Cache so that backend failures degrade to misses
// and dropped writes. It never returns an error to its caller.
type ResponseCache struct {
	backend ports.Cache
	logger  *logrus.Logger
}

// NewResponseCache wraps backend. A nil backend behaves as an always-miss cache.
func NewResponseCache(backend ports.Cache, logger *logrus.Logger) *ResponseCache {
	return &ResponseCache{backend: backend, logger: logger}
}

// Get returns the cached value for key when present and unexpired.
func (c *ResponseCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if c == nil || c.backend == nil {
		return nil, false
	}
	b, ok, err := c.backend.Get(ctx, key)
	if err != nil {
		cacheLookupsTotal.WithLabelValues("error").Inc()
		if c.logger != nil {
			c.logger.WithField("key", key).WithError(err).Warn("cache unavailable, continuing without cache")
		}
		return nil, false
	}
	if !ok || len(b) == 0 {
		cacheLookupsTotal.WithLabelValues("miss").Inc()
		return nil, false
	}
	cacheLookupsTotal.WithLabelValues("hit").Inc()
	return b, true
}

// Put stores value under key for ttl. Failures are logged and dropped.
func (c *ResponseCache) Put(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if c == nil || c.backend == nil {
		return
	}
	if err := c.backend.Set(ctx, key, value, ttl); err != nil && c.logger != nil {
		c.logger.WithFields(logrus.Fields{"key": key, "ttl": ttl.String()}).WithError(err).Warn("failed to store response in cache")
	}
}
