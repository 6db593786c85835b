package ports

import (
	"context"
	"time"
)

// Cache defines a minimal key-value cache contract.
// Implementations return errors instead of panicking so callers can treat an
// unreachable backend as a miss.
type Cache interface {
	// Get returns the raw bytes for key. ok=false if not found or expired.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores value for key with TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete removes the key; absence is not an error.
	Delete(ctx context.Context, key string) error
}

// ResponseCache is the best-effort read-through cache used for upstream reads.
// It never reports backend failures to the caller.
type ResponseCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Put(ctx context.Context, key string, value []byte, ttl time.Duration)
}
