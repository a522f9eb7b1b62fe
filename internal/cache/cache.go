package cache

import (
	"context"
	"time"
)

// ReviewCache stores generated review text by cache key.
// Implemented by the memory cache (dev) and the Redis cache (prod).
// A ttl of zero stores the value without expiry.
type ReviewCache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
}

// Pinger is implemented by backends that can report connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}
