package cache

import (
	"time"

	"github.com/redis/go-redis/v9"
)

type Config struct {
	Backend    string
	TTL        time.Duration
	MaxEntries int
	Prefix     string
}

// NewReviewCache picks the backend named in cfg. Anything other than
// "redis" yields the in-memory cache.
func NewReviewCache(cfg Config, redisClient redis.Cmdable) ReviewCache {
	switch cfg.Backend {
	case "redis":
		return NewRedisReviewCache(redisClient, RedisConfig{
			Prefix: cfg.Prefix,
		})
	default:
		return NewMemoryReviewCache(0, cfg.MaxEntries)
	}
}
