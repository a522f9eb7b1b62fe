package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisReviewCache implements ReviewCache on top of a shared Redis instance.
type RedisReviewCache struct {
	client redis.Cmdable
	prefix string
}

type RedisConfig struct {
	// Prefix is prepended as "<prefix>:" to every key. Leave empty to
	// share keys with other readers of "review:*".
	Prefix string
}

// NewRedisReviewCache creates a Redis-backed cache.
func NewRedisReviewCache(client redis.Cmdable, config RedisConfig) *RedisReviewCache {
	return &RedisReviewCache{
		client: client,
		prefix: config.Prefix,
	}
}

func (c *RedisReviewCache) key(k string) string {
	if c.prefix == "" {
		return k
	}
	return c.prefix + ":" + k
}

// Get returns ("", false, nil) when the key does not exist. Other errors
// are the go-redis (or context) error as produced.
func (c *RedisReviewCache) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	res, err := c.client.Get(ctx, c.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	return res, true, nil
}

// Set stores value under key. ttl <= 0 stores without expiry.
func (c *RedisReviewCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if ttl < 0 {
		ttl = 0
	}

	return c.client.Set(ctx, c.key(key), value, ttl).Err()
}

// Ping checks if Redis connection is healthy.
func (c *RedisReviewCache) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.client.Ping(ctx).Err()
}
