package cache

import (
	"context"
	"time"

	"reviewlens-gateway/internal/metrics"
	"reviewlens-gateway/pkg/logging/logging"

	"go.uber.org/zap"
)

// LoggingReviewCache wraps a ReviewCache with logging + metrics.
// Errors from the inner cache are returned unchanged.
type LoggingReviewCache struct {
	inner ReviewCache
}

// NewLoggingReviewCache returns a cache that logs and records metrics.
func NewLoggingReviewCache(inner ReviewCache) *LoggingReviewCache {
	return &LoggingReviewCache{inner: inner}
}

func (c *LoggingReviewCache) Get(ctx context.Context, key string) (string, bool, error) {
	start := time.Now()
	value, ok, err := c.inner.Get(ctx, key)
	latencyMs := float64(time.Since(start).Microseconds()) / 1000.0

	result := "miss"
	if err != nil {
		result = "error"
	} else if ok {
		result = "hit"
	}
	metrics.CacheRequestsTotal.WithLabelValues(result).Inc()

	fields := append(keyFields(key),
		zap.String("cache_result", result), // hit | miss | error
		zap.Float64("latency_ms", latencyMs),
	)
	if ok {
		fields = append(fields, zap.Int("value_bytes", len(value)))
	}

	logger := logging.L(ctx)
	if err != nil {
		logger.Error("review_cache_get", append(fields, zap.Error(err))...)
	} else {
		logger.Info("review_cache_get", fields...)
	}

	return value, ok, err
}

func (c *LoggingReviewCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	start := time.Now()
	err := c.inner.Set(ctx, key, value, ttl)
	latencyMs := float64(time.Since(start).Microseconds()) / 1000.0

	fields := append(keyFields(key),
		zap.Int("value_bytes", len(value)),
		zap.Duration("ttl", ttl),
		zap.Float64("latency_ms", latencyMs),
	)

	logger := logging.L(ctx)
	if err != nil {
		logger.Error("review_cache_set", append(fields, zap.Error(err))...)
	} else {
		logger.Info("review_cache_set", fields...)
	}

	return err
}

// Ping forwards to the inner cache when it supports it.
func (c *LoggingReviewCache) Ping(ctx context.Context) error {
	if p, ok := c.inner.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

func keyFields(key string) []zap.Field {
	fields := []zap.Field{zap.String("cache_key", key)}
	if product, ok := ProductFromKey(key); ok {
		fields = append(fields, zap.String("product", product))
	}
	return fields
}
