package review

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"reviewlens-gateway/internal/cache"
	"reviewlens-gateway/internal/llm"
	"reviewlens-gateway/internal/metrics"
	"reviewlens-gateway/pkg/logging/logging"
)

const (
	DefaultModel = "gpt-4o-mini"

	// ReviewMaxTokens is the generation budget for a full review.
	ReviewMaxTokens = 4096
)

// Config controls model selection and cache entry lifetime.
// A zero TTL stores reviews without expiry.
type Config struct {
	Model string
	TTL   time.Duration
}

// Gateway returns product reviews, generating them on cache miss.
//
// Concurrent misses for the same product are not coalesced: each caller
// generates and writes, and the last write wins.
type Gateway struct {
	cache cache.ReviewCache
	llm   llm.Client
	model string
	ttl   time.Duration
}

func NewGateway(c cache.ReviewCache, client llm.Client, cfg Config) *Gateway {
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	return &Gateway{
		cache: c,
		llm:   client,
		model: model,
		ttl:   cfg.TTL,
	}
}

// Analysis returns the review for productID. A cached review is returned
// as stored. Errors from the cache or the reasoning service are returned
// unchanged and nothing is retried.
func (g *Gateway) Analysis(ctx context.Context, productID string) (string, error) {
	start := time.Now()
	logger := logging.L(ctx)
	key := cache.ReviewKey(productID)

	cached, hit, err := g.cache.Get(ctx, key)
	if err != nil {
		return "", err
	}
	if hit {
		logger.Info("analysis_decision",
			zap.String("product", productID),
			zap.Bool("cache_hit", true),
			zap.Duration("total_latency", time.Since(start)),
		)
		return cached, nil
	}

	llmStart := time.Now()
	resp, err := g.llm.ChatCompletion(ctx, g.reviewRequest(productID))
	if err != nil {
		metrics.GenerationsTotal.WithLabelValues("review", "error").Inc()
		return "", err
	}
	text, err := resp.Text()
	if err != nil {
		metrics.GenerationsTotal.WithLabelValues("review", "error").Inc()
		return "", err
	}
	metrics.GenerationsTotal.WithLabelValues("review", "ok").Inc()
	llmLatency := time.Since(llmStart)

	analysis := strings.TrimSpace(text)

	if err := g.cache.Set(ctx, key, analysis, g.ttl); err != nil {
		return "", err
	}

	logger.Info("analysis_decision",
		zap.String("product", productID),
		zap.Bool("cache_hit", false),
		zap.Int("analysis_bytes", len(analysis)),
		zap.Duration("llm_latency", llmLatency),
		zap.Duration("total_latency", time.Since(start)),
	)

	return analysis, nil
}

func (g *Gateway) reviewRequest(productID string) *llm.ChatRequest {
	return &llm.ChatRequest{
		Model: g.model,
		Messages: []llm.ChatMessage{
			{Role: llm.RoleSystem, Content: ReviewPrompt(productID)},
			{Role: llm.RoleUser, Content: productID},
		},
		MaxTokens: ReviewMaxTokens,
	}
}
