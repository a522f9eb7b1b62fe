package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"reviewlens-gateway/internal/cache"
	"reviewlens-gateway/internal/config"
	"reviewlens-gateway/internal/llm"
	"reviewlens-gateway/internal/review"
	"reviewlens-gateway/internal/speech"
	"reviewlens-gateway/internal/suggest"
	"reviewlens-gateway/pkg/logging/logging"
)

// deps holds the collaborators shared by serve and the one-shot commands.
type deps struct {
	cfg    *config.Config
	logger *zap.Logger

	cache     cache.ReviewCache
	pinger    cache.Pinger
	gateway   *review.Gateway
	resolver  *review.Resolver
	speaker   *speech.Speaker
	suggester *suggest.Client

	closers []func() error
}

// setup loads configuration and builds a logger. It reports failures
// itself and returns ok=false when the command should stop.
func setup() (*config.Config, *zap.Logger, bool) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fail(ExitConfigError, err)
		return nil, nil, false
	}

	logger, err := logging.Build(logging.Options{Env: cfg.Env, Level: cfg.Log.Level})
	if err != nil {
		fail(ExitConfigError, fmt.Errorf("building logger: %w", err))
		return nil, nil, false
	}

	return cfg, logger, true
}

// buildDeps wires the cache, reasoning client and outbound clients.
// The reasoning client is only built when withLLM is set.
func buildDeps(ctx context.Context, cfg *config.Config, logger *zap.Logger, withLLM bool) (*deps, error) {
	d := &deps{cfg: cfg, logger: logger}

	var redisClient *redis.Client
	if cfg.Cache.Backend == "redis" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		d.closers = append(d.closers, redisClient.Close)

		// Fail fast if Redis is misconfigured
		if err := redisClient.Ping(ctx).Err(); err != nil {
			d.Close()
			return nil, fmt.Errorf("redis connection failed: %w", err)
		}
		logger.Info("redis connection established", zap.String("addr", cfg.Redis.Addr))
	}

	inner := cache.NewReviewCache(cache.Config{
		Backend:    cfg.Cache.Backend,
		TTL:        cfg.Cache.TTL,
		MaxEntries: cfg.Cache.MaxEntries,
		Prefix:     cfg.Cache.Prefix,
	}, redisClient)
	if c, ok := inner.(io.Closer); ok {
		d.closers = append(d.closers, c.Close)
	}
	logged := cache.NewLoggingReviewCache(inner)
	d.cache = logged
	d.pinger = logged

	tts := speech.NewGoogleTTS(speech.Config{
		BaseURL:       cfg.Speech.BaseURL,
		Lang:          cfg.Speech.Lang,
		RatePerSecond: cfg.Speech.RatePerSecond,
	}, logger)
	d.speaker = speech.NewSpeaker(tts, cfg.Speech.Lang)

	d.suggester = suggest.NewClient(suggest.Config{
		BaseURL:       cfg.Suggest.BaseURL,
		Timeout:       cfg.Suggest.Timeout,
		RatePerSecond: cfg.Suggest.RatePerSecond,
	}, logger)

	if !withLLM {
		return d, nil
	}

	if err := cfg.RequireLLM(); err != nil {
		d.Close()
		return nil, err
	}

	llmClient, err := llm.NewClient(llm.Config{
		BaseURL:         cfg.LLM.BaseURL,
		ChatPath:        cfg.LLM.ChatPath,
		APIKey:          cfg.LLM.APIKey,
		Organization:    cfg.LLM.Organization,
		UpstreamTimeout: cfg.LLM.Timeout,
		MaxRetries:      cfg.LLM.MaxRetries,
	}, logger)
	if err != nil {
		d.Close()
		return nil, err
	}
	d.closers = append(d.closers, llmClient.Close)

	d.gateway = review.NewGateway(d.cache, llmClient, review.Config{
		Model: cfg.LLM.Model,
		TTL:   cfg.Cache.TTL,
	})
	d.resolver = review.NewResolver(llmClient, cfg.LLM.Model)

	return d, nil
}

// Close releases resources in reverse order of acquisition.
func (d *deps) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			d.logger.Warn("close failed", zap.Error(err))
		}
	}
	d.closers = nil
}

// commandDeps runs setup and buildDeps for a one-shot command and returns
// a context carrying the command logger.
func commandDeps(ctx context.Context, withLLM bool) (context.Context, *deps, bool) {
	cfg, logger, ok := setup()
	if !ok {
		return ctx, nil, false
	}

	d, err := buildDeps(ctx, cfg, logger, withLLM)
	if err != nil {
		_ = logger.Sync()
		fail(ExitRuntimeError, err)
		return ctx, nil, false
	}

	return logging.WithLogger(ctx, logger), d, true
}
