package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"reviewlens-gateway/internal/handlers"
	"reviewlens-gateway/internal/httpserver"
	"reviewlens-gateway/internal/metrics"
)

var flagPort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP gateway",
	Run: func(cmd *cobra.Command, args []string) {
		if err := serve(cmd.Context()); err != nil {
			fail(ExitRuntimeError, err)
		}
	},
}

func init() {
	serveCmd.Flags().StringVar(&flagPort, "port", "", "listen port (overrides server.port)")
}

func serve(ctx context.Context) error {
	cfg, logger, ok := setup()
	if !ok {
		return nil
	}
	defer logger.Sync()

	if flagPort != "" {
		cfg.Server.Port = flagPort
	}

	metrics.Register()

	logger.Info("loaded config",
		zap.String("env", cfg.Env),
		zap.String("port", cfg.Server.Port),
		zap.String("cache_backend", cfg.Cache.Backend),
		zap.Duration("cache_ttl", cfg.Cache.TTL),
		zap.String("redis_addr", cfg.Redis.Addr),
		zap.String("llm_base_url", cfg.LLM.BaseURL),
		zap.String("llm_model", cfg.LLM.Model),
	)

	d, err := buildDeps(ctx, cfg, logger, true)
	if err != nil {
		logger.Error("startup failed", zap.Error(err))
		return err
	}
	defer d.Close()

	reviews := handlers.NewReviewHandler(d.gateway, d.resolver, d.speaker, d.suggester)

	r := chi.NewRouter()
	httpserver.SetupRouter(r, logger, reviews, d.pinger, httpserver.Options{
		RequestTimeout: cfg.Server.RequestTimeout,
		MaxBodyBytes:   cfg.Server.MaxBodyBytes,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.Server.RequestTimeout + 10*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	logger.Info("starting gateway",
		zap.String("addr", srv.Addr),
		zap.String("cache_backend", cfg.Cache.Backend),
	)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", zap.Error(err))
			return err
		}
		return nil
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
		return err
	}

	logger.Info("server shutdown complete")
	return nil
}
