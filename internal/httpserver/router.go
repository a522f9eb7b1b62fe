package httpserver

import (
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"reviewlens-gateway/internal/cache"
	"reviewlens-gateway/internal/handlers"
	"reviewlens-gateway/internal/metrics"
	"reviewlens-gateway/internal/middleware"
)

// Options tunes the per-request limits applied to /v1 routes.
type Options struct {
	RequestTimeout time.Duration
	MaxBodyBytes   int64
}

func SetupRouter(r *chi.Mux, baseLogger *zap.Logger, reviews *handlers.ReviewHandler, ready cache.Pinger, opts Options) {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 150 * time.Second
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 10 << 20
	}

	r.Use(metrics.Middleware)

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)

	r.Use(middleware.LoggingContext(baseLogger))
	r.Use(middleware.Recoverer())

	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.Timeout(opts.RequestTimeout))
		r.Use(middleware.MaxBodySize(opts.MaxBodyBytes))

		r.Post("/reviews", reviews.Review)
		r.Post("/reviews/upload", reviews.Upload("upload"))
		r.Post("/reviews/capture", reviews.Upload("capture"))
		r.Get("/suggestions", reviews.Suggestions)
		r.Post("/speech", reviews.Speech)
	})

	r.Get("/healthz", handlers.Healthz)
	r.Get("/readyz", handlers.Readyz(ready))

	r.Handle("/metrics", metrics.Handler())
}
