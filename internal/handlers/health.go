package handlers

import (
	"context"
	"net/http"
	"time"

	"reviewlens-gateway/internal/cache"
)

// Healthz reports process liveness.
func Healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Readyz reports whether the review cache backend answers. A nil pinger
// is always ready.
func Readyz(p cache.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if p == nil {
			Healthz(w, r)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := p.Ping(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, errorResponse{
				Error:  "cache_unavailable",
				Detail: err.Error(),
			})
			return
		}
		Healthz(w, r)
	}
}
