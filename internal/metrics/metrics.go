package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// CacheRequestsTotal counts review cache lookups by result (hit, miss, error).
	CacheRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reviewlens_cache_requests_total",
			Help: "Total number of review cache lookups by result.",
		},
		[]string{"result"},
	)

	// GenerationsTotal counts reasoning service calls.
	// kind is "review" or "identify"; outcome is "ok" or "error".
	GenerationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reviewlens_generations_total",
			Help: "Total number of reasoning service calls.",
		},
		[]string{"kind", "outcome"},
	)

	// SuggestionsTotal counts suggestion lookups by outcome (ok, degraded).
	SuggestionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reviewlens_suggestions_total",
			Help: "Total number of search suggestion lookups.",
		},
		[]string{"outcome"},
	)

	GatewayLatencySeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gateway_latency_seconds",
			Help:    "HTTP request latency for the gateway in seconds.",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 30, 60, 120},
		},
		[]string{"path", "method", "status_code"},
	)
)

// Register is called once in main() to register metrics.
func Register() {
	prometheus.MustRegister(
		CacheRequestsTotal,
		GenerationsTotal,
		SuggestionsTotal,
		GatewayLatencySeconds,
	)
}

// Handler exposes the /metrics endpoint for Prometheus to scrape.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware measures gateway latency for each HTTP request.
// The path label uses the chi route pattern so product names in
// query strings or bodies never become label values.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rec := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rec, r)

		path := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				path = pattern
			}
		}

		GatewayLatencySeconds.
			WithLabelValues(path, r.Method, strconv.Itoa(rec.statusCode)).
			Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
