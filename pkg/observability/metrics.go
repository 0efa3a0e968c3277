// Package observability wires the Prometheus collectors for the HTTP surface
// and the route engine.
package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// EngineMetrics counts route-engine outcomes.
type EngineMetrics struct {
	Optimizations    *prometheus.CounterVec
	OptimizeDuration prometheus.Histogram
	MatrixFallbacks  prometheus.Counter
	CoffeeBreaks     prometheus.Counter
}

// NewEngineMetrics registers the engine collectors on reg.
func NewEngineMetrics(reg prometheus.Registerer) *EngineMetrics {
	factory := promauto.With(reg)
	return &EngineMetrics{
		Optimizations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "route_optimizations_total",
			Help: "Route optimizations by outcome (ok, degraded, infeasible).",
		}, []string{"outcome"}),
		OptimizeDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "route_optimization_duration_seconds",
			Help:    "Wall time spent building one route.",
			Buckets: prometheus.DefBuckets,
		}),
		MatrixFallbacks: factory.NewCounter(prometheus.CounterOpts{
			Name: "distance_matrix_fallbacks_total",
			Help: "Distance matrices served by the straight-line estimator.",
		}),
		CoffeeBreaks: factory.NewCounter(prometheus.CounterOpts{
			Name: "coffee_breaks_inserted_total",
			Help: "Coffee breaks inserted into produced routes.",
		}),
	}
}

// HTTPMetrics instruments the router.
type HTTPMetrics struct {
	Requests *prometheus.CounterVec
	Duration *prometheus.HistogramVec
}

// NewHTTPMetrics registers the HTTP collectors on reg.
func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	factory := promauto.With(reg)
	return &HTTPMetrics{
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by route pattern, method and status.",
		}, []string{"pattern", "method", "status"}),
		Duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern and method.",
			Buckets: prometheus.DefBuckets,
		}, []string{"pattern", "method"}),
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Middleware records request counts and latencies. The mux route pattern
// keeps label cardinality bounded.
func (m *HTTPMetrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		pattern := r.Pattern
		if pattern == "" {
			pattern = "unmatched"
		}
		m.Requests.WithLabelValues(pattern, r.Method, strconv.Itoa(rec.status)).Inc()
		m.Duration.WithLabelValues(pattern, r.Method).Observe(time.Since(started).Seconds())
	})
}

// MetricsHandler exposes the registry on /metrics.
func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
