package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for burn evaluations
const (
	outcomeOK               = "ok"
	outcomeInsufficientFuel = "insufficient_fuel"
	outcomeRejected         = "rejected"
)

// Metrics holds the collectors of one server
type Metrics struct {
	registry            *prometheus.Registry
	httpRequestsTotal   *prometheus.CounterVec
	httpDurationSeconds *prometheus.HistogramVec
	evaluationsTotal    *prometheus.CounterVec
	burnTimeSeconds     prometheus.Histogram
}

// NewMetrics registers the server collectors on a private registry
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "firemarshal_http_requests_total",
				Help: "Total number of HTTP requests.",
			},
			[]string{"path", "method", "code"},
		),
		httpDurationSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "firemarshal_http_duration_seconds",
				Help:    "HTTP request duration in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"path", "method"},
		),
		evaluationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "firemarshal_burn_evaluations_total",
				Help: "Burn evaluations by outcome.",
			},
			[]string{"outcome"},
		),
		burnTimeSeconds: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "firemarshal_burn_time_seconds",
				Help:    "Computed burn durations.",
				Buckets: prometheus.ExponentialBuckets(1, 4, 8),
			},
		),
	}

	m.registry.MustRegister(
		m.httpRequestsTotal,
		m.httpDurationSeconds,
		m.evaluationsTotal,
		m.burnTimeSeconds,
		collectors.NewGoCollector(),
	)
	return m
}

// Handler returns the Prometheus metrics HTTP handler
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) observeEvaluation(outcome string, burnTime float64) {
	m.evaluationsTotal.WithLabelValues(outcome).Inc()
	if outcome != outcomeRejected {
		m.burnTimeSeconds.Observe(burnTime)
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware records request count and duration for each request.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		code := strconv.Itoa(rw.statusCode)
		path := routeLabel(r)

		m.httpRequestsTotal.WithLabelValues(path, r.Method, code).Inc()
		m.httpDurationSeconds.WithLabelValues(path, r.Method).Observe(duration)
	})
}

// routeLabel is the matched route path, so label values stay bounded.
// ServeMux sets r.Pattern on the shared request while routing.
func routeLabel(r *http.Request) string {
	// Every route is registered with a method; anything else is a 404, 405 or redirect.
	i := strings.IndexByte(r.Pattern, ' ')
	if i < 0 {
		return "unmatched"
	}
	return r.Pattern[i+1:]
}
