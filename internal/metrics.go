package internal

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tagview-api/pkg/engine"
)

// Metrics provides Prometheus metrics collection for HTTP requests and the
// snapshot pipeline
type Metrics struct {
	reqTotal   *prometheus.CounterVec
	reqLatency *prometheus.HistogramVec

	snapshotsLoaded prometheus.Counter
	rowsAccepted    prometheus.Counter
	rowWarnings     prometheus.Counter
	alertsEmitted   *prometheus.CounterVec

	registry *prometheus.Registry
}

// NewMetrics creates a new Metrics instance with a private Prometheus registry
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	reqTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	reqLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	snapshotsLoaded := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "snapshots_loaded_total",
		Help: "Snapshots successfully processed",
	})

	rowsAccepted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "snapshot_rows_accepted_total",
		Help: "Asset rows accepted across all loaded snapshots",
	})

	rowWarnings := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "snapshot_row_warnings_total",
		Help: "Row warnings emitted across all loaded snapshots",
	})

	alertsEmitted := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alerts_emitted_total",
			Help: "Alerts emitted across all loaded snapshots",
		},
		[]string{"kind", "severity"},
	)

	registry.MustRegister(reqTotal, reqLatency, snapshotsLoaded, rowsAccepted, rowWarnings, alertsEmitted)

	return &Metrics{
		reqTotal:        reqTotal,
		reqLatency:      reqLatency,
		snapshotsLoaded: snapshotsLoaded,
		rowsAccepted:    rowsAccepted,
		rowWarnings:     rowWarnings,
		alertsEmitted:   alertsEmitted,
		registry:        registry,
	}
}

// ObserveSnapshot records pipeline counters for a freshly processed snapshot
func (m *Metrics) ObserveSnapshot(snap *engine.Snapshot) {
	m.snapshotsLoaded.Inc()
	m.rowsAccepted.Add(float64(len(snap.Records)))
	m.rowWarnings.Add(float64(len(snap.Warnings)))
	for _, alert := range snap.Alerts {
		m.alertsEmitted.WithLabelValues(string(alert.Kind), string(alert.Severity)).Inc()
	}
}

// Middleware returns a Chi middleware that collects metrics
func (m *Metrics) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Create a response writer that captures the status code
			rw := &statusRecorder{ResponseWriter: w, code: http.StatusOK}

			// Process the request
			next.ServeHTTP(rw, r)

			// Get the path (use Chi's route pattern if available)
			path := r.URL.Path
			if chiCtx := chi.RouteContext(r.Context()); chiCtx != nil && len(chiCtx.RoutePatterns) > 0 {
				path = chiCtx.RoutePatterns[len(chiCtx.RoutePatterns)-1]
			}

			// Record metrics
			status := http.StatusText(rw.code)
			m.reqTotal.WithLabelValues(r.Method, path, status).Inc()
			m.reqLatency.WithLabelValues(r.Method, path, status).Observe(time.Since(start).Seconds())
		})
	}
}

// Handler returns an http.Handler that serves Prometheus metrics
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// statusRecorder captures the HTTP status code for metrics
type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.code = code
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	return sr.ResponseWriter.Write(b)
}
