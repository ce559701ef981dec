// Public domain.

// Package metrics holds the prometheus collectors of the batch engine and
// the HTTP service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	batchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "altaz_batches_total",
			Help: "Total number of batch transforms, by execution mode.",
		},
		[]string{"mode"},
	)

	objectsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "altaz_objects_total",
			Help: "Total number of objects transformed, by result.",
		},
		[]string{"result"},
	)

	batchDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "altaz_batch_duration_seconds",
			Help:    "Batch transform duration in seconds.",
			Buckets: prometheus.ExponentialBuckets(1e-5, 4, 10),
		},
		[]string{"mode"},
	)

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "altaz_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"path", "method", "code"},
	)

	httpDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "altaz_http_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)
)

func init() {
	prometheus.MustRegister(batchesTotal)
	prometheus.MustRegister(objectsTotal)
	prometheus.MustRegister(batchDurationSeconds)
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(httpDurationSeconds)
}

// Batch execution modes.
const (
	Sequential = "sequential"
	Parallel   = "parallel"
)

// ObserveBatch records one completed batch.
func ObserveBatch(mode string, ok, failed int, d time.Duration) {
	batchesTotal.WithLabelValues(mode).Inc()
	objectsTotal.WithLabelValues("ok").Add(float64(ok))
	objectsTotal.WithLabelValues("error").Add(float64(failed))
	batchDurationSeconds.WithLabelValues(mode).Observe(d.Seconds())
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
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

// known routes; anything else is labeled "other" to bound cardinality
var routes = map[string]bool{
	"/":                   true,
	"/healthz":            true,
	"/metrics":            true,
	"/api/v1/altaz":       true,
	"/api/v1/sidereal":    true,
	"/api/v1/galactic":    true,
	"/api/v1/airmass":     true,
	"/api/v1/leapseconds": true,
}

func normalizeRoute(path string) string {
	if routes[path] {
		return path
	}
	return "other"
}

// Middleware records request count and duration for each request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		code := strconv.Itoa(rw.statusCode)
		path := normalizeRoute(r.URL.Path)

		httpRequestsTotal.WithLabelValues(path, r.Method, code).Inc()
		httpDurationSeconds.WithLabelValues(path, r.Method).Observe(duration)
	})
}
