// Package metrics provides Prometheus metrics for diskusage.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP request metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "diskusage_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "diskusage_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Size cache metrics
	sizeCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "diskusage_size_cache_lookups_total",
			Help: "Size cache lookups by result (hit, miss, corrupt, error)",
		},
		[]string{"result"},
	)

	sizeCacheWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "diskusage_size_cache_writes_total",
			Help: "Size cache writes by status",
		},
		[]string{"status"},
	)

	// Aggregation metrics
	aggregationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "diskusage_aggregation_duration_seconds",
			Help:    "Time to aggregate a directory tree",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		},
	)

	aggregationFiles = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "diskusage_aggregated_files_total",
			Help: "Total number of regular files visited by aggregations",
		},
	)

	retainerResorts = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "diskusage_retainer_resorts",
			Help:    "Resorts performed by a top-n retainer during one aggregation",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		},
		[]string{"kind"},
	)
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordCacheLookup records the outcome of a size cache lookup.
func RecordCacheLookup(result string) {
	sizeCacheLookups.WithLabelValues(result).Inc()
}

// RecordCacheWrite records a size cache write.
func RecordCacheWrite(success bool) {
	status := "success"
	if !success {
		status = "error"
	}

	sizeCacheWrites.WithLabelValues(status).Inc()
}

// RecordAggregation records a completed aggregation.
func RecordAggregation(duration time.Duration, files uint64, fileResorts, dirResorts uint64) {
	aggregationDuration.Observe(duration.Seconds())
	aggregationFiles.Add(float64(files))
	retainerResorts.WithLabelValues("files").Observe(float64(fileResorts))
	retainerResorts.WithLabelValues("dirs").Observe(float64(dirResorts))
}

// Middleware wraps an HTTP handler with request metrics.
// The route label is the matched mux pattern, not the raw URL.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &StatusWriter{ResponseWriter: w, Status: http.StatusOK}

		next.ServeHTTP(sw, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}

		RecordHTTPRequest(r.Method, route, sw.Status, time.Since(start))
	})
}

// StatusWriter captures the status code written through it.
type StatusWriter struct {
	http.ResponseWriter
	Status int
}

// WriteHeader implements http.ResponseWriter.
func (w *StatusWriter) WriteHeader(code int) {
	w.Status = code
	w.ResponseWriter.WriteHeader(code)
}
