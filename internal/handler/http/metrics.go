package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"catchup-sitemap/internal/handler/http/pathutil"
	"catchup-sitemap/internal/observability/metrics"
)

// MetricsMiddleware records request count, latency and sizes per method,
// normalized path and status.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		metrics.ActiveConnections.Inc()
		defer metrics.ActiveConnections.Dec()

		rec := newStatusRecorder(w)
		start := time.Now()
		next.ServeHTTP(rec, r)

		metrics.RecordHTTPRequest(
			r.Method,
			pathutil.NormalizePath(r.URL.Path),
			strconv.Itoa(rec.status),
			time.Since(start),
			int(r.ContentLength),
			rec.bytes,
		)
	})
}

// MetricsHandler serves the Prometheus exposition endpoint.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
