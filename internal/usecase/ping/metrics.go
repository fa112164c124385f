package ping

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pingAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sitemap_ping_attempts_total",
			Help: "Total number of search engine ping attempts",
		},
		[]string{"endpoint", "result"}, // result: success|failure
	)

	pingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sitemap_ping_duration_seconds",
			Help:    "Search engine ping duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"endpoint"},
	)
)
