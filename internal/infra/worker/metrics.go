package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"catchup-sitemap/internal/pkg/config"
)

// WorkerMetrics embeds the worker_config_* metrics and adds the ping job
// series:
//   - worker_ping_job_runs_total{status}
//   - worker_ping_job_duration_seconds
//   - worker_ping_job_endpoints_total{result}
//   - worker_ping_job_last_success_timestamp
type WorkerMetrics struct {
	*config.Metrics

	JobRunsTotal         *prometheus.CounterVec
	JobDurationSeconds   prometheus.Histogram
	EndpointsTotal       *prometheus.CounterVec
	LastSuccessTimestamp prometheus.Gauge
}

// NewWorkerMetrics registers the worker metrics with reg.
func NewWorkerMetrics(reg prometheus.Registerer) *WorkerMetrics {
	f := promauto.With(reg)
	return &WorkerMetrics{
		Metrics: config.NewMetrics(reg, "worker"),

		JobRunsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_ping_job_runs_total",
			Help: "Total number of ping job runs by status (success/failure)",
		}, []string{"status"}),

		JobDurationSeconds: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "worker_ping_job_duration_seconds",
			Help:    "Duration of ping job runs in seconds",
			Buckets: []float64{0.5, 1, 5, 15, 30, 60, 180, 300}, // retries push runs into minutes
		}),

		EndpointsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_ping_job_endpoints_total",
			Help: "Total number of endpoint pings made by the job by result (success/failure)",
		}, []string{"result"}),

		LastSuccessTimestamp: f.NewGauge(prometheus.GaugeOpts{
			Name: "worker_ping_job_last_success_timestamp",
			Help: "Unix timestamp of the last successful ping job run",
		}),
	}
}

func (m *WorkerMetrics) RecordJobRun(status string) {
	m.JobRunsTotal.WithLabelValues(status).Inc()
}

func (m *WorkerMetrics) RecordJobDuration(seconds float64) {
	m.JobDurationSeconds.Observe(seconds)
}

// RecordEndpoints counts the per-endpoint outcomes of one run.
func (m *WorkerMetrics) RecordEndpoints(succeeded, failed int) {
	m.EndpointsTotal.WithLabelValues("success").Add(float64(succeeded))
	m.EndpointsTotal.WithLabelValues("failure").Add(float64(failed))
}

func (m *WorkerMetrics) RecordLastSuccess() {
	m.LastSuccessTimestamp.SetToCurrentTime()
}
