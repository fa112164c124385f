package config

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks configuration loading of one component, as
// <component>_config_* series.
type Metrics struct {
	LoadTimestamp         prometheus.Gauge
	ValidationErrorsTotal *prometheus.CounterVec
	FallbacksTotal        *prometheus.CounterVec
	FallbackActive        prometheus.Gauge
}

// NewMetrics registers the config metrics of component with reg.
func NewMetrics(reg prometheus.Registerer, component string) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		LoadTimestamp: f.NewGauge(prometheus.GaugeOpts{
			Name: component + "_config_load_timestamp",
			Help: "Unix timestamp of the last " + component + " configuration load",
		}),
		ValidationErrorsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: component + "_config_validation_errors_total",
			Help: "Total number of " + component + " configuration validation errors",
		}, []string{"field"}),
		FallbacksTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: component + "_config_fallbacks_total",
			Help: "Total number of " + component + " configuration fallbacks to defaults",
		}, []string{"field"}),
		FallbackActive: f.NewGauge(prometheus.GaugeOpts{
			Name: component + "_config_fallback_active",
			Help: "1 if any " + component + " configuration fallback is active, 0 otherwise",
		}),
	}
}

// RecordLoadTimestamp sets the load timestamp to now.
func (m *Metrics) RecordLoadTimestamp() {
	m.LoadTimestamp.SetToCurrentTime()
}

// RecordValidationError counts an invalid value for field.
func (m *Metrics) RecordValidationError(field string) {
	m.ValidationErrorsTotal.WithLabelValues(field).Inc()
}

// RecordFallback counts a fallback to the default for field.
func (m *Metrics) RecordFallback(field string) {
	m.FallbacksTotal.WithLabelValues(field).Inc()
}

// SetFallbackActive sets the fallback gauge.
func (m *Metrics) SetFallbackActive(active bool) {
	if active {
		m.FallbackActive.Set(1)
		return
	}
	m.FallbackActive.Set(0)
}
