package config

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestLoadString(t *testing.T) {
	t.Setenv("PING_CRON_SCHEDULE", "")
	r := LoadString("PING_CRON_SCHEDULE", "0 6 * * *", ValidateCronSchedule)
	assert.Equal(t, "0 6 * * *", r.Value)
	assert.False(t, r.FallbackApplied)

	t.Setenv("PING_CRON_SCHEDULE", "*/15 * * * *")
	r = LoadString("PING_CRON_SCHEDULE", "0 6 * * *", ValidateCronSchedule)
	assert.Equal(t, "*/15 * * * *", r.Value)

	t.Setenv("PING_CRON_SCHEDULE", "every hour")
	r = LoadString("PING_CRON_SCHEDULE", "0 6 * * *", ValidateCronSchedule)
	assert.Equal(t, "0 6 * * *", r.Value)
	assert.True(t, r.FallbackApplied)
	assert.Contains(t, r.Warning, `PING_CRON_SCHEDULE="every hour"`)
}

func TestLoadInt(t *testing.T) {
	inRange := func(v int) error { return ValidateIntRange(v, 1024, 65535) }

	tests := []struct {
		raw      string
		want     int
		fallback bool
	}{
		{raw: "9092", want: 9092},
		{raw: "80", want: 9091, fallback: true},
		{raw: "port", want: 9091, fallback: true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Setenv("WORKER_HEALTH_PORT", tt.raw)
			r := LoadInt("WORKER_HEALTH_PORT", 9091, inRange)
			assert.Equal(t, tt.want, r.Value)
			assert.Equal(t, tt.fallback, r.FallbackApplied)
		})
	}
}

func TestLoadDuration(t *testing.T) {
	t.Setenv("PING_JOB_TIMEOUT", "90s")
	r := LoadDuration("PING_JOB_TIMEOUT", 5*time.Minute, nil)
	assert.Equal(t, 90*time.Second, r.Value)

	t.Setenv("PING_JOB_TIMEOUT", "soon")
	r = LoadDuration("PING_JOB_TIMEOUT", 5*time.Minute, nil)
	assert.Equal(t, 5*time.Minute, r.Value)
	assert.True(t, r.FallbackApplied)
}

func TestLoader_Apply(t *testing.T) {
	var buf bytes.Buffer
	reg := prometheus.NewRegistry()
	l := &Loader{
		Logger:  slog.New(slog.NewJSONHandler(&buf, nil)),
		Metrics: NewMetrics(reg, "test"),
	}

	ok := Apply(l, "timezone", Result[string]{Value: "UTC"})
	assert.Equal(t, "UTC", ok)
	assert.False(t, l.FallbackApplied())

	v := Apply(l, "health_port", Result[int]{Value: 9091, Warning: "bad", FallbackApplied: true})
	assert.Equal(t, 9091, v)
	l.Done()

	assert.True(t, l.FallbackApplied())
	assert.Contains(t, buf.String(), "configuration fallback applied")
	assert.Equal(t, 1.0, testutil.ToFloat64(l.Metrics.FallbacksTotal.WithLabelValues("health_port")))
	assert.Equal(t, 1.0, testutil.ToFloat64(l.Metrics.ValidationErrorsTotal.WithLabelValues("health_port")))
	assert.Equal(t, 1.0, testutil.ToFloat64(l.Metrics.FallbackActive))
	assert.Greater(t, testutil.ToFloat64(l.Metrics.LoadTimestamp), 0.0)
}
