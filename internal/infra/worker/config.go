// Package worker holds the building blocks of the ping worker: its
// configuration, metrics, health server and the scheduled ping job.
package worker

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"catchup-sitemap/internal/pkg/config"
)

// WorkerConfig controls when and how long the ping job runs.
//
// Environment variables:
//   - PING_CRON_SCHEDULE: five-field cron expression (default "0 6 * * *")
//   - WORKER_TIMEZONE: IANA timezone of the schedule (default "UTC")
//   - PING_JOB_TIMEOUT: upper bound of one run, 10s-1h (default 5m)
//   - WORKER_HEALTH_PORT: 1024-65535 (default 9091)
type WorkerConfig struct {
	CronSchedule string
	Timezone     string
	JobTimeout   time.Duration
	HealthPort   int
}

// DefaultConfig returns a daily 06:00 UTC schedule.
func DefaultConfig() WorkerConfig {
	return WorkerConfig{
		CronSchedule: "0 6 * * *",
		Timezone:     "UTC",
		JobTimeout:   5 * time.Minute,
		HealthPort:   9091,
	}
}

func validateJobTimeout(d time.Duration) error {
	return config.ValidateDuration(d, 10*time.Second, time.Hour)
}

func validateHealthPort(p int) error {
	return config.ValidateIntRange(p, 1024, 65535)
}

// Validate reports every invalid field.
func (c *WorkerConfig) Validate() error {
	var errs []error
	if err := config.ValidateCronSchedule(c.CronSchedule); err != nil {
		errs = append(errs, fmt.Errorf("cron schedule: %w", err))
	}
	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}
	if err := validateJobTimeout(c.JobTimeout); err != nil {
		errs = append(errs, fmt.Errorf("job timeout: %w", err))
	}
	if err := validateHealthPort(c.HealthPort); err != nil {
		errs = append(errs, fmt.Errorf("health port: %w", err))
	}
	return errors.Join(errs...)
}

// Location returns the schedule's timezone. Callers validate first.
func (c *WorkerConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// LoadConfigFromEnv loads the worker configuration. Invalid values fall back
// to their defaults (fail-open), are logged, and are counted in metrics, so
// the returned config is always valid.
func LoadConfigFromEnv(logger *slog.Logger, metrics *WorkerMetrics) *WorkerConfig {
	def := DefaultConfig()
	l := &config.Loader{Logger: logger}
	if metrics != nil {
		l.Metrics = metrics.Metrics
	}

	cfg := &WorkerConfig{
		CronSchedule: config.Apply(l, "cron_schedule",
			config.LoadString("PING_CRON_SCHEDULE", def.CronSchedule, config.ValidateCronSchedule)),
		Timezone: config.Apply(l, "timezone",
			config.LoadString("WORKER_TIMEZONE", def.Timezone, config.ValidateTimezone)),
		JobTimeout: config.Apply(l, "job_timeout",
			config.LoadDuration("PING_JOB_TIMEOUT", def.JobTimeout, validateJobTimeout)),
		HealthPort: config.Apply(l, "health_port",
			config.LoadInt("WORKER_HEALTH_PORT", def.HealthPort, validateHealthPort)),
	}
	l.Done()
	return cfg
}
