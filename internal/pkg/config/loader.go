// Package config loads validated settings from the environment with a
// fail-open policy: an invalid value falls back to the default, is logged,
// and is counted in the component's config metrics.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"
)

// Result is the outcome of loading one setting.
type Result[T any] struct {
	Value T
	// Warning explains the fallback when FallbackApplied is set.
	Warning         string
	FallbackApplied bool
}

// Load reads key, parses it and validates it. Unset or empty variables
// yield def without a warning. validate may be nil.
func Load[T any](key string, def T, parse func(string) (T, error), validate func(T) error) Result[T] {
	raw := os.Getenv(key)
	if raw == "" {
		return Result[T]{Value: def}
	}

	v, err := parse(raw)
	if err == nil && validate != nil {
		err = validate(v)
	}
	if err != nil {
		return Result[T]{
			Value:           def,
			Warning:         fmt.Sprintf("invalid %s=%q: %v, falling back to default %v", key, raw, err, def),
			FallbackApplied: true,
		}
	}
	return Result[T]{Value: v}
}

// LoadString loads a string setting.
func LoadString(key, def string, validate func(string) error) Result[string] {
	return Load(key, def, func(s string) (string, error) { return s, nil }, validate)
}

// LoadInt loads a base-10 integer setting.
func LoadInt(key string, def int, validate func(int) error) Result[int] {
	return Load(key, def, strconv.Atoi, validate)
}

// LoadDuration loads a time.ParseDuration setting.
func LoadDuration(key string, def time.Duration, validate func(time.Duration) error) Result[time.Duration] {
	return Load(key, def, time.ParseDuration, validate)
}

// Loader applies results to a component's config, logging and counting
// every fallback.
type Loader struct {
	Logger  *slog.Logger
	Metrics *Metrics

	fallback bool
}

// Apply returns r.Value, recording the fallback of field if one happened.
func Apply[T any](l *Loader, field string, r Result[T]) T {
	if r.FallbackApplied {
		l.fallback = true
		if l.Metrics != nil {
			l.Metrics.RecordValidationError(field)
			l.Metrics.RecordFallback(field)
		}
		if l.Logger != nil {
			l.Logger.Warn("configuration fallback applied",
				slog.String("field", field),
				slog.String("warning", r.Warning))
		}
	}
	return r.Value
}

// Done publishes whether any fallback is active and the load time.
func (l *Loader) Done() {
	if l.Metrics == nil {
		return
	}
	l.Metrics.SetFallbackActive(l.fallback)
	l.Metrics.RecordLoadTimestamp()
}

// FallbackApplied reports whether any Apply call fell back.
func (l *Loader) FallbackApplied() bool {
	return l.fallback
}
