// Package config reads plain settings from environment variables. The
// GetEnv* helpers fall back to the default and log a warning on invalid
// values; the LookupEnv* helpers return an error naming the variable instead.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// GetEnvString returns the variable or defaultValue when unset or empty.
//
//	baseURL := GetEnvString("SITE_BASE_URL", "https://localhost:8080")
func GetEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetEnvInt returns the variable as an integer.
func GetEnvInt(key string, defaultValue int) int {
	return getEnv(key, defaultValue, strconv.Atoi)
}

// GetEnvFloat returns the variable as a float64.
func GetEnvFloat(key string, defaultValue float64) float64 {
	return getEnv(key, defaultValue, func(s string) (float64, error) {
		return strconv.ParseFloat(s, 64)
	})
}

// GetEnvBool accepts the strconv.ParseBool forms ("1", "t", "true", "0", "f", "false", ...).
func GetEnvBool(key string, defaultValue bool) bool {
	return getEnv(key, defaultValue, strconv.ParseBool)
}

// GetEnvDuration returns the variable parsed by time.ParseDuration.
//
//	timeout := GetEnvDuration("PING_TIMEOUT", 10*time.Second)
func GetEnvDuration(key string, defaultValue time.Duration) time.Duration {
	return getEnv(key, defaultValue, time.ParseDuration)
}

// GetEnvStringList splits a comma-separated variable, trimming blanks and
// dropping empty items. An empty result yields defaultValue.
//
//	// PING_ENDPOINTS="https://a.example/ping, https://b.example/ping"
//	endpoints := GetEnvStringList("PING_ENDPOINTS", nil)
func GetEnvStringList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	parts := strings.Split(valueStr, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return defaultValue
	}
	return result
}

func getEnv[T any](key string, defaultValue T, parse func(string) (T, error)) T {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := parse(strings.TrimSpace(valueStr))
	if err != nil {
		slog.Warn("invalid value for environment variable, using default",
			slog.String("key", key),
			slog.String("value", valueStr),
			slog.Any("default", defaultValue),
			slog.String("error", err.Error()))
		return defaultValue
	}
	return value
}

// LookupEnvInt is the strict form of GetEnvInt.
func LookupEnvInt(key string, defaultValue int) (int, error) {
	return lookupEnv(key, defaultValue, strconv.Atoi)
}

// LookupEnvFloat is the strict form of GetEnvFloat.
func LookupEnvFloat(key string, defaultValue float64) (float64, error) {
	return lookupEnv(key, defaultValue, func(s string) (float64, error) {
		return strconv.ParseFloat(s, 64)
	})
}

// LookupEnvBool is the strict form of GetEnvBool.
func LookupEnvBool(key string, defaultValue bool) (bool, error) {
	return lookupEnv(key, defaultValue, strconv.ParseBool)
}

// LookupEnvDuration is the strict form of GetEnvDuration.
//
//	timeout, err := LookupEnvDuration("PING_TIMEOUT", 10*time.Second)
func LookupEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	return lookupEnv(key, defaultValue, time.ParseDuration)
}

func lookupEnv[T any](key string, defaultValue T, parse func(string) (T, error)) (T, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}

	value, err := parse(strings.TrimSpace(valueStr))
	if err != nil {
		var zero T
		return zero, fmt.Errorf("%s: invalid value %q: %w", key, valueStr, err)
	}
	return value, nil
}
