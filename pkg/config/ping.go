package config

import (
	"fmt"
	"net/url"
	"time"
)

// PingConfig configures outgoing search engine pings.
type PingConfig struct {
	// Endpoints are the ping services; empty means the default Google endpoint.
	Endpoints []string
	Timeout   time.Duration

	RequestsPerSecond float64
	Burst             int
	UserAgent         string
}

// LoadPingConfig reads PING_ENDPOINTS, PING_TIMEOUT, PING_RATE_LIMIT,
// PING_BURST and PING_USER_AGENT.
func LoadPingConfig() (*PingConfig, error) {
	cfg := &PingConfig{
		Endpoints: GetEnvStringList("PING_ENDPOINTS", nil),
		UserAgent: GetEnvString("PING_USER_AGENT", "catchup-sitemap/1.0 (+sitemap ping)"),
	}

	var err error
	if cfg.Timeout, err = LookupEnvDuration("PING_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.RequestsPerSecond, err = LookupEnvFloat("PING_RATE_LIMIT", 1); err != nil {
		return nil, err
	}
	if cfg.Burst, err = LookupEnvInt("PING_BURST", 1); err != nil {
		return nil, err
	}

	for _, ep := range cfg.Endpoints {
		u, err := url.Parse(ep)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return nil, fmt.Errorf("PING_ENDPOINTS: invalid endpoint %q", ep)
		}
	}
	if err := ValidateDurationRange(cfg.Timeout, time.Second, 2*time.Minute); err != nil {
		return nil, fmt.Errorf("PING_TIMEOUT: %w", err)
	}
	if cfg.RequestsPerSecond <= 0 {
		return nil, fmt.Errorf("PING_RATE_LIMIT must be positive, got %v", cfg.RequestsPerSecond)
	}
	if cfg.Burst < 1 {
		return nil, fmt.Errorf("PING_BURST must be at least 1, got %d", cfg.Burst)
	}
	return cfg, nil
}
