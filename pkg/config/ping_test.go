package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearPingEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"PING_ENDPOINTS", "PING_TIMEOUT", "PING_RATE_LIMIT", "PING_BURST", "PING_USER_AGENT"} {
		t.Setenv(k, "")
	}
}

func TestLoadPingConfig(t *testing.T) {
	clearPingEnv(t)

	cfg, err := LoadPingConfig()
	require.NoError(t, err)
	assert.Empty(t, cfg.Endpoints)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.InDelta(t, 1.0, cfg.RequestsPerSecond, 1e-9)
	assert.Equal(t, 1, cfg.Burst)

	t.Setenv("PING_ENDPOINTS", "https://a.example/ping,https://b.example/ping")
	t.Setenv("PING_TIMEOUT", "3s")
	cfg, err = LoadPingConfig()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example/ping", "https://b.example/ping"}, cfg.Endpoints)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
}

func TestLoadPingConfig_Invalid(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"PING_ENDPOINTS", "ftp://a.example/ping"},
		{"PING_TIMEOUT", "10m"},
		{"PING_TIMEOUT", "soon"},
		{"PING_RATE_LIMIT", "-1"},
		{"PING_RATE_LIMIT", "fast"},
		{"PING_BURST", "0"},
		{"PING_BURST", "1.5"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			clearPingEnv(t)
			t.Setenv(tt.key, tt.value)
			_, err := LoadPingConfig()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}
