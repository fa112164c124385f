package circuitbreaker

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	cb := New(DefaultConfig("test"))

	assert.Equal(t, "test", cb.Name())
	assert.Equal(t, gobreaker.StateClosed, cb.State())
	assert.False(t, cb.IsOpen())
}

func TestPingConfig(t *testing.T) {
	cfg := PingConfig("google")

	assert.Equal(t, "ping-google", cfg.Name)
	assert.Equal(t, uint32(3), cfg.MinRequests)
	assert.Equal(t, 1.0, cfg.FailureThreshold)
	assert.Equal(t, 10*time.Minute, cfg.Timeout)
}

func TestCircuitBreaker_Execute_Success(t *testing.T) {
	cb := New(DefaultConfig("test"))

	got, err := cb.Execute(func() (interface{}, error) { return "ok", nil })
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
}

func TestCircuitBreaker_TripsAfterConsecutivePingFailures(t *testing.T) {
	cb := New(PingConfig("test"))
	boom := errors.New("HTTP 503")

	for i := 0; i < 3; i++ {
		_, err := cb.Execute(func() (interface{}, error) { return nil, boom })
		require.ErrorIs(t, err, boom)
	}
	require.True(t, cb.IsOpen())

	called := false
	_, err := cb.Execute(func() (interface{}, error) {
		called = true
		return nil, nil
	})
	assert.False(t, called, "function must not run while the circuit is open")
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.True(t, IsRejected(err))
}

func TestCircuitBreaker_MinRequests(t *testing.T) {
	cb := New(DefaultConfig("test"))
	boom := errors.New("fail")

	for i := 0; i < 4; i++ {
		_, _ = cb.Execute(func() (interface{}, error) { return nil, boom })
	}
	assert.False(t, cb.IsOpen(), "below MinRequests the circuit stays closed")
}

func TestCircuitBreaker_HalfOpen(t *testing.T) {
	cb := New(Config{
		Name:             "half-open",
		MaxRequests:      1,
		Interval:         10 * time.Second,
		Timeout:          50 * time.Millisecond,
		FailureThreshold: 1.0,
		MinRequests:      1,
	})

	_, _ = cb.Execute(func() (interface{}, error) { return nil, errors.New("fail") })
	require.True(t, cb.IsOpen())

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, gobreaker.StateHalfOpen, cb.State())

	_, err := cb.Execute(func() (interface{}, error) { return "ok", nil })
	require.NoError(t, err)
	assert.Equal(t, gobreaker.StateClosed, cb.State())
}

func TestIsRejected(t *testing.T) {
	assert.True(t, IsRejected(gobreaker.ErrOpenState))
	assert.True(t, IsRejected(fmt.Errorf("ping: %w", gobreaker.ErrTooManyRequests)))
	assert.False(t, IsRejected(errors.New("HTTP 500")))
	assert.False(t, IsRejected(nil))
}
