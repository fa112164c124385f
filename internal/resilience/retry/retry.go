// Package retry retries search engine pings with exponential backoff and
// jitter. The ping service never retries on its own; callers wrap it with
// WithBackoff.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net"
	"net/http"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/sony/gobreaker"
)

// ErrThrottled marks a ping that never left the process because the
// outbound rate limiter could not admit it before the context ended.
var ErrThrottled = errors.New("rate limiter")

// Config is a backoff policy.
type Config struct {
	MaxAttempts  int
	InitialDelay time.Duration
	// MaxDelay caps the backoff. A Retry-After longer than MaxDelay ends the
	// retries instead of being shortened.
	MaxDelay   time.Duration
	Multiplier float64
	// JitterFraction in [0, 1] is added on top of each backoff delay.
	JitterFraction float64
}

// PingConfig returns the policy the worker applies around a search engine
// ping. Search engines throttle aggressively, so attempts are few and spaced.
func PingConfig() Config {
	return Config{
		MaxAttempts:    4,
		InitialDelay:   5 * time.Second,
		MaxDelay:       2 * time.Minute,
		Multiplier:     3.0,
		JitterFraction: 0.2,
	}
}

// HTTPError is a non-2xx answer from a ping endpoint.
type HTTPError struct {
	StatusCode int
	Message    string
	// RetryAfter is the delay the endpoint asked for, zero when it sent none.
	RetryAfter time.Duration
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// ParseRetryAfter reads a Retry-After header given either as delay seconds
// or as an HTTP date. Missing, malformed or past values yield zero.
func ParseRetryAfter(header string, now time.Time) time.Duration {
	header = strings.TrimSpace(header)
	if header == "" {
		return 0
	}
	if secs, err := strconv.Atoi(header); err == nil {
		if secs <= 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	at, err := http.ParseTime(header)
	if err != nil || !at.After(now) {
		return 0
	}
	return at.Sub(now)
}

// IsRetryable reports whether another ping attempt may succeed.
//
//   - context cancellation and deadlines: no
//   - open or half-open circuit: no, the breaker decides when to try again
//   - rate limiter refusals: no, the deadline that caused them still holds
//   - network timeouts and refused or reset connections: yes
//   - HTTP 5xx, 408 and 429: yes
func IsRetryable(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return false
	case errors.Is(err, ErrThrottled):
		return false
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		code := httpErr.StatusCode
		return code >= 500 || code == http.StatusTooManyRequests || code == http.StatusRequestTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ETIMEDOUT) ||
		errors.Is(err, syscall.ENETUNREACH)
}

// retryAfter returns the delay requested by the endpoint behind err.
func retryAfter(err error) time.Duration {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.RetryAfter
	}
	return 0
}

// WithBackoff calls fn until it succeeds, fails with a non-retryable error
// or MaxAttempts calls were made. A Retry-After sent by the endpoint replaces
// the backoff delay for that wait.
func WithBackoff(ctx context.Context, cfg Config, fn func() error) error {
	backoff := cfg.InitialDelay
	var err error

	for attempt := 1; ; attempt++ {
		if err = fn(); err == nil {
			if attempt > 1 {
				slog.Info("ping succeeded after retry", slog.Int("attempt", attempt))
			}
			return nil
		}
		if !IsRetryable(err) {
			slog.Warn("ping failed, not retryable",
				slog.Int("attempt", attempt),
				slog.Any("error", err))
			return err
		}
		if attempt >= cfg.MaxAttempts {
			return fmt.Errorf("max retry attempts (%d) exceeded: %w", cfg.MaxAttempts, err)
		}

		wait := addJitter(backoff, cfg.JitterFraction)
		if ra := retryAfter(err); ra > 0 {
			if ra > cfg.MaxDelay {
				return fmt.Errorf("retry-after %s exceeds max delay %s: %w", ra, cfg.MaxDelay, err)
			}
			wait = ra
		}

		slog.Warn("ping failed, retrying",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", cfg.MaxAttempts),
			slog.Duration("delay", wait),
			slog.Any("error", err))

		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("retry aborted: %w", ctx.Err())
		}

		backoff = min(time.Duration(float64(backoff)*cfg.Multiplier), cfg.MaxDelay)
	}
}

func addJitter(d time.Duration, fraction float64) time.Duration {
	if fraction <= 0 {
		return d
	}
	fraction = min(fraction, 1.0)
	// #nosec G404 -- jitter does not need cryptographic randomness
	return d + time.Duration(rand.Float64()*float64(d)*fraction)
}
