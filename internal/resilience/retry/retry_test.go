package retry

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/sony/gobreaker"
)

func fastConfig() Config {
	return Config{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		MaxDelay:     50 * time.Millisecond,
		Multiplier:   2.0,
	}
}

func TestWithBackoff(t *testing.T) {
	serverErr := &HTTPError{StatusCode: 503, Message: "Service Unavailable"}
	badRequest := &HTTPError{StatusCode: 400, Message: "Bad Request"}
	throttled := fmt.Errorf("%w: %w", ErrThrottled, errors.New("Wait(n=1) would exceed context deadline"))

	tests := []struct {
		name         string
		errs         []error // returned by successive calls; nil after the list ends
		wantAttempts int
		wantErr      error
	}{
		{name: "first ping accepted", wantAttempts: 1},
		{name: "recovers after server errors", errs: []error{serverErr, serverErr}, wantAttempts: 3},
		{name: "gives up after max attempts", errs: []error{serverErr, serverErr, serverErr, serverErr}, wantAttempts: 3, wantErr: serverErr},
		{name: "client error not retried", errs: []error{badRequest}, wantAttempts: 1, wantErr: badRequest},
		{name: "open circuit not retried", errs: []error{gobreaker.ErrOpenState}, wantAttempts: 1, wantErr: gobreaker.ErrOpenState},
		{name: "half-open circuit not retried", errs: []error{gobreaker.ErrTooManyRequests}, wantAttempts: 1, wantErr: gobreaker.ErrTooManyRequests},
		{name: "rate limiter refusal not retried", errs: []error{throttled}, wantAttempts: 1, wantErr: ErrThrottled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attempts := 0
			err := WithBackoff(context.Background(), fastConfig(), func() error {
				attempts++
				if attempts <= len(tt.errs) {
					return tt.errs[attempts-1]
				}
				return nil
			})

			if attempts != tt.wantAttempts {
				t.Errorf("attempts = %d, want %d", attempts, tt.wantAttempts)
			}
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want it to wrap %v", err, tt.wantErr)
			}
		})
	}
}

func TestWithBackoff_HonorsRetryAfter(t *testing.T) {
	cfg := fastConfig()
	cfg.MaxDelay = time.Second

	attempts := 0
	start := time.Now()
	err := WithBackoff(context.Background(), cfg, func() error {
		attempts++
		if attempts == 1 {
			return &HTTPError{StatusCode: http.StatusTooManyRequests, Message: "slow down", RetryAfter: 40 * time.Millisecond}
		}
		return nil
	})

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if attempts != 2 {
		t.Errorf("attempts = %d, want 2", attempts)
	}
	if elapsed := time.Since(start); elapsed < 40*time.Millisecond {
		t.Errorf("retried after %v, before the requested 40ms", elapsed)
	}
}

func TestWithBackoff_RetryAfterBeyondMaxDelay(t *testing.T) {
	tooLong := &HTTPError{StatusCode: http.StatusTooManyRequests, Message: "slow down", RetryAfter: time.Hour}

	attempts := 0
	err := WithBackoff(context.Background(), fastConfig(), func() error {
		attempts++
		return tooLong
	})

	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
	if !errors.Is(err, tooLong) {
		t.Errorf("error = %v, want it to wrap the 429", err)
	}
	if err == nil || !strings.Contains(err.Error(), "retry-after") {
		t.Errorf("error = %v, want it to mention retry-after", err)
	}
}

func TestWithBackoff_ContextCanceled(t *testing.T) {
	cfg := fastConfig()
	cfg.MaxAttempts = 5
	cfg.InitialDelay = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	err := WithBackoff(ctx, cfg, func() error {
		attempts++
		if attempts == 2 {
			cancel()
		}
		return &HTTPError{StatusCode: 500, Message: "Server Error"}
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if attempts != 2 {
		t.Errorf("attempts = %d, want 2", attempts)
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		retryable bool
	}{
		{"nil error", nil, false},
		{"context canceled", context.Canceled, false},
		{"deadline exceeded", fmt.Errorf("execute http request: %w", context.DeadlineExceeded), false},
		{"open circuit", gobreaker.ErrOpenState, false},
		{"half-open circuit", gobreaker.ErrTooManyRequests, false},
		{"rate limiter refusal", fmt.Errorf("%w: %w", ErrThrottled, errors.New("would exceed context deadline")), false},
		{"rate limiter canceled", fmt.Errorf("%w: %w", ErrThrottled, context.Canceled), false},
		{"server error", &HTTPError{StatusCode: 503, Message: "Service Unavailable"}, true},
		{"too many requests", &HTTPError{StatusCode: 429, Message: "Too Many Requests"}, true},
		{"request timeout", &HTTPError{StatusCode: 408, Message: "Request Timeout"}, true},
		{"bad request", &HTTPError{StatusCode: 400, Message: "Bad Request"}, false},
		{"not found", &HTTPError{StatusCode: 404, Message: "Not Found"}, false},
		{"connection refused", fmt.Errorf("execute http request: %w", syscall.ECONNREFUSED), true},
		{"connection reset", syscall.ECONNRESET, true},
		{"generic error", errors.New("some error"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.retryable {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.retryable)
			}
		})
	}
}

func TestParseRetryAfter(t *testing.T) {
	now := time.Date(2025, 7, 19, 6, 0, 0, 0, time.UTC)

	tests := []struct {
		header string
		want   time.Duration
	}{
		{"", 0},
		{"120", 2 * time.Minute},
		{" 5 ", 5 * time.Second},
		{"0", 0},
		{"-3", 0},
		{"soon", 0},
		{now.Add(90 * time.Second).Format(http.TimeFormat), 90 * time.Second},
		{now.Add(-time.Minute).Format(http.TimeFormat), 0},
	}

	for _, tt := range tests {
		if got := ParseRetryAfter(tt.header, now); got != tt.want {
			t.Errorf("ParseRetryAfter(%q) = %v, want %v", tt.header, got, tt.want)
		}
	}
}

func TestPingConfig(t *testing.T) {
	cfg := PingConfig()

	if cfg.MaxAttempts != 4 {
		t.Errorf("expected MaxAttempts=4, got %d", cfg.MaxAttempts)
	}
	if cfg.InitialDelay != 5*time.Second {
		t.Errorf("expected InitialDelay=5s, got %v", cfg.InitialDelay)
	}
	if cfg.MaxDelay != 2*time.Minute {
		t.Errorf("expected MaxDelay=2m, got %v", cfg.MaxDelay)
	}
}

func TestAddJitter(t *testing.T) {
	d := 100 * time.Millisecond

	if got := addJitter(d, 0); got != d {
		t.Errorf("addJitter(d, 0) = %v, want %v", got, d)
	}
	for i := 0; i < 20; i++ {
		if got := addJitter(d, 0.2); got < d || got > 120*time.Millisecond {
			t.Fatalf("addJitter(d, 0.2) = %v, want within [100ms, 120ms]", got)
		}
	}
	if got := addJitter(d, 5); got > 2*d {
		t.Errorf("fraction above 1 should be capped, got %v", got)
	}
}
