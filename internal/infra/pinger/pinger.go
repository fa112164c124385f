// Package pinger sends sitemap pings to search engines over HTTP.
package pinger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"catchup-sitemap/internal/resilience/circuitbreaker"
	"catchup-sitemap/internal/resilience/retry"
)

// Config contains the HTTP client settings for pings.
type Config struct {
	// Timeout bounds each ping request.
	Timeout time.Duration

	// RequestsPerSecond and Burst throttle pings across all endpoints.
	RequestsPerSecond float64
	Burst             int

	UserAgent string
}

// DefaultConfig returns a 10s timeout and at most one ping per second.
func DefaultConfig() Config {
	return Config{
		Timeout:           10 * time.Second,
		RequestsPerSecond: 1,
		Burst:             1,
		UserAgent:         "catchup-sitemap/1.0 (+sitemap ping)",
	}
}

// HTTPPinger implements ping.Pinger. Each endpoint gets its own circuit
// breaker so one failing search engine does not block the others.
type HTTPPinger struct {
	config  Config
	client  *http.Client
	limiter *rate.Limiter

	mu       sync.Mutex
	breakers map[string]*circuitbreaker.CircuitBreaker
}

func New(config Config) *HTTPPinger {
	if config.RequestsPerSecond <= 0 {
		config.RequestsPerSecond = 1
	}
	if config.Burst <= 0 {
		config.Burst = 1
	}
	return &HTTPPinger{
		config:   config,
		client:   &http.Client{Timeout: config.Timeout},
		limiter:  rate.NewLimiter(rate.Limit(config.RequestsPerSecond), config.Burst),
		breakers: make(map[string]*circuitbreaker.CircuitBreaker),
	}
}

func (p *HTTPPinger) breaker(endpoint string) *circuitbreaker.CircuitBreaker {
	p.mu.Lock()
	defer p.mu.Unlock()

	cb, ok := p.breakers[endpoint]
	if !ok {
		name := endpoint
		if u, err := url.Parse(endpoint); err == nil && u.Host != "" {
			name = u.Host
		}
		cb = circuitbreaker.New(circuitbreaker.PingConfig(name))
		p.breakers[endpoint] = cb
	}
	return cb
}

// EndpointStatus is the circuit breaker state of one pinged endpoint.
type EndpointStatus struct {
	Endpoint           string `json:"endpoint"`
	State              string `json:"state"`
	CircuitBreakerOpen bool   `json:"circuit_breaker_open"`
}

// EndpointHealth lists the endpoints pinged so far, sorted by endpoint.
func (p *HTTPPinger) EndpointHealth() []EndpointStatus {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]EndpointStatus, 0, len(p.breakers))
	for ep, cb := range p.breakers {
		out = append(out, EndpointStatus{
			Endpoint:           ep,
			State:              cb.State().String(),
			CircuitBreakerOpen: cb.IsOpen(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Endpoint < out[j].Endpoint })
	return out
}

// BuildURL returns endpoint with sitemap=sitemapURL as its only query parameter.
func BuildURL(endpoint, sitemapURL string) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("parse ping endpoint: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("ping endpoint must be http or https: %q", endpoint)
	}
	u.RawQuery = url.Values{"sitemap": []string{sitemapURL}}.Encode()
	return u.String(), nil
}

// Ping sends one GET request. A non-2xx response is returned as
// *retry.HTTPError, carrying any Retry-After of a 429 or 503, so callers can
// classify it with retry.IsRetryable.
func (p *HTTPPinger) Ping(ctx context.Context, endpoint, sitemapURL string) error {
	target, err := BuildURL(endpoint, sitemapURL)
	if err != nil {
		return err
	}

	requestID := uuid.New().String()

	if err := p.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %w", retry.ErrThrottled, err)
	}

	_, err = p.breaker(endpoint).Execute(func() (interface{}, error) {
		return nil, p.do(ctx, target, requestID)
	})
	if err != nil {
		if circuitbreaker.IsRejected(err) {
			slog.Warn("ping skipped, circuit open",
				slog.String("request_id", requestID),
				slog.String("endpoint", endpoint))
		}
		return err
	}
	return nil
}

func (p *HTTPPinger) do(ctx context.Context, target, requestID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("create http request: %w", err)
	}
	req.Header.Set("User-Agent", p.config.UserAgent)
	req.Header.Set("X-Request-ID", requestID)

	slog.Debug("sending sitemap ping",
		slog.String("request_id", requestID),
		slog.String("url", target))

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("execute http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	httpErr := &retry.HTTPError{
		StatusCode: resp.StatusCode,
		Message:    http.StatusText(resp.StatusCode) + ": " + string(body),
	}
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusServiceUnavailable {
		httpErr.RetryAfter = retry.ParseRetryAfter(resp.Header.Get("Retry-After"), time.Now())
	}
	return httpErr
}
