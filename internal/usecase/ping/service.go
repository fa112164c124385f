// Package ping notifies search engines that the sitemap changed.
package ping

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"catchup-sitemap/internal/resilience/retry"
)

// DefaultEndpoint is the ping URL used when none is configured.
const DefaultEndpoint = "https://www.google.com/webmasters/tools/ping"

// Route names tried, in order, when no sitemap URL is given. RouteSingle is
// reversed without parameters, so it must resolve on its own when the site
// has a single section.
const (
	RouteIndex  = "sitemap-index"
	RouteSingle = "sitemap-section"
)

// Reverser maps a route name to its site-relative URL.
type Reverser interface {
	Reverse(name string, params map[string]string) (string, error)
}

// Pinger performs the outbound request: one GET to endpoint carrying
// sitemapURL as the "sitemap" query parameter.
type Pinger interface {
	Ping(ctx context.Context, endpoint, sitemapURL string) error
}

// Service pings a single search engine endpoint.
type Service struct {
	Routes      Reverser
	Pinger      Pinger
	Endpoint    string
	SiteBaseURL string
}

// ResolveSitemapURL turns sitemapURL into the absolute URL sent to the
// search engine. An empty sitemapURL is discovered through the routes.
func (s *Service) ResolveSitemapURL(sitemapURL string) (string, error) {
	if sitemapURL == "" {
		sitemapURL = s.discover()
		if sitemapURL == "" {
			return "", ErrSitemapURLNotFound
		}
	}

	u, err := url.Parse(sitemapURL)
	if err != nil {
		return "", fmt.Errorf("parse sitemap url %q: %w", sitemapURL, err)
	}
	if u.IsAbs() {
		return sitemapURL, nil
	}
	if s.SiteBaseURL == "" {
		return "", fmt.Errorf("%w: %q", ErrSiteBaseURLRequired, sitemapURL)
	}
	return strings.TrimRight(s.SiteBaseURL, "/") + "/" + strings.TrimLeft(sitemapURL, "/"), nil
}

func (s *Service) discover() string {
	if s.Routes == nil {
		return ""
	}
	for _, name := range []string{RouteIndex, RouteSingle} {
		if loc, err := s.Routes.Reverse(name, nil); err == nil && loc != "" {
			return loc
		}
	}
	return ""
}

func (s *Service) endpoint() string {
	if s.Endpoint == "" {
		return DefaultEndpoint
	}
	return s.Endpoint
}

// Ping notifies the endpoint about sitemapURL. Failures of the request are
// returned as *TransportError and never retried here.
func (s *Service) Ping(ctx context.Context, sitemapURL string) error {
	target, err := s.ResolveSitemapURL(sitemapURL)
	if err != nil {
		return err
	}

	endpoint := s.endpoint()
	start := time.Now()
	err = s.Pinger.Ping(ctx, endpoint, target)
	pingDuration.WithLabelValues(endpointLabel(endpoint)).Observe(time.Since(start).Seconds())

	if err != nil {
		pingAttemptsTotal.WithLabelValues(endpointLabel(endpoint), "failure").Inc()
		terr := &TransportError{Endpoint: endpoint, Err: err}
		var httpErr *retry.HTTPError
		if errors.As(err, &httpErr) {
			terr.StatusCode = httpErr.StatusCode
		}
		slog.Warn("sitemap ping failed",
			slog.String("endpoint", endpoint),
			slog.String("sitemap_url", target),
			slog.Any("error", err))
		return terr
	}

	pingAttemptsTotal.WithLabelValues(endpointLabel(endpoint), "success").Inc()
	slog.Info("sitemap ping sent",
		slog.String("endpoint", endpoint),
		slog.String("sitemap_url", target),
		slog.Duration("duration", time.Since(start)))
	return nil
}

// endpointLabel keeps metric cardinality bounded to the endpoint host.
func endpointLabel(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return "unknown"
	}
	return u.Host
}
