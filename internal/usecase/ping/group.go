package ping

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"catchup-sitemap/internal/resilience/retry"
)

// Result is the outcome of pinging one endpoint.
type Result struct {
	Endpoint string
	Err      error
}

// Group pings several endpoints concurrently. A failing endpoint does not
// cancel the others.
type Group struct {
	Services []*Service
	// Retry, when non-nil, wraps each endpoint's ping in retry.WithBackoff.
	Retry *retry.Config
}

// NewGroup builds one Service per endpoint sharing routes, pinger and base URL.
func NewGroup(routes Reverser, pinger Pinger, siteBaseURL string, endpoints []string) *Group {
	if len(endpoints) == 0 {
		endpoints = []string{DefaultEndpoint}
	}
	g := &Group{Services: make([]*Service, 0, len(endpoints))}
	for _, ep := range endpoints {
		g.Services = append(g.Services, &Service{
			Routes:      routes,
			Pinger:      pinger,
			Endpoint:    ep,
			SiteBaseURL: siteBaseURL,
		})
	}
	return g
}

// Ping notifies every endpoint about sitemapURL. The returned error joins
// the failures of all endpoints, so errors.Is and errors.As see each of them.
func (g *Group) Ping(ctx context.Context, sitemapURL string) ([]Result, error) {
	// URL 解決の失敗は全エンドポイント共通なので先に判定する
	if len(g.Services) > 0 {
		if _, err := g.Services[0].ResolveSitemapURL(sitemapURL); err != nil {
			return nil, err
		}
	}

	results := make([]Result, len(g.Services))
	var eg errgroup.Group
	for i, svc := range g.Services {
		eg.Go(func() error {
			call := func() error { return svc.Ping(ctx, sitemapURL) }
			var err error
			if g.Retry != nil {
				err = retry.WithBackoff(ctx, *g.Retry, call)
			} else {
				err = call()
			}
			results[i] = Result{Endpoint: svc.endpoint(), Err: err}
			return nil
		})
	}
	_ = eg.Wait()

	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	return results, errors.Join(errs...)
}
