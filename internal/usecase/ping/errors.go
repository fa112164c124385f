package ping

import (
	"errors"
	"fmt"
)

// ErrSitemapURLNotFound indicates that no sitemap URL was given and none of
// the sitemap routes could be reversed.
var ErrSitemapURLNotFound = errors.New("sitemap url not found: pass it explicitly or register a sitemap route")

// ErrSiteBaseURLRequired indicates a site-relative sitemap URL with no site
// base URL to make it absolute.
var ErrSiteBaseURLRequired = errors.New("site base url is required for a relative sitemap url")

// TransportError reports a failed ping: a network error, a non-2xx response
// or a call refused by the circuit breaker.
type TransportError struct {
	Endpoint string
	// StatusCode is the HTTP status, or 0 when no response was received.
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("ping %s: status %d: %v", e.Endpoint, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("ping %s: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
