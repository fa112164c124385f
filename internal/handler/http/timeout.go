package http

import (
	"net/http"
	"time"
)

// Timeout bounds handler run time. Requests still running after d get 503
// with a JSON body and their context is cancelled.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, d, `{"error":"request timeout"}`)
	}
}
