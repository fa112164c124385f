// Package requestid assigns every HTTP request an ID and carries it in the
// request context and the X-Request-ID response header.
package requestid

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type contextKey struct{}

// Header is the HTTP header carrying the request ID.
const Header = "X-Request-ID"

// maxLen bounds IDs accepted from clients.
const maxLen = 128

// FromContext returns the request ID of ctx, or "".
func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(contextKey{}).(string)
	return id
}

// WithRequestID returns a copy of ctx carrying id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// Middleware reuses a well-formed incoming X-Request-ID or generates a UUID v4.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(Header)
		if !valid(id) {
			id = uuid.NewString()
		}
		w.Header().Set(Header, id)
		next.ServeHTTP(w, r.WithContext(WithRequestID(r.Context(), id)))
	})
}

// valid accepts non-empty printable ASCII up to maxLen, so IDs are safe to log.
func valid(id string) bool {
	if id == "" || len(id) > maxLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}
