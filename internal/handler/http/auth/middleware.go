// Package auth protects the admin endpoints with HS256 JWT bearer tokens.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"catchup-sitemap/internal/handler/http/respond"
)

// Roles carried in the "role" claim.
const (
	RoleAdmin  = "admin"
	RoleViewer = "viewer"
)

// Claims are the JWT claims issued and accepted by the service.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type ctxKey struct{}

// UserFromContext returns the subject of the authenticated request, or "".
func UserFromContext(ctx context.Context) string {
	sub, _ := ctx.Value(ctxKey{}).(string)
	return sub
}

// RequireRole rejects requests without a valid bearer token (401) or whose
// token carries another role (403).
func RequireRole(secret []byte, role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			claims, err := ParseToken(r.Header.Get("Authorization"), secret)
			RecordAuthzCheckDuration(time.Since(start).Seconds())
			if err != nil {
				respond.SafeError(w, http.StatusUnauthorized, fmt.Errorf("unauthorized: %w", err))
				return
			}
			if claims.Role != role {
				RecordForbiddenAttempt(claims.Role, r.Method)
				respond.SafeError(w, http.StatusForbidden, errors.New("forbidden"))
				return
			}
			ctx := context.WithValue(r.Context(), ctxKey{}, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ParseToken validates an "Authorization: Bearer <jwt>" header value.
func ParseToken(header string, secret []byte) (*Claims, error) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return nil, errors.New("missing bearer token")
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(strings.TrimPrefix(header, prefix), claims,
		func(*jwt.Token) (any, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.New("token expired")
		}
		return nil, errors.New("invalid token")
	}
	if claims.Subject == "" {
		return nil, errors.New("invalid sub claim")
	}
	return claims, nil
}
