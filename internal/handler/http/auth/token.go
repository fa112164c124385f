package auth

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"catchup-sitemap/internal/handler/http/respond"
	"catchup-sitemap/internal/observability/logging"
)

// DefaultTokenTTL is the lifetime of issued tokens.
const DefaultTokenTTL = time.Hour

// IssueToken signs an HS256 token for subject with role, valid for ttl.
func IssueToken(secret []byte, subject, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
	return token.SignedString(secret)
}

type tokenRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// TokenHandler exchanges the admin credentials for an admin token.
type TokenHandler struct {
	AdminUser     string
	AdminPassword string
	Secret        []byte
	TTL           time.Duration
}

func (h TokenHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger := logging.WithRequestID(r.Context(), slog.Default())

	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.fail(logger, start, "invalid_request")
		respond.SafeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}

	userOK := subtle.ConstantTimeCompare([]byte(req.Email), []byte(h.AdminUser)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.AdminPassword)) == 1
	if h.AdminUser == "" || !userOK || !passOK {
		h.fail(logger, start, "invalid_credentials")
		respond.SafeError(w, http.StatusUnauthorized, errors.New("unauthorized"))
		return
	}

	ttl := h.TTL
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	signed, err := IssueToken(h.Secret, req.Email, RoleAdmin, ttl)
	if err != nil {
		RecordAuthRequest(RoleAdmin, "failure")
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	RecordAuthRequest(RoleAdmin, "success")
	RecordAuthDuration(RoleAdmin, time.Since(start).Seconds())
	logger.Info("admin token issued", slog.String("user", req.Email))
	respond.JSON(w, http.StatusOK, tokenResponse{Token: signed})
}

func (h TokenHandler) fail(logger *slog.Logger, start time.Time, reason string) {
	RecordAuthRequest("unknown", "failure")
	RecordAuthDuration("unknown", time.Since(start).Seconds())
	logger.Warn("authentication failed", slog.String("reason", reason))
}
