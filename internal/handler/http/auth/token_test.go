package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenHandler(t *testing.T) {
	h := TokenHandler{
		AdminUser:     "ops@example.com",
		AdminPassword: "correct-horse-battery",
		Secret:        testSecret,
		TTL:           10 * time.Minute,
	}

	tests := []struct {
		name     string
		body     string
		wantCode int
	}{
		{name: "valid credentials", body: `{"email":"ops@example.com","password":"correct-horse-battery"}`, wantCode: http.StatusOK},
		{name: "wrong password", body: `{"email":"ops@example.com","password":"nope"}`, wantCode: http.StatusUnauthorized},
		{name: "wrong user", body: `{"email":"x@example.com","password":"correct-horse-battery"}`, wantCode: http.StatusUnauthorized},
		{name: "malformed body", body: `{`, wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader(tt.body)))
			assert.Equal(t, tt.wantCode, rec.Code)

			if tt.wantCode != http.StatusOK {
				return
			}
			var resp tokenResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			claims, err := ParseToken("Bearer "+resp.Token, testSecret)
			require.NoError(t, err)
			assert.Equal(t, "ops@example.com", claims.Subject)
			assert.Equal(t, RoleAdmin, claims.Role)
			assert.WithinDuration(t, time.Now().Add(10*time.Minute), claims.ExpiresAt.Time, 5*time.Second)
		})
	}
}

func TestTokenHandler_NoAdminConfigured(t *testing.T) {
	h := TokenHandler{Secret: testSecret}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader(`{"email":"","password":""}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
