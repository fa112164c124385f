package requestid

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContext(t *testing.T) {
	assert.Equal(t, "", FromContext(context.Background()))
	assert.Equal(t, "abc", FromContext(WithRequestID(context.Background(), "abc")))
}

func TestMiddleware(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
		keep     bool
	}{
		{name: "propagates incoming id", incoming: "req-42", keep: true},
		{name: "generates when missing", incoming: ""},
		{name: "replaces id with spaces", incoming: "bad id"},
		{name: "replaces overlong id", incoming: strings.Repeat("a", maxLen+1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			h := Middleware(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				seen = FromContext(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/sitemap.xml", nil)
			if tt.incoming != "" {
				req.Header.Set(Header, tt.incoming)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, seen, rec.Header().Get(Header))
			if tt.keep {
				assert.Equal(t, tt.incoming, seen)
				return
			}
			_, err := uuid.Parse(seen)
			require.NoError(t, err)
		})
	}
}
