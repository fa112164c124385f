package sitemap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catchup-sitemap/internal/handler/http/auth"
	"catchup-sitemap/internal/resilience/retry"
	"catchup-sitemap/internal/usecase/ping"
)

var secret = []byte("test-secret-key-at-least-32-characters-long")

type fakeNotifier struct {
	gotURL  string
	results []ping.Result
	err     error
}

func (f *fakeNotifier) Ping(_ context.Context, sitemapURL string) ([]ping.Result, error) {
	f.gotURL = sitemapURL
	return f.results, f.err
}

func adminRequest(t *testing.T, target string) *http.Request {
	t.Helper()
	token, err := auth.IssueToken(secret, "ops@example.com", auth.RoleAdmin, time.Minute)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, target, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestPingHandler(t *testing.T) {
	transport := &ping.TransportError{
		Endpoint:   "https://b.test/ping",
		StatusCode: 500,
		Err:        &retry.HTTPError{StatusCode: 500, Message: "oops"},
	}

	tests := []struct {
		name       string
		notifier   *fakeNotifier
		wantCode   int
		wantStatus string
	}{
		{
			name: "all endpoints accepted",
			notifier: &fakeNotifier{results: []ping.Result{
				{Endpoint: "https://a.test/ping"},
			}},
			wantCode:   http.StatusAccepted,
			wantStatus: "accepted",
		},
		{
			name: "one endpoint failed",
			notifier: &fakeNotifier{
				results: []ping.Result{{Endpoint: "https://a.test/ping"}, {Endpoint: "https://b.test/ping", Err: transport}},
				err:     errors.Join(transport),
			},
			wantCode:   http.StatusBadGateway,
			wantStatus: "failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := http.NewServeMux()
			Register(mux, newRenderer(t), "https://example.com", tt.notifier, secret)

			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, adminRequest(t, "/admin/ping?sitemap=/sitemap-pages.xml"))

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, "/sitemap-pages.xml", tt.notifier.gotURL)

			var body pingResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantStatus, body.Status)
			require.Len(t, body.Results, len(tt.notifier.results))
			assert.True(t, body.Results[0].OK)
			if tt.wantCode == http.StatusBadGateway {
				assert.False(t, body.Results[1].OK)
				assert.Equal(t, 500, body.Results[1].Status)
				assert.NotEmpty(t, body.Results[1].Error)
			}
		})
	}
}

func TestPingHandler_NoSitemapURL(t *testing.T) {
	n := &fakeNotifier{err: ping.ErrSitemapURLNotFound}
	rec := httptest.NewRecorder()
	PingHandler{Notifier: n, BaseURL: "https://example.com"}.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/ping", nil))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "sitemap url not found")
}

func TestPingHandler_RequestBaseURL(t *testing.T) {
	tests := []struct {
		name   string
		target string
		want   string
	}{
		{"index by default", "https://news.example.org/admin/ping", "https://news.example.org/sitemap.xml"},
		{"relative url", "https://news.example.org/admin/ping?sitemap=/sitemap-articles.xml", "https://news.example.org/sitemap-articles.xml"},
		{"absolute url kept", "http://news.example.org/admin/ping?sitemap=https://cdn.example.net/sitemap.xml", "https://cdn.example.net/sitemap.xml"},
		{"plain http host", "http://localhost:8080/admin/ping", "http://localhost:8080/sitemap.xml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := &fakeNotifier{results: []ping.Result{{Endpoint: "https://a.test/ping"}}}
			rec := httptest.NewRecorder()
			PingHandler{Notifier: n}.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, tt.target, nil))

			assert.Equal(t, http.StatusAccepted, rec.Code)
			assert.Equal(t, tt.want, n.gotURL)
		})
	}
}

func TestPingHandler_ConfiguredBaseURLLeavesURLToService(t *testing.T) {
	n := &fakeNotifier{results: []ping.Result{{Endpoint: "https://a.test/ping"}}}
	rec := httptest.NewRecorder()
	PingHandler{Notifier: n, BaseURL: "https://example.com"}.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/ping", nil))

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Empty(t, n.gotURL)
}

func TestPingHandler_UnexpectedError(t *testing.T) {
	n := &fakeNotifier{err: fmt.Errorf("parse sitemap url: %w", errors.New("bad"))}
	rec := httptest.NewRecorder()
	PingHandler{Notifier: n, BaseURL: "https://example.com"}.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/ping", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRegister_PingRequiresAdmin(t *testing.T) {
	mux := http.NewServeMux()
	Register(mux, newRenderer(t), "", &fakeNotifier{}, secret)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/ping", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/ping", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRegister_NoNotifier(t *testing.T) {
	mux := http.NewServeMux()
	Register(mux, newRenderer(t), "", nil, nil)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/ping", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
