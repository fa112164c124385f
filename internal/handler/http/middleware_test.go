package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catchup-sitemap/internal/handler/http/requestid"
)

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	h := requestid.Middleware(Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("missing"))
	})))

	req := httptest.NewRequest(http.MethodGet, "/sitemap-news.xml?p=9", nil)
	req.Header.Set(requestid.Header, "req-1")
	h.ServeHTTP(httptest.NewRecorder(), req)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "request completed", entry["msg"])
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "/sitemap-news.xml", entry["path"])
	assert.Equal(t, "p=9", entry["query"])
	assert.EqualValues(t, 404, entry["status"])
	assert.EqualValues(t, 7, entry["bytes"])
	assert.NotContains(t, entry, "trace_id")
}

func TestRecover(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	h := Recover(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sitemap.xml", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())
	assert.Contains(t, buf.String(), "panic recovered")
	assert.Contains(t, buf.String(), "boom")
}

func TestLimitRequestBody(t *testing.T) {
	var readErr error
	h := LimitRequestBody(4)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
	}))
	h.ServeHTTP(httptest.NewRecorder(),
		httptest.NewRequest(http.MethodPost, "/admin/ping", strings.NewReader("too long")))

	var maxErr *http.MaxBytesError
	assert.ErrorAs(t, readErr, &maxErr)
}

func TestRobotsTag(t *testing.T) {
	h := RobotsTag("noindex, noodp, noarchive")(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sitemap.xml", nil))
	assert.Equal(t, "noindex, noodp, noarchive", rec.Header().Get("X-Robots-Tag"))
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(0.001, 2)
	h := rl.Limit(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	call := func(remote string) int {
		req := httptest.NewRequest(http.MethodGet, "/sitemap.xml", nil)
		req.RemoteAddr = remote
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, call("10.0.0.1:1000"))
	assert.Equal(t, http.StatusOK, call("10.0.0.1:1001"))
	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.1:1002"), "same IP, other port")
	assert.Equal(t, http.StatusOK, call("10.0.0.2:1000"), "other clients unaffected")
}

func TestRateLimiter_Sweep(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(10, 10)
	rl.now = func() time.Time { return now }

	rl.allow("10.0.0.1")
	now = now.Add(5 * time.Minute)
	rl.allow("10.0.0.2")
	now = now.Add(6 * time.Minute)

	assert.Equal(t, 1, rl.Sweep())
	_, kept := rl.visitors["10.0.0.2"]
	assert.True(t, kept)
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.10:5555"
	req.Header.Set("X-Forwarded-For", "203.0.113.9")
	assert.Equal(t, "192.0.2.10", clientIP(req))

	req.RemoteAddr = "no-port"
	assert.Equal(t, "no-port", clientIP(req))
}

func TestTimeout(t *testing.T) {
	h := Timeout(10 * time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sitemap.xml", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"error":"request timeout"}`, rec.Body.String())
}
