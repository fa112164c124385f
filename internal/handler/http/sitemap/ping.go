package sitemap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"catchup-sitemap/internal/handler/http/auth"
	"catchup-sitemap/internal/handler/http/respond"
	"catchup-sitemap/internal/observability/logging"
	"catchup-sitemap/internal/usecase/ping"
)

// Notifier pings the configured search engines.
type Notifier interface {
	Ping(ctx context.Context, sitemapURL string) ([]ping.Result, error)
}

type endpointResult struct {
	Endpoint string `json:"endpoint"`
	OK       bool   `json:"ok"`
	Status   int    `json:"status,omitempty"`
	Error    string `json:"error,omitempty"`
}

type pingResponse struct {
	Status  string           `json:"status"`
	Results []endpointResult `json:"results"`
}

// PingHandler serves POST /admin/ping[?sitemap=URL]. It answers 202 when
// every endpoint accepted the ping, 409 when no sitemap URL could be
// determined and 502 when any endpoint failed.
type PingHandler struct {
	Notifier Notifier
	// BaseURL is the configured site URL. When empty, relative sitemap URLs
	// are made absolute with the scheme and host of the request.
	BaseURL string
}

func (h PingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := logging.WithRequestID(r.Context(), slog.Default())
	sitemapURL := r.URL.Query().Get("sitemap")
	if h.BaseURL == "" {
		sitemapURL = requestSitemapURL(r, sitemapURL)
	}

	results, err := h.Notifier.Ping(r.Context(), sitemapURL)
	if errors.Is(err, ping.ErrSitemapURLNotFound) || errors.Is(err, ping.ErrSiteBaseURLRequired) {
		respond.Error(w, http.StatusConflict, err)
		return
	}

	out := pingResponse{Status: "accepted", Results: make([]endpointResult, 0, len(results))}
	for _, res := range results {
		er := endpointResult{Endpoint: res.Endpoint, OK: res.Err == nil}
		if res.Err != nil {
			er.Error = respond.SanitizeError(res.Err)
			var terr *ping.TransportError
			if errors.As(res.Err, &terr) {
				er.Status = terr.StatusCode
			}
		}
		out.Results = append(out.Results, er)
	}

	if err != nil {
		var terr *ping.TransportError
		if !errors.As(err, &terr) {
			respond.SafeError(w, http.StatusInternalServerError, err)
			return
		}
		logger.Warn("manual sitemap ping failed",
			slog.String("user", auth.UserFromContext(r.Context())),
			slog.Any("error", err))
		out.Status = "failed"
		respond.JSON(w, http.StatusBadGateway, out)
		return
	}

	logger.Info("manual sitemap ping sent",
		slog.String("user", auth.UserFromContext(r.Context())),
		slog.Int("endpoints", len(results)))
	respond.JSON(w, http.StatusAccepted, out)
}

// requestSitemapURL resolves sitemapURL against the request's host. An empty
// value is the sitemap index.
func requestSitemapURL(r *http.Request, sitemapURL string) string {
	if sitemapURL == "" {
		sitemapURL = IndexPath
	}
	if u, err := url.Parse(sitemapURL); err != nil || u.IsAbs() {
		return sitemapURL
	}
	return baseURL("", r) + "/" + strings.TrimLeft(sitemapURL, "/")
}
