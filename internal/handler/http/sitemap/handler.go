package sitemap

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"catchup-sitemap/internal/handler/http/respond"
	"catchup-sitemap/internal/observability/logging"
	core "catchup-sitemap/internal/sitemap"
	sitemapUC "catchup-sitemap/internal/usecase/sitemap"
)

// RobotsTag is sent with every sitemap document.
const RobotsTag = "noindex, noodp, noarchive"

// Renderer renders sitemap documents.
type Renderer interface {
	RenderPage(ctx context.Context, label string, page int, baseURL string) (*sitemapUC.Document, error)
	RenderIndex(ctx context.Context, baseURL string, urlFor core.URLBuilder) (*sitemapUC.Document, error)
}

// IndexHandler serves GET /sitemap.xml.
type IndexHandler struct {
	Svc Renderer
	// BaseURL is the scheme and host prefixed to locations. Empty derives
	// it from the request.
	BaseURL string
}

func (h IndexHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	doc, err := h.Svc.RenderIndex(r.Context(), baseURL(h.BaseURL, r), SectionURL)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeDocument(w, r, doc)
}

// SectionHandler serves GET /sitemap-{section}.xml[?p=N].
type SectionHandler struct {
	Svc     Renderer
	BaseURL string
}

func (h SectionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	label, ok := parseSectionFile(r.PathValue("file"))
	if !ok {
		respond.SafeError(w, http.StatusNotFound, fmt.Errorf("%w: %s", core.ErrUnknownSection, r.URL.Path))
		return
	}

	page := 1
	if p := r.URL.Query().Get("p"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil {
			// 不正なページ番号は範囲外と同じ扱い
			respond.SafeError(w, http.StatusNotFound, fmt.Errorf("%w: p=%q", core.ErrPageNotFound, p))
			return
		}
		page = n
	}

	doc, err := h.Svc.RenderPage(r.Context(), label, page, baseURL(h.BaseURL, r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeDocument(w, r, doc)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	if core.IsNotFound(err) {
		respond.SafeError(w, http.StatusNotFound, err)
		return
	}
	logging.WithRequestID(r.Context(), slog.Default()).Error("sitemap render failed",
		slog.String("path", r.URL.Path),
		slog.Any("error", err))
	respond.SafeError(w, http.StatusInternalServerError, err)
}

// writeDocument answers conditional and HEAD requests through
// http.ServeContent using the document lastmod.
func writeDocument(w http.ResponseWriter, r *http.Request, doc *sitemapUC.Document) {
	w.Header().Set("Content-Type", doc.ContentType+"; charset=utf-8")
	w.Header().Set("X-Robots-Tag", RobotsTag)

	var modtime time.Time
	if doc.LastModified != nil {
		modtime = doc.LastModified.UTC()
	}
	http.ServeContent(w, r, "", modtime, bytes.NewReader(doc.Body))
}

// baseURL returns configured, or the scheme and host the request came in on.
func baseURL(configured string, r *http.Request) string {
	if configured != "" {
		return strings.TrimRight(configured, "/")
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}
