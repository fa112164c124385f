// Package sitemap renders sitemap documents from the section registry.
package sitemap

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"catchup-sitemap/internal/observability/metrics"
	"catchup-sitemap/internal/observability/tracing"
	core "catchup-sitemap/internal/sitemap"
)

// Document is a rendered sitemap file.
type Document struct {
	Body        []byte
	ContentType string
	// LastModified is the newest lastmod in the document, nil when unknown.
	LastModified *time.Time
}

// Service renders the sitemap index and section pages.
type Service struct {
	Registry *core.Registry
}

// RenderPage renders page number of the section registered under label.
// Unknown sections and out-of-range pages satisfy core.IsNotFound.
func (s *Service) RenderPage(ctx context.Context, label string, page int, baseURL string) (doc *Document, err error) {
	ctx, span := tracing.StartSpan(ctx, "sitemap.render_page",
		attribute.String("sitemap.section", label),
		attribute.Int("sitemap.page", page))
	start := time.Now()
	defer func() {
		metrics.RecordSitemapRender("page", renderStatus(err), time.Since(start))
		tracing.EndSpan(span, err)
	}()

	p, err := s.Registry.Resolve(ctx, label, page)
	if err != nil {
		return nil, err
	}
	body, err := core.RenderURLSet(p, baseURL)
	if err != nil {
		return nil, fmt.Errorf("render section %q page %d: %w", label, page, err)
	}

	span.SetAttributes(attribute.Int("sitemap.entries", len(p.Entries)))
	metrics.RecordEntriesRendered(label, len(p.Entries))

	return &Document{
		Body:         body,
		ContentType:  core.ContentType,
		LastModified: p.LastModified(),
	}, nil
}

// RenderIndex renders the sitemap index. urlFor maps each section page to
// its site-relative URL.
func (s *Service) RenderIndex(ctx context.Context, baseURL string, urlFor core.URLBuilder) (doc *Document, err error) {
	ctx, span := tracing.StartSpan(ctx, "sitemap.render_index")
	start := time.Now()
	defer func() {
		metrics.RecordSitemapRender("index", renderStatus(err), time.Since(start))
		tracing.EndSpan(span, err)
	}()

	entries, err := s.Registry.IndexEntries(ctx, urlFor)
	if err != nil {
		return nil, err
	}
	body, err := core.RenderIndex(entries, baseURL)
	if err != nil {
		return nil, fmt.Errorf("render sitemap index: %w", err)
	}

	span.SetAttributes(attribute.Int("sitemap.entries", len(entries)))

	return &Document{
		Body:         body,
		ContentType:  core.ContentType,
		LastModified: newestIndexEntry(entries),
	}, nil
}

func renderStatus(err error) string {
	switch {
	case err == nil:
		return "success"
	case core.IsNotFound(err):
		return "not_found"
	default:
		return "error"
	}
}

// newestIndexEntry returns the newest lastmod, or nil if there are no
// entries or any entry lacks one.
func newestIndexEntry(entries []core.IndexEntry) *time.Time {
	var newest *time.Time
	for _, e := range entries {
		if e.LastModified == nil {
			return nil
		}
		if newest == nil || e.LastModified.After(*newest) {
			newest = e.LastModified
		}
	}
	return newest
}
