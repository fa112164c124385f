// Package sections provides the sitemap sections published by the service:
// articles, feed sources and a YAML-configured set of flat pages.
package sections

import (
	"context"
	"fmt"
	"time"

	"catchup-sitemap/internal/domain/entity"
	"catchup-sitemap/internal/observability/metrics"
	"catchup-sitemap/internal/repository"
	"catchup-sitemap/internal/sitemap"
)

// Options holds the per-section settings shared by every entry.
// An empty ChangeFreq or nil Priority leaves the attribute out of the output.
type Options struct {
	ChangeFreq sitemap.ChangeFreq
	Priority   *float64
	PageSize   int
}

func (o Options) attributes() sitemap.Attributes {
	var attrs sitemap.Attributes
	if o.ChangeFreq != "" {
		attrs.ChangeFreq = sitemap.Fixed(o.ChangeFreq)
	}
	if o.Priority != nil {
		attrs.Priority = sitemap.Fixed(*o.Priority)
	}
	return attrs
}

// Articles lists articles at their /articles/{id} pages.
type Articles struct {
	articles repository.ArticleRepository
	sources  repository.SourceRepository
	opts     Options
}

// NewArticles returns the article section. When sources is non-nil only
// articles of active sources are listed.
func NewArticles(articles repository.ArticleRepository, sources repository.SourceRepository, opts Options) *Articles {
	return &Articles{articles: articles, sources: sources, opts: opts}
}

func (s *Articles) Items(ctx context.Context) ([]any, error) {
	start := time.Now()
	defer func() { metrics.RecordOperationDuration("articles.list", time.Since(start)) }()

	if s.sources == nil {
		list, err := s.articles.ListForSitemap(ctx)
		if err != nil {
			return nil, fmt.Errorf("list articles: %w", err)
		}
		return sitemap.Slice(list), nil
	}

	active, err := s.sources.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active sources: %w", err)
	}
	ids := make([]int64, len(active))
	for i, src := range active {
		ids[i] = src.ID
	}
	list, err := s.articles.ListBySources(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list articles by source: %w", err)
	}
	return sitemap.Slice(list), nil
}

func (s *Articles) Limit() int { return s.opts.PageSize }

func (s *Articles) Attributes() sitemap.Attributes {
	attrs := s.opts.attributes()
	attrs.LastModified = sitemap.From(func(a *entity.Article) time.Time {
		return a.LastModified()
	})
	return attrs
}

// Sources lists active feed sources at their /sources/{id} pages. A source
// that was never crawled has no lastmod.
type Sources struct {
	sources repository.SourceRepository
	opts    Options
}

func NewSources(sources repository.SourceRepository, opts Options) *Sources {
	return &Sources{sources: sources, opts: opts}
}

func (s *Sources) Items(ctx context.Context) ([]any, error) {
	start := time.Now()
	defer func() { metrics.RecordOperationDuration("sources.list", time.Since(start)) }()

	list, err := s.sources.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active sources: %w", err)
	}
	return sitemap.Slice(list), nil
}

func (s *Sources) Limit() int { return s.opts.PageSize }

func (s *Sources) Attributes() sitemap.Attributes {
	attrs := s.opts.attributes()
	attrs.LastModified = sitemap.Derived(func(obj any) (time.Time, error) {
		src, ok := obj.(*entity.Source)
		if !ok {
			return time.Time{}, fmt.Errorf("unexpected object type %T", obj)
		}
		if src.LastCrawledAt == nil {
			return time.Time{}, sitemap.ErrOmit
		}
		return *src.LastCrawledAt, nil
	})
	return attrs
}
