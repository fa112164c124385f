// Package fixtures builds articles and sources for tests.
package fixtures

import (
	"fmt"
	"time"

	"catchup-sitemap/internal/domain/entity"
)

// Epoch is the default creation time of generated fixtures.
var Epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// ArticleOption customizes a test article.
type ArticleOption func(*entity.Article)

// NewArticle returns a published article with id 1 of source 1.
//
//	a := NewArticle(WithArticleID(7), WithUpdatedAt(t))
func NewArticle(opts ...ArticleOption) *entity.Article {
	a := &entity.Article{
		ID:          1,
		SourceID:    1,
		Title:       "Article 1",
		URL:         "https://feeds.example.com/posts/1",
		PublishedAt: Epoch,
		CreatedAt:   Epoch,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func WithArticleID(id int64) ArticleOption {
	return func(a *entity.Article) {
		a.ID = id
		a.Title = fmt.Sprintf("Article %d", id)
		a.URL = fmt.Sprintf("https://feeds.example.com/posts/%d", id)
	}
}

func WithSourceID(id int64) ArticleOption {
	return func(a *entity.Article) { a.SourceID = id }
}

func WithPublishedAt(t time.Time) ArticleOption {
	return func(a *entity.Article) { a.PublishedAt = t }
}

func WithUpdatedAt(t time.Time) ArticleOption {
	return func(a *entity.Article) { a.UpdatedAt = t }
}

// Articles returns n articles with ids 1..n, published one hour apart
// starting at Epoch.
func Articles(n int, opts ...ArticleOption) []*entity.Article {
	out := make([]*entity.Article, n)
	for i := range out {
		id := int64(i + 1)
		at := Epoch.Add(time.Duration(i) * time.Hour)
		base := []ArticleOption{WithArticleID(id), WithPublishedAt(at)}
		out[i] = NewArticle(append(base, opts...)...)
		out[i].CreatedAt = at
	}
	return out
}

// SourceOption customizes a test source.
type SourceOption func(*entity.Source)

// NewSource returns an active RSS source with id 1 that was never crawled.
func NewSource(opts ...SourceOption) *entity.Source {
	s := &entity.Source{
		ID:         1,
		Name:       "Source 1",
		FeedURL:    "https://feeds.example.com/rss",
		Active:     true,
		SourceType: "RSS",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func WithSourceRecordID(id int64) SourceOption {
	return func(s *entity.Source) {
		s.ID = id
		s.Name = fmt.Sprintf("Source %d", id)
	}
}

func WithCrawledAt(t time.Time) SourceOption {
	return func(s *entity.Source) { s.LastCrawledAt = &t }
}

func Inactive() SourceOption {
	return func(s *entity.Source) { s.Active = false }
}
