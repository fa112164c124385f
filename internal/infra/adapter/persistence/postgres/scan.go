package postgres

import (
	"context"
	"database/sql"

	"catchup-sitemap/internal/domain/entity"
)

// Querier is satisfied by *sql.DB and circuitbreaker.DBCircuitBreaker.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type rowScanner interface {
	Scan(dest ...any) error
}

const articleColumns = `id, source_id, title, url, COALESCE(summary, ''), published_at, created_at, updated_at`

func scanArticle(s rowScanner) (*entity.Article, error) {
	var (
		a         entity.Article
		published sql.NullTime
		created   sql.NullTime
		updated   sql.NullTime
	)
	if err := s.Scan(&a.ID, &a.SourceID, &a.Title, &a.URL, &a.Summary,
		&published, &created, &updated); err != nil {
		return nil, err
	}
	a.PublishedAt = published.Time
	a.CreatedAt = created.Time
	a.UpdatedAt = updated.Time
	return &a, nil
}

const sourceColumns = `id, name, feed_url, last_crawled_at, active, source_type`

func scanSource(s rowScanner) (*entity.Source, error) {
	var (
		src     entity.Source
		crawled sql.NullTime
	)
	if err := s.Scan(&src.ID, &src.Name, &src.FeedURL, &crawled, &src.Active, &src.SourceType); err != nil {
		return nil, err
	}
	if crawled.Valid {
		t := crawled.Time
		src.LastCrawledAt = &t
	}
	return &src, nil
}
