package postgres

import (
	"context"
	"fmt"

	"catchup-sitemap/internal/domain/entity"
	"catchup-sitemap/internal/repository"

	"github.com/lib/pq"
)

type ArticleRepo struct {
	db Querier
}

func NewArticleRepo(db Querier) repository.ArticleRepository {
	return &ArticleRepo{db: db}
}

func (repo *ArticleRepo) ListForSitemap(ctx context.Context) ([]*entity.Article, error) {
	const query = `
SELECT ` + articleColumns + `
FROM articles
ORDER BY id ASC`
	rows, err := repo.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ListForSitemap: %w", err)
	}
	defer func() { _ = rows.Close() }()

	articles := make([]*entity.Article, 0, 100)
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("ListForSitemap: Scan: %w", err)
		}
		articles = append(articles, article)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListForSitemap: rows.Err: %w", err)
	}
	return articles, nil
}

func (repo *ArticleRepo) ListBySources(ctx context.Context, sourceIDs []int64) ([]*entity.Article, error) {
	if len(sourceIDs) == 0 {
		return []*entity.Article{}, nil
	}

	const query = `
SELECT ` + articleColumns + `
FROM articles
WHERE source_id = ANY($1)
ORDER BY id ASC`
	rows, err := repo.db.QueryContext(ctx, query, pq.Array(sourceIDs))
	if err != nil {
		return nil, fmt.Errorf("ListBySources: %w", err)
	}
	defer func() { _ = rows.Close() }()

	articles := make([]*entity.Article, 0, 100)
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("ListBySources: Scan: %w", err)
		}
		articles = append(articles, article)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListBySources: rows.Err: %w", err)
	}
	return articles, nil
}

// CountArticles returns the total number of articles in the database.
func (repo *ArticleRepo) CountArticles(ctx context.Context) (int64, error) {
	const query = `SELECT COUNT(*) FROM articles`
	var count int64
	if err := repo.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("CountArticles: %w", err)
	}
	return count, nil
}
