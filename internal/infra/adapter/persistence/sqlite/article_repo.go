package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"catchup-sitemap/internal/domain/entity"
	"catchup-sitemap/internal/repository"
)

type ArticleRepo struct{ db Querier }

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
		return nil, fmt.Errorf("ListForSitemap: QueryContext: %w", err)
	}
	return collectArticles("ListForSitemap", rows)
}

func (repo *ArticleRepo) ListBySources(ctx context.Context, sourceIDs []int64) ([]*entity.Article, error) {
	if len(sourceIDs) == 0 {
		return []*entity.Article{}, nil
	}

	// SQLite has no array parameters; expand one placeholder per id.
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(sourceIDs)), ",")
	query := `
SELECT ` + articleColumns + `
FROM articles
WHERE source_id IN (` + placeholders + `)
ORDER BY id ASC`

	args := make([]any, len(sourceIDs))
	for i, id := range sourceIDs {
		args[i] = id
	}
	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ListBySources: QueryContext: %w", err)
	}
	return collectArticles("ListBySources", rows)
}

func (repo *ArticleRepo) CountArticles(ctx context.Context) (int64, error) {
	var count int64
	if err := repo.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM articles`).Scan(&count); err != nil {
		return 0, fmt.Errorf("CountArticles: QueryRowContext: %w", err)
	}
	return count, nil
}

func collectArticles(op string, rows *sql.Rows) ([]*entity.Article, error) {
	defer func() { _ = rows.Close() }()

	articles := make([]*entity.Article, 0, 100)
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: Scan: %w", op, err)
		}
		articles = append(articles, article)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows.Err: %w", op, err)
	}
	return articles, nil
}
