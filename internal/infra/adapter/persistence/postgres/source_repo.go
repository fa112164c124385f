package postgres

import (
	"context"
	"fmt"

	"catchup-sitemap/internal/domain/entity"
	"catchup-sitemap/internal/repository"
)

type SourceRepo struct{ db Querier }

func NewSourceRepo(db Querier) repository.SourceRepository {
	return &SourceRepo{db: db}
}

func (repo *SourceRepo) ListActive(ctx context.Context) ([]*entity.Source, error) {
	const query = `
SELECT ` + sourceColumns + `
FROM sources
WHERE active = TRUE
ORDER BY id ASC`
	rows, err := repo.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ListActive: %w", err)
	}
	defer func() { _ = rows.Close() }()

	sources := make([]*entity.Source, 0, 50)
	for rows.Next() {
		source, err := scanSource(rows)
		if err != nil {
			return nil, fmt.Errorf("ListActive: Scan: %w", err)
		}
		sources = append(sources, source)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListActive: rows.Err: %w", err)
	}
	return sources, nil
}
