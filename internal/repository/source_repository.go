package repository

import (
	"context"

	"catchup-sitemap/internal/domain/entity"
)

type SourceRepository interface {
	// ListActive returns active sources ordered by id ascending.
	ListActive(ctx context.Context) ([]*entity.Source, error)
}
