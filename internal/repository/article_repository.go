package repository

import (
	"context"

	"catchup-sitemap/internal/domain/entity"
)

// ArticleRepository reads the articles published in the sitemap.
type ArticleRepository interface {
	// ListForSitemap returns every article ordered by id ascending, so that
	// sitemap pages stay stable while new articles are appended.
	ListForSitemap(ctx context.Context) ([]*entity.Article, error)
	// ListBySources returns the articles of the given sources ordered by id.
	// An empty id list yields an empty slice.
	ListBySources(ctx context.Context, sourceIDs []int64) ([]*entity.Article, error)
	CountArticles(ctx context.Context) (int64, error)
}
