// Package persistence picks the repository implementations for a dialect.
package persistence

import (
	"catchup-sitemap/internal/infra/adapter/persistence/postgres"
	"catchup-sitemap/internal/infra/adapter/persistence/sqlite"
	"catchup-sitemap/internal/infra/db"
	"catchup-sitemap/internal/repository"
)

// Repositories bundles the read repositories used by the sitemap sections.
type Repositories struct {
	Articles repository.ArticleRepository
	Sources  repository.SourceRepository
}

// New returns the repositories for dialect over q, typically a
// circuitbreaker.DBCircuitBreaker around the pool.
func New(q postgres.Querier, dialect db.Dialect) Repositories {
	if dialect == db.DialectSQLite {
		return Repositories{
			Articles: sqlite.NewArticleRepo(q),
			Sources:  sqlite.NewSourceRepo(q),
		}
	}
	return Repositories{
		Articles: postgres.NewArticleRepo(q),
		Sources:  postgres.NewSourceRepo(q),
	}
}
