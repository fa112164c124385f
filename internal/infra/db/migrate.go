package db

import (
	"database/sql"
	"fmt"
)

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS sources (
    id              SERIAL PRIMARY KEY,
    name            TEXT NOT NULL,
    feed_url        TEXT NOT NULL UNIQUE,
    last_crawled_at TIMESTAMPTZ,
    active          BOOLEAN DEFAULT TRUE,
    source_type     VARCHAR(20) NOT NULL DEFAULT 'RSS'
)`,
	`CREATE TABLE IF NOT EXISTS articles (
    id           SERIAL PRIMARY KEY,
    source_id    INTEGER REFERENCES sources(id),
    title        TEXT NOT NULL,
    url          TEXT UNIQUE,
    summary      TEXT,
    published_at TIMESTAMPTZ,
    created_at   TIMESTAMPTZ DEFAULT now(),
    updated_at   TIMESTAMPTZ DEFAULT now()
)`,
	// databases created before the sitemap existed lack updated_at
	`ALTER TABLE articles ADD COLUMN IF NOT EXISTS updated_at TIMESTAMPTZ DEFAULT now()`,
	`CREATE INDEX IF NOT EXISTS idx_articles_source_id ON articles(source_id)`,
	`CREATE INDEX IF NOT EXISTS idx_sources_active ON sources(active) WHERE active = TRUE`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS sources (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    name            TEXT NOT NULL,
    feed_url        TEXT NOT NULL UNIQUE,
    last_crawled_at DATETIME,
    active          BOOLEAN NOT NULL DEFAULT 1,
    source_type     TEXT NOT NULL DEFAULT 'RSS'
)`,
	`CREATE TABLE IF NOT EXISTS articles (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    source_id    INTEGER REFERENCES sources(id),
    title        TEXT NOT NULL,
    url          TEXT UNIQUE,
    summary      TEXT,
    published_at DATETIME,
    created_at   DATETIME DEFAULT CURRENT_TIMESTAMP,
    updated_at   DATETIME DEFAULT CURRENT_TIMESTAMP
)`,
	`CREATE INDEX IF NOT EXISTS idx_articles_source_id ON articles(source_id)`,
	`CREATE INDEX IF NOT EXISTS idx_sources_active ON sources(active)`,
}

// MigrateUp creates the tables the sitemap reads. Every statement is
// idempotent, so it runs on each start.
func MigrateUp(db *sql.DB, dialect Dialect) error {
	var stmts []string
	switch dialect {
	case DialectPostgres:
		stmts = postgresSchema
	case DialectSQLite:
		stmts = sqliteSchema
	default:
		return fmt.Errorf("migrate: unsupported dialect %q", dialect)
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
