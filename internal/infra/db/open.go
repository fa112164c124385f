// Package db opens the article store. DATABASE_URL selects the backend:
// sqlite://path or file: URLs use the pure-Go SQLite driver, anything else
// is handed to pgx.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"catchup-sitemap/pkg/config"
)

// Dialect identifies the SQL flavour behind a connection.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// DriverName returns the database/sql driver registered for the dialect.
func (d Dialect) DriverName() string {
	if d == DialectSQLite {
		return "sqlite"
	}
	return "pgx"
}

// ConnectionConfig holds database connection pool configuration.
type ConnectionConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// DefaultConnectionConfig returns the default connection pool configuration.
func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		MaxOpenConns:    25,
		MaxIdleConns:    10,
		ConnMaxLifetime: 1 * time.Hour,
		ConnMaxIdleTime: 30 * time.Minute,
	}
}

// ParseDSN splits DATABASE_URL into a dialect and the data source name the
// driver expects.
func ParseDSN(raw string) (Dialect, string, error) {
	raw = strings.TrimSpace(raw)
	switch {
	case raw == "":
		return "", "", fmt.Errorf("empty database url")
	case strings.HasPrefix(raw, "sqlite://"):
		path := strings.TrimPrefix(raw, "sqlite://")
		if path == "" {
			return "", "", fmt.Errorf("sqlite url has no path: %q", raw)
		}
		return DialectSQLite, path, nil
	case strings.HasPrefix(raw, "file:"):
		return DialectSQLite, raw, nil
	default:
		return DialectPostgres, raw, nil
	}
}

// OpenDSN opens and verifies a connection pool for the given DATABASE_URL.
func OpenDSN(ctx context.Context, raw string, cfg ConnectionConfig) (*sql.DB, Dialect, error) {
	dialect, dsn, err := ParseDSN(raw)
	if err != nil {
		return nil, "", err
	}

	db, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, "", fmt.Errorf("open %s: %w", dialect, err)
	}

	// SQLite serialises writers and an in-memory database lives in a
	// single connection.
	if dialect == DialectSQLite {
		cfg.MaxOpenConns = 1
		cfg.MaxIdleConns = 1
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, "", fmt.Errorf("ping %s: %w", dialect, err)
	}
	return db, dialect, nil
}

// Open reads DATABASE_URL and the DB_* pool settings from the environment
// and terminates the process if the database is unreachable.
func Open() (*sql.DB, Dialect) {
	raw := os.Getenv("DATABASE_URL")
	if raw == "" {
		log.Fatal("DATABASE_URL not set")
	}

	cfg := getConnectionConfigFromEnv()
	db, dialect, err := OpenDSN(context.Background(), raw, cfg)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}

	slog.Info("database connection established",
		slog.String("dialect", string(dialect)),
		slog.Int("max_open_conns", cfg.MaxOpenConns),
		slog.Int("max_idle_conns", cfg.MaxIdleConns),
		slog.Duration("conn_max_lifetime", cfg.ConnMaxLifetime),
		slog.Duration("conn_max_idle_time", cfg.ConnMaxIdleTime))
	return db, dialect
}

// getConnectionConfigFromEnv overlays DB_* variables on the defaults.
// Non-positive values are ignored.
func getConnectionConfigFromEnv() ConnectionConfig {
	def := DefaultConnectionConfig()
	cfg := ConnectionConfig{
		MaxOpenConns:    config.GetEnvInt("DB_MAX_OPEN_CONNS", def.MaxOpenConns),
		MaxIdleConns:    config.GetEnvInt("DB_MAX_IDLE_CONNS", def.MaxIdleConns),
		ConnMaxLifetime: config.GetEnvDuration("DB_CONN_MAX_LIFETIME", def.ConnMaxLifetime),
		ConnMaxIdleTime: config.GetEnvDuration("DB_CONN_MAX_IDLE_TIME", def.ConnMaxIdleTime),
	}
	if cfg.MaxOpenConns <= 0 {
		cfg.MaxOpenConns = def.MaxOpenConns
	}
	if cfg.MaxIdleConns <= 0 {
		cfg.MaxIdleConns = def.MaxIdleConns
	}
	if cfg.ConnMaxLifetime <= 0 {
		cfg.ConnMaxLifetime = def.ConnMaxLifetime
	}
	if cfg.ConnMaxIdleTime <= 0 {
		cfg.ConnMaxIdleTime = def.ConnMaxIdleTime
	}
	return cfg
}
