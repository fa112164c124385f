package circuitbreaker

import (
	"context"
	"database/sql"
	"time"

	"github.com/sony/gobreaker"
)

// DBCircuitBreaker guards sitemap queries so that a database outage makes
// sitemap requests fail fast instead of piling up on the pool.
type DBCircuitBreaker struct {
	cb *CircuitBreaker
	db *sql.DB
}

// DBConfig opens after 5 consecutive failures and probes again after 30s.
func DBConfig() Config {
	return Config{
		Name:             "database",
		MaxRequests:      3,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 1.0,
		MinRequests:      5,
	}
}

func NewDBCircuitBreaker(db *sql.DB) *DBCircuitBreaker {
	return NewDBCircuitBreakerWithConfig(db, DBConfig())
}

func NewDBCircuitBreakerWithConfig(db *sql.DB, cfg Config) *DBCircuitBreaker {
	return &DBCircuitBreaker{cb: New(cfg), db: db}
}

// QueryContext runs the query unless the circuit is open.
func (dcb *DBCircuitBreaker) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	result, err := dcb.cb.Execute(func() (interface{}, error) {
		return dcb.db.QueryContext(ctx, query, args...)
	})
	if err != nil {
		return nil, err
	}
	return result.(*sql.Rows), nil
}

// QueryRowContext is not guarded: sql.Row defers its error to Scan.
func (dcb *DBCircuitBreaker) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return dcb.db.QueryRowContext(ctx, query, args...)
}

func (dcb *DBCircuitBreaker) State() gobreaker.State {
	return dcb.cb.State()
}

func (dcb *DBCircuitBreaker) IsOpen() bool {
	return dcb.cb.IsOpen()
}
