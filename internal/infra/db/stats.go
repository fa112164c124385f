package db

import (
	"context"
	"database/sql"
	"time"

	"catchup-sitemap/internal/observability/metrics"
)

// ReportStats publishes the pool's in-use and idle connection counts every
// interval until ctx is done.
func ReportStats(ctx context.Context, db *sql.DB, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		publishStats(db)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func publishStats(db *sql.DB) {
	s := db.Stats()
	metrics.UpdateDBConnectionStats(s.InUse, s.Idle)
}
