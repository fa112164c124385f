package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"catchup-sitemap/internal/observability/metrics"
	"catchup-sitemap/internal/usecase/ping"
)

// Notifier pings every configured search engine; *ping.Group implements it.
type Notifier interface {
	Ping(ctx context.Context, sitemapURL string) ([]ping.Result, error)
}

// ArticleCounter is the part of the article repository the job reads.
type ArticleCounter interface {
	CountArticles(ctx context.Context) (int64, error)
}

// PingJob is the scheduled run: it refreshes the article gauge and pings
// the search engines with the discovered sitemap URL.
type PingJob struct {
	Notifier Notifier
	// Articles is optional; nil skips the article gauge.
	Articles ArticleCounter
	Timeout  time.Duration
	Metrics  *WorkerMetrics
	// Health is optional; it receives the outcome of every run.
	Health *HealthServer
	Logger *slog.Logger

	now func() time.Time
}

// Run executes one job. Endpoint failures are returned joined; the counts
// of successful and failed endpoints are recorded either way.
func (j *PingJob) Run(ctx context.Context) (err error) {
	now := time.Now
	if j.now != nil {
		now = j.now
	}
	start := now()

	if j.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.Timeout)
		defer cancel()
	}

	defer func() {
		status := "success"
		if err != nil {
			status = "failure"
		}
		if j.Metrics != nil {
			j.Metrics.RecordJobRun(status)
			j.Metrics.RecordJobDuration(now().Sub(start).Seconds())
			if err == nil {
				j.Metrics.RecordLastSuccess()
			}
		}
		if j.Health != nil {
			j.Health.RecordRun(start, err)
		}
	}()

	if j.Articles != nil {
		n, cerr := j.Articles.CountArticles(ctx)
		if cerr != nil {
			// 記事数は参考値なので ping は続行する
			j.Logger.Warn("count articles failed", slog.Any("error", cerr))
		} else {
			metrics.UpdateArticlesTotal(n)
		}
	}

	results, err := j.Notifier.Ping(ctx, "")
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	if j.Metrics != nil {
		j.Metrics.RecordEndpoints(len(results)-failed, failed)
	}
	if err != nil {
		j.Logger.Error("ping job failed",
			slog.Int("endpoints", len(results)),
			slog.Int("failed", failed),
			slog.Any("error", err))
		return fmt.Errorf("ping search engines: %w", err)
	}

	j.Logger.Info("ping job completed",
		slog.Int("endpoints", len(results)),
		slog.Duration("duration", now().Sub(start)))
	return nil
}
