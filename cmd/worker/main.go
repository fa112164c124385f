package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"

	hsitemap "catchup-sitemap/internal/handler/http/sitemap"
	"catchup-sitemap/internal/infra/adapter/persistence"
	"catchup-sitemap/internal/infra/db"
	"catchup-sitemap/internal/infra/pinger"
	workerPkg "catchup-sitemap/internal/infra/worker"
	"catchup-sitemap/internal/observability/logging"
	"catchup-sitemap/internal/resilience/circuitbreaker"
	"catchup-sitemap/internal/resilience/retry"
	"catchup-sitemap/internal/usecase/ping"
	"catchup-sitemap/pkg/config"
)

// waitForMigrations blocks until the API has created the schema.
func waitForMigrations(logger *slog.Logger, database *sql.DB) {
	const probe = "SELECT 1 FROM articles LIMIT 1"
	for i := 0; i < 10; i++ {
		if _, err := database.Exec(probe); err == nil {
			return
		}
		logger.Info("waiting for migrations, retrying in 3s", slog.Int("attempt", i+1))
		time.Sleep(3 * time.Second)
	}
	logger.Error("migrations did not complete in time")
	os.Exit(1)
}

func main() {
	logger := logging.NewLogger()
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	workerMetrics := workerPkg.NewWorkerMetrics(prometheus.DefaultRegisterer)
	workerConfig := workerPkg.LoadConfigFromEnv(logger, workerMetrics)
	logger.Info("worker configuration loaded",
		slog.String("cron_schedule", workerConfig.CronSchedule),
		slog.String("timezone", workerConfig.Timezone),
		slog.Duration("job_timeout", workerConfig.JobTimeout),
		slog.Int("health_port", workerConfig.HealthPort))

	pingCfg, err := config.LoadPingConfig()
	if err != nil {
		logger.Error("invalid ping configuration", slog.Any("error", err))
		os.Exit(1)
	}
	// ワーカーはリクエストを受けないので、サイト URL は必須
	smCfg, err := config.LoadSitemapConfig()
	if err != nil {
		logger.Error("invalid sitemap configuration", slog.Any("error", err))
		os.Exit(1)
	}
	if smCfg.SiteBaseURL == "" {
		logger.Error("SITE_BASE_URL is required by the worker")
		os.Exit(1)
	}
	siteBaseURL := smCfg.SiteBaseURL

	httpPinger := pinger.New(pinger.Config{
		Timeout:           pingCfg.Timeout,
		RequestsPerSecond: pingCfg.RequestsPerSecond,
		Burst:             pingCfg.Burst,
		UserAgent:         pingCfg.UserAgent,
	})
	group := ping.NewGroup(hsitemap.Routes{}, httpPinger, siteBaseURL, pingCfg.Endpoints)
	retryCfg := retry.PingConfig()
	group.Retry = &retryCfg
	logger.Info("ping service initialized",
		slog.Int("endpoints", len(group.Services)),
		slog.String("site_base_url", siteBaseURL))

	healthAddr := fmt.Sprintf(":%d", workerConfig.HealthPort)
	healthServer := workerPkg.NewHealthServer(healthAddr, logger)
	go func() {
		if err := healthServer.Start(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("health server failed", slog.Any("error", err))
		}
	}()

	startMetricsServer(ctx, logger, httpPinger)

	job := &workerPkg.PingJob{
		Notifier: group,
		Timeout:  workerConfig.JobTimeout,
		Metrics:  workerMetrics,
		Health:   healthServer,
		Logger:   logger,
	}
	if database, articles := openDatabase(logger); database != nil {
		defer func() {
			if err := database.Close(); err != nil {
				logger.Error("failed to close database", slog.Any("error", err))
			}
		}()
		job.Articles = articles
	}

	startCronWorker(ctx, logger, job, workerConfig, healthServer)
}

// openDatabase connects when DATABASE_URL is set so runs can refresh the
// article gauge. The worker pings without it.
func openDatabase(logger *slog.Logger) (*sql.DB, workerPkg.ArticleCounter) {
	raw := config.GetEnvString("DATABASE_URL", "")
	if raw == "" {
		logger.Info("DATABASE_URL not set, article gauge disabled")
		return nil, nil
	}

	database, dialect, err := db.OpenDSN(context.Background(), raw, db.DefaultConnectionConfig())
	if err != nil {
		logger.Error("failed to open database", slog.Any("error", err))
		os.Exit(1)
	}
	waitForMigrations(logger, database)

	repos := persistence.New(circuitbreaker.NewDBCircuitBreaker(database), dialect)
	return database, repos.Articles
}

// startCronWorker schedules the ping job and blocks until ctx is done.
func startCronWorker(ctx context.Context, logger *slog.Logger, job *workerPkg.PingJob, cfg *workerPkg.WorkerConfig, health *workerPkg.HealthServer) {
	c := cron.New(
		cron.WithLocation(cfg.Location()),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)

	_, err := c.AddFunc(cfg.CronSchedule, func() {
		logger.Info("ping job started")
		// エラーは job 内でログ・メトリクス記録済み
		_ = job.Run(ctx)
	})
	if err != nil {
		logger.Error("failed to schedule ping job", slog.Any("error", err))
		os.Exit(1)
	}

	c.Start()
	health.SetReady(true)
	logger.Info("worker started", slog.String("schedule", cfg.CronSchedule), slog.String("timezone", cfg.Timezone))

	<-ctx.Done()
	health.SetReady(false)
	logger.Info("shutting down worker...")
	<-c.Stop().Done()
	logger.Info("worker stopped")
}
