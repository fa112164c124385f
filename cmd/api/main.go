package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	hhttp "catchup-sitemap/internal/handler/http"
	hauth "catchup-sitemap/internal/handler/http/auth"
	"catchup-sitemap/internal/handler/http/requestid"
	hsitemap "catchup-sitemap/internal/handler/http/sitemap"
	"catchup-sitemap/internal/infra/adapter/persistence"
	"catchup-sitemap/internal/infra/db"
	"catchup-sitemap/internal/infra/pinger"
	"catchup-sitemap/internal/observability/logging"
	"catchup-sitemap/internal/observability/tracing"
	"catchup-sitemap/internal/resilience/circuitbreaker"
	"catchup-sitemap/internal/sitemap"
	"catchup-sitemap/internal/sitemap/sections"
	"catchup-sitemap/internal/usecase/ping"
	sitemapUC "catchup-sitemap/internal/usecase/sitemap"
	"catchup-sitemap/pkg/config"
)

func main() {
	logger := logging.NewLogger()
	slog.SetDefault(logger)

	secret := loadJWTSecret(logger)
	adminUser, adminPassword := loadAdminCredentials(logger)

	database, dialect := initDatabase(logger)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	version := getVersion()
	shutdownTracing := tracing.Setup("catchup-sitemap-api", version, config.GetEnvFloat("TRACE_SAMPLE_RATIO", 0.1))

	smCfg, err := config.LoadSitemapConfig()
	if err != nil {
		logger.Error("invalid sitemap configuration", slog.Any("error", err))
		os.Exit(1)
	}
	pingCfg, err := config.LoadPingConfig()
	if err != nil {
		logger.Error("invalid ping configuration", slog.Any("error", err))
		os.Exit(1)
	}

	registry := buildRegistry(logger, database, dialect, smCfg)
	notifier := ping.NewGroup(
		hsitemap.Routes{Labels: registry.Labels()},
		pinger.New(pinger.Config{
			Timeout:           pingCfg.Timeout,
			RequestsPerSecond: pingCfg.RequestsPerSecond,
			Burst:             pingCfg.Burst,
			UserAgent:         pingCfg.UserAgent,
		}),
		smCfg.SiteBaseURL,
		pingCfg.Endpoints,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	limiter := hhttp.NewRateLimiter(
		config.GetEnvFloat("RATE_LIMIT_RPS", 20),
		config.GetEnvInt("RATE_LIMIT_BURST", 40),
	)
	go limiter.RunSweeper(ctx, time.Minute)
	go db.ReportStats(ctx, database, 15*time.Second)

	mux := http.NewServeMux()
	mux.Handle("GET /health", &hhttp.HealthHandler{DB: database, Version: version, Sections: registry.Labels()})
	mux.Handle("GET /ready", &hhttp.ReadyHandler{DB: database})
	mux.Handle("GET /live", hhttp.LiveHandler{})
	mux.Handle("GET /metrics", hhttp.MetricsHandler())
	mux.Handle("POST /auth/token", hauth.TokenHandler{
		AdminUser:     adminUser,
		AdminPassword: adminPassword,
		Secret:        secret,
		TTL:           config.GetEnvDuration("JWT_TTL", hauth.DefaultTokenTTL),
	})
	hsitemap.Register(mux, &sitemapUC.Service{Registry: registry}, smCfg.SiteBaseURL, notifier, secret)

	handler := applyMiddleware(logger, mux, limiter)
	runServer(ctx, cancel, logger, handler, version)

	flushCtx, flushCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer flushCancel()
	if err := shutdownTracing(flushCtx); err != nil {
		logger.Error("tracer shutdown failed", slog.Any("error", err))
	}
}

func loadJWTSecret(logger *slog.Logger) []byte {
	secret := os.Getenv("JWT_SECRET")
	if err := hauth.ValidateSecret(secret); err != nil {
		logger.Error("JWT_SECRET validation failed", slog.Any("error", err))
		os.Exit(1)
	}
	return []byte(secret)
}

func loadAdminCredentials(logger *slog.Logger) (string, string) {
	user, password := os.Getenv("ADMIN_USER"), os.Getenv("ADMIN_USER_PASSWORD")
	if err := hauth.ValidateAdminCredentials(user, password); err != nil {
		logger.Error("admin credentials validation failed", slog.Any("error", err))
		os.Exit(1)
	}
	return user, password
}

// initDatabase opens the database connection and runs migrations.
func initDatabase(logger *slog.Logger) (*sql.DB, db.Dialect) {
	database, dialect := db.Open()
	if err := db.MigrateUp(database, dialect); err != nil {
		logger.Error("failed to migrate database", slog.Any("error", err))
		os.Exit(1)
	}
	return database, dialect
}

func getVersion() string {
	return config.GetEnvString("VERSION", "dev")
}

// buildRegistry registers the sections in index order: articles, sources,
// then the optional static pages.
func buildRegistry(logger *slog.Logger, database *sql.DB, dialect db.Dialect, cfg *config.SitemapConfig) *sitemap.Registry {
	repos := persistence.New(circuitbreaker.NewDBCircuitBreaker(database), dialect)

	var activeSources = repos.Sources
	if !cfg.ActiveSourcesOnly {
		activeSources = nil
	}

	regs := []sitemap.Registration{
		{
			Label: "articles",
			Section: sections.NewArticles(repos.Articles, activeSources, sections.Options{
				ChangeFreq: cfg.Articles.ChangeFreq,
				Priority:   cfg.Articles.Priority,
				PageSize:   cfg.PageSize,
			}),
		},
		{
			Label: "sources",
			Section: sections.NewSources(repos.Sources, sections.Options{
				ChangeFreq: cfg.Sources.ChangeFreq,
				Priority:   cfg.Sources.Priority,
				PageSize:   cfg.PageSize,
			}),
		},
	}
	if cfg.StaticPagesFile != "" {
		// 起動時に一度読んで設定ミスを早期に検出する
		if _, err := sections.LoadStaticPages(cfg.StaticPagesFile); err != nil {
			logger.Error("failed to load static pages", slog.String("file", cfg.StaticPagesFile), slog.Any("error", err))
			os.Exit(1)
		}
		regs = append(regs, sitemap.Registration{
			Label:   "pages",
			Factory: sections.StaticFactory(cfg.StaticPagesFile, cfg.PageSize),
		})
	}

	registry, err := sitemap.NewRegistry(regs...)
	if err != nil {
		logger.Error("failed to build sitemap registry", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("sitemap registry ready",
		slog.Any("sections", registry.Labels()),
		slog.Int("page_size", cfg.PageSize),
		slog.Bool("active_sources_only", cfg.ActiveSourcesOnly))
	return registry
}

// applyMiddleware wraps the handler with the middleware chain, outermost first:
// Request ID → Tracing → Rate Limit → Recovery → Logging → Body Limit → Timeout → Metrics
func applyMiddleware(logger *slog.Logger, handler http.Handler, limiter *hhttp.RateLimiter) http.Handler {
	h := hhttp.MetricsMiddleware(handler)
	h = hhttp.Timeout(config.GetEnvDuration("HTTP_REQUEST_TIMEOUT", 30*time.Second))(h)
	h = hhttp.LimitRequestBody(1 << 20)(h) // 1MB limit
	h = hhttp.Logging(logger)(h)
	h = hhttp.Recover(logger)(h)
	h = limiter.Limit(h)
	h = tracing.Middleware(h)
	return requestid.Middleware(h)
}

// runServer serves until SIGINT or SIGTERM, then shuts down gracefully.
func runServer(ctx context.Context, cancel context.CancelFunc, logger *slog.Logger, handler http.Handler, version string) {
	addr := config.GetEnvString("HTTP_ADDR", ":8080")
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second, // Prevent Slowloris attacks
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		logger.Info("server starting",
			slog.String("addr", addr),
			slog.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	logger.Info("server stopped")
}
