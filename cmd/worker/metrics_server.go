package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"catchup-sitemap/internal/infra/pinger"
	"catchup-sitemap/pkg/config"
)

// EndpointHealthResponse reports the circuit breaker of every ping endpoint.
type EndpointHealthResponse struct {
	Healthy   bool                    `json:"healthy"`
	Endpoints []pinger.EndpointStatus `json:"endpoints"`
}

// EndpointHealthSource is implemented by *pinger.HTTPPinger.
type EndpointHealthSource interface {
	EndpointHealth() []pinger.EndpointStatus
}

// startMetricsServer serves on METRICS_PORT (default 9090):
//   - GET /metrics
//   - GET /health/endpoints: 503 while any endpoint's circuit is open
//
// It shuts down when ctx is cancelled.
func startMetricsServer(ctx context.Context, logger *slog.Logger, endpoints EndpointHealthSource) *http.Server {
	port := config.GetEnvInt("METRICS_PORT", 9090)
	if port <= 0 || port > 65535 {
		port = 9090
	}

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /health/endpoints", endpointHealthHandler(endpoints))

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("metrics server starting", slog.Int("port", port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server error", slog.Any("error", err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("metrics server shutdown error", slog.Any("error", err))
		}
	}()

	return server
}

func endpointHealthHandler(src EndpointHealthSource) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		statuses := src.EndpointHealth()
		healthy := true
		for _, st := range statuses {
			if st.CircuitBreakerOpen {
				healthy = false
			}
		}

		code := http.StatusOK
		if !healthy {
			code = http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(EndpointHealthResponse{Healthy: healthy, Endpoints: statuses})
	}
}
