// Package http holds the middleware and operational endpoints shared by the
// sitemap API: request logging, panic recovery, rate limiting, Prometheus
// metrics and the health, readiness and liveness probes.
package http

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"catchup-sitemap/internal/handler/http/respond"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status    string                 `json:"status"` // healthy|degraded|unhealthy
	Timestamp string                 `json:"timestamp"`
	Version   string                 `json:"version"`
	Checks    map[string]CheckStatus `json:"checks"`
}

// CheckStatus is the result of one health check.
type CheckStatus struct {
	Status  string         `json:"status"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// HealthHandler reports database connectivity and the registered sitemap
// sections. Only an unreachable database makes it unhealthy.
type HealthHandler struct {
	DB       *sql.DB
	Version  string
	Sections []string
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := map[string]CheckStatus{
		"database": h.checkDatabase(ctx),
		"sitemap": {
			Status:  "healthy",
			Details: map[string]any{"sections": h.Sections},
		},
	}

	status, code := "healthy", http.StatusOK
	switch checks["database"].Status {
	case "unhealthy":
		status, code = "unhealthy", http.StatusServiceUnavailable
	case "degraded":
		status = "degraded"
	}

	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	respond.JSON(w, code, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   h.Version,
		Checks:    checks,
	})
}

func (h *HealthHandler) checkDatabase(ctx context.Context) CheckStatus {
	if h.DB == nil {
		return CheckStatus{Status: "unhealthy", Message: "not configured"}
	}
	if err := h.DB.PingContext(ctx); err != nil {
		slog.Warn("health: database ping failed", slog.String("error", respond.SanitizeError(err)))
		return CheckStatus{Status: "unhealthy", Message: "database unreachable"}
	}

	stats := h.DB.Stats()
	details := map[string]any{
		"max_open_connections": stats.MaxOpenConnections,
		"open_connections":     stats.OpenConnections,
		"in_use":               stats.InUse,
		"idle":                 stats.Idle,
		"wait_count":           stats.WaitCount,
	}
	if stats.MaxOpenConnections > 0 {
		utilization := float64(stats.InUse) / float64(stats.MaxOpenConnections) * 100
		details["utilization_percent"] = utilization
		if utilization >= 80 {
			return CheckStatus{Status: "degraded", Message: "connection pool utilization above 80%", Details: details}
		}
	}
	return CheckStatus{Status: "healthy", Details: details}
}

// ReadyHandler answers the readiness probe: 200 once the database answers a ping.
type ReadyHandler struct {
	DB *sql.DB
}

func (h *ReadyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if h.DB == nil || h.DB.PingContext(ctx) != nil {
		http.Error(w, "not ready", http.StatusServiceUnavailable)
		return
	}
	writePlain(w, "ready")
}

// LiveHandler answers the liveness probe.
type LiveHandler struct{}

func (LiveHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	writePlain(w, "alive")
}

func writePlain(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}
