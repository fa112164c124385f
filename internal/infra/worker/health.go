package worker

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// HealthServer serves the worker probes:
//   - GET /health: liveness, always 200
//   - GET /health/ready: 200 once SetReady(true), 503 before, with the
//     outcome of the last ping job run
type HealthServer struct {
	addr    string
	logger  *slog.Logger
	isReady atomic.Bool
	server  *http.Server

	mu      sync.RWMutex
	lastRun *runStatus
}

type runStatus struct {
	At    time.Time `json:"at"`
	Error string    `json:"error,omitempty"`
}

type healthResponse struct {
	Status  string     `json:"status"`
	LastRun *runStatus `json:"last_run,omitempty"`
}

func NewHealthServer(addr string, logger *slog.Logger) *HealthServer {
	return &HealthServer{addr: addr, logger: logger}
}

// Handler returns the probe routes.
func (h *HealthServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", h.handleLiveness)
	mux.HandleFunc("GET /health/ready", h.handleReadiness)
	return mux
}

// Start serves until ctx is cancelled, then shuts down within 5 seconds and
// returns http.ErrServerClosed.
func (h *HealthServer) Start(ctx context.Context) error {
	h.server = &http.Server{
		Addr:         h.addr,
		Handler:      h.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		h.logger.Info("health server starting", slog.String("addr", h.addr))
		errChan <- h.server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := h.server.Shutdown(shutdownCtx); err != nil {
			h.logger.Error("health server shutdown failed", slog.Any("error", err))
			return err
		}
		h.logger.Info("health server stopped")
		return http.ErrServerClosed
	case err := <-errChan:
		if !errors.Is(err, http.ErrServerClosed) {
			h.logger.Error("health server failed", slog.Any("error", err))
		}
		return err
	}
}

func (h *HealthServer) SetReady(ready bool) {
	h.isReady.Store(ready)
	h.logger.Info("health server readiness changed", slog.Bool("ready", ready))
}

// RecordRun stores the outcome of a ping job run for the readiness probe.
// A failed run does not make the worker unready.
func (h *HealthServer) RecordRun(at time.Time, err error) {
	st := &runStatus{At: at.UTC()}
	if err != nil {
		st.Error = err.Error()
	}
	h.mu.Lock()
	h.lastRun = st
	h.mu.Unlock()
}

func (h *HealthServer) handleLiveness(w http.ResponseWriter, _ *http.Request) {
	h.write(w, http.StatusOK, healthResponse{Status: "ok"})
}

func (h *HealthServer) handleReadiness(w http.ResponseWriter, _ *http.Request) {
	h.mu.RLock()
	last := h.lastRun
	h.mu.RUnlock()

	if !h.isReady.Load() {
		h.write(w, http.StatusServiceUnavailable, healthResponse{Status: "not ready", LastRun: last})
		return
	}
	h.write(w, http.StatusOK, healthResponse{Status: "ok", LastRun: last})
}

func (h *HealthServer) write(w http.ResponseWriter, code int, body healthResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("failed to encode health response", slog.Any("error", err))
	}
}
