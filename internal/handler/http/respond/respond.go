// Package respond writes JSON responses and client-safe error bodies.
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
)

// JSON writes v as a JSON response with the given status code.
func JSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// ヘッダー送信済みのためログのみ
		slog.Default().Error("failed to encode JSON response",
			slog.Int("status_code", code),
			slog.Any("error", err))
	}
}

// Error writes {"error": err} with the given status code.
func Error(w http.ResponseWriter, code int, err error) {
	JSON(w, code, map[string]string{"error": err.Error()})
}

// safeFragments mark messages that may be shown to clients as-is.
var safeFragments = []string{
	"not found",
	"invalid",
	"required",
	"must be",
	"unauthorized",
	"forbidden",
	"rate limit",
}

// SafeError writes err to the client only when it is a client error whose
// message is known to be harmless. Everything else, and every 5xx, is
// logged with secrets masked and answered with "internal server error".
func SafeError(w http.ResponseWriter, code int, err error) {
	if err == nil {
		return
	}

	msg := err.Error()
	if code < http.StatusInternalServerError && isSafe(msg) {
		JSON(w, code, map[string]string{"error": msg})
		return
	}

	slog.Default().Error("internal server error",
		slog.String("status", http.StatusText(code)),
		slog.Int("code", code),
		slog.String("error", SanitizeError(err)))
	JSON(w, code, map[string]string{"error": "internal server error"})
}

func isSafe(msg string) bool {
	lower := strings.ToLower(msg)
	for _, frag := range safeFragments {
		if strings.Contains(lower, frag) {
			return true
		}
	}
	return false
}
