// Package logging builds the slog loggers used by every binary and derives
// request-scoped loggers that carry the request ID.
//
//	logger := logging.NewLogger()
//	slog.SetDefault(logger)
//	logging.WithRequestID(r.Context(), logger).Info("sitemap rendered")
package logging
