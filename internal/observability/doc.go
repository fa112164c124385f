// Package observability groups logging, metrics and tracing helpers.
//
// Subpackages:
//   - logging: slog JSON logger and request-scoped loggers
//   - metrics: Prometheus collectors and recorders
//   - tracing: OpenTelemetry HTTP middleware and tracer
package observability
