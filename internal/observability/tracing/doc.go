// Package tracing wires OpenTelemetry into the sitemap service: a server
// span per HTTP request and child spans around sitemap rendering.
package tracing
