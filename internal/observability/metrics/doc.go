// Package metrics holds the Prometheus collectors of the sitemap service:
// HTTP traffic, sitemap rendering and database pool usage. Every collector
// is registered with the default registry and served on /metrics.
//
//	start := time.Now()
//	body, err := render()
//	metrics.RecordSitemapRender("page", "success", time.Since(start))
package metrics
