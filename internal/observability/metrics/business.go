package metrics

import "time"

// RecordSitemapRender records one rendered (or failed) sitemap document.
// kind is "index" or "page".
func RecordSitemapRender(kind, status string, duration time.Duration) {
	SitemapRendersTotal.WithLabelValues(kind, status).Inc()
	SitemapRenderDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// RecordEntriesRendered adds count to the entries rendered for section.
func RecordEntriesRendered(section string, count int) {
	if count > 0 {
		SitemapEntriesRendered.WithLabelValues(section).Add(float64(count))
	}
}

// UpdateArticlesTotal updates the total count of articles in the database.
func UpdateArticlesTotal(count int64) {
	ArticlesTotal.Set(float64(count))
}

// UpdateDBConnectionStats mirrors sql.DBStats into the connection gauges.
func UpdateDBConnectionStats(active, idle int) {
	DBConnectionsActive.Set(float64(active))
	DBConnectionsIdle.Set(float64(idle))
}
