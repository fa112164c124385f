package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordSitemapRender(t *testing.T) {
	before := testutil.ToFloat64(SitemapRendersTotal.WithLabelValues("page", "not_found"))

	RecordSitemapRender("page", "not_found", 3*time.Millisecond)

	assert.Equal(t, before+1, testutil.ToFloat64(SitemapRendersTotal.WithLabelValues("page", "not_found")))
}

func TestRecordEntriesRendered(t *testing.T) {
	before := testutil.ToFloat64(SitemapEntriesRendered.WithLabelValues("metrics-test"))

	RecordEntriesRendered("metrics-test", 0)
	RecordEntriesRendered("metrics-test", 50000)

	assert.Equal(t, before+50000, testutil.ToFloat64(SitemapEntriesRendered.WithLabelValues("metrics-test")))
}

func TestUpdateArticlesTotal(t *testing.T) {
	UpdateArticlesTotal(120001)
	assert.Equal(t, 120001.0, testutil.ToFloat64(ArticlesTotal))
}

func TestUpdateDBConnectionStats(t *testing.T) {
	UpdateDBConnectionStats(3, 7)
	assert.Equal(t, 3.0, testutil.ToFloat64(DBConnectionsActive))
	assert.Equal(t, 7.0, testutil.ToFloat64(DBConnectionsIdle))
}
