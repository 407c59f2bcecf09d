package observability

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsCounters(t *testing.T) {
	m := New()

	m.RowOutcome("retained")
	m.RowOutcome("retained")
	m.RowOutcome("failed")
	m.DateStrategy("brazilian_short")
	m.UnknownStatus("fechado", "Fechou")
	m.UnknownStatus("???", "")
	m.Load("webhook")
	m.ValidationIssue("group_sum")
	m.ObserveIngest("webhook", 150*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.rows.WithLabelValues("retained")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rows.WithLabelValues("failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.dateStrategies.WithLabelValues("brazilian_short")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.unknownStatuses.WithLabelValues("Fechou")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.unknownStatuses.WithLabelValues("none")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.loads.WithLabelValues("webhook")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.validationIssues.WithLabelValues("group_sum")))
}

func TestMetricsHandler(t *testing.T) {
	m := New()
	m.RowOutcome("dropped")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `leads_ingested_rows_total{outcome="dropped"} 1`))
	assert.Contains(t, body, "go_goroutines")
}
