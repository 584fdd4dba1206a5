package metrics_test

import (
	"testing"
	"time"

	"catalog/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	m.FilterApplied("datasets", "schema")
	m.FilterApplied("datasets", "schema")
	m.FilterApplied("datasets", "db")
	m.FilterRejected("tables")
	m.ObserveList("datasets", time.Now())

	assert.Equal(t, 2.0, testutil.ToFloat64(m.FiltersApplied.WithLabelValues("datasets", "schema")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FiltersApplied.WithLabelValues("datasets", "db")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FiltersRejected.WithLabelValues("tables")))

	n, err := testutil.GatherAndCount(reg, "catalog_list_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestNilMetrics(t *testing.T) {
	var m *metrics.Metrics
	assert.NotPanics(t, func() {
		m.FilterApplied("datasets", "schema")
		m.FilterRejected("datasets")
		m.ObserveList("datasets", time.Now())
	})
}
