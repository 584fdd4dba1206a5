package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "catalog"

// Metrics counts how list requests use filters. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	FiltersApplied  *prometheus.CounterVec
	FiltersRejected *prometheus.CounterVec
	ListDuration    *prometheus.HistogramVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		FiltersApplied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "list_filters_applied_total",
			Help:      "Filters applied to list queries.",
		}, []string{"resource", "filter"}),
		FiltersRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "list_filters_rejected_total",
			Help:      "Filters a list request asked for that could not be applied.",
		}, []string{"resource"}),
		ListDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "list_duration_seconds",
			Help:      "Time spent building and running list queries.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"resource"}),
	}
	if reg != nil {
		reg.MustRegister(m.FiltersApplied, m.FiltersRejected, m.ListDuration)
	}
	return m
}

func (m *Metrics) FilterApplied(resource, filter string) {
	if m == nil {
		return
	}
	m.FiltersApplied.WithLabelValues(resource, filter).Inc()
}

func (m *Metrics) FilterRejected(resource string) {
	if m == nil {
		return
	}
	m.FiltersRejected.WithLabelValues(resource).Inc()
}

func (m *Metrics) ObserveList(resource string, start time.Time) {
	if m == nil {
		return
	}
	m.ListDuration.WithLabelValues(resource).Observe(time.Since(start).Seconds())
}
