package tracker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the tracker's Prometheus collectors.
type Metrics struct {
	Events   *prometheus.CounterVec
	Appended prometheus.Counter
	Evicted  prometheus.Counter
	Failures *prometheus.CounterVec
}

// NewMetrics registers the tracker collectors with reg. A nil reg creates
// collectors that are not registered anywhere.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Events: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "linejournal",
			Subsystem: "tracker",
			Name:      "events_total",
			Help:      "Change notifications processed, by kind.",
		}, []string{"kind"}),
		Appended: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "linejournal",
			Subsystem: "tracker",
			Name:      "entries_appended_total",
			Help:      "Journal entries appended.",
		}),
		Evicted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "linejournal",
			Subsystem: "tracker",
			Name:      "entries_evicted_total",
			Help:      "Journal entries dropped by the retention cap.",
		}),
		Failures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "linejournal",
			Subsystem: "tracker",
			Name:      "failures_total",
			Help:      "Change notifications that failed, by stage.",
		}, []string{"stage"}),
	}
}
