// Package metrics exposes Prometheus instrumentation for the interaction
// engine. A nil *Metrics is a valid no-op recorder so library embedders
// that do not scrape pay nothing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the engine's counters, registered on one registry.
type Metrics struct {
	interactionsApplied  *prometheus.CounterVec
	interactionsRejected *prometheus.CounterVec
}

// New creates the engine counters and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		interactionsApplied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "registry",
			Name:      "interactions_applied_total",
			Help:      "Interactions that produced a committed state transition.",
		}, []string{"function"}),
		interactionsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "registry",
			Name:      "interactions_rejected_total",
			Help:      "Interactions rejected without touching state.",
		}, []string{"function", "kind"}),
	}
	reg.MustRegister(m.interactionsApplied, m.interactionsRejected)
	return m
}

// RecordApplied counts a committed interaction.
func (m *Metrics) RecordApplied(function string) {
	if m == nil {
		return
	}
	m.interactionsApplied.WithLabelValues(function).Inc()
}

// RecordRejected counts a rejected interaction by error kind.
func (m *Metrics) RecordRejected(function, kind string) {
	if m == nil {
		return
	}
	m.interactionsRejected.WithLabelValues(function, kind).Inc()
}
