package observability

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/arborui/arbor/pkg/domain"
)

// Metrics holds the Prometheus collectors for one engine instance.
type Metrics struct {
	enabledChanges  *prometheus.CounterVec
	topologyChanges *prometheus.CounterVec
	messages        *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
// Pass prometheus.DefaultRegisterer for the default registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		enabledChanges: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arbor_enabled_changes_total",
				Help: "Total number of effective enabled-state transitions",
			},
			[]string{"state"},
		),
		topologyChanges: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arbor_topology_changes_total",
				Help: "Total number of attach and detach operations",
			},
			[]string{"op"},
		),
		messages: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arbor_messages_total",
				Help: "Inbound messages by channel kind and gate decision",
			},
			[]string{"kind", "decision"},
		),
	}
	reg.MustRegister(m.enabledChanges, m.topologyChanges, m.messages)
	return m
}

// MessageCounter exposes the gate decision counter, primarily for tests.
func (m *Metrics) MessageCounter() *prometheus.CounterVec {
	return m.messages
}

// Hooks returns a LifecycleHooks adapter feeding the collectors.
// Merge it with application hooks via domain.LifecycleHooks.Merge.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnEnabledChange: func(_ context.Context, e *domain.EnabledEvent) {
			state := "disabled"
			if e.Enabled {
				state = "enabled"
			}
			m.enabledChanges.WithLabelValues(state).Inc()
		},
		OnAttach: func(_ context.Context, e *domain.TopologyEvent) {
			m.topologyChanges.WithLabelValues("attach").Inc()
		},
		OnDetach: func(_ context.Context, e *domain.TopologyEvent) {
			m.topologyChanges.WithLabelValues("detach").Inc()
		},
		OnMessageAllowed: func(_ context.Context, e *domain.MessageEvent) {
			m.messages.WithLabelValues(string(e.Kind), "allowed").Inc()
		},
		OnMessageDropped: func(_ context.Context, e *domain.MessageEvent) {
			m.messages.WithLabelValues(string(e.Kind), "dropped").Inc()
		},
	}
}
