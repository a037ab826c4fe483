// Package metrics exposes Prometheus instruments for participation and fan-out.
//
// All methods are safe on a nil *Metrics so components can run without metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "eventcore"

// Result labels.
const (
	ResultOK      = "ok"
	ResultNoop    = "noop"
	ResultError   = "error"
	ResultDropped = "dropped"
	ResultEvicted = "evicted"
)

type Metrics struct {
	participationChanges *prometheus.CounterVec
	notifications        *prometheus.CounterVec
	observers            prometheus.Gauge
	statusTransitions    *prometheus.CounterVec
	storageFailures      *prometheus.CounterVec
}

// New registers the instruments on reg. Pass prometheus.DefaultRegisterer in
// production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		participationChanges: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "participation_changes_total",
				Help:      "Join and leave attempts by outcome",
			},
			[]string{"action", "result"},
		),
		notifications: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "notifications_total",
				Help:      "Notification deliveries by outcome",
			},
			[]string{"result"},
		),
		observers: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "observers",
				Help:      "Currently connected observers",
			},
		),
		statusTransitions: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "status_transitions_total",
				Help:      "Status changes persisted by the read-time sweep",
			},
			[]string{"to"},
		),
		storageFailures: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "storage_failures_total",
				Help:      "Failed store or ledger operations",
			},
			[]string{"op"},
		),
	}
}

func (m *Metrics) ParticipationChange(action, result string) {
	if m == nil {
		return
	}
	m.participationChanges.WithLabelValues(action, result).Inc()
}

func (m *Metrics) Notification(result string) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(result).Inc()
}

func (m *Metrics) SetObservers(n int) {
	if m == nil {
		return
	}
	m.observers.Set(float64(n))
}

func (m *Metrics) StatusTransition(to string) {
	if m == nil {
		return
	}
	m.statusTransitions.WithLabelValues(to).Inc()
}

func (m *Metrics) StorageFailure(op string) {
	if m == nil {
		return
	}
	m.storageFailures.WithLabelValues(op).Inc()
}
