package runtime

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts registry and dispatch activity. Each Metrics owns its own
// prometheus registry so independent runtime instances (and tests) never
// collide on collector registration.
type Metrics struct {
	Registry *prometheus.Registry

	Defines    prometheus.Counter
	Removes    prometheus.Counter
	Dispatches *prometheus.CounterVec // outcome: dynamic|static|unhandled|denied
}

// NewMetrics creates the collector set on a fresh prometheus registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		Defines: factory.NewCounter(prometheus.CounterOpts{
			Name: "harriet_handler_defines_total",
			Help: "Dynamic handler definitions accepted.",
		}),
		Removes: factory.NewCounter(prometheus.CounterOpts{
			Name: "harriet_handler_removes_total",
			Help: "Dynamic handler removals accepted.",
		}),
		Dispatches: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "harriet_dispatches_total",
			Help: "Dispatches by outcome.",
		}, []string{"outcome"}),
	}
}

func (m *Metrics) countDispatch(outcome string) {
	if m != nil {
		m.Dispatches.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) countDefine() {
	if m != nil {
		m.Defines.Inc()
	}
}

func (m *Metrics) countRemove() {
	if m != nil {
		m.Removes.Inc()
	}
}
