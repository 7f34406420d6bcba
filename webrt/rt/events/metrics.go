package events

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics collects hand-off traffic. A nil *Metrics records nothing.
type Metrics struct {
	reg     prometheus.Registerer
	ns      string
	Posted  prometheus.Counter
	Dropped prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		reg: reg,
		ns:  namespace,
		Posted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "events",
			Name:      "posted_total",
			Help:      "Tasks handed to the engine goroutine",
		}),
		Dropped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "events",
			Name:      "dropped_total",
			Help:      "Tasks dropped because the hand-off queue was full",
		}),
	}
}

// observe exports the queue depth of l.
func (m *Metrics) observe(l *Loop) {
	if m == nil || m.reg == nil {
		return
	}
	promauto.With(m.reg).NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: m.ns,
		Subsystem: "events",
		Name:      "queue_depth",
		Help:      "Tasks waiting for the engine goroutine",
	}, func() float64 { return float64(l.Len()) })
}

func (m *Metrics) posted() {
	if m != nil {
		m.Posted.Inc()
	}
}

func (m *Metrics) dropped() {
	if m != nil {
		m.Dropped.Inc()
	}
}
