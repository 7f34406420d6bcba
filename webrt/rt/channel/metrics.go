package channel

import (
	"time"

	"github.com/gekko3d/remotegl/webrt/rt/cmdbuf"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics collects command traffic. A nil *Metrics records nothing.
type Metrics struct {
	Sent            *prometheus.CounterVec
	Timeouts        *prometheus.CounterVec
	Discarded       prometheus.Counter
	TransportErrors prometheus.Counter
	RoundTrip       *prometheus.HistogramVec
}

// NewMetrics registers the collectors on reg. A nil reg creates unregistered
// collectors, which is what tests usually want.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Sent: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "channel",
			Name:      "requests_total",
			Help:      "Command buffers sent to the host, by command type",
		}, []string{"command"}),
		Timeouts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "channel",
			Name:      "timeouts_total",
			Help:      "Synchronous requests that got no response in time",
		}, []string{"command"}),
		Discarded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "channel",
			Name:      "discarded_responses_total",
			Help:      "Late or unparseable responses dropped while waiting",
		}),
		TransportErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "channel",
			Name:      "transport_errors_total",
			Help:      "Failed transport writes and reads",
		}),
		RoundTrip: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "channel",
			Name:      "round_trip_seconds",
			Help:      "Latency of synchronous requests",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 3},
		}, []string{"command"}),
	}
}

func (m *Metrics) sent(t cmdbuf.CommandType) {
	if m != nil {
		m.Sent.WithLabelValues(t.String()).Inc()
	}
}

func (m *Metrics) timeout(t cmdbuf.CommandType) {
	if m != nil {
		m.Timeouts.WithLabelValues(t.String()).Inc()
	}
}

func (m *Metrics) discarded() {
	if m != nil {
		m.Discarded.Inc()
	}
}

func (m *Metrics) transportError() {
	if m != nil {
		m.TransportErrors.Inc()
	}
}

func (m *Metrics) roundTrip(t cmdbuf.CommandType, d time.Duration) {
	if m != nil {
		m.RoundTrip.WithLabelValues(t.String()).Observe(d.Seconds())
	}
}
