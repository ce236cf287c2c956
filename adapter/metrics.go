package adapter

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the adapter's prometheus instruments. A nil *Metrics is
// valid everywhere it's accepted (see BrowserAdapter.call) so instrumenting
// a caller is opt-in.
type Metrics struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics registers the adapter's instruments against reg and returns
// a Metrics ready to pass into Config.Metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "enbu",
			Subsystem: "adapter",
			Name:      "calls_total",
			Help:      "Total driver invocations by operation and outcome.",
		}, []string{"op", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "enbu",
			Subsystem: "adapter",
			Name:      "call_duration_seconds",
			Help:      "Driver invocation latency by operation.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
	}
	reg.MustRegister(m.calls, m.duration)
	return m
}

func (m *Metrics) observeCall(op string, d time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.calls.WithLabelValues(op, outcome).Inc()
	m.duration.WithLabelValues(op).Observe(d.Seconds())
}
