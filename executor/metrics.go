package executor

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the executor's prometheus instruments. A nil *Metrics is
// valid anywhere it's accepted (see Executor.Run), so instrumentation is
// opt-in.
type Metrics struct {
	stepsTotal  *prometheus.CounterVec
	flowSeconds prometheus.Histogram
}

// NewMetrics registers the executor's instruments against reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		stepsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "enbu",
			Subsystem: "executor",
			Name:      "steps_total",
			Help:      "Total steps executed by tag and status.",
		}, []string{"tag", "status"}),
		flowSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "enbu",
			Subsystem: "executor",
			Name:      "flow_duration_seconds",
			Help:      "Total wall-clock duration of a flow run.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(m.stepsTotal, m.flowSeconds)
	return m
}

func (m *Metrics) observeStep(tag string, status Status) {
	m.stepsTotal.WithLabelValues(tag, string(status)).Inc()
}

func (m *Metrics) observeFlow(d time.Duration) {
	m.flowSeconds.Observe(d.Seconds())
}
