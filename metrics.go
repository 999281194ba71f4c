package wtransfer

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collects solver activity. A nil *Metrics records nothing.
type Metrics struct {
	solves   *prometheus.CounterVec
	clamps   prometheus.Counter
	duration *prometheus.HistogramVec
	samples  *prometheus.HistogramVec
}

// NewMetrics creates and registers the solver metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		solves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wtransfer_solves_total",
				Help: "Total number of solver invocations",
			},
			[]string{"model", "outcome"},
		),
		clamps: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "wtransfer_domain_clamps_total",
				Help: "RK4 stage derivatives clamped to zero because of a negative radicand",
			},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "wtransfer_solve_duration_seconds",
				Help:    "Time spent in a solver",
				Buckets: prometheus.ExponentialBuckets(1e-5, 4, 10),
			},
			[]string{"model"},
		),
		samples: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "wtransfer_samples",
				Help:    "Number of trajectory samples produced per solve",
				Buckets: prometheus.ExponentialBuckets(100, 4, 8),
			},
			[]string{"model"},
		),
	}

	reg.MustRegister(m.solves)
	reg.MustRegister(m.clamps)
	reg.MustRegister(m.duration)
	reg.MustRegister(m.samples)

	return m
}

// RecordSolve records a finished solver call.
func (m *Metrics) RecordSolve(res TransferResult, elapsed time.Duration) {
	if m == nil {
		return
	}
	model := res.Model.String()
	m.solves.WithLabelValues(model, res.Outcome.String()).Inc()
	m.duration.WithLabelValues(model).Observe(elapsed.Seconds())
	m.samples.WithLabelValues(model).Observe(float64(len(res.Samples)))
	if res.Clamps > 0 {
		m.clamps.Add(float64(res.Clamps))
	}
}
