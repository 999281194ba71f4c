package wtransfer

import (
	kitlog "github.com/go-kit/kit/log"
)

// Option configures a solver call.
type Option func(*solverOpts)

type solverOpts struct {
	logger  kitlog.Logger
	metrics *Metrics
	stream  chan<- TrajectorySample
}

func newSolverOpts(opts []Option) solverOpts {
	o := solverOpts{logger: kitlog.NewNopLogger()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger sets the logger used by a solver.
func WithLogger(logger kitlog.Logger) Option {
	return func(o *solverOpts) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetrics records solver activity in m.
func WithMetrics(m *Metrics) Option {
	return func(o *solverOpts) {
		o.metrics = m
	}
}

// StreamTo sends every sample to ch as soon as it is computed. The solver closes
// ch when it returns, including on a configuration error.
func StreamTo(ch chan<- TrajectorySample) Option {
	return func(o *solverOpts) {
		o.stream = ch
	}
}
