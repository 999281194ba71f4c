package wtransfer

import (
	"fmt"
	"math"
	"time"

	"github.com/gr2020155-code/W-Mars-Transfer-WStructure/integrator"
)

// WRadicand returns 2·H_W − 2·u − J_W², which must be non negative for the radial rate to exist.
func WRadicand(c Constants, u float64) float64 {
	return 2*c.HW - 2*u - c.JW*c.JW
}

// WRates returns du/dt and dφ/dt at the reciprocal radius u.
// When the radicand is negative du/dt is exactly zero and clamped is true.
func WRates(c Constants, u float64) (du, dφ float64, clamped bool) {
	dφ = c.JW * u * u
	rad := WRadicand(c, u)
	if rad < 0 {
		return 0, dφ, true
	}
	return -u * u * math.Sqrt(rad), dφ, false
}

// wTransfer is an integrator.Integrable over the state [u φ].
type wTransfer struct {
	c       Constants
	uM      float64
	u, φ    float64
	samples []TrajectorySample
	clamps  uint64
	reached bool
	opts    solverOpts
}

func newWTransfer(c Constants, opts solverOpts) *wTransfer {
	w := &wTransfer{
		c:       c,
		uM:      c.UMars(),
		u:       c.UEarth(),
		samples: make([]TrajectorySample, 0, int(math.Min(c.TimeCap/c.Dt, 1<<16))+2),
		opts:    opts,
	}
	w.record(0)
	return w
}

// record appends the current state as a sample at time t.
func (w *wTransfer) record(t float64) {
	sinφ, cosφ := math.Sincos(w.φ)
	s := TrajectorySample{T: t, X: cosφ / w.u, Y: sinφ / w.u}
	w.samples = append(w.samples, s)
	if w.opts.stream != nil {
		w.opts.stream <- s
	}
}

// GetState returns the [u φ] state.
func (w *wTransfer) GetState() []float64 {
	return []float64{w.u, w.φ}
}

// SetState stores the state reached at time t and appends it to the trajectory.
func (w *wTransfer) SetState(t float64, s []float64) {
	w.u = s[0]
	w.φ = s[1]
	w.record(t)
}

// Stop returns whether the target radius is reached or the time cap is exceeded.
// It is called after every appended state, so the terminal state is always kept.
func (w *wTransfer) Stop(t float64) bool {
	if w.u <= w.uM {
		w.reached = true
		return true
	}
	if t > w.c.TimeCap {
		w.opts.logger.Log("level", "warning", "subsys", "wstructure", "status", "time cap exceeded", "t", t, "r", 1/w.u)
		return true
	}
	return false
}

// Func computes [du/dt dφ/dt]; the domain guard applies to each RK4 stage on its own.
func (w *wTransfer) Func(t float64, s []float64) []float64 {
	du, dφ, clamped := WRates(w.c, s[0])
	if clamped {
		if w.clamps == 0 {
			w.opts.logger.Log("level", "debug", "subsys", "wstructure", "status", "radicand clamped", "t", t, "u", s[0], "radicand", WRadicand(w.c, s[0]))
		}
		w.clamps++
	}
	return []float64{du, dφ}
}

// IntegrateWStructure integrates the W-structure equations from the Earth radius
// with a fixed step RK4 until u ≤ u_M or the time cap is exceeded.
// A time capped result is still returned in full, its Outcome is TimeCapExceeded
// and its Err method returns ErrNonConvergence.
func IntegrateWStructure(c Constants, opts ...Option) (TransferResult, error) {
	o := newSolverOpts(opts)
	if o.stream != nil {
		defer close(o.stream)
	}
	if err := c.Validate(); err != nil {
		return TransferResult{}, err
	}
	start := time.Now()
	w := newWTransfer(c, o)
	iterNum, _, err := integrator.NewRK4(0, c.Dt, w).Solve()
	if err != nil {
		return TransferResult{}, fmt.Errorf("wstructure integration failed after %d steps: %w", iterNum, err)
	}

	last := w.samples[len(w.samples)-1]
	res := TransferResult{
		Model:   WStructureModel,
		Samples: w.samples,
		T:       last.T,
		Δv:      WInitialRate(c),
		Outcome: TimeCapExceeded,
		Clamps:  w.clamps,
		Sweep:   w.φ,
	}
	if w.reached {
		res.Outcome = TargetReached
	}
	if w.clamps > 0 {
		o.logger.Log("level", "warning", "subsys", "wstructure", "status", "domain clamps", "count", w.clamps)
	}
	o.metrics.RecordSolve(res, time.Since(start))
	o.logger.Log("level", "debug", "subsys", "wstructure", "steps", iterNum, "T", res.T, "Δv", res.Δv, "outcome", res.Outcome)
	return res, nil
}

// WInitialRate returns the clamped initial radial rate magnitude, used as the W-structure Δv estimate.
func WInitialRate(c Constants) float64 {
	return math.Sqrt(math.Max(0, WRadicand(c, c.UEarth())))
}
