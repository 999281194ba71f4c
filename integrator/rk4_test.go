package integrator

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

// decay integrates dy/dt = -k*y, whose solution is y0*exp(-k*t).
type decay struct {
	k     float64
	state []float64
	stopT float64
	sets  int
}

func (d *decay) GetState() []float64 {
	return d.state
}

func (d *decay) SetState(t float64, s []float64) {
	d.state = s
	d.sets++
}

func (d *decay) Stop(t float64) bool {
	return t >= d.stopT-1e-12
}

func (d *decay) Func(t float64, s []float64) []float64 {
	return []float64{-d.k * s[0]}
}

// harmonic integrates a unit oscillator: x'' = -x.
type harmonic struct {
	state []float64
	stopT float64
}

func (h *harmonic) GetState() []float64             { return h.state }
func (h *harmonic) SetState(t float64, s []float64) { h.state = s }
func (h *harmonic) Stop(t float64) bool             { return t >= h.stopT-1e-12 }
func (h *harmonic) Func(t float64, s []float64) []float64 {
	return []float64{s[1], -s[0]}
}

// clock integrates dy/dt = t, which checks the stage times.
type clock struct {
	state []float64
	stopT float64
}

func (c *clock) GetState() []float64             { return c.state }
func (c *clock) SetState(t float64, s []float64) { c.state = s }
func (c *clock) Stop(t float64) bool             { return t >= c.stopT-1e-12 }
func (c *clock) Func(t float64, s []float64) []float64 {
	return []float64{t}
}

type blowup struct {
	state []float64
}

func (b *blowup) GetState() []float64             { return b.state }
func (b *blowup) SetState(t float64, s []float64) { b.state = s }
func (b *blowup) Stop(t float64) bool             { return false }
func (b *blowup) Func(t float64, s []float64) []float64 {
	return []float64{math.Inf(1)}
}

func TestRK4Decay(t *testing.T) {
	d := &decay{k: 0.5, state: []float64{1200}, stopT: 2}
	iterNum, xi, err := NewRK4(0, 0.01, d).Solve()
	if err != nil {
		t.Fatalf("err: %+v", err)
	}
	if iterNum != 200 || d.sets != 200 {
		t.Fatalf("expected 200 iterations, got %d (sets=%d)", iterNum, d.sets)
	}
	if !scalar.EqualWithinAbs(xi, 2, 1e-9) {
		t.Fatalf("final xi=%f", xi)
	}
	exp := 1200 * math.Exp(-1)
	if !scalar.EqualWithinAbs(d.state[0], exp, 1e-7) {
		t.Fatalf("state=%.10f expected %.10f", d.state[0], exp)
	}
}

func TestRK4Harmonic(t *testing.T) {
	h := &harmonic{state: []float64{1, 0}, stopT: 2 * math.Pi}
	if _, _, err := NewRK4(0, 2*math.Pi/1000, h).Solve(); err != nil {
		t.Fatalf("err: %+v", err)
	}
	if !scalar.EqualWithinAbs(h.state[0], 1, 1e-9) || !scalar.EqualWithinAbs(h.state[1], 0, 1e-9) {
		t.Fatalf("oscillator did not close: %+v", h.state)
	}
}

func TestRK4StageTimes(t *testing.T) {
	// RK4 is exact for polynomials of degree <= 3 in t, so y(t) = t^2/2 exactly
	// only if the stages are evaluated at t, t+h/2, t+h/2 and t+h.
	c := &clock{state: []float64{0}, stopT: 3}
	if _, _, err := NewRK4(0, 0.5, c).Solve(); err != nil {
		t.Fatalf("err: %+v", err)
	}
	if !scalar.EqualWithinAbs(c.state[0], 4.5, 1e-12) {
		t.Fatalf("y(3)=%f expected 4.5", c.state[0])
	}
}

func TestRK4StopsImmediately(t *testing.T) {
	d := &decay{k: 1, state: []float64{1}, stopT: 0}
	iterNum, xi, err := NewRK4(0, 0.1, d).Solve()
	if err != nil || iterNum != 0 || xi != 0 || d.sets != 0 {
		t.Fatalf("expected no iteration, got iter=%d xi=%f sets=%d err=%v", iterNum, xi, d.sets, err)
	}
}

func TestRK4NonFinite(t *testing.T) {
	if _, _, err := NewRK4(0, 0.1, &blowup{state: []float64{1}}).Solve(); err != ErrNonFinite {
		t.Fatalf("expected ErrNonFinite, got %v", err)
	}
}

func TestRK4Panics(t *testing.T) {
	assertPanic(t, func() {
		NewRK4(0, 0, &decay{})
	})
	assertPanic(t, func() {
		NewRK4(0, 1, nil)
	})
}

func assertPanic(t *testing.T, f func()) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("code did not panic")
		}
	}()
	f()
}
