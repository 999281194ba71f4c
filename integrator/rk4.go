package integrator

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
)

// ErrNonFinite is returned when a step produced a NaN or infinite state.
var ErrNonFinite = errors.New("integrator: non finite state")

// RK4 defines a fixed step classical fourth order Runge-Kutta integrator.
type RK4 struct {
	X0        float64    // The initial x0.
	StepSize  float64    // The step size.
	Integator Integrable // What is to be integrated.
}

// NewRK4 returns a new RK4 integrator instance.
func NewRK4(x0 float64, stepSize float64, inte Integrable) (r *RK4) {
	if stepSize <= 0 {
		panic("config StepSize must be positive")
	}
	if inte == nil {
		panic("config Integator may not be nil")
	}
	r = &RK4{X0: x0, StepSize: stepSize, Integator: inte}
	return
}

// Solve solves the configured RK4.
// Returns the number of iterations performed and the last X_i, or an error.
// The integrable is asked whether to stop before every step, so the last state
// handed to SetState is always the one which triggered the stop.
func (r *RK4) Solve() (uint64, float64, error) {
	const (
		half     = 1 / 2.0
		oneSixth = 1 / 6.0
		oneThird = 1 / 3.0
	)

	iterNum := uint64(0)
	xi := r.X0
	halfStep := r.StepSize * half
	for !r.Integator.Stop(xi) {
		state := r.Integator.GetState()
		tState := make([]float64, len(state))

		// Compute the k's, each already scaled by the step size.
		k1 := r.Integator.Func(xi, state)
		floats.Scale(r.StepSize, k1)
		floats.AddScaledTo(tState, state, half, k1)

		k2 := r.Integator.Func(xi+halfStep, tState)
		floats.Scale(r.StepSize, k2)
		floats.AddScaledTo(tState, state, half, k2)

		k3 := r.Integator.Func(xi+halfStep, tState)
		floats.Scale(r.StepSize, k3)
		floats.AddScaledTo(tState, state, 1, k3)

		k4 := r.Integator.Func(xi+r.StepSize, tState)
		floats.Scale(r.StepSize, k4)

		newState := make([]float64, len(state))
		for i := range state {
			newState[i] = state[i] + oneSixth*(k1[i]+k4[i]) + oneThird*(k2[i]+k3[i])
			if math.IsNaN(newState[i]) || math.IsInf(newState[i], 0) {
				return iterNum, xi, ErrNonFinite
			}
		}

		xi += r.StepSize
		iterNum++ // Don't forget to increment the number of iterations.
		r.Integator.SetState(xi, newState)
	}

	return iterNum, xi, nil
}
