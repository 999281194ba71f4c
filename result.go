package wtransfer

import (
	"fmt"
	"math"
)

// Model identifies which solver produced a TransferResult.
type Model uint8

const (
	// HohmannModel is the closed form two-impulse ellipse.
	HohmannModel Model = iota + 1
	// WStructureModel is the integrated reciprocal-radius trajectory.
	WStructureModel
)

func (m Model) String() string {
	switch m {
	case HohmannModel:
		return "hohmann"
	case WStructureModel:
		return "wstructure"
	default:
		panic("unknown model")
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m Model) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Model) UnmarshalText(text []byte) error {
	for _, cand := range []Model{HohmannModel, WStructureModel} {
		if cand.String() == string(text) {
			*m = cand
			return nil
		}
	}
	return fmt.Errorf("unknown model `%s`", text)
}

// Outcome is the terminal state of a solver.
type Outcome uint8

const (
	// TargetReached means the path ends on the target radius.
	TargetReached Outcome = iota + 1
	// TimeCapExceeded means the integration gave up before reaching the target radius.
	TimeCapExceeded
)

func (o Outcome) String() string {
	switch o {
	case TargetReached:
		return "target-reached"
	case TimeCapExceeded:
		return "time-cap-exceeded"
	default:
		panic("unknown outcome")
	}
}

// MarshalText implements encoding.TextMarshaler.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Outcome) UnmarshalText(text []byte) error {
	for _, cand := range []Outcome{TargetReached, TimeCapExceeded} {
		if cand.String() == string(text) {
			*o = cand
			return nil
		}
	}
	return fmt.Errorf("unknown outcome `%s`", text)
}

// TrajectorySample is a planar position at a dimensionless time.
type TrajectorySample struct {
	T float64 `json:"t"`
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// R returns the distance to the central body.
func (s TrajectorySample) R() float64 {
	return math.Hypot(s.X, s.Y)
}

// Angle returns the polar angle in [0, 2π).
func (s TrajectorySample) Angle() float64 {
	a := math.Atan2(s.Y, s.X)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

// TransferResult is the full output of one solver call. It is owned by the caller.
type TransferResult struct {
	Model   Model              `json:"model"`
	Samples []TrajectorySample `json:"samples"`
	T       float64            `json:"T"`       // last sample's time
	Δv      float64            `json:"delta_v"` // model specific velocity change estimate
	Outcome Outcome            `json:"outcome"`
	Clamps  uint64             `json:"clamps"` // stage derivatives clamped by the domain guard
	Sweep   float64            `json:"sweep"`  // swept angle in radians
}

// Err returns ErrNonConvergence if the result is time capped, nil otherwise.
func (r TransferResult) Err() error {
	if r.Outcome == TimeCapExceeded {
		last := r.Samples[len(r.Samples)-1]
		return fmt.Errorf("%w: stopped at t=%g with r=%g", ErrNonConvergence, last.T, last.R())
	}
	return nil
}

// Days returns the transfer time in days.
func (r TransferResult) Days(c Constants) float64 {
	return c.Days(r.T)
}

// Last returns the final sample.
func (r TransferResult) Last() TrajectorySample {
	return r.Samples[len(r.Samples)-1]
}

func (r TransferResult) String() string {
	return fmt.Sprintf("%s: %d samples, T=%.6f, Δv=%.6f (%s)", r.Model, len(r.Samples), r.T, r.Δv, r.Outcome)
}
