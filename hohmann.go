package wtransfer

import (
	"fmt"
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/kepler"
	"github.com/soniakeys/unit"
	"gonum.org/v1/gonum/floats"
)

// keplerPlaces is the number of decimal places requested from the Kepler equation solver.
const keplerPlaces = 12

// TransferEllipse is the minimum energy ellipse tangent to both circular orbits.
type TransferEllipse struct {
	a, e, n, μ float64
	rI, rF     float64
}

// NewTransferEllipse returns the transfer ellipse from the Earth radius to the Mars radius.
func NewTransferEllipse(c Constants) TransferEllipse {
	a := 0.5 * (c.EarthRadius + c.MarsRadius)
	return TransferEllipse{
		a:  a,
		e:  (c.MarsRadius - c.EarthRadius) / (c.MarsRadius + c.EarthRadius),
		n:  math.Sqrt(c.Mu / math.Pow(a, 3)),
		μ:  c.Mu,
		rI: c.EarthRadius,
		rF: c.MarsRadius,
	}
}

// SMA returns the semi-major axis.
func (te TransferEllipse) SMA() float64 {
	return te.a
}

// Ecc returns the eccentricity.
func (te TransferEllipse) Ecc() float64 {
	return te.e
}

// MeanMotion returns n.
func (te TransferEllipse) MeanMotion() float64 {
	return te.n
}

// TOF returns the time of flight from periapsis to apoapsis, i.e. half a period.
func (te TransferEllipse) TOF() float64 {
	return math.Pi / te.n
}

// Velocities returns the transfer speeds at departure and arrival.
// To get the burns:
// ΔvInit = vDeparture - vI
// ΔvFinal = vF - vArrival
func (te TransferEllipse) Velocities() (vDeparture, vArrival float64) {
	vDeparture = math.Sqrt(te.μ * (2/te.rI - 1/te.a))
	vArrival = math.Sqrt(te.μ * (2/te.rF - 1/te.a))
	return
}

// CircularVelocities returns the speeds on the departure and arrival circular orbits.
func (te TransferEllipse) CircularVelocities() (vI, vF float64) {
	return math.Sqrt(te.μ / te.rI), math.Sqrt(te.μ / te.rF)
}

// Δv returns the sum of both impulsive burn magnitudes.
func (te TransferEllipse) Δv() float64 {
	vDeparture, vArrival := te.Velocities()
	vI, vF := te.CircularVelocities()
	return math.Abs(vDeparture-vI) + math.Abs(vF-vArrival)
}

// sampleAt returns the time since periapsis and the position for the eccentric anomaly E.
func (te TransferEllipse) sampleAt(E float64) TrajectorySample {
	sinE, cosE := math.Sincos(E)
	M := E - te.e*sinE
	r := te.a * (1 - te.e*cosE)
	// Quadrant safe true anomaly; the (1 - e cos E) denominators cancel out.
	f := math.Atan2(math.Sqrt(1-te.e*te.e)*sinE, cosE-te.e)
	sinf, cosf := math.Sincos(f)
	return TrajectorySample{T: M / te.n, X: r * cosf, Y: r * sinf}
}

// PositionAt returns the position on the transfer arc at time t after departure,
// solving Kepler's equation for the eccentric anomaly.
func (te TransferEllipse) PositionAt(t float64) (TrajectorySample, error) {
	if t < 0 || t > te.TOF() || math.IsNaN(t) {
		return TrajectorySample{}, fmt.Errorf("time %g outside of transfer [0, %g]", t, te.TOF())
	}
	M := te.n * t
	E, err := kepler.Kepler2(te.e, unit.Angle(M), keplerPlaces)
	if err != nil {
		return TrajectorySample{}, fmt.Errorf("kepler equation at M=%g: %w", M, err)
	}
	s := te.sampleAt(E.Rad())
	s.T = t
	return s, nil
}

// Hohmann samples the Hohmann transfer arc uniformly in eccentric anomaly from 0 to π.
func Hohmann(c Constants, opts ...Option) (TransferResult, error) {
	o := newSolverOpts(opts)
	if o.stream != nil {
		defer close(o.stream)
	}
	if err := c.Validate(); err != nil {
		return TransferResult{}, err
	}
	start := time.Now()
	te := NewTransferEllipse(c)

	anomalies := floats.Span(make([]float64, c.HohmannSamples), 0, math.Pi)
	samples := make([]TrajectorySample, len(anomalies))
	t0 := te.sampleAt(anomalies[0]).T
	for i, E := range anomalies {
		s := te.sampleAt(E)
		s.T -= t0
		samples[i] = s
		if o.stream != nil {
			o.stream <- s
		}
	}

	last := samples[len(samples)-1]
	res := TransferResult{
		Model:   HohmannModel,
		Samples: samples,
		T:       last.T,
		Δv:      te.Δv(),
		Outcome: TargetReached,
		Sweep:   last.Angle(),
	}
	o.metrics.RecordSolve(res, time.Since(start))
	o.logger.Log("level", "debug", "subsys", "hohmann", "a", te.a, "e", te.e, "T", res.T, "Δv", res.Δv)
	return res, nil
}
