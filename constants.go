package wtransfer

import (
	"math"
)

const (
	// MaxSteps bounds the number of integration steps a single configuration may request.
	MaxSteps = 5e7
	// MinHohmannSamples is the smallest eccentric anomaly grid accepted.
	MinHohmannSamples = 400

	defaultMu             = 1.0
	defaultEarthRadius    = 1.0   // AU
	defaultMarsRadius     = 1.524 // AU
	defaultHW             = 2.805001
	defaultJW             = 1.9
	defaultDt             = 1e-3
	defaultTimeCap        = 10.0
	defaultHohmannSamples = 500
)

// DaysPerUnit converts the normalized time unit (one year is 2π) to days.
const DaysPerUnit = 365.25 / (2 * math.Pi)

// Constants holds every physical and numerical parameter of both transfer models.
// It is passed by value to the solvers, which never modify it.
type Constants struct {
	Mu          float64 // gravitational parameter (normalized)
	EarthRadius float64 // r_E
	MarsRadius  float64 // r_M
	HW          float64 // W-structure energy-like constant
	JW          float64 // W-structure angular-momentum-like constant
	Dt          float64 // integration step size, smaller = more accurate/slower
	TimeCap     float64 // integration is abandoned past this time
	// HohmannSamples is the number of eccentric anomaly samples from 0 to π inclusive.
	HohmannSamples int
	DaysPerUnit    float64
}

// DefaultConstants returns the Earth→Mars constants.
func DefaultConstants() Constants {
	return Constants{
		Mu:             defaultMu,
		EarthRadius:    defaultEarthRadius,
		MarsRadius:     defaultMarsRadius,
		HW:             defaultHW,
		JW:             defaultJW,
		Dt:             defaultDt,
		TimeCap:        defaultTimeCap,
		HohmannSamples: defaultHohmannSamples,
		DaysPerUnit:    DaysPerUnit,
	}
}

// UEarth returns the reciprocal of the departure radius.
func (c Constants) UEarth() float64 {
	return 1 / c.EarthRadius
}

// UMars returns the reciprocal of the arrival radius.
func (c Constants) UMars() float64 {
	return 1 / c.MarsRadius
}

// Days converts a normalized duration into days.
func (c Constants) Days(t float64) float64 {
	return t * c.DaysPerUnit
}

// Validate returns a *ConfigError for the first invalid field found.
func (c Constants) Validate() error {
	for _, f := range []struct {
		name string
		val  float64
	}{
		{"mu", c.Mu}, {"earth_radius", c.EarthRadius}, {"mars_radius", c.MarsRadius},
		{"H", c.HW}, {"J", c.JW}, {"dt", c.Dt}, {"time_cap", c.TimeCap}, {"days_per_unit", c.DaysPerUnit},
	} {
		if math.IsNaN(f.val) || math.IsInf(f.val, 0) {
			return &ConfigError{f.name, f.val, "must be finite"}
		}
	}
	switch {
	case c.Dt <= 0:
		return &ConfigError{"dt", c.Dt, "must be positive"}
	case c.EarthRadius <= 0:
		return &ConfigError{"earth_radius", c.EarthRadius, "must be positive"}
	case c.MarsRadius <= 0:
		return &ConfigError{"mars_radius", c.MarsRadius, "must be positive"}
	case c.Mu <= 0:
		return &ConfigError{"mu", c.Mu, "must be positive"}
	case c.TimeCap <= 0:
		return &ConfigError{"time_cap", c.TimeCap, "must be positive"}
	case c.DaysPerUnit <= 0:
		return &ConfigError{"days_per_unit", c.DaysPerUnit, "must be positive"}
	case c.HohmannSamples < MinHohmannSamples:
		return &ConfigError{"samples", float64(c.HohmannSamples), "is below the minimum of 400"}
	case c.TimeCap/c.Dt > MaxSteps:
		return &ConfigError{"dt", c.Dt, "requires too many steps for this time_cap"}
	}
	return nil
}
