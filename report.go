package wtransfer

import (
	"fmt"
	"io"
	"time"
)

// Comparison holds the metrics comparing the Hohmann and W-structure transfers.
type Comparison struct {
	DaysClassic float64    `json:"days_classic"`
	DaysW       float64    `json:"days_w"`
	TimeRatio   float64    `json:"time_ratio"` // T_W / T_classic
	ΔvClassic   float64    `json:"delta_v_classic"`
	ΔvW         float64    `json:"delta_v_w"`
	ΔvRatio     float64    `json:"delta_v_ratio"` // Δv_W / Δv_classic
	SweepW      float64    `json:"sweep_w_deg"`
	OutcomeW    Outcome    `json:"outcome_w"`
	Departure   *time.Time `json:"departure,omitempty"`
	ArrivalC    *time.Time `json:"arrival_classic,omitempty"`
	ArrivalW    *time.Time `json:"arrival_w,omitempty"`
}

// Compare builds the comparison of both results. The departure epoch is optional.
func Compare(c Constants, hohmann, w TransferResult, departure time.Time) Comparison {
	cmp := Comparison{
		DaysClassic: hohmann.Days(c),
		DaysW:       w.Days(c),
		TimeRatio:   w.T / hohmann.T,
		ΔvClassic:   hohmann.Δv,
		ΔvW:         w.Δv,
		ΔvRatio:     w.Δv / hohmann.Δv,
		SweepW:      w.Sweep / deg2rad,
		OutcomeW:    w.Outcome,
	}
	if !departure.IsZero() {
		arrC := c.Epoch(departure, hohmann.T)
		arrW := c.Epoch(departure, w.T)
		cmp.Departure, cmp.ArrivalC, cmp.ArrivalW = &departure, &arrC, &arrW
	}
	return cmp
}

// Print writes the human readable comparison.
func (cmp Comparison) Print(out io.Writer) error {
	var err error
	p := func(format string, a ...interface{}) {
		if err == nil {
			_, err = fmt.Fprintf(out, format, a...)
		}
	}
	p("\n=== Transfer Times ===\n")
	p("Classic Hohmann : %.1f days\n", cmp.DaysClassic)
	p("W-Structure     : %.1f days", cmp.DaysW)
	if cmp.OutcomeW == TimeCapExceeded {
		p(" (INCOMPLETE: time cap exceeded before reaching Mars)")
	}
	p("\nRatio T_W/T_classic = %.3f\n", cmp.TimeRatio)

	p("\n=== Delta-V ===\n")
	p("Δv_classic = %.4f (normalized units)\n", cmp.ΔvClassic)
	p("Δv_W       = %.4f (engineering estimate)\n", cmp.ΔvW)
	p("Δv ratio   = %.3f\n", cmp.ΔvRatio)
	p("W sweep    = %.1f deg\n", cmp.SweepW)

	if cmp.Departure != nil {
		p("\n=== Dates ===\n")
		p("Departure          : %s\n", cmp.Departure.Format(dateFormat))
		p("Arrival (Hohmann)  : %s\n", cmp.ArrivalC.Format(dateFormat))
		p("Arrival (W)        : %s\n", cmp.ArrivalW.Format(dateFormat))
	}
	return err
}
