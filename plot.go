package wtransfer

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

const (
	plotSize     = 7 * vg.Inch
	circlePoints = 800
	plotTitle    = "Earth→Mars: Classical vs W-Structure"
	plotMargin   = 1.1
)

var (
	hohmannColor = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	wColor       = color.RGBA{R: 255, G: 127, B: 14, A: 255}
	earthColor   = color.RGBA{R: 128, G: 128, B: 128, A: 128}
	marsColor    = color.RGBA{R: 255, G: 0, B: 0, A: 77}
)

// samplesXY converts samples to plotter points.
func samplesXY(samples []TrajectorySample) plotter.XYs {
	pts := make(plotter.XYs, len(samples))
	for i, s := range samples {
		pts[i].X = s.X
		pts[i].Y = s.Y
	}
	return pts
}

// circleXY returns a closed circle of radius r.
func circleXY(r float64) plotter.XYs {
	θ := floats.Span(make([]float64, circlePoints), 0, 2*math.Pi)
	pts := make(plotter.XYs, len(θ))
	for i, a := range θ {
		sin, cos := math.Sincos(a)
		pts[i].X = r * cos
		pts[i].Y = r * sin
	}
	return pts
}

// NewTrajectoryPlot builds the comparison figure of both transfers with the
// Earth and Mars reference circles.
func NewTrajectoryPlot(c Constants, results ...TransferResult) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = plotTitle
	p.X.Label.Text = "x (AU)"
	p.Y.Label.Text = "y (AU)"
	p.Add(plotter.NewGrid())

	for _, ref := range []struct {
		r   float64
		col color.Color
	}{{c.EarthRadius, earthColor}, {c.MarsRadius, marsColor}} {
		l, err := plotter.NewLine(circleXY(ref.r))
		if err != nil {
			return nil, err
		}
		l.LineStyle.Color = ref.col
		p.Add(l)
	}

	for _, res := range results {
		l, err := plotter.NewLine(samplesXY(res.Samples))
		if err != nil {
			return nil, fmt.Errorf("%s path: %w", res.Model, err)
		}
		l.LineStyle.Width = vg.Points(1.5)
		switch res.Model {
		case HohmannModel:
			l.LineStyle.Color = hohmannColor
			l.LineStyle.Dashes = []vg.Length{vg.Points(6), vg.Points(4)}
			p.Legend.Add("Hohmann", l)
		default:
			l.LineStyle.Color = wColor
			p.Legend.Add("W-Structure", l)
		}
		p.Add(l)
	}
	p.Legend.Top = true
	p.Legend.Left = false

	// Equal aspect ratio on a square canvas.
	extent := plotMargin * math.Max(c.EarthRadius, c.MarsRadius)
	for _, res := range results {
		for _, s := range res.Samples {
			extent = math.Max(extent, plotMargin*math.Max(math.Abs(s.X), math.Abs(s.Y)))
		}
	}
	p.X.Min, p.X.Max = -extent, extent
	p.Y.Min, p.Y.Max = -extent, extent
	return p, nil
}

// SavePlot renders the comparison figure to path; the extension selects the format.
func SavePlot(path string, c Constants, results ...TransferResult) error {
	p, err := NewTrajectoryPlot(c, results...)
	if err != nil {
		return err
	}
	return p.Save(plotSize, plotSize, path)
}
