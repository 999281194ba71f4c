package wtransfer

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSavePlot(t *testing.T) {
	c := DefaultConstants()
	hoh, w := solveBoth(t, c)
	p, err := NewTrajectoryPlot(c, hoh, w)
	if err != nil {
		t.Fatalf("err: %s", err)
	}
	if p.X.Min != p.Y.Min || p.X.Max != p.Y.Max || p.X.Max < c.MarsRadius {
		t.Fatalf("axes are not square around Mars: x=[%f %f] y=[%f %f]", p.X.Min, p.X.Max, p.Y.Min, p.Y.Max)
	}
	if !p.Legend.Top || p.Legend.Left {
		t.Fatal("legend is not in the top right corner")
	}
	for _, name := range []string{"trajectory.png", "trajectory.svg"} {
		path := filepath.Join(t.TempDir(), name)
		if err := SavePlot(path, c, hoh, w); err != nil {
			t.Fatalf("%s: %s", name, err)
		}
		if fi, err := os.Stat(path); err != nil || fi.Size() == 0 {
			t.Fatalf("%s not written: %v", name, err)
		}
	}
}
