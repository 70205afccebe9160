package model

import (
	"math"
	"testing"
)

func TestWallSegmentLength(t *testing.T) {
	s := WallSegment{StartX: 0, StartY: 0, EndX: 3000, EndY: 4000}
	if s.Length() != 5000 {
		t.Errorf("expected length 5000, got %.1f", s.Length())
	}
}

func TestChainDirectionAndNormal(t *testing.T) {
	c := Chain{Start: Point2D{X: 0, Y: 0}, End: Point2D{X: 1000, Y: 0}, LengthMm: 1000, Angle: 0}
	d := c.Direction()
	if math.Abs(d.X-1) > 1e-9 || math.Abs(d.Y) > 1e-9 {
		t.Errorf("expected direction (1,0), got (%.3f,%.3f)", d.X, d.Y)
	}
	n := c.Normal()
	if math.Abs(n.X) > 1e-9 || math.Abs(n.Y-1) > 1e-9 {
		t.Errorf("expected left normal (0,1), got (%.3f,%.3f)", n.X, n.Y)
	}
	mid := c.Midpoint()
	if math.Abs(mid.X-500) > 1e-9 {
		t.Errorf("expected midpoint x 500, got %.1f", mid.X)
	}
}

func TestPanelEndMm(t *testing.T) {
	p := Panel{StartMm: 1200, WidthMm: 600}
	if p.EndMm() != 1800 {
		t.Errorf("expected end 1800, got %.1f", p.EndMm())
	}
}

func TestRowBand(t *testing.T) {
	spec := DefaultLayoutSpec()
	bottom, top := spec.RowBand(0)
	if bottom != 0 || top != 400 {
		t.Errorf("row 0 band: got [%.0f, %.0f)", bottom, top)
	}
	bottom, top = spec.RowBand(3)
	if bottom != 1200 || top != 1600 {
		t.Errorf("row 3 band: got [%.0f, %.0f)", bottom, top)
	}
}

func TestTolerancesRelaxedCapsAngle(t *testing.T) {
	tol := DefaultTolerances()
	for i := 0; i < 10; i++ {
		tol = tol.Relaxed(1.5)
	}
	if tol.AngleTolDeg > 10.0 {
		t.Errorf("angle tolerance should be capped at 10, got %.2f", tol.AngleTolDeg)
	}
	if tol.SnapTolMm <= DefaultTolerances().SnapTolMm {
		t.Error("snap tolerance should grow under relaxation")
	}
}

func TestDefaultPlanSettings(t *testing.T) {
	s := DefaultPlanSettings()
	if s.Layout.PanelWidthMm != 1200 || s.Layout.PanelHeightMm != 400 {
		t.Errorf("unexpected panel size %.0fx%.0f", s.Layout.PanelWidthMm, s.Layout.PanelHeightMm)
	}
	if s.Layout.VisibleRows > s.Layout.MaxRows {
		t.Error("visible rows must not exceed max rows")
	}
	if s.Layout.StaggerMm != s.Layout.PanelWidthMm/2 {
		t.Errorf("stagger %.0f should be half a panel", s.Layout.StaggerMm)
	}
	if s.Tolerances.NoiseMinMm <= 0 {
		t.Error("noise threshold must be positive")
	}
}

func TestNewOpening(t *testing.T) {
	o := NewOpening(3, OpeningWindow, 1000, 900, 1000, 1200)
	if len(o.ID) != 8 {
		t.Errorf("expected 8-char id, got %q", o.ID)
	}
	if o.ChainID != 3 || o.Kind != OpeningWindow || o.WidthMm != 900 {
		t.Errorf("unexpected opening %+v", o)
	}
	if o.ID == NewOpening(3, OpeningWindow, 1000, 900, 1000, 1200).ID {
		t.Error("ids must be unique")
	}
}

func TestIntervalLength(t *testing.T) {
	iv := Interval{StartMm: 500, EndMm: 1400}
	if iv.Length() != 900 {
		t.Errorf("expected 900, got %.1f", iv.Length())
	}
}
