package opening

import (
	"math"
	"testing"

	"github.com/piwi3910/FormFit/internal/model"
)

func testChain(id int, length float64) model.Chain {
	return model.Chain{
		ID:       id,
		Start:    model.Point2D{X: 0, Y: 0},
		End:      model.Point2D{X: length, Y: 0},
		LengthMm: length,
	}
}

func door(chainID int, offset, width, height float64) model.Opening {
	return model.Opening{ID: "d", ChainID: chainID, OffsetMm: offset, WidthMm: width, SillMm: 0, HeightMm: height, Kind: model.OpeningDoor}
}

func TestRowIntervalsNoOpenings(t *testing.T) {
	c := testChain(1, 3000)
	ivs := RowIntervals(c, nil, 0, model.DefaultLayoutSpec())
	if len(ivs) != 1 {
		t.Fatalf("expected 1 interval, got %d", len(ivs))
	}
	if ivs[0].StartMm != 0 || ivs[0].EndMm != 3000 {
		t.Errorf("expected [0, 3000], got [%.0f, %.0f]", ivs[0].StartMm, ivs[0].EndMm)
	}
}

func TestRowIntervalsSplitsAroundDoor(t *testing.T) {
	c := testChain(1, 3000)
	openings := []model.Opening{door(1, 500, 900, 2100)}
	ivs := RowIntervals(c, openings, 0, model.DefaultLayoutSpec())

	if len(ivs) != 2 {
		t.Fatalf("expected 2 intervals, got %d", len(ivs))
	}
	if ivs[0].StartMm != 0 || ivs[0].EndMm != 500 {
		t.Errorf("expected [0, 500], got [%.0f, %.0f]", ivs[0].StartMm, ivs[0].EndMm)
	}
	if ivs[1].StartMm != 1400 || ivs[1].EndMm != 3000 {
		t.Errorf("expected [1400, 3000], got [%.0f, %.0f]", ivs[1].StartMm, ivs[1].EndMm)
	}
}

func TestRowIntervalsAboveDoor(t *testing.T) {
	// A 2100 mm door cuts rows 0-5; row 6 ([2400, 2800)) is clear.
	c := testChain(1, 3000)
	openings := []model.Opening{door(1, 500, 900, 2100)}
	spec := model.DefaultLayoutSpec()

	for row := 0; row <= 5; row++ {
		if got := RowIntervals(c, openings, row, spec); len(got) != 2 {
			t.Errorf("row %d: expected split, got %d intervals", row, len(got))
		}
	}
	if got := RowIntervals(c, openings, 6, spec); len(got) != 1 {
		t.Errorf("row 6: expected uncut interval, got %d", len(got))
	}
}

func TestCutsRowWindowBand(t *testing.T) {
	// Window [1000, 2200] vertically: cuts rows 2-5 only.
	o := model.Opening{ChainID: 1, OffsetMm: 1000, WidthMm: 900, SillMm: 1000, HeightMm: 1200, Kind: model.OpeningWindow}
	spec := model.DefaultLayoutSpec()

	want := map[int]bool{2: true, 3: true, 4: true, 5: true}
	for row := 0; row < 7; row++ {
		if got := CutsRow(o, row, spec); got != want[row] {
			t.Errorf("row %d: CutsRow = %v, want %v", row, got, want[row])
		}
	}
}

func TestCutsRowBoundaryTouchDoesNotCut(t *testing.T) {
	// Sill exactly on the row-0 top boundary belongs to row 1 only.
	o := model.Opening{ChainID: 1, OffsetMm: 0, WidthMm: 900, SillMm: 400, HeightMm: 400}
	spec := model.DefaultLayoutSpec()
	if CutsRow(o, 0, spec) {
		t.Error("opening touching the band boundary must not cut row 0")
	}
	if !CutsRow(o, 1, spec) {
		t.Error("opening filling the row-1 band must cut row 1")
	}
	if CutsRow(o, 2, spec) {
		t.Error("opening ending on the row-2 bottom boundary must not cut row 2")
	}
}

func TestRowIntervalsKeepsSliverBetweenOpenings(t *testing.T) {
	c := testChain(1, 3000)
	openings := []model.Opening{
		door(1, 500, 900, 2100),  // [500, 1400]
		door(1, 1405, 600, 2100), // [1405, 2005], 5 mm pier between
	}
	ivs := RowIntervals(c, openings, 0, model.DefaultLayoutSpec())

	if len(ivs) != 3 {
		t.Fatalf("expected 3 intervals, got %d", len(ivs))
	}
	sliver := ivs[1]
	if math.Abs(sliver.Length()-5) > 1e-9 {
		t.Errorf("expected 5 mm sliver preserved, got %.1f", sliver.Length())
	}
}

func TestRowIntervalsMergesOverlappingOpenings(t *testing.T) {
	c := testChain(1, 3000)
	openings := []model.Opening{
		door(1, 500, 900, 2100),  // [500, 1400]
		door(1, 1200, 600, 2100), // [1200, 1800] overlaps
	}
	ivs := RowIntervals(c, openings, 0, model.DefaultLayoutSpec())

	if len(ivs) != 2 {
		t.Fatalf("expected 2 intervals after merge, got %d", len(ivs))
	}
	if ivs[1].StartMm != 1800 {
		t.Errorf("expected second interval to start at 1800, got %.0f", ivs[1].StartMm)
	}
}

func TestRowIntervalsClampsToChain(t *testing.T) {
	c := testChain(1, 2000)
	openings := []model.Opening{door(1, 1500, 900, 2100)} // runs past the chain end
	ivs := RowIntervals(c, openings, 0, model.DefaultLayoutSpec())

	last := ivs[len(ivs)-1]
	if last.EndMm != 2000 {
		t.Errorf("intervals must not exceed the chain length, got end %.0f", last.EndMm)
	}
}

func TestForChainSortsByOffset(t *testing.T) {
	openings := []model.Opening{
		door(1, 2000, 600, 2100),
		door(2, 100, 600, 2100),
		door(1, 500, 900, 2100),
	}
	got := ForChain(openings, 1)
	if len(got) != 2 {
		t.Fatalf("expected 2 openings for chain 1, got %d", len(got))
	}
	if got[0].OffsetMm != 500 || got[1].OffsetMm != 2000 {
		t.Errorf("expected offset order 500, 2000; got %.0f, %.0f", got[0].OffsetMm, got[1].OffsetMm)
	}
}

func TestValidateReportsDanglingOpenings(t *testing.T) {
	chains := []model.Chain{testChain(1, 3000)}
	openings := []model.Opening{
		door(1, 500, 900, 2100),
		door(7, 100, 600, 2100),
	}
	valid, dangling := Validate(openings, chains)
	if len(valid) != 1 || len(dangling) != 1 {
		t.Fatalf("expected 1 valid and 1 dangling, got %d/%d", len(valid), len(dangling))
	}
	if dangling[0].ChainID != 7 {
		t.Errorf("expected chain 7 dangling, got %d", dangling[0].ChainID)
	}
}
