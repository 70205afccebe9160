package chain

import (
	"testing"

	"github.com/piwi3910/FormFit/internal/model"
)

// fragmentedWall builds one straight wall delivered as many short pieces
// separated by gaps just beyond the default bridging tolerance.
func fragmentedWall() []model.WallSegment {
	var segments []model.WallSegment
	x := 0.0
	for i := 0; i < 8; i++ {
		segments = append(segments, model.WallSegment{StartX: x, StartY: 0, EndX: x + 200, EndY: 0})
		x += 212 // 12 mm gaps defeat the default 10 mm tolerance
	}
	return segments
}

func TestBuildAutoRelaxesFragmentedInput(t *testing.T) {
	tol := model.DefaultTolerances()

	strict, _ := Build(fragmentedWall(), tol)
	if len(strict) != 8 {
		t.Fatalf("setup: expected 8 fragments under default tolerances, got %d", len(strict))
	}

	chains, dropped, used := BuildAuto(fragmentedWall(), tol, 5)
	if dropped != 0 {
		t.Errorf("expected no dropped segments, got %d", dropped)
	}
	if len(chains) != 1 {
		t.Fatalf("expected fragments to merge into 1 chain after relaxation, got %d", len(chains))
	}
	if used.GapTolMm <= tol.GapTolMm {
		t.Errorf("expected relaxed gap tolerance, got %.1f", used.GapTolMm)
	}
}

func TestBuildAutoZeroRetriesEqualsBuild(t *testing.T) {
	tol := model.DefaultTolerances()
	chains, _, used := BuildAuto(fragmentedWall(), tol, 0)
	if len(chains) != 8 {
		t.Errorf("with 0 retries the strict result must stand, got %d chains", len(chains))
	}
	if used != tol {
		t.Errorf("tolerances must be unchanged with 0 retries, got %+v", used)
	}
}

func TestBuildAutoLeavesCleanInputAlone(t *testing.T) {
	segments := []model.WallSegment{
		{StartX: 0, StartY: 0, EndX: 4000, EndY: 0},
		{StartX: 4000, StartY: 0, EndX: 4000, EndY: 3000},
	}
	tol := model.DefaultTolerances()
	chains, _, used := BuildAuto(segments, tol, 5)
	if len(chains) != 2 {
		t.Fatalf("expected 2 chains, got %d", len(chains))
	}
	if used != tol {
		t.Errorf("clean input must not trigger relaxation, got %+v", used)
	}
}
