package chain

import (
	"math"
	"reflect"
	"testing"

	"github.com/piwi3910/FormFit/internal/model"
)

func TestSplitAtBranchesCutsTeeWall(t *testing.T) {
	chains, _ := Build([]model.WallSegment{
		{StartX: 0, StartY: 0, EndX: 4000, EndY: 0},
		{StartX: 2000, StartY: 0, EndX: 2000, EndY: 1500}, // stub butting into the wall
	}, model.DefaultTolerances())
	if len(chains) != 2 {
		t.Fatalf("expected 2 chains before splitting, got %d", len(chains))
	}

	split := SplitAtBranches(chains, 15)
	if len(split) != 3 {
		t.Fatalf("expected the wall split at the stub, got %d chains", len(split))
	}
	for i, c := range split {
		if c.ID != i+1 {
			t.Errorf("expected sequential ids from 1, got %d at index %d", c.ID, i)
		}
	}
	// Both wall halves must end exactly at the stub foot so all three
	// chains share one node there.
	foot := model.Point2D{X: 2000, Y: 0}
	shared := 0
	for _, c := range split {
		if c.Start == foot || c.End == foot {
			shared++
		}
	}
	if shared != 3 {
		t.Errorf("expected 3 chain ends at the stub foot, got %d", shared)
	}
	if math.Abs(split[0].LengthMm-2000) > 1 {
		t.Errorf("expected first half ~2000 mm, got %.1f", split[0].LengthMm)
	}
}

func TestSplitAtBranchesLeavesCornersAlone(t *testing.T) {
	chains, _ := Build([]model.WallSegment{
		{StartX: 0, StartY: 0, EndX: 4000, EndY: 0},
		{StartX: 4000, StartY: 0, EndX: 4000, EndY: 3000},
		{StartX: 4000, StartY: 3000, EndX: 0, EndY: 3000},
		{StartX: 0, StartY: 3000, EndX: 0, EndY: 0},
	}, model.DefaultTolerances())

	split := SplitAtBranches(chains, 15)
	if !reflect.DeepEqual(chains, split) {
		t.Error("corner-only layouts must pass through unchanged")
	}
}

func TestSplitAtBranchesDedupesCoincidentCuts(t *testing.T) {
	// Two stubs ending at the same station on the wall produce a single
	// cut, leaving four arms at one shared node.
	chains, _ := Build([]model.WallSegment{
		{StartX: 0, StartY: 0, EndX: 4000, EndY: 0},
		{StartX: 2000, StartY: 0, EndX: 2000, EndY: 1500},
		{StartX: 2000, StartY: 0, EndX: 3500, EndY: -1500},
	}, model.DefaultTolerances())
	if len(chains) != 3 {
		t.Fatalf("expected 3 chains before splitting, got %d", len(chains))
	}

	split := SplitAtBranches(chains, 15)
	if len(split) != 4 {
		t.Fatalf("expected the wall split exactly once, got %d chains", len(split))
	}
}
