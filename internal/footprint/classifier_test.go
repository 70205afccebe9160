package footprint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/FormFit/internal/chain"
	"github.com/piwi3910/FormFit/internal/junction"
	"github.com/piwi3910/FormFit/internal/model"
)

// classifySegments runs the upstream pipeline stages so the classifier sees
// the same chain graph it would in production.
func classifySegments(t *testing.T, segments []model.WallSegment) ([]model.Chain, Footprint, []model.Classification) {
	t.Helper()
	chains, dropped := chain.Build(segments, model.DefaultTolerances())
	require.Zero(t, dropped, "test geometry must be clean")
	junctions := junction.Detect(chains, model.DefaultJunctionConfig())
	fp, classes := Classify(chains, junctions, model.DefaultClassifyConfig())
	return chains, fp, classes
}

func rectangle(w, h float64) []model.WallSegment {
	return []model.WallSegment{
		{StartX: 0, StartY: 0, EndX: w, EndY: 0},
		{StartX: w, StartY: 0, EndX: w, EndY: h},
		{StartX: w, StartY: h, EndX: 0, EndY: h},
		{StartX: 0, StartY: h, EndX: 0, EndY: 0},
	}
}

func classOf(classes []model.Classification, chainID int) model.Classification {
	for _, c := range classes {
		if c.ChainID == chainID {
			return c
		}
	}
	return model.Classification{}
}

func TestClassifyRectangle(t *testing.T) {
	chains, fp, classes := classifySegments(t, rectangle(8000, 6000))
	require.Len(t, chains, 4)

	for _, c := range classes {
		assert.Equal(t, model.ClassPerimeter, c.Class, "chain %d", c.ChainID)
	}
	// Junction nodes are snapped to the node tolerance, so the polygon is
	// within a bucket width of the true rectangle.
	assert.InDelta(t, 8000*6000, fp.AreaSqMm, 8000*6000*0.01)
	assert.InDelta(t, 4000, fp.Centroid.X, 20)
	assert.InDelta(t, 3000, fp.Centroid.Y, 20)
	assert.Len(t, fp.LoopChainIDs, 4)
}

func TestClassifyExteriorSides(t *testing.T) {
	chains, _, classes := classifySegments(t, rectangle(8000, 6000))

	for _, c := range chains {
		cls := classOf(classes, c.ID)
		require.Equal(t, model.ClassPerimeter, cls.Class)

		// The sampled exterior point must be farther from the centroid
		// than the interior one, which for a rectangle means it lies
		// outside the footprint.
		n := c.Normal()
		mid := c.Midpoint()
		sign := 1.0
		if !cls.ExteriorLeft {
			sign = -1.0
		}
		outside := model.Point2D{X: mid.X + sign*n.X*100, Y: mid.Y + sign*n.Y*100}
		in := outside.X > 0 && outside.X < 8000 && outside.Y > 0 && outside.Y < 6000
		assert.False(t, in, "chain %d exterior sample (%.0f,%.0f) should fall outside", c.ID, outside.X, outside.Y)
	}
}

func TestClassifySideBiasFlagsNearSymmetricWalls(t *testing.T) {
	// On an 8000x6000 rectangle every wall's two samples differ by 200 mm
	// in centroid distance. The default bias keeps all assignments firm; a
	// bias above 200 marks every wall as uncertain without changing the
	// side that wins.
	chains, dropped := chain.Build(rectangle(8000, 6000), model.DefaultTolerances())
	require.Zero(t, dropped)
	junctions := junction.Detect(chains, model.DefaultJunctionConfig())

	_, firm := Classify(chains, junctions, model.DefaultClassifyConfig())
	for _, c := range firm {
		assert.False(t, c.SideUncertain, "chain %d", c.ChainID)
	}

	wide := model.DefaultClassifyConfig()
	wide.SideBiasMm = 300
	_, hedged := Classify(chains, junctions, wide)
	for i, c := range hedged {
		assert.True(t, c.SideUncertain, "chain %d", c.ChainID)
		assert.Equal(t, firm[i].ExteriorLeft, c.ExteriorLeft, "the winning side must not move")
	}
}

func TestClassifyPartitionStub(t *testing.T) {
	segments := append(rectangle(8000, 6000),
		model.WallSegment{StartX: 4000, StartY: 0, EndX: 4000, EndY: 3000},
	)
	chains, _, classes := classifySegments(t, segments)

	var partitions, perimeter int
	for _, c := range chains {
		switch classOf(classes, c.ID).Class {
		case model.ClassPartition:
			partitions++
		case model.ClassPerimeter:
			perimeter++
		}
	}
	assert.Equal(t, 1, partitions, "the interior stub is a partition")
	assert.Equal(t, len(chains)-1, perimeter, "the boundary walls stay perimeter")
}

func TestClassifyFullPartition(t *testing.T) {
	segments := append(rectangle(8000, 6000),
		model.WallSegment{StartX: 4000, StartY: 0, EndX: 4000, EndY: 6000},
	)
	chains, fp, classes := classifySegments(t, segments)

	var partitions int
	for _, c := range chains {
		if classOf(classes, c.ID).Class == model.ClassPartition {
			partitions++
			assert.InDelta(t, 4000, c.Midpoint().X, 20)
		}
	}
	assert.Equal(t, 1, partitions)
	assert.InDelta(t, 8000*6000, fp.AreaSqMm, 8000*6000*0.01)
}

func TestClassifySingleChainUnresolved(t *testing.T) {
	_, fp, classes := classifySegments(t, []model.WallSegment{
		{StartX: 0, StartY: 0, EndX: 3000, EndY: 0},
	})
	require.Len(t, classes, 1)
	assert.Equal(t, model.ClassUnresolved, classes[0].Class)
	assert.Empty(t, fp.Loop)
	assert.Zero(t, fp.AreaSqMm)
}

func TestClassifyOpenPolylineUnresolved(t *testing.T) {
	// Three walls of a rectangle: the loop never closes.
	_, fp, classes := classifySegments(t, []model.WallSegment{
		{StartX: 0, StartY: 0, EndX: 4000, EndY: 0},
		{StartX: 4000, StartY: 0, EndX: 4000, EndY: 3000},
		{StartX: 4000, StartY: 3000, EndX: 0, EndY: 3000},
	})
	assert.Zero(t, fp.AreaSqMm)
	for _, c := range classes {
		assert.Equal(t, model.ClassUnresolved, c.Class)
	}
}

func TestClassifyDeterministic(t *testing.T) {
	_, fpA, clsA := classifySegments(t, rectangle(8000, 6000))
	_, fpB, clsB := classifySegments(t, rectangle(8000, 6000))
	assert.Equal(t, fpA, fpB)
	assert.Equal(t, clsA, clsB)
}
