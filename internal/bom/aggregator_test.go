package bom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/FormFit/internal/model"
)

func TestPackPiecesSharesOffcuts(t *testing.T) {
	// 800 + 300 fit one 1200 panel; adding 500 forces a second.
	assert.Equal(t, 1, packPieces([]float64{800, 300}, 1200))
	assert.Equal(t, 2, packPieces([]float64{800, 300, 500}, 1200))
}

func TestPackPiecesSplitsOversizePieces(t *testing.T) {
	// A 2300 centered cut consumes one whole panel; the 1100 remainder
	// packs with the 100 offcut piece.
	assert.Equal(t, 2, packPieces([]float64{2300, 100}, 1200))
}

func TestPackPiecesEdgeCases(t *testing.T) {
	assert.Equal(t, 0, packPieces(nil, 1200))
	assert.Equal(t, 0, packPieces([]float64{0, -5}, 1200))
	assert.Equal(t, 0, packPieces([]float64{600}, 0))
	assert.Equal(t, 1, packPieces([]float64{1200}, 1200), "an exact-width piece is one panel")
}

func TestAggregateCounts(t *testing.T) {
	layout := model.DefaultLayoutSpec()
	spec := model.DefaultBOMSpec()
	in := Input{
		Panels: []model.Panel{
			{ChainID: 1, Row: 0, WidthMm: 1200, Type: model.PanelFull},
			{ChainID: 1, Row: 0, WidthMm: 1200, Type: model.PanelFull},
			{ChainID: 1, Row: 0, WidthMm: 600, Type: model.PanelCutSingle},
		},
	}
	res := Aggregate(in, layout, spec)

	assert.Equal(t, 3, res.PlacedPanels)
	assert.Equal(t, 2, res.FullPanels)
	assert.Equal(t, 1, res.CutCount)
	assert.Equal(t, 600.0, res.CutLengthMm)
	assert.Equal(t, 2, res.PanelsByType[model.PanelFull])
	assert.Equal(t, 1, res.PanelsByType[model.PanelCutSingle])

	// 3000 mm placed = exactly 2.5 panels; the 600 cut still costs a
	// whole purchased panel.
	assert.Equal(t, 3, res.RecommendedPanels)
	assert.Equal(t, 3, res.TheoreticalMinPanels)
	assert.Equal(t, 0.0, res.WastePercent)
}

func TestAggregateWasteNeverNegative(t *testing.T) {
	layout := model.DefaultLayoutSpec()
	in := Input{
		Panels: []model.Panel{
			{ChainID: 1, Row: 0, WidthMm: 700, Type: model.PanelCutSingle},
			{ChainID: 1, Row: 1, WidthMm: 900, Type: model.PanelCutSingle},
			{ChainID: 1, Row: 2, WidthMm: 1100, Type: model.PanelEndCut},
		},
		Waste: []model.WasteCut{{ChainID: 1, Row: 0, WidthMm: 80}},
	}
	res := Aggregate(in, layout, model.DefaultBOMSpec())

	assert.GreaterOrEqual(t, res.RecommendedPanels, res.TheoreticalMinPanels)
	assert.GreaterOrEqual(t, res.WastePercent, 0.0)
	assert.Equal(t, 80.0, res.DroppedWasteMm)
}

func TestAggregateMergesRemnantsAcrossChains(t *testing.T) {
	layout := model.DefaultLayoutSpec()
	in := Input{
		Panels: []model.Panel{
			{ChainID: 1, Row: 0, WidthMm: 700, Type: model.PanelCutSingle},
			{ChainID: 2, Row: 0, WidthMm: 500, Type: model.PanelEndCut},
		},
	}
	res := Aggregate(in, layout, model.DefaultBOMSpec())
	assert.Equal(t, 1, res.RecommendedPanels, "700 and 500 share one purchased panel")
}

func TestConnectorJunctionAdjustments(t *testing.T) {
	spec := model.DefaultBOMSpec()
	panels := []model.Panel{
		{Type: model.PanelFull}, {Type: model.PanelFull},
		{Type: model.PanelFull}, {Type: model.PanelFull},
	}
	base := Aggregate(Input{Panels: panels}, model.DefaultLayoutSpec(), spec)
	require.Equal(t, 8, base.Connectors)

	junctions := []model.Junction{
		{Kind: model.JunctionL},
		{Kind: model.JunctionT},
		{Kind: model.JunctionX},
	}
	res := Aggregate(Input{Panels: panels, Junctions: junctions}, model.DefaultLayoutSpec(), spec)
	assert.Equal(t, 8-1+1+2, res.Connectors, "L shares one, T adds one, X adds two")
}

func TestSpacersAndGrids(t *testing.T) {
	layout := model.DefaultLayoutSpec()
	spec := model.DefaultBOMSpec()
	chains := []model.Chain{
		{ID: 1, LengthMm: 3000},
	}
	res := Aggregate(Input{Chains: chains}, layout, spec)

	// ceil(3000/300) = 10 spacers per row over 7 rows.
	assert.Equal(t, 70, res.Spacers)
	// Grid rows 1, 3 and 5; ceil(3000/1200) = 3 per grid row.
	assert.Equal(t, 9, res.Grids)
}

func TestAggregateTopoCounts(t *testing.T) {
	in := Input{
		Topos: []model.TopoPlacement{
			{Kind: model.TopoJamb}, {Kind: model.TopoJamb}, {Kind: model.TopoLintel},
		},
	}
	res := Aggregate(in, model.DefaultLayoutSpec(), model.DefaultBOMSpec())
	assert.Equal(t, 3, res.Topos)
	assert.Equal(t, 2, res.ToposByKind[model.TopoJamb])
	assert.Equal(t, 1, res.ToposByKind[model.TopoLintel])
}
