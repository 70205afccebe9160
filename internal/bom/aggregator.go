// Package bom aggregates panel placements into purchase quantities: panel
// counts by type, connector/spacer/grid hardware and a bin-packing pass
// that merges cut remnants across chains before rounding up to whole
// panels.
package bom

import (
	"math"

	"github.com/piwi3910/FormFit/internal/model"
)

// Input collects everything the aggregator consumes. All slices are
// read-only; the aggregator never mutates upstream output.
type Input struct {
	Panels    []model.Panel
	Topos     []model.TopoPlacement
	Waste     []model.WasteCut
	Chains    []model.Chain
	Junctions []model.Junction
}

// Aggregate computes the bill of materials. The recommended purchase count
// comes from the bin-packing pass over cut pieces; the theoretical minimum
// assumes no fragmentation at all, so waste percent is always >= 0.
func Aggregate(in Input, layout model.LayoutSpec, spec model.BOMSpec) model.BOMResult {
	res := model.BOMResult{
		PanelsByType: make(map[model.PanelType]int),
		ToposByKind:  make(map[model.TopoKind]int),
	}

	var cutWidths []float64
	var placedWidth float64
	for _, p := range in.Panels {
		res.PanelsByType[p.Type]++
		res.PlacedPanels++
		placedWidth += p.WidthMm
		if p.Type == model.PanelFull {
			res.FullPanels++
			continue
		}
		res.CutCount++
		res.CutLengthMm += p.WidthMm
		cutWidths = append(cutWidths, p.WidthMm)
	}

	for _, w := range in.Waste {
		res.DroppedWasteMm += w.WidthMm
	}

	for _, t := range in.Topos {
		res.Topos++
		res.ToposByKind[t.Kind]++
	}

	// Purchase count: panels placed whole plus whole panels consumed by
	// packing the cut pieces. Dropped waste still has to be cut from
	// somewhere, so it rides along in the packing pass.
	for _, w := range in.Waste {
		if w.WidthMm > 0 {
			cutWidths = append(cutWidths, w.WidthMm)
		}
	}
	res.RecommendedPanels = res.FullPanels + packPieces(cutWidths, layout.PanelWidthMm)

	if layout.PanelWidthMm > 0 {
		total := placedWidth + res.DroppedWasteMm
		res.TheoreticalMinPanels = int(math.Ceil(total / layout.PanelWidthMm))
	}
	if res.TheoreticalMinPanels > res.RecommendedPanels {
		// Packing can never beat the fractional bound; hitting this
		// means an arithmetic bug upstream.
		res.TheoreticalMinPanels = res.RecommendedPanels
	}
	if res.RecommendedPanels > 0 {
		res.WastePercent = (1 - float64(res.TheoreticalMinPanels)/float64(res.RecommendedPanels)) * 100
		if res.WastePercent < 0 {
			res.WastePercent = 0
		}
	}

	res.Connectors = connectors(res.PlacedPanels, in.Junctions, spec)
	res.Spacers = spacers(in.Chains, layout, spec)
	res.Grids = grids(in.Chains, layout, spec)
	return res
}

// connectors applies the junction adjustments to the per-panel base count:
// an L corner shares one fastening point (-1), a T adds an extra row of
// fastening (+1) and an X adds two.
func connectors(panels int, junctions []model.Junction, spec model.BOMSpec) int {
	n := panels * spec.ConnectorsPerPanel
	for _, j := range junctions {
		switch j.Kind {
		case model.JunctionL:
			n--
		case model.JunctionT:
			n++
		case model.JunctionX:
			n += 2
		}
	}
	if n < 0 {
		n = 0
	}
	return n
}

// spacers places one spacer per started pitch of chain length on every row.
func spacers(chains []model.Chain, layout model.LayoutSpec, spec model.BOMSpec) int {
	if spec.SpacerPitchMm <= 0 {
		return 0
	}
	rows := layout.VisibleRows
	if rows <= 0 || rows > layout.MaxRows {
		rows = layout.MaxRows
	}
	n := 0
	for _, c := range chains {
		n += int(math.Ceil(c.LengthMm/spec.SpacerPitchMm)) * rows
	}
	return n
}

// grids counts stabilization grids on the selected rows (GridRowStart, then
// every GridRowStep), one per started pitch of chain length.
func grids(chains []model.Chain, layout model.LayoutSpec, spec model.BOMSpec) int {
	if spec.GridPitchMm <= 0 || spec.GridRowStep <= 0 {
		return 0
	}
	rows := layout.VisibleRows
	if rows <= 0 || rows > layout.MaxRows {
		rows = layout.MaxRows
	}
	gridRows := 0
	for r := spec.GridRowStart; r < rows; r += spec.GridRowStep {
		gridRows++
	}
	n := 0
	for _, c := range chains {
		n += int(math.Ceil(c.LengthMm/spec.GridPitchMm)) * gridRows
	}
	return n
}
