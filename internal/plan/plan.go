// Package plan runs the full planning pipeline: chain reconstruction,
// footprint classification, junction detection, panel layout and BOM
// aggregation. The pipeline is a pure function of its input with no caching
// and no shared state, so two calls on identical input produce identical
// results.
package plan

import (
	"fmt"

	"github.com/piwi3910/FormFit/internal/bom"
	"github.com/piwi3910/FormFit/internal/chain"
	"github.com/piwi3910/FormFit/internal/footprint"
	"github.com/piwi3910/FormFit/internal/junction"
	"github.com/piwi3910/FormFit/internal/layout"
	"github.com/piwi3910/FormFit/internal/model"
	"github.com/piwi3910/FormFit/internal/opening"
)

// Input is one complete planning request.
type Input struct {
	Segments []model.WallSegment `json:"segments"`
	Openings []model.Opening     `json:"openings"`
	Settings model.PlanSettings  `json:"settings"`
}

// Diagnostics reports the soft data-quality findings of a run. None of
// these abort the pipeline; the caller decides what to surface.
type Diagnostics struct {
	DroppedSegments  int              `json:"dropped_segments"`  // noise / sub-threshold input segments
	UnresolvedChains []int            `json:"unresolved_chains"` // chains the footprint could not place
	UncertainSides   []int            `json:"uncertain_sides"`   // perimeter chains with a near-symmetric exterior call
	SkippedOpenings  []model.Opening  `json:"skipped_openings"`  // openings with a dangling chain id
	TunedTolerances  model.Tolerances `json:"tuned_tolerances"`  // tolerances after auto-tuning
}

// Result is the full pipeline output.
type Result struct {
	Chains          []model.Chain          `json:"chains"`
	Junctions       []model.Junction       `json:"junctions"`
	Classifications []model.Classification `json:"classifications"`
	Footprint       footprint.Footprint    `json:"footprint"`
	Panels          []model.Panel          `json:"panels"`
	Topos           []model.TopoPlacement  `json:"topos"`
	Waste           []model.WasteCut       `json:"waste"`
	BOM             model.BOMResult        `json:"bom"`
	Diagnostics     Diagnostics            `json:"diagnostics"`
}

// Run executes the pipeline. It returns an error only for unusable
// configuration; data-quality issues land in Diagnostics instead.
func Run(in Input) (*Result, error) {
	settings := in.Settings
	if settings.Layout.PanelWidthMm <= 0 || settings.Layout.PanelHeightMm <= 0 {
		return nil, fmt.Errorf("plan: layout spec has non-positive panel dimensions")
	}
	if settings.Layout.VisibleRows > settings.Layout.MaxRows {
		return nil, fmt.Errorf("plan: visible rows %d exceed max rows %d",
			settings.Layout.VisibleRows, settings.Layout.MaxRows)
	}

	res := &Result{}

	if settings.AutoTune {
		res.Chains, res.Diagnostics.DroppedSegments, res.Diagnostics.TunedTolerances =
			chain.BuildAuto(in.Segments, settings.Tolerances, settings.AutoTuneRetries)
	} else {
		res.Chains, res.Diagnostics.DroppedSegments = chain.Build(in.Segments, settings.Tolerances)
		res.Diagnostics.TunedTolerances = settings.Tolerances
	}

	res.Chains = chain.SplitAtBranches(res.Chains, settings.Junction.NodeTolMm)

	res.Junctions = junction.Detect(res.Chains, settings.Junction)
	res.Footprint, res.Classifications = footprint.Classify(res.Chains, res.Junctions, settings.Classify)
	for _, c := range res.Classifications {
		if c.Class == model.ClassUnresolved {
			res.Diagnostics.UnresolvedChains = append(res.Diagnostics.UnresolvedChains, c.ChainID)
		}
		if c.SideUncertain {
			res.Diagnostics.UncertainSides = append(res.Diagnostics.UncertainSides, c.ChainID)
		}
	}

	openings, dangling := opening.Validate(in.Openings, res.Chains)
	res.Diagnostics.SkippedOpenings = dangling

	engine := layout.New(settings.Layout, res.Junctions, res.Classifications, settings.FlipChains)
	lr := engine.LayoutAll(res.Chains, openings)
	res.Panels, res.Topos, res.Waste = lr.Panels, lr.Topos, lr.Waste

	res.BOM = bom.Aggregate(bom.Input{
		Panels:    res.Panels,
		Topos:     res.Topos,
		Waste:     res.Waste,
		Chains:    res.Chains,
		Junctions: res.Junctions,
	}, settings.Layout, settings.BOM)

	return res, nil
}
