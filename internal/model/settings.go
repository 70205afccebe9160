package model

// Tolerances controls the Chain Builder's merging behaviour. All values are
// mm except AngleTolDeg.
type Tolerances struct {
	SnapTolMm   float64 `json:"snap_tol_mm" toml:"snap_tol_mm"`     // collinearity / endpoint snap distance
	GapTolMm    float64 `json:"gap_tol_mm" toml:"gap_tol_mm"`       // largest bridged gap between segments
	AngleTolDeg float64 `json:"angle_tol_deg" toml:"angle_tol_deg"` // max angle difference for one run
	NoiseMinMm  float64 `json:"noise_min_mm" toml:"noise_min_mm"`   // segments below this are scanning noise
}

// DefaultTolerances returns the documented default merge tolerances.
func DefaultTolerances() Tolerances {
	return Tolerances{
		SnapTolMm:   5.0,
		GapTolMm:    10.0,
		AngleTolDeg: 2.0,
		NoiseMinMm:  100.0,
	}
}

// Relaxed returns a copy with every tolerance scaled by factor. Used by the
// auto-tuning retry loop; the angle tolerance is capped at 10 degrees so
// genuinely distinct wall directions are never merged.
func (t Tolerances) Relaxed(factor float64) Tolerances {
	t.SnapTolMm *= factor
	t.GapTolMm *= factor
	t.AngleTolDeg *= factor
	if t.AngleTolDeg > 10.0 {
		t.AngleTolDeg = 10.0
	}
	return t
}

// LayoutSpec holds the panel system constants used by the layout engine.
type LayoutSpec struct {
	PanelWidthMm  float64 `json:"panel_width_mm" toml:"panel_width_mm"`   // standard panel width (1200)
	PanelHeightMm float64 `json:"panel_height_mm" toml:"panel_height_mm"` // row height (400)
	ToothMm       float64 `json:"tooth_mm" toml:"tooth_mm"`               // modular interlock unit (~70.6)
	StaggerMm     float64 `json:"stagger_mm" toml:"stagger_mm"`           // odd-row bond offset (600)
	CoreMm        float64 `json:"core_mm" toml:"core_mm"`                 // concrete core thickness (150 or 200)
	MinCutMm      float64 `json:"min_cut_mm" toml:"min_cut_mm"`           // pieces below this are waste (100)
	MaxRows       int     `json:"max_rows" toml:"max_rows"`
	VisibleRows   int     `json:"visible_rows" toml:"visible_rows"` // rows actually laid out (<= MaxRows)
}

// DefaultLayoutSpec returns the standard 1200x400 panel system with a
// 150 mm core and a seven-row (2.8 m) wall.
func DefaultLayoutSpec() LayoutSpec {
	return LayoutSpec{
		PanelWidthMm:  1200.0,
		PanelHeightMm: 400.0,
		ToothMm:       70.6,
		StaggerMm:     600.0,
		CoreMm:        150.0,
		MinCutMm:      100.0,
		MaxRows:       7,
		VisibleRows:   7,
	}
}

// RowBand returns the vertical band [bottom, top) covered by a row.
func (s LayoutSpec) RowBand(row int) (bottom, top float64) {
	bottom = float64(row) * s.PanelHeightMm
	return bottom, bottom + s.PanelHeightMm
}

// ClassifyConfig tunes the footprint classifier. The side heuristics are
// empirical: near-symmetric floor plans can flip under small perturbations,
// so the cutoffs are settings rather than constants.
type ClassifyConfig struct {
	SideBiasMm     float64 `json:"side_bias_mm" toml:"side_bias_mm"`         // min centroid-distance difference to call a side exterior
	SampleOffsetMm float64 `json:"sample_offset_mm" toml:"sample_offset_mm"` // normal offset of the side sample points
}

// DefaultClassifyConfig returns the tuned classifier defaults.
func DefaultClassifyConfig() ClassifyConfig {
	return ClassifyConfig{
		SideBiasMm:     10.0,
		SampleOffsetMm: 100.0,
	}
}

// JunctionConfig tunes the junction detector.
type JunctionConfig struct {
	NodeTolMm   float64 `json:"node_tol_mm" toml:"node_tol_mm"`     // endpoint bucketing tolerance
	OrthoTolDeg float64 `json:"ortho_tol_deg" toml:"ortho_tol_deg"` // max deviation from 90 degrees for an L corner
}

// DefaultJunctionConfig returns the default node snapping configuration.
func DefaultJunctionConfig() JunctionConfig {
	return JunctionConfig{
		NodeTolMm:   15.0,
		OrthoTolDeg: 15.0,
	}
}

// BOMSpec holds the ancillary-hardware constants used by the aggregator.
type BOMSpec struct {
	ConnectorsPerPanel int     `json:"connectors_per_panel" toml:"connectors_per_panel"`
	SpacerPitchMm      float64 `json:"spacer_pitch_mm" toml:"spacer_pitch_mm"` // one spacer per started pitch per row
	GridPitchMm        float64 `json:"grid_pitch_mm" toml:"grid_pitch_mm"`     // one grid per started pitch on grid rows
	GridRowStart       int     `json:"grid_row_start" toml:"grid_row_start"`   // first stabilization-grid row
	GridRowStep        int     `json:"grid_row_step" toml:"grid_row_step"`     // row stride for grids
}

// DefaultBOMSpec returns the standard hardware take-off constants:
// two connectors per panel, spacers every 300 mm and stabilization grids
// every 1200 mm on alternate rows starting at row 1.
func DefaultBOMSpec() BOMSpec {
	return BOMSpec{
		ConnectorsPerPanel: 2,
		SpacerPitchMm:      300.0,
		GridPitchMm:        1200.0,
		GridRowStart:       1,
		GridRowStep:        2,
	}
}

// PlanSettings bundles every knob of the planning pipeline. A zero value is
// not usable; start from DefaultPlanSettings.
type PlanSettings struct {
	Tolerances Tolerances     `json:"tolerances" toml:"tolerances"`
	Layout     LayoutSpec     `json:"layout" toml:"layout"`
	Classify   ClassifyConfig `json:"classify" toml:"classify"`
	Junction   JunctionConfig `json:"junction" toml:"junction"`
	BOM        BOMSpec        `json:"bom" toml:"bom"`

	// AutoTune enables the tolerance relaxation loop of the Chain Builder.
	AutoTune        bool `json:"auto_tune" toml:"auto_tune"`
	AutoTuneRetries int  `json:"auto_tune_retries" toml:"auto_tune_retries"`

	// FlipChains forces the exterior/interior side of the listed chains.
	FlipChains []int `json:"flip_chains,omitempty" toml:"flip_chains"`
}

// DefaultPlanSettings returns the full default configuration.
func DefaultPlanSettings() PlanSettings {
	return PlanSettings{
		Tolerances:      DefaultTolerances(),
		Layout:          DefaultLayoutSpec(),
		Classify:        DefaultClassifyConfig(),
		Junction:        DefaultJunctionConfig(),
		BOM:             DefaultBOMSpec(),
		AutoTune:        false,
		AutoTuneRetries: 5,
	}
}
