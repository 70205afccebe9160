package model

// BOMResult is the aggregated bill of materials for one plan run.
//
// RecommendedPanels is the purchase count after bin-packing cut pieces into
// whole panels; TheoreticalMinPanels assumes no fragmentation at all, so
// RecommendedPanels >= TheoreticalMinPanels and WastePercent >= 0 always.
type BOMResult struct {
	PanelsByType map[PanelType]int `json:"panels_by_type"`
	PlacedPanels int               `json:"placed_panels"`

	FullPanels           int     `json:"full_panels"`
	CutCount             int     `json:"cut_count"`
	CutLengthMm          float64 `json:"cut_length_mm"`
	DroppedWasteMm       float64 `json:"dropped_waste_mm"`
	TheoreticalMinPanels int     `json:"theoretical_min_panels"`
	RecommendedPanels    int     `json:"recommended_panels"`
	WastePercent         float64 `json:"waste_percent"`

	Connectors int `json:"connectors"`
	Spacers    int `json:"spacers"`
	Grids      int `json:"grids"`

	Topos       int              `json:"topos"`
	ToposByKind map[TopoKind]int `json:"topos_by_kind"`
}
