package layout

import (
	"math"
	"sort"

	"github.com/piwi3910/FormFit/internal/model"
	"github.com/piwi3910/FormFit/internal/opening"
)

// Topos are structural filler blocks sized to the concrete core, not the
// standard panel width. They sit outside the stagger and corner logic.

// openingTopos emits jamb, lintel and sill fillers for every opening on the
// chain. Jambs flank the opening on each row it cuts; the lintel sits on the
// first row above the opening; windows also get a sill filler on the row
// below the sill line.
func (e *Engine) openingTopos(c model.Chain, openings []model.Opening, rows int) []model.TopoPlacement {
	core := e.spec.CoreMm
	var topos []model.TopoPlacement

	for _, o := range opening.ForChain(openings, c.ID) {
		left := clampSpan(o.OffsetMm-core, core, c.LengthMm)
		right := clampSpan(o.OffsetMm+o.WidthMm, core, c.LengthMm)

		for row := 0; row < rows; row++ {
			if !opening.CutsRow(o, row, e.spec) {
				continue
			}
			if left.WidthMm > eps {
				topos = append(topos, model.TopoPlacement{
					ChainID: c.ID, Row: row, StartMm: left.StartMm, WidthMm: left.WidthMm, Kind: model.TopoJamb,
				})
			}
			if right.WidthMm > eps {
				topos = append(topos, model.TopoPlacement{
					ChainID: c.ID, Row: row, StartMm: right.StartMm, WidthMm: right.WidthMm, Kind: model.TopoJamb,
				})
			}
		}

		if lintelRow := int(math.Floor((o.SillMm + o.HeightMm) / e.spec.PanelHeightMm)); lintelRow < rows {
			topos = append(topos, model.TopoPlacement{
				ChainID: c.ID, Row: lintelRow, StartMm: o.OffsetMm, WidthMm: o.WidthMm, Kind: model.TopoLintel,
			})
		}
		if o.Kind == model.OpeningWindow && o.SillMm > eps {
			sillRow := int(math.Floor((o.SillMm - eps) / e.spec.PanelHeightMm))
			if sillRow < rows {
				topos = append(topos, model.TopoPlacement{
					ChainID: c.ID, Row: sillRow, StartMm: o.OffsetMm, WidthMm: o.WidthMm, Kind: model.TopoSill,
				})
			}
		}
	}
	return topos
}

// junctionTopos emits the T branch seats and the corner fillers at X nodes
// and skewed (non-orthogonal) two-arm corners, one per visible row.
func (e *Engine) junctionTopos(chains []model.Chain) []model.TopoPlacement {
	rows := e.spec.VisibleRows
	if rows <= 0 || rows > e.spec.MaxRows {
		rows = e.spec.MaxRows
	}
	lengths := make(map[int]float64, len(chains))
	for _, c := range chains {
		lengths[c.ID] = c.LengthMm
	}

	seen := make(map[model.Point2D]bool)
	var topos []model.TopoPlacement
	emit := func(arm model.JunctionArm, kind model.TopoKind) {
		length, ok := lengths[arm.ChainID]
		if !ok {
			return
		}
		start := 0.0
		if arm.End == model.EndEnd {
			start = length - e.spec.CoreMm
			if start < 0 {
				start = 0
			}
		}
		width := math.Min(e.spec.CoreMm, length)
		for row := 0; row < rows; row++ {
			topos = append(topos, model.TopoPlacement{
				ChainID: arm.ChainID, Row: row, StartMm: start, WidthMm: width, Kind: kind,
			})
		}
	}

	for _, c := range chains {
		for _, end := range []model.ChainEnd{model.EndStart, model.EndEnd} {
			j, ok := e.junctions[c.ID][end]
			if !ok || seen[j.Node] {
				continue
			}
			seen[j.Node] = true

			switch j.Kind {
			case model.JunctionT:
				for _, a := range j.Arms {
					if a.ChainID == j.BranchChainID {
						emit(a, model.TopoTee)
						break
					}
				}
			case model.JunctionX:
				// The two lowest-id arms carry the fillers; arms are
				// id-sorted already.
				for _, a := range j.Arms[:2] {
					emit(a, model.TopoCorner)
				}
			case model.JunctionL:
				if !j.Ortho {
					emit(j.Arms[0], model.TopoCorner)
				}
			}
		}
	}

	sort.Slice(topos, func(i, j int) bool {
		a, b := topos[i], topos[j]
		if a.ChainID != b.ChainID {
			return a.ChainID < b.ChainID
		}
		if a.Row != b.Row {
			return a.Row < b.Row
		}
		if a.StartMm != b.StartMm {
			return a.StartMm < b.StartMm
		}
		return a.Kind < b.Kind
	})
	return topos
}

// clampSpan clips a [start, start+width] span to [0, limit].
func clampSpan(start, width, limit float64) model.TopoPlacement {
	end := start + width
	if start < 0 {
		start = 0
	}
	if end > limit {
		end = limit
	}
	w := end - start
	if w < 0 {
		w = 0
	}
	return model.TopoPlacement{StartMm: start, WidthMm: w}
}
