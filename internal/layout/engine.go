// Package layout turns chains, junctions and fillable intervals into ordered
// panel placements. It implements the brick-like row stagger, the L-corner
// parity templates, the both-ends-inward middle fill with a centered cut,
// the minimum-cut waste policy and the topo filler blocks at junctions and
// opening boundaries.
//
// The engine is pure: same input, byte-for-byte same output. Manual per-panel
// overrides are applied by the separate patch step in this package (see
// ApplyOverrides); the engine itself never sees them.
package layout

import (
	"fmt"
	"math"
	"sort"

	"github.com/piwi3910/FormFit/internal/junction"
	"github.com/piwi3910/FormFit/internal/model"
	"github.com/piwi3910/FormFit/internal/opening"
)

const eps = 1e-6

// Engine lays out panels for one chain set. Create it with New.
type Engine struct {
	spec      model.LayoutSpec
	junctions map[int]map[model.ChainEnd]model.Junction
	classes   map[int]model.Classification
	flipped   map[int]bool
}

// Result is the full output of a layout pass.
type Result struct {
	Panels []model.Panel         `json:"panels"`
	Topos  []model.TopoPlacement `json:"topos"`
	Waste  []model.WasteCut      `json:"waste"`
}

// New builds an engine over the given junctions and classifications.
// flipChains forces the exterior/interior side of the listed chains.
func New(spec model.LayoutSpec, junctions []model.Junction, classes []model.Classification, flipChains []int) *Engine {
	e := &Engine{
		spec:      spec,
		junctions: junction.ByChainEnd(junctions),
		classes:   make(map[int]model.Classification, len(classes)),
		flipped:   make(map[int]bool, len(flipChains)),
	}
	for _, c := range classes {
		e.classes[c.ChainID] = c
	}
	for _, id := range flipChains {
		e.flipped[id] = true
	}
	return e
}

// LayoutAll lays out every chain for every visible row. Chains are processed
// in id order and rows bottom-up, so the output sequence is deterministic.
func (e *Engine) LayoutAll(chains []model.Chain, openings []model.Opening) Result {
	ordered := make([]model.Chain, len(chains))
	copy(ordered, chains)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	var res Result
	for _, c := range ordered {
		cr := e.LayoutChain(c, openings)
		res.Panels = append(res.Panels, cr.Panels...)
		res.Topos = append(res.Topos, cr.Topos...)
		res.Waste = append(res.Waste, cr.Waste...)
	}
	res.Topos = append(res.Topos, e.junctionTopos(ordered)...)
	return res
}

// LayoutChain lays out one chain across all visible rows.
func (e *Engine) LayoutChain(c model.Chain, openings []model.Opening) Result {
	rows := e.spec.VisibleRows
	if rows <= 0 || rows > e.spec.MaxRows {
		rows = e.spec.MaxRows
	}

	var res Result
	for row := 0; row < rows; row++ {
		for _, iv := range opening.RowIntervals(c, openings, row, e.spec) {
			panels, waste := e.fillInterval(c, row, iv)
			res.Panels = append(res.Panels, panels...)
			res.Waste = append(res.Waste, waste...)
		}
	}
	res.Topos = e.openingTopos(c, openings, rows)
	return res
}

// endRole describes what an interval end abuts.
type endRole int

const (
	roleFree   endRole = iota // free chain end, jamb or sliver boundary
	rolePrimary               // primary arm of an orthogonal L corner
	roleSecondary             // secondary arm of an orthogonal L corner
)

// fillInterval produces the ordered panel sequence for one fillable span.
//
// Rule set, in order: corner template pieces are reserved at ends abutting
// an orthogonal L corner (parity decides FULL vs CORNER_CUT per arm); on odd
// rows a stagger stub opens the interval otherwise; the remaining middle is
// filled with FULL panels pairwise from both ends, leaving a single centered
// cut; anything below the minimum cut width is dropped into waste.
func (e *Engine) fillInterval(c model.Chain, row int, iv model.Interval) ([]model.Panel, []model.WasteCut) {
	length := iv.Length()
	if length < eps {
		return nil, nil
	}

	side := e.sideLabel(c.ID)
	var pieces []model.Panel
	var waste []model.WasteCut

	place := func(start, width float64, typ model.PanelType, corner bool) {
		if width < -eps || math.IsNaN(width) || math.IsInf(width, 0) {
			panic(fmt.Sprintf("layout: invalid panel width %f on chain %d row %d", width, c.ID, row))
		}
		if width < eps {
			return
		}
		if width < e.spec.MinCutMm-eps && typ != model.PanelFull {
			waste = append(waste, model.WasteCut{ChainID: c.ID, Row: row, WidthMm: width})
			return
		}
		pieces = append(pieces, model.Panel{
			ChainID:       c.ID,
			Row:           row,
			StartMm:       start,
			WidthMm:       width,
			Type:          typ,
			Side:          side,
			IsCornerPiece: corner,
		})
	}

	lo, hi := iv.StartMm, iv.EndMm
	startRole := e.roleAt(c, model.EndStart, iv.StartMm, 0)
	finishRole := e.roleAt(c, model.EndEnd, iv.EndMm, c.LengthMm)

	// Corner templates. Even rows give the primary arm a FULL panel at the
	// corner and the secondary a stagger-width stub; odd rows swap the
	// roles, so each arm shows a full corner panel exactly once per two
	// consecutive rows.
	staggered := false
	for _, end := range []struct {
		role    endRole
		atStart bool
	}{{startRole, true}, {finishRole, false}} {
		w := 0.0
		typ := model.PanelFull
		switch {
		case end.role == rolePrimary && row%2 == 0, end.role == roleSecondary && row%2 == 1:
			w = e.spec.PanelWidthMm
		case end.role == rolePrimary || end.role == roleSecondary:
			w = e.spec.StaggerMm
			typ = model.PanelCornerCut
		default:
			continue
		}
		if w > hi-lo+eps {
			// Not enough interval left for the template piece; fall
			// back to a plain end cut over whatever remains.
			w = hi - lo
			typ = model.PanelEndCut
		}
		if end.atStart {
			place(lo, w, typ, typ != model.PanelEndCut)
			lo += w
			staggered = true
		} else {
			hi -= w
			place(hi, w, typ, typ != model.PanelEndCut)
		}
	}

	// Stagger stub: odd rows open with a short cut so vertical joints
	// interlock with the row below. A corner template at the interval
	// start already provides the offset.
	if row%2 == 1 && !staggered && hi-lo > eps {
		w := math.Min(e.spec.StaggerMm, hi-lo)
		place(lo, w, model.PanelCutSingle, false)
		lo += w
	}

	// Middle fill: FULL panels from both ends inward, remainder as one
	// centered cut so visible cuts stay away from the corners.
	w := e.spec.PanelWidthMm
	for hi-lo >= 2*w-eps {
		place(lo, w, model.PanelFull, false)
		place(hi-w, w, model.PanelFull, false)
		lo += w
		hi -= w
	}
	if rem := hi - lo; rem > eps {
		switch {
		case math.Abs(rem-w) < eps:
			place(lo, rem, model.PanelFull, false)
		case rem < w && len(pieces) == 0:
			// The whole interval is shorter than one panel and ends at
			// a jamb or free end.
			place(lo, rem, model.PanelEndCut, false)
		default:
			place(lo, rem, model.PanelCutSingle, false)
		}
	}

	sort.Slice(pieces, func(i, j int) bool { return pieces[i].StartMm < pieces[j].StartMm })
	return pieces, waste
}

// roleAt resolves the corner role of an interval end. Only interval ends
// coinciding with the chain end participate in corner templates; interior
// interval ends are opening jambs and lay out as free ends.
func (e *Engine) roleAt(c model.Chain, end model.ChainEnd, at, chainEndPos float64) endRole {
	if math.Abs(at-chainEndPos) > eps {
		return roleFree
	}
	j, ok := e.junctions[c.ID][end]
	if !ok || j.Kind != model.JunctionL || !j.Ortho {
		return roleFree
	}
	if j.PrimaryChainID == c.ID {
		return rolePrimary
	}
	return roleSecondary
}

func (e *Engine) sideLabel(chainID int) string {
	cls, ok := e.classes[chainID]
	if !ok || cls.Class != model.ClassPerimeter {
		return ""
	}
	left := cls.ExteriorLeft
	if e.flipped[chainID] {
		left = !left
	}
	if left {
		return "exterior-left"
	}
	return "exterior-right"
}
