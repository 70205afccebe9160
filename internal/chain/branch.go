package chain

import (
	"math"
	"sort"

	"github.com/piwi3910/FormFit/internal/model"
)

// SplitAtBranches cuts chains where another chain's endpoint lands on their
// interior. The merge step runs straight through tee and cross points, so a
// partition wall butting into a perimeter run would otherwise leave the
// perimeter as one chain with no node at the joint. Splitting at the
// incident endpoint puts a shared node there for junction detection.
//
// Cuts within tolMm of a chain end are ignored; those already meet at a
// node. The returned chains are re-sorted and re-numbered.
func SplitAtBranches(chains []model.Chain, tolMm float64) []model.Chain {
	endpoints := make([]model.Point2D, 0, 2*len(chains))
	for _, c := range chains {
		endpoints = append(endpoints, c.Start, c.End)
	}

	var out []model.Chain
	split := false
	for _, c := range chains {
		cuts := branchCuts(c, endpoints, tolMm)
		if len(cuts) == 0 {
			out = append(out, c)
			continue
		}
		split = true
		prev := c.Start
		for _, p := range cuts {
			out = append(out, subChain(c, prev, p))
			prev = p
		}
		out = append(out, subChain(c, prev, c.End))
	}
	if !split {
		return chains
	}
	return finalize(out)
}

// branchCuts collects foreign endpoints that lie on the interior of c,
// ordered along the chain. Endpoints closer than tolMm to each other
// produce a single cut.
func branchCuts(c model.Chain, endpoints []model.Point2D, tolMm float64) []model.Point2D {
	d := c.Direction()
	type cut struct {
		t float64
		p model.Point2D
	}
	var cuts []cut
	for _, p := range endpoints {
		t := (p.X-c.Start.X)*d.X + (p.Y-c.Start.Y)*d.Y
		if t < tolMm || t > c.LengthMm-tolMm {
			continue
		}
		if c.PointAt(t).Distance(p) > tolMm {
			continue
		}
		cuts = append(cuts, cut{t: t, p: p})
	}
	if len(cuts) == 0 {
		return nil
	}
	sort.Slice(cuts, func(i, j int) bool { return cuts[i].t < cuts[j].t })

	points := []model.Point2D{cuts[0].p}
	lastT := cuts[0].t
	for _, cu := range cuts[1:] {
		if cu.t-lastT <= tolMm {
			continue
		}
		points = append(points, cu.p)
		lastT = cu.t
	}
	return points
}

// subChain builds the piece of c between a and b. The cut point is the
// branch's own endpoint, not its projection, so both sides of the joint
// share the exact same node coordinates.
func subChain(c model.Chain, a, b model.Point2D) model.Chain {
	if b.X < a.X || (b.X == a.X && b.Y < a.Y) {
		a, b = b, a
	}
	sc := c
	sc.Start = a
	sc.End = b
	sc.LengthMm = a.Distance(b)
	sc.Angle = math.Atan2(b.Y-a.Y, b.X-a.X)
	return sc
}
