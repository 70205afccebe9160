// Package junction finds shared chain endpoints and classifies them as L
// corners, T junctions, X crossings or free ends. Nodes are derived by
// rounding endpoint coordinates at a fixed tolerance; they are never
// materialized outside this package.
package junction

import (
	"math"
	"sort"

	"github.com/piwi3910/FormFit/internal/model"
)

// nodeKey buckets a coordinate pair at the node tolerance.
type nodeKey struct {
	x, y int64
}

// Detect buckets all chain endpoints into nodes and classifies each node.
// Junctions are returned sorted by node coordinates and arms sorted by chain
// id, so the output order never depends on map iteration.
func Detect(chains []model.Chain, cfg model.JunctionConfig) []model.Junction {
	tolMm := cfg.NodeTolMm
	if tolMm <= 0 {
		tolMm = model.DefaultJunctionConfig().NodeTolMm
	}

	buckets := make(map[nodeKey][]model.JunctionArm)
	points := make(map[nodeKey]model.Point2D)
	addEnd := func(p model.Point2D, arm model.JunctionArm) {
		k := nodeKey{
			x: int64(math.Round(p.X / tolMm)),
			y: int64(math.Round(p.Y / tolMm)),
		}
		buckets[k] = append(buckets[k], arm)
		if _, ok := points[k]; !ok {
			points[k] = model.Point2D{X: float64(k.x) * tolMm, Y: float64(k.y) * tolMm}
		}
	}

	for _, c := range chains {
		addEnd(c.Start, model.JunctionArm{ChainID: c.ID, End: model.EndStart, Angle: c.Angle})
		addEnd(c.End, model.JunctionArm{ChainID: c.ID, End: model.EndEnd, Angle: normalize(c.Angle + math.Pi)})
	}

	keys := make([]nodeKey, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].x != keys[j].x {
			return keys[i].x < keys[j].x
		}
		return keys[i].y < keys[j].y
	})

	junctions := make([]model.Junction, 0, len(keys))
	for _, k := range keys {
		junctions = append(junctions, classify(points[k], buckets[k], cfg))
	}
	return junctions
}

// classify builds one junction from the arms meeting at a node.
func classify(node model.Point2D, arms []model.JunctionArm, cfg model.JunctionConfig) model.Junction {
	sort.Slice(arms, func(i, j int) bool {
		if arms[i].ChainID != arms[j].ChainID {
			return arms[i].ChainID < arms[j].ChainID
		}
		return arms[i].End < arms[j].End
	})

	j := model.Junction{Node: node, Arms: arms}
	switch len(arms) {
	case 1:
		j.Kind = model.JunctionFreeEnd
	case 2:
		j.Kind = model.JunctionL
		// Arms are id-sorted, so primary/secondary depends on the chain
		// ids alone, never on discovery order.
		j.PrimaryChainID = arms[0].ChainID
		j.SecondaryChainID = arms[1].ChainID
		j.Ortho = nearOrtho(arms[0].Angle, arms[1].Angle, cfg.OrthoTolDeg)
	case 3:
		j.Kind = model.JunctionT
		j.BranchChainID = branchArm(arms)
	default:
		j.Kind = model.JunctionX
	}
	return j
}

// branchArm returns the chain id of the T junction's perpendicular arm: the
// one left over after pairing the two most anti-parallel arms as the main
// axis. Ties resolve to the lowest chain id by the id-sorted arm order.
func branchArm(arms []model.JunctionArm) int {
	best := 0 // index of the branch arm
	bestSpread := -1.0
	for b := 0; b < 3; b++ {
		i, j := (b+1)%3, (b+2)%3
		spread := angleBetween(arms[i].Angle, arms[j].Angle)
		if spread > bestSpread+1e-12 {
			bestSpread = spread
			best = b
		}
	}
	return arms[best].ChainID
}

// ByChainEnd indexes junctions by (chain id, end) for the layout engine.
func ByChainEnd(junctions []model.Junction) map[int]map[model.ChainEnd]model.Junction {
	idx := make(map[int]map[model.ChainEnd]model.Junction)
	for _, j := range junctions {
		for _, a := range j.Arms {
			if idx[a.ChainID] == nil {
				idx[a.ChainID] = make(map[model.ChainEnd]model.Junction)
			}
			idx[a.ChainID][a.End] = j
		}
	}
	return idx
}

// nearOrtho reports whether two arm directions meet near 90 degrees.
func nearOrtho(a1, a2 float64, tolDeg float64) bool {
	tol := tolDeg * math.Pi / 180.0
	return math.Abs(angleBetween(a1, a2)-math.Pi/2) <= tol
}

// angleBetween returns the unsigned angle between two directions in [0, pi].
func angleBetween(a1, a2 float64) float64 {
	d := math.Abs(normalize(a1) - normalize(a2))
	if d > math.Pi {
		d = 2*math.Pi - d
	}
	return d
}

// normalize maps an angle into [0, 2*pi).
func normalize(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}
