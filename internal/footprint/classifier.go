// Package footprint derives the building's outer polygon from the chain
// graph and classifies every chain as perimeter, partition or unresolved.
package footprint

import (
	"math"
	"sort"

	"github.com/piwi3910/FormFit/internal/model"
)

// Footprint is the traced outer boundary of the building.
type Footprint struct {
	Loop         []model.Point2D `json:"loop"` // outer polygon vertices, counterclockwise
	AreaSqMm     float64         `json:"area_sq_mm"`
	Centroid     model.Point2D   `json:"centroid"`
	LoopChainIDs []int           `json:"loop_chain_ids"` // chains lying on the loop, ascending
}

// Classify traces the outer loop of the chain graph and tags every chain.
// Chains on the loop become perimeter with an exterior side assignment;
// chains whose midpoint lies inside the loop become partitions; everything
// else is unresolved and surfaced to the caller rather than dropped.
//
// The junctions must come from the same chain set (see junction.Detect).
func Classify(chains []model.Chain, junctions []model.Junction, cfg model.ClassifyConfig) (Footprint, []model.Classification) {
	g := buildGraph(chains, junctions)
	fp, onLoop := traceOuterLoop(g)

	classifications := make([]model.Classification, 0, len(chains))
	for _, c := range chains {
		cls := model.Classification{ChainID: c.ID}
		switch {
		case onLoop[c.ID]:
			cls.Class = model.ClassPerimeter
			cls.ExteriorLeft, cls.SideUncertain = exteriorLeft(c, fp.Centroid, cfg)
		case len(fp.Loop) >= 3 && pointInPolygon(c.Midpoint(), fp.Loop):
			cls.Class = model.ClassPartition
		default:
			cls.Class = model.ClassUnresolved
		}
		classifications = append(classifications, cls)
	}
	return fp, classifications
}

// exteriorLeft decides which side of the chain faces outward by comparing
// the centroid distance of a sample point on each side. When the distances
// differ by less than SideBiasMm the plan is near-symmetric around this
// wall; the farther side still wins so the result stays deterministic, but
// the assignment is reported as uncertain so callers can flip it per chain.
func exteriorLeft(c model.Chain, centroid model.Point2D, cfg model.ClassifyConfig) (left, uncertain bool) {
	off := cfg.SampleOffsetMm
	if off <= 0 {
		off = model.DefaultClassifyConfig().SampleOffsetMm
	}
	mid := c.Midpoint()
	n := c.Normal()
	lp := model.Point2D{X: mid.X + n.X*off, Y: mid.Y + n.Y*off}
	rp := model.Point2D{X: mid.X - n.X*off, Y: mid.Y - n.Y*off}
	dl, dr := lp.Distance(centroid), rp.Distance(centroid)
	return dl >= dr, math.Abs(dl-dr) < cfg.SideBiasMm
}

// graph is the chain graph keyed by snapped node coordinates.
type graph struct {
	vertices map[model.Point2D][]edge
}

type edge struct {
	chainID int
	to      model.Point2D
	angle   float64 // direction from this vertex toward to
}

// buildGraph connects junction nodes with chains. Junction nodes are already
// snapped, so their coordinates are exact map keys.
func buildGraph(chains []model.Chain, junctions []model.Junction) *graph {
	ends := make(map[int]map[model.ChainEnd]model.Point2D)
	for _, j := range junctions {
		for _, a := range j.Arms {
			if ends[a.ChainID] == nil {
				ends[a.ChainID] = make(map[model.ChainEnd]model.Point2D)
			}
			ends[a.ChainID][a.End] = j.Node
		}
	}

	g := &graph{vertices: make(map[model.Point2D][]edge)}
	for _, c := range chains {
		u, okU := ends[c.ID][model.EndStart]
		v, okV := ends[c.ID][model.EndEnd]
		if !okU || !okV || u == v {
			continue
		}
		g.vertices[u] = append(g.vertices[u], edge{chainID: c.ID, to: v, angle: c.Angle})
		g.vertices[v] = append(g.vertices[v], edge{chainID: c.ID, to: u, angle: normalize(c.Angle + math.Pi)})
	}
	for p := range g.vertices {
		es := g.vertices[p]
		sort.Slice(es, func(i, j int) bool { return es[i].chainID < es[j].chainID })
	}
	return g
}

// traceOuterLoop walks the outer face of the graph counterclockwise: start
// at the lowest (then leftmost) node heading as far rightward as possible,
// and at every node take the most clockwise turn relative to the arrival
// direction. Dangling spurs are traversed both ways and contribute no area;
// only chains crossed exactly once lie on the loop.
func traceOuterLoop(g *graph) (Footprint, map[int]bool) {
	onLoop := make(map[int]bool)
	if len(g.vertices) < 3 {
		return Footprint{}, onLoop
	}

	start := model.Point2D{X: math.Inf(1), Y: math.Inf(1)}
	for p := range g.vertices {
		if p.Y < start.Y || (p.Y == start.Y && p.X < start.X) {
			start = p
		}
	}
	if len(g.vertices[start]) == 0 {
		return Footprint{}, onLoop
	}

	edgeCount := 0
	for _, es := range g.vertices {
		edgeCount += len(es)
	}

	// Pretend we arrived at the start node traveling along +x, so the
	// first pick is the most rightward-heading edge.
	first := pickNext(g.vertices[start], math.Pi, -1)
	loop := []model.Point2D{start}
	crossings := make(map[int]int)

	cur, e := start, first
	for steps := 0; steps <= edgeCount+2; steps++ {
		crossings[e.chainID]++
		cur = e.to
		if cur == start {
			break
		}
		loop = append(loop, cur)
		e = pickNext(g.vertices[cur], normalize(e.angle+math.Pi), e.chainID)
	}
	if cur != start {
		// The walk never closed; no usable outer loop.
		return Footprint{}, onLoop
	}

	for id, n := range crossings {
		if n == 1 {
			onLoop[id] = true
		}
	}
	area, centroid := polygonAreaCentroid(loop)
	if area <= 0 {
		return Footprint{}, map[int]bool{}
	}

	ids := make([]int, 0, len(onLoop))
	for id := range onLoop {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return Footprint{Loop: loop, AreaSqMm: area, Centroid: centroid, LoopChainIDs: ids}, onLoop
}

// pickNext selects the outgoing edge with the largest clockwise rotation
// from the reversed arrival direction. The edge we arrived on is only taken
// when it is the sole way out (a dead-end spur).
func pickNext(edges []edge, rev float64, backChainID int) edge {
	best := -1
	bestTurn := -1.0
	for i, e := range edges {
		if e.chainID == backChainID && len(edges) > 1 {
			continue
		}
		turn := math.Mod(rev-e.angle, 2*math.Pi)
		if turn <= 1e-12 {
			turn += 2 * math.Pi
		}
		if turn > bestTurn {
			bestTurn = turn
			best = i
		}
	}
	return edges[best]
}

// polygonAreaCentroid returns the unsigned area and centroid of a polygon.
// Zero-area spur excursions cancel out of both sums.
func polygonAreaCentroid(poly []model.Point2D) (float64, model.Point2D) {
	var area2, cx, cy float64
	for i := range poly {
		p, q := poly[i], poly[(i+1)%len(poly)]
		cross := p.X*q.Y - q.X*p.Y
		area2 += cross
		cx += (p.X + q.X) * cross
		cy += (p.Y + q.Y) * cross
	}
	if math.Abs(area2) < 1e-9 {
		return 0, model.Point2D{}
	}
	area := area2 / 2
	centroid := model.Point2D{X: cx / (6 * area), Y: cy / (6 * area)}
	return math.Abs(area), centroid
}

// pointInPolygon is a standard even-odd ray cast. Edges walked twice (spur
// excursions) flip the parity twice and cancel.
func pointInPolygon(p model.Point2D, poly []model.Point2D) bool {
	inside := false
	for i, j := 0, len(poly)-1; i < len(poly); j, i = i, i+1 {
		a, b := poly[i], poly[j]
		if (a.Y > p.Y) != (b.Y > p.Y) &&
			p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
			inside = !inside
		}
	}
	return inside
}

func normalize(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}
