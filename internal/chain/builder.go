// Package chain merges raw, possibly fragmented wall segments into
// consolidated straight chains. Segments are clustered by direction, then by
// perpendicular offset, and finally merged along the shared axis with gap
// bridging, so noisy multi-segment traces collapse into one logical run.
package chain

import (
	"math"
	"sort"

	"github.com/piwi3910/FormFit/internal/model"
)

const epsilon = 1e-9

// axisSegment is a raw segment projected onto its canonical axis.
type axisSegment struct {
	angle  float64 // canonical direction in [0, pi)
	offset float64 // signed distance of the segment line from the origin
	t0, t1 float64 // projection interval along the axis, t0 <= t1
}

// Build merges segments into chains using the given tolerances. Segments
// shorter than NoiseMinMm (including zero-length ones) are treated as
// scanning noise; they are dropped and counted, never silently discarded.
//
// The returned chains are sorted by their canonical start coordinates before
// id assignment, so identical input always produces identical ids regardless
// of segment order.
func Build(segments []model.WallSegment, tol model.Tolerances) ([]model.Chain, int) {
	var dropped int
	var axial []axisSegment

	for _, s := range segments {
		if s.Length() < tol.NoiseMinMm {
			dropped++
			continue
		}
		axial = append(axial, toAxis(s))
	}

	angleTol := tol.AngleTolDeg * math.Pi / 180.0
	var chains []model.Chain
	for _, group := range groupByAngle(axial, angleTol) {
		chains = append(chains, mergeGroup(group, tol)...)
	}

	return finalize(chains), dropped
}

// finalize sorts chains by their canonical coordinates and assigns ids 1..n,
// so identical geometry always gets identical ids.
func finalize(chains []model.Chain) []model.Chain {
	sort.Slice(chains, func(i, j int) bool {
		a, b := chains[i], chains[j]
		if a.Start.X != b.Start.X {
			return a.Start.X < b.Start.X
		}
		if a.Start.Y != b.Start.Y {
			return a.Start.Y < b.Start.Y
		}
		if a.End.X != b.End.X {
			return a.End.X < b.End.X
		}
		return a.End.Y < b.End.Y
	})
	for i := range chains {
		chains[i].ID = i + 1
	}
	return chains
}

// toAxis converts a segment to its canonical axis representation. The
// direction is normalized into [0, pi) and the endpoints ordered along it,
// so reversed duplicates of the same wall land on the same axis.
func toAxis(s model.WallSegment) axisSegment {
	a := math.Atan2(s.EndY-s.StartY, s.EndX-s.StartX)
	if a < 0 {
		a += math.Pi
	}
	if a >= math.Pi-epsilon {
		a = 0
	}
	ux, uy := math.Cos(a), math.Sin(a)
	nx, ny := -uy, ux

	t0 := s.StartX*ux + s.StartY*uy
	t1 := s.EndX*ux + s.EndY*uy
	if t0 > t1 {
		t0, t1 = t1, t0
	}
	mx, my := (s.StartX+s.EndX)/2, (s.StartY+s.EndY)/2
	return axisSegment{angle: a, offset: mx*nx + my*ny, t0: t0, t1: t1}
}

// groupByAngle clusters segments whose direction differs by less than
// angleTol. Directions live on a half-circle, so the cluster touching pi is
// folded back onto the cluster touching 0.
func groupByAngle(segs []axisSegment, angleTol float64) [][]axisSegment {
	if len(segs) == 0 {
		return nil
	}
	sorted := make([]axisSegment, len(segs))
	copy(sorted, segs)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].angle != sorted[j].angle {
			return sorted[i].angle < sorted[j].angle
		}
		if sorted[i].offset != sorted[j].offset {
			return sorted[i].offset < sorted[j].offset
		}
		return sorted[i].t0 < sorted[j].t0
	})

	var groups [][]axisSegment
	current := []axisSegment{sorted[0]}
	for _, s := range sorted[1:] {
		if s.angle-current[len(current)-1].angle < angleTol {
			current = append(current, s)
			continue
		}
		groups = append(groups, current)
		current = []axisSegment{s}
	}
	groups = append(groups, current)

	// Fold the wrap-around: a near-pi cluster and a near-zero cluster
	// describe the same direction family.
	if len(groups) > 1 {
		first, last := groups[0], groups[len(groups)-1]
		if (math.Pi-last[len(last)-1].angle)+first[0].angle < angleTol {
			for i := range last {
				last[i] = foldAngle(last[i])
			}
			groups[0] = append(last, first...)
			groups = groups[:len(groups)-1]
		}
	}
	return groups
}

// foldAngle re-expresses a near-pi axis segment relative to angle-pi, which
// flips both the offset and the projection axis.
func foldAngle(s axisSegment) axisSegment {
	s.angle -= math.Pi
	s.offset = -s.offset
	s.t0, s.t1 = -s.t1, -s.t0
	return s
}

// mergeGroup merges one direction family into chains: segments are clustered
// by perpendicular offset within SnapTolMm, and each offset cluster's
// projection intervals are merged with gaps up to GapTolMm bridged.
func mergeGroup(group []axisSegment, tol model.Tolerances) []model.Chain {
	sort.Slice(group, func(i, j int) bool {
		if group[i].offset != group[j].offset {
			return group[i].offset < group[j].offset
		}
		return group[i].t0 < group[j].t0
	})

	var chains []model.Chain
	for start := 0; start < len(group); {
		end := start + 1
		for end < len(group) && group[end].offset-group[end-1].offset <= tol.SnapTolMm {
			end++
		}
		chains = append(chains, mergeLine(group[start:end], tol.GapTolMm)...)
		start = end
	}
	return chains
}

// mergeLine merges segments sharing one line into chains, bridging gaps up
// to gapTol. The line is placed at the average angle and offset of its
// members to smooth out snap jitter. Folded members of a wrap-around group
// carry slightly negative angles; the average is used as-is, because
// shifting it back by pi would also require re-folding offset and the
// projection interval.
func mergeLine(line []axisSegment, gapTol float64) []model.Chain {
	var angleSum, offsetSum float64
	for _, s := range line {
		angleSum += s.angle
		offsetSum += s.offset
	}
	angle := angleSum / float64(len(line))
	offset := offsetSum / float64(len(line))

	sort.Slice(line, func(i, j int) bool {
		if line[i].t0 != line[j].t0 {
			return line[i].t0 < line[j].t0
		}
		return line[i].t1 < line[j].t1
	})

	var chains []model.Chain
	t0, t1 := line[0].t0, line[0].t1
	flush := func() {
		if t1-t0 > epsilon {
			chains = append(chains, lineChain(angle, offset, t0, t1))
		}
	}
	for _, s := range line[1:] {
		if s.t0 <= t1+gapTol {
			if s.t1 > t1 {
				t1 = s.t1
			}
			continue
		}
		flush()
		t0, t1 = s.t0, s.t1
	}
	flush()
	return chains
}

// lineChain materializes a chain from axis coordinates. The start is the
// lexicographically smaller endpoint so chain orientation is canonical.
func lineChain(angle, offset, t0, t1 float64) model.Chain {
	ux, uy := math.Cos(angle), math.Sin(angle)
	nx, ny := -uy, ux
	a := model.Point2D{X: nx*offset + ux*t0, Y: ny*offset + uy*t0}
	b := model.Point2D{X: nx*offset + ux*t1, Y: ny*offset + uy*t1}
	if b.X < a.X || (b.X == a.X && b.Y < a.Y) {
		a, b = b, a
	}
	return model.Chain{
		Start:    a,
		End:      b,
		LengthMm: a.Distance(b),
		Angle:    math.Atan2(b.Y-a.Y, b.X-a.X),
	}
}
