package bom

import "sort"

// packPieces bin-packs cut piece widths into whole panels of the given
// capacity using first-fit decreasing: pieces are sorted widest first and
// each one lands in the first bin with room, so short pieces are satisfied
// from the offcuts of earlier cuts before a new panel is started.
//
// Pieces wider than one panel (centered middle cuts can span almost two)
// consume whole panels first; the remainder re-enters the packing as an
// ordinary piece. Returns the number of panels consumed.
func packPieces(widths []float64, capacity float64) int {
	if capacity <= 0 {
		return 0
	}

	whole := 0
	pieces := make([]float64, 0, len(widths))
	for _, w := range widths {
		if w <= 0 {
			continue
		}
		for w >= capacity {
			whole++
			w -= capacity
		}
		if w > 1e-6 {
			pieces = append(pieces, w)
		}
	}

	sort.Sort(sort.Reverse(sort.Float64Slice(pieces)))

	var bins []float64 // remaining capacity per open bin
	for _, w := range pieces {
		placed := false
		for i := range bins {
			if bins[i] >= w {
				bins[i] -= w
				placed = true
				break
			}
		}
		if !placed {
			bins = append(bins, capacity-w)
		}
	}
	return whole + len(bins)
}
