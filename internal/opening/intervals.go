// Package opening computes, per chain and per vertical row, the sub-spans
// of a chain that remain fillable with panels once door and window openings
// are subtracted.
package opening

import (
	"sort"

	"github.com/piwi3910/FormFit/internal/model"
)

// ForChain returns the openings bound to one chain, sorted by offset.
func ForChain(openings []model.Opening, chainID int) []model.Opening {
	var out []model.Opening
	for _, o := range openings {
		if o.ChainID == chainID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].OffsetMm != out[j].OffsetMm {
			return out[i].OffsetMm < out[j].OffsetMm
		}
		return out[i].WidthMm < out[j].WidthMm
	})
	return out
}

// CutsRow reports whether an opening's vertical range intersects the row
// band. Touching a band only at its boundary does not cut the row.
func CutsRow(o model.Opening, row int, spec model.LayoutSpec) bool {
	bottom, top := spec.RowBand(row)
	return o.SillMm < top && o.SillMm+o.HeightMm > bottom
}

// RowIntervals subtracts every opening that cuts the given row from
// [0, chain.LengthMm] and returns the remaining spans, sorted and pairwise
// disjoint. Slivers between adjacent openings are kept even when they are
// zero or near-zero wide, so downstream waste accounting stays consistent;
// they are never silently merged away.
func RowIntervals(chain model.Chain, openings []model.Opening, row int, spec model.LayoutSpec) []model.Interval {
	spans := make([]model.Interval, 0, 2)
	for _, o := range ForChain(openings, chain.ID) {
		if !CutsRow(o, row, spec) {
			continue
		}
		start := clamp(o.OffsetMm, 0, chain.LengthMm)
		end := clamp(o.OffsetMm+o.WidthMm, 0, chain.LengthMm)
		if end > start {
			spans = append(spans, model.Interval{StartMm: start, EndMm: end})
		}
	}
	if len(spans) == 0 {
		return []model.Interval{{StartMm: 0, EndMm: chain.LengthMm}}
	}

	// Merge overlapping opening spans; overlapping openings are a data
	// quality issue handled by policy, not an error.
	sort.Slice(spans, func(i, j int) bool { return spans[i].StartMm < spans[j].StartMm })
	merged := []model.Interval{spans[0]}
	for _, s := range spans[1:] {
		last := &merged[len(merged)-1]
		if s.StartMm <= last.EndMm {
			if s.EndMm > last.EndMm {
				last.EndMm = s.EndMm
			}
			continue
		}
		merged = append(merged, s)
	}

	var out []model.Interval
	cursor := 0.0
	for _, s := range merged {
		out = append(out, model.Interval{StartMm: cursor, EndMm: s.StartMm})
		cursor = s.EndMm
	}
	out = append(out, model.Interval{StartMm: cursor, EndMm: chain.LengthMm})
	return out
}

// Validate splits openings into those that resolve to a known chain and
// those with a dangling chain id. Dangling openings are skipped for layout
// but must be reported to the caller.
func Validate(openings []model.Opening, chains []model.Chain) (valid, dangling []model.Opening) {
	known := make(map[int]bool, len(chains))
	for _, c := range chains {
		known[c.ID] = true
	}
	for _, o := range openings {
		if known[o.ChainID] {
			valid = append(valid, o)
		} else {
			dangling = append(dangling, o)
		}
	}
	return valid, dangling
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
