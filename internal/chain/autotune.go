package chain

import "github.com/piwi3910/FormFit/internal/model"

// relaxFactor is the per-retry tolerance scale used by BuildAuto.
const relaxFactor = 1.5

// fragmentLengthMm marks a chain as a likely merge fragment. When more than
// a quarter of the output is below this, the input is considered fragmented
// and the tolerances get relaxed.
const fragmentLengthMm = 300.0

// BuildAuto runs Build, then progressively relaxes the tolerances while the
// output looks fragmented and the chain count keeps changing. The loop is
// hard-capped at maxRetries so degenerate input can never spin forever. It
// returns the chains, the dropped-segment count and the tolerances that
// produced the final result.
func BuildAuto(segments []model.WallSegment, tol model.Tolerances, maxRetries int) ([]model.Chain, int, model.Tolerances) {
	if maxRetries < 0 {
		maxRetries = 0
	}

	chains, dropped := Build(segments, tol)
	for retry := 0; retry < maxRetries; retry++ {
		if !fragmented(chains) {
			break
		}
		relaxed := tol.Relaxed(relaxFactor)
		next, nextDropped := Build(segments, relaxed)
		if len(next) == len(chains) {
			// Chain count stabilized; relaxing further only merges
			// walls that are genuinely distinct.
			break
		}
		chains, dropped, tol = next, nextDropped, relaxed
	}
	return chains, dropped, tol
}

func fragmented(chains []model.Chain) bool {
	if len(chains) == 0 {
		return false
	}
	short := 0
	for _, c := range chains {
		if c.LengthMm < fragmentLengthMm {
			short++
		}
	}
	return short*4 > len(chains)
}
