package layout

import (
	"fmt"
	"sort"

	"github.com/piwi3910/FormFit/internal/model"
)

// PanelKey is the stable identity of a placed panel: its chain, its row and
// its ordinal position within that chain and row. Because the engine output
// is deterministic, the same key addresses the same panel across
// recomputations triggered by unrelated input changes.
type PanelKey struct {
	ChainID int `json:"chain_id"`
	Row     int `json:"row"`
	Ordinal int `json:"ordinal"`
}

// String renders the key in the "c<chain>:r<row>:p<ordinal>" form used by
// plan files.
func (k PanelKey) String() string {
	return fmt.Sprintf("c%d:r%d:p%d", k.ChainID, k.Row, k.Ordinal)
}

// ParsePanelKey parses the string form produced by PanelKey.String.
func ParsePanelKey(s string) (PanelKey, error) {
	var k PanelKey
	if _, err := fmt.Sscanf(s, "c%d:r%d:p%d", &k.ChainID, &k.Row, &k.Ordinal); err != nil {
		return PanelKey{}, fmt.Errorf("invalid panel key %q: %w", s, err)
	}
	return k, nil
}

// Override is a manual per-panel adjustment held by the caller. Nil fields
// leave the computed value untouched. Locked is advisory for calling layers
// (an editor keeps locked panels out of bulk edits); the patch step carries
// it but does not interpret it.
type Override struct {
	StartMm *float64         `json:"start_mm,omitempty"`
	WidthMm *float64         `json:"width_mm,omitempty"`
	Type    *model.PanelType `json:"type,omitempty"`
	Locked  bool             `json:"locked,omitempty"`
}

// ApplyOverrides patches engine output with the caller's override map and
// returns a new slice; the input is never mutated. This is the one and only
// override entry point: the engine itself recomputes from scratch and stays
// override-free, so the pure core never turns stateful.
func ApplyOverrides(panels []model.Panel, overrides map[PanelKey]Override) []model.Panel {
	out := make([]model.Panel, len(panels))
	copy(out, panels)
	if len(overrides) == 0 {
		return out
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ChainID != out[j].ChainID {
			return out[i].ChainID < out[j].ChainID
		}
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].StartMm < out[j].StartMm
	})

	ordinal := 0
	for i := range out {
		if i > 0 && (out[i].ChainID != out[i-1].ChainID || out[i].Row != out[i-1].Row) {
			ordinal = 0
		} else if i > 0 {
			ordinal++
		}
		key := PanelKey{ChainID: out[i].ChainID, Row: out[i].Row, Ordinal: ordinal}
		ov, ok := overrides[key]
		if !ok {
			continue
		}
		if ov.StartMm != nil {
			out[i].StartMm = *ov.StartMm
		}
		if ov.WidthMm != nil {
			out[i].WidthMm = *ov.WidthMm
		}
		if ov.Type != nil {
			out[i].Type = *ov.Type
		}
	}
	return out
}
