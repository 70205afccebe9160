package export

import (
	"fmt"

	"github.com/yofu/dxf"

	"github.com/piwi3910/FormFit/internal/model"
	"github.com/piwi3910/FormFit/internal/plan"
)

// ExportDXF writes the reconstructed plan as a DXF drawing: chains on a
// WALLS layer, opening spans on an OPENINGS layer and row-0 panel joints on
// a PANELS layer, so the layout can be checked against the source floor
// plan in any CAD viewer.
func ExportDXF(path string, result *plan.Result, openings []model.Opening) error {
	if len(result.Chains) == 0 {
		return fmt.Errorf("no chains to export")
	}

	d := dxf.NewDrawing()

	chains := make(map[int]model.Chain, len(result.Chains))
	for _, c := range result.Chains {
		chains[c.ID] = c
	}

	if _, err := d.AddLayer("WALLS", dxf.DefaultColor, dxf.DefaultLineType, true); err != nil {
		return err
	}
	for _, c := range result.Chains {
		if _, err := d.Line(c.Start.X, c.Start.Y, 0, c.End.X, c.End.Y, 0); err != nil {
			return fmt.Errorf("draw chain %d: %w", c.ID, err)
		}
	}

	if _, err := d.AddLayer("OPENINGS", dxf.DefaultColor, dxf.DefaultLineType, true); err != nil {
		return err
	}
	for _, o := range openings {
		c, ok := chains[o.ChainID]
		if !ok {
			continue
		}
		a := c.PointAt(o.OffsetMm)
		b := c.PointAt(o.OffsetMm + o.WidthMm)
		if _, err := d.Line(a.X, a.Y, 0, b.X, b.Y, 0); err != nil {
			return fmt.Errorf("draw opening %s: %w", o.ID, err)
		}
	}

	// Panel joints of the bottom row, drawn as short ticks across the wall
	// line so a viewer shows where the cuts land.
	if _, err := d.AddLayer("PANELS", dxf.DefaultColor, dxf.DefaultLineType, true); err != nil {
		return err
	}
	const tickMm = 100.0
	for _, p := range result.Panels {
		if p.Row != 0 {
			continue
		}
		c, ok := chains[p.ChainID]
		if !ok {
			continue
		}
		joint := c.PointAt(p.EndMm())
		n := c.Normal()
		if _, err := d.Line(
			joint.X-n.X*tickMm/2, joint.Y-n.Y*tickMm/2, 0,
			joint.X+n.X*tickMm/2, joint.Y+n.Y*tickMm/2, 0,
		); err != nil {
			return fmt.Errorf("draw joint on chain %d: %w", p.ChainID, err)
		}
	}

	return d.SaveAs(path)
}
