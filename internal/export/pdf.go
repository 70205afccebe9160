// Package export provides functionality for exporting plan results to
// various file formats.
package export

import (
	"fmt"
	"math"
	"sort"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/FormFit/internal/model"
	"github.com/piwi3910/FormFit/internal/plan"
)

// typeColor represents an RGB color for a panel type.
type typeColor struct {
	R, G, B int
}

// panelColors keys the elevation drawing colors by panel type.
var panelColors = map[model.PanelType]typeColor{
	model.PanelFull:      {R: 76, G: 175, B: 80},   // green
	model.PanelCutSingle: {R: 255, G: 152, B: 0},   // orange
	model.PanelCornerCut: {R: 33, G: 150, B: 243},  // blue
	model.PanelEndCut:    {R: 156, G: 39, B: 176},  // purple
}

var topoColor = typeColor{R: 120, G: 120, B: 120}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// ExportPDF generates a PDF containing one elevation page per chain and a
// closing BOM summary page. The layout spec supplies the row height used to
// scale the elevation drawings.
func ExportPDF(path string, result *plan.Result, spec model.LayoutSpec) error {
	if len(result.Chains) == 0 {
		return fmt.Errorf("no chains to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	for _, c := range result.Chains {
		pdf.AddPage()
		renderChainPage(pdf, c, result, spec)
	}

	pdf.AddPage()
	renderSummaryPage(pdf, result)

	return pdf.OutputFileAndClose(path)
}

// renderChainPage draws the row-by-row elevation of one chain.
func renderChainPage(pdf *fpdf.Fpdf, c model.Chain, result *plan.Result, spec model.LayoutSpec) {
	cls := classFor(result, c.ID)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Chain %d: %.0f mm (%s)", c.ID, c.LengthMm, cls)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	panels := panelsFor(result.Panels, c.ID)
	topos := toposFor(result.Topos, c.ID)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Panels: %d | Topos: %d", len(panels), len(topos))
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	rows := maxRow(panels, topos) + 1
	if rows < 1 {
		rows = 1
	}
	wallHeightMm := float64(rows) * spec.PanelHeightMm

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom
	scale := math.Min(drawWidth/c.LengthMm, drawHeight/wallHeightMm)

	offsetX := marginLeft
	// Rows draw bottom-up: row 0 sits at the bottom of the drawing area.
	baseY := drawAreaTop + wallHeightMm*scale

	pdf.SetLineWidth(0.3)
	for _, p := range panels {
		col := panelColors[p.Type]
		drawBlock(pdf, offsetX, baseY, scale, spec.PanelHeightMm, p.StartMm, p.WidthMm, p.Row, col)
	}
	for _, t := range topos {
		drawBlock(pdf, offsetX, baseY, scale, spec.PanelHeightMm, t.StartMm, t.WidthMm, t.Row, topoColor)
	}

	// Row separators over the blocks
	pdf.SetDrawColor(60, 60, 60)
	pdf.SetLineWidth(0.1)
	for r := 0; r <= rows; r++ {
		y := baseY - float64(r)*spec.PanelHeightMm*scale
		pdf.Line(offsetX, y, offsetX+c.LengthMm*scale, y)
	}
}

func drawBlock(pdf *fpdf.Fpdf, offsetX, baseY, scale, rowH float64, start, width float64, row int, col typeColor) {
	x := offsetX + start*scale
	y := baseY - float64(row+1)*rowH*scale
	pdf.SetFillColor(col.R, col.G, col.B)
	pdf.SetDrawColor(30, 30, 30)
	pdf.Rect(x, y, width*scale, rowH*scale, "FD")
}

// renderSummaryPage draws the aggregated BOM and diagnostics.
func renderSummaryPage(pdf *fpdf.Fpdf, result *plan.Result) {
	b := result.BOM

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, "Bill of Materials", "", 0, "L", false, 0, "")

	lines := []string{
		fmt.Sprintf("Recommended purchase: %d panels", b.RecommendedPanels),
		fmt.Sprintf("Theoretical minimum: %d panels", b.TheoreticalMinPanels),
		fmt.Sprintf("Waste: %.1f%%", b.WastePercent),
		fmt.Sprintf("Full panels placed: %d", b.FullPanels),
		fmt.Sprintf("Cut pieces: %d (%.0f mm total)", b.CutCount, b.CutLengthMm),
		fmt.Sprintf("Dropped sub-minimum waste: %.0f mm", b.DroppedWasteMm),
		fmt.Sprintf("Connectors: %d", b.Connectors),
		fmt.Sprintf("Spacers: %d", b.Spacers),
		fmt.Sprintf("Stabilization grids: %d", b.Grids),
		fmt.Sprintf("Topo fillers: %d", b.Topos),
	}
	d := result.Diagnostics
	if d.DroppedSegments > 0 {
		lines = append(lines, fmt.Sprintf("Dropped input segments: %d", d.DroppedSegments))
	}
	if len(d.UnresolvedChains) > 0 {
		lines = append(lines, fmt.Sprintf("Unresolved chains: %v", d.UnresolvedChains))
	}
	if len(d.SkippedOpenings) > 0 {
		lines = append(lines, fmt.Sprintf("Skipped openings (dangling chain id): %d", len(d.SkippedOpenings)))
	}

	pdf.SetFont("Helvetica", "", 11)
	y := drawAreaTop
	for _, line := range lines {
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(pageWidth-marginLeft-marginRight, 6, line, "", 0, "L", false, 0, "")
		y += 7
	}
}

func classFor(result *plan.Result, chainID int) string {
	for _, c := range result.Classifications {
		if c.ChainID == chainID {
			return c.Class.String()
		}
	}
	return model.ClassUnresolved.String()
}

func panelsFor(panels []model.Panel, chainID int) []model.Panel {
	var out []model.Panel
	for _, p := range panels {
		if p.ChainID == chainID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].StartMm < out[j].StartMm
	})
	return out
}

func toposFor(topos []model.TopoPlacement, chainID int) []model.TopoPlacement {
	var out []model.TopoPlacement
	for _, t := range topos {
		if t.ChainID == chainID {
			out = append(out, t)
		}
	}
	return out
}

func maxRow(panels []model.Panel, topos []model.TopoPlacement) int {
	max := 0
	for _, p := range panels {
		if p.Row > max {
			max = p.Row
		}
	}
	for _, t := range topos {
		if t.Row > max {
			max = t.Row
		}
	}
	return max
}
