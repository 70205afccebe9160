package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/FormFit/internal/plan"
)

// LabelInfo holds the data encoded into each panel label's QR code. The
// chain/row/ordinal triple matches the override key identity, so a scanned
// label resolves to the same panel across recomputations.
type LabelInfo struct {
	ChainID int     `json:"chain"`
	Row     int     `json:"row"`
	Ordinal int     `json:"ordinal"`
	Width   float64 `json:"width_mm"`
	Start   float64 `json:"start_mm"`
	Type    string  `json:"type"`
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10
// rows per page on US Letter).
const (
	labelMarginTop  = 12.7 // mm
	labelMarginLeft = 4.8  // mm
	labelWidth      = 66.7 // mm per label
	labelHeight     = 25.4 // mm per label
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0 // QR code size in mm
	labelPadding    = 2.0  // mm internal padding
)

// ExportLabels generates a PDF of QR-coded labels, one per placed panel.
// Panels arrive in engine order (chain, row, position), so the ordinal in
// each label is the panel's stable identity.
func ExportLabels(path string, result *plan.Result) error {
	if len(result.Panels) == 0 {
		return fmt.Errorf("no panels to generate labels for")
	}

	var labels []LabelInfo
	ordinal := 0
	for i, p := range result.Panels {
		if i > 0 && (p.ChainID != result.Panels[i-1].ChainID || p.Row != result.Panels[i-1].Row) {
			ordinal = 0
		} else if i > 0 {
			ordinal++
		}
		labels = append(labels, LabelInfo{
			ChainID: p.ChainID,
			Row:     p.Row,
			Ordinal: ordinal,
			Width:   p.WidthMm,
			Start:   p.StartMm,
			Type:    string(p.Type),
		})
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}
		posOnPage := i % labelsPerPage
		col := posOnPage % labelCols
		row := posOnPage / labelCols

		x := labelMarginLeft + float64(col)*labelWidth
		y := labelMarginTop + float64(row)*labelHeight

		if err := renderLabel(pdf, x, y, label); err != nil {
			return fmt.Errorf("failed to render label for chain %d: %w", label.ChainID, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

// renderLabel draws a single label at the given position.
func renderLabel(pdf *fpdf.Fpdf, x, y float64, info LabelInfo) error {
	// Light border as a cutting guide
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal label info: %w", err)
	}
	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	imgName := fmt.Sprintf("qr_c%d_r%d_p%d", info.ChainID, info.Row, info.Ordinal)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetXY(textX, y+labelPadding)
	pdf.CellFormat(textW, 4, fmt.Sprintf("Chain %d  Row %d  #%d", info.ChainID, info.Row, info.Ordinal+1), "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetXY(textX, y+labelPadding+5)
	pdf.CellFormat(textW, 4, fmt.Sprintf("%.0f mm  %s", info.Width, info.Type), "", 0, "L", false, 0, "")

	pdf.SetXY(textX, y+labelPadding+10)
	pdf.CellFormat(textW, 4, fmt.Sprintf("at %.0f mm", info.Start), "", 0, "L", false, 0, "")

	return nil
}
