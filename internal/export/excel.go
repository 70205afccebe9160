package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/FormFit/internal/model"
	"github.com/piwi3910/FormFit/internal/plan"
)

// ExportXLSX writes the plan result as an Excel workbook with a purchase
// summary, the per-chain panel schedule and the topo schedule.
func ExportXLSX(path string, result *plan.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeSummarySheet(f, result); err != nil {
		return err
	}
	if err := writePanelSheet(f, result.Panels); err != nil {
		return err
	}
	if err := writeTopoSheet(f, result.Topos); err != nil {
		return err
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return err
	}
	return f.SaveAs(path)
}

func writeSummarySheet(f *excelize.File, result *plan.Result) error {
	const sheet = "Summary"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	b := result.BOM
	rows := [][]interface{}{
		{"Item", "Quantity"},
		{"Recommended purchase (panels)", b.RecommendedPanels},
		{"Theoretical minimum (panels)", b.TheoreticalMinPanels},
		{"Waste %", b.WastePercent},
		{"Full panels placed", b.FullPanels},
		{"Cut pieces", b.CutCount},
		{"Cut length (mm)", b.CutLengthMm},
		{"Dropped waste (mm)", b.DroppedWasteMm},
		{"Connectors", b.Connectors},
		{"Spacers", b.Spacers},
		{"Stabilization grids", b.Grids},
		{"Topo fillers", b.Topos},
		{"Chains", len(result.Chains)},
		{"Unresolved chains", len(result.Diagnostics.UnresolvedChains)},
		{"Skipped openings", len(result.Diagnostics.SkippedOpenings)},
	}
	return writeRows(f, sheet, rows)
}

func writePanelSheet(f *excelize.File, panels []model.Panel) error {
	const sheet = "Panels"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	rows := [][]interface{}{{"Chain", "Row", "Start (mm)", "Width (mm)", "Type", "Side", "Corner piece"}}
	for _, p := range panels {
		rows = append(rows, []interface{}{p.ChainID, p.Row, p.StartMm, p.WidthMm, string(p.Type), p.Side, p.IsCornerPiece})
	}
	return writeRows(f, sheet, rows)
}

func writeTopoSheet(f *excelize.File, topos []model.TopoPlacement) error {
	const sheet = "Topos"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	rows := [][]interface{}{{"Chain", "Row", "Start (mm)", "Width (mm)", "Kind"}}
	for _, t := range topos {
		rows = append(rows, []interface{}{t.ChainID, t.Row, t.StartMm, t.WidthMm, string(t.Kind)})
	}
	return writeRows(f, sheet, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
