package cli

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/piwi3910/FormFit/internal/export"
	"github.com/piwi3910/FormFit/internal/layout"
	"github.com/piwi3910/FormFit/internal/model"
	"github.com/piwi3910/FormFit/internal/plan"
	"github.com/piwi3910/FormFit/internal/project"
)

// newPlanCmd builds the plan command: run the pipeline over a plan document
// and print the BOM, optionally writing PDF/XLSX/DXF/label exports.
func newPlanCmd() *cobra.Command {
	var (
		pdfPath    string
		xlsxPath   string
		dxfPath    string
		labelsPath string
		rows       int
	)

	cmd := &cobra.Command{
		Use:   "plan <plan.json>",
		Short: "Compute the panel layout and bill of materials for a plan file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			doc, err := project.LoadPlan(args[0])
			if err != nil {
				return fmt.Errorf("load plan: %w", err)
			}
			if len(doc.Segments) == 0 {
				logger.Warn("plan has no wall segments")
			}
			if rows > 0 {
				doc.Settings.Layout.VisibleRows = rows
			}

			prog := newProgress(logger)
			result, err := plan.Run(plan.Input{
				Segments: doc.Segments,
				Openings: doc.Openings,
				Settings: doc.Settings,
			})
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Planned %d chains, %d panels", len(result.Chains), len(result.Panels)))

			overrides, badKeys := doc.OverrideMap()
			for _, k := range badKeys {
				logger.Warnf("ignoring malformed override key %q", k)
			}
			if len(overrides) > 0 {
				result.Panels = layout.ApplyOverrides(result.Panels, overrides)
				logger.Debugf("applied %d overrides", len(overrides))
			}

			reportDiagnostics(logger, result)
			printBOM(cmd, result)

			if pdfPath != "" {
				if err := export.ExportPDF(pdfPath, result, doc.Settings.Layout); err != nil {
					return fmt.Errorf("export pdf: %w", err)
				}
				logger.Info("wrote PDF report", "path", pdfPath)
			}
			if xlsxPath != "" {
				if err := export.ExportXLSX(xlsxPath, result); err != nil {
					return fmt.Errorf("export xlsx: %w", err)
				}
				logger.Info("wrote Excel BOM", "path", xlsxPath)
			}
			if dxfPath != "" {
				if err := export.ExportDXF(dxfPath, result, doc.Openings); err != nil {
					return fmt.Errorf("export dxf: %w", err)
				}
				logger.Info("wrote DXF drawing", "path", dxfPath)
			}
			if labelsPath != "" {
				if err := export.ExportLabels(labelsPath, result); err != nil {
					return fmt.Errorf("export labels: %w", err)
				}
				logger.Info("wrote panel labels", "path", labelsPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&pdfPath, "pdf", "", "write an elevation + BOM report PDF")
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "write the BOM as an Excel workbook")
	cmd.Flags().StringVar(&dxfPath, "dxf", "", "write the plan as a DXF drawing")
	cmd.Flags().StringVar(&labelsPath, "labels", "", "write QR panel labels as a PDF")
	cmd.Flags().IntVar(&rows, "rows", 0, "override the number of visible rows")
	return cmd
}

// newInitCmd writes an empty plan document so users have a starting point.
// Settings are seeded from the user's TOML defaults file when one exists.
func newInitCmd() *cobra.Command {
	var (
		name       string
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "init <plan.json>",
		Short: "Create an empty plan document with default settings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			if configPath == "" {
				configPath = project.DefaultConfigPath()
			}
			defaults, err := project.LoadDefaults(configPath)
			if err != nil {
				return fmt.Errorf("load defaults: %w", err)
			}

			doc := project.NewPlanDocument(name)
			doc.Settings = defaults
			if err := project.SavePlan(args[0], doc); err != nil {
				return err
			}
			logger.Info("created plan", "path", args[0], "id", doc.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "Untitled", "plan name")
	cmd.Flags().StringVar(&configPath, "config", "", "defaults file (default ~/.formfit/formfit.toml)")
	return cmd
}

func reportDiagnostics(logger *log.Logger, result *plan.Result) {
	d := result.Diagnostics
	if d.DroppedSegments > 0 {
		logger.Warnf("dropped %d noise segments", d.DroppedSegments)
	}
	if len(d.UnresolvedChains) > 0 {
		logger.Warnf("%d chains could not be classified: %v", len(d.UnresolvedChains), d.UnresolvedChains)
	}
	if len(d.UncertainSides) > 0 {
		logger.Warnf("exterior side is ambiguous on chains %v; review or flip per chain", d.UncertainSides)
	}
	for _, o := range d.SkippedOpenings {
		logger.Warnf("opening %s references unknown chain %d; skipped", o.ID, o.ChainID)
	}
}

// printBOM writes the itemized bill of materials to the command's stdout.
func printBOM(cmd *cobra.Command, result *plan.Result) {
	b := result.BOM
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Panels to purchase:   %d\n", b.RecommendedPanels)
	fmt.Fprintf(out, "Theoretical minimum:  %d\n", b.TheoreticalMinPanels)
	fmt.Fprintf(out, "Waste:                %.1f%%\n", b.WastePercent)

	types := make([]string, 0, len(b.PanelsByType))
	for t := range b.PanelsByType {
		types = append(types, string(t))
	}
	sort.Strings(types)
	for _, t := range types {
		fmt.Fprintf(out, "  %-12s %d\n", t, b.PanelsByType[model.PanelType(t)])
	}

	fmt.Fprintf(out, "Connectors:           %d\n", b.Connectors)
	fmt.Fprintf(out, "Spacers:              %d\n", b.Spacers)
	fmt.Fprintf(out, "Stabilization grids:  %d\n", b.Grids)
	fmt.Fprintf(out, "Topo fillers:         %d\n", b.Topos)
}
