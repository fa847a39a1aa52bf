package cli

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/piwi3910/BoardFit/internal/engine"
	"github.com/piwi3910/BoardFit/internal/export"
	"github.com/piwi3910/BoardFit/internal/logger"
	"github.com/piwi3910/BoardFit/internal/model"
	"github.com/piwi3910/BoardFit/internal/project"
)

// packOutputs are the report and file flags of pack.
type packOutputs struct {
	format  string
	pdf     string
	labels  string
	dxf     string
	xlsx    string
	chart   string
	saveJob string
	strict  bool
	offcuts bool
}

func packCmd(a *app) *cobra.Command {
	var in inputFlags
	var out packOutputs

	c := &cobra.Command{
		Use:   "pack",
		Short: "Pack parts onto boards and report the layout",
		Example: `  boardfit pack -i parts.csv --kerf 3.2
  boardfit pack -j cabinet.yaml --pdf layout.pdf --dxf layout.dxf
  boardfit pack -i cutlist.csv -i boards.xlsx --format json --strict
  boardfit pack -i parts.csv --stock ply-2440x1220:2 --keep-offcuts`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			job, err := in.load(cmd, a.cfg.Settings)
			if err != nil {
				return err
			}
			if out.saveJob != "" {
				if err := project.SaveJob(out.saveJob, job); err != nil {
					return err
				}
			}

			format := a.cfg.Output.Format
			if cmd.Flags().Changed("format") {
				format = out.format
			}

			opt := engine.New(job.Settings, engine.WithLogger(logger.L()))
			result, err := opt.Optimize(cmd.Context(), job.Parts, job.Boards)
			if err != nil {
				return err
			}

			if err := printResult(cmd.OutOrStdout(), result, format); err != nil {
				return err
			}
			if err := writeExports(result, job.Settings, out, a.cfg.Output.Directory); err != nil {
				return err
			}
			if out.offcuts {
				if err := keepOffcuts(in.inventory, result); err != nil {
					return err
				}
			}

			if out.strict && !result.Complete() {
				return fmt.Errorf("%w: %d part(s) unplaced", ErrIncomplete, len(result.Unplaced))
			}
			return nil
		},
	}

	in.register(c)
	fs := c.Flags()
	fs.StringVar(&out.format, "format", "text", "Output format: text|json")
	fs.StringVar(&out.pdf, "pdf", "", "Write a PDF layout, one page per board")
	fs.StringVar(&out.labels, "labels", "", "Write a PDF of QR-coded part labels")
	fs.StringVar(&out.dxf, "dxf", "", "Write a DXF drawing of the layout")
	fs.StringVar(&out.xlsx, "xlsx", "", "Write an Excel report")
	fs.StringVar(&out.chart, "chart", "", "Write an HTML coverage chart")
	fs.StringVar(&out.saveJob, "save-job", "", "Save the assembled job (.json, .yaml) before packing")
	fs.BoolVar(&out.strict, "strict", false, "Exit with code 2 when any part is left unplaced")
	fs.BoolVar(&out.offcuts, "keep-offcuts", false, "Save reusable offcuts to the inventory as board presets")
	return c
}

func printResult(w io.Writer, result *model.Result, format string) error {
	switch format {
	case "json":
		return export.WriteJSON(w, result)
	case "text", "":
		return export.WriteSummary(w, result)
	default:
		return fmt.Errorf("unsupported format %q (expected text|json)", format)
	}
}

// writeExports writes every requested file. Relative paths are resolved
// against dir.
func writeExports(result *model.Result, settings model.CutSettings, out packOutputs, dir string) error {
	exports := []struct {
		path  string
		write func(string) error
	}{
		{out.pdf, func(p string) error { return export.ExportPDF(p, result, settings) }},
		{out.labels, func(p string) error { return export.ExportLabels(p, result) }},
		{out.dxf, func(p string) error { return export.ExportDXF(p, result) }},
		{out.xlsx, func(p string) error { return export.ExportExcel(p, result) }},
		{out.chart, func(p string) error { return export.ExportChart(p, result) }},
	}

	for _, e := range exports {
		if e.path == "" {
			continue
		}
		path := outputPath(dir, e.path)
		if err := e.write(path); err != nil {
			return fmt.Errorf("failed to export %s: %w", path, err)
		}
		logger.L().Info("export written", "path", path)
	}
	return nil
}

func outputPath(dir, path string) string {
	if dir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}
