package export

import (
	"fmt"
	"io"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/piwi3910/BoardFit/internal/model"
)

// RenderChart writes an HTML page with a bar chart of the coverage and waste
// of each committed board.
func RenderChart(w io.Writer, result *model.Result) error {
	if result == nil || len(result.Boards) == 0 {
		return ErrNothingToExport
	}

	stats := result.Stats()

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Board coverage",
			Subtitle: fmt.Sprintf("%s: %d of %d parts on %d boards, %.1f%% coverage", result.Strategy, stats.PartsPlaced, stats.PartsTotal, stats.BoardsUsed, stats.Coverage*100),
		}),
		charts.WithYAxisOpts(opts.YAxis{Name: "%"}),
	)

	names := make([]string, 0, len(result.Boards))
	coverage := make([]opts.BarData, 0, len(result.Boards))
	waste := make([]opts.BarData, 0, len(result.Boards))
	for i, br := range result.Boards {
		names = append(names, fmt.Sprintf("%d: %s", i+1, br.Board.ID))
		coverage = append(coverage, opts.BarData{Value: percent(br.Coverage())})
		waste = append(waste, opts.BarData{Value: percent(1 - br.Coverage())})
	}

	bar.SetXAxis(names).
		AddSeries("Coverage", coverage).
		AddSeries("Waste", waste)

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

// ExportChart writes the coverage chart to an HTML file.
func ExportChart(path string, result *model.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	if err := RenderChart(f, result); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
