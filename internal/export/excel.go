package export

import (
	"fmt"

	"github.com/piwi3910/BoardFit/internal/model"
	"github.com/xuri/excelize/v2"
)

// Sheet names of the Excel report.
const (
	SheetPlacements = "Placements"
	SheetBoards     = "Boards"
	SheetOffcuts    = "Offcuts"
	SheetSummary    = "Summary"
)

// ExportExcel writes an Excel workbook with one row per placement, one row
// per committed board, the reusable offcuts and a summary sheet with the
// aggregate statistics and unplaced parts.
func ExportExcel(path string, result *model.Result) error {
	if result == nil {
		return ErrNothingToExport
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetPlacements); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	for _, name := range []string{SheetBoards, SheetOffcuts, SheetSummary} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
	}

	if err := writePlacementsSheet(f, result); err != nil {
		return err
	}
	if err := writeBoardsSheet(f, result); err != nil {
		return err
	}
	if err := writeOffcutsSheet(f, result); err != nil {
		return err
	}
	if err := writeSummarySheet(f, result); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writePlacementsSheet(f *excelize.File, result *model.Result) error {
	rows := [][]interface{}{
		{"Board", "Part", "Length", "Width", "Offset Length", "Offset Width"},
	}
	for _, br := range result.Boards {
		for _, p := range br.Placements {
			rows = append(rows, []interface{}{
				br.Board.ID, p.Part.ID, p.Part.Length, p.Part.Width, p.OffsetLength, p.OffsetWidth,
			})
		}
	}
	return writeRows(f, SheetPlacements, rows)
}

func writeBoardsSheet(f *excelize.File, result *model.Result) error {
	rows := [][]interface{}{
		{"Board", "Length", "Width", "Parts", "Packed Area", "Coverage %"},
	}
	for _, br := range result.Boards {
		rows = append(rows, []interface{}{
			br.Board.ID, br.Board.Length, br.Board.Width, len(br.Placements),
			br.PackedArea(), percent(br.Coverage()),
		})
	}
	return writeRows(f, SheetBoards, rows)
}

func writeOffcutsSheet(f *excelize.File, result *model.Result) error {
	rows := [][]interface{}{
		{"Board", "Length", "Width", "Offset Length", "Offset Width"},
	}
	for _, o := range result.Offcuts() {
		rows = append(rows, []interface{}{o.BoardID, o.Length, o.Width, o.OffsetLength, o.OffsetWidth})
	}
	return writeRows(f, SheetOffcuts, rows)
}

func writeSummarySheet(f *excelize.File, result *model.Result) error {
	s := result.Stats()
	rows := [][]interface{}{
		{"Strategy", string(result.Strategy)},
		{"Boards Offered", s.BoardsTotal},
		{"Boards Used", s.BoardsUsed},
		{"Parts Offered", s.PartsTotal},
		{"Parts Placed", s.PartsPlaced},
		{"Placed Area (m²)", squareMetres(s.PlacedArea)},
		{"Waste Area (m²)", squareMetres(s.WasteArea)},
		{"Waste %", percent(s.WasteRatio)},
		{"Coverage %", percent(s.Coverage)},
		{},
		{"Unplaced Part", "Length", "Width"},
	}
	for _, p := range result.Unplaced {
		rows = append(rows, []interface{}{p.ID, p.Length, p.Width})
	}
	return writeRows(f, SheetSummary, rows)
}

// writeRows fills a sheet from A1 down, one slice per row.
func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

// percent rounds a ratio to a percentage with one decimal.
func percent(ratio float64) float64 {
	return float64(int64(ratio*1000+0.5)) / 10
}
