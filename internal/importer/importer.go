// Package importer reads parts and stock boards from CSV, Excel, CutList Plus
// and DXF files. It supports automatic delimiter detection, flexible column
// mapping, and case-insensitive header recognition.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/piwi3910/BoardFit/internal/model"
	"github.com/xuri/excelize/v2"
)

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Parts    []model.Part
	Boards   []model.StockBoard
	Errors   []string
	Warnings []string
}

// OK reports whether the import produced no errors.
func (r ImportResult) OK() bool {
	return len(r.Errors) == 0
}

// Merge appends the items and messages of other to r.
func (r *ImportResult) Merge(other ImportResult) {
	r.Parts = append(r.Parts, other.Parts...)
	r.Boards = append(r.Boards, other.Boards...)
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
}

// ColumnMapping maps semantic column roles to their indices in the data.
type ColumnMapping struct {
	Type     int
	ID       int
	Length   int
	Width    int
	Quantity int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"type":     {"type", "kind", "item type", "record"},
	"id":       {"id", "label", "name", "part name", "part id", "description", "desc"},
	"length":   {"length", "len", "l", "x"},
	"width":    {"width", "w", "y"},
	"quantity": {"quantity", "qty", "count", "num", "amount", "pcs", "pieces", "copies"},
}

// Import reads a file by its extension. CSV files exported by CutList Plus
// are recognized by their header.
func Import(path string) ImportResult {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm", ".xls":
		return ImportExcel(path)
	case ".dxf":
		return ImportDXF(path)
	default:
		return ImportCSV(path)
	}
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := newCSVReader(bytes.NewReader(data), delim)

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		// Only consider delimiters that produce more than 1 column
		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		// Prefer delimiters with higher consistency and more columns
		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// readCSV reads every record and the file line it starts on. Blank lines
// are skipped by the reader, so line numbers are taken from it.
func readCSV(r io.Reader, delimiter rune) ([][]string, []int, error) {
	reader := newCSVReader(r, delimiter)
	var records [][]string
	var lines []int
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			return records, lines, nil
		}
		if err != nil {
			return nil, nil, err
		}
		line, _ := reader.FieldPos(0)
		records = append(records, rec)
		lines = append(lines, line)
	}
}

func newCSVReader(r io.Reader, delimiter rune) *csv.Reader {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1 // Allow variable field counts
	return reader
}

// DetectColumns examines a header row and returns a ColumnMapping.
// It performs case-insensitive matching against known aliases for each column role.
// A row holding any number is data, never a header.
// Returns the mapping and true if a header was detected, or the positional
// mapping Type, ID, Length, Width, Quantity and false if no header was found.
func DetectColumns(row []string) (ColumnMapping, bool) {
	positional := ColumnMapping{Type: 0, ID: 1, Length: 2, Width: 3, Quantity: 4}
	for _, cell := range row {
		if _, err := parseDimension(cell); err == nil {
			return positional, false
		}
	}

	mapping := ColumnMapping{Type: -1, ID: -1, Length: -1, Width: -1, Quantity: -1}
	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized != alias {
					continue
				}
				isHeader = true
				var slot *int
				switch role {
				case "type":
					slot = &mapping.Type
				case "id":
					slot = &mapping.ID
				case "length":
					slot = &mapping.Length
				case "width":
					slot = &mapping.Width
				case "quantity":
					slot = &mapping.Quantity
				}
				if *slot == -1 {
					*slot = i
				}
			}
		}
	}

	if !isHeader {
		return positional, false
	}
	return mapping, true
}

// getCell safely retrieves a cell value from a row by column index.
// Returns empty string if the index is out of range or negative.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseDimension reads a size in mm. A trailing "mm" is accepted.
func parseDimension(s string) (float64, error) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(strings.ToLower(s)), "mm"))
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is not a finite number", s)
	}
	return v, nil
}

// MaxQuantity is the largest quantity one row may ask for.
const MaxQuantity = 10000

// record is one parsed row before quantity expansion.
type record struct {
	board    bool
	id       string
	length   float64
	width    float64
	quantity int
}

// expand appends the record to result, quantity times. Copies after the
// first get "-2", "-3", ... appended to the ID.
func (rec record) expand(result *ImportResult) {
	id := rec.id
	if id == "" {
		if rec.board {
			id = model.NewStockBoard("", 0, 0).ID
		} else {
			id = model.NewPart("", 0, 0).ID
		}
	}
	for n := 1; n <= rec.quantity; n++ {
		copyID := id
		if n > 1 {
			copyID = fmt.Sprintf("%s-%d", id, n)
		}
		if rec.board {
			result.Boards = append(result.Boards, model.NewStockBoard(copyID, rec.length, rec.width))
		} else {
			result.Parts = append(result.Parts, model.NewPart(copyID, rec.length, rec.width))
		}
	}
}

// parseRow extracts a record from a row using the given column mapping.
// Returns the record and an error message if the row is unusable.
func parseRow(row []string, mapping ColumnMapping, rowLabel string) (record, string) {
	rec := record{
		board:    strings.EqualFold(getCell(row, mapping.Type), "board"),
		id:       getCell(row, mapping.ID),
		quantity: 1,
	}

	lengthStr := getCell(row, mapping.Length)
	if lengthStr == "" {
		return record{}, fmt.Sprintf("%s: Missing length value", rowLabel)
	}
	length, err := parseDimension(lengthStr)
	if err != nil {
		return record{}, fmt.Sprintf("%s: Invalid length '%s'", rowLabel, lengthStr)
	}

	widthStr := getCell(row, mapping.Width)
	if widthStr == "" {
		return record{}, fmt.Sprintf("%s: Missing width value", rowLabel)
	}
	width, err := parseDimension(widthStr)
	if err != nil {
		return record{}, fmt.Sprintf("%s: Invalid width '%s'", rowLabel, widthStr)
	}

	if qtyStr := getCell(row, mapping.Quantity); qtyStr != "" {
		qty, err := strconv.Atoi(qtyStr)
		if err != nil {
			return record{}, fmt.Sprintf("%s: Invalid quantity '%s'", rowLabel, qtyStr)
		}
		rec.quantity = qty
	}

	if length <= 0 || width <= 0 || rec.quantity <= 0 {
		return record{}, fmt.Sprintf("%s: Length, width, and quantity must be positive", rowLabel)
	}
	if rec.quantity > MaxQuantity {
		return record{}, fmt.Sprintf("%s: Quantity %d exceeds the maximum of %d", rowLabel, rec.quantity, MaxQuantity)
	}

	rec.length, rec.width = length, width
	return rec, ""
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// isCommentRow returns true for rows whose first non-empty cell starts with '#'.
func isCommentRow(row []string) bool {
	for _, cell := range row {
		if c := strings.TrimSpace(cell); c != "" {
			return strings.HasPrefix(c, "#")
		}
	}
	return false
}

// ImportCSV imports parts and boards from a CSV file.
// It automatically detects the delimiter and maps columns by header names.
// Supports comma, semicolon, tab, and pipe delimiters.
func ImportCSV(path string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	var warnings []string
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		warnings = append(warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	records, lines, err := readCSV(bytes.NewReader(data), delimiter)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	if isCutListPlusHeader(records[0]) {
		return importCutListPlusRows(records, lines, "Line", warnings)
	}
	return importFromRows(records, lines, "Line", warnings)
}

// ImportCSVFromReader imports parts and boards from a CSV reader with a
// specific delimiter. This is useful for testing or when the delimiter is
// already known.
func ImportCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
	result := ImportResult{}

	records, lines, err := readCSV(reader, delimiter)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	if isCutListPlusHeader(records[0]) {
		return importCutListPlusRows(records, lines, "Line", nil)
	}
	return importFromRows(records, lines, "Line", nil)
}

// ImportExcel imports parts and boards from an Excel (.xlsx) file.
// Reads the first sheet and auto-detects column mapping from headers.
func ImportExcel(path string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "Sheet is empty")
		return result
	}

	if isCutListPlusHeader(rows[0]) {
		return importCutListPlusRows(rows, nil, "Row", nil)
	}
	return importFromRows(rows, nil, "Row", nil)
}

// rowNumber returns the 1-based source line of row i. Without recorded line
// numbers rows are numbered by position.
func rowNumber(lines []int, i int) int {
	if i < len(lines) {
		return lines[i]
	}
	return i + 1
}

// importFromRows is the shared import logic for both CSV and Excel data.
// It detects headers, maps columns, and parses each row into parts or boards.
func importFromRows(rows [][]string, lines []int, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{
		Warnings: initialWarnings,
	}

	// The header is the first row that is not blank or a comment
	first := 0
	for first < len(rows) && (isEmptyRow(rows[first]) || isCommentRow(rows[first])) {
		first++
	}
	if first == len(rows) {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[first])
	startRow := first
	if hasHeader {
		startRow = first + 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		missing := []string{}
		if mapping.Length == -1 {
			missing = append(missing, "Length")
		}
		if mapping.Width == -1 {
			missing = append(missing, "Width")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else if len(rows[first]) >= 4 {
		if _, err := parseDimension(rows[first][2]); err != nil {
			// Length column is not numeric: an unrecognized header.
			// Skip it but keep the positional mapping.
			startRow = first + 1
			result.Warnings = append(result.Warnings, "Detected header row, skipping")
		}
	}

	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) || isCommentRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, rowNumber(lines, i))
		rec, errMsg := parseRow(row, mapping, rowLabel)
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		rec.expand(&result)
	}

	return result
}
