package importer

import (
	"fmt"
	"strconv"
	"strings"
)

// cutListPlusMapping locates the columns of a CutList Plus parts export.
type cutListPlusMapping struct {
	PartNumber   int
	Description  int
	Copies       int
	Width        int
	Length       int
	MaterialName int
}

// defaultCutListPlusMapping is the column layout CutList Plus writes:
// Part #, Sub-Assembly, Description, Copies, Thickness, Width, Length,
// Material Type, Material Name, Can Rotate.
var defaultCutListPlusMapping = cutListPlusMapping{
	PartNumber:   0,
	Description:  2,
	Copies:       3,
	Width:        5,
	Length:       6,
	MaterialName: 8,
}

// stockMaterial marks rows that describe stock boards rather than parts.
const stockMaterial = "stock"

func normalizeHeader(cell string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(cell)), " ", "")
}

// isCutListPlusHeader reports whether row is the header of a CutList Plus export.
func isCutListPlusHeader(row []string) bool {
	var partNumber, materialName bool
	for _, cell := range row {
		switch normalizeHeader(cell) {
		case "part#":
			partNumber = true
		case "materialname":
			materialName = true
		}
	}
	return partNumber && materialName
}

// detectCutListPlusColumns maps a CutList Plus header row. Columns that are
// absent keep their default position.
func detectCutListPlusColumns(row []string) cutListPlusMapping {
	m := defaultCutListPlusMapping
	for i, cell := range row {
		switch normalizeHeader(cell) {
		case "part#":
			m.PartNumber = i
		case "description":
			m.Description = i
		case "copies":
			m.Copies = i
		case "width(w)", "width":
			m.Width = i
		case "length(l)", "length":
			m.Length = i
		case "materialname":
			m.MaterialName = i
		}
	}
	return m
}

// importCutListPlusRows parses a CutList Plus export. Rows whose material
// name is "Stock" become boards, every other row becomes Copies parts. The
// description is used as ID, falling back to the part number.
func importCutListPlusRows(rows [][]string, lines []int, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{
		Warnings: append(initialWarnings, "Detected CutList Plus export"),
	}

	mapping := defaultCutListPlusMapping
	startRow := 0
	if len(rows) > 0 && isCutListPlusHeader(rows[0]) {
		mapping = detectCutListPlusColumns(rows[0])
		startRow = 1
	}

	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) || isCommentRow(row) {
			continue
		}
		// Exports that span pages repeat the header
		if isCutListPlusHeader(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, rowNumber(lines, i))
		rec, errMsg := parseCutListPlusRow(row, mapping, rowLabel)
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		rec.expand(&result)
	}

	if len(result.Parts) == 0 && len(result.Boards) == 0 && len(result.Errors) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
	}
	return result
}

func parseCutListPlusRow(row []string, m cutListPlusMapping, rowLabel string) (record, string) {
	rec := record{
		board:    strings.EqualFold(getCell(row, m.MaterialName), stockMaterial),
		id:       getCell(row, m.Description),
		quantity: 1,
	}
	if rec.id == "" {
		rec.id = getCell(row, m.PartNumber)
	}

	lengthStr := getCell(row, m.Length)
	length, err := parseDimension(lengthStr)
	if err != nil {
		return record{}, fmt.Sprintf("%s: Invalid length '%s'", rowLabel, lengthStr)
	}
	widthStr := getCell(row, m.Width)
	width, err := parseDimension(widthStr)
	if err != nil {
		return record{}, fmt.Sprintf("%s: Invalid width '%s'", rowLabel, widthStr)
	}

	if copies := getCell(row, m.Copies); copies != "" {
		n, err := strconv.Atoi(copies)
		if err != nil {
			return record{}, fmt.Sprintf("%s: Invalid copies '%s'", rowLabel, copies)
		}
		rec.quantity = n
	}

	if length <= 0 || width <= 0 || rec.quantity <= 0 {
		return record{}, fmt.Sprintf("%s: Length, width, and copies must be positive", rowLabel)
	}
	if rec.quantity > MaxQuantity {
		return record{}, fmt.Sprintf("%s: Copies %d exceeds the maximum of %d", rowLabel, rec.quantity, MaxQuantity)
	}
	rec.length, rec.width = length, width
	return rec, ""
}
