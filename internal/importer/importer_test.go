package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"github.com/yofu/dxf/entity"
)

// ─── DetectCSVDelimiter Tests ──────────────────────────────

func TestDetectCSVDelimiter_Comma(t *testing.T) {
	data := []byte("Type,ID,Length,Width\npart,Shelf,600,300\nboard,Sheet,2440,1220\n")
	got := DetectCSVDelimiter(data)
	if got != ',' {
		t.Errorf("expected comma delimiter, got %q", got)
	}
}

func TestDetectCSVDelimiter_Semicolon(t *testing.T) {
	data := []byte("Type;ID;Length;Width\npart;Shelf;600;300\nboard;Sheet;2440;1220\n")
	got := DetectCSVDelimiter(data)
	if got != ';' {
		t.Errorf("expected semicolon delimiter, got %q", got)
	}
}

func TestDetectCSVDelimiter_Tab(t *testing.T) {
	data := []byte("Type\tID\tLength\tWidth\npart\tShelf\t600\t300\n")
	got := DetectCSVDelimiter(data)
	if got != '\t' {
		t.Errorf("expected tab delimiter, got %q", got)
	}
}

func TestDetectCSVDelimiter_Pipe(t *testing.T) {
	data := []byte("Type|ID|Length|Width\npart|Shelf|600|300\n")
	got := DetectCSVDelimiter(data)
	if got != '|' {
		t.Errorf("expected pipe delimiter, got %q", got)
	}
}

// ─── DetectColumns Tests ───────────────────────────────────

func TestDetectColumns_StandardHeaders(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"Type", "ID", "Length", "Width", "Quantity"})

	assert.True(t, isHeader)
	assert.Equal(t, ColumnMapping{Type: 0, ID: 1, Length: 2, Width: 3, Quantity: 4}, mapping)
}

func TestDetectColumns_AlternativeNamesAndOrder(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"W", " QTY ", "Name", "Len"})

	assert.True(t, isHeader)
	assert.Equal(t, ColumnMapping{Type: -1, ID: 2, Length: 3, Width: 0, Quantity: 1}, mapping)
}

func TestDetectColumns_NoHeader(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"part", "Shelf", "600", "300"})

	assert.False(t, isHeader)
	assert.Equal(t, ColumnMapping{Type: 0, ID: 1, Length: 2, Width: 3, Quantity: 4}, mapping)
}

// ─── CSV Import Tests ──────────────────────────────────────

func TestImportCSVFromReader_PartsAndBoards(t *testing.T) {
	data := "# kitchen cabinet\nType,ID,Length,Width,Quantity\nboard,Sheet,2440,1220,1\npart,Shelf,600,300,2\nPART,Door,400,800\n"

	result := ImportCSVFromReader(strings.NewReader(data), ',')

	require.True(t, result.OK(), "unexpected errors: %v", result.Errors)
	require.Len(t, result.Boards, 1)
	assert.Equal(t, "Sheet", result.Boards[0].ID)
	assert.Equal(t, 2440.0, result.Boards[0].Length)
	assert.Equal(t, 1220.0, result.Boards[0].Width)

	require.Len(t, result.Parts, 3)
	assert.Equal(t, "Shelf", result.Parts[0].ID)
	assert.Equal(t, "Shelf-2", result.Parts[1].ID)
	assert.Equal(t, "Door", result.Parts[2].ID)
	assert.Equal(t, 400.0, result.Parts[2].Length)
	assert.Equal(t, 800.0, result.Parts[2].Width)
}

func TestImportCSVFromReader_WithoutHeaders(t *testing.T) {
	data := "board,B1,1000,500\npart,P1,400,300\npart,P2,600,200\n"

	result := ImportCSVFromReader(strings.NewReader(data), ',')

	require.True(t, result.OK(), "unexpected errors: %v", result.Errors)
	require.Len(t, result.Boards, 1)
	require.Len(t, result.Parts, 2)
	assert.Equal(t, "P2", result.Parts[1].ID)
	assert.Equal(t, 200.0, result.Parts[1].Width)
}

func TestImportCSVFromReader_UnknownTypeIsPart(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("shelf,S1,100,50\n"), ',')

	require.Len(t, result.Parts, 1)
	assert.Empty(t, result.Boards)
}

func TestImportCSVFromReader_GeneratesMissingIDs(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("Length,Width,Qty\n100,50,2\n"), ',')

	require.Len(t, result.Parts, 2)
	assert.Len(t, result.Parts[0].ID, 8)
	assert.Equal(t, result.Parts[0].ID+"-2", result.Parts[1].ID)
}

func TestImportCSVFromReader_MillimetreSuffix(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("part,P,600mm,300 mm\n"), ',')

	require.Len(t, result.Parts, 1)
	assert.Equal(t, 600.0, result.Parts[0].Length)
	assert.Equal(t, 300.0, result.Parts[0].Width)
}

func TestImportCSVFromReader_ErrorsCarrySourceLine(t *testing.T) {
	data := "# header follows\nType,ID,Length,Width\n\npart,A,abc,10\npart,B,10,-5\npart,D,10,10\n"

	result := ImportCSVFromReader(strings.NewReader(data), ',')

	assert.Equal(t, []string{
		"Line 4: Invalid length 'abc'",
		"Line 5: Length, width, and quantity must be positive",
	}, result.Errors)
	require.Len(t, result.Parts, 1)
	assert.Equal(t, "D", result.Parts[0].ID)
}

func TestImportCSVFromReader_InvalidQuantity(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("Type,ID,Length,Width,Qty\npart,A,10,10,many\n"), ',')

	require.Len(t, result.Errors, 1)
	assert.Equal(t, "Line 2: Invalid quantity 'many'", result.Errors[0])
}

func TestImportCSVFromReader_QuantityOverMaximum(t *testing.T) {
	data := "Type,ID,Length,Width,Qty\npart,A,10,10,100000000\npart,B,10,10,10000\n"

	result := ImportCSVFromReader(strings.NewReader(data), ',')

	assert.Equal(t, []string{"Line 2: Quantity 100000000 exceeds the maximum of 10000"}, result.Errors)
	assert.Len(t, result.Parts, MaxQuantity)
	assert.Equal(t, "B", result.Parts[0].ID)
}

func TestImportCSVFromReader_NotANumber(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("part,A,10,10\npart,B,NaN,10\n"), ',')

	assert.Equal(t, []string{"Line 2: Invalid length 'NaN'"}, result.Errors)
	assert.Len(t, result.Parts, 1)
}

func TestImportCSVFromReader_MissingRequiredColumnInHeader(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("Type,ID,Length\npart,A,10\n"), ',')

	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Width")
}

func TestImportCSVFromReader_OnlyComments(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("# nothing here\n"), ',')

	assert.Equal(t, []string{"No data rows found"}, result.Errors)
}

func TestImportCSVFromReader_EmptyFile(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader(""), ',')

	assert.Equal(t, []string{"File is empty"}, result.Errors)
}

func TestImportCSV_SemicolonFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "parts.csv")
	require.NoError(t, os.WriteFile(path, []byte("Type;ID;Length;Width\nboard;B;1000;500\npart;P;400;300\n"), 0644))

	result := Import(path)

	require.True(t, result.OK(), "unexpected errors: %v", result.Errors)
	assert.Contains(t, result.Warnings, "Detected semicolon delimiter")
	assert.Len(t, result.Boards, 1)
	assert.Len(t, result.Parts, 1)
}

func TestImportCSV_FileNotFound(t *testing.T) {
	result := ImportCSV(filepath.Join(t.TempDir(), "missing.csv"))

	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Cannot open file")
}

func TestImportCSV_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, os.WriteFile(path, []byte("  \n"), 0644))

	result := ImportCSV(path)

	assert.Equal(t, []string{"File is empty"}, result.Errors)
}

func TestImportResult_Merge(t *testing.T) {
	a := ImportCSVFromReader(strings.NewReader("board,B,100,100\n"), ',')
	b := ImportCSVFromReader(strings.NewReader("part,P,10,10\npart,Q,x,10\n"), ',')

	a.Merge(b)

	assert.Len(t, a.Boards, 1)
	assert.Len(t, a.Parts, 1)
	assert.Len(t, a.Errors, 1)
	assert.False(t, a.OK())
}

// ─── CutList Plus Tests ────────────────────────────────────

const cutListPlusExport = `Part #,Sub-Assembly,Description,Copies,Thickness (T),Width (W),Length (L),Material Type,Material Name,Can Rotate
1,Carcass,Side,2,18 mm,300 mm,720 mm,Sheet Good,Plywood,No
2,Carcass,Shelf,1,18 mm,280 mm,564 mm,Sheet Good,Plywood,No
3,,Sheet,1,18 mm,1220 mm,2440 mm,Sheet Good,Stock,No
`

func TestImportCutListPlus_PartsAndStock(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader(cutListPlusExport), ',')

	require.True(t, result.OK(), "unexpected errors: %v", result.Errors)
	assert.Contains(t, result.Warnings, "Detected CutList Plus export")

	require.Len(t, result.Parts, 3)
	assert.Equal(t, "Side", result.Parts[0].ID)
	assert.Equal(t, 720.0, result.Parts[0].Length)
	assert.Equal(t, 300.0, result.Parts[0].Width)
	assert.Equal(t, "Side-2", result.Parts[1].ID)
	assert.Equal(t, "Shelf", result.Parts[2].ID)

	require.Len(t, result.Boards, 1)
	assert.Equal(t, "Sheet", result.Boards[0].ID)
	assert.Equal(t, 2440.0, result.Boards[0].Length)
	assert.Equal(t, 1220.0, result.Boards[0].Width)
}

func TestImportCutListPlus_FallsBackToPartNumber(t *testing.T) {
	data := "Part #,Description,Copies,Width (W),Length (L),Material Name\n7,,1,100 mm,200 mm,Plywood\n"

	result := ImportCSVFromReader(strings.NewReader(data), ',')

	require.Len(t, result.Parts, 1)
	assert.Equal(t, "7", result.Parts[0].ID)
	assert.Equal(t, 200.0, result.Parts[0].Length)
}

func TestImportCutListPlus_BadRow(t *testing.T) {
	data := "Part #,Description,Copies,Width (W),Length (L),Material Name\n1,Top,1,wide,200 mm,Plywood\n"

	result := ImportCSVFromReader(strings.NewReader(data), ',')

	assert.Equal(t, []string{"Line 2: Invalid width 'wide'"}, result.Errors)
}

func TestImportCutListPlus_CopiesOverMaximum(t *testing.T) {
	data := "Part #,Description,Copies,Width (W),Length (L),Material Name\n1,Top,20000,100 mm,200 mm,Plywood\n"

	result := ImportCSVFromReader(strings.NewReader(data), ',')

	assert.Equal(t, []string{"Line 2: Copies 20000 exceeds the maximum of 10000"}, result.Errors)
	assert.Empty(t, result.Parts)
}

func TestImportCutListPlus_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cutlist.csv")
	require.NoError(t, os.WriteFile(path, []byte(cutListPlusExport), 0644))

	result := Import(path)

	require.True(t, result.OK(), "unexpected errors: %v", result.Errors)
	assert.Len(t, result.Parts, 3)
	assert.Len(t, result.Boards, 1)
}

// ─── Excel Import Tests ────────────────────────────────────

func createTestExcel(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "parts.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for i, row := range rows {
		for j, cell := range row {
			cellRef, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("failed to create cell reference: %v", err)
			}
			if err := f.SetCellValue(sheet, cellRef, cell); err != nil {
				t.Fatalf("failed to set cell value: %v", err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save Excel file: %v", err)
	}
	return path
}

func TestImportExcel_WithHeaders(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"Type", "ID", "Length", "Width", "Quantity"},
		{"board", "Sheet", 2440, 1220, 1},
		{"part", "Shelf", 600, 300, 2},
	})

	result := Import(path)

	require.True(t, result.OK(), "unexpected errors: %v", result.Errors)
	require.Len(t, result.Boards, 1)
	assert.Equal(t, 2440.0, result.Boards[0].Length)
	require.Len(t, result.Parts, 2)
	assert.Equal(t, "Shelf-2", result.Parts[1].ID)
}

func TestImportExcel_WithoutHeaders(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"part", "Shelf", 600, 300},
		{"part", "Door", 400, 800},
	})

	result := ImportExcel(path)

	if len(result.Parts) != 2 {
		t.Fatalf("expected 2 parts, got %d (errors: %v)", len(result.Parts), result.Errors)
	}
}

func TestImportExcel_InvalidData(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"Type", "ID", "Length", "Width"},
		{"part", "Shelf", "abc", 300},
	})

	result := ImportExcel(path)

	assert.Equal(t, []string{"Row 2: Invalid length 'abc'"}, result.Errors)
}

func TestImportExcel_FileNotFound(t *testing.T) {
	result := ImportExcel(filepath.Join(t.TempDir(), "missing.xlsx"))

	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Cannot open Excel file")
}

// ─── DXF Tests ─────────────────────────────────────────────

func rectSegments(x, y, l, w float64) []segment {
	return []segment{
		{start: point{x, y}, end: point{x + l, y}},
		{start: point{x + l, y}, end: point{x + l, y + w}},
		{start: point{x, y + w}, end: point{x + l, y + w}}, // reversed direction
		{start: point{x, y + w}, end: point{x, y}},
	}
}

func TestChainSegments_SeparatesTouchingRectangles(t *testing.T) {
	segs := append(rectSegments(0, 0, 1000, 500), rectSegments(0, 0, 200, 100)...)

	outlines := chainSegments(segs, dxfTolerance)

	require.Len(t, outlines, 2)
	lo, hi := boundingBox(outlines[0])
	assert.Equal(t, point{0, 0}, lo)
	assert.Equal(t, point{1000, 500}, hi)
	lo, hi = boundingBox(outlines[1])
	assert.Equal(t, point{200, 100}, point{hi.x - lo.x, hi.y - lo.y})
}

func TestChainSegments_DropsOpenChains(t *testing.T) {
	segs := rectSegments(0, 0, 10, 10)[:3]

	assert.Empty(t, chainSegments(segs, dxfTolerance))
}

func TestIsRectangle(t *testing.T) {
	assert.True(t, isRectangle([]point{{0, 0}, {10, 0}, {10, 5}, {0, 5}}))
	assert.True(t, isRectangle([]point{{0, 0}, {5, 0}, {10, 0}, {10, 5}, {0, 5}}), "collinear vertex")
	assert.False(t, isRectangle([]point{{0, 0}, {10, 0}, {10, 5}, {5, 5}, {5, 10}, {0, 10}}), "L shape")
	assert.False(t, isRectangle([]point{{0, 0}, {10, 0}, {0, 5}}), "triangle")
}

func TestLwPolylineToOutline(t *testing.T) {
	lw := &entity.LwPolyline{
		Vertices: [][]float64{{0, 0}, {300, 0}, {300, 200}, {0, 200}, {0, 0}},
		Bulges:   []float64{0, 0, 0, 0, 0},
	}

	outline, ok := lwPolylineToOutline(lw)

	require.True(t, ok)
	assert.Equal(t, []point{{0, 0}, {300, 0}, {300, 200}, {0, 200}}, outline)

	lw.Bulges[1] = 0.5
	_, ok = lwPolylineToOutline(lw)
	assert.False(t, ok)
}

func TestImportDXF_FileNotFound(t *testing.T) {
	result := ImportDXF(filepath.Join(t.TempDir(), "missing.dxf"))

	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Cannot open DXF file")
}
