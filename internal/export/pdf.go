// Package export renders packing results: PDF layouts, part labels, DXF
// drawings, Excel reports, HTML charts and plain-text summaries.
package export

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/BoardFit/internal/model"
)

// ErrNothingToExport is returned when a result has no committed boards.
var ErrNothingToExport = errors.New("no boards to export")

// partColor represents an RGB color for a placed part.
type partColor struct {
	R, G, B int
}

var partColors = []partColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	statsHeight  = 20.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// ExportPDF generates a PDF document with one page per committed board,
// the board length running left to right, followed by a summary page.
func ExportPDF(path string, result *model.Result, settings model.CutSettings) error {
	if result == nil || len(result.Boards) == 0 {
		return ErrNothingToExport
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	for i, board := range result.Boards {
		pdf.AddPage()
		renderBoardPage(pdf, board, i+1)
	}

	pdf.AddPage()
	renderSummaryPage(pdf, result, settings)

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	return nil
}

// renderBoardPage draws a single board on the current PDF page.
func renderBoardPage(pdf *fpdf.Fpdf, br model.BoardResult, boardNum int) {
	board := br.Board

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Board %d: %s (%.0f x %.0f mm)", boardNum, board.ID, board.Length, board.Width)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Parts: %d | Packed area: %.0f mm² | Board area: %.0f mm² | Coverage: %.1f%%",
		len(br.Placements), br.PackedArea(), board.Area(), br.Coverage()*100)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - statsHeight

	scale := math.Min(drawWidth/board.Length, drawHeight/board.Width)
	canvasW := board.Length * scale
	canvasH := board.Width * scale

	// Center the drawing horizontally
	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	// Board background (wood color)
	pdf.SetFillColor(210, 180, 140)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	for i, p := range br.Placements {
		col := partColors[i%len(partColors)]
		pw := p.Part.Length * scale
		ph := p.Part.Width * scale
		px := offsetX + p.OffsetLength*scale
		py := offsetY + p.OffsetWidth*scale

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.3)
		pdf.Rect(px, py, pw, ph, "FD")

		// Part label (only if rectangle is large enough)
		if pw > 15 && ph > 8 {
			pdf.SetFont("Helvetica", "", labelFontSize(pw, ph))
			pdf.SetTextColor(0, 0, 0)

			label := p.Part.ID
			dims := fmt.Sprintf("%.0fx%.0f", p.Part.Length, p.Part.Width)
			labelW := pdf.GetStringWidth(label)
			dimsW := pdf.GetStringWidth(dims)

			if labelW < pw-2 {
				pdf.SetXY(px+(pw-labelW)/2, py+ph/2-4)
				pdf.CellFormat(labelW, 4, label, "", 0, "C", false, 0, "")
			}
			if ph > 14 && dimsW < pw-2 {
				pdf.SetXY(px+(pw-dimsW)/2, py+ph/2)
				pdf.CellFormat(dimsW, 4, dims, "", 0, "C", false, 0, "")
			}
		}
	}

	drawDimensionAnnotations(pdf, board, offsetX, offsetY, canvasW, canvasH)
	drawPartsLegend(pdf, br, offsetY+canvasH+5)
}

// drawDimensionAnnotations adds length and width labels outside the board rectangle.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, board model.StockBoard, offsetX, offsetY, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	lengthLabel := fmt.Sprintf("%.0f mm", board.Length)
	lLabelW := pdf.GetStringWidth(lengthLabel)
	pdf.SetXY(offsetX+(canvasW-lLabelW)/2, offsetY+canvasH+1)
	pdf.CellFormat(lLabelW, 4, lengthLabel, "", 0, "C", false, 0, "")

	// Width annotation to the left of the board, rotated
	widthLabel := fmt.Sprintf("%.0f mm", board.Width)
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasH/2)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(offsetX-3-wLabelW/2, offsetY+canvasH/2-2)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

// drawPartsLegend renders a compact legend of placed parts at the bottom of the page.
func drawPartsLegend(pdf *fpdf.Fpdf, br model.BoardResult, startY float64) {
	if len(br.Placements) == 0 {
		return
	}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, startY)
	pdf.CellFormat(30, 4, "Parts placed:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	xPos := marginLeft + 32
	maxX := pageWidth - marginRight

	for i, p := range br.Placements {
		col := partColors[i%len(partColors)]
		label := fmt.Sprintf("%s (%.0fx%.0f @ %.0f,%.0f)", p.Part.ID, p.Part.Length, p.Part.Width, p.OffsetLength, p.OffsetWidth)
		labelW := pdf.GetStringWidth(label) + 6

		if xPos+labelW > maxX {
			startY += 5
			xPos = marginLeft
		}

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Rect(xPos, startY+0.5, 3, 3, "F")

		pdf.SetXY(xPos+4, startY)
		pdf.CellFormat(labelW-4, 4, label, "", 0, "L", false, 0, "")

		xPos += labelW + 2
	}
}

// renderSummaryPage draws the final summary page with overall statistics.
func renderSummaryPage(pdf *fpdf.Fpdf, result *model.Result, settings model.CutSettings) {
	stats := result.Stats()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Cutting Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Overall Statistics", "", 0, "L", false, 0, "")
	y += 9

	y = drawKeyValues(pdf, y, 10, []keyValue{
		{"Strategy", string(result.Strategy)},
		{"Boards Used", fmt.Sprintf("%d of %d", stats.BoardsUsed, stats.BoardsTotal)},
		{"Parts Placed", fmt.Sprintf("%d of %d", stats.PartsPlaced, stats.PartsTotal)},
		{"Coverage", fmt.Sprintf("%.1f%%", stats.Coverage*100)},
		{"Waste", fmt.Sprintf("%.3f m² (%.1f%%)", squareMetres(stats.WasteArea), stats.WasteRatio*100)},
	})

	y += 5

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Board Breakdown", "", 0, "L", false, 0, "")
	y += 9

	colWidths := []float64{20, 60, 50, 40, 35, 60}
	headers := []string{"Board", "ID", "Dimensions", "Parts", "Coverage", "Packed / Board Area"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += 6

	pdf.SetFont("Helvetica", "", 9)
	for i, br := range result.Boards {
		xPos = marginLeft
		rowData := []string{
			fmt.Sprintf("%d", i+1),
			br.Board.ID,
			fmt.Sprintf("%.0f x %.0f mm", br.Board.Length, br.Board.Width),
			fmt.Sprintf("%d", len(br.Placements)),
			fmt.Sprintf("%.1f%%", br.Coverage()*100),
			fmt.Sprintf("%.0f / %.0f mm²", br.PackedArea(), br.Board.Area()),
		}

		// Alternate row background
		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}

		for j, cell := range rowData {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += 6
	}

	if len(result.Unplaced) > 0 {
		y += 8
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(200, 0, 0)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(200, 7, "WARNING: Unplaced Parts", "", 0, "L", false, 0, "")
		y += 8

		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(0, 0, 0)

		for _, part := range result.Unplaced {
			if y > pageHeight-marginBottom-10 {
				pdf.SetXY(marginLeft+5, y)
				pdf.CellFormat(200, 5, "...", "", 0, "L", false, 0, "")
				y += 5
				break
			}
			pdf.SetXY(marginLeft+5, y)
			text := fmt.Sprintf("- %s: %.0f x %.0f mm", part.ID, part.Length, part.Width)
			pdf.CellFormat(200, 5, text, "", 0, "L", false, 0, "")
			y += 5
		}
	}

	y += 8
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Cut Settings", "", 0, "L", false, 0, "")
	y += 9

	drawKeyValues(pdf, y, 9, []keyValue{
		{"Kerf Width", fmt.Sprintf("%.1f mm", settings.KerfWidth)},
		{"Padding (length)", fmt.Sprintf("%.1f mm", settings.PaddingLength)},
		{"Padding (width)", fmt.Sprintf("%.1f mm", settings.PaddingWidth)},
	})

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by BoardFit - guillotine cut planner", "", 0, "C", false, 0, "")
}

type keyValue struct {
	label string
	value string
}

// drawKeyValues writes label: value lines and returns the next free y.
func drawKeyValues(pdf *fpdf.Fpdf, y, fontSize float64, items []keyValue) float64 {
	for _, item := range items {
		pdf.SetFont("Helvetica", "", fontSize)
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", fontSize)
		pdf.CellFormat(60, 6, item.value, "", 0, "L", false, 0, "")
		y += 7
	}
	return y
}

// labelFontSize returns an appropriate font size based on the rectangle dimensions.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 40:
		return 8
	case minDim > 20:
		return 7
	default:
		return 6
	}
}

// squareMetres converts mm² to m².
func squareMetres(mm2 float64) float64 {
	return mm2 / 1e6
}
