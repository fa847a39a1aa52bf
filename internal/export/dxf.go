package export

import (
	"fmt"

	"github.com/piwi3910/BoardFit/internal/model"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"
)

// DXF layer names.
const (
	LayerBoards = "BOARDS"
	LayerParts  = "PARTS"
	LayerLabels = "LABELS"
)

// boardSpacing separates consecutive boards in the drawing, in mm.
const boardSpacing = 100.0

// ExportDXF writes a DXF drawing of the layout. Boards are laid out left to
// right with the length on the X axis. Board outlines and part outlines are
// drawn as LINE entities on their own layers, and each part gets its ID as
// TEXT on the labels layer.
func ExportDXF(path string, result *model.Result) error {
	if result == nil || len(result.Boards) == 0 {
		return ErrNothingToExport
	}

	d := dxf.NewDrawing()
	d.AddLayer(LayerBoards, color.White, dxf.DefaultLineType, false)
	d.AddLayer(LayerParts, color.Green, dxf.DefaultLineType, false)
	d.AddLayer(LayerLabels, color.Yellow, dxf.DefaultLineType, false)

	originX := 0.0
	for _, br := range result.Boards {
		d.ChangeLayer(LayerBoards)
		if err := drawRect(d, originX, 0, br.Board.Length, br.Board.Width); err != nil {
			return fmt.Errorf("failed to draw board %s: %w", br.Board.ID, err)
		}

		for _, p := range br.Placements {
			x := originX + p.OffsetLength
			y := p.OffsetWidth

			d.ChangeLayer(LayerParts)
			if err := drawRect(d, x, y, p.Part.Length, p.Part.Width); err != nil {
				return fmt.Errorf("failed to draw part %s: %w", p.Part.ID, err)
			}

			d.ChangeLayer(LayerLabels)
			height := textHeight(p.Part)
			if _, err := d.Text(p.Part.ID, x+height/2, y+height/2, 0, height); err != nil {
				return fmt.Errorf("failed to label part %s: %w", p.Part.ID, err)
			}
		}

		originX += br.Board.Length + boardSpacing
	}

	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("failed to write DXF: %w", err)
	}
	return nil
}

// drawRect draws an axis-aligned rectangle as four connected lines.
func drawRect(d *drawing.Drawing, x, y, w, h float64) error {
	corners := [][2]float64{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}}
	for i := range corners {
		a, b := corners[i], corners[(i+1)%len(corners)]
		if _, err := d.Line(a[0], a[1], 0, b[0], b[1], 0); err != nil {
			return err
		}
	}
	return nil
}

// textHeight scales the label to the part, capped so it stays readable.
func textHeight(p model.Part) float64 {
	h := min(p.Length, p.Width) / 5
	return min(max(h, 2), 25)
}
