package model

import (
	"sort"
)

// Offcut represents a usable rectangular remnant left on a board after
// cutting. Each offcut is a full-depth strip, so it comes off the board with
// one straight cut.
type Offcut struct {
	ID           string  `json:"id"`
	BoardID      string  `json:"board_id"`    // Which board it came from
	BoardIndex   int     `json:"board_index"` // Index of the source board in the result
	OffsetLength float64 `json:"offset_length"`
	OffsetWidth  float64 `json:"offset_width"`
	Length       float64 `json:"length"`
	Width        float64 `json:"width"`
}

// Area returns the area of the offcut in square mm.
func (o Offcut) Area() float64 {
	return o.Length * o.Width
}

// ToStockBoard converts an offcut into a stock board for reuse in later jobs.
func (o Offcut) ToStockBoard() StockBoard {
	return NewStockBoard(o.BoardID+"-offcut-"+o.ID, o.Length, o.Width)
}

// MinOffcutDimension is the minimum length or width (in mm) for a remnant
// to be considered a usable offcut. Remnants smaller than this are waste.
const MinOffcutDimension = 50.0

// MinOffcutArea is the minimum area (in sq mm) for a remnant to be considered usable.
const MinOffcutArea = 10000.0 // 100mm x 100mm equivalent

// DetectOffcuts finds the strips beyond the far length edge and beyond the
// far width edge of all parts on a board, one kerf away from them. A board
// without parts is a single offcut.
func DetectOffcuts(br BoardResult, boardIndex int, kerf float64) []Offcut {
	boardL := br.Board.Length
	boardW := br.Board.Width

	if len(br.Placements) == 0 {
		return []Offcut{{
			ID:         newID(),
			BoardID:    br.Board.ID,
			BoardIndex: boardIndex,
			Length:     boardL,
			Width:      boardW,
		}}
	}

	var maxEndL, maxEndW float64
	for _, p := range br.Placements {
		maxEndL = max(maxEndL, p.EndLength()+kerf)
		maxEndW = max(maxEndW, p.EndWidth()+kerf)
	}

	var offcuts []Offcut

	// Length strip: the full board width beyond every part
	stripL := boardL - maxEndL
	if usable(stripL, boardW) {
		offcuts = append(offcuts, Offcut{
			ID:           newID(),
			BoardID:      br.Board.ID,
			BoardIndex:   boardIndex,
			OffsetLength: maxEndL,
			Length:       stripL,
			Width:        boardW,
		})
	}

	// Width strip: beyond every part, up to the length strip
	stripW := boardW - maxEndW
	usableL := min(maxEndL, boardL)
	if usable(usableL, stripW) {
		offcuts = append(offcuts, Offcut{
			ID:          newID(),
			BoardID:     br.Board.ID,
			BoardIndex:  boardIndex,
			OffsetWidth: maxEndW,
			Length:      usableL,
			Width:       stripW,
		})
	}

	sort.Slice(offcuts, func(i, j int) bool {
		return offcuts[i].Area() > offcuts[j].Area()
	})

	return offcuts
}

func usable(length, width float64) bool {
	return length >= MinOffcutDimension && width >= MinOffcutDimension && length*width >= MinOffcutArea
}

// TotalOffcutArea returns the total area of all offcuts in square mm.
func TotalOffcutArea(offcuts []Offcut) float64 {
	var total float64
	for _, o := range offcuts {
		total += o.Area()
	}
	return total
}
