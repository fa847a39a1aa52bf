package engine

import (
	"github.com/piwi3910/BoardFit/internal/model"
)

// tolerance absorbs floating-point error in the geometry checks.
const tolerance = 1e-6

// Verify checks every committed board of result: each part lies inside its
// board, no two parts overlap and any two parts are at least kerf apart along
// one axis. Touching edges count as no overlap. The first violation is
// returned as a *model.InvariantError.
func Verify(result *model.Result, kerf float64) error {
	for _, b := range result.Boards {
		for i := range b.Placements {
			p := b.Placements[i]
			if reason := outside(b.Board, p); reason != "" {
				return &model.InvariantError{BoardID: b.Board.ID, Reason: reason, A: p}
			}
			if p.BoardID != b.Board.ID {
				return &model.InvariantError{BoardID: b.Board.ID, Reason: "placement names board " + p.BoardID, A: p}
			}
			for j := i + 1; j < len(b.Placements); j++ {
				q := b.Placements[j]
				if overlaps(p, q) {
					return &model.InvariantError{BoardID: b.Board.ID, Reason: "parts overlap", A: p, B: &q}
				}
				if gap(p, q) < kerf-tolerance {
					return &model.InvariantError{BoardID: b.Board.ID, Reason: "parts closer than the kerf", A: p, B: &q}
				}
			}
		}
	}
	return nil
}

func outside(board model.StockBoard, p model.Placement) string {
	switch {
	case p.OffsetLength < -tolerance || p.OffsetWidth < -tolerance:
		return "part starts before the board origin"
	case p.EndLength() > board.Length+tolerance:
		return "part runs past the board length"
	case p.EndWidth() > board.Width+tolerance:
		return "part runs past the board width"
	}
	return ""
}

func overlaps(a, b model.Placement) bool {
	return a.OffsetLength < b.EndLength()-tolerance && b.OffsetLength < a.EndLength()-tolerance &&
		a.OffsetWidth < b.EndWidth()-tolerance && b.OffsetWidth < a.EndWidth()-tolerance
}

// gap is the larger of the two axis separations between a and b.
func gap(a, b model.Placement) float64 {
	gl := max(b.OffsetLength-a.EndLength(), a.OffsetLength-b.EndLength())
	gw := max(b.OffsetWidth-a.EndWidth(), a.OffsetWidth-b.EndWidth())
	return max(gl, gw)
}
