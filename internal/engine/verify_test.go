package engine

import (
	"testing"

	"github.com/piwi3910/BoardFit/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resultWith(board model.StockBoard, placements ...model.Placement) *model.Result {
	r := model.NewResult(model.StrategyGuillotine, nil, []model.StockBoard{board})
	for i := range placements {
		placements[i].BoardID = board.ID
	}
	r.Commit(board, placements)
	return r
}

func place(id string, length, width, dl, dw float64) model.Placement {
	return model.Placement{Part: model.NewPart(id, length, width), OffsetLength: dl, OffsetWidth: dw}
}

func TestVerify_AcceptsTouchingPartsWithoutKerf(t *testing.T) {
	r := resultWith(model.NewStockBoard("B", 100, 100),
		place("a", 50, 100, 0, 0),
		place("b", 50, 100, 50, 0))

	assert.NoError(t, Verify(r, 0))
}

func TestVerify_RejectsOverlap(t *testing.T) {
	r := resultWith(model.NewStockBoard("B", 100, 100),
		place("a", 60, 60, 0, 0),
		place("b", 60, 60, 30, 30))

	err := Verify(r, 0)

	require.ErrorIs(t, err, model.ErrInvariant)
	var inv *model.InvariantError
	require.ErrorAs(t, err, &inv)
	assert.Equal(t, "parts overlap", inv.Reason)
	assert.Equal(t, "a", inv.A.Part.ID)
	assert.Equal(t, "b", inv.B.Part.ID)
}

func TestVerify_RejectsMissingKerf(t *testing.T) {
	r := resultWith(model.NewStockBoard("B", 100, 100),
		place("a", 50, 50, 0, 0),
		place("b", 40, 50, 51, 0))

	err := Verify(r, 3)

	var inv *model.InvariantError
	require.ErrorAs(t, err, &inv)
	assert.Equal(t, "parts closer than the kerf", inv.Reason)
}

func TestVerify_KerfOnOneAxisIsEnough(t *testing.T) {
	r := resultWith(model.NewStockBoard("B", 100, 100),
		place("a", 40, 40, 0, 0),
		place("b", 40, 40, 43, 0),
		place("c", 40, 40, 0, 43))

	assert.NoError(t, Verify(r, 3))
}

func TestVerify_RejectsPartOutsideBoard(t *testing.T) {
	r := resultWith(model.NewStockBoard("B", 100, 100), place("a", 50, 50, 60, 0))

	err := Verify(r, 0)

	var inv *model.InvariantError
	require.ErrorAs(t, err, &inv)
	assert.Equal(t, "part runs past the board length", inv.Reason)
	assert.Nil(t, inv.B)
}

func TestVerify_ToleratesRoundingAtBoardEdge(t *testing.T) {
	r := resultWith(model.NewStockBoard("B", 100, 100), place("a", 0.1+0.2, 100, 99.7, 0))

	assert.NoError(t, Verify(r, 0))
}
