package engine

import (
	"context"
	"testing"

	"github.com/piwi3910/BoardFit/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultTestSettings() model.CutSettings {
	s := model.DefaultSettings()
	// Simplify for testing: no kerf
	s.KerfWidth = 0
	return s
}

func packWith(t *testing.T, name model.StrategyName, settings model.CutSettings, parts []model.Part, boards []model.StockBoard) *model.Result {
	t.Helper()
	strategy, err := Lookup(name, nil)
	require.NoError(t, err)
	settings.Strategy = name
	result, err := strategy.Pack(context.Background(), Job{Parts: parts, Boards: boards, Settings: settings})
	require.NoError(t, err)
	return result
}

func placementIDs(br model.BoardResult) []string {
	ids := make([]string, 0, len(br.Placements))
	for _, p := range br.Placements {
		ids = append(ids, p.Part.ID)
	}
	return ids
}

func TestCoordinator_HigherCoverageBoardCommitsFirst(t *testing.T) {
	boards := []model.StockBoard{
		model.NewStockBoard("B", 300, 300),
		model.NewStockBoard("A", 500, 500),
	}
	parts := []model.Part{
		model.NewPart("P1", 500, 250),
		model.NewPart("P2", 500, 250),
		model.NewPart("P3", 200, 200),
	}

	result := packWith(t, model.StrategyGuillotine, defaultTestSettings(), parts, boards)

	require.Len(t, result.Boards, 2)
	assert.Equal(t, "A", result.Boards[0].Board.ID, "A reaches full coverage, B only 44%")
	assert.ElementsMatch(t, []string{"P1", "P2"}, placementIDs(result.Boards[0]))
	assert.Equal(t, "B", result.Boards[1].Board.ID)
	assert.Equal(t, []string{"P3"}, placementIDs(result.Boards[1]))
	assert.Empty(t, result.Unplaced)
}

func TestCoordinator_TieGoesToFirstDeclaredBoard(t *testing.T) {
	boards := []model.StockBoard{
		model.NewStockBoard("A", 500, 500),
		model.NewStockBoard("B", 300, 300),
	}
	parts := []model.Part{
		model.NewPart("P1", 500, 250),
		model.NewPart("P2", 500, 250),
		model.NewPart("P3", 300, 300),
	}

	result := packWith(t, model.StrategyGuillotine, defaultTestSettings(), parts, boards)

	require.Len(t, result.Boards, 2)
	assert.Equal(t, "A", result.Boards[0].Board.ID)
	assert.Equal(t, "B", result.Boards[1].Board.ID)
	assert.Equal(t, []string{"P3"}, placementIDs(result.Boards[1]))
	assert.True(t, result.Complete())
}

func TestCoordinator_LeftoverPartsAreUnplaced(t *testing.T) {
	boards := []model.StockBoard{model.NewStockBoard("A", 100, 100)}
	parts := []model.Part{
		model.NewPart("P1", 100, 60),
		model.NewPart("P2", 100, 60),
		model.NewPart("P3", 10, 10),
	}

	result := packWith(t, model.StrategyGuillotine, defaultTestSettings(), parts, boards)

	require.Len(t, result.Boards, 1)
	assert.ElementsMatch(t, []string{"P1", "P3"}, placementIDs(result.Boards[0]))
	assert.Equal(t, []string{"P2"}, result.UnplacedIDs())
	assert.False(t, result.Complete())
}

func TestCoordinator_UnplacedKeepInputOrder(t *testing.T) {
	boards := []model.StockBoard{model.NewStockBoard("A", 100, 100)}
	parts := []model.Part{
		model.NewPart("small", 20, 20),
		model.NewPart("fill", 100, 100),
		model.NewPart("mid", 50, 50),
	}

	result := packWith(t, model.StrategyGuillotine, defaultTestSettings(), parts, boards)

	assert.Equal(t, []string{"small", "mid"}, result.UnplacedIDs())
}

func TestCoordinator_ConservesArea(t *testing.T) {
	boards := []model.StockBoard{
		model.NewStockBoard("A", 1200, 600),
		model.NewStockBoard("B", 800, 400),
	}
	parts := []model.Part{
		model.NewPart("a", 600, 300),
		model.NewPart("b", 600, 300),
		model.NewPart("c", 400, 400),
		model.NewPart("d", 700, 350),
		model.NewPart("e", 300, 100),
		model.NewPart("f", 900, 500),
	}
	settings := defaultTestSettings()
	settings.KerfWidth = 3

	for _, name := range []model.StrategyName{model.StrategyGuillotine, model.StrategyBestFit} {
		t.Run(string(name), func(t *testing.T) {
			result := packWith(t, name, settings, parts, boards)
			stats := result.Stats()

			assert.InDelta(t, stats.TotalPartArea, stats.PlacedArea+result.UnplacedArea(), 1e-6)
			var used float64
			for _, b := range result.Boards {
				used += b.Board.Area()
			}
			assert.InDelta(t, used, stats.UsedStockArea, 1e-6)
			assert.Equal(t, len(parts), stats.PartsPlaced+len(result.Unplaced))
			assert.NoError(t, Verify(result, settings.KerfWidth))
		})
	}
}

func TestCoordinator_PaddingCentersPart(t *testing.T) {
	boards := []model.StockBoard{model.NewStockBoard("A", 100, 100)}
	parts := []model.Part{model.NewPart("P", 50, 40)}
	settings := defaultTestSettings()
	settings.PaddingLength = 5
	settings.PaddingWidth = 3

	result := packWith(t, model.StrategyGuillotine, settings, parts, boards)

	require.Len(t, result.Boards, 1)
	p := result.Boards[0].Placements[0]
	assert.Equal(t, 5.0, p.OffsetLength)
	assert.Equal(t, 3.0, p.OffsetWidth)
	assert.Equal(t, 50.0, p.Part.Length, "the committed part keeps its own size")
}

func TestCoordinator_PaddingCanMakePartUnplaceable(t *testing.T) {
	boards := []model.StockBoard{model.NewStockBoard("A", 100, 100)}
	parts := []model.Part{model.NewPart("P", 95, 50)}
	settings := defaultTestSettings()
	settings.PaddingLength = 5

	result := packWith(t, model.StrategyGuillotine, settings, parts, boards)

	assert.Empty(t, result.Boards)
	assert.Equal(t, []string{"P"}, result.UnplacedIDs())
}

func TestCoordinator_SearchLimitCapsCandidates(t *testing.T) {
	boards := []model.StockBoard{model.NewStockBoard("A", 1000, 500)}
	parts := []model.Part{
		model.NewPart("small", 100, 100),
		model.NewPart("large", 400, 300),
	}
	settings := defaultTestSettings()
	settings.SearchLimit = 1

	result := packWith(t, model.StrategyGuillotine, settings, parts, boards)

	require.Len(t, result.Boards, 1)
	assert.Equal(t, []string{"large"}, placementIDs(result.Boards[0]))
	assert.Equal(t, []string{"small"}, result.UnplacedIDs())
}

func TestCoordinator_SearchLimitIgnoresPartsNoOpenBoardTakes(t *testing.T) {
	boards := []model.StockBoard{
		model.NewStockBoard("big", 1000, 1000),
		model.NewStockBoard("small", 200, 200),
	}
	parts := []model.Part{
		model.NewPart("huge", 1000, 1000),
		model.NewPart("other", 900, 900),
		model.NewPart("tiny", 100, 100),
	}
	settings := defaultTestSettings()
	settings.SearchLimit = 1

	result := packWith(t, model.StrategyGuillotine, settings, parts, boards)

	require.Len(t, result.Boards, 2)
	assert.Equal(t, []string{"huge"}, placementIDs(result.Boards[0]))
	assert.Equal(t, []string{"tiny"}, placementIDs(result.Boards[1]),
		"900x900 fits no open board once big is used, so tiny is searched")
	assert.Equal(t, []string{"other"}, result.UnplacedIDs())
}

func TestCoordinator_MaxParallelDoesNotChangeResult(t *testing.T) {
	boards := []model.StockBoard{
		model.NewStockBoard("A", 500, 500),
		model.NewStockBoard("B", 300, 300),
		model.NewStockBoard("C", 400, 200),
	}
	parts := []model.Part{
		model.NewPart("P1", 250, 250),
		model.NewPart("P2", 250, 250),
		model.NewPart("P3", 300, 100),
		model.NewPart("P4", 200, 200),
		model.NewPart("P5", 150, 100),
	}

	settings := defaultTestSettings()
	unbounded := packWith(t, model.StrategyGuillotine, settings, parts, boards)
	settings.MaxParallel = 1
	serial := packWith(t, model.StrategyGuillotine, settings, parts, boards)

	assert.Equal(t, unbounded, serial)
}

func TestCoordinator_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	strategy, err := Lookup(model.StrategyGuillotine, nil)
	require.NoError(t, err)
	_, err = strategy.Pack(ctx, Job{
		Parts:    []model.Part{model.NewPart("P", 10, 10)},
		Boards:   []model.StockBoard{model.NewStockBoard("A", 100, 100)},
		Settings: defaultTestSettings(),
	})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestPickWinner_NoPlacementsMeansNoWinner(t *testing.T) {
	boards := []model.StockBoard{model.NewStockBoard("A", 10, 10)}

	assert.Equal(t, -1, pickWinner(boards, []bool{false}, []boardPlan{{}}))
}
