package engine

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/piwi3910/BoardFit/internal/model"
)

// coordinator commits one board per round. Each round every open board is
// packed concurrently from the parts still available, the board with the
// highest coverage ratio wins, its parts are marked placed and the other
// plans are thrown away.
type coordinator struct {
	name     model.StrategyName
	packer   boardPacker
	settings model.CutSettings
	log      *slog.Logger
}

func (c *coordinator) run(ctx context.Context, job Job) (*model.Result, error) {
	result := model.NewResult(c.name, job.Parts, job.Boards)

	cands := buildCandidates(job.Parts, c.settings.PaddingLength, c.settings.PaddingWidth)
	available := make([]bool, len(cands))
	for i := range available {
		available[i] = true
	}
	left := len(cands)

	complete := make([]bool, len(job.Boards))
	open := len(job.Boards)

	for round := 1; left > 0 && open > 0; round++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("packing stopped before round %d: %w", round, err)
		}

		view := roundView(cands, available, job.Boards, complete, c.settings.SearchLimit)
		plans, err := c.runRound(job.Boards, complete, cands, view)
		if err != nil {
			return nil, err
		}

		winner := pickWinner(job.Boards, complete, plans)
		if winner < 0 {
			c.log.Info("no open board accepts the remaining parts",
				"round", round, "parts_left", left, "boards_open", open)
			break
		}

		board := job.Boards[winner]
		plan := plans[winner]
		placements := make([]model.Placement, 0, len(plan.steps))
		for _, st := range plan.steps {
			cand := cands[st.cand]
			available[st.cand] = false
			placements = append(placements, model.Placement{
				Part:         job.Parts[cand.index],
				BoardID:      board.ID,
				OffsetLength: st.dLength + c.settings.PaddingLength,
				OffsetWidth:  st.dWidth + c.settings.PaddingWidth,
			})
		}
		result.Commit(board, placements)
		complete[winner] = true
		open--
		left -= len(placements)

		c.log.Info("board committed",
			"round", round,
			"board", board.ID,
			"parts", len(placements),
			"coverage", plan.area/board.Area(),
			"parts_left", left)
	}

	placed := make([]bool, len(job.Parts))
	for i, cand := range cands {
		if !available[i] {
			placed[cand.index] = true
		}
	}
	for i, p := range job.Parts {
		if !placed[i] {
			result.Unplaced = append(result.Unplaced, p)
		}
	}
	return result, nil
}

// runRound packs every open board concurrently and waits for all of them.
func (c *coordinator) runRound(boards []model.StockBoard, complete []bool, cands []candidate, view []bool) ([]boardPlan, error) {
	plans := make([]boardPlan, len(boards))

	var g errgroup.Group
	if c.settings.MaxParallel > 0 {
		g.SetLimit(c.settings.MaxParallel)
	}
	for i, board := range boards {
		if complete[i] {
			continue
		}
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("packing board %q: %v", board.ID, r)
				}
			}()
			plans[i] = c.packer.packBoard(board, cands, view)
			c.log.Debug("board searched",
				"board", board.ID,
				"parts", len(plans[i].steps),
				"area", plans[i].area)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return plans, nil
}

// pickWinner returns the open board with the highest covered-area ratio, or
// -1 when no board placed anything. Ties go to the board declared first.
func pickWinner(boards []model.StockBoard, complete []bool, plans []boardPlan) int {
	winner := -1
	bestRatio := 0.0
	for i, plan := range plans {
		if complete[i] || plan.empty() {
			continue
		}
		ratio := plan.area / boards[i].Area()
		if winner < 0 || ratio > bestRatio {
			winner = i
			bestRatio = ratio
		}
	}
	return winner
}

// roundView returns the availability view a round works on: the available
// candidates whose envelope fits at least one open board. With a positive
// limit only the first limit of them, which are the largest, stay visible.
func roundView(cands []candidate, available []bool, boards []model.StockBoard, complete []bool, limit int) []bool {
	view := make([]bool, len(available))
	n := 0
	for i, ok := range available {
		if !ok || !fitsOpenBoard(cands[i], boards, complete) {
			continue
		}
		if limit > 0 && n == limit {
			break
		}
		view[i] = true
		n++
	}
	return view
}

func fitsOpenBoard(c candidate, boards []model.StockBoard, complete []bool) bool {
	for i, b := range boards {
		if !complete[i] && c.length <= b.Length && c.width <= b.Width {
			return true
		}
	}
	return false
}
