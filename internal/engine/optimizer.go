package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/piwi3910/BoardFit/internal/model"
)

// Optimizer runs a packing strategy over a set of parts and boards.
type Optimizer struct {
	Settings model.CutSettings
	log      *slog.Logger
}

// Option configures an Optimizer.
type Option func(*Optimizer)

// WithLogger routes engine logging to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Optimizer) {
		if logger != nil {
			o.log = logger
		}
	}
}

func New(settings model.CutSettings, opts ...Option) *Optimizer {
	o := &Optimizer{
		Settings: settings,
		log:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Optimize validates the input, sets aside parts that fit no board, packs
// the rest with the configured strategy and verifies the committed layout.
//
// Parts left over are reported in Result.Unplaced and are not an error.
// Invalid input returns a *model.ValidationError; a layout that breaks the
// cutting rules returns a *model.InvariantError.
func (o *Optimizer) Optimize(ctx context.Context, parts []model.Part, boards []model.StockBoard) (*model.Result, error) {
	if err := o.Settings.Validate(); err != nil {
		return nil, err
	}
	if err := model.ValidateInput(parts, boards); err != nil {
		return nil, err
	}

	strategy, err := Lookup(o.Settings.Strategy, o.log)
	if err != nil {
		return nil, err
	}

	feasible, infeasible, issues := model.SplitFeasible(parts, boards)
	for _, issue := range issues {
		o.log.Warn("part excluded from packing", "part", issue.ID, "reason", issue.Message)
	}

	var result *model.Result
	if len(feasible) == 0 {
		result = model.NewResult(strategy.Name(), nil, boards)
	} else {
		o.log.Debug("packing started",
			"strategy", strategy.Name(),
			"parts", len(feasible),
			"boards", len(boards),
			"kerf", o.Settings.KerfWidth)
		result, err = strategy.Pack(ctx, Job{Parts: feasible, Boards: boards, Settings: o.Settings})
		if err != nil {
			return nil, fmt.Errorf("failed to pack with %s: %w", strategy.Name(), err)
		}
	}
	result.Reject(infeasible, issues)
	result.Kerf = o.Settings.KerfWidth

	if err := Verify(result, o.Settings.KerfWidth); err != nil {
		o.log.Error("layout failed verification", "error", err)
		return nil, err
	}

	stats := result.Stats()
	o.log.Info("packing finished",
		"strategy", result.Strategy,
		"boards_used", stats.BoardsUsed,
		"parts_placed", stats.PartsPlaced,
		"parts_total", stats.PartsTotal,
		"coverage", stats.Coverage)
	return result, nil
}
