package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/piwi3910/BoardFit/internal/model"
)

// Job is the input handed to a Strategy. Every part fits at least one board.
type Job struct {
	Parts    []model.Part
	Boards   []model.StockBoard
	Settings model.CutSettings
}

// Strategy turns a job into committed placements. Parts a strategy cannot
// place are returned in Result.Unplaced; that is not an error.
type Strategy interface {
	Name() model.StrategyName
	Pack(ctx context.Context, job Job) (*model.Result, error)
}

// Factory builds a strategy that logs to logger.
type Factory func(logger *slog.Logger) Strategy

var (
	registryMu sync.RWMutex
	registry   = map[model.StrategyName]Factory{
		model.StrategyGuillotine: func(logger *slog.Logger) Strategy {
			return &roundStrategy{
				name: model.StrategyGuillotine,
				log:  logger,
				packer: func(s model.CutSettings) boardPacker {
					return guillotineSearch{kerf: s.KerfWidth}
				},
			}
		},
		model.StrategyBestFit: func(logger *slog.Logger) Strategy {
			return &roundStrategy{
				name: model.StrategyBestFit,
				log:  logger,
				packer: func(s model.CutSettings) boardPacker {
					return bestFitPacker{kerf: s.KerfWidth}
				},
			}
		},
		model.StrategyGenetic: func(logger *slog.Logger) Strategy {
			return &geneticStrategy{log: logger}
		},
	}
)

// Register adds or replaces a strategy under name.
func Register(name model.StrategyName, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = f
}

// Lookup builds the strategy registered under name.
func Lookup(name model.StrategyName, logger *slog.Logger) (Strategy, error) {
	registryMu.RLock()
	f, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", model.ErrUnknownStrategy, name)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return f(logger.With("strategy", string(name))), nil
}

// StrategyNames lists the registered strategies in name order.
func StrategyNames() []model.StrategyName {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]model.StrategyName, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// roundStrategy runs the board coordinator with a per-board packer.
type roundStrategy struct {
	name   model.StrategyName
	packer func(model.CutSettings) boardPacker
	log    *slog.Logger
}

func (s *roundStrategy) Name() model.StrategyName {
	return s.name
}

func (s *roundStrategy) Pack(ctx context.Context, job Job) (*model.Result, error) {
	c := &coordinator{
		name:     s.name,
		packer:   s.packer(job.Settings),
		settings: job.Settings,
		log:      s.log,
	}
	return c.run(ctx, job)
}
