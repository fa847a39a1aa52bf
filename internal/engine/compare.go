package engine

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/piwi3910/BoardFit/internal/model"
)

// ComparisonScenario defines a named set of settings to compare.
type ComparisonScenario struct {
	Name     string            `json:"name"`
	Settings model.CutSettings `json:"settings"`
}

// ComparisonResult holds the packing result and its statistics for a single
// scenario. Err is set when the scenario could not be packed; the other
// scenarios still run.
type ComparisonResult struct {
	Scenario ComparisonScenario `json:"scenario"`
	Result   *model.Result      `json:"result,omitempty"`
	Stats    model.Stats        `json:"stats"`
	Err      error              `json:"-"`
}

// Error returns the scenario error message, or "" on success.
func (c ComparisonResult) Error() string {
	if c.Err == nil {
		return ""
	}
	return c.Err.Error()
}

// CompareScenarios packs the same input once per scenario, concurrently, and
// returns the results in scenario order. A context error stops the whole
// comparison; any other scenario failure is recorded in its result.
func CompareScenarios(ctx context.Context, scenarios []ComparisonScenario, parts []model.Part, boards []model.StockBoard, opts ...Option) ([]ComparisonResult, error) {
	results := make([]ComparisonResult, len(scenarios))

	g, ctx := errgroup.WithContext(ctx)
	for i, scenario := range scenarios {
		g.Go(func() error {
			opt := New(scenario.Settings, opts...)
			opt.log = opt.log.With("scenario", scenario.Name)

			result, err := opt.Optimize(ctx, parts, boards)
			results[i] = ComparisonResult{Scenario: scenario, Result: result, Err: err}
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return nil
			}
			results[i].Stats = result.Stats()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to compare scenarios: %w", err)
	}
	return results, nil
}

// BuildDefaultScenarios generates a set of comparison scenarios based on
// the current settings, varying key parameters to show what-if alternatives.
func BuildDefaultScenarios(base model.CutSettings) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{
			Name:     "Current Settings",
			Settings: base,
		},
	}

	// Every other registered strategy with the same cutting parameters
	for _, name := range StrategyNames() {
		if name == base.Strategy {
			continue
		}
		alt := base
		alt.Strategy = name
		scenarios = append(scenarios, ComparisonScenario{
			Name:     fmt.Sprintf("Strategy %s", name),
			Settings: alt,
		})
	}

	// Tighter kerf (simulate thinner blade)
	if base.KerfWidth > 1.0 {
		tightKerf := base
		tightKerf.KerfWidth = base.KerfWidth * 0.5
		scenarios = append(scenarios, ComparisonScenario{
			Name:     fmt.Sprintf("Kerf %.1fmm (half)", tightKerf.KerfWidth),
			Settings: tightKerf,
		})
	}

	// No padding
	if base.PaddingLength > 0 || base.PaddingWidth > 0 {
		noPad := base
		noPad.PaddingLength = 0
		noPad.PaddingWidth = 0
		scenarios = append(scenarios, ComparisonScenario{
			Name:     "No Padding",
			Settings: noPad,
		})
	}

	return scenarios
}

// BestScenario returns the index of the scenario that placed the most part
// area, preferring fewer boards on a tie, or -1 if every scenario failed.
func BestScenario(results []ComparisonResult) int {
	best := -1
	for i, r := range results {
		if r.Err != nil {
			continue
		}
		if best < 0 {
			best = i
			continue
		}
		b := results[best].Stats
		switch {
		case r.Stats.PlacedArea > b.PlacedArea:
			best = i
		case r.Stats.PlacedArea == b.PlacedArea && r.Stats.BoardsUsed < b.BoardsUsed:
			best = i
		}
	}
	return best
}
