package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/piwi3910/BoardFit/internal/engine"
	"github.com/piwi3910/BoardFit/internal/logger"
	"github.com/piwi3910/BoardFit/internal/model"
)

func compareCmd(a *app) *cobra.Command {
	var in inputFlags
	var format string

	c := &cobra.Command{
		Use:   "compare",
		Short: "Pack the same input under alternative strategies and settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			job, err := in.load(cmd, a.cfg.Settings)
			if err != nil {
				return err
			}
			if err := job.Settings.Validate(); err != nil {
				return err
			}
			if err := model.ValidateInput(job.Parts, job.Boards); err != nil {
				return err
			}

			scenarios := engine.BuildDefaultScenarios(job.Settings)
			results, err := engine.CompareScenarios(cmd.Context(), scenarios, job.Parts, job.Boards,
				engine.WithLogger(logger.L()))
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("format") {
				format = a.cfg.Output.Format
			}
			return printComparison(cmd.OutOrStdout(), results, format)
		},
	}

	in.register(c)
	c.Flags().StringVar(&format, "format", "text", "Output format: text|json")
	return c
}

func printComparison(w io.Writer, results []engine.ComparisonResult, format string) error {
	best := engine.BestScenario(results)

	switch format {
	case "json":
		type entry struct {
			Name  string      `json:"name"`
			Stats model.Stats `json:"stats"`
			Error string      `json:"error,omitempty"`
			Best  bool        `json:"best"`
		}
		entries := make([]entry, len(results))
		for i, r := range results {
			entries[i] = entry{Name: r.Scenario.Name, Stats: r.Stats, Error: r.Error(), Best: i == best}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	case "text", "":
	default:
		return fmt.Errorf("unsupported format %q (expected text|json)", format)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "\tScenario\tBoards\tParts\tCoverage\tWaste m²")
	for i, r := range results {
		mark := ""
		if i == best {
			mark = "*"
		}
		if r.Err != nil {
			fmt.Fprintf(tw, "%s\t%s\terror: %v\t\t\t\n", mark, r.Scenario.Name, r.Err)
			continue
		}
		s := r.Stats
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d/%d\t%.1f%%\t%.3f\n",
			mark, r.Scenario.Name, s.BoardsUsed, s.PartsPlaced, s.PartsTotal, s.Coverage*100, s.WasteArea/1e6)
	}
	return tw.Flush()
}
