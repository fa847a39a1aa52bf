package export

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/piwi3910/BoardFit/internal/model"
)

// WriteSummary prints a plain-text report of the result: totals, waste and
// coverage, a per-board breakdown, reusable offcuts and the IDs of unplaced
// parts.
func WriteSummary(w io.Writer, result *model.Result) error {
	s := result.Stats()
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "Strategy:\t%s\n", result.Strategy)
	fmt.Fprintf(tw, "Boards used:\t%d of %d\n", s.BoardsUsed, s.BoardsTotal)
	fmt.Fprintf(tw, "Parts placed:\t%d of %d\n", s.PartsPlaced, s.PartsTotal)
	fmt.Fprintf(tw, "Placed area:\t%.3f m²\n", squareMetres(s.PlacedArea))
	fmt.Fprintf(tw, "Waste:\t%.3f m² (%.1f%%)\n", squareMetres(s.WasteArea), s.WasteRatio*100)
	fmt.Fprintf(tw, "Coverage:\t%.1f%%\n", s.Coverage*100)

	if len(result.Boards) > 0 {
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "#\tBoard\tSize\tParts\tCoverage")
		for i, br := range result.Boards {
			fmt.Fprintf(tw, "%d\t%s\t%.0f x %.0f\t%d\t%.1f%%\n",
				i+1, br.Board.ID, br.Board.Length, br.Board.Width, len(br.Placements), br.Coverage()*100)
		}
	}

	if offcuts := result.Offcuts(); len(offcuts) > 0 {
		fmt.Fprintln(tw)
		fmt.Fprintf(tw, "Offcuts:\t%d (%.3f m²)\n", len(offcuts), squareMetres(model.TotalOffcutArea(offcuts)))
		for _, o := range offcuts {
			fmt.Fprintf(tw, "\t%s: %.0f x %.0f @ %.0f,%.0f\n", o.BoardID, o.Length, o.Width, o.OffsetLength, o.OffsetWidth)
		}
	}

	if len(result.Unplaced) > 0 {
		fmt.Fprintln(tw)
		fmt.Fprintf(tw, "Unplaced:\t%s\n", strings.Join(result.UnplacedIDs(), ", "))
	}
	for _, issue := range result.Rejected {
		fmt.Fprintf(tw, "Rejected:\t%s\n", issue)
	}

	return tw.Flush()
}
