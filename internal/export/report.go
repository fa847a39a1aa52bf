package export

import (
	"encoding/json"
	"io"

	"github.com/piwi3910/BoardFit/internal/model"
)

// Report is the JSON view of a result shared by the CLI and the HTTP API.
type Report struct {
	Strategy model.StrategyName `json:"strategy"`
	Complete bool               `json:"complete"`
	Boards   []BoardReport      `json:"boards"`
	Stats    model.Stats        `json:"stats"`
	Unplaced []model.Part       `json:"unplaced"`
	Rejected []model.Issue      `json:"rejected,omitempty"`
	Offcuts  []model.Offcut     `json:"offcuts"`
}

// BoardReport is one committed board with its placements.
type BoardReport struct {
	Board      model.StockBoard  `json:"board"`
	Placements []PlacementReport `json:"placements"`
	PackedArea float64           `json:"packed_area"`
	Coverage   float64           `json:"coverage"`
}

// PlacementReport flattens a placement to the part ID, offset and size.
type PlacementReport struct {
	PartID       string  `json:"part_id"`
	OffsetLength float64 `json:"offset_length"`
	OffsetWidth  float64 `json:"offset_width"`
	Length       float64 `json:"length"`
	Width        float64 `json:"width"`
}

// NewReport builds the JSON view of result.
func NewReport(result *model.Result) Report {
	r := Report{
		Strategy: result.Strategy,
		Complete: result.Complete(),
		Boards:   make([]BoardReport, 0, len(result.Boards)),
		Stats:    result.Stats(),
		Unplaced: result.Unplaced,
		Rejected: result.Rejected,
		Offcuts:  result.Offcuts(),
	}
	if r.Unplaced == nil {
		r.Unplaced = []model.Part{}
	}
	if r.Offcuts == nil {
		r.Offcuts = []model.Offcut{}
	}
	for _, br := range result.Boards {
		b := BoardReport{
			Board:      br.Board,
			Placements: make([]PlacementReport, 0, len(br.Placements)),
			PackedArea: br.PackedArea(),
			Coverage:   br.Coverage(),
		}
		for _, p := range br.Placements {
			b.Placements = append(b.Placements, PlacementReport{
				PartID:       p.Part.ID,
				OffsetLength: p.OffsetLength,
				OffsetWidth:  p.OffsetWidth,
				Length:       p.Part.Length,
				Width:        p.Part.Width,
			})
		}
		r.Boards = append(r.Boards, b)
	}
	return r
}

// WriteJSON writes the indented JSON report of result.
func WriteJSON(w io.Writer, result *model.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewReport(result))
}
