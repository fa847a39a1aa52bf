package model

// Result is the solution ledger of a packing run. Boards are kept in the
// order they were committed.
type Result struct {
	Strategy StrategyName  `json:"strategy"`
	Boards   []BoardResult `json:"boards"`
	Unplaced []Part        `json:"unplaced"`
	Rejected []Issue       `json:"rejected,omitempty"` // Parts excluded before search
	Kerf     float64       `json:"kerf"`               // Saw kerf the layout was planned with

	TotalStockArea float64 `json:"total_stock_area"`
	TotalPartArea  float64 `json:"total_part_area"`
	BoardCount     int     `json:"board_count"`
	PartCount      int     `json:"part_count"`
}

// Stats is the aggregate view of a Result.
type Stats struct {
	TotalStockArea float64 `json:"total_stock_area"`
	UsedStockArea  float64 `json:"used_stock_area"`
	TotalPartArea  float64 `json:"total_part_area"`
	PlacedArea     float64 `json:"placed_area"`
	WasteArea      float64 `json:"waste_area"`
	WasteRatio     float64 `json:"waste_ratio"` // WasteArea / UsedStockArea
	Coverage       float64 `json:"coverage"`    // PlacedArea / UsedStockArea
	BoardsUsed     int     `json:"boards_used"`
	BoardsTotal    int     `json:"boards_total"`
	PartsPlaced    int     `json:"parts_placed"`
	PartsTotal     int     `json:"parts_total"`
}

// NewResult opens an empty ledger for the given inputs.
func NewResult(strategy StrategyName, parts []Part, boards []StockBoard) *Result {
	r := &Result{
		Strategy:   strategy,
		BoardCount: len(boards),
		PartCount:  len(parts),
	}
	for _, b := range boards {
		r.TotalStockArea += b.Area()
	}
	for _, p := range parts {
		r.TotalPartArea += p.Area()
	}
	return r
}

// Commit appends a finished board and its placements. The board is marked
// complete.
func (r *Result) Commit(board StockBoard, placements []Placement) {
	committed := make([]Placement, len(placements))
	copy(committed, placements)
	r.Boards = append(r.Boards, BoardResult{
		Board:      board,
		Placements: committed,
		Complete:   true,
	})
}

// Stats computes the aggregate statistics of the ledger.
func (r *Result) Stats() Stats {
	s := Stats{
		TotalStockArea: r.TotalStockArea,
		TotalPartArea:  r.TotalPartArea,
		BoardsTotal:    r.BoardCount,
		PartsTotal:     r.PartCount,
	}
	for _, b := range r.Boards {
		if !b.Complete {
			continue
		}
		s.BoardsUsed++
		s.UsedStockArea += b.Board.Area()
		s.PlacedArea += b.PackedArea()
		s.PartsPlaced += len(b.Placements)
	}
	s.WasteArea = s.UsedStockArea - s.PlacedArea
	if s.UsedStockArea > 0 {
		s.WasteRatio = s.WasteArea / s.UsedStockArea
		s.Coverage = s.PlacedArea / s.UsedStockArea
	}
	return s
}

// Placements returns every committed placement in commit order.
func (r *Result) Placements() []Placement {
	var all []Placement
	for _, b := range r.Boards {
		all = append(all, b.Placements...)
	}
	return all
}

// UnplacedIDs returns the IDs of the parts left over.
func (r *Result) UnplacedIDs() []string {
	ids := make([]string, 0, len(r.Unplaced))
	for _, p := range r.Unplaced {
		ids = append(ids, p.ID)
	}
	return ids
}

// UnplacedArea returns the summed area of the parts left over.
func (r *Result) UnplacedArea() float64 {
	var total float64
	for _, p := range r.Unplaced {
		total += p.Area()
	}
	return total
}

// Offcuts returns the reusable remnants of every committed board.
func (r *Result) Offcuts() []Offcut {
	var all []Offcut
	for i, b := range r.Boards {
		all = append(all, DetectOffcuts(b, i, r.Kerf)...)
	}
	return all
}

// Complete reports whether every part was placed.
func (r *Result) Complete() bool {
	return len(r.Unplaced) == 0
}

// Reject records parts excluded before search. They count toward the part
// totals and are listed as unplaced.
func (r *Result) Reject(parts []Part, issues []Issue) {
	for _, p := range parts {
		r.PartCount++
		r.TotalPartArea += p.Area()
		r.Unplaced = append(r.Unplaced, p)
	}
	r.Rejected = append(r.Rejected, issues...)
}
