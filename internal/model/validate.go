package model

import (
	"fmt"
	"math"
)

// ValidateInput checks parts and boards before any search runs. Every faulty
// item is reported; the returned error is a *ValidationError or nil.
func ValidateInput(parts []Part, boards []StockBoard) error {
	var issues []Issue

	if len(parts) == 0 {
		issues = append(issues, Issue{Kind: IssueEmpty, Item: "part", Index: -1, Message: "no parts given"})
	}
	if len(boards) == 0 {
		issues = append(issues, Issue{Kind: IssueEmpty, Item: "board", Index: -1, Message: "no boards given"})
	}

	seen := make(map[string]int, len(parts))
	for i, p := range parts {
		if msg := checkDims(p.Length, p.Width); msg != "" {
			issues = append(issues, Issue{Kind: IssueDimension, Item: "part", Index: i, ID: p.ID, Message: msg})
		}
		if p.ID == "" {
			continue
		}
		if first, dup := seen[p.ID]; dup {
			issues = append(issues, Issue{Kind: IssueDuplicate, Item: "part", Index: i, ID: p.ID,
				Message: fmt.Sprintf("id already used by part #%d", first+1)})
			continue
		}
		seen[p.ID] = i
	}

	seen = make(map[string]int, len(boards))
	for i, b := range boards {
		if msg := checkDims(b.Length, b.Width); msg != "" {
			issues = append(issues, Issue{Kind: IssueDimension, Item: "board", Index: i, ID: b.ID, Message: msg})
		}
		if b.ID == "" {
			continue
		}
		if first, dup := seen[b.ID]; dup {
			issues = append(issues, Issue{Kind: IssueDuplicate, Item: "board", Index: i, ID: b.ID,
				Message: fmt.Sprintf("id already used by board #%d", first+1)})
			continue
		}
		seen[b.ID] = i
	}

	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}

func checkDims(length, width float64) string {
	switch {
	case math.IsNaN(length) || math.IsInf(length, 0):
		return "length is not a finite number"
	case math.IsNaN(width) || math.IsInf(width, 0):
		return "width is not a finite number"
	case length <= 0 && width <= 0:
		return fmt.Sprintf("length %g and width %g must be positive", length, width)
	case length <= 0:
		return fmt.Sprintf("length %g must be positive", length)
	case width <= 0:
		return fmt.Sprintf("width %g must be positive", width)
	}
	return ""
}

// SplitFeasible separates parts that fit at least one bare board from parts
// that are larger than every board in some dimension. Input order is kept.
func SplitFeasible(parts []Part, boards []StockBoard) (feasible []Part, infeasible []Part, issues []Issue) {
	for i, p := range parts {
		fits := false
		for _, b := range boards {
			if b.Accepts(p) {
				fits = true
				break
			}
		}
		if fits {
			feasible = append(feasible, p)
			continue
		}
		infeasible = append(infeasible, p)
		issues = append(issues, Issue{
			Kind:    IssueInfeasible,
			Item:    "part",
			Index:   i,
			ID:      p.ID,
			Message: fmt.Sprintf("%g x %g exceeds every board", p.Length, p.Width),
		})
	}
	return feasible, infeasible, issues
}
