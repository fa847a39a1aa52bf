package model

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for broad classification.
var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrInvariant       = errors.New("packing invariant violated")
	ErrUnknownStrategy = errors.New("unknown strategy")
)

// IssueKind is a coarse-grained categorization of a per-item input problem.
type IssueKind string

const (
	IssueEmpty      IssueKind = "empty"
	IssueDimension  IssueKind = "dimension"
	IssueDuplicate  IssueKind = "duplicate"
	IssueInfeasible IssueKind = "infeasible"
)

// Issue reports a problem with one input item.
type Issue struct {
	Kind    IssueKind `json:"kind"`
	Item    string    `json:"item"`         // "part" or "board"
	Index   int       `json:"index"`        // Position in the input collection, -1 for the collection itself
	ID      string    `json:"id,omitempty"` // Item identifier when known
	Message string    `json:"message"`
}

func (i Issue) String() string {
	if i.Index < 0 {
		return fmt.Sprintf("%s: %s", i.Item, i.Message)
	}
	if i.ID != "" {
		return fmt.Sprintf("%s %q (#%d): %s", i.Item, i.ID, i.Index+1, i.Message)
	}
	return fmt.Sprintf("%s #%d: %s", i.Item, i.Index+1, i.Message)
}

// ValidationError lists every input item rejected before search.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Issues) == 0 {
		return ErrInvalidInput.Error()
	}
	msgs := make([]string, 0, len(e.Issues))
	for _, i := range e.Issues {
		msgs = append(msgs, i.String())
	}
	return fmt.Sprintf("%s: %s", ErrInvalidInput, strings.Join(msgs, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// InvariantError reports a corrupt plan found after search. It carries the
// board and the conflicting placements.
type InvariantError struct {
	BoardID string
	Reason  string
	A       Placement
	B       *Placement // nil for single-placement violations such as containment
}

func (e *InvariantError) Error() string {
	if e.B == nil {
		return fmt.Sprintf("%s: board %q: %s: part %q at (%g, %g)",
			ErrInvariant, e.BoardID, e.Reason, e.A.Part.ID, e.A.OffsetLength, e.A.OffsetWidth)
	}
	return fmt.Sprintf("%s: board %q: %s: part %q at (%g, %g) and part %q at (%g, %g)",
		ErrInvariant, e.BoardID, e.Reason,
		e.A.Part.ID, e.A.OffsetLength, e.A.OffsetWidth,
		e.B.Part.ID, e.B.OffsetLength, e.B.OffsetWidth)
}

func (e *InvariantError) Unwrap() error {
	return ErrInvariant
}

// Issues extracts the per-item issues from err, if it carries any.
func Issues(err error) []Issue {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Issues
	}
	return nil
}
