package model

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Part represents a required piece to be cut. Parts are placed at a fixed
// orientation: Length runs along the board's length axis, Width along its
// width axis.
type Part struct {
	ID     string  `json:"id" yaml:"id"`
	Length float64 `json:"length" yaml:"length"` // mm
	Width  float64 `json:"width" yaml:"width"`   // mm
}

// NewPart creates a part. An empty id is replaced by a short generated one.
func NewPart(id string, length, width float64) Part {
	if id == "" {
		id = newID()
	}
	return Part{ID: id, Length: length, Width: width}
}

// Area returns length x width.
func (p Part) Area() float64 {
	return p.Length * p.Width
}

// Inflate returns the part grown by padL on both length edges and padW on
// both width edges. The result is the envelope the packer reserves.
func (p Part) Inflate(padL, padW float64) Part {
	p.Length += 2 * padL
	p.Width += 2 * padW
	return p
}

// StockBoard represents an available board of material to cut from.
type StockBoard struct {
	ID     string  `json:"id" yaml:"id"`
	Length float64 `json:"length" yaml:"length"` // mm
	Width  float64 `json:"width" yaml:"width"`   // mm
}

func NewStockBoard(id string, length, width float64) StockBoard {
	if id == "" {
		id = newID()
	}
	return StockBoard{ID: id, Length: length, Width: width}
}

// Area returns length x width.
func (b StockBoard) Area() float64 {
	return b.Length * b.Width
}

// Accepts reports whether the part fits the bare board without rotation.
func (b StockBoard) Accepts(p Part) bool {
	return p.Length <= b.Length && p.Width <= b.Width
}

func newID() string {
	return uuid.New().String()[:8]
}

// StrategyName identifies a packing strategy.
type StrategyName string

const (
	StrategyGuillotine StrategyName = "guillotine" // Exact recursive guillotine search per board
	StrategyBestFit    StrategyName = "bestfit"    // Greedy maximal-rectangles best-area-fit (fast, layouts are not guaranteed guillotine)
	StrategyGenetic    StrategyName = "genetic"    // Genetic search over part order decoded with bestfit (not guaranteed guillotine)
)

// CutSettings holds the run parameters of a packing job.
type CutSettings struct {
	Strategy      StrategyName `json:"strategy" yaml:"strategy" mapstructure:"strategy" validate:"required"`
	KerfWidth     float64      `json:"kerf_width" yaml:"kerf_width" mapstructure:"kerf_width" validate:"gte=0"`             // Saw blade width in mm
	PaddingLength float64      `json:"padding_length" yaml:"padding_length" mapstructure:"padding_length" validate:"gte=0"` // Added to both length edges of every part
	PaddingWidth  float64      `json:"padding_width" yaml:"padding_width" mapstructure:"padding_width" validate:"gte=0"`    // Added to both width edges of every part

	// MaxParallel bounds the board searches running at once in a round.
	// Zero runs one goroutine per open board.
	MaxParallel int `json:"max_parallel" yaml:"max_parallel" mapstructure:"max_parallel" validate:"gte=0"`

	// SearchLimit caps how many of the largest available parts one board
	// search considers. Zero considers all of them. The exhaustive search is
	// exponential in this number.
	SearchLimit int `json:"search_limit" yaml:"search_limit" mapstructure:"search_limit" validate:"gte=0"`

	Seed int64 `json:"seed" yaml:"seed" mapstructure:"seed"` // Genetic strategy RNG seed
}

func DefaultSettings() CutSettings {
	return CutSettings{
		Strategy:  StrategyGuillotine,
		KerfWidth: 3.2,
		Seed:      42,
	}
}

var settingsValidator = validator.New()

// Validate checks the settings against their field constraints.
func (s CutSettings) Validate() error {
	if err := settingsValidator.Struct(s); err != nil {
		return fmt.Errorf("%w: cut settings: %v", ErrInvalidInput, err)
	}
	return nil
}

// Placement represents a single part committed to a board. The offset is the
// part's own corner, measured from the board origin.
type Placement struct {
	Part         Part    `json:"part"`
	BoardID      string  `json:"board_id"`
	OffsetLength float64 `json:"offset_length"` // mm along the board length
	OffsetWidth  float64 `json:"offset_width"`  // mm along the board width
}

// EndLength returns the far edge of the part on the length axis.
func (p Placement) EndLength() float64 {
	return p.OffsetLength + p.Part.Length
}

// EndWidth returns the far edge of the part on the width axis.
func (p Placement) EndWidth() float64 {
	return p.OffsetWidth + p.Part.Width
}

// BoardResult represents one stock board with its committed parts.
type BoardResult struct {
	Board      StockBoard  `json:"board"`
	Placements []Placement `json:"placements"`
	Complete   bool        `json:"complete"`
}

// PackedArea returns the total area of the placed parts.
func (br BoardResult) PackedArea() float64 {
	var total float64
	for _, p := range br.Placements {
		total += p.Part.Area()
	}
	return total
}

// Coverage returns PackedArea divided by the board area.
func (br BoardResult) Coverage() float64 {
	ba := br.Board.Area()
	if ba == 0 {
		return 0
	}
	return br.PackedArea() / ba
}
