package model

import (
	"fmt"
	"strings"
)

// BoardPreset represents a reusable stock board definition.
type BoardPreset struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Length   float64 `json:"length"` // mm
	Width    float64 `json:"width"`  // mm
	Material string  `json:"material"`
}

// NewBoardPreset creates a preset. An empty id is replaced by a short
// generated one.
func NewBoardPreset(id, name string, length, width float64, material string) BoardPreset {
	if id == "" {
		id = newID()
	}
	return BoardPreset{
		ID:       id,
		Name:     name,
		Length:   length,
		Width:    width,
		Material: material,
	}
}

// ToStockBoards returns qty boards of this preset with IDs "<id>-1" to
// "<id>-<qty>".
func (bp BoardPreset) ToStockBoards(qty int) []StockBoard {
	boards := make([]StockBoard, 0, max(qty, 0))
	for i := 1; i <= qty; i++ {
		boards = append(boards, NewStockBoard(fmt.Sprintf("%s-%d", bp.ID, i), bp.Length, bp.Width))
	}
	return boards
}

// Inventory holds the user's saved board presets.
type Inventory struct {
	Boards []BoardPreset `json:"boards"`
}

// DefaultInventory returns an inventory populated with common sheet sizes.
func DefaultInventory() Inventory {
	return Inventory{
		Boards: []BoardPreset{
			NewBoardPreset("ply-2440x1220", "Plywood 2440x1220 (8'x4')", 2440, 1220, "Plywood"),
			NewBoardPreset("mdf-2440x1220", "MDF 2440x1220 (8'x4')", 2440, 1220, "MDF"),
			NewBoardPreset("mdf-1220x610", "MDF 1220x610 (4'x2')", 1220, 610, "MDF"),
			NewBoardPreset("ply-1220x610", "Plywood 1220x610 (4'x2')", 1220, 610, "Plywood"),
			NewBoardPreset("chip-2800x2070", "Chipboard 2800x2070", 2800, 2070, "Chipboard"),
			NewBoardPreset("osb-2500x1250", "OSB 2500x1250", 2500, 1250, "OSB"),
		},
	}
}

// FindByID returns a pointer to the preset with the given ID, or nil.
func (inv *Inventory) FindByID(id string) *BoardPreset {
	for i := range inv.Boards {
		if inv.Boards[i].ID == id {
			return &inv.Boards[i]
		}
	}
	return nil
}

// FindByName returns a pointer to the first preset with the given name
// (case-insensitive), or nil.
func (inv *Inventory) FindByName(name string) *BoardPreset {
	for i := range inv.Boards {
		if strings.EqualFold(inv.Boards[i].Name, name) {
			return &inv.Boards[i]
		}
	}
	return nil
}

// Lookup finds a preset by ID first, then by name.
func (inv *Inventory) Lookup(key string) *BoardPreset {
	if bp := inv.FindByID(key); bp != nil {
		return bp
	}
	return inv.FindByName(key)
}

// Add appends a preset. It fails when the ID is already taken.
func (inv *Inventory) Add(bp BoardPreset) error {
	if inv.FindByID(bp.ID) != nil {
		return fmt.Errorf("%w: board preset %q already exists", ErrInvalidInput, bp.ID)
	}
	if msg := checkDims(bp.Length, bp.Width); msg != "" {
		return fmt.Errorf("%w: board preset %q: %s", ErrInvalidInput, bp.ID, msg)
	}
	inv.Boards = append(inv.Boards, bp)
	return nil
}

// Remove deletes the preset with the given ID. It reports whether one was
// found.
func (inv *Inventory) Remove(id string) bool {
	for i := range inv.Boards {
		if inv.Boards[i].ID == id {
			inv.Boards = append(inv.Boards[:i], inv.Boards[i+1:]...)
			return true
		}
	}
	return false
}

// Merge adds every preset of other whose ID is not yet present and returns
// how many were added.
func (inv *Inventory) Merge(other Inventory) int {
	ids := make(map[string]bool, len(inv.Boards))
	for _, b := range inv.Boards {
		ids[b.ID] = true
	}

	added := 0
	for _, b := range other.Boards {
		if ids[b.ID] {
			continue
		}
		inv.Boards = append(inv.Boards, b)
		ids[b.ID] = true
		added++
	}
	return added
}

// AddOffcuts stores each offcut as a preset of material "Offcut" so a later
// job can cut from it.
func (inv *Inventory) AddOffcuts(offcuts []Offcut) int {
	var presets Inventory
	for _, o := range offcuts {
		sb := o.ToStockBoard()
		presets.Boards = append(presets.Boards, NewBoardPreset(
			sb.ID,
			fmt.Sprintf("Offcut %.0fx%.0f from %s", o.Length, o.Width, o.BoardID),
			sb.Length, sb.Width, "Offcut",
		))
	}
	return inv.Merge(presets)
}

// Names returns the preset names in inventory order.
func (inv *Inventory) Names() []string {
	names := make([]string, len(inv.Boards))
	for i, b := range inv.Boards {
		names[i] = b.Name
	}
	return names
}
