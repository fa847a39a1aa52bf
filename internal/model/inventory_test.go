package model

import (
	"errors"
	"testing"
)

func TestBoardPresetToStockBoards(t *testing.T) {
	bp := NewBoardPreset("ply", "Plywood 2440x1220", 2440, 1220, "Plywood")
	boards := bp.ToStockBoards(3)

	if len(boards) != 3 {
		t.Fatalf("expected 3 boards, got %d", len(boards))
	}
	for i, b := range boards {
		if b.Length != 2440 || b.Width != 1220 {
			t.Errorf("board %d: expected 2440x1220, got %.0fx%.0f", i, b.Length, b.Width)
		}
	}
	if boards[0].ID != "ply-1" || boards[2].ID != "ply-3" {
		t.Errorf("unexpected board IDs %q, %q", boards[0].ID, boards[2].ID)
	}
	if err := ValidateInput([]Part{NewPart("p", 10, 10)}, boards); err != nil {
		t.Errorf("expected boards from one preset to be valid input, got %v", err)
	}
}

func TestBoardPresetZeroQuantity(t *testing.T) {
	bp := NewBoardPreset("", "Scrap", 500, 500, "MDF")
	if bp.ID == "" {
		t.Error("expected a generated ID")
	}
	if boards := bp.ToStockBoards(0); len(boards) != 0 {
		t.Errorf("expected no boards, got %d", len(boards))
	}
}

func TestInventoryLookup(t *testing.T) {
	inv := DefaultInventory()

	if bp := inv.Lookup("mdf-1220x610"); bp == nil || bp.Length != 1220 {
		t.Errorf("expected lookup by ID to find mdf-1220x610, got %+v", bp)
	}
	if bp := inv.Lookup("plywood 2440x1220 (8'x4')"); bp == nil || bp.ID != "ply-2440x1220" {
		t.Errorf("expected case-insensitive lookup by name, got %+v", bp)
	}
	if bp := inv.Lookup("nothing"); bp != nil {
		t.Errorf("expected nil for unknown key, got %+v", bp)
	}
}

func TestInventoryAddAndRemove(t *testing.T) {
	var inv Inventory

	if err := inv.Add(NewBoardPreset("a", "A", 100, 100, "MDF")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := inv.Add(NewBoardPreset("a", "Again", 200, 200, "MDF")); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for duplicate ID, got %v", err)
	}
	if err := inv.Add(NewBoardPreset("b", "Flat", 100, 0, "MDF")); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for zero width, got %v", err)
	}
	if len(inv.Boards) != 1 {
		t.Fatalf("expected 1 preset, got %d", len(inv.Boards))
	}

	if !inv.Remove("a") {
		t.Error("expected Remove to find preset a")
	}
	if inv.Remove("a") {
		t.Error("expected second Remove to report false")
	}
	if len(inv.Boards) != 0 {
		t.Errorf("expected empty inventory, got %d presets", len(inv.Boards))
	}
}

func TestInventoryMergeSkipsExistingIDs(t *testing.T) {
	inv := Inventory{Boards: []BoardPreset{{ID: "a", Name: "Existing"}}}
	added := inv.Merge(Inventory{Boards: []BoardPreset{
		{ID: "a", Name: "Duplicate"},
		{ID: "b", Name: "New"},
		{ID: "b", Name: "New again"},
	}})

	if added != 1 {
		t.Errorf("expected 1 preset added, got %d", added)
	}
	if len(inv.Boards) != 2 || inv.Boards[0].Name != "Existing" || inv.Boards[1].Name != "New" {
		t.Errorf("unexpected inventory after merge: %+v", inv.Boards)
	}
}

func TestInventoryAddOffcuts(t *testing.T) {
	offcuts := []Offcut{
		{ID: "x1", BoardID: "B1", Length: 600, Width: 1220},
		{ID: "x2", BoardID: "B1", Length: 400, Width: 200},
	}

	var inv Inventory
	if n := inv.AddOffcuts(offcuts); n != 2 {
		t.Fatalf("expected 2 presets added, got %d", n)
	}
	bp := inv.FindByID("B1-offcut-x1")
	if bp == nil {
		t.Fatal("expected preset B1-offcut-x1")
	}
	if bp.Material != "Offcut" || bp.Length != 600 || bp.Width != 1220 {
		t.Errorf("unexpected offcut preset %+v", *bp)
	}

	if n := inv.AddOffcuts(offcuts); n != 0 {
		t.Errorf("expected re-adding the same offcuts to add nothing, got %d", n)
	}
}

func TestInventoryNames(t *testing.T) {
	inv := DefaultInventory()
	names := inv.Names()
	if len(names) != len(inv.Boards) {
		t.Fatalf("expected %d names, got %d", len(inv.Boards), len(names))
	}
	if names[0] != inv.Boards[0].Name {
		t.Errorf("expected first name %q, got %q", inv.Boards[0].Name, names[0])
	}
}
