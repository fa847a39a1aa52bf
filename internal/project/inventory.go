package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/BoardFit/internal/model"
)

// DefaultInventoryPath returns the default file path for the board
// inventory. This is located at ~/.boardfit/inventory.json.
func DefaultInventoryPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".boardfit", "inventory.json"), nil
}

// SaveInventory writes the inventory to the specified JSON file.
// It creates parent directories if they do not exist.
func SaveInventory(path string, inv model.Inventory) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create inventory directory: %w", err)
	}
	if inv.Boards == nil {
		inv.Boards = []model.BoardPreset{}
	}
	data, err := json.MarshalIndent(inv, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode inventory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write inventory: %w", err)
	}
	return nil
}

// LoadInventory reads the inventory from the specified JSON file.
// If the file does not exist, it returns the default inventory and saves it.
func LoadInventory(path string) (model.Inventory, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		inv := model.DefaultInventory()
		return inv, SaveInventory(path, inv)
	}
	if err != nil {
		return model.Inventory{}, fmt.Errorf("failed to read inventory: %w", err)
	}
	return decodeInventory(data)
}

// ImportInventory merges the presets of another inventory file into
// existing. Presets whose ID is already present are skipped.
func ImportInventory(path string, existing model.Inventory) (model.Inventory, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return existing, 0, fmt.Errorf("failed to read inventory: %w", err)
	}
	imported, err := decodeInventory(data)
	if err != nil {
		return existing, 0, err
	}
	added := existing.Merge(imported)
	return existing, added, nil
}

func decodeInventory(data []byte) (model.Inventory, error) {
	var inv model.Inventory
	if err := json.Unmarshal(data, &inv); err != nil {
		return model.Inventory{}, fmt.Errorf("failed to parse inventory: %w", err)
	}
	return inv, nil
}
