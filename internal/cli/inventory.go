package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/piwi3910/BoardFit/internal/importer"
	"github.com/piwi3910/BoardFit/internal/logger"
	"github.com/piwi3910/BoardFit/internal/model"
	"github.com/piwi3910/BoardFit/internal/project"
)

func inventoryPath(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	return project.DefaultInventoryPath()
}

func loadInventory(path string) (model.Inventory, string, error) {
	path, err := inventoryPath(path)
	if err != nil {
		return model.Inventory{}, "", err
	}
	inv, err := project.LoadInventory(path)
	return inv, path, err
}

// parseStockSpec splits "KEY[:QTY]". The quantity defaults to 1.
func parseStockSpec(spec string) (string, int, error) {
	key, qtyText, hasQty := strings.Cut(spec, ":")
	key = strings.TrimSpace(key)
	if key == "" {
		return "", 0, fmt.Errorf("invalid --stock %q: missing preset", spec)
	}
	if !hasQty {
		return key, 1, nil
	}
	qty, err := strconv.Atoi(strings.TrimSpace(qtyText))
	if err != nil || qty < 1 {
		return "", 0, fmt.Errorf("invalid --stock %q: quantity must be a positive integer", spec)
	}
	if qty > importer.MaxQuantity {
		return "", 0, fmt.Errorf("invalid --stock %q: quantity exceeds the maximum of %d", spec, importer.MaxQuantity)
	}
	return key, qty, nil
}

// stockBoards expands --stock specs into boards from the inventory.
func stockBoards(inv model.Inventory, specs []string) ([]model.StockBoard, error) {
	var boards []model.StockBoard
	for _, spec := range specs {
		key, qty, err := parseStockSpec(spec)
		if err != nil {
			return nil, err
		}
		bp := inv.Lookup(key)
		if bp == nil {
			return nil, fmt.Errorf("unknown board preset %q (see boardfit inventory list)", key)
		}
		boards = append(boards, bp.ToStockBoards(qty)...)
	}
	return boards, nil
}

func inventoryCmd() *cobra.Command {
	var path string

	c := &cobra.Command{
		Use:   "inventory",
		Short: "Manage saved board presets",
		Long: `The inventory holds board presets that pack and compare can draw on with
--stock PRESET[:QTY]. Offcuts kept with pack --keep-offcuts are stored here too.`,
	}
	c.PersistentFlags().StringVar(&path, "inventory", "", "Inventory file (default ~/.boardfit/inventory.json)")

	c.AddCommand(
		inventoryListCmd(&path),
		inventoryAddCmd(&path),
		inventoryRemoveCmd(&path),
		inventoryImportCmd(&path),
	)
	return c
}

func inventoryListCmd(path *string) *cobra.Command {
	var format string

	c := &cobra.Command{
		Use:   "list",
		Short: "List board presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			inv, _, err := loadInventory(*path)
			if err != nil {
				return err
			}
			return printInventory(cmd.OutOrStdout(), inv, format)
		},
	}
	c.Flags().StringVar(&format, "format", "text", "Output format: text|json")
	return c
}

func inventoryAddCmd(path *string) *cobra.Command {
	var (
		id, name, material string
		length, width      float64
	)

	c := &cobra.Command{
		Use:     "add",
		Short:   "Add a board preset",
		Example: `  boardfit inventory add --id birch-18 --name "Birch 18mm" --length 2500 --width 1250 --material Birch`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			inv, p, err := loadInventory(*path)
			if err != nil {
				return err
			}
			if name == "" {
				name = fmt.Sprintf("%s %.0fx%.0f", material, length, width)
			}
			bp := model.NewBoardPreset(id, strings.TrimSpace(name), length, width, material)
			if err := inv.Add(bp); err != nil {
				return err
			}
			if err := project.SaveInventory(p, inv); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s\n", bp.ID)
			return nil
		},
	}

	fs := c.Flags()
	fs.StringVar(&id, "id", "", "Preset ID (generated when empty)")
	fs.StringVar(&name, "name", "", "Display name")
	fs.Float64Var(&length, "length", 0, "Board length in mm")
	fs.Float64Var(&width, "width", 0, "Board width in mm")
	fs.StringVar(&material, "material", "", "Material")
	_ = c.MarkFlagRequired("length")
	_ = c.MarkFlagRequired("width")
	return c
}

func inventoryRemoveCmd(path *string) *cobra.Command {
	return &cobra.Command{
		Use:   "remove ID",
		Short: "Remove a board preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, p, err := loadInventory(*path)
			if err != nil {
				return err
			}
			if !inv.Remove(args[0]) {
				return fmt.Errorf("unknown board preset %q", args[0])
			}
			if err := project.SaveInventory(p, inv); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
			return nil
		},
	}
}

func inventoryImportCmd(path *string) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Merge the presets of another inventory file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, p, err := loadInventory(*path)
			if err != nil {
				return err
			}
			inv, added, err := project.ImportInventory(args[0], inv)
			if err != nil {
				return err
			}
			if err := project.SaveInventory(p, inv); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d preset(s)\n", added)
			return nil
		},
	}
}

func printInventory(w io.Writer, inv model.Inventory, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(inv)
	case "text", "":
	default:
		return fmt.Errorf("unsupported format %q (expected text|json)", format)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tName\tSize\tMaterial")
	for _, b := range inv.Boards {
		fmt.Fprintf(tw, "%s\t%s\t%.0f x %.0f\t%s\n", b.ID, b.Name, b.Length, b.Width, b.Material)
	}
	return tw.Flush()
}

// keepOffcuts stores the reusable offcuts of a result in the inventory.
func keepOffcuts(path string, result *model.Result) error {
	inv, p, err := loadInventory(path)
	if err != nil {
		return err
	}
	added := inv.AddOffcuts(result.Offcuts())
	if err := project.SaveInventory(p, inv); err != nil {
		return err
	}
	logger.L().Info("offcuts kept", "added", added, "inventory", p)
	return nil
}
