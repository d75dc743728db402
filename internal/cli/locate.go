package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/labelsheet/pkg/errors"
	"github.com/matzehuels/labelsheet/pkg/layout"
)

// locateCommand prints where the item at an input position is printed.
func (c *CLI) locateCommand() *cobra.Command {
	var (
		grid   gridFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "locate <index>",
		Short: "Show the page and slot of the item at a zero-based input position",
		Example: `  labelsheet locate 25
  labelsheet locate 25 --columns 3 --rows 8 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[0])
			if err != nil {
				return errors.New(errors.ErrCodeInvalidInput, "index must be an integer, got %q", args[0])
			}
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			g := cfg.Grid
			grid.apply(cmd, &g)

			slot, err := layout.Locate(index, g)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(slot)
			}
			printSlot(slot, g)
			return nil
		},
	}

	grid.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the slot as JSON")
	return cmd
}

// printSlot prints a slot with one-based page, row and column numbers.
func printSlot(s layout.Slot, g layout.GridConfig) {
	printKeyValue("Item", StyleNumber.Render(strconv.Itoa(s.Index)))
	printKeyValue("Page", fmt.Sprintf("%d", s.PageIndex+1))
	printKeyValue("Position", fmt.Sprintf("%d of %d", s.Within+1, g.ItemsPerPage()))
	printKeyValue("Row", fmt.Sprintf("%d of %d", s.Row+1, g.Rows))
	printKeyValue("Column", fmt.Sprintf("%d of %d", s.Column+1, g.Columns))
	printKeyValue("Offset", fmt.Sprintf("%.1f × %.1f mm", s.X, s.Y))
}
