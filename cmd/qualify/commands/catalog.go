package commands

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/qualify/completion"
	"github.com/teranos/qualify/errors"
)

// CatalogCmd lists the configured candidates
var CatalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the names offered by the completion provider",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := LoadConfig(cmd)
		if err != nil {
			return err
		}
		catalog, err := completion.CatalogFromConfig(cfg.Catalog)
		if err != nil {
			return err
		}

		rows := [][]string{{"Text", "Label", "Description"}}
		for _, e := range catalog.Entries() {
			rows = append(rows, []string{e.Text, e.Label, e.Description})
		}
		table, err := pterm.DefaultTable.WithHasHeader().WithData(rows).Srender()
		if err != nil {
			return errors.Wrap(err, "failed to render catalog")
		}
		fmt.Fprintln(cmd.OutOrStdout(), table)
		return nil
	},
}
