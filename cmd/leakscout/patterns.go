package leakscout

import (
	"errors"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/leakscout/leakscout/internal/config"
	"github.com/leakscout/leakscout/internal/detectors"
)

func newPatternsCmd() *cobra.Command {
	var idsOnly, builtin bool
	cmd := &cobra.Command{
		Use:     "patterns",
		Aliases: []string{"detectors"},
		Short:   "List the secret patterns a scan applies",
		Long:    "List the pattern catalog in match order: the built-in patterns minus those disabled in configuration, followed by custom patterns.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat := detectors.Default()
			if !builtin {
				var err error
				if cat, err = configuredCatalog(); err != nil {
					return err
				}
			}
			out := cmd.OutOrStdout()
			if idsOnly {
				for _, id := range cat.IDs() {
					fmt.Fprintln(out, id)
				}
				return nil
			}
			table := tablewriter.NewWriter(out)
			table.Header("ID", "Name", "Severity")
			for _, p := range cat.Patterns() {
				if err := table.Append([]string{p.ID, p.Name, string(p.Severity)}); err != nil {
					return err
				}
			}
			return table.Render()
		},
	}
	cmd.Flags().BoolVar(&idsOnly, "ids", false, "print pattern IDs only")
	cmd.Flags().BoolVar(&builtin, "builtin", false, "ignore configuration files")
	return cmd
}

func configuredCatalog() (*detectors.Catalog, error) {
	global, err := config.LoadGlobal()
	if err != nil && !errors.Is(err, config.ErrNoConfig) {
		return nil, err
	}
	local, err := config.LoadLocal(".")
	if err != nil && !errors.Is(err, config.ErrNoConfig) {
		return nil, err
	}
	fc := config.FileConfig{
		Disable:  pickStrings(local.Disable, global.Disable),
		Patterns: append(append([]config.PatternConfig{}, global.Patterns...), local.Patterns...),
	}
	return fc.Catalog()
}
