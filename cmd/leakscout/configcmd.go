package leakscout

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/leakscout/leakscout/internal/config"
)

func newConfigCmd() *cobra.Command {
	cfgCmd := &cobra.Command{Use: "config", Short: "Configuration helpers"}

	var output string
	var global, force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter .leakscout.yml",
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := output
			if global {
				dir, err := config.GlobalDir()
				if err != nil {
					return err
				}
				path = filepath.Join(dir, "config.yml")
			}
			if err := config.Write(path, config.Starter(), force); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Wrote", path)
			return nil
		},
	}
	initCmd.Flags().StringVar(&output, "output", ".leakscout.yml", "output file path")
	initCmd.Flags().BoolVar(&global, "global", false, "write the global config instead")
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	cfgCmd.AddCommand(initCmd)

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the global config directory",
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, err := config.GlobalDir()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	})
	return cfgCmd
}
