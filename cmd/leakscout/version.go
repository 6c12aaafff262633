package leakscout

import (
	"fmt"
	"runtime/debug"

	gh "github.com/google/go-github/v30/github"
	"github.com/spf13/cobra"

	"github.com/leakscout/leakscout/internal/update"
)

// buildVersion prefers the ldflags version and falls back to the module
// version recorded by "go install".
func buildVersion() string {
	if version != "" && version != "0.1.0" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return version
}

func newVersionCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version and check for a newer release",
		RunE: func(cmd *cobra.Command, _ []string) error {
			v := buildVersion()
			fmt.Fprintf(cmd.OutOrStdout(), "leakscout %s\n", v)
			if root.noUpdateCheck {
				return nil
			}
			latest, newer, _ := update.Check(cmd.Context(), v, update.LatestFromGitHub(gh.NewClient(nil)))
			if newer {
				fmt.Fprintf(cmd.OutOrStdout(), "new version available: v%s (run 'leakscout update')\n", latest)
			}
			return nil
		},
	}
}

func newUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Update leakscout to the latest release",
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, err := update.Apply(buildVersion())
			if err != nil {
				return fmt.Errorf("update failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated to v%s\n", v)
			return nil
		},
	}
}
