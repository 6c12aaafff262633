package leakscout

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func pickString(cli string, local, global *string) string {
	if cli != "" {
		return cli
	}
	if local != nil && *local != "" {
		return *local
	}
	if global != nil && *global != "" {
		return *global
	}
	return ""
}

func pickInt(cli int, local, global *int) int {
	if cli != 0 {
		return cli
	}
	if local != nil && *local != 0 {
		return *local
	}
	if global != nil && *global != 0 {
		return *global
	}
	return 0
}

// pickInt64 treats zero as a real value, so "unset" is a nil pointer.
func pickInt64(cli, local, global *int64, def int64) int64 {
	for _, v := range []*int64{cli, local, global} {
		if v != nil {
			return *v
		}
	}
	return def
}

// pickBool takes the CLI value only when the flag was set, so an explicit
// --flag=false still overrides a config true.
func pickBool(cli, local, global *bool) bool {
	for _, v := range []*bool{cli, local, global} {
		if v != nil {
			return *v
		}
	}
	return false
}

// changedBool returns &v when the named flag was given on the command line.
func changedBool(cmd *cobra.Command, name string, v bool) *bool {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &v
}

// pickStrings unions list settings from every layer, CLI first, dropping
// blanks and duplicates.
func pickStrings(layers ...[]string) []string {
	seen := map[string]bool{}
	var out []string
	for _, layer := range layers {
		for _, v := range layer {
			v = strings.TrimSpace(v)
			if v == "" || seen[v] {
				continue
			}
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
