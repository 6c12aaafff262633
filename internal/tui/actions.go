package tui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/leakscout/leakscout/internal/types"
)

// clipboardWrite is swapped in tests; headless CI has no clipboard.
var clipboardWrite = clipboard.WriteAll

// copyPathToClipboard copies the current finding's path:line to clipboard.
func (m Model) copyPathToClipboard() tea.Cmd {
	f, ok := m.selected()
	if !ok {
		return func() tea.Msg { return statusMsg("No finding selected") }
	}
	ref := fmt.Sprintf("%s:%d", f.Path, f.Line)
	if err := clipboardWrite(ref); err != nil {
		return func() tea.Msg { return statusMsg(fmt.Sprintf("Clipboard error: %v", err)) }
	}
	return func() tea.Msg { return statusMsg("Copied: " + ref) }
}

// copyFindingToClipboard copies full finding details to clipboard.
func (m Model) copyFindingToClipboard() tea.Cmd {
	f, ok := m.selected()
	if !ok {
		return func() tea.Msg { return statusMsg("No finding selected") }
	}
	if err := clipboardWrite(findingText(m.repo, f, m.hideSecrets)); err != nil {
		return func() tea.Msg { return statusMsg(fmt.Sprintf("Clipboard error: %v", err)) }
	}
	return func() tea.Msg { return statusMsg("Copied finding details to clipboard") }
}

func findingText(repo string, f types.Finding, hide bool) string {
	match := f.Match
	if hide {
		match = redactSecret(match)
	}
	var sb strings.Builder
	if repo != "" {
		fmt.Fprintf(&sb, "Repository: %s\n", repo)
	}
	fmt.Fprintf(&sb, "Path: %s\n", f.Path)
	fmt.Fprintf(&sb, "Line: %d\n", f.Line)
	fmt.Fprintf(&sb, "Type: %s\n", f.Type)
	fmt.Fprintf(&sb, "Severity: %s\n", f.Severity)
	fmt.Fprintf(&sb, "Match: %s\n", match)
	if f.Context != "" && !hide {
		fmt.Fprintf(&sb, "\nContext:\n%s\n", f.Context)
	}
	return sb.String()
}
