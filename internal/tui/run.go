package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run opens the interactive findings browser for repo. rescanFunc may be nil.
func Run(repo string, res Result, rescanFunc func() (Result, error)) error {
	m := NewModel(repo, res, rescanFunc)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
