// Package tui is the interactive admin terminal: a command line, the
// rendered response of the last command, the form widgets that response
// carries and the image console.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

func Run(ctx context.Context, opts Options) error {
	applyThemePreference(opts.Theme)
	applyColorProfilePreference()

	m := newAppModel(ctx, opts)
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
