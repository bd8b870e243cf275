package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the UI on the terminal and blocks until the user quits.
func Run(ctx context.Context, deps Deps) error {
	p := tea.NewProgram(New(ctx, deps), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
