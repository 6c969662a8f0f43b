package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the client on the alternate screen and blocks until the user
// quits or ctx is cancelled.
func Run(ctx context.Context, factory ViewFactory, opts ...Option) error {
	m, err := New(ctx, factory, opts...)
	if err != nil {
		return fmt.Errorf("tui: build view: %w", err)
	}
	program := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("tui: run: %w", err)
	}
	return nil
}
