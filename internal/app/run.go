package app

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/iw2rmb/navedit/editor"
)

// ResolveTheme maps a configured theme name to an editor theme. "auto" asks
// the terminal for its background.
func ResolveTheme(name string) editor.Theme {
	return resolveTheme(name, lipgloss.HasDarkBackground)
}

func resolveTheme(name string, hasDark func() bool) editor.Theme {
	switch name {
	case string(editor.ThemeDark):
		return editor.ThemeDark
	case string(editor.ThemeLight):
		return editor.ThemeLight
	}
	if hasDark() {
		return editor.ThemeDark
	}
	return editor.ThemeLight
}

// Run starts the session full-screen and blocks until it quits.
func Run(ctx context.Context, m Model, opts ...tea.ProgramOption) (Model, error) {
	opts = append([]tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	}, opts...)

	final, err := tea.NewProgram(m, opts...).Run()
	if fm, ok := final.(Model); ok {
		m = fm
	}
	m.Close()
	if err != nil {
		return m, fmt.Errorf("run editor: %w", err)
	}
	return m, nil
}
