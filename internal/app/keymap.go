package app

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the session keys that sit above the editor.
type KeyMap struct {
	Quit      key.Binding
	Help      key.Binding
	CloseHelp key.Binding
	// Format publishes a format intent on the bus instead of calling the
	// editor directly.
	Format key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit:      key.NewBinding(key.WithKeys("ctrl+q"), key.WithHelp("ctrl+q", "quit")),
		Help:      key.NewBinding(key.WithKeys("f1"), key.WithHelp("f1", "help")),
		CloseHelp: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close help")),
		Format:    key.NewBinding(key.WithKeys("f2"), key.WithHelp("f2", "format")),
	}
}

func (km KeyMap) bindings() []key.Binding {
	return []key.Binding{km.Format, km.Help, km.Quit}
}
