package editor

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type findState struct {
	open     bool
	input    textinput.Model
	notFound bool
}

func newFindState(st Style) findState {
	ti := textinput.New()
	ti.Prompt = "find: "
	ti.PromptStyle = st.Prompt
	ti.Placeholder = "search text"
	ti.CharLimit = 256
	return findState{input: ti}
}

// Find selects the next case-insensitive occurrence of query after the
// cursor, wrapping to the start of the document.
func (m Model) Find(query string) (Model, bool) {
	r, ok := m.c.buf.FindNext(query, m.c.buf.Cursor())
	if !ok {
		return m, false
	}
	m.c.buf.SetSelection(r)
	m.syncFromBuffer()
	m.followCursor()
	return m, true
}

// FindOpen reports whether the find prompt has focus.
func (m Model) FindOpen() bool { return m.find.open }

func (m Model) openFind() (Model, tea.Cmd) {
	m.find.open = true
	m.find.notFound = false
	m.find.input.CursorEnd()
	cmd := m.find.input.Focus()
	m.layoutViewport()
	m.followCursor()
	return m, cmd
}

func (m Model) closeFind() Model {
	m.find.open = false
	m.find.notFound = false
	m.find.input.Blur()
	m.layoutViewport()
	m.followCursor()
	return m
}

func (m Model) updateFind(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		return m.closeFind(), nil
	case tea.KeyEnter:
		var ok bool
		m, ok = m.Find(m.find.input.Value())
		m.find.notFound = !ok && m.find.input.Value() != ""
		return m, nil
	}

	var cmd tea.Cmd
	m.find.input, cmd = m.find.input.Update(msg)
	m.find.notFound = false
	return m, cmd
}

func (m Model) renderFind() string {
	s := m.find.input.View()
	if m.find.notFound {
		s += m.c.style.PromptNote.Render("  no match")
	}
	return s
}
