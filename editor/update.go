package editor

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/iw2rmb/navedit/buffer"
	"github.com/iw2rmb/navedit/intent"
	graphemeutil "github.com/iw2rmb/navedit/internal/grapheme"
	"github.com/iw2rmb/navedit/internal/logging"
)

func (m Model) updateKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if !m.focused {
		return m, nil
	}
	km := m.c.cfg.KeyMap

	// Command shortcuts are consumed before the find prompt and text
	// handling, and fire in read-only mode too.
	switch {
	case key.Matches(msg, km.Save):
		m.publish(intent.Save)
		return m, nil
	case key.Matches(msg, km.Refresh):
		m.publish(intent.Refresh)
		return m, nil
	case key.Matches(msg, km.Download):
		m.publish(intent.Download)
		return m, nil
	case key.Matches(msg, km.Format):
		return m.FormatDocument(), nil
	case m.find.open:
		return m.updateFind(msg)
	case key.Matches(msg, km.Find):
		return m.openFind()
	case key.Matches(msg, km.ToggleFold):
		m.completion = CompletionState{}
		return m.ToggleFold(), nil
	}

	if next, ok := m.updateCompletion(msg); ok {
		return next, nil
	}

	buf := m.c.buf
	readOnly := m.c.cfg.Disabled
	before := buf.TextVersion()

	// Paste events should always insert literal text and never trigger shortcuts.
	if msg.Type == tea.KeyRunes && msg.Paste && len(msg.Runes) > 0 {
		if !readOnly {
			buf.InsertText(normalizeNewlines(string(msg.Runes)))
		}
		m.completion = CompletionState{}
		return m.afterKey(before), nil
	}

	switch {
	case key.Matches(msg, km.Left):
		buf.Move(buffer.Move{Unit: buffer.MoveGrapheme, Dir: buffer.DirLeft})
	case key.Matches(msg, km.Right):
		buf.Move(buffer.Move{Unit: buffer.MoveGrapheme, Dir: buffer.DirRight})
	case key.Matches(msg, km.Up):
		buf.Move(buffer.Move{Unit: buffer.MoveGrapheme, Dir: buffer.DirUp})
		m.stepOverFold(buffer.DirUp)
	case key.Matches(msg, km.Down):
		buf.Move(buffer.Move{Unit: buffer.MoveGrapheme, Dir: buffer.DirDown})
		m.stepOverFold(buffer.DirDown)

	case key.Matches(msg, km.ShiftLeft):
		buf.Move(buffer.Move{Unit: buffer.MoveGrapheme, Dir: buffer.DirLeft, Extend: true})
	case key.Matches(msg, km.ShiftRight):
		buf.Move(buffer.Move{Unit: buffer.MoveGrapheme, Dir: buffer.DirRight, Extend: true})
	case key.Matches(msg, km.ShiftUp):
		buf.Move(buffer.Move{Unit: buffer.MoveGrapheme, Dir: buffer.DirUp, Extend: true})
	case key.Matches(msg, km.ShiftDown):
		buf.Move(buffer.Move{Unit: buffer.MoveGrapheme, Dir: buffer.DirDown, Extend: true})

	case key.Matches(msg, km.WordLeft):
		buf.Move(buffer.Move{Unit: buffer.MoveWord, Dir: buffer.DirLeft})
	case key.Matches(msg, km.WordRight):
		buf.Move(buffer.Move{Unit: buffer.MoveWord, Dir: buffer.DirRight})

	case key.Matches(msg, km.Home):
		buf.Move(buffer.Move{Unit: buffer.MoveLine, Dir: buffer.DirHome})
	case key.Matches(msg, km.End):
		buf.Move(buffer.Move{Unit: buffer.MoveLine, Dir: buffer.DirEnd})
	case key.Matches(msg, km.DocStart):
		buf.Move(buffer.Move{Unit: buffer.MoveDoc, Dir: buffer.DirHome})
	case key.Matches(msg, km.DocEnd):
		buf.Move(buffer.Move{Unit: buffer.MoveDoc, Dir: buffer.DirEnd})
	case key.Matches(msg, km.PageUp):
		m.movePage(buffer.DirUp)
	case key.Matches(msg, km.PageDown):
		m.movePage(buffer.DirDown)

	case key.Matches(msg, km.Backspace):
		if !readOnly {
			buf.DeleteBackward()
		}
	case key.Matches(msg, km.Delete):
		if !readOnly {
			buf.DeleteForward()
		}
	case key.Matches(msg, km.Enter):
		if !readOnly {
			buf.InsertNewline()
		}
	case key.Matches(msg, km.Tab):
		if !readOnly {
			m.indent()
		}

	case key.Matches(msg, km.Undo):
		if !readOnly {
			_ = buf.Undo()
		}
	case key.Matches(msg, km.Redo):
		if !readOnly {
			_ = buf.Redo()
		}

	case key.Matches(msg, km.Copy):
		m.copySelection()
	case key.Matches(msg, km.Cut):
		if !readOnly {
			m.cutSelection()
		} else {
			m.copySelection()
		}
	case key.Matches(msg, km.Paste):
		if !readOnly {
			m.pasteClipboard()
		}
	case key.Matches(msg, km.SelectAll):
		m.selectAll()

	default:
		if msg.Type == tea.KeySpace && !readOnly {
			buf.InsertText(" ")
			break
		}
		if msg.Type == tea.KeyRunes && len(msg.Runes) > 0 && !msg.Alt {
			if !readOnly {
				buf.InsertText(string(msg.Runes))
			}
		}
	}

	m.trackCompletion(msg, buf.TextVersion() != before)
	return m.afterKey(before), nil
}

// afterKey notifies the host when the key changed the text and keeps the
// cursor in view.
func (m Model) afterKey(textVersionBefore uint64) Model {
	if m.c.buf.TextVersion() != textVersionBefore {
		m.c.notifyChange()
	}
	m.syncFromBuffer()
	m.followCursor()
	return m
}

func (m Model) publish(name intent.Name) {
	n := m.c.cfg.Bus.Publish(name)
	m.c.logger.Debug("intent published", logging.FieldIntent, string(name), "listeners", n)
}

func (m Model) movePage(dir buffer.MoveDir) {
	steps := maxInt(m.viewport.Height-1, 1)
	for i := 0; i < steps; i++ {
		m.c.buf.Move(buffer.Move{Unit: buffer.MoveGrapheme, Dir: dir})
	}
}

func (m Model) selectAll() {
	buf := m.c.buf
	last := buf.LineCount() - 1
	end := buffer.Pos{Row: last, GraphemeCol: graphemeutil.Count(buf.Line(last))}
	buf.SetSelection(buffer.Range{Start: buffer.Pos{}, End: end})
}

func (m Model) copySelection() {
	if m.c.cfg.Clipboard == nil {
		return
	}
	r, ok := m.c.buf.Selection()
	if !ok {
		return
	}
	s := m.c.buf.TextInRange(r)
	if s == "" {
		return
	}
	_ = m.c.cfg.Clipboard.WriteText(s)
}

func (m Model) cutSelection() {
	if m.c.cfg.Clipboard == nil {
		return
	}
	r, ok := m.c.buf.Selection()
	if !ok {
		return
	}
	if s := m.c.buf.TextInRange(r); s != "" {
		_ = m.c.cfg.Clipboard.WriteText(s)
	}
	m.c.buf.DeleteSelection()
}

func (m Model) pasteClipboard() {
	if m.c.cfg.Clipboard == nil {
		return
	}
	s, err := m.c.cfg.Clipboard.ReadText()
	if err != nil || s == "" {
		return
	}
	m.c.buf.InsertText(normalizeNewlines(s))
}

// normalizeNewlines converts newlines from external sources to "\n".
func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// indent inserts TabWidth spaces at the cursor, or at the start of every line
// a multi-line selection touches as a single undo step.
func (m Model) indent() {
	buf := m.c.buf
	unit := strings.Repeat(" ", m.c.cfg.TabWidth)
	sel, ok := buf.Selection()
	if !ok || sel.Start.Row == sel.End.Row {
		buf.InsertText(unit)
		return
	}

	last := sel.End.Row
	if sel.End.GraphemeCol == 0 {
		last--
	}
	edits := make([]buffer.TextEdit, 0, last-sel.Start.Row+1)
	for row := sel.Start.Row; row <= last; row++ {
		at := buffer.Pos{Row: row}
		edits = append(edits, buffer.TextEdit{Range: buffer.Range{Start: at, End: at}, Text: unit})
	}
	buf.Apply(edits...)
}
