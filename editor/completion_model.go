package editor

import (
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/iw2rmb/navedit/buffer"
	graphemeutil "github.com/iw2rmb/navedit/internal/grapheme"
	"github.com/iw2rmb/navedit/internal/logging"
	"github.com/iw2rmb/navedit/navigation"
)

var navigationKeys = sync.OnceValue(navigation.Keys)

func (m Model) CompletionState() CompletionState {
	return cloneCompletionState(m.completion)
}

// SetCompletionState replaces the popup state. Nil VisibleIndices are
// recomputed from Query; out-of-range indices are dropped.
func (m Model) SetCompletionState(state CompletionState) Model {
	m.completion = cloneCompletionState(state)
	if state.VisibleIndices == nil {
		m.refilterCompletion()
		return m
	}
	kept := m.completion.VisibleIndices[:0]
	for _, i := range m.completion.VisibleIndices {
		if i >= 0 && i < len(m.completion.Items) {
			kept = append(kept, i)
		}
	}
	m.completion.VisibleIndices = kept
	m.completion.Selected = clampCompletionSelected(m.completion.Selected, len(kept))
	return m
}

func (m Model) ClearCompletion() Model {
	m.completion = CompletionState{}
	return m
}

func (m Model) completionEnabled() bool {
	return m.c.cfg.Completion != nil && !m.c.cfg.Disabled && !m.find.open
}

func (m *Model) refilterCompletion() {
	st := &m.completion
	st.VisibleIndices = filterCompletions(st.Items, st.Query)
	st.Selected = clampCompletionSelected(st.Selected, len(st.VisibleIndices))
}

// openCompletion shows the popup for the key name left of the cursor. With
// auto set it only opens after the opening quote of an object key. The popup
// stays closed when nothing matches.
func (m *Model) openCompletion(auto bool) bool {
	m.completion = CompletionState{}
	buf := m.c.buf
	if _, ok := buf.Selection(); ok {
		return false
	}
	cur := buf.Cursor()
	clusters := graphemeutil.Split(buf.Line(cur.Row))
	col := min(cur.GraphemeCol, len(clusters))
	start := col
	for start > 0 && isKeyText(clusters[start-1]) {
		start--
	}
	before := strings.Join(clusters[:start], "")
	if auto && !inKeyPosition(before) {
		return false
	}

	ctx := CompletionContext{
		Anchor: buffer.Pos{Row: cur.Row, GraphemeCol: start},
		Cursor: cur,
		Query:  strings.Join(clusters[start:col], ""),
		Before: before,
		After:  strings.Join(clusters[col:], ""),
	}
	m.completion = CompletionState{
		Visible: true,
		Anchor:  ctx.Anchor,
		Query:   ctx.Query,
		Items:   m.c.cfg.Completion(ctx),
	}
	m.refilterCompletion()
	if len(m.completion.VisibleIndices) == 0 {
		m.completion = CompletionState{}
		return false
	}
	return true
}

// updateCompletion routes popup keys. It reports false for keys that belong
// to the text.
func (m Model) updateCompletion(msg tea.KeyMsg) (Model, bool) {
	if !m.completionEnabled() {
		m.completion = CompletionState{}
		return m, false
	}
	km := m.c.cfg.CompletionKeyMap
	if key.Matches(msg, km.Trigger) {
		m.openCompletion(false)
		return m, true
	}
	if !m.completion.Visible {
		return m, false
	}

	st := &m.completion
	last := len(st.VisibleIndices) - 1
	page := defaultCompletionMaxVisibleRows
	switch {
	case key.Matches(msg, km.Dismiss):
		m.completion = CompletionState{}
	case km.accepts(msg):
		return m.acceptCompletion(), true
	case key.Matches(msg, km.Next):
		st.Selected = clampInt(st.Selected+1, 0, max(last, 0))
	case key.Matches(msg, km.Prev):
		st.Selected = clampInt(st.Selected-1, 0, max(last, 0))
	case key.Matches(msg, km.PageNext):
		st.Selected = clampInt(st.Selected+page, 0, max(last, 0))
	case key.Matches(msg, km.PagePrev):
		st.Selected = clampInt(st.Selected-page, 0, max(last, 0))
	default:
		return m, false
	}
	return m, true
}

// trackCompletion follows a key that reached the text: typing or deleting
// inside the query re-filters the popup, anything else closes it.
func (m *Model) trackCompletion(msg tea.KeyMsg, textChanged bool) {
	if !m.completionEnabled() {
		m.completion = CompletionState{}
		return
	}
	typed := msg.Type == tea.KeyRunes && !msg.Alt && isKeyText(string(msg.Runes))
	if !m.completion.Visible {
		if typed && textChanged {
			m.openCompletion(true)
		}
		return
	}

	deleted := key.Matches(msg, m.c.cfg.KeyMap.Backspace)
	cur := m.c.buf.Cursor()
	anchor := m.completion.Anchor
	if !textChanged || !(typed || deleted) || cur.Row != anchor.Row || cur.GraphemeCol < anchor.GraphemeCol {
		m.completion = CompletionState{}
		return
	}
	query := m.c.buf.TextInRange(buffer.Range{Start: anchor, End: cur})
	if query != "" && !isKeyText(query) {
		m.completion = CompletionState{}
		return
	}
	m.completion.Query = query
	m.completion.Selected = 0
	m.refilterCompletion()
	if len(m.completion.VisibleIndices) == 0 {
		m.completion = CompletionState{}
	}
}

// acceptCompletion applies the selected item as one undo step.
func (m Model) acceptCompletion() Model {
	st := m.completion
	m.completion = CompletionState{}
	if len(st.VisibleIndices) == 0 {
		return m
	}
	item := st.Items[st.VisibleIndices[clampCompletionSelected(st.Selected, len(st.VisibleIndices))]]

	edits := item.Edits
	if len(edits) == 0 {
		text := item.InsertText
		if text == "" {
			text = item.Label
		}
		r := buffer.NormalizeRange(buffer.Range{Start: st.Anchor, End: m.c.buf.Cursor()})
		edits = []buffer.TextEdit{{Range: r, Text: text}}
	}
	before := m.c.buf.TextVersion()
	m.c.buf.Apply(edits...)
	m.c.logger.Debug("completion accepted", logging.FieldKey, item.ID)
	return m.afterKey(before)
}
