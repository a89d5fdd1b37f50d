package editor

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/iw2rmb/navedit/buffer"
)

func TestUpdate_TypingMovementAndDelete(t *testing.T) {
	m, _ := newTestModel(t, "ab", nil)

	m = press(m, tea.KeyRight)
	m = typeText(m, "X")
	if got := m.Value(); got != "aXb" {
		t.Fatalf("text after insert: got %q, want %q", got, "aXb")
	}
	if got := m.Buffer().Cursor(); got != (buffer.Pos{Row: 0, GraphemeCol: 2}) {
		t.Fatalf("cursor after insert: got %v, want %v", got, buffer.Pos{Row: 0, GraphemeCol: 2})
	}

	m = press(m, tea.KeyBackspace)
	if got := m.Value(); got != "ab" {
		t.Fatalf("text after backspace: got %q, want %q", got, "ab")
	}
	if got := m.Buffer().Cursor(); got != (buffer.Pos{Row: 0, GraphemeCol: 1}) {
		t.Fatalf("cursor after backspace: got %v, want %v", got, buffer.Pos{Row: 0, GraphemeCol: 1})
	}
}

func TestUpdate_SpaceEnterAndTab(t *testing.T) {
	m, _ := newTestModel(t, "", nil)
	m = typeText(m, "{")
	m = press(m, tea.KeyEnter)
	m = press(m, tea.KeyTab)
	m = press(m, tea.KeySpace)
	if got, want := m.Value(), "{\n   "; got != want {
		t.Fatalf("text: got %q, want %q", got, want)
	}
}

func TestUpdate_TabIndentsSelectedLines(t *testing.T) {
	rec := &recorder{}
	m, _ := newTestModel(t, "a\nb\nc", rec)
	m.Buffer().SetSelection(buffer.Range{Start: buffer.Pos{Row: 0, GraphemeCol: 1}, End: buffer.Pos{Row: 2, GraphemeCol: 0}})

	m = press(m, tea.KeyTab)
	if got, want := m.Value(), "  a\n  b\nc"; got != want {
		t.Fatalf("text: got %q, want %q", got, want)
	}
	if len(rec.changes) != 1 {
		t.Fatalf("changes: got %d, want 1", len(rec.changes))
	}

	m = press(m, tea.KeyCtrlZ)
	if got, want := m.Value(), "a\nb\nc"; got != want {
		t.Fatalf("after undo: got %q, want %q", got, want)
	}
}

func TestUpdate_Disabled_IgnoresMutations(t *testing.T) {
	rec := &recorder{}
	m, _ := newTestModel(t, "ab", rec)
	m = m.SetDisabled(true)

	m = press(m, tea.KeyRight)
	if got := m.Buffer().Cursor(); got != (buffer.Pos{Row: 0, GraphemeCol: 1}) {
		t.Fatalf("cursor after move: got %v, want %v", got, buffer.Pos{Row: 0, GraphemeCol: 1})
	}

	m = typeText(m, "X")
	m = press(m, tea.KeyBackspace)
	m = press(m, tea.KeyEnter)
	if got := m.Value(); got != "ab" {
		t.Fatalf("text in disabled mode: got %q, want %q", got, "ab")
	}
	if len(rec.events) != 0 {
		t.Fatalf("disabled editor fired callbacks: %v", rec.events)
	}
}

func TestUpdate_CursorMovesDoNotNotify(t *testing.T) {
	rec := &recorder{}
	m, _ := newTestModel(t, "{\n}", rec)

	m = press(m, tea.KeyDown)
	m = press(m, tea.KeyEnd)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftLeft})
	m = press(m, tea.KeyHome)
	if len(rec.events) != 0 {
		t.Fatalf("cursor moves fired callbacks: %v", rec.events)
	}
}

func TestUpdate_UndoRedoNotify(t *testing.T) {
	rec := &recorder{}
	m, _ := newTestModel(t, "", rec)
	m = typeText(m, "ab")

	m = press(m, tea.KeyCtrlZ)
	if got := m.Value(); got != "a" {
		t.Fatalf("text after undo: got %q, want %q", got, "a")
	}
	m = press(m, tea.KeyCtrlY)
	if got := m.Value(); got != "ab" {
		t.Fatalf("text after redo: got %q, want %q", got, "ab")
	}

	want := []string{"a", "ab", "a", "ab"}
	if len(rec.changes) != len(want) {
		t.Fatalf("changes: got %q, want %q", rec.changes, want)
	}
	for i := range want {
		if rec.changes[i] != want[i] {
			t.Fatalf("changes: got %q, want %q", rec.changes, want)
		}
	}
}

func TestUpdate_ClipboardCopyCutPaste(t *testing.T) {
	cb := &memClipboard{}
	m := New(Config{Value: "hello", Clipboard: cb, Style: &Style{}, Bus: nil})

	m.Buffer().SetSelection(buffer.Range{
		Start: buffer.Pos{Row: 0, GraphemeCol: 0},
		End:   buffer.Pos{Row: 0, GraphemeCol: 2},
	})
	m = press(m, tea.KeyCtrlC)
	if cb.s != "he" {
		t.Fatalf("clipboard after copy: got %q", cb.s)
	}

	m = press(m, tea.KeyCtrlX)
	if got := m.Value(); got != "llo" {
		t.Fatalf("text after cut: got %q", got)
	}

	cb.s = "A\r\nB"
	m = press(m, tea.KeyCtrlV)
	if got := m.Value(); got != "A\nBllo" {
		t.Fatalf("text after paste: got %q", got)
	}
}

func TestUpdate_BracketedPasteInsertsLiteralText(t *testing.T) {
	m, bus := newTestModel(t, "", nil)
	saves := 0
	bus.Subscribe("save", func() { saves++ })

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(`{"k": 1}`), Paste: true})
	if got := m.Value(); got != `{"k": 1}` {
		t.Fatalf("text after paste: got %q", got)
	}
	if saves != 0 {
		t.Fatalf("paste triggered a shortcut")
	}
}

func TestUpdate_SelectAll(t *testing.T) {
	m, _ := newTestModel(t, "ab\ncd", nil)
	m = press(m, tea.KeyCtrlL)
	r, ok := m.Buffer().Selection()
	if !ok {
		t.Fatalf("expected selection")
	}
	if m.Buffer().TextInRange(r) != "ab\ncd" {
		t.Fatalf("selection text: %q", m.Buffer().TextInRange(r))
	}
}

func TestUpdate_BlurredIgnoresKeys(t *testing.T) {
	m, bus := newTestModel(t, "ab", nil)
	saves := 0
	bus.Subscribe("save", func() { saves++ })
	m = m.Blur()

	m = typeText(m, "X")
	m = press(m, tea.KeyCtrlS)
	if m.Value() != "ab" || saves != 0 {
		t.Fatalf("blurred editor handled keys: text=%q saves=%d", m.Value(), saves)
	}
}
