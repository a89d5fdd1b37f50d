package editor

import (
	"fmt"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"

	"github.com/iw2rmb/navedit/buffer"
)

const nestedDoc = `{
  "navigationItems": [
    {
      "id": "a"
    }
  ]
}`

func TestBracketRegions_OuterRegionWinsAndStringsAreSkipped(t *testing.T) {
	buf := buffer.New(nestedDoc+"\n[\"{\",\n\"[\"\n]", buffer.Options{})
	got := bracketRegions(buf)
	want := map[int]int{0: 6, 1: 5, 2: 4, 7: 9}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("regions: got %v, want %v", got, want)
	}

	// Two-row objects have nothing to hide.
	if got := bracketRegions(buffer.New("{\n}", buffer.Options{})); len(got) != 0 {
		t.Fatalf("short region: %v", got)
	}
}

func TestFold_HidesRowsUpToClosingBracket(t *testing.T) {
	m := New(Config{Value: nestedDoc, Height: "20", Style: &Style{}})
	m = m.Blur()
	m = m.SetSize(40, 30)

	got := strings.Split(m.renderContent(), "\n")
	if got[0] != "1▾{" || got[3] != `4       "id": "a"` {
		t.Fatalf("unfolded rows: %q", got)
	}

	m, ok := m.Fold(1)
	if !ok || !m.Folded(1) {
		t.Fatalf("fold at row 1: ok=%v folded=%v", ok, m.Folded(1))
	}
	got = strings.Split(m.renderContent(), "\n")
	want := []string{
		"1▾{",
		`2▸  "navigationItems": [ …`,
		"6   ]",
		"7 }",
	}
	if fmt.Sprintf("%q", got) != fmt.Sprintf("%q", want) {
		t.Fatalf("folded rows:\n got: %q\nwant: %q", got, want)
	}

	if _, ok := m.Fold(3); ok {
		t.Fatalf("row 3 opens no region")
	}
	m = m.Unfold(1)
	if n := len(strings.Split(m.renderContent(), "\n")); n != 7 {
		t.Fatalf("rows after unfold: %d", n)
	}
}

func TestFold_CursorStepsOverFoldedRows(t *testing.T) {
	m, _ := newTestModel(t, nestedDoc, nil)
	m.Buffer().SetCursor(buffer.Pos{Row: 1})
	m, _ = m.Fold(1)

	m = press(m, tea.KeyDown)
	if got := m.Buffer().Cursor().Row; got != 5 {
		t.Fatalf("down from a folded row: got row %d, want 5", got)
	}
	m = press(m, tea.KeyUp)
	if got := m.Buffer().Cursor().Row; got != 1 {
		t.Fatalf("up onto a folded row: got row %d, want 1", got)
	}
	if !m.Folded(1) {
		t.Fatalf("stepping over the region unfolded it")
	}

	m.Buffer().SetCursor(buffer.Pos{Row: 3})
	m, _ = m.Update(nil)
	if m.Folded(1) {
		t.Fatalf("a cursor placed inside the region should unfold it")
	}
}

func TestFold_ToggleKeyFoldsInnermostRegion(t *testing.T) {
	m, _ := newTestModel(t, nestedDoc, nil)
	m.Buffer().SetCursor(buffer.Pos{Row: 3, GraphemeCol: 4})

	m = press(m, tea.KeyCtrlCloseBracket)
	if !m.Folded(2) || m.Folded(1) {
		t.Fatalf("toggle folded the wrong region: row1=%v row2=%v", m.Folded(1), m.Folded(2))
	}
	if got := m.Buffer().Cursor(); got != (buffer.Pos{Row: 2, GraphemeCol: 4}) {
		t.Fatalf("cursor should leave the hidden rows: %v", got)
	}

	m = press(m, tea.KeyCtrlCloseBracket)
	if m.Folded(2) {
		t.Fatalf("second toggle should unfold")
	}
}

func TestFold_EditDropsVanishedRegions(t *testing.T) {
	m, _ := newTestModel(t, nestedDoc, nil)
	m, _ = m.Fold(2)
	m = m.Edit(`{}`)
	if m.Folded(2) {
		t.Fatalf("fold survived its region")
	}
}

func TestRender_ActiveLineFillsRow(t *testing.T) {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.TrueColor)
	st := NewStyle(r, ThemeLight)

	m := New(Config{
		Value:        "ab\ncd",
		HideLineNums: true,
		Style:        &st,
		Highlighter:  NewChromaHighlighter(r, ChromaStyleName(ThemeLight)),
	})
	m = m.SetSize(20, 10)

	activeBg := "48;2;243;246;249"
	lines := strings.Split(m.renderContent(), "\n")
	if !strings.Contains(lines[0], activeBg) || strings.Contains(lines[1], activeBg) {
		t.Fatalf("active line background on the wrong row: %q", lines)
	}
	if w := ansi.StringWidth(lines[0]); w != 20 {
		t.Fatalf("active row width: got %d, want 20", w)
	}

	m = m.Blur()
	if strings.Contains(m.renderContent(), activeBg) {
		t.Fatalf("blurred editor kept the active line")
	}
}
