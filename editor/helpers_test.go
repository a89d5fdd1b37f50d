package editor

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/iw2rmb/navedit/intent"
)

type memClipboard struct {
	s string
}

func (c *memClipboard) ReadText() (string, error) { return c.s, nil }
func (c *memClipboard) WriteText(s string) error  { c.s = s; return nil }

// recorder captures host callbacks in call order.
type recorder struct {
	events  []string
	changes []string
	valid   []bool
	errs    [][]string
}

func (r *recorder) onChange(text string) {
	r.events = append(r.events, "change:"+text)
	r.changes = append(r.changes, text)
}

func (r *recorder) onValidate(valid bool, errs []string) {
	r.events = append(r.events, "validate")
	r.valid = append(r.valid, valid)
	r.errs = append(r.errs, errs)
}

func newTestModel(t *testing.T, text string, rec *recorder) (Model, *intent.Bus) {
	t.Helper()
	bus := intent.New()
	cfg := Config{
		Value: text,
		Bus:   bus,
		Style: &Style{},
	}
	if rec != nil {
		cfg.OnChange = rec.onChange
		cfg.OnValidate = rec.onValidate
	}
	return New(cfg), bus
}

func typeText(m Model, s string) Model {
	for _, r := range s {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func press(m Model, k tea.KeyType) Model {
	m, _ = m.Update(tea.KeyMsg{Type: k})
	return m
}

var altShiftF = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("F"), Alt: true}

func viewLines(m Model) []string {
	lines := strings.Split(m.View(), "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(ansi.Strip(lines[i]), " ")
	}
	return lines
}
