package editor

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/iw2rmb/navedit/buffer"
	"github.com/iw2rmb/navedit/navigation"
)

const (
	defaultCompletionMaxVisibleRows = 8
	defaultCompletionMaxWidth       = 60
)

type CompletionItem struct {
	ID string
	// InsertText replaces the query. Empty means Label.
	InsertText string
	// Edits, when set, are applied instead of InsertText.
	Edits []buffer.TextEdit

	Label  string
	Detail string
}

type CompletionState struct {
	Visible  bool
	Anchor   buffer.Pos
	Query    string
	Items    []CompletionItem
	Selected int

	VisibleIndices []int
}

// CompletionContext describes the position completion was requested at.
type CompletionContext struct {
	Anchor buffer.Pos
	Cursor buffer.Pos
	Query  string
	// Before is the line text left of Anchor, After the text right of Cursor.
	Before string
	After  string
}

// CompletionSource lists the candidates for a position. The editor filters
// them by the query.
type CompletionSource func(CompletionContext) []CompletionItem

type CompletionKeyMap struct {
	Trigger key.Binding
	Accept  key.Binding

	AcceptTab bool

	Dismiss  key.Binding
	Next     key.Binding
	Prev     key.Binding
	PageNext key.Binding
	PagePrev key.Binding
}

func DefaultCompletionKeyMap() CompletionKeyMap {
	return CompletionKeyMap{
		// Most terminals send ctrl+space as ctrl+@.
		Trigger:   key.NewBinding(key.WithKeys("ctrl+space", "ctrl+@"), key.WithHelp("ctrl+space", "complete key")),
		Accept:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "accept completion")),
		AcceptTab: true,
		Dismiss:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "dismiss completion")),
		Next:      key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "next completion")),
		Prev:      key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "prev completion")),
		PageNext:  key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "next completion page")),
		PagePrev:  key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "prev completion page")),
	}
}

func (km CompletionKeyMap) isZero() bool {
	return len(km.Trigger.Keys()) == 0 && len(km.Accept.Keys()) == 0 && len(km.Next.Keys()) == 0
}

func (km CompletionKeyMap) accepts(msg tea.KeyMsg) bool {
	return key.Matches(msg, km.Accept) || (km.AcceptTab && msg.Type == tea.KeyTab)
}

// KeyCompletions offers the navigation document's property names. A name
// typed in front of a closing quote is completed bare; otherwise the quote,
// colon and space are added too.
func KeyCompletions(keys []navigation.Key) CompletionSource {
	return func(ctx CompletionContext) []CompletionItem {
		closed := strings.HasPrefix(ctx.After, `"`)
		items := make([]CompletionItem, 0, len(keys))
		for _, k := range keys {
			insert := k.Name
			if !closed {
				insert += `": `
			}
			items = append(items, CompletionItem{
				ID:         k.Name,
				InsertText: insert,
				Label:      k.Name,
				Detail:     k.Type,
			})
		}
		return items
	}
}

// filterCompletions keeps the items whose label contains query, ignoring
// case. Labels starting with the query come first.
func filterCompletions(items []CompletionItem, query string) []int {
	q := strings.ToLower(query)
	var prefix, inner []int
	for i, it := range items {
		label := strings.ToLower(it.Label)
		switch {
		case strings.HasPrefix(label, q):
			prefix = append(prefix, i)
		case strings.Contains(label, q):
			inner = append(inner, i)
		}
	}
	return append(prefix, inner...)
}

func isKeyRune(r rune) bool {
	return r == '_' || r == '-' || r == '$' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isKeyText(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !isKeyRune(r) {
			return false
		}
	}
	return true
}

// inKeyPosition reports whether before, the line text left of a word, ends
// with the opening quote of an object key.
func inKeyPosition(before string) bool {
	rest, ok := strings.CutSuffix(before, `"`)
	if !ok {
		return false
	}
	rest = strings.TrimRight(rest, " \t")
	return rest == "" || strings.HasSuffix(rest, "{") || strings.HasSuffix(rest, ",")
}

func clampCompletionSelected(selected, n int) int {
	if n <= 0 {
		return 0
	}
	return clampInt(selected, 0, n-1)
}

func cloneCompletionState(state CompletionState) CompletionState {
	if len(state.Items) > 0 {
		items := make([]CompletionItem, len(state.Items))
		copy(items, state.Items)
		for i := range items {
			items[i].Edits = append([]buffer.TextEdit(nil), items[i].Edits...)
		}
		state.Items = items
	}
	state.VisibleIndices = append([]int(nil), state.VisibleIndices...)
	return state
}
