package editor

import (
	"sort"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"

	graphemeutil "github.com/iw2rmb/navedit/internal/grapheme"
)

type HighlightSpan struct {
	// StartGraphemeCol and EndGraphemeCol are grapheme indices in the line,
	// half-open [StartGraphemeCol, EndGraphemeCol).
	StartGraphemeCol int
	EndGraphemeCol   int
	Style            lipgloss.Style
}

// Highlighter styles a whole document. The result has one entry per line.
type Highlighter interface {
	Highlight(text string) [][]HighlightSpan
}

// ChromaHighlighter highlights JSON with a chroma lexer and color scheme.
type ChromaHighlighter struct {
	lexer  chroma.Lexer
	scheme *chroma.Style
	r      *lipgloss.Renderer
	styles map[chroma.TokenType]lipgloss.Style
}

// NewChromaHighlighter returns a JSON highlighter using the named chroma
// style. Unknown names fall back to chroma's default style.
func NewChromaHighlighter(r *lipgloss.Renderer, styleName string) *ChromaHighlighter {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	lexer := lexers.Get("json")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	return &ChromaHighlighter{
		lexer:  chroma.Coalesce(lexer),
		scheme: styles.Get(styleName),
		r:      r,
		styles: make(map[chroma.TokenType]lipgloss.Style),
	}
}

func (h *ChromaHighlighter) Highlight(text string) [][]HighlightSpan {
	out := make([][]HighlightSpan, strings.Count(text, "\n")+1)
	it, err := h.lexer.Tokenise(nil, text)
	if err != nil {
		return out
	}

	row, col := 0, 0
	for _, tok := range it.Tokens() {
		st, styled := h.styleFor(tok.Type)
		parts := strings.Split(tok.Value, "\n")
		for i, part := range parts {
			if i > 0 {
				row++
				col = 0
			}
			if row >= len(out) {
				return out
			}
			n := graphemeutil.Count(part)
			if n == 0 {
				continue
			}
			if styled {
				out[row] = append(out[row], HighlightSpan{StartGraphemeCol: col, EndGraphemeCol: col + n, Style: st})
			}
			col += n
		}
	}
	return out
}

func (h *ChromaHighlighter) styleFor(tt chroma.TokenType) (lipgloss.Style, bool) {
	if st, ok := h.styles[tt]; ok {
		return st, true
	}
	entry := h.scheme.Get(tt)
	if !entry.Colour.IsSet() && entry.Bold != chroma.Yes && entry.Italic != chroma.Yes {
		return lipgloss.Style{}, false
	}

	st := h.r.NewStyle()
	if entry.Colour.IsSet() {
		st = st.Foreground(lipgloss.Color(entry.Colour.String()))
	}
	if entry.Bold == chroma.Yes {
		st = st.Bold(true)
	}
	if entry.Italic == chroma.Yes {
		st = st.Italic(true)
	}
	h.styles[tt] = st
	return st, true
}

func normalizeHighlightSpans(spans []HighlightSpan, lineLen int) []HighlightSpan {
	if len(spans) == 0 {
		return nil
	}
	lineLen = maxInt(lineLen, 0)

	out := make([]HighlightSpan, 0, len(spans))
	for _, sp := range spans {
		start := clampInt(sp.StartGraphemeCol, 0, lineLen)
		end := clampInt(sp.EndGraphemeCol, 0, lineLen)
		if end < start {
			start, end = end, start
		}
		if start == end {
			continue
		}
		out = append(out, HighlightSpan{StartGraphemeCol: start, EndGraphemeCol: end, Style: sp.Style})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].StartGraphemeCol != out[j].StartGraphemeCol {
			return out[i].StartGraphemeCol < out[j].StartGraphemeCol
		}
		return out[i].EndGraphemeCol < out[j].EndGraphemeCol
	})

	// Overlaps are resolved by dropping the later span.
	merged := make([]HighlightSpan, 0, len(out))
	for _, sp := range out {
		if len(merged) > 0 && sp.StartGraphemeCol < merged[len(merged)-1].EndGraphemeCol {
			continue
		}
		merged = append(merged, sp)
	}
	return merged
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

