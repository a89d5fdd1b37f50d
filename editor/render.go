package editor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/iw2rmb/navedit/buffer"
	graphemeutil "github.com/iw2rmb/navedit/internal/grapheme"
)

// layoutLine is one logical line split into clusters with cell widths.
type layoutLine struct {
	clusters []string
	widths   []int
}

// layoutRow is one visual row: a soft-wrapped segment of a logical line.
type layoutRow struct {
	row        int
	startCol   int
	endCol     int
	first      bool
	last       bool
	cursorHere bool
	// fold is set on first segments, folded on the last segment of a row
	// whose region is collapsed.
	fold       foldMark
	folded     bool
}

type layout struct {
	lines     []layoutLine
	rows      []layoutRow
	cursorRow int
	digits    int
}

func gutterDigits(lineCount int) int {
	return len(fmt.Sprint(maxInt(lineCount, 1)))
}

func (m *Model) gutterWidth(lineCount int) int {
	if m.c.cfg.HideLineNums {
		return 0
	}
	return gutterDigits(lineCount) + 1
}

func (m *Model) contentWidth(lineCount int) int {
	if m.viewport.Width <= 0 {
		return 0
	}
	return maxInt(m.viewport.Width-m.gutterWidth(lineCount), 1)
}

func (m *Model) buildLayout() layout {
	buf := m.c.buf
	n := buf.LineCount()
	cursor := buf.Cursor()
	width := m.contentWidth(n)
	tabWidth := m.c.cfg.TabWidth

	lo := layout{
		lines:     make([]layoutLine, n),
		rows:      make([]layoutRow, 0, n),
		cursorRow: -1,
		digits:    gutterDigits(n),
	}

	for row := 0; row < n; row++ {
		clusters := graphemeutil.Split(buf.Line(row))
		widths := make([]int, len(clusters))
		for i, g := range clusters {
			if g == "\t" {
				widths[i] = tabWidth
				continue
			}
			widths[i] = graphemeutil.Width(g)
		}
		lo.lines[row] = layoutLine{clusters: clusters, widths: widths}

		first := len(lo.rows)
		lo.rows = append(lo.rows, wrapLine(row, widths, width)...)
		lo.rows[first].fold = m.c.foldMarkFor(row)
		lastSeg := &lo.rows[len(lo.rows)-1]

		// An end-of-line cursor needs one free cell; give it a row of its own
		// when the last segment is full.
		if row == cursor.Row && cursor.GraphemeCol >= len(clusters) && width > 0 && len(clusters) > 0 {
			used := 0
			for _, w := range widths[lastSeg.startCol:lastSeg.endCol] {
				used += w
			}
			if used >= width {
				lastSeg.last = false
				lo.rows = append(lo.rows, layoutRow{row: row, startCol: len(clusters), endCol: len(clusters), last: true})
			}
		}

		if row == cursor.Row {
			for i := first; i < len(lo.rows); i++ {
				r := &lo.rows[i]
				if (cursor.GraphemeCol >= r.startCol && cursor.GraphemeCol < r.endCol) || (r.last && cursor.GraphemeCol >= r.endCol) {
					r.cursorHere = true
					lo.cursorRow = i
					break
				}
			}
		}

		if end, ok := m.c.foldedEnd(row); ok {
			lo.rows[len(lo.rows)-1].folded = true
			row = end - 1
		}
	}
	return lo
}

// wrapLine greedily splits a line into segments no wider than width cells.
// A width of zero or less disables wrapping.
func wrapLine(row int, widths []int, width int) []layoutRow {
	if width <= 0 || len(widths) == 0 {
		return []layoutRow{{row: row, startCol: 0, endCol: len(widths), first: true, last: true}}
	}

	var out []layoutRow
	start, used := 0, 0
	for i, w := range widths {
		w = maxInt(w, 1)
		if used > 0 && used+w > width {
			out = append(out, layoutRow{row: row, startCol: start, endCol: i})
			start, used = i, 0
		}
		used += w
	}
	out = append(out, layoutRow{row: row, startCol: start, endCol: len(widths)})
	out[0].first = true
	out[len(out)-1].last = true
	return out
}

func (m *Model) renderContent() string {
	lo := m.buildLayout()
	m.cursorVisualRow = lo.cursorRow

	buf := m.c.buf
	cursor := buf.Cursor()
	sel, selOK := buf.Selection()
	spans := m.c.highlights()
	st := m.c.style
	width := m.contentWidth(len(lo.lines))
	_, noActiveBg := st.ActiveLine.GetBackground().(lipgloss.NoColor)

	out := make([]string, 0, len(lo.rows))
	for _, vr := range lo.rows {
		var sb strings.Builder

		if !m.c.cfg.HideLineNums {
			numStyle := st.LineNum
			if m.focused && vr.row == cursor.Row && vr.first {
				numStyle = st.LineNumActive
			}
			num := fmt.Sprintf("%*s", lo.digits, "")
			if vr.first {
				num = fmt.Sprintf("%*d", lo.digits, vr.row+1)
			}
			sb.WriteString(numStyle.Render(num))
			switch vr.fold {
			case foldOpen:
				sb.WriteString(st.FoldMarker.Render(foldOpenMarker))
			case foldClosed:
				sb.WriteString(st.FoldMarker.Render(foldClosedMarker))
			default:
				sb.WriteString(st.Gutter.Render(" "))
			}
		}

		var lineSpans []HighlightSpan
		if vr.row < len(spans) {
			lineSpans = normalizeHighlightSpans(spans[vr.row], len(lo.lines[vr.row].clusters))
		}
		active := m.focused && vr.row == cursor.Row
		seg, used := m.renderSegment(lo.lines[vr.row], vr, cursor, sel, selOK, lineSpans, active)
		sb.WriteString(seg)
		if vr.folded {
			sb.WriteString(st.FoldMarker.Render(foldPlaceholder))
			used += foldPlaceholderWidth
		}
		if active && !noActiveBg && width > used {
			sb.WriteString(st.ActiveLine.Render(strings.Repeat(" ", width-used)))
		}
		out = append(out, sb.String())
	}
	return strings.Join(out, "\n")
}

// cellKind orders the rendering precedence of a grapheme.
type cellKind int

const (
	cellText cellKind = iota
	cellHighlight
	cellSelected
	cellCursor
)

type cellStyleKey struct {
	kind cellKind
	span int
}

// renderSegment renders one visual row and returns the cells it used.
func (m *Model) renderSegment(line layoutLine, vr layoutRow, cursor buffer.Pos, sel buffer.Range, selOK bool, spans []HighlightSpan, active bool) (string, int) {
	st := m.c.style
	hasCursor := active
	base := st.Text
	if active {
		base = base.Inherit(st.ActiveLine)
	}

	selStart, selEnd, hasSel := selectionColsForRow(sel, selOK, vr.row, len(line.clusters))

	keyFor := func(col int) cellStyleKey {
		if hasCursor && col == cursor.GraphemeCol {
			return cellStyleKey{kind: cellCursor, span: -1}
		}
		if hasSel && col >= selStart && col < selEnd {
			return cellStyleKey{kind: cellSelected, span: -1}
		}
		for i, sp := range spans {
			if col >= sp.StartGraphemeCol && col < sp.EndGraphemeCol {
				return cellStyleKey{kind: cellHighlight, span: i}
			}
		}
		return cellStyleKey{kind: cellText, span: -1}
	}

	render := func(k cellStyleKey, text string) string {
		switch k.kind {
		case cellCursor:
			return st.Cursor.Render(text)
		case cellSelected:
			return st.Selection.Inherit(st.Text).Render(text)
		case cellHighlight:
			return spans[k.span].Style.Inherit(base).Render(text)
		default:
			return base.Render(text)
		}
	}

	var sb strings.Builder
	var run strings.Builder
	runKey := cellStyleKey{kind: -1}
	flush := func() {
		if run.Len() > 0 {
			sb.WriteString(render(runKey, run.String()))
			run.Reset()
		}
	}

	used := 0
	for col := vr.startCol; col < vr.endCol; col++ {
		used += line.widths[col]
		k := keyFor(col)
		if k != runKey {
			flush()
			runKey = k
		}
		g := line.clusters[col]
		if g == "\t" {
			g = strings.Repeat(" ", line.widths[col])
		}
		run.WriteString(g)
	}
	flush()

	if hasCursor && vr.cursorHere && vr.last && cursor.GraphemeCol >= len(line.clusters) {
		sb.WriteString(st.Cursor.Render(" "))
		used++
	}
	return sb.String(), used
}

func selectionColsForRow(sel buffer.Range, ok bool, row, lineLen int) (start, end int, has bool) {
	if !ok {
		return 0, 0, false
	}
	sel = buffer.NormalizeRange(sel)
	if row < sel.Start.Row || row > sel.End.Row {
		return 0, 0, false
	}
	start, end = 0, lineLen
	if row == sel.Start.Row {
		start = clampInt(sel.Start.GraphemeCol, 0, lineLen)
	}
	if row == sel.End.Row {
		end = clampInt(sel.End.GraphemeCol, 0, lineLen)
	}
	return start, end, start < end
}
