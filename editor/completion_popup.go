package editor

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
	overlay "github.com/rmhubbert/bubbletea-overlay"

	"github.com/iw2rmb/navedit/buffer"
)

// withCompletionPopup draws the popup over base, the rendered viewport, next
// to the anchor: below it when the rows fit, above it otherwise.
func (m Model) withCompletionPopup(base string) string {
	st := m.completion
	width, height := m.viewport.Width, m.viewport.Height
	if !st.Visible || len(st.VisibleIndices) == 0 || width <= 0 || height <= 0 {
		return base
	}
	x, y, ok := m.screenPos(st.Anchor)
	if !ok {
		return base
	}

	rows := min(defaultCompletionMaxVisibleRows, len(st.VisibleIndices))
	below, above := max(height-y-1, 0), y
	showBelow := true
	if rows > below {
		switch {
		case above >= rows:
			showBelow = false
		case above > below:
			showBelow, rows = false, above
		default:
			rows = below
		}
	}
	if rows <= 0 {
		return base
	}

	// Scroll the list so the selection stays visible.
	selected := clampCompletionSelected(st.Selected, len(st.VisibleIndices))
	first := max(selected-rows+1, 0)
	indices := st.VisibleIndices[first : first+rows]

	popupWidth := 0
	labels := make([]string, len(indices))
	for i, idx := range indices {
		labels[i] = completionRowText(st.Items[idx])
		popupWidth = max(popupWidth, ansi.StringWidth(labels[i]))
	}
	popupWidth = min(popupWidth, defaultCompletionMaxWidth, width)
	if popupWidth <= 0 {
		return base
	}

	out := make([]string, len(indices))
	for i, text := range labels {
		style := m.c.style.CompletionItem
		if first+i == selected {
			style = m.c.style.CompletionSelected
		}
		text = ansi.Truncate(text, popupWidth, "…")
		text += strings.Repeat(" ", popupWidth-ansi.StringWidth(text))
		out[i] = style.Render(text)
	}

	top := y + 1
	if !showBelow {
		top = y - len(out)
	}
	top = clampInt(top, 0, max(height-len(out), 0))
	x = clampInt(x, 0, max(width-popupWidth, 0))
	return overlay.Composite(strings.Join(out, "\n"), base, overlay.Left, overlay.Top, x, top)
}

func completionRowText(item CompletionItem) string {
	text := item.Label
	if text == "" {
		text = item.InsertText
	}
	text = strings.ReplaceAll(text, "\n", " ")
	if item.Detail != "" {
		text += "  " + item.Detail
	}
	return " " + text + " "
}

// screenPos maps a document position to a cell of the visible viewport.
func (m Model) screenPos(p buffer.Pos) (x, y int, ok bool) {
	lo := m.buildLayout()
	for i, vr := range lo.rows {
		if vr.row != p.Row || p.GraphemeCol < vr.startCol || (p.GraphemeCol >= vr.endCol && !vr.last) {
			continue
		}
		x = m.gutterWidth(len(lo.lines))
		for _, w := range lo.lines[vr.row].widths[vr.startCol:min(p.GraphemeCol, vr.endCol)] {
			x += w
		}
		y = i - m.viewport.YOffset
		return x, y, y >= 0 && y < m.viewport.Height
	}
	return 0, 0, false
}
