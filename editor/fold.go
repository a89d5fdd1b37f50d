package editor

import (
	"github.com/iw2rmb/navedit/buffer"
	"github.com/iw2rmb/navedit/internal/logging"
)

// Gutter markers for foldable and folded rows.
const (
	foldOpenMarker   = "▾"
	foldClosedMarker = "▸"
	foldPlaceholder  = " …"

	foldPlaceholderWidth = 2
)

type foldMark uint8

const (
	foldNone foldMark = iota
	foldOpen
	foldClosed
)

// foldState tracks collapsed objects and arrays by the row they open on.
// Folded rows hide everything up to, not including, the closing bracket row.
type foldState struct {
	version uint64
	valid   bool
	regions map[int]int
	folded  map[int]bool
}

// bracketRegions maps the first row of every object or array spanning at
// least three rows to the row of its closing bracket. Brackets inside strings
// are skipped. When several regions open on one row the outermost wins.
func bracketRegions(buf *buffer.Buffer) map[int]int {
	regions := map[int]int{}
	var open []int
	for row := 0; row < buf.LineCount(); row++ {
		line := buf.Line(row)
		inString, escaped := false, false
		for i := 0; i < len(line); i++ {
			b := line[i]
			switch {
			case escaped:
				escaped = false
			case inString:
				if b == '\\' {
					escaped = true
				} else if b == '"' {
					inString = false
				}
			case b == '"':
				inString = true
			case b == '{' || b == '[':
				open = append(open, row)
			case b == '}' || b == ']':
				if len(open) == 0 {
					continue
				}
				start := open[len(open)-1]
				open = open[:len(open)-1]
				if row-start >= 2 && row > regions[start] {
					regions[start] = row
				}
			}
		}
	}
	return regions
}

// foldRegions returns the regions for the current text. Folds whose region
// disappeared with an edit are dropped.
func (c *core) foldRegions() map[int]int {
	v := c.buf.TextVersion()
	if c.folds.valid && c.folds.version == v {
		return c.folds.regions
	}
	c.folds.regions = bracketRegions(c.buf)
	c.folds.version, c.folds.valid = v, true
	for start := range c.folds.folded {
		if _, ok := c.folds.regions[start]; !ok {
			delete(c.folds.folded, start)
		}
	}
	return c.folds.regions
}

// foldHiding returns the outermost folded region that hides row.
func (c *core) foldHiding(row int) (start int, ok bool) {
	regions := c.foldRegions()
	for s := range c.folds.folded {
		if s < row && row < regions[s] && (!ok || s < start) {
			start, ok = s, true
		}
	}
	return start, ok
}

// foldedEnd reports where the hidden rows after a folded row stop.
func (c *core) foldedEnd(row int) (int, bool) {
	if !c.folds.folded[row] {
		return 0, false
	}
	end, ok := c.foldRegions()[row]
	return end, ok
}

func (c *core) foldMarkFor(row int) foldMark {
	if _, ok := c.foldRegions()[row]; !ok {
		return foldNone
	}
	if c.folds.folded[row] {
		return foldClosed
	}
	return foldOpen
}

// revealRow unfolds every region hiding row.
func (c *core) revealRow(row int) bool {
	revealed := false
	for {
		start, ok := c.foldHiding(row)
		if !ok {
			return revealed
		}
		delete(c.folds.folded, start)
		revealed = true
	}
}

// Fold collapses the object or array opening on row. It reports false when
// no region of three or more rows starts there. A cursor inside the region
// moves to its first row.
func (m Model) Fold(row int) (Model, bool) {
	if _, ok := m.c.foldRegions()[row]; !ok {
		return m, false
	}
	if m.c.folds.folded == nil {
		m.c.folds.folded = map[int]bool{}
	}
	m.c.folds.folded[row] = true
	m.c.logger.Debug("folded", logging.FieldRow, row)

	cur := m.c.buf.Cursor()
	if _, hidden := m.c.foldHiding(cur.Row); hidden {
		m.c.buf.SetCursor(buffer.Pos{Row: row, GraphemeCol: cur.GraphemeCol})
	}
	m.refresh()
	return m, true
}

func (m Model) Unfold(row int) Model {
	if m.c.folds.folded[row] {
		delete(m.c.folds.folded, row)
		m.refresh()
	}
	return m
}

func (m Model) UnfoldAll() Model {
	if len(m.c.folds.folded) > 0 {
		m.c.folds.folded = nil
		m.refresh()
	}
	return m
}

// Folded reports whether row starts a collapsed region.
func (m Model) Folded(row int) bool {
	_, ok := m.c.foldedEnd(row)
	return ok
}

// ToggleFold unfolds the region folded at the cursor row, or else folds the
// innermost region around the cursor.
func (m Model) ToggleFold() Model {
	row := m.c.buf.Cursor().Row
	if m.Folded(row) {
		return m.Unfold(row)
	}
	start := -1
	for s, e := range m.c.foldRegions() {
		if s <= row && row < e && s > start {
			start = s
		}
	}
	if start >= 0 {
		m, _ = m.Fold(start)
	}
	return m
}

// stepOverFold carries a cursor that an up or down step left inside a folded
// region on to the row past it.
func (m Model) stepOverFold(dir buffer.MoveDir) {
	cur := m.c.buf.Cursor()
	start, ok := m.c.foldHiding(cur.Row)
	if !ok {
		return
	}
	row := start
	if dir == buffer.DirDown {
		row = m.c.foldRegions()[start]
	}
	m.c.buf.SetCursor(buffer.Pos{Row: row, GraphemeCol: cur.GraphemeCol})
}

func (m *Model) refresh() {
	if !m.syncFromBuffer() {
		m.rebuildContent()
	}
	m.followCursor()
}
