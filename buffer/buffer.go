package buffer

import (
	"strings"

	"github.com/iw2rmb/navedit/internal/grapheme"
)

type Options struct {
	HistoryLimit int // default: 1000; negative disables undo
}

// selectionState is an anchor and a moving end. It is only meaningful while
// active.
type selectionState struct {
	active bool
	anchor Pos
	end    Pos
}

// Buffer is the pure document state: text, cursor, and selection.
type Buffer struct {
	lines       [][]string
	version     uint64
	textVersion uint64

	cursor Pos
	sel    selectionState

	opt  Options
	hist history

	lastChange    Change
	hasLastChange bool
}

func New(text string, opt Options) *Buffer {
	if opt.HistoryLimit == 0 {
		opt.HistoryLimit = 1000
	}
	return &Buffer{lines: splitLines(text), opt: opt}
}

func (b *Buffer) Text() string {
	rows := make([]string, len(b.lines))
	for i, line := range b.lines {
		rows[i] = grapheme.Join(line)
	}
	return strings.Join(rows, "\n")
}

// Version increments on every effective mutation, including cursor and
// selection changes.
func (b *Buffer) Version() uint64 { return b.version }

// TextVersion increments only when the document text changes.
func (b *Buffer) TextVersion() uint64 { return b.textVersion }

// LineCount returns the number of logical lines (at least 1).
func (b *Buffer) LineCount() int { return len(b.lines) }

// Line returns the text of row, or "" when row is out of range.
func (b *Buffer) Line(row int) string {
	if row < 0 || row >= len(b.lines) {
		return ""
	}
	return grapheme.Join(b.lines[row])
}

func (b *Buffer) Cursor() Pos { return b.cursor }

// SetCursor moves the cursor and drops the selection.
func (b *Buffer) SetCursor(p Pos) {
	next := b.clampPos(p)
	if next == b.cursor && !b.sel.active {
		return
	}
	b.place(next, selectionState{})
}

// Selection returns the normalized selection, if a non-empty one is active.
func (b *Buffer) Selection() (Range, bool) {
	r, ok := b.SelectionRaw()
	if !ok {
		return Range{}, false
	}
	return NormalizeRange(r), true
}

// SelectionRaw returns the selection with its direction kept: Start is the
// anchor and End follows the cursor.
func (b *Buffer) SelectionRaw() (Range, bool) {
	if !b.sel.active || b.sel.anchor == b.sel.end {
		return Range{}, false
	}
	return Range{Start: b.sel.anchor, End: b.sel.end}, true
}

// SetSelection selects r and moves the cursor to its end.
func (b *Buffer) SetSelection(r Range) {
	r = ClampRange(r, len(b.lines), b.lineLen)
	var next selectionState
	if r.Start != r.End {
		next = selectionState{active: true, anchor: r.Start, end: r.End}
	}
	if sameSelection(b.sel, next) && b.cursor == r.End {
		return
	}
	b.place(r.End, next)
}

func (b *Buffer) ClearSelection() {
	if !b.sel.active {
		return
	}
	if b.sel.anchor == b.sel.end {
		b.sel = selectionState{}
		return
	}
	b.place(b.cursor, selectionState{})
}

// place commits a cursor and selection change that leaves the text alone.
func (b *Buffer) place(cursor Pos, sel selectionState) {
	pc := b.beginChange(ChangeSourceLocal)
	b.cursor = cursor
	b.sel = sel
	b.version++
	b.commitChange(pc)
}

// TextInRange returns the document text covered by r after clamping.
func (b *Buffer) TextInRange(r Range) string {
	return textIn(b.lines, ClampRange(r, len(b.lines), b.lineLen))
}

func (b *Buffer) lineLen(row int) int {
	if row < 0 || row >= len(b.lines) {
		return 0
	}
	return len(b.lines[row])
}

func (b *Buffer) clampPos(p Pos) Pos {
	return ClampPos(p, len(b.lines), b.lineLen)
}

// splitLines breaks text into rows of grapheme clusters. There is always at
// least one row.
func splitLines(text string) [][]string {
	parts := strings.Split(text, "\n")
	lines := make([][]string, len(parts))
	for i, s := range parts {
		lines[i] = grapheme.Split(s)
	}
	return lines
}
