package buffer

import (
	"strings"

	"github.com/iw2rmb/navedit/internal/grapheme"
)

// InsertText inserts s at the cursor, replacing the selection if there is
// one. An empty s only deletes the selection.
func (b *Buffer) InsertText(s string) {
	r, ok := b.Selection()
	if !ok {
		if s == "" {
			return
		}
		r = Range{Start: b.cursor, End: b.cursor}
	}
	b.replace(r, s)
}

// InsertGrapheme inserts one grapheme cluster.
func (b *Buffer) InsertGrapheme(g string) {
	if g != "" {
		b.InsertText(g)
	}
}

func (b *Buffer) InsertNewline() { b.InsertText("\n") }

// DeleteBackward removes the selection, or the grapheme before the cursor.
// At a line start it joins the line with the previous one.
func (b *Buffer) DeleteBackward() {
	if b.DeleteSelection() {
		return
	}
	if from := b.step(b.cursor, DirLeft); from != b.cursor {
		b.replace(Range{Start: from, End: b.cursor}, "")
	}
}

// DeleteForward removes the selection, or the grapheme after the cursor.
// At a line end it joins the next line.
func (b *Buffer) DeleteForward() {
	if b.DeleteSelection() {
		return
	}
	if to := b.step(b.cursor, DirRight); to != b.cursor {
		b.replace(Range{Start: b.cursor, End: to}, "")
	}
}

// DeleteSelection deletes the active selection and reports whether there was
// one.
func (b *Buffer) DeleteSelection() bool {
	r, ok := b.Selection()
	if ok {
		b.replace(r, "")
	}
	return ok
}

// ReplaceAll swaps the whole document for text as a single undoable edit.
// The cursor keeps its position, clamped to the new bounds.
func (b *Buffer) ReplaceAll(text string) {
	b.replaceAll(text, ChangeSourceLocal)
}

// SyncText is ReplaceAll for text pushed by the document owner. The change is
// recorded with ChangeSourceRemote.
func (b *Buffer) SyncText(text string) {
	b.replaceAll(text, ChangeSourceRemote)
}

func (b *Buffer) replaceAll(text string, source ChangeSource) {
	prev := b.capture()
	e, ok := wholeTextEdit(prev.text, text)
	if !ok {
		return
	}
	pc := b.beginChange(source)
	b.lines = splitLines(text)
	pc.addAppliedEdit(e)
	b.commitEdit(prev, pc, b.clampPos(b.cursor))
}

func (b *Buffer) replace(r Range, text string) {
	prev := b.capture()
	pc := b.beginChange(ChangeSourceLocal)
	end, e, ok := b.splice(r, text)
	if !ok {
		return
	}
	pc.addAppliedEdit(e)
	b.commitEdit(prev, pc, end)
}

// commitEdit finishes a text mutation that started from prev: the cursor
// lands on cursor, the selection is dropped and prev becomes an undo step.
func (b *Buffer) commitEdit(prev state, pc *pendingChange, cursor Pos) {
	b.cursor = cursor
	b.sel = selectionState{}
	b.version++
	b.textVersion++
	b.remember(prev)
	b.commitChange(pc)
}

// splice replaces the clamped range r with text and returns the end of the
// inserted text. It reports false when the document would not change.
func (b *Buffer) splice(r Range, text string) (Pos, AppliedEdit, bool) {
	r = NormalizeRange(ClampRange(r, len(b.lines), b.lineLen))
	deleted := textIn(b.lines, r)
	if deleted == text {
		return b.cursor, AppliedEdit{}, false
	}

	head := b.lines[r.Start.Row][:r.Start.GraphemeCol]
	tail := b.lines[r.End.Row][r.End.GraphemeCol:]
	ins := splitLines(text)
	last := len(ins) - 1

	end := Pos{Row: r.Start.Row + last, GraphemeCol: len(ins[last])}
	if last == 0 {
		end.GraphemeCol += len(head)
	}
	ins[0] = append(append([]string(nil), head...), ins[0]...)
	ins[last] = append(ins[last], tail...)

	out := make([][]string, 0, len(b.lines)+last)
	out = append(out, b.lines[:r.Start.Row]...)
	out = append(out, ins...)
	out = append(out, b.lines[r.End.Row+1:]...)
	b.lines = out

	return end, AppliedEdit{
		RangeBefore: r,
		RangeAfter:  Range{Start: r.Start, End: end},
		InsertText:  text,
		DeletedText: deleted,
	}, true
}

// textIn returns the text lines covers within r.
func textIn(lines [][]string, r Range) string {
	r = NormalizeRange(r)
	if r.IsEmpty() {
		return ""
	}
	parts := make([]string, 0, r.End.Row-r.Start.Row+1)
	for row := r.Start.Row; row <= r.End.Row; row++ {
		line := lines[row]
		if row == r.End.Row {
			line = line[:r.End.GraphemeCol]
		}
		if row == r.Start.Row {
			line = line[r.Start.GraphemeCol:]
		}
		parts = append(parts, grapheme.Join(line))
	}
	return strings.Join(parts, "\n")
}
