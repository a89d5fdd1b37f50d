package buffer

// state is the part of a Buffer that undo and redo restore.
type state struct {
	text   string
	cursor Pos
	sel    selectionState
}

// history keeps undo and redo stacks. Only undo is bounded by
// Options.HistoryLimit; a limit below zero turns recording off.
type history struct {
	undo []state
	redo []state
}

func (b *Buffer) capture() state {
	return state{text: b.Text(), cursor: b.cursor, sel: b.sel}
}

func (b *Buffer) load(s state) {
	b.lines = splitLines(s.text)
	b.cursor = b.clampPos(s.cursor)
	b.sel = selectionState{}
	if !s.sel.active {
		return
	}
	anchor, end := b.clampPos(s.sel.anchor), b.clampPos(s.sel.end)
	if anchor != end {
		b.sel = selectionState{active: true, anchor: anchor, end: end}
	}
}

func (b *Buffer) pushUndo(s state) bool {
	limit := b.opt.HistoryLimit
	if limit <= 0 {
		return false
	}
	b.hist.undo = append(b.hist.undo, s)
	if over := len(b.hist.undo) - limit; over > 0 {
		b.hist.undo = b.hist.undo[over:]
	}
	return true
}

// remember records prev for a fresh edit, which invalidates redo.
func (b *Buffer) remember(prev state) {
	if b.pushUndo(prev) {
		b.hist.redo = nil
	}
}

func (b *Buffer) CanUndo() bool { return len(b.hist.undo) > 0 }

func (b *Buffer) CanRedo() bool { return len(b.hist.redo) > 0 }

// Undo restores the state before the last edit and reports whether there
// was one.
func (b *Buffer) Undo() bool {
	n := len(b.hist.undo)
	if n == 0 {
		return false
	}
	to := b.hist.undo[n-1]
	b.hist.undo = b.hist.undo[:n-1]
	cur := b.capture()
	b.hist.redo = append(b.hist.redo, cur)
	b.travel(cur, to)
	return true
}

// Redo reapplies the last undone edit.
func (b *Buffer) Redo() bool {
	n := len(b.hist.redo)
	if n == 0 {
		return false
	}
	to := b.hist.redo[n-1]
	b.hist.redo = b.hist.redo[:n-1]
	cur := b.capture()
	b.pushUndo(cur)
	b.travel(cur, to)
	return true
}

func (b *Buffer) travel(from, to state) {
	pc := b.beginChange(ChangeSourceLocal)
	b.load(to)
	b.version++
	if e, ok := wholeTextEdit(from.text, to.text); ok {
		b.textVersion++
		pc.addAppliedEdit(e)
	}
	b.commitChange(pc)
}
