package buffer

import (
	"unicode"
	"unicode/utf8"

	"github.com/iw2rmb/navedit/internal/grapheme"
)

type MoveUnit int

const (
	MoveGrapheme MoveUnit = iota
	MoveWord
	MoveLine
	MoveDoc
)

type MoveDir int

const (
	DirLeft MoveDir = iota
	DirRight
	DirUp
	DirDown
	DirHome // line start (or doc start for MoveDoc)
	DirEnd  // line end (or doc end for MoveDoc)
)

// Move describes a cursor motion. Extend grows the selection from its anchor;
// otherwise the selection is cleared.
type Move struct {
	Unit   MoveUnit
	Dir    MoveDir
	Extend bool
}

func (b *Buffer) Move(m Move) {
	from := b.cursor
	to := b.clampPos(b.target(from, m))

	var sel selectionState
	if m.Extend {
		anchor := from
		if b.sel.active && b.sel.anchor != b.sel.end {
			anchor = b.sel.anchor
		}
		if anchor != to {
			sel = selectionState{active: true, anchor: anchor, end: to}
		}
	}

	if from == to && sameSelection(b.sel, sel) {
		return
	}

	b.place(to, sel)
}

func sameSelection(a, b selectionState) bool {
	if !a.active || !b.active {
		return a.active == b.active
	}
	return a.anchor == b.anchor && a.end == b.end
}

func (b *Buffer) target(p Pos, m Move) Pos {
	last := len(b.lines) - 1

	// Home/End and vertical steps are shared by every unit except MoveDoc.
	if m.Unit == MoveDoc {
		switch m.Dir {
		case DirHome, DirUp:
			return Pos{}
		case DirEnd, DirDown:
			return Pos{Row: last, GraphemeCol: len(b.lines[last])}
		}
		return p
	}
	switch m.Dir {
	case DirHome:
		return Pos{Row: p.Row}
	case DirEnd:
		return Pos{Row: p.Row, GraphemeCol: len(b.lines[p.Row])}
	case DirUp:
		return b.vertical(p, -1)
	case DirDown:
		return b.vertical(p, 1)
	}

	switch m.Unit {
	case MoveGrapheme:
		return b.step(p, m.Dir)
	case MoveWord:
		return b.word(p, m.Dir)
	}
	return p
}

func (b *Buffer) vertical(p Pos, delta int) Pos {
	row := p.Row + delta
	if row < 0 || row >= len(b.lines) {
		return p
	}
	return Pos{Row: row, GraphemeCol: min(p.GraphemeCol, len(b.lines[row]))}
}

// step moves one grapheme, wrapping across line ends.
func (b *Buffer) step(p Pos, dir MoveDir) Pos {
	switch dir {
	case DirLeft:
		switch {
		case p.GraphemeCol > 0:
			p.GraphemeCol--
		case p.Row > 0:
			p.Row--
			p.GraphemeCol = len(b.lines[p.Row])
		}
	case DirRight:
		switch {
		case p.GraphemeCol < len(b.lines[p.Row]):
			p.GraphemeCol++
		case p.Row < len(b.lines)-1:
			p.Row++
			p.GraphemeCol = 0
		}
	}
	return p
}

// word moves over whitespace and then one run of same-class graphemes, so
// JSON punctuation such as `":` stops separately from keys and values. A line
// end counts as one step.
func (b *Buffer) word(p Pos, dir MoveDir) Pos {
	line := b.lines[p.Row]
	switch dir {
	case DirLeft:
		if p.GraphemeCol == 0 {
			return b.step(p, DirLeft)
		}
		i := p.GraphemeCol
		for i > 0 && classOf(line[i-1]) == classSpace {
			i--
		}
		if i > 0 {
			c := classOf(line[i-1])
			for i > 0 && classOf(line[i-1]) == c {
				i--
			}
		}
		return Pos{Row: p.Row, GraphemeCol: i}
	case DirRight:
		if p.GraphemeCol >= len(line) {
			return b.step(p, DirRight)
		}
		i := p.GraphemeCol
		for i < len(line) && classOf(line[i]) == classSpace {
			i++
		}
		if i < len(line) {
			c := classOf(line[i])
			for i < len(line) && classOf(line[i]) == c {
				i++
			}
		}
		return Pos{Row: p.Row, GraphemeCol: i}
	}
	return p
}

type charClass int

const (
	classSpace charClass = iota
	classWord
	classPunct
)

func classOf(g string) charClass {
	if grapheme.IsSpace(g) {
		return classSpace
	}
	r, _ := utf8.DecodeRuneInString(g)
	if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
		return classWord
	}
	return classPunct
}
