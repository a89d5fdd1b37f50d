package buffer

import "cmp"

// Pos points into the logical document by (row, col) in grapheme clusters.
// Row and GraphemeCol are 0-based.
type Pos struct {
	Row         int
	GraphemeCol int
}

// Range is a half-open span [Start, End). Buffer methods normalize it so
// that Start comes first.
type Range struct {
	Start Pos
	End   Pos
}

// TextEdit replaces the text in Range with Text (which may contain '\n').
type TextEdit struct {
	Range Range
	Text  string
}

// ComparePos orders positions by row, then column.
func ComparePos(a, b Pos) int {
	if c := cmp.Compare(a.Row, b.Row); c != 0 {
		return c
	}
	return cmp.Compare(a.GraphemeCol, b.GraphemeCol)
}

func NormalizeRange(r Range) Range {
	if ComparePos(r.Start, r.End) > 0 {
		r.Start, r.End = r.End, r.Start
	}
	return r
}

func (r Range) IsEmpty() bool { return r.Start == r.End }

// ClampPos pulls p into a document of rowCount rows (at least one) whose row
// lengths come from lineLen. A nil lineLen treats every row as empty.
func ClampPos(p Pos, rowCount int, lineLen func(row int) int) Pos {
	row := max(0, min(p.Row, max(rowCount, 1)-1))
	width := 0
	if lineLen != nil {
		width = max(lineLen(row), 0)
	}
	return Pos{Row: row, GraphemeCol: max(0, min(p.GraphemeCol, width))}
}

func ClampRange(r Range, rowCount int, lineLen func(row int) int) Range {
	return Range{
		Start: ClampPos(r.Start, rowCount, lineLen),
		End:   ClampPos(r.End, rowCount, lineLen),
	}
}
