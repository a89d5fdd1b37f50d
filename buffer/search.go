package buffer

import (
	"strings"

	"github.com/iw2rmb/navedit/internal/grapheme"
)

// FindNext returns the range of the next case-insensitive occurrence of query
// starting at from, wrapping to the start of the document. Matches never span
// lines.
func (b *Buffer) FindNext(query string, from Pos) (Range, bool) {
	if query == "" {
		return Range{}, false
	}
	needle := grapheme.Split(strings.ToLower(query))
	from = b.clampPos(from)

	rows := len(b.lines)
	for i := 0; i <= rows; i++ {
		row := (from.Row + i) % rows
		startCol := 0
		if i == 0 {
			startCol = from.GraphemeCol
		}
		endCol := len(b.lines[row])
		if i == rows {
			// Wrapped back to the starting row: only search before from.
			endCol = min(from.GraphemeCol+len(needle)-1, endCol)
		}
		if col, ok := indexGraphemes(b.lines[row], needle, startCol, endCol); ok {
			return Range{
				Start: Pos{Row: row, GraphemeCol: col},
				End:   Pos{Row: row, GraphemeCol: col + len(needle)},
			}, true
		}
	}
	return Range{}, false
}

// indexGraphemes finds needle in line[start:end], comparing lower-cased clusters.
func indexGraphemes(line, needle []string, start, end int) (int, bool) {
	for col := start; col+len(needle) <= end; col++ {
		match := true
		for j, g := range needle {
			if strings.ToLower(line[col+j]) != g {
				match = false
				break
			}
		}
		if match {
			return col, true
		}
	}
	return 0, false
}
