package buffer

import "testing"

func TestComparePos_OrdersByRowThenColumn(t *testing.T) {
	cases := []struct {
		a, b Pos
		want int
	}{
		{Pos{Row: 0, GraphemeCol: 7}, Pos{Row: 1}, -1},
		{Pos{Row: 2}, Pos{Row: 1, GraphemeCol: 999}, 1},
		{Pos{Row: 1}, Pos{Row: 1, GraphemeCol: 1}, -1},
		{Pos{Row: 3, GraphemeCol: 4}, Pos{Row: 3, GraphemeCol: 4}, 0},
	}
	for _, tc := range cases {
		if got := ComparePos(tc.a, tc.b); got != tc.want {
			t.Fatalf("ComparePos(%v, %v)=%d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestNormalizeRange_SwapsBackwardSelection(t *testing.T) {
	back := Range{Start: Pos{Row: 4, GraphemeCol: 2}, End: Pos{Row: 1, GraphemeCol: 12}}
	r := NormalizeRange(back)
	if r.Start != back.End || r.End != back.Start {
		t.Fatalf("range=%v, want start %v end %v", r, back.End, back.Start)
	}
	if again := NormalizeRange(r); again != r {
		t.Fatalf("normalize not idempotent: %v != %v", again, r)
	}
}

func TestClampPos_KeepsPositionsInsideDocument(t *testing.T) {
	// {"categories": [
	//
	// ]}
	widths := []int{16, 0, 2}
	width := func(row int) int { return widths[row] }

	cases := []struct {
		in, want Pos
	}{
		{Pos{Row: -3, GraphemeCol: -1}, Pos{}},
		{Pos{Row: 50, GraphemeCol: 50}, Pos{Row: 2, GraphemeCol: 2}},
		{Pos{Row: 1, GraphemeCol: 4}, Pos{Row: 1}},
		{Pos{Row: 0, GraphemeCol: 15}, Pos{Row: 0, GraphemeCol: 15}},
	}
	for _, tc := range cases {
		if got := ClampPos(tc.in, len(widths), width); got != tc.want {
			t.Fatalf("ClampPos(%v)=%v, want %v", tc.in, got, tc.want)
		}
	}

	if got := ClampPos(Pos{Row: 2, GraphemeCol: 2}, 0, nil); got != (Pos{}) {
		t.Fatalf("empty document clamp=%v, want origin", got)
	}
}
