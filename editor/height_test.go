package editor

import "testing"

func TestRows(t *testing.T) {
	cases := []struct {
		hint  string
		avail int
		want  int
	}{
		{"500px", 0, 25},
		{"", 0, 25},
		{"500px", 10, 10},
		{"30px", 0, 2},
		{"20px", 40, 1},
		{"12", 40, 12},
		{"12", 5, 5},
		{"50%", 40, 20},
		{"100%", 7, 7},
		{"50%", 0, 25},
		{"0", 10, 1},
		{"garbage", 0, 25},
		{"-4px", 30, 25},
		{" 40PX ", 0, 2},
	}
	for _, tc := range cases {
		if got := Rows(tc.hint, tc.avail); got != tc.want {
			t.Fatalf("Rows(%q, %d): got %d, want %d", tc.hint, tc.avail, got, tc.want)
		}
	}
}
