package grapheme

import "testing"

const family = "\U0001F468\u200d\U0001F469\u200d\U0001F467"

func TestSplitAndCount_MultiRuneGraphemes(t *testing.T) {
	text := "a" + "é" + family + "b"
	got := Split(text)
	if len(got) != 4 {
		t.Fatalf("split len=%d, want %d", len(got), 4)
	}
	if got[1] != "é" {
		t.Fatalf("split[1]=%q, want %q", got[1], "é")
	}
	if got[2] != family {
		t.Fatalf("split[2]=%q, want family emoji", got[2])
	}
	if c := Count(text); c != 4 {
		t.Fatalf("count=%d, want %d", c, 4)
	}
	if got := Join(got); got != text {
		t.Fatalf("join=%q, want %q", got, text)
	}
}

func TestWidth(t *testing.T) {
	cases := []struct {
		cluster string
		want    int
	}{
		{cluster: "a", want: 1},
		{cluster: "中", want: 2},
		{cluster: "é", want: 1},
		{cluster: "\t", want: 1},
	}
	for _, tc := range cases {
		if got := Width(tc.cluster); got != tc.want {
			t.Fatalf("Width(%q)=%d, want %d", tc.cluster, got, tc.want)
		}
	}
}

func TestIsSpace(t *testing.T) {
	if !IsSpace("\t") {
		t.Fatalf("tab should be space")
	}
	if IsSpace("a") {
		t.Fatalf("letter should not be space")
	}
	if IsSpace("") {
		t.Fatalf("empty cluster should not be space")
	}
}
