package editor

import (
	"strconv"
	"strings"
)

// PixelsPerRow converts "<n>px" height hints to terminal rows.
const PixelsPerRow = 20

// Rows resolves a height hint to a number of content rows. avail is the
// number of rows the host can give the editor; zero means unknown and skips
// clamping. Unparseable hints fall back to DefaultHeight.
func Rows(hint string, avail int) int {
	rows, ok := parseHeight(hint, avail)
	if !ok {
		rows, _ = parseHeight(DefaultHeight, avail)
	}
	if rows < 1 {
		rows = 1
	}
	if avail > 0 && rows > avail {
		rows = avail
	}
	return rows
}

func parseHeight(hint string, avail int) (int, bool) {
	hint = strings.TrimSpace(strings.ToLower(hint))
	switch {
	case strings.HasSuffix(hint, "px"):
		n, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(hint, "px")), 64)
		if err != nil || n < 0 {
			return 0, false
		}
		return int(n+PixelsPerRow-1) / PixelsPerRow, true
	case strings.HasSuffix(hint, "%"):
		n, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(hint, "%")), 64)
		if err != nil || n < 0 {
			return 0, false
		}
		if avail <= 0 {
			return 0, false
		}
		return int(float64(avail) * n / 100), true
	default:
		n, err := strconv.Atoi(hint)
		if err != nil || n < 0 {
			return 0, false
		}
		return n, true
	}
}
