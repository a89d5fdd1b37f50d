// Package grapheme wraps uniseg for the grapheme-cluster operations shared by
// the buffer and the editor renderer.
package grapheme

import (
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// Split returns grapheme clusters for text in visual order.
func Split(text string) []string {
	if text == "" {
		return nil
	}
	g := uniseg.NewGraphemes(text)
	out := make([]string, 0, len(text))
	for g.Next() {
		out = append(out, g.Str())
	}
	return out
}

// Count returns the number of grapheme clusters in text.
func Count(text string) int {
	if text == "" {
		return 0
	}
	return uniseg.GraphemeClusterCount(text)
}

// Join concatenates grapheme clusters into a single string.
func Join(clusters []string) string { return strings.Join(clusters, "") }

// Width returns the terminal cell width of a single cluster. Zero-width
// clusters report 1 so the cursor always has a cell to sit on.
func Width(cluster string) int {
	if cluster == "\t" {
		return 1
	}
	w := runewidth.StringWidth(cluster)
	if w <= 0 {
		return 1
	}
	return w
}

// IsSpace reports whether all runes in cluster are Unicode whitespace.
func IsSpace(cluster string) bool {
	if cluster == "" {
		return false
	}
	for _, r := range cluster {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}
