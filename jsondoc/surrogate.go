package jsondoc

import (
	"strconv"
	"strings"
)

// Lone UTF-16 surrogates (`"\ud800"`) are valid JSON but have no UTF-8
// encoding, and jsonparser refuses to unescape them. Before walking, each
// lone surrogate escape is swapped for its three-byte generalized UTF-8 form
// (0xED 0xA0-0xBF 0x80-0xBF). jsonparser copies those bytes through and
// QuoteString turns them back into the escape, as JSON.stringify does.

// isSurrogate reports whether cu is a UTF-16 surrogate code unit.
func isSurrogate(cu int) bool { return cu >= 0xd800 && cu <= 0xdfff }

// readEscape parses the `\uXXXX` escape at text[i].
func readEscape(text string, i int) (int, bool) {
	if i+6 > len(text) || text[i] != '\\' || text[i+1] != 'u' {
		return 0, false
	}
	cu, err := strconv.ParseUint(text[i+2:i+6], 16, 32)
	if err != nil {
		return 0, false
	}
	return int(cu), true
}

// embedSurrogates rewrites lone surrogate escapes inside string literals of
// an already validated text. Text without them is returned as is.
func embedSurrogates(text string) string {
	if !strings.Contains(text, `\u`) {
		return text
	}
	var sb strings.Builder
	changed := false
	inString := false
	for i := 0; i < len(text); {
		c := text[i]
		switch {
		case c == '"':
			inString = !inString
		case c == '\\' && inString:
			cu, ok := readEscape(text, i)
			if !ok {
				// Two-byte escape such as \" or \\.
				sb.WriteString(text[i : i+2])
				i += 2
				continue
			}
			if cu >= 0xd800 && cu <= 0xdbff {
				if lo, ok := readEscape(text, i+6); ok && lo >= 0xdc00 && lo <= 0xdfff {
					sb.WriteString(text[i : i+12])
					i += 12
					continue
				}
			}
			if isSurrogate(cu) {
				sb.WriteByte(byte(0xe0 | cu>>12))
				sb.WriteByte(byte(0x80 | (cu>>6)&0x3f))
				sb.WriteByte(byte(0x80 | cu&0x3f))
				changed = true
			} else {
				sb.WriteString(text[i : i+6])
			}
			i += 6
			continue
		}
		sb.WriteByte(c)
		i++
	}
	if !changed {
		return text
	}
	return sb.String()
}

// embeddedSurrogate decodes a generalized UTF-8 surrogate at s[i].
func embeddedSurrogate(s string, i int) (int, bool) {
	if i+3 > len(s) || s[i] != 0xed || s[i+1]&0xe0 != 0xa0 || s[i+2]&0xc0 != 0x80 {
		return 0, false
	}
	return 0xd000 | int(s[i+1]&0x3f)<<6 | int(s[i+2]&0x3f), true
}
