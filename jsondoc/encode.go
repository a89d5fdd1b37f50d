package jsondoc

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Indent is the indentation unit used by Format.
const Indent = "  "

// Format returns text re-serialized with two-space indentation.
func Format(text string) (string, error) {
	v, err := Parse(text)
	if err != nil {
		return "", err
	}
	return Encode(v, Indent), nil
}

// Compact returns text re-serialized on a single line.
func Compact(text string) (string, error) {
	v, err := Parse(text)
	if err != nil {
		return "", err
	}
	return Encode(v, ""), nil
}

// Encode serializes v. A non-empty indent puts every member on its own line.
func Encode(v Value, indent string) string {
	var sb strings.Builder
	e := encoder{sb: &sb, indent: indent}
	e.value(v, 0)
	return sb.String()
}

type encoder struct {
	sb     *strings.Builder
	indent string
}

func (e encoder) newline(depth int) {
	if e.indent == "" {
		return
	}
	e.sb.WriteByte('\n')
	for i := 0; i < depth; i++ {
		e.sb.WriteString(e.indent)
	}
}

func (e encoder) value(v Value, depth int) {
	switch x := v.(type) {
	case nil:
		e.sb.WriteString("null")
	case bool:
		e.sb.WriteString(strconv.FormatBool(x))
	case Number:
		e.sb.WriteString(FormatNumber(string(x)))
	case float64:
		e.sb.WriteString(formatFloat(x))
	case int:
		e.sb.WriteString(strconv.Itoa(x))
	case string:
		e.sb.WriteString(QuoteString(x))
	case []Value:
		if len(x) == 0 {
			e.sb.WriteString("[]")
			return
		}
		e.sb.WriteByte('[')
		for i, item := range x {
			if i > 0 {
				e.sb.WriteByte(',')
			}
			e.newline(depth + 1)
			e.value(item, depth+1)
		}
		e.newline(depth)
		e.sb.WriteByte(']')
	case *Object:
		if x == nil || x.Len() == 0 {
			e.sb.WriteString("{}")
			return
		}
		e.sb.WriteByte('{')
		first := true
		for pair := x.Oldest(); pair != nil; pair = pair.Next() {
			if !first {
				e.sb.WriteByte(',')
			}
			first = false
			e.newline(depth + 1)
			e.sb.WriteString(QuoteString(pair.Key))
			e.sb.WriteByte(':')
			if e.indent != "" {
				e.sb.WriteByte(' ')
			}
			e.value(pair.Value, depth+1)
		}
		e.newline(depth)
		e.sb.WriteByte('}')
	default:
		panic(fmt.Sprintf("jsondoc: cannot encode %T", v))
	}
}

// FormatNumber re-prints a JSON number literal the way JavaScript prints the
// parsed double. Literals that overflow a double print as null.
func FormatNumber(lit string) string {
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil && !math.IsInf(f, 0) {
		return lit
	}
	return formatFloat(f)
}

func formatFloat(f float64) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return "null"
	}
	if f == 0 {
		return "0"
	}

	sign := ""
	if f < 0 {
		sign = "-"
		f = -f
	}

	// Shortest round-trip digits d1.d2...dk and decimal exponent.
	s := strconv.FormatFloat(f, 'e', -1, 64)
	mant, expPart, _ := strings.Cut(s, "e")
	digits := strings.Replace(mant, ".", "", 1)
	exp, _ := strconv.Atoi(expPart)
	k := len(digits)
	n := exp + 1

	var out string
	switch {
	case k <= n && n <= 21:
		out = digits + strings.Repeat("0", n-k)
	case 0 < n && n <= 21:
		out = digits[:n] + "." + digits[n:]
	case -6 < n && n <= 0:
		out = "0." + strings.Repeat("0", -n) + digits
	default:
		e := n - 1
		expSign := "+"
		if e < 0 {
			expSign = "-"
			e = -e
		}
		m := digits[:1]
		if k > 1 {
			m += "." + digits[1:]
		}
		out = m + "e" + expSign + strconv.Itoa(e)
	}
	return sign + out
}

const hexDigits = "0123456789abcdef"

// QuoteString returns s as a JSON string literal. Only the quote, the
// backslash and control characters are escaped, plus lone surrogates carried
// in generalized UTF-8, which come out as \udXXX.
func QuoteString(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte('"')
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			if cu, ok := embeddedSurrogate(s, i); ok {
				writeUnicodeEscape(&sb, cu)
				i += 3
				continue
			}
		}
		i += size
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\b':
			sb.WriteString(`\b`)
		case '\f':
			sb.WriteString(`\f`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			if r < 0x20 {
				writeUnicodeEscape(&sb, int(r))
				continue
			}
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

func writeUnicodeEscape(sb *strings.Builder, cu int) {
	sb.WriteString(`\u`)
	for shift := 12; shift >= 0; shift -= 4 {
		sb.WriteByte(hexDigits[cu>>shift&0xf])
	}
}
