package jsondoc

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Validate reports whether text is a single well-formed JSON value.
// On failure errs holds exactly one human-readable diagnostic.
func Validate(text string) (valid bool, errs []string) {
	if err := check(text); err != nil {
		return false, []string{err.Error()}
	}
	return true, nil
}

// SyntaxError is a parse failure with a 1-based line and column.
type SyntaxError struct {
	Msg    string
	Offset int64
	Line   int
	Column int
}

func (e *SyntaxError) Error() string {
	if e.Line == 0 {
		return e.Msg
	}
	return fmt.Sprintf("%s (line %d, column %d)", e.Msg, e.Line, e.Column)
}

func check(text string) error {
	if strings.TrimSpace(text) == "" {
		return &SyntaxError{Msg: "unexpected end of JSON input"}
	}

	var raw json.RawMessage
	err := json.Unmarshal([]byte(text), &raw)
	if err == nil {
		return nil
	}

	var se *json.SyntaxError
	if errors.As(err, &se) {
		line, col := position(text, se.Offset)
		return &SyntaxError{Msg: se.Error(), Offset: se.Offset, Line: line, Column: col}
	}
	return &SyntaxError{Msg: err.Error()}
}

// position maps a byte offset reported by encoding/json to a line and column.
// The decoder reports the offset just past the offending byte.
func position(text string, offset int64) (line, col int) {
	if offset > int64(len(text)) {
		offset = int64(len(text))
	}
	if offset > 0 {
		offset--
	}
	prefix := text[:offset]
	line = strings.Count(prefix, "\n") + 1
	col = len([]rune(prefix[strings.LastIndexByte(prefix, '\n')+1:])) + 1
	return line, col
}
