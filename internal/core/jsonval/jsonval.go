// Package jsonval parses materialized text as JSON into a generic tree value.
package jsonval

import (
	"encoding/json"
	"fmt"
)

// ParseError reports syntactically invalid JSON, with the position of the
// error inside the fetched text where the decoder provides one.
type ParseError struct {
	Line, Column int // 1-based; zero when the offset is unknown
	Err          error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("invalid JSON at line %d, column %d: %v", e.Line, e.Column, e.Err)
	}
	return fmt.Sprintf("invalid JSON: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parse decodes text into the generic JSON tree: map[string]any, []any,
// string, float64, bool, or nil.
func Parse(text string) (any, error) {
	var value any
	if err := json.Unmarshal([]byte(text), &value); err != nil {
		return nil, newParseError(text, err)
	}
	return value, nil
}

func newParseError(text string, err error) *ParseError {
	var offset int64 = -1
	switch e := err.(type) {
	case *json.SyntaxError:
		offset = e.Offset
	case *json.UnmarshalTypeError:
		offset = e.Offset
	}
	if offset < 0 || offset > int64(len(text)) {
		return &ParseError{Err: err}
	}

	line, col := 1, 1
	for _, r := range text[:offset] {
		if r == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return &ParseError{Line: line, Column: col, Err: err}
}
