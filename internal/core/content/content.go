// Package content turns fetched bytes into embeddable text.
package content

import (
	"fmt"
	"unicode/utf8"
)

// InvalidContentError reports fetched bytes that are not valid UTF-8 and so
// cannot become a text constant.
type InvalidContentError struct {
	Offset int // byte offset of the first invalid sequence
}

func (e *InvalidContentError) Error() string {
	return fmt.Sprintf("content is not valid UTF-8 (first invalid byte at offset %d)", e.Offset)
}

// Materialize decodes data as UTF-8 text. On success the returned string is
// byte-for-byte identical to the fetched body.
func Materialize(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", &InvalidContentError{Offset: invalidOffset(data)}
	}
	return string(data), nil
}

func invalidOffset(data []byte) int {
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return len(data)
}
