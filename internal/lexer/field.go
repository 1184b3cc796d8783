package lexer

import (
	"errors"
	"fmt"
	"strconv"
	"unicode"
)

// Errors surfaced by the machine. The csv package re-exports these so that
// callers can test with errors.Is without importing an internal package.
var (
	// ErrFieldTooLarge reports a field that grew past the configured limit.
	ErrFieldTooLarge = errors.New("field larger than field limit")

	// ErrUnexpectedEOF reports end of input inside an open quote or a
	// dangling escape under strict mode.
	ErrUnexpectedEOF = errors.New("unexpected end of data")

	// ErrDelimiterExpected reports a character other than a delimiter or
	// line terminator after a closing quote under strict mode.
	ErrDelimiterExpected = errors.New("delimiter expected after closing quote")
)

// Field is one committed field value: text, or a number when non-numeric
// quoting coerced it.
type Field struct {
	Text    string
	Number  float64
	Numeric bool
}

// fieldBuffer accumulates the characters of the field under construction.
// Capacity grows geometrically and is retained across commits; length is
// checked against the hard limit before every append.
type fieldBuffer struct {
	buf   []rune
	limit int
}

func (b *fieldBuffer) append(c rune) error {
	if len(b.buf) == b.limit {
		return fmt.Errorf("%w (%d)", ErrFieldTooLarge, b.limit)
	}
	if len(b.buf) == cap(b.buf) {
		grown := make([]rune, len(b.buf), growCap(cap(b.buf)))
		copy(grown, b.buf)
		b.buf = grown
	}
	b.buf = append(b.buf, c)
	return nil
}

func growCap(c int) int {
	if c == 0 {
		return 16
	}
	return c * 2
}

// commit produces the field value from the buffered characters and resets
// the length, keeping the capacity. Leading-whitespace skipping and numeric
// coercion happen here, never during character classification, so partially
// read chunks never need to un-skip consumed whitespace.
func (b *fieldBuffer) commit(skipInitialSpace, numeric bool) (Field, error) {
	chars := b.buf
	if skipInitialSpace {
		chars = chars[firstNonSpace(chars):]
	}
	text := string(chars)
	b.buf = b.buf[:0]

	// The reference grammar leaves an empty field as text even when the
	// numeric flag is set.
	if numeric && text != "" {
		n, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return Field{}, fmt.Errorf("could not convert %q to float: %w", text, err)
		}
		return Field{Number: n, Numeric: true}, nil
	}
	return Field{Text: text}, nil
}

func firstNonSpace(chars []rune) int {
	for i, c := range chars {
		if !unicode.IsSpace(c) {
			return i
		}
	}
	return len(chars)
}
