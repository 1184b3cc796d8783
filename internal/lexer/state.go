package lexer

import "fmt"

// state identifies where the machine sits between two characters.
// It is the only control value carried across chunk boundaries, so the
// machine can be suspended between any two characters and resumed later.
type state int

const (
	stateStartRecord state = iota
	stateStartField
	stateInField
	stateEscape
	stateInQuotedField
	stateEscapeInQuoted
	stateQuoteInQuoted
	stateEatNewline
)

// String returns the state name for diagnostics.
func (s state) String() string {
	switch s {
	case stateStartRecord:
		return "start-of-record"
	case stateStartField:
		return "start-of-field"
	case stateInField:
		return "in-unquoted-field"
	case stateEscape:
		return "escape-in-unquoted-field"
	case stateInQuotedField:
		return "in-quoted-field"
	case stateEscapeInQuoted:
		return "escape-in-quoted-field"
	case stateQuoteInQuoted:
		return "quote-seen-in-quoted-field"
	case stateEatNewline:
		return "consuming-trailing-newline"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// endOfRecord reports whether the state sits between two records, i.e.
// nothing is pending that an end of input would have to flush.
func (s state) endOfRecord() bool {
	return s == stateStartRecord || s == stateEatNewline
}

// unexpectedAtEOF reports whether running out of input in this state is a
// grammar violation under strict mode: an open quote or a dangling escape
// cannot legally terminate.
func (s state) unexpectedAtEOF() bool {
	return s == stateEscape || s == stateInQuotedField || s == stateEscapeInQuoted
}

// Decision is the machine's verdict after one character.
type Decision int

const (
	// Continue consumes the character with no record boundary.
	Continue Decision = iota
	// Done consumes the character and completes the current record.
	Done
	// DoneWithoutConsuming completes the current record but leaves the
	// triggering character unconsumed; it must be re-dispatched against
	// start-of-record. Only produced when a lone CR turns out not to be
	// part of a CRLF pair.
	DoneWithoutConsuming
)

// String returns the decision name for diagnostics.
func (d Decision) String() string {
	switch d {
	case Continue:
		return "continue"
	case Done:
		return "done"
	case DoneWithoutConsuming:
		return "done-without-consuming"
	default:
		return fmt.Sprintf("Decision(%d)", int(d))
	}
}
