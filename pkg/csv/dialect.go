// Package csv implements a streaming, dialect-configurable CSV reader and
// writer. Records are pulled one at a time from a suspending chunk source,
// with results identical to parsing the fully buffered input at once.
package csv

import (
	"fmt"
	"unicode/utf8"
)

// QuoteMode selects how the quote character participates in parsing and
// writing.
type QuoteMode int

const (
	// QuoteMinimal quotes written fields only when necessary; when reading,
	// quotes have their usual special meaning.
	QuoteMinimal QuoteMode = iota
	// QuoteAll quotes every written field.
	QuoteAll
	// QuoteNonNumeric quotes written text fields and, when reading, coerces
	// unquoted fields to numbers.
	QuoteNonNumeric
	// QuoteNone disables quote-character special-casing entirely.
	QuoteNone
)

// String returns the string representation of QuoteMode.
func (m QuoteMode) String() string {
	switch m {
	case QuoteMinimal:
		return "minimal"
	case QuoteAll:
		return "all"
	case QuoteNonNumeric:
		return "non-numeric"
	case QuoteNone:
		return "none"
	default:
		return fmt.Sprintf("QuoteMode(%d)", int(m))
	}
}

// Dialect bundles the lexing and writing parameters. Build one from Excel()
// or Unix() and adjust fields, then pass it to a Reader or Writer, which
// validate it once at construction; a Dialect is never mutated afterwards.
type Dialect struct {
	// Delimiter is the field separator. It must be exactly one character
	// and must not be CR or LF.
	Delimiter rune

	// Quote is the quote character, or 0 for none. Required unless Quoting
	// is QuoteNone.
	Quote rune

	// Escape is the escape character, or 0 for none. An escaped character
	// is taken literally, bypassing all special meaning.
	Escape rune

	// Quoting is the quoting mode.
	Quoting QuoteMode

	// DoubleQuote controls whether a doubled quote inside a quoted field
	// decodes to one literal quote character.
	DoubleQuote bool

	// SkipInitialSpace drops a run of leading whitespace from each field.
	SkipInitialSpace bool

	// Strict turns otherwise-tolerated malformed sequences into fatal
	// errors.
	Strict bool

	// LineTerminator is the terminator the Writer emits. The reader always
	// accepts CR, LF and CRLF regardless. Default: "\r\n".
	LineTerminator string
}

// Excel returns the default dialect: comma-delimited, double-quoted, CRLF
// line terminators.
func Excel() Dialect {
	return Dialect{
		Delimiter:      ',',
		Quote:          '"',
		DoubleQuote:    true,
		Quoting:        QuoteMinimal,
		LineTerminator: "\r\n",
	}
}

// Unix returns a dialect with every field quoted and LF line terminators.
func Unix() Dialect {
	return Dialect{
		Delimiter:      ',',
		Quote:          '"',
		DoubleQuote:    true,
		Quoting:        QuoteAll,
		LineTerminator: "\n",
	}
}

// Validate checks the dialect. Returns a *DialectError describing the first
// invalid field, or nil.
func (d Dialect) Validate() error {
	if d.Delimiter == 0 {
		return &DialectError{Field: "Delimiter", Message: "must be set"}
	}
	if !validChar(d.Delimiter) || d.Delimiter == '\r' || d.Delimiter == '\n' {
		return &DialectError{Field: "Delimiter", Message: "invalid delimiter"}
	}
	if d.Quote != 0 && !validChar(d.Quote) {
		return &DialectError{Field: "Quote", Message: "invalid quote character"}
	}
	if d.Escape != 0 && !validChar(d.Escape) {
		return &DialectError{Field: "Escape", Message: "invalid escape character"}
	}
	switch d.Quoting {
	case QuoteMinimal, QuoteAll, QuoteNonNumeric, QuoteNone:
	default:
		return &DialectError{Field: "Quoting", Message: fmt.Sprintf("bad quoting mode %d", int(d.Quoting))}
	}
	if d.Quoting != QuoteNone && d.Quote == 0 {
		return &DialectError{Field: "Quote", Message: "quote character must be set when quoting is enabled"}
	}
	return nil
}

// normalized fills defaults for zero-valued optional fields.
func (d Dialect) normalized() Dialect {
	if d.LineTerminator == "" {
		d.LineTerminator = "\r\n"
	}
	return d
}

// validChar reports whether c can serve as a one-character dialect option.
func validChar(c rune) bool {
	return c != 0 && utf8.ValidRune(c) && c != utf8.RuneError
}
