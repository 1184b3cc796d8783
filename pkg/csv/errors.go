// Package csv provides error types for streaming CSV parsing.
package csv

import (
	"errors"
	"fmt"

	"github.com/shapestone/stream-csv/internal/lexer"
)

// Sentinel parsing errors. ParseError wraps these, so test with errors.Is.
var (
	// ErrFieldTooLarge indicates a field exceeded FieldSizeLimit.
	ErrFieldTooLarge = lexer.ErrFieldTooLarge

	// ErrUnexpectedEOF indicates end of data inside an open quote or a
	// dangling escape under strict mode.
	ErrUnexpectedEOF = lexer.ErrUnexpectedEOF

	// ErrDelimiterExpected indicates a stray character after a closing
	// quote under strict mode.
	ErrDelimiterExpected = lexer.ErrDelimiterExpected

	// ErrNeedEscape indicates a field that cannot be written under the
	// dialect because no escape character is configured.
	ErrNeedEscape = errors.New("need to escape, but no escapechar set")
)

// DialectError reports an invalid dialect or option configuration. It is
// produced at construction, never during parsing.
type DialectError struct {
	Field   string
	Message string
}

func (e *DialectError) Error() string {
	return "csv: invalid " + e.Field + ": " + e.Message
}

// SourceContractError reports a misbehaving chunk source: a chunk longer
// than requested or one that is not decodable text. Parsing halts
// immediately and no partial record is salvaged.
type SourceContractError struct {
	Reason string
}

func (e *SourceContractError) Error() string {
	return "csv: source contract violation: " + e.Reason
}

// ParseError reports a fatal parsing error with the line it occurred on
// (1-indexed). The reader that produced it is not resumable.
type ParseError struct {
	// Line is the line where the error occurred (1-indexed).
	Line int
	// Err is the underlying error.
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error on line %d: %v", e.Line, e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}
