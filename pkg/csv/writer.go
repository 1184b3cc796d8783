package csv

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Writer serializes records as CSV text under a Dialect. It is the
// serialization counterpart of Reader: writing records and re-parsing the
// output under the same dialect reproduces the original values.
//
// Output is buffered; call Flush when done.
type Writer struct {
	dst     *bufio.Writer
	dialect Dialect
}

// NewWriter returns a Writer using the Excel dialect.
func NewWriter(w io.Writer) *Writer {
	writer, err := NewWriterWithDialect(w, Excel())
	if err != nil {
		// Excel() always validates.
		panic(err)
	}
	return writer
}

// NewWriterWithDialect returns a Writer with a custom dialect.
func NewWriterWithDialect(w io.Writer, dialect Dialect) (*Writer, error) {
	dialect = dialect.normalized()
	if err := dialect.Validate(); err != nil {
		return nil, err
	}
	return &Writer{
		dst:     bufio.NewWriter(w),
		dialect: dialect,
	}, nil
}

// WriteRecord writes one record followed by the dialect's line terminator.
func (w *Writer) WriteRecord(rec Record) error {
	for i, v := range rec {
		if i > 0 {
			if _, err := w.dst.WriteRune(w.dialect.Delimiter); err != nil {
				return err
			}
		}
		if err := w.writeField(v, len(rec) == 1); err != nil {
			return err
		}
	}
	_, err := w.dst.WriteString(w.dialect.LineTerminator)
	return err
}

// WriteStrings writes one record of text values.
func (w *Writer) WriteStrings(fields []string) error {
	return w.WriteRecord(TextRecord(fields...))
}

// WriteAll writes every record and flushes.
func (w *Writer) WriteAll(records []Record) error {
	for _, rec := range records {
		if err := w.WriteRecord(rec); err != nil {
			return err
		}
	}
	return w.Flush()
}

// Flush writes buffered output to the underlying writer.
func (w *Writer) Flush() error {
	return w.dst.Flush()
}

// writeField writes one field, quoted or escaped as the dialect demands.
// A lone empty field is quoted so the record does not read back as blank.
func (w *Writer) writeField(v Value, lone bool) error {
	text := v.String()

	quoted := false
	switch w.dialect.Quoting {
	case QuoteAll:
		quoted = true
	case QuoteNonNumeric:
		quoted = !v.IsNumber()
	case QuoteMinimal:
		quoted = w.needsQuoting(text)
	case QuoteNone:
		quoted = false
	}
	if !quoted && lone && text == "" && w.dialect.Quoting != QuoteNone {
		quoted = true
	}

	if quoted {
		return w.writeQuoted(text)
	}
	return w.writeBare(text)
}

// needsQuoting reports whether text cannot be written bare under the
// dialect: it contains the delimiter, the quote or escape character, or a
// line terminator character.
func (w *Writer) needsQuoting(text string) bool {
	if strings.ContainsRune(text, w.dialect.Delimiter) || strings.ContainsAny(text, "\r\n") {
		return true
	}
	if w.dialect.Quote != 0 && strings.ContainsRune(text, w.dialect.Quote) {
		return true
	}
	if w.dialect.Escape != 0 && strings.ContainsRune(text, w.dialect.Escape) {
		return true
	}
	return false
}

func (w *Writer) writeQuoted(text string) error {
	if _, err := w.dst.WriteRune(w.dialect.Quote); err != nil {
		return err
	}
	for _, c := range text {
		switch {
		case c == w.dialect.Quote:
			if w.dialect.DoubleQuote {
				if _, err := w.dst.WriteRune(c); err != nil {
					return err
				}
			} else if w.dialect.Escape != 0 {
				if _, err := w.dst.WriteRune(w.dialect.Escape); err != nil {
					return err
				}
			} else {
				return fmt.Errorf("%w: %q in quoted field", ErrNeedEscape, c)
			}
		case w.dialect.Escape != 0 && c == w.dialect.Escape:
			if _, err := w.dst.WriteRune(w.dialect.Escape); err != nil {
				return err
			}
		}
		if _, err := w.dst.WriteRune(c); err != nil {
			return err
		}
	}
	_, err := w.dst.WriteRune(w.dialect.Quote)
	return err
}

func (w *Writer) writeBare(text string) error {
	for _, c := range text {
		if w.isSpecial(c) {
			if w.dialect.Escape == 0 {
				return fmt.Errorf("%w: %q in unquoted field", ErrNeedEscape, c)
			}
			if _, err := w.dst.WriteRune(w.dialect.Escape); err != nil {
				return err
			}
		}
		if _, err := w.dst.WriteRune(c); err != nil {
			return err
		}
	}
	return nil
}

// isSpecial reports whether c would change meaning if written bare.
func (w *Writer) isSpecial(c rune) bool {
	if c == w.dialect.Delimiter || c == '\r' || c == '\n' {
		return true
	}
	if w.dialect.Escape != 0 && c == w.dialect.Escape {
		return true
	}
	if w.dialect.Quote != 0 && c == w.dialect.Quote {
		return true
	}
	return false
}
