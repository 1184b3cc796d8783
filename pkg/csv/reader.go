package csv

import (
	"context"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/shapestone/stream-csv/internal/lexer"
)

const (
	// DefaultFieldSizeLimit is the default ceiling on a single field's
	// length in characters.
	DefaultFieldSizeLimit = 131072

	// DefaultReadSize is the default number of characters requested from
	// the chunk source per read.
	DefaultReadSize = 4096
)

// ReaderOptions configures a Reader.
type ReaderOptions struct {
	// Dialect is the lexing configuration. Default: Excel().
	Dialect Dialect

	// FieldSizeLimit is the maximum field length in characters, checked on
	// every append. Exceeding it is a fatal parse error carrying the limit
	// in its message. Default: DefaultFieldSizeLimit.
	FieldSizeLimit int

	// ReadSize is the chunk size requested from the source. It only
	// affects performance, never results. Default: DefaultReadSize.
	ReadSize int
}

// DefaultReaderOptions returns the default reader configuration.
func DefaultReaderOptions() ReaderOptions {
	return ReaderOptions{
		Dialect:        Excel(),
		FieldSizeLimit: DefaultFieldSizeLimit,
		ReadSize:       DefaultReadSize,
	}
}

// Reader pulls complete CSV records one at a time from a ChunkSource.
//
// A Reader owns its chunk buffer, field accumulator and record in progress
// exclusively; concurrent use of one Reader, or of several Readers over a
// source that does not serialize access, is not safe.
//
// After any error other than io.EOF the Reader is spent: every subsequent
// Read returns the same error.
type Reader struct {
	dialect  Dialect
	src      ChunkSource
	machine  *lexer.Machine
	readSize int

	buf string // current chunk, replaced wholesale on each read
	pos int    // read cursor into buf; the lexer never looks behind it
	eof bool   // source is exhausted, cached permanently

	lineNum   int
	lastWasCR bool
	err       error
}

// NewReader returns a Reader over src using the Excel dialect.
func NewReader(src ChunkSource) (*Reader, error) {
	return NewReaderWithOptions(src, DefaultReaderOptions())
}

// NewReaderWithOptions returns a Reader over src with custom options. The
// dialect is validated here; an invalid one is a *DialectError, never a
// parse error.
func NewReaderWithOptions(src ChunkSource, opts ReaderOptions) (*Reader, error) {
	dialect := opts.Dialect.normalized()
	if err := dialect.Validate(); err != nil {
		return nil, err
	}
	limit := opts.FieldSizeLimit
	if limit <= 0 {
		limit = DefaultFieldSizeLimit
	}
	readSize := opts.ReadSize
	if readSize <= 0 {
		readSize = DefaultReadSize
	}
	machine := lexer.New(lexer.Config{
		Delimiter:        dialect.Delimiter,
		Quote:            dialect.Quote,
		Escape:           dialect.Escape,
		Quoting:          lexerQuoting(dialect.Quoting),
		DoubleQuote:      dialect.DoubleQuote,
		SkipInitialSpace: dialect.SkipInitialSpace,
		Strict:           dialect.Strict,
		FieldLimit:       limit,
	})
	return &Reader{
		dialect:  dialect,
		src:      src,
		machine:  machine,
		readSize: readSize,
	}, nil
}

// Read produces the next record, or io.EOF once the stream is exhausted.
// It suspends in ChunkSource.ReadChunk whenever the current chunk is spent
// and resumes exactly where it left off, so results are byte-identical to
// parsing the fully buffered input.
func (r *Reader) Read(ctx context.Context) (Record, error) {
	if r.err != nil {
		return nil, r.err
	}
	for {
		// Feed buffered characters to the lexer until it completes a
		// record or the chunk runs out.
		for r.pos < len(r.buf) {
			c, size := utf8.DecodeRuneInString(r.buf[r.pos:])
			decision, err := r.machine.Step(c)
			if err != nil {
				return nil, r.fatal(err)
			}
			if decision == lexer.DoneWithoutConsuming {
				// The character starts the next record; it stays in the
				// buffer and is re-dispatched on the next pass.
				return toRecord(r.machine.ExtractRecord()), nil
			}
			r.consume(c, size)
			if decision == lexer.Done {
				return toRecord(r.machine.ExtractRecord()), nil
			}
		}
		r.buf, r.pos = "", 0

		if r.eof {
			// End of stream: force out whatever field/record is pending.
			midLine := r.machine.MidLine()
			fields, ok, err := r.machine.FinishAtEOF()
			if err != nil {
				return nil, r.fatal(err)
			}
			if !ok {
				r.err = io.EOF
				return nil, io.EOF
			}
			if midLine {
				// The final line had no terminator to count.
				r.lineNum++
			}
			return toRecord(fields), nil
		}

		chunk, err := r.src.ReadChunk(ctx, r.readSize)
		if err != nil {
			r.err = err
			return nil, err
		}
		if chunk == "" {
			r.eof = true
			continue
		}
		if utf8.RuneCountInString(chunk) > r.readSize {
			return nil, r.contract(fmt.Sprintf("source returned %d characters, requested at most %d",
				utf8.RuneCountInString(chunk), r.readSize))
		}
		if !utf8.ValidString(chunk) {
			return nil, r.contract("source returned text that is not valid UTF-8")
		}
		r.buf = chunk
	}
}

// ReadAll drains the stream. Empty input yields zero records.
func (r *Reader) ReadAll(ctx context.Context) ([]Record, error) {
	var records []Record
	for {
		rec, err := r.Read(ctx)
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
}

// LineNum returns the number of lines fully consumed so far. It increases
// monotonically across the life of the Reader, with CRLF counted once.
func (r *Reader) LineNum() int {
	return r.lineNum
}

// Dialect returns the normalized dialect the Reader was built with.
func (r *Reader) Dialect() Dialect {
	return r.dialect
}

// consume advances past one character and keeps the line counter current.
func (r *Reader) consume(c rune, size int) {
	r.pos += size
	switch c {
	case '\r':
		r.lineNum++
		r.lastWasCR = true
	case '\n':
		if !r.lastWasCR {
			r.lineNum++
		}
		r.lastWasCR = false
	default:
		r.lastWasCR = false
	}
}

// fatal marks the Reader spent with a parse error on the current line.
func (r *Reader) fatal(err error) error {
	r.err = &ParseError{Line: r.lineNum + 1, Err: err}
	return r.err
}

// contract marks the Reader spent with a source contract violation.
func (r *Reader) contract(reason string) error {
	r.err = &SourceContractError{Reason: reason}
	return r.err
}

func toRecord(fields []lexer.Field) Record {
	rec := make(Record, len(fields))
	for i, f := range fields {
		if f.Numeric {
			rec[i] = Number(f.Number)
		} else {
			rec[i] = Text(f.Text)
		}
	}
	return rec
}

func lexerQuoting(m QuoteMode) lexer.Quoting {
	switch m {
	case QuoteAll:
		return lexer.QuoteAll
	case QuoteNonNumeric:
		return lexer.QuoteNonNumeric
	case QuoteNone:
		return lexer.QuoteNone
	default:
		return lexer.QuoteMinimal
	}
}
