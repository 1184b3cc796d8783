// Package lexer implements the character-level CSV state machine.
//
// The machine consumes one character at a time against an immutable Config
// and decides, per character, whether the record continues, a record boundary
// was reached, or the character must be re-dispatched. It carries no notion
// of chunks or input sources; the driver in pkg/csv feeds it and handles
// suspension, so a chunk boundary can fall between any two characters
// without affecting the result.
package lexer

import "fmt"

// Quoting selects how quote characters participate in lexing.
type Quoting int

const (
	// QuoteMinimal gives the quote character its usual special meaning.
	QuoteMinimal Quoting = iota
	// QuoteAll is identical to QuoteMinimal on the reading side.
	QuoteAll
	// QuoteNonNumeric additionally coerces unquoted fields to numbers.
	QuoteNonNumeric
	// QuoteNone disables all quote-character special-casing.
	QuoteNone
)

// Config is the machine's immutable lexing configuration. Validation is the
// caller's concern; the csv package normalizes its public Dialect into this.
type Config struct {
	Delimiter        rune
	Quote            rune // 0 means no quote character
	Escape           rune // 0 means no escape character
	Quoting          Quoting
	DoubleQuote      bool
	SkipInitialSpace bool
	Strict           bool
	FieldLimit       int
}

// Machine is the lexer state machine plus the field accumulator and the
// record in progress. Each instance is owned by exactly one driver and never
// shared.
type Machine struct {
	cfg     Config
	state   state
	field   fieldBuffer
	record  []Field
	numeric bool // commit the current field as a number
}

// New returns a machine in the start-of-record state.
func New(cfg Config) *Machine {
	return &Machine{
		cfg:   cfg,
		state: stateStartRecord,
		field: fieldBuffer{limit: cfg.FieldLimit},
	}
}

// Step dispatches one character against the current state. On Done or
// DoneWithoutConsuming the completed record is available via ExtractRecord.
func (m *Machine) Step(c rune) (Decision, error) {
	switch m.state {
	case stateStartRecord:
		return m.stepStartRecord(c)
	case stateStartField:
		return m.stepStartField(c)
	case stateInField:
		return m.stepInField(c)
	case stateEscape:
		return m.stepEscape(c)
	case stateInQuotedField:
		return m.stepInQuotedField(c)
	case stateEscapeInQuoted:
		return m.stepEscapeInQuoted(c)
	case stateQuoteInQuoted:
		return m.stepQuoteInQuoted(c)
	case stateEatNewline:
		return m.stepEatNewline(c)
	default:
		return Continue, fmt.Errorf("unhandled lexer state: %v", m.state)
	}
}

func (m *Machine) stepStartRecord(c rune) (Decision, error) {
	switch c {
	case '\r':
		m.state = stateEatNewline
		return Continue, nil
	case '\n':
		// Blank line: an empty record.
		m.state = stateStartRecord
		return Done, nil
	default:
		return m.stepStartField(c)
	}
}

func (m *Machine) stepStartField(c rune) (Decision, error) {
	switch {
	case c == '\r':
		if err := m.saveField(); err != nil {
			return Continue, err
		}
		m.state = stateEatNewline
	case c == '\n':
		if err := m.saveField(); err != nil {
			return Continue, err
		}
		m.state = stateStartRecord
		return Done, nil
	case m.quoteChar(c):
		m.state = stateInQuotedField
	case m.escapeChar(c):
		m.numeric = m.cfg.Quoting == QuoteNonNumeric
		m.state = stateEscape
	case c == m.cfg.Delimiter:
		// Empty field. Leading-space skipping happens in saveField.
		if err := m.saveField(); err != nil {
			return Continue, err
		}
		m.state = stateStartField
	default:
		m.numeric = m.cfg.Quoting == QuoteNonNumeric
		if err := m.field.append(c); err != nil {
			return Continue, err
		}
		m.state = stateInField
	}
	return Continue, nil
}

func (m *Machine) stepInField(c rune) (Decision, error) {
	switch {
	case c == '\r':
		if err := m.saveField(); err != nil {
			return Continue, err
		}
		m.state = stateEatNewline
	case c == '\n':
		if err := m.saveField(); err != nil {
			return Continue, err
		}
		m.state = stateStartRecord
		return Done, nil
	case m.escapeChar(c):
		m.state = stateEscape
	case c == m.cfg.Delimiter:
		if err := m.saveField(); err != nil {
			return Continue, err
		}
		m.state = stateStartField
	default:
		if err := m.field.append(c); err != nil {
			return Continue, err
		}
	}
	return Continue, nil
}

// stepEscape appends the character literally, bypassing all special meaning.
func (m *Machine) stepEscape(c rune) (Decision, error) {
	if err := m.field.append(c); err != nil {
		return Continue, err
	}
	m.state = stateInField
	return Continue, nil
}

func (m *Machine) stepInQuotedField(c rune) (Decision, error) {
	switch {
	case m.escapeChar(c):
		m.state = stateEscapeInQuoted
	case m.quoteChar(c):
		if m.cfg.DoubleQuote {
			m.state = stateQuoteInQuoted
		} else {
			// Without doubling support the quote simply ends quoting.
			m.state = stateInField
		}
	default:
		if err := m.field.append(c); err != nil {
			return Continue, err
		}
	}
	return Continue, nil
}

func (m *Machine) stepEscapeInQuoted(c rune) (Decision, error) {
	if err := m.field.append(c); err != nil {
		return Continue, err
	}
	m.state = stateInQuotedField
	return Continue, nil
}

func (m *Machine) stepQuoteInQuoted(c rune) (Decision, error) {
	switch {
	case m.quoteChar(c):
		// Doubled quote: one literal quote character.
		if err := m.field.append(c); err != nil {
			return Continue, err
		}
		m.state = stateInQuotedField
	case c == m.cfg.Delimiter:
		if err := m.saveField(); err != nil {
			return Continue, err
		}
		m.state = stateStartField
	case c == '\r':
		if err := m.saveField(); err != nil {
			return Continue, err
		}
		m.state = stateEatNewline
	case c == '\n':
		if err := m.saveField(); err != nil {
			return Continue, err
		}
		m.state = stateStartRecord
		return Done, nil
	case !m.cfg.Strict:
		// Tolerated: the field resumes unquoted.
		if err := m.field.append(c); err != nil {
			return Continue, err
		}
		m.state = stateInField
	default:
		return Continue, fmt.Errorf("%w: %q expected after %q",
			ErrDelimiterExpected, m.cfg.Delimiter, m.cfg.Quote)
	}
	return Continue, nil
}

func (m *Machine) stepEatNewline(c rune) (Decision, error) {
	m.state = stateStartRecord
	if c == '\n' {
		// CRLF is one terminator.
		return Done, nil
	}
	return DoneWithoutConsuming, nil
}

// MidLine reports whether characters of an unterminated line have been
// consumed, i.e. a record forced out at end of input occupies a line of its
// own that no terminator accounted for.
func (m *Machine) MidLine() bool {
	return !m.state.endOfRecord()
}

// FinishAtEOF commits whatever field and record are pending once the input
// is exhausted. ok reports whether a final record is available; a clean end
// of stream at a record boundary with nothing buffered yields ok == false.
func (m *Machine) FinishAtEOF() (rec []Field, ok bool, err error) {
	if m.state == stateStartRecord {
		return nil, false, nil
	}
	if m.cfg.Strict && m.state.unexpectedAtEOF() {
		return nil, false, ErrUnexpectedEOF
	}
	// A dangling escape swallows a character that never arrived; a
	// newline stands in for it.
	if m.state == stateEscape || m.state == stateEscapeInQuoted {
		if err := m.field.append('\n'); err != nil {
			return nil, false, err
		}
	}
	if m.state != stateEatNewline {
		if err := m.saveField(); err != nil {
			return nil, false, err
		}
	}
	m.state = stateStartRecord
	return m.ExtractRecord(), true, nil
}

// ExtractRecord hands the completed record to the caller and resets the
// record in progress. The returned slice is never aliased by the machine.
func (m *Machine) ExtractRecord() []Field {
	rec := m.record
	m.record = nil
	if rec == nil {
		rec = []Field{}
	}
	return rec
}

// saveField commits the accumulated characters as the next field of the
// record in progress. The numeric flag is consumed no matter the outcome.
func (m *Machine) saveField() error {
	numeric := m.numeric && m.cfg.Quoting == QuoteNonNumeric
	m.numeric = false
	f, err := m.field.commit(m.cfg.SkipInitialSpace, numeric)
	if err != nil {
		return err
	}
	m.record = append(m.record, f)
	return nil
}

func (m *Machine) quoteChar(c rune) bool {
	return m.cfg.Quote != 0 && c == m.cfg.Quote && m.cfg.Quoting != QuoteNone
}

func (m *Machine) escapeChar(c rune) bool {
	return m.cfg.Escape != 0 && c == m.cfg.Escape
}
