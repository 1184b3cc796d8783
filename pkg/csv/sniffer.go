package csv

import (
	"strconv"
	"strings"
	"unicode"
)

// Sniffer proposes a Dialect from a sample of CSV text. Detection is
// heuristic: it looks for the delimiter whose per-line counts are most
// consistent and checks whether quoting is in use. For best results give it
// at least two or three lines.
type Sniffer struct {
	sample string

	delimiter rune
	quoted    bool
	hasHeader bool
	analyzed  bool
}

// NewSniffer returns a Sniffer over the sample.
func NewSniffer(sample string) *Sniffer {
	return &Sniffer{sample: sample}
}

// Dialect returns the proposed dialect: the detected delimiter with the
// Excel defaults otherwise, and quoting disabled when the sample never
// quotes.
func (s *Sniffer) Dialect() Dialect {
	s.analyze()
	d := Excel()
	d.Delimiter = s.delimiter
	if !s.quoted {
		d.Quoting = QuoteNone
		d.Quote = 0
	}
	return d
}

// Delimiter returns the detected field delimiter.
// Candidates checked: comma, tab, semicolon, pipe.
func (s *Sniffer) Delimiter() rune {
	s.analyze()
	return s.delimiter
}

// HasHeader reports whether the first row looks like a header: mostly
// non-numeric cells over a first data row with numeric cells.
func (s *Sniffer) HasHeader() bool {
	s.analyze()
	return s.hasHeader
}

func (s *Sniffer) analyze() {
	if s.analyzed {
		return
	}
	s.delimiter = s.detectDelimiter()
	s.quoted = strings.ContainsRune(s.sample, '"')
	s.hasHeader = s.detectHeader()
	s.analyzed = true
}

func (s *Sniffer) detectDelimiter() rune {
	lines := sampleLines(s.sample)
	if len(lines) == 0 {
		return ','
	}

	best, bestScore := ',', 0
	for _, candidate := range []rune{',', '\t', ';', '|'} {
		counts := make([]int, len(lines))
		for i, line := range lines {
			counts[i] = countOutsideQuotes(line, candidate)
		}
		if counts[0] == 0 {
			continue
		}
		score := counts[0]
		consistent := true
		for _, n := range counts[1:] {
			if n != counts[0] {
				consistent = false
				break
			}
		}
		if consistent {
			// Identical counts on every line beat raw frequency.
			score *= 10
		}
		if score > bestScore {
			best, bestScore = candidate, score
		}
	}
	return best
}

func (s *Sniffer) detectHeader() bool {
	lines := sampleLines(s.sample)
	if len(lines) < 2 {
		return false
	}
	delim := s.detectDelimiter()
	header := splitOutsideQuotes(lines[0], delim)
	data := splitOutsideQuotes(lines[1], delim)
	if len(header) == 0 || len(data) == 0 {
		return false
	}

	// A header row is text over a data row with at least some numbers.
	for _, cell := range header {
		if looksNumeric(cell) {
			return false
		}
	}
	for _, cell := range data {
		if looksNumeric(cell) {
			return true
		}
	}
	return false
}

// sampleLines returns the non-empty lines of the sample.
func sampleLines(sample string) []string {
	var lines []string
	for _, line := range strings.FieldsFunc(sample, func(c rune) bool { return c == '\r' || c == '\n' }) {
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// countOutsideQuotes counts occurrences of c in line, ignoring quoted runs.
func countOutsideQuotes(line string, c rune) int {
	count := 0
	inQuotes := false
	for _, ch := range line {
		switch {
		case ch == '"':
			inQuotes = !inQuotes
		case ch == c && !inQuotes:
			count++
		}
	}
	return count
}

// splitOutsideQuotes splits line on delim, ignoring quoted runs. Quotes are
// stripped from the resulting cells.
func splitOutsideQuotes(line string, delim rune) []string {
	var cells []string
	var cell strings.Builder
	inQuotes := false
	for _, ch := range line {
		switch {
		case ch == '"':
			inQuotes = !inQuotes
		case ch == delim && !inQuotes:
			cells = append(cells, cell.String())
			cell.Reset()
		default:
			cell.WriteRune(ch)
		}
	}
	cells = append(cells, cell.String())
	return cells
}

func looksNumeric(cell string) bool {
	cell = strings.TrimFunc(cell, unicode.IsSpace)
	if cell == "" {
		return false
	}
	_, err := strconv.ParseFloat(cell, 64)
	return err == nil
}
