package csv

import "strconv"

// Value is a single decoded field: text, or a number when the dialect's
// non-numeric quoting coerced an unquoted field.
type Value struct {
	text    string
	num     float64
	numeric bool
}

// Text returns a text value.
func Text(s string) Value {
	return Value{text: s}
}

// Number returns a numeric value.
func Number(n float64) Value {
	return Value{num: n, numeric: true}
}

// IsNumber reports whether the value was coerced to a number.
func (v Value) IsNumber() bool {
	return v.numeric
}

// Float returns the numeric value, or 0 for text values.
func (v Value) Float() float64 {
	return v.num
}

// String returns the text value, or the shortest decimal representation for
// numeric values.
func (v Value) String() string {
	if v.numeric {
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	}
	return v.text
}

// Equal reports whether two values have the same kind and content.
func (v Value) Equal(o Value) bool {
	return v == o
}

// Record is one ordered sequence of field values, terminated in the input by
// a line boundary or end of input.
type Record []Value

// Strings returns the record's values rendered as strings.
func (r Record) Strings() []string {
	out := make([]string, len(r))
	for i, v := range r {
		out[i] = v.String()
	}
	return out
}

// TextRecord builds a record of text values.
func TextRecord(fields ...string) Record {
	rec := make(Record, len(fields))
	for i, f := range fields {
		rec[i] = Text(f)
	}
	return rec
}
