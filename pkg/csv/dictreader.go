package csv

import (
	"context"
	"io"
)

// DictReaderOptions configures a DictReader.
type DictReaderOptions struct {
	ReaderOptions

	// Fieldnames are the column names. When nil, the first record of the
	// stream serves as the header.
	Fieldnames []string

	// RestVal fills columns that a short record left without a value.
	// Default: empty text.
	RestVal Value
}

// DictRow is one record keyed by column name. Cells beyond the header land
// in Rest in input order.
type DictRow struct {
	Fields map[string]Value
	Rest   []Value
}

// DictReader iterates header-keyed rows over a chunk source. Rows with no
// fields at all (blank lines) are skipped.
type DictReader struct {
	reader     *Reader
	fieldnames []string
	haveNames  bool
	restVal    Value
}

// NewDictReader returns a DictReader using the Excel dialect, taking the
// first record as the header.
func NewDictReader(src ChunkSource) (*DictReader, error) {
	return NewDictReaderWithOptions(src, DictReaderOptions{ReaderOptions: DefaultReaderOptions()})
}

// NewDictReaderWithOptions returns a DictReader with custom options.
func NewDictReaderWithOptions(src ChunkSource, opts DictReaderOptions) (*DictReader, error) {
	reader, err := NewReaderWithOptions(src, opts.ReaderOptions)
	if err != nil {
		return nil, err
	}
	return &DictReader{
		reader:     reader,
		fieldnames: opts.Fieldnames,
		haveNames:  opts.Fieldnames != nil,
		restVal:    opts.RestVal,
	}, nil
}

// Fieldnames returns the column names, reading the header record first if
// necessary. An empty stream yields an empty header, not an error.
func (d *DictReader) Fieldnames(ctx context.Context) ([]string, error) {
	if !d.haveNames {
		rec, err := d.reader.Read(ctx)
		if err == io.EOF {
			d.fieldnames = []string{}
		} else if err != nil {
			return nil, err
		} else {
			d.fieldnames = rec.Strings()
		}
		d.haveNames = true
	}
	return d.fieldnames, nil
}

// Read produces the next row keyed by the header, or io.EOF once the stream
// is exhausted.
func (d *DictReader) Read(ctx context.Context) (DictRow, error) {
	if _, err := d.Fieldnames(ctx); err != nil {
		return DictRow{}, err
	}

	rec, err := d.reader.Read(ctx)
	for err == nil && len(rec) == 0 {
		rec, err = d.reader.Read(ctx)
	}
	if err != nil {
		return DictRow{}, err
	}

	row := DictRow{Fields: make(map[string]Value, len(d.fieldnames))}
	for i, name := range d.fieldnames {
		if i < len(rec) {
			row.Fields[name] = rec[i]
		} else {
			row.Fields[name] = d.restVal
		}
	}
	if len(rec) > len(d.fieldnames) {
		row.Rest = rec[len(d.fieldnames):]
	}
	return row, nil
}

// LineNum returns the line counter of the underlying Reader.
func (d *DictReader) LineNum() int {
	return d.reader.LineNum()
}

// Dialect returns the normalized dialect of the underlying Reader.
func (d *DictReader) Dialect() Dialect {
	return d.reader.Dialect()
}
