package csv_test

import (
	"context"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shapestone/stream-csv/pkg/csv"
)

// Tab-separated with single-quoted cells, the shape of exported spreadsheet
// metadata.
func tsvDialect() csv.Dialect {
	d := csv.Excel()
	d.Delimiter = '\t'
	d.Quote = '\''
	d.Quoting = csv.QuoteAll
	return d
}

func TestDictReaderHeaderFromStream(t *testing.T) {
	input := "'name'\t'age'\t'city'\r\n" +
		"'John'\t'23'\t'Warsaw'\r\n" +
		"'Grzegorz'\t'31'\t'Brzęczyszczykiewicz'\r\n"

	d, err := csv.NewDictReaderWithOptions(csv.NewStringSource(input), csv.DictReaderOptions{
		ReaderOptions: csv.ReaderOptions{Dialect: tsvDialect()},
	})
	require.NoError(t, err)
	ctx := context.Background()

	names, err := d.Fieldnames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "age", "city"}, names)

	row, err := d.Read(ctx)
	require.NoError(t, err)
	want := map[string]csv.Value{
		"name": csv.Text("John"),
		"age":  csv.Text("23"),
		"city": csv.Text("Warsaw"),
	}
	if diff := cmp.Diff(want, row.Fields); diff != "" {
		t.Errorf("row mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, row.Rest)

	row, err = d.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, csv.Text("Brzęczyszczykiewicz"), row.Fields["city"])

	_, err = d.Read(ctx)
	assert.Equal(t, io.EOF, err)
}

func TestDictReaderExplicitFieldnames(t *testing.T) {
	d, err := csv.NewDictReaderWithOptions(csv.NewStringSource("1,2\r\n"), csv.DictReaderOptions{
		ReaderOptions: csv.ReaderOptions{Dialect: csv.Excel()},
		Fieldnames:    []string{"a", "b"},
	})
	require.NoError(t, err)

	// The first record is data, not a header.
	row, err := d.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, csv.Text("1"), row.Fields["a"])
	assert.Equal(t, csv.Text("2"), row.Fields["b"])
}

func TestDictReaderShortRow(t *testing.T) {
	d, err := csv.NewDictReaderWithOptions(csv.NewStringSource("a,b,c\r\n1\r\n"), csv.DictReaderOptions{
		ReaderOptions: csv.ReaderOptions{Dialect: csv.Excel()},
		RestVal:       csv.Text("N/A"),
	})
	require.NoError(t, err)

	row, err := d.Read(context.Background())
	require.NoError(t, err)
	want := map[string]csv.Value{
		"a": csv.Text("1"),
		"b": csv.Text("N/A"),
		"c": csv.Text("N/A"),
	}
	if diff := cmp.Diff(want, row.Fields); diff != "" {
		t.Errorf("row mismatch (-want +got):\n%s", diff)
	}
}

func TestDictReaderLongRow(t *testing.T) {
	d, err := csv.NewDictReader(csv.NewStringSource("a,b\r\n1,2,3,4\r\n"))
	require.NoError(t, err)

	row, err := d.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, csv.Text("1"), row.Fields["a"])
	assert.Equal(t, csv.Text("2"), row.Fields["b"])
	assert.Equal(t, []csv.Value{csv.Text("3"), csv.Text("4")}, row.Rest)
}

func TestDictReaderSkipsBlankRows(t *testing.T) {
	d, err := csv.NewDictReader(csv.NewStringSource("a,b\r\n\r\n\r\n1,2\r\n\r\n"))
	require.NoError(t, err)
	ctx := context.Background()

	row, err := d.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, csv.Text("1"), row.Fields["a"])

	_, err = d.Read(ctx)
	assert.Equal(t, io.EOF, err)
}

func TestDictReaderEmptyStream(t *testing.T) {
	d, err := csv.NewDictReader(csv.NewStringSource(""))
	require.NoError(t, err)
	ctx := context.Background()

	names, err := d.Fieldnames(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)

	_, err = d.Read(ctx)
	assert.Equal(t, io.EOF, err)
}
