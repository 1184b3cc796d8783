package csv_test

import (
	"context"
	"strings"
	"testing"
	"testing/iotest"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shapestone/stream-csv/pkg/csv"
)

func drain(t *testing.T, src csv.ChunkSource, max int) []string {
	t.Helper()
	var chunks []string
	for {
		chunk, err := src.ReadChunk(context.Background(), max)
		require.NoError(t, err)
		if chunk == "" {
			return chunks
		}
		require.LessOrEqual(t, utf8.RuneCountInString(chunk), max)
		require.True(t, utf8.ValidString(chunk))
		chunks = append(chunks, chunk)
	}
}

func TestStringSource(t *testing.T) {
	chunks := drain(t, csv.NewStringSource("abcdef"), 4)
	assert.Equal(t, []string{"abcd", "ef"}, chunks)
}

func TestStringSourceMultiByte(t *testing.T) {
	// Chunk bounds are characters, not bytes.
	chunks := drain(t, csv.NewStringSource("日本語ab"), 2)
	assert.Equal(t, []string{"日本", "語a", "b"}, chunks)
}

func TestReaderSource(t *testing.T) {
	input := "héllo, wörld\r\n日本語,十"
	for _, max := range []int{1, 2, 3, 7, 4096} {
		src := csv.NewReaderSource(strings.NewReader(input))
		chunks := drain(t, src, max)
		assert.Equal(t, input, strings.Join(chunks, ""), "max %d", max)
	}
}

// A reader that yields one byte at a time splits every multi-byte character
// across reads; the source must reassemble them.
func TestReaderSourceOneByteReads(t *testing.T) {
	input := "a日b本c"
	src := csv.NewReaderSource(iotest.OneByteReader(strings.NewReader(input)))
	chunks := drain(t, src, 2)
	assert.Equal(t, input, strings.Join(chunks, ""))
}

func TestReaderSourceTruncatedTail(t *testing.T) {
	// First two bytes of a three-byte sequence.
	src := csv.NewReaderSource(strings.NewReader("ab\xe6\x97"))

	chunk, err := src.ReadChunk(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, "ab", chunk)

	_, err = src.ReadChunk(context.Background(), 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "truncated UTF-8")
}

func TestReaderSourceCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := csv.NewReaderSource(strings.NewReader("abc"))
	_, err := src.ReadChunk(ctx, 10)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReadWithReaderSource(t *testing.T) {
	input := "name,tagline\r\nGo,\"simple, fast\"\r\n"
	r, err := csv.NewReaderWithOptions(
		csv.NewReaderSource(iotest.OneByteReader(strings.NewReader(input))),
		csv.ReaderOptions{Dialect: csv.Excel(), ReadSize: 3},
	)
	require.NoError(t, err)

	records, err := r.ReadAll(context.Background())
	require.NoError(t, err)
	want := []csv.Record{
		csv.TextRecord("name", "tagline"),
		csv.TextRecord("Go", "simple, fast"),
	}
	assert.Equal(t, want, records)
}
