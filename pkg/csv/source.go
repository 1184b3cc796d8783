package csv

import (
	"context"
	"fmt"
	"io"
	"unicode/utf8"
)

// ChunkSource is the external collaborator that supplies decoded text in
// bounded chunks. ReadChunk returns between 0 and max characters; an empty
// string means the source is exhausted. It must never return more characters
// than requested and must return fully decoded text with no partial
// multi-byte sequences — a violation surfaces as *SourceContractError.
//
// ReadChunk is the reader's only suspension point: it may block until data
// is available, honoring ctx for cancellation.
type ChunkSource interface {
	ReadChunk(ctx context.Context, max int) (string, error)
}

// StringSource serves an in-memory string in chunks. Useful in tests to
// exercise arbitrary chunk boundaries.
type StringSource struct {
	data string
	pos  int
}

// NewStringSource returns a source over s.
func NewStringSource(s string) *StringSource {
	return &StringSource{data: s}
}

// ReadChunk returns the next chunk of up to max characters.
func (s *StringSource) ReadChunk(ctx context.Context, max int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	start := s.pos
	for n := 0; n < max && s.pos < len(s.data); n++ {
		_, size := utf8.DecodeRuneInString(s.data[s.pos:])
		s.pos += size
	}
	return s.data[start:s.pos], nil
}

// ReaderSource adapts an io.Reader into a ChunkSource. It holds back the
// trailing bytes of an incomplete UTF-8 sequence so that a chunk never splits
// a multi-byte character.
type ReaderSource struct {
	r       io.Reader
	pending []byte
	eof     bool
}

// NewReaderSource returns a source reading from r. The reader is expected to
// produce UTF-8 text.
func NewReaderSource(r io.Reader) *ReaderSource {
	return &ReaderSource{r: r}
}

// ReadChunk reads up to max characters. An io.Reader cannot be interrupted
// mid-read, so cancellation is checked between reads.
func (s *ReaderSource) ReadChunk(ctx context.Context, max int) (string, error) {
	if max <= 0 {
		return "", nil
	}
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if !s.eof {
			// Reading at most max bytes keeps the chunk within the
			// requested character bound; the extra single byte only ever
			// completes the one rune already pending.
			want := max - len(s.pending)
			if want < 1 {
				want = 1
			}
			buf := make([]byte, want)
			n, err := s.r.Read(buf)
			s.pending = append(s.pending, buf[:n]...)
			switch {
			case err == io.EOF:
				s.eof = true
			case err != nil:
				return "", err
			}
		}

		cut := completePrefix(s.pending)
		if cut > 0 {
			out := string(s.pending[:cut])
			s.pending = append(s.pending[:0], s.pending[cut:]...)
			return out, nil
		}
		if s.eof {
			if len(s.pending) > 0 {
				return "", fmt.Errorf("truncated UTF-8 sequence at end of input: % x", s.pending)
			}
			return "", nil
		}
	}
}

// completePrefix returns the length of the longest prefix of p that does not
// end in an incomplete UTF-8 sequence.
func completePrefix(p []byte) int {
	cut := len(p)
	for i := len(p) - 1; i >= 0 && len(p)-i < utf8.UTFMax; i-- {
		if utf8.RuneStart(p[i]) {
			if !utf8.FullRune(p[i:]) {
				cut = i
			}
			break
		}
	}
	return cut
}
