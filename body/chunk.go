package body

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/rileyjmurray/fast-matrix-market/errs"
	"github.com/rileyjmurray/fast-matrix-market/internal/pool"
)

// NextChunk fills bb with the next chunk: up to chunkSize bytes extended
// through the next newline, so no record straddles chunks. At end of stream the
// remainder is returned, possibly without a trailing newline. Returns false
// once the stream is exhausted.
func NextChunk(br *bufio.Reader, chunkSize int, bb *pool.ByteBuffer) (bool, error) {
	bb.Reset()
	bb.EnsureCap(chunkSize)
	bb.SetLength(chunkSize)

	n, err := io.ReadFull(br, bb.B)
	switch err {
	case nil:
	case io.EOF:
		bb.SetLength(0)
		return false, nil
	case io.ErrUnexpectedEOF:
		bb.SetLength(n)
		return true, nil
	default:
		return false, fmt.Errorf("%w: %w", errs.ErrIO, err)
	}

	// Extend through the next newline so the chunk ends on a record boundary.
	if bb.B[n-1] == '\n' {
		return true, nil
	}
	for {
		frag, err := br.ReadSlice('\n')
		bb.B = append(bb.B, frag...)
		switch err {
		case nil, io.EOF:
			return true, nil
		case bufio.ErrBufferFull:
			continue
		default:
			return false, fmt.Errorf("%w: %w", errs.ErrIO, err)
		}
	}
}

// CountLines counts the lines of a chunk and the records among them. A final
// unterminated line with content counts. Blank lines count toward lines (they
// advance global line numbering) but not records (parsers skip them, so they
// do not advance the record ordinal).
func CountLines(chunk []byte) (lines, records int64) {
	for len(chunk) > 0 {
		var line []byte
		if i := bytes.IndexByte(chunk, '\n'); i >= 0 {
			line, chunk = chunk[:i], chunk[i+1:]
		} else {
			line, chunk = chunk, nil
		}
		lines++
		if !isBlank(line) {
			records++
		}
	}

	return lines, records
}

func isBlank(line []byte) bool {
	for _, c := range line {
		if c != ' ' && c != '\t' && c != '\r' {
			return false
		}
	}

	return true
}
