package body

import (
	"bytes"
	"fmt"
	"math"

	"github.com/rileyjmurray/fast-matrix-market/encoding"
	"github.com/rileyjmurray/fast-matrix-market/errs"
	"github.com/rileyjmurray/fast-matrix-market/format"
	"github.com/rileyjmurray/fast-matrix-market/header"
)

// lineScanner iterates the lines of a chunk, stripping the terminator and a
// trailing CR.
type lineScanner struct {
	rest []byte
}

func (s *lineScanner) next() ([]byte, bool) {
	if len(s.rest) == 0 {
		return nil, false
	}
	var line []byte
	if i := bytes.IndexByte(s.rest, '\n'); i >= 0 {
		line, s.rest = s.rest[:i], s.rest[i+1:]
	} else {
		line, s.rest = s.rest, nil
	}
	if len(line) > 0 && line[len(line)-1] == '\r' {
		line = line[:len(line)-1]
	}

	return line, true
}

// nextToken returns the next whitespace-separated token and the bytes after
// it. Space and tab separate tokens.
func nextToken(b []byte) (tok, rest []byte) {
	i := 0
	for i < len(b) && (b[i] == ' ' || b[i] == '\t') {
		i++
	}
	j := i
	for j < len(b) && b[j] != ' ' && b[j] != '\t' {
		j++
	}

	return b[i:j], b[j:]
}

// lineErr attaches the 1-based file line number to a body error.
func lineErr(line int64, err error) error {
	return fmt.Errorf("line %d: %w", line, err)
}

func parseIndex(tok []byte, dim, lineNo int64) (int64, error) {
	v, err := encoding.ParseInt(tok)
	if err != nil {
		return 0, lineErr(lineNo, err)
	}
	if v < 1 || v > dim {
		return 0, lineErr(lineNo, fmt.Errorf("%w: index %d outside [1, %d]", errs.ErrOutOfRange, v, dim))
	}

	return v - 1, nil
}

// parseValue consumes the value tokens of a record according to the file
// field, promoting to T. Pattern fields consume nothing and yield the unit
// value.
func parseValue[T encoding.Value](field format.Field, rest []byte, lineNo int64) (T, []byte, error) {
	var zero T
	switch field {
	case format.FieldInteger:
		tok, r := nextToken(rest)
		n, err := encoding.ParseInt(tok)
		if err != nil {
			return zero, nil, lineErr(lineNo, err)
		}
		v, err := encoding.FromInt[T](n)
		if err != nil {
			return zero, nil, lineErr(lineNo, err)
		}

		return v, r, nil
	case format.FieldReal, format.FieldDouble:
		tok, r := nextToken(rest)
		f, err := encoding.ParseFloat(tok)
		if err != nil {
			return zero, nil, lineErr(lineNo, err)
		}
		v, err := encoding.FromFloat[T](f)
		if err != nil {
			return zero, nil, lineErr(lineNo, err)
		}

		return v, r, nil
	case format.FieldComplex:
		reTok, r := nextToken(rest)
		imTok, r := nextToken(r)
		c, err := encoding.ParseComplex(reTok, imTok)
		if err != nil {
			return zero, nil, lineErr(lineNo, err)
		}
		v, err := encoding.FromComplex[T](c)
		if err != nil {
			return zero, nil, lineErr(lineNo, err)
		}

		return v, r, nil
	default: // pattern
		return encoding.One[T](), rest, nil
	}
}

// ReadChunkMatrixCoordinate parses a chunk of "row col [value]" records and
// feeds them to the handler with 0-based indices. chunkLineStart is the
// 1-based file line number of the chunk's first line. Returns the number of
// records consumed.
func ReadChunkMatrixCoordinate[T encoding.Value](chunk []byte, h *header.Header, chunkLineStart int64, handler Handler[T], _ *ReadOptions) (int64, error) {
	sc := lineScanner{chunk}
	lineNo := chunkLineStart - 1
	var records int64
	for {
		line, ok := sc.next()
		if !ok {
			break
		}
		lineNo++
		if isBlank(line) {
			continue
		}

		rowTok, rest := nextToken(line)
		colTok, rest := nextToken(rest)
		row, err := parseIndex(rowTok, h.Rows, lineNo)
		if err != nil {
			return records, err
		}
		col, err := parseIndex(colTok, h.Cols, lineNo)
		if err != nil {
			return records, err
		}
		v, rest, err := parseValue[T](h.Field, rest, lineNo)
		if err != nil {
			return records, err
		}
		if !isBlank(rest) {
			return records, lineErr(lineNo, fmt.Errorf("%w: trailing characters %q", errs.ErrInvalidValue, rest))
		}

		handler.Handle(row, col, v)
		records++
	}

	return records, nil
}

// ReadChunkVectorCoordinate parses a chunk of "index [value]" records and
// feeds them to the handler as Handle(index, 0, value).
func ReadChunkVectorCoordinate[T encoding.Value](chunk []byte, h *header.Header, chunkLineStart int64, handler Handler[T]) (int64, error) {
	sc := lineScanner{chunk}
	lineNo := chunkLineStart - 1
	var records int64
	for {
		line, ok := sc.next()
		if !ok {
			break
		}
		lineNo++
		if isBlank(line) {
			continue
		}

		idxTok, rest := nextToken(line)
		idx, err := parseIndex(idxTok, h.Rows, lineNo)
		if err != nil {
			return records, err
		}
		v, rest, err := parseValue[T](h.Field, rest, lineNo)
		if err != nil {
			return records, err
		}
		if !isBlank(rest) {
			return records, lineErr(lineNo, fmt.Errorf("%w: trailing characters %q", errs.ErrInvalidValue, rest))
		}

		handler.Handle(idx, 0, v)
		records++
	}

	return records, nil
}

// ReadChunkArray parses a chunk of one-value-per-line array records. row0 and
// col0 are the precomputed position of the chunk's first record, advancing
// column-major; for non-general symmetries the walk covers the lower triangle
// including the diagonal.
func ReadChunkArray[T encoding.Value](chunk []byte, h *header.Header, chunkLineStart int64, handler Handler[T], row0, col0 int64) (int64, error) {
	sc := lineScanner{chunk}
	lineNo := chunkLineStart - 1
	row, col := row0, col0
	lower := h.Object == format.ObjectMatrix && h.Symmetry != format.SymmetryGeneral
	var records int64
	for {
		line, ok := sc.next()
		if !ok {
			break
		}
		lineNo++
		if isBlank(line) {
			continue
		}
		if col >= h.Cols {
			return records, lineErr(lineNo, errs.ErrFileTooLong)
		}

		v, rest, err := parseValue[T](h.Field, line, lineNo)
		if err != nil {
			return records, err
		}
		if !isBlank(rest) {
			return records, lineErr(lineNo, fmt.Errorf("%w: trailing characters %q", errs.ErrInvalidValue, rest))
		}

		handler.Handle(row, col, v)
		records++

		row++
		if row == h.Rows {
			col++
			if lower {
				row = col
			} else {
				row = 0
			}
		}
	}

	return records, nil
}

// arrayPosition computes the (row, col) of the body record with the given
// 0-based ordinal, honoring the lower-triangle walk of non-general arrays.
func arrayPosition(h *header.Header, ord int64) (row, col int64) {
	n := h.Rows
	if n == 0 {
		return 0, 0
	}
	if h.Object == format.ObjectVector || h.Symmetry == format.SymmetryGeneral {
		return ord % n, ord / n
	}

	// Column c of the lower triangle holds n-c records, so S(c) = c*n - c*(c-1)/2
	// records precede it. Invert with a float estimate and an exact fixup.
	before := func(c int64) int64 { return c*n - c*(c-1)/2 }
	fn := 2*float64(n) + 1
	c := int64((fn - math.Sqrt(fn*fn-8*float64(ord))) / 2)
	if c < 0 {
		c = 0
	}
	if c > n-1 {
		c = n - 1
	}
	for c > 0 && before(c) > ord {
		c--
	}
	for c < n-1 && before(c+1) <= ord {
		c++
	}

	return c + (ord - before(c)), c
}
