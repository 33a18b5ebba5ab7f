// Package header reads and writes the Matrix Market banner, comment block, and
// dimension line.
package header

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/rileyjmurray/fast-matrix-market/encoding"
	"github.com/rileyjmurray/fast-matrix-market/errs"
	"github.com/rileyjmurray/fast-matrix-market/format"
)

// Banner is the tag every Matrix Market file starts with.
const Banner = "%%MatrixMarket"

// Header describes a Matrix Market file: the banner enums, the dimensions, and
// the comment block. It is mutable before Write and fixed after Read.
type Header struct {
	// Rows and Cols are the matrix dimensions. A vector has its length in Rows
	// and Cols fixed to 1.
	Rows int64
	Cols int64

	// NNZ is the declared number of body records. Meaningful for coordinate
	// layout; for array layout Read sets it to Rows*Cols (or the vector length).
	NNZ int64

	Object   format.Object
	Layout   format.Layout
	Field    format.Field
	Symmetry format.Symmetry

	// Comment is the comment block without '%' prefixes and without a trailing
	// newline. Empty means no comment lines.
	Comment string

	// LineCount is the number of text lines the header occupies, including the
	// dimension line. Read fills it; Write updates it. Body error messages are
	// offset by it.
	LineCount int64
}

// BodyRecords returns the number of records the body must contain: NNZ for
// coordinate layout, the full element count for general arrays, and the lower
// triangle (diagonal included) for non-general arrays.
func (h *Header) BodyRecords() int64 {
	if h.Layout == format.LayoutCoordinate {
		return h.NNZ
	}
	if h.Object == format.ObjectVector {
		return h.Rows
	}
	if h.Symmetry != format.SymmetryGeneral {
		return h.Rows * (h.Rows + 1) / 2
	}

	return h.Rows * h.Cols
}

// Validate checks the structural invariants the format imposes on a header.
func (h *Header) Validate() error {
	if h.Rows < 0 || h.Cols < 0 || h.NNZ < 0 {
		return fmt.Errorf("%w: negative dimension", errs.ErrInvalidDimensions)
	}
	if h.Symmetry != format.SymmetryGeneral && h.Object == format.ObjectMatrix && h.Rows != h.Cols {
		return fmt.Errorf("%w: %s matrix must be square", errs.ErrInvalidHeader, h.Symmetry)
	}
	if h.Symmetry == format.SymmetryHermitian && h.Field != format.FieldComplex {
		return fmt.Errorf("%w: hermitian requires complex field", errs.ErrInvalidHeader)
	}
	if h.Field == format.FieldPattern && h.Layout != format.LayoutCoordinate {
		return fmt.Errorf("%w: pattern field requires coordinate format", errs.ErrInvalidHeader)
	}

	return nil
}

// Read parses a header from the stream, consuming exactly the banner, comment
// and blank lines, and the dimension line. The reader is left positioned at the
// first body byte.
func Read(br *bufio.Reader) (*Header, error) {
	h := &Header{}

	// Banner: first non-blank line.
	var line string
	for {
		l, ok, err := readLine(br)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: missing banner", errs.ErrInvalidHeader)
		}
		h.LineCount++
		if strings.TrimSpace(l) != "" {
			line = l
			break
		}
	}
	if err := h.parseBanner(line); err != nil {
		return nil, err
	}

	// Comment block and blank lines, then the dimension line.
	var comment strings.Builder
	sawComment := false
	for {
		l, ok, err := readLine(br)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: missing dimension line", errs.ErrInvalidDimensions)
		}
		h.LineCount++

		if len(l) > 0 && l[0] == '%' {
			c := l[1:]
			if len(c) > 0 && c[0] == ' ' {
				c = c[1:]
			}
			if sawComment {
				comment.WriteByte('\n')
			}
			comment.WriteString(c)
			sawComment = true

			continue
		}
		if strings.TrimSpace(l) == "" {
			continue
		}

		h.Comment = comment.String()
		if err := h.parseDimensions(l); err != nil {
			return nil, err
		}

		break
	}

	if err := h.Validate(); err != nil {
		return nil, err
	}

	return h, nil
}

func (h *Header) parseBanner(line string) error {
	toks := strings.Fields(line)
	if len(toks) != 5 || !strings.EqualFold(toks[0], Banner) {
		return fmt.Errorf("%w: malformed banner %q", errs.ErrInvalidHeader, line)
	}

	var err error
	if h.Object, err = format.ParseObject(toks[1]); err != nil {
		return err
	}
	if h.Layout, err = format.ParseLayout(toks[2]); err != nil {
		return err
	}
	if h.Field, err = format.ParseField(toks[3]); err != nil {
		return err
	}
	if h.Symmetry, err = format.ParseSymmetry(toks[4]); err != nil {
		return err
	}

	return nil
}

func (h *Header) parseDimensions(line string) error {
	toks := strings.Fields(line)
	want := dimArity(h.Object, h.Layout)
	if len(toks) != want {
		return fmt.Errorf("%w: expected %d fields for %s %s, got %d",
			errs.ErrInvalidDimensions, want, h.Object, h.Layout, len(toks))
	}

	vals := make([]int64, len(toks))
	for i, tok := range toks {
		v, err := encoding.ParseInt([]byte(tok))
		if err != nil {
			return fmt.Errorf("%w: %q", errs.ErrInvalidDimensions, tok)
		}
		if v < 0 {
			return fmt.Errorf("%w: negative dimension %q", errs.ErrInvalidDimensions, tok)
		}
		vals[i] = v
	}

	switch {
	case h.Layout == format.LayoutCoordinate && h.Object == format.ObjectMatrix:
		h.Rows, h.Cols, h.NNZ = vals[0], vals[1], vals[2]
	case h.Layout == format.LayoutCoordinate && h.Object == format.ObjectVector:
		h.Rows, h.Cols, h.NNZ = vals[0], 1, vals[1]
	case h.Layout == format.LayoutArray && h.Object == format.ObjectMatrix:
		h.Rows, h.Cols = vals[0], vals[1]
		h.NNZ = h.Rows * h.Cols
	default: // array vector
		h.Rows, h.Cols = vals[0], 1
		h.NNZ = h.Rows
	}

	return nil
}

func dimArity(o format.Object, l format.Layout) int {
	switch {
	case l == format.LayoutCoordinate && o == format.ObjectMatrix:
		return 3
	case l == format.LayoutCoordinate && o == format.ObjectVector:
		return 2
	case l == format.LayoutArray && o == format.ObjectMatrix:
		return 2
	default:
		return 1
	}
}

// Write emits the banner, the comment block, and the dimension line. When
// alwaysComment is set an empty comment still produces one bare '%' line.
// h.LineCount is updated to the number of lines written.
func Write(w io.Writer, h *Header, alwaysComment bool) error {
	if err := h.Validate(); err != nil {
		return err
	}

	var b strings.Builder
	b.WriteString(Banner)
	for _, tok := range []string{h.Object.String(), h.Layout.String(), h.Field.String(), h.Symmetry.String()} {
		b.WriteByte(' ')
		b.WriteString(tok)
	}
	b.WriteByte('\n')
	lines := int64(1)

	if h.Comment != "" || alwaysComment {
		for _, c := range strings.Split(h.Comment, "\n") {
			b.WriteByte('%')
			b.WriteString(c)
			b.WriteByte('\n')
			lines++
		}
	}

	switch {
	case h.Layout == format.LayoutCoordinate && h.Object == format.ObjectMatrix:
		fmt.Fprintf(&b, "%d %d %d\n", h.Rows, h.Cols, h.NNZ)
	case h.Layout == format.LayoutCoordinate && h.Object == format.ObjectVector:
		fmt.Fprintf(&b, "%d %d\n", h.Rows, h.NNZ)
	case h.Layout == format.LayoutArray && h.Object == format.ObjectMatrix:
		fmt.Fprintf(&b, "%d %d\n", h.Rows, h.Cols)
	default:
		fmt.Fprintf(&b, "%d\n", h.Rows)
	}
	lines++

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("%w: %w", errs.ErrIO, err)
	}
	h.LineCount = lines

	return nil
}

// readLine returns the next line without its terminator. ok is false at end of
// stream. A final unterminated line is returned with ok true.
func readLine(br *bufio.Reader) (string, bool, error) {
	line, err := br.ReadString('\n')
	if err == io.EOF {
		if line == "" {
			return "", false, nil
		}
	} else if err != nil {
		return "", false, fmt.Errorf("%w: %w", errs.ErrIO, err)
	}

	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")

	return line, true, nil
}
