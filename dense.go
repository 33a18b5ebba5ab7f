package fastmm

import (
	"bufio"
	"fmt"
	"io"

	"github.com/rileyjmurray/fast-matrix-market/body"
	"github.com/rileyjmurray/fast-matrix-market/encoding"
	"github.com/rileyjmurray/fast-matrix-market/errs"
	"github.com/rileyjmurray/fast-matrix-market/format"
	"github.com/rileyjmurray/fast-matrix-market/header"
)

// Dense is a dense matrix over a flat slice in the given storage order.
type Dense[T encoding.Value] struct {
	Rows  int64
	Cols  int64
	Order body.Order
	Data  []T
}

// NewDense allocates a zeroed dense matrix in column-major order.
func NewDense[T encoding.Value](rows, cols int64) *Dense[T] {
	return &Dense[T]{Rows: rows, Cols: cols, Order: body.ColMajor, Data: make([]T, rows*cols)}
}

// At returns the element at (row, col).
func (d *Dense[T]) At(row, col int64) T {
	return d.Data[d.offset(row, col)]
}

// Set stores v at (row, col).
func (d *Dense[T]) Set(row, col int64, v T) {
	d.Data[d.offset(row, col)] = v
}

func (d *Dense[T]) offset(row, col int64) int64 {
	if d.Order == body.RowMajor {
		return row*d.Cols + col
	}

	return col*d.Rows + row
}

// denseHandler stores records by position; cell addressing is inherently
// slot-based, so it is parallel-safe without chunk state.
type denseHandler[T encoding.Value] struct {
	d *Dense[T]
}

func (h denseHandler[T]) Handle(row, col int64, v T) {
	h.d.Set(row, col, v)
}

func (h denseHandler[T]) ChunkHandler(int64) body.Handler[T] {
	return h
}

func (h denseHandler[T]) Caps() body.Caps {
	return body.CapParallelOk | body.CapConsumesValues
}

// ReadDense reads an array or coordinate file into a dense matrix in
// column-major order. Cells absent from a coordinate body stay zero. With
// body.WithGeneralizeSymmetry mirrored cells of a non-general file are filled
// in.
func ReadDense[T encoding.Value](r io.Reader, opts ...body.ReadOption) (*header.Header, *Dense[T], error) {
	opt, err := body.NewReadOptions(opts...)
	if err != nil {
		return nil, nil, err
	}

	br := bufio.NewReaderSize(r, readerBufferSize)
	h, err := header.Read(br)
	if err != nil {
		return nil, nil, err
	}

	d := NewDense[T](h.Rows, h.Cols)
	if err := body.ReadBody(br, h, body.Handler[T](denseHandler[T]{d}), opt); err != nil {
		return h, nil, err
	}

	return h, d, nil
}

// WriteDense writes a dense matrix as a general array file, column-major.
func WriteDense[T encoding.Value](w io.Writer, d *Dense[T], opts ...body.WriteOption) error {
	h := &header.Header{
		Rows:     d.Rows,
		Cols:     d.Cols,
		NNZ:      d.Rows * d.Cols,
		Object:   format.ObjectMatrix,
		Layout:   format.LayoutArray,
		Field:    fieldFor[T](),
		Symmetry: format.SymmetryGeneral,
	}

	return WriteDenseAs(w, h, d, opts...)
}

// WriteDenseAs writes a dense matrix under a caller-supplied header. For a
// non-general symmetry only the lower triangle, diagonal included, is
// emitted.
func WriteDenseAs[T encoding.Value](w io.Writer, h *header.Header, d *Dense[T], opts ...body.WriteOption) error {
	if h.Rows != d.Rows || h.Cols != d.Cols {
		return fmt.Errorf("%w: header dimensions %dx%d do not match matrix %dx%d",
			errs.ErrInvalidArgument, h.Rows, h.Cols, d.Rows, d.Cols)
	}
	f, err := body.NewDenseFormatter[T](d, d.Rows, d.Cols, h.Symmetry)
	if err != nil {
		return err
	}

	return Write(w, h, f, opts...)
}
