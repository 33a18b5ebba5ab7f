package fastmm

import (
	"fmt"
	"io"

	"github.com/rileyjmurray/fast-matrix-market/body"
	"github.com/rileyjmurray/fast-matrix-market/encoding"
	"github.com/rileyjmurray/fast-matrix-market/errs"
	"github.com/rileyjmurray/fast-matrix-market/format"
	"github.com/rileyjmurray/fast-matrix-market/header"
)

// CSC is a sparse matrix in compressed-column storage: ColPtr has one entry
// per column plus the terminating count, RowIndex and Values hold the records
// of each column back to back.
type CSC[I body.Index, T encoding.Value] struct {
	Rows int64
	Cols int64

	ColPtr   []I
	RowIndex []I

	// Values is nil for pattern output.
	Values []T
}

// CSR is the row-compressed mirror of CSC.
type CSR[I body.Index, T encoding.Value] struct {
	Rows int64
	Cols int64

	RowPtr   []I
	ColIndex []I

	// Values is nil for pattern output.
	Values []T
}

// WriteCSC writes compressed-column storage as a general coordinate file
// without expanding it to triplets.
func WriteCSC[I body.Index, T encoding.Value](w io.Writer, m *CSC[I, T], opts ...body.WriteOption) error {
	if int64(len(m.ColPtr)) != m.Cols+1 {
		return fmt.Errorf("%w: pointer slice must have %d entries, got %d", errs.ErrInvalidArgument, m.Cols+1, len(m.ColPtr))
	}
	f, err := body.NewCSCFormatter(m.ColPtr, m.RowIndex, m.Values, false)
	if err != nil {
		return err
	}

	return Write(w, cscHeader[T](m.Rows, m.Cols, int64(len(m.RowIndex)), m.Values == nil), f, opts...)
}

// WriteCSR writes compressed-row storage as a general coordinate file; the
// formatter's transpose bit swaps the emitted coordinates so no conversion to
// CSC is needed.
func WriteCSR[I body.Index, T encoding.Value](w io.Writer, m *CSR[I, T], opts ...body.WriteOption) error {
	if int64(len(m.RowPtr)) != m.Rows+1 {
		return fmt.Errorf("%w: pointer slice must have %d entries, got %d", errs.ErrInvalidArgument, m.Rows+1, len(m.RowPtr))
	}
	f, err := body.NewCSCFormatter(m.RowPtr, m.ColIndex, m.Values, true)
	if err != nil {
		return err
	}

	return Write(w, cscHeader[T](m.Rows, m.Cols, int64(len(m.ColIndex)), m.Values == nil), f, opts...)
}

func cscHeader[T encoding.Value](rows, cols, nnz int64, pattern bool) *header.Header {
	field := fieldFor[T]()
	if pattern {
		field = format.FieldPattern
	}

	return &header.Header{
		Rows:     rows,
		Cols:     cols,
		NNZ:      nnz,
		Object:   format.ObjectMatrix,
		Layout:   format.LayoutCoordinate,
		Field:    field,
		Symmetry: format.SymmetryGeneral,
	}
}
