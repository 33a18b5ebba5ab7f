package body

import (
	"fmt"

	"github.com/rileyjmurray/fast-matrix-market/encoding"
	"github.com/rileyjmurray/fast-matrix-market/errs"
	"github.com/rileyjmurray/fast-matrix-market/format"
)

// Index enumerates the integer types formatter index slices may use.
type Index interface {
	int | int32 | int64
}

// ChunkProducer returns the text of one work unit. It is a pure function of
// the inputs captured when the formatter partitioned its source, so the write
// engine can run producers on any worker in any order.
type ChunkProducer func() ([]byte, error)

// Formatter partitions a matrix source into work units of roughly
// ChunkSizeValues records each. Concatenating the produced chunks in
// NextChunk-call order yields the body exactly; every chunk ends with a
// newline.
type Formatter interface {
	// HasNext reports whether work units remain.
	HasNext() bool

	// NextChunk carves the next work unit off the source and returns its
	// producer. Called on the producer goroutine; must be cheap.
	NextChunk(opt *WriteOptions) ChunkProducer
}

// estimate of the text bytes one record occupies, for output preallocation.
const bytesPerRecord = 25

// TripletFormatter emits one "row+1 col+1 value" line per record. An empty
// value slice emits "row+1 col+1" lines for pattern matrices.
type TripletFormatter[I Index, T encoding.Value] struct {
	rows []I
	cols []I
	vals []T
	pos  int
}

// NewTripletFormatter validates slice lengths and returns a formatter over
// them. vals may be empty to omit the value column.
func NewTripletFormatter[I Index, T encoding.Value](rows, cols []I, vals []T) (*TripletFormatter[I, T], error) {
	if len(rows) != len(cols) || (len(vals) != len(rows) && len(vals) != 0) {
		return nil, fmt.Errorf("%w: row, column, and value slices must have equal length", errs.ErrInvalidArgument)
	}

	return &TripletFormatter[I, T]{rows: rows, cols: cols, vals: vals}, nil
}

func (f *TripletFormatter[I, T]) HasNext() bool {
	return f.pos < len(f.rows)
}

func (f *TripletFormatter[I, T]) NextChunk(opt *WriteOptions) ChunkProducer {
	n := min(opt.ChunkSizeValues, len(f.rows)-f.pos)
	rows := f.rows[f.pos : f.pos+n]
	cols := f.cols[f.pos : f.pos+n]
	var vals []T
	if len(f.vals) != 0 {
		vals = f.vals[f.pos : f.pos+n]
	}
	f.pos += n
	prec := opt.Precision

	return func() ([]byte, error) {
		out := make([]byte, 0, n*bytesPerRecord)
		for i := range rows {
			out = encoding.AppendInt(out, int64(rows[i])+1)
			out = append(out, ' ')
			out = encoding.AppendInt(out, int64(cols[i])+1)
			if vals != nil {
				out = append(out, ' ')
				out = encoding.AppendValue(out, vals[i], prec)
			}
			out = append(out, '\n')
		}

		return out, nil
	}
}

// VectorFormatter emits one "index+1 value" line per record, the doublet form
// of sparse vectors. An empty value slice emits bare indices for pattern
// vectors.
type VectorFormatter[I Index, T encoding.Value] struct {
	idx  []I
	vals []T
	pos  int
}

// NewVectorFormatter validates slice lengths and returns a formatter over
// them.
func NewVectorFormatter[I Index, T encoding.Value](idx []I, vals []T) (*VectorFormatter[I, T], error) {
	if len(vals) != len(idx) && len(vals) != 0 {
		return nil, fmt.Errorf("%w: index and value slices must have equal length", errs.ErrInvalidArgument)
	}

	return &VectorFormatter[I, T]{idx: idx, vals: vals}, nil
}

func (f *VectorFormatter[I, T]) HasNext() bool {
	return f.pos < len(f.idx)
}

func (f *VectorFormatter[I, T]) NextChunk(opt *WriteOptions) ChunkProducer {
	n := min(opt.ChunkSizeValues, len(f.idx)-f.pos)
	idx := f.idx[f.pos : f.pos+n]
	var vals []T
	if len(f.vals) != 0 {
		vals = f.vals[f.pos : f.pos+n]
	}
	f.pos += n
	prec := opt.Precision

	return func() ([]byte, error) {
		out := make([]byte, 0, n*bytesPerRecord)
		for i := range idx {
			out = encoding.AppendInt(out, int64(idx[i])+1)
			if vals != nil {
				out = append(out, ' ')
				out = encoding.AppendValue(out, vals[i], prec)
			}
			out = append(out, '\n')
		}

		return out, nil
	}
}

// CSCFormatter emits compressed-column storage as coordinate records, column
// by column. With transpose set, the pointer dimension is written as the row,
// which turns CSR input into the same body.
type CSCFormatter[I Index, T encoding.Value] struct {
	ptr       []I
	ind       []I
	vals      []T
	transpose bool
	col       int
	nnzPerCol float64
}

// NewCSCFormatter validates the structure and returns a formatter. ptr must
// hold one entry per column plus the terminating count; vals may be empty for
// pattern output.
func NewCSCFormatter[I Index, T encoding.Value](ptr, ind []I, vals []T, transpose bool) (*CSCFormatter[I, T], error) {
	if len(ptr) == 0 {
		return nil, fmt.Errorf("%w: pointer slice must not be empty", errs.ErrInvalidArgument)
	}
	if len(vals) != len(ind) && len(vals) != 0 {
		return nil, fmt.Errorf("%w: index and value slices must have equal length", errs.ErrInvalidArgument)
	}
	if int(ptr[len(ptr)-1]) != len(ind) {
		return nil, fmt.Errorf("%w: final pointer must equal the index count", errs.ErrInvalidArgument)
	}

	ncols := len(ptr) - 1
	nnzPerCol := 1.0
	if ncols > 0 && len(ind) > 0 {
		nnzPerCol = float64(len(ind)) / float64(ncols)
	}

	return &CSCFormatter[I, T]{ptr: ptr, ind: ind, vals: vals, transpose: transpose, nnzPerCol: nnzPerCol}, nil
}

func (f *CSCFormatter[I, T]) HasNext() bool {
	return f.col < len(f.ptr)-1
}

func (f *CSCFormatter[I, T]) NextChunk(opt *WriteOptions) ChunkProducer {
	ncols := int(float64(opt.ChunkSizeValues) / f.nnzPerCol)
	if ncols < 1 {
		ncols = 1
	}
	ncols = min(ncols, len(f.ptr)-1-f.col)

	first, last := f.col, f.col+ncols
	f.col = last
	ptr, ind, vals, transpose, prec := f.ptr, f.ind, f.vals, f.transpose, opt.Precision

	return func() ([]byte, error) {
		out := make([]byte, 0, (int(ptr[last])-int(ptr[first]))*bytesPerRecord)
		for c := first; c < last; c++ {
			for k := int(ptr[c]); k < int(ptr[c+1]); k++ {
				if transpose {
					out = encoding.AppendInt(out, int64(c)+1)
					out = append(out, ' ')
					out = encoding.AppendInt(out, int64(ind[k])+1)
				} else {
					out = encoding.AppendInt(out, int64(ind[k])+1)
					out = append(out, ' ')
					out = encoding.AppendInt(out, int64(c)+1)
				}
				if len(vals) != 0 {
					out = append(out, ' ')
					out = encoding.AppendValue(out, vals[k], prec)
				}
				out = append(out, '\n')
			}
		}

		return out, nil
	}
}

// Order is the storage order of a slice-backed dense source.
type Order uint8

const (
	ColMajor Order = 0x1
	RowMajor Order = 0x2
)

// DenseSource is any 2-D indexable value source.
type DenseSource[T encoding.Value] interface {
	At(row, col int64) T
}

// SliceDense adapts a flat slice in either storage order to a DenseSource.
type SliceDense[T encoding.Value] struct {
	Data  []T
	Rows  int64
	Cols  int64
	Order Order
}

func (s SliceDense[T]) At(row, col int64) T {
	if s.Order == RowMajor {
		return s.Data[row*s.Cols+col]
	}

	return s.Data[col*s.Rows+row]
}

// DenseFormatter emits one value per line in column-major order regardless of
// the source's storage. For non-general symmetries only the lower triangle,
// diagonal included, is written. Work units are groups of whole columns sized
// to roughly ChunkSizeValues records.
type DenseFormatter[T encoding.Value] struct {
	src      DenseSource[T]
	rows     int64
	cols     int64
	symmetry format.Symmetry
	col      int64
}

// NewDenseFormatter returns a formatter over an indexable source.
func NewDenseFormatter[T encoding.Value](src DenseSource[T], rows, cols int64, symmetry format.Symmetry) (*DenseFormatter[T], error) {
	if rows < 0 || cols < 0 {
		return nil, fmt.Errorf("%w: negative dimensions", errs.ErrInvalidArgument)
	}
	if symmetry != format.SymmetryGeneral && rows != cols {
		return nil, fmt.Errorf("%w: %s matrix must be square", errs.ErrInvalidArgument, symmetry)
	}

	return &DenseFormatter[T]{src: src, rows: rows, cols: cols, symmetry: symmetry}, nil
}

func (f *DenseFormatter[T]) HasNext() bool {
	return f.col < f.cols
}

func (f *DenseFormatter[T]) NextChunk(opt *WriteOptions) ChunkProducer {
	group := int64(1)
	if f.rows > 0 {
		group = max(1, int64(opt.ChunkSizeValues)/f.rows)
	}
	group = min(group, f.cols-f.col)

	first, last := f.col, f.col+group
	f.col = last
	src, rows, lower, prec := f.src, f.rows, f.symmetry != format.SymmetryGeneral, opt.Precision

	return func() ([]byte, error) {
		out := make([]byte, 0, group*rows*bytesPerRecord)
		for c := first; c < last; c++ {
			r := int64(0)
			if lower {
				r = c
			}
			for ; r < rows; r++ {
				out = encoding.AppendValue(out, src.At(r, c), prec)
				out = append(out, '\n')
			}
		}

		return out, nil
	}
}
