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

// Triplet is a sparse matrix as parallel (row, col, value) slices, 0-based.
type Triplet[I body.Index, T encoding.Value] struct {
	Rows int64
	Cols int64

	RowIndex []I
	ColIndex []I

	// Values is nil for pattern output; on read it holds the unit value for
	// pattern files.
	Values []T
}

// tripletHandler writes records into pre-sized slot ranges, one chunk handler
// per disjoint ordinal range. When growable (lenient body length) it appends
// past the pre-sized region instead, which restricts it to sequential use.
type tripletHandler[I body.Index, T encoding.Value] struct {
	t        *Triplet[I, T]
	pos      int64
	growable bool
}

func (h *tripletHandler[I, T]) Handle(row, col int64, v T) {
	if h.pos < int64(len(h.t.RowIndex)) {
		h.t.RowIndex[h.pos] = I(row)
		h.t.ColIndex[h.pos] = I(col)
		h.t.Values[h.pos] = v
	} else {
		h.t.RowIndex = append(h.t.RowIndex, I(row))
		h.t.ColIndex = append(h.t.ColIndex, I(col))
		h.t.Values = append(h.t.Values, v)
	}
	h.pos++
}

func (h *tripletHandler[I, T]) ChunkHandler(offset int64) body.Handler[T] {
	return &tripletHandler[I, T]{t: h.t, pos: offset, growable: h.growable}
}

func (h *tripletHandler[I, T]) Caps() body.Caps {
	caps := body.CapConsumesValues
	if !h.growable {
		caps |= body.CapParallelOk
	}

	return caps
}

// ReadTriplet reads a coordinate or array file into triplet form. With
// body.WithGeneralizeSymmetry the result is the general expansion of a
// symmetric, skew-symmetric, or hermitian file; mirrored records keep the
// parallel pipeline by landing in dedicated slots that are compacted before
// returning.
func ReadTriplet[I body.Index, T encoding.Value](r io.Reader, opts ...body.ReadOption) (*header.Header, *Triplet[I, T], error) {
	opt, err := body.NewReadOptions(opts...)
	if err != nil {
		return nil, nil, err
	}

	br := bufio.NewReaderSize(r, readerBufferSize)
	h, err := header.Read(br)
	if err != nil {
		return nil, nil, err
	}
	if maxDim := max(h.Rows, h.Cols) - 1; maxDim > maxIndex[I]() {
		return h, nil, fmt.Errorf("%w: index type cannot hold dimension %d", errs.ErrInvalidArgument, maxDim+1)
	}

	generalize := opt.GeneralizeSymmetry && h.Symmetry != format.SymmetryGeneral
	n := h.BodyRecords()
	slots := n
	if generalize {
		slots = 2 * n
	}

	t := &Triplet[I, T]{
		Rows:     h.Rows,
		Cols:     h.Cols,
		RowIndex: make([]I, slots),
		ColIndex: make([]I, slots),
		Values:   make([]T, slots),
	}
	th := &tripletHandler[I, T]{t: t, growable: opt.LenientBodyLength}

	var handler body.Handler[T] = th
	engineOpt := *opt
	if generalize {
		handler = body.NewSlotGeneralizer[T](th, h.Symmetry)
		// The slot adapter already expands the symmetry; keep the engine from
		// wrapping a second generalizer around it.
		engineOpt.GeneralizeSymmetry = false
	}

	if err := body.ReadBody(br, h, handler, &engineOpt); err != nil {
		return h, nil, err
	}

	if generalize {
		compactPlaceholders(t)
	}

	return h, t, nil
}

// compactPlaceholders removes the (-1, -1) slots the slot generalizer emits
// for diagonal records, preserving slot order.
func compactPlaceholders[I body.Index, T encoding.Value](t *Triplet[I, T]) {
	out := 0
	for i := range t.RowIndex {
		if t.RowIndex[i] < 0 {
			continue
		}
		t.RowIndex[out] = t.RowIndex[i]
		t.ColIndex[out] = t.ColIndex[i]
		t.Values[out] = t.Values[i]
		out++
	}
	t.RowIndex = t.RowIndex[:out]
	t.ColIndex = t.ColIndex[:out]
	t.Values = t.Values[:out]
}

// WriteTriplet writes a triplet matrix as a general coordinate file. A nil
// Values slice writes a pattern file.
func WriteTriplet[I body.Index, T encoding.Value](w io.Writer, t *Triplet[I, T], opts ...body.WriteOption) error {
	field := fieldFor[T]()
	if t.Values == nil {
		field = format.FieldPattern
	}
	h := &header.Header{
		Rows:     t.Rows,
		Cols:     t.Cols,
		NNZ:      int64(len(t.RowIndex)),
		Object:   format.ObjectMatrix,
		Layout:   format.LayoutCoordinate,
		Field:    field,
		Symmetry: format.SymmetryGeneral,
	}

	return WriteTripletAs(w, h, t, opts...)
}

// WriteTripletAs writes a triplet matrix under a caller-supplied header, for
// symmetric output, comments, or a double field declaration. The header's NNZ
// must match the record count.
func WriteTripletAs[I body.Index, T encoding.Value](w io.Writer, h *header.Header, t *Triplet[I, T], opts ...body.WriteOption) error {
	if h.NNZ != int64(len(t.RowIndex)) {
		return fmt.Errorf("%w: header declares %d records, triplet holds %d", errs.ErrInvalidArgument, h.NNZ, len(t.RowIndex))
	}
	vals := t.Values
	if h.Field == format.FieldPattern {
		// Pattern reads surface unit values; a pattern header drops the column
		// again on the way out.
		vals = nil
	}
	f, err := body.NewTripletFormatter(t.RowIndex, t.ColIndex, vals)
	if err != nil {
		return err
	}

	return Write(w, h, f, opts...)
}
