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

// Doublet is a sparse vector as parallel (index, value) slices, 0-based.
type Doublet[I body.Index, T encoding.Value] struct {
	Length int64

	Indices []I
	Values  []T
}

type doubletHandler[I body.Index, T encoding.Value] struct {
	d        *Doublet[I, T]
	pos      int64
	growable bool
}

func (h *doubletHandler[I, T]) Handle(index, _ int64, v T) {
	if h.pos < int64(len(h.d.Indices)) {
		h.d.Indices[h.pos] = I(index)
		h.d.Values[h.pos] = v
	} else {
		h.d.Indices = append(h.d.Indices, I(index))
		h.d.Values = append(h.d.Values, v)
	}
	h.pos++
}

func (h *doubletHandler[I, T]) ChunkHandler(offset int64) body.Handler[T] {
	return &doubletHandler[I, T]{d: h.d, pos: offset, growable: h.growable}
}

func (h *doubletHandler[I, T]) Caps() body.Caps {
	caps := body.CapConsumesValues
	if !h.growable {
		caps |= body.CapParallelOk
	}

	return caps
}

// ReadDoublet reads a vector file into doublet form.
func ReadDoublet[I body.Index, T encoding.Value](r io.Reader, opts ...body.ReadOption) (*header.Header, *Doublet[I, T], error) {
	opt, err := body.NewReadOptions(opts...)
	if err != nil {
		return nil, nil, err
	}

	br := bufio.NewReaderSize(r, readerBufferSize)
	h, err := header.Read(br)
	if err != nil {
		return nil, nil, err
	}
	if h.Object != format.ObjectVector {
		return h, nil, fmt.Errorf("%w: expected a vector file, got %s", errs.ErrInvalidArgument, h.Object)
	}
	if h.Rows-1 > maxIndex[I]() {
		return h, nil, fmt.Errorf("%w: index type cannot hold length %d", errs.ErrInvalidArgument, h.Rows)
	}

	d := &Doublet[I, T]{
		Length:  h.Rows,
		Indices: make([]I, h.BodyRecords()),
		Values:  make([]T, h.BodyRecords()),
	}
	dh := &doubletHandler[I, T]{d: d, growable: opt.LenientBodyLength}

	if err := body.ReadBody(br, h, body.Handler[T](dh), opt); err != nil {
		return h, nil, err
	}

	return h, d, nil
}

// WriteDoublet writes a sparse vector as a coordinate vector file. A nil
// Values slice writes a pattern file.
func WriteDoublet[I body.Index, T encoding.Value](w io.Writer, d *Doublet[I, T], opts ...body.WriteOption) error {
	field := fieldFor[T]()
	if d.Values == nil {
		field = format.FieldPattern
	}
	h := &header.Header{
		Rows:     d.Length,
		Cols:     1,
		NNZ:      int64(len(d.Indices)),
		Object:   format.ObjectVector,
		Layout:   format.LayoutCoordinate,
		Field:    field,
		Symmetry: format.SymmetryGeneral,
	}

	f, err := body.NewVectorFormatter(d.Indices, d.Values)
	if err != nil {
		return err
	}

	return Write(w, h, f, opts...)
}
