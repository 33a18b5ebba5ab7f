package body

import (
	"github.com/rileyjmurray/fast-matrix-market/encoding"
	"github.com/rileyjmurray/fast-matrix-market/format"
)

// mirror returns the value of the synthesized (c, r) record for the given
// symmetry.
func mirror[T encoding.Value](sym format.Symmetry, v T) T {
	switch sym {
	case format.SymmetrySkewSymmetric:
		return encoding.Neg(v)
	case format.SymmetryHermitian:
		return encoding.Conj(v)
	default:
		return v
	}
}

// generalizer is a handler adapter that forwards each record and synthesizes
// its mirrored counterpart for off-diagonal entries. Output record ordinals no
// longer match input ordinals, so it tracks its own output cursor and forces
// sequential execution.
type generalizer[T encoding.Value] struct {
	inner   Handler[T]
	sym     format.Symmetry
	emitted *int64
}

// NewGeneralizer wraps a handler so callers observe the general expansion of a
// symmetric, skew-symmetric, or hermitian file: (r, c, v) is forwarded, and for
// r != c the mirrored record (c, r, v'), with v' negated for skew-symmetric and
// conjugated for hermitian. Diagonal records of skew-symmetric files should be
// zero; verifying that is the caller's concern.
//
// The adapter clears CapParallelOk: the number of emitted records depends on
// how many diagonal entries precede a chunk, so offsets are only meaningful in
// stream order.
func NewGeneralizer[T encoding.Value](inner Handler[T], sym format.Symmetry) Handler[T] {
	if sym == format.SymmetryGeneral {
		return inner
	}

	return &generalizer[T]{inner: inner, sym: sym, emitted: new(int64)}
}

func (g *generalizer[T]) Handle(row, col int64, v T) {
	g.inner.Handle(row, col, v)
	*g.emitted++
	if row != col {
		g.inner.Handle(col, row, mirror(g.sym, v))
		*g.emitted++
	}
}

func (g *generalizer[T]) ChunkHandler(int64) Handler[T] {
	// The source offset is useless here; position the inner handler at the
	// output cursor instead. Sequential execution keeps the cursor coherent.
	return &generalizer[T]{inner: g.inner.ChunkHandler(*g.emitted), sym: g.sym, emitted: g.emitted}
}

func (g *generalizer[T]) Caps() Caps {
	return g.inner.Caps() &^ CapParallelOk
}

// slotGeneralizer maps every input record to exactly two output slots, filling
// the second with a placeholder at negative indices for diagonal records. The
// fixed 2-to-1 slot mapping keeps chunk offsets deterministic, so parallel
// execution stays available; slot-addressed sinks compact the placeholders
// afterwards.
type slotGeneralizer[T encoding.Value] struct {
	inner Handler[T]
	sym   format.Symmetry
}

// NewSlotGeneralizer is the parallel-friendly variant of NewGeneralizer for
// slot-addressed handlers. A downstream handler sized for 2*nnz records
// receives either the mirrored record or a (-1, -1, 0) placeholder at the odd
// slot; the placeholder's negative indices mark it for compaction.
func NewSlotGeneralizer[T encoding.Value](inner Handler[T], sym format.Symmetry) Handler[T] {
	if sym == format.SymmetryGeneral {
		return inner
	}

	return &slotGeneralizer[T]{inner: inner, sym: sym}
}

func (g *slotGeneralizer[T]) Handle(row, col int64, v T) {
	g.inner.Handle(row, col, v)
	if row != col {
		g.inner.Handle(col, row, mirror(g.sym, v))
	} else {
		var zero T
		g.inner.Handle(-1, -1, zero)
	}
}

func (g *slotGeneralizer[T]) ChunkHandler(offset int64) Handler[T] {
	return &slotGeneralizer[T]{inner: g.inner.ChunkHandler(2 * offset), sym: g.sym}
}

func (g *slotGeneralizer[T]) Caps() Caps {
	return g.inner.Caps()
}
