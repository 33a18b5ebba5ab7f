package body

import (
	"encoding/binary"
	"math"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"

	"github.com/rileyjmurray/fast-matrix-market/encoding"
)

// Caps is the handler capability bitmask.
type Caps uint8

const (
	// CapParallelOk permits the engine to drive per-chunk handlers from
	// multiple workers at once. Chunk handlers receive disjoint record ordinal
	// ranges; the handler must be free of shared mutable state across them.
	CapParallelOk Caps = 1 << iota

	// CapConsumesValues declares that the handler stores record values. A
	// pattern-only sink clears it; parsers still validate value tokens either
	// way.
	CapConsumesValues
)

// Has reports whether all bits of f are set.
func (c Caps) Has(f Caps) bool {
	return c&f == f
}

// Handler consumes parsed records.
//
// Coordinate matrix and array parsers deliver Handle(row, col, v) with 0-based
// indices; coordinate vector parsers deliver Handle(index, 0, v). Pattern
// fields deliver the canonical unit value of T.
type Handler[T encoding.Value] interface {
	// Handle consumes one record.
	Handle(row, col int64, v T)

	// ChunkHandler returns a handler positioned to consume records starting at
	// the given body record ordinal. The engine calls it once per chunk, on the
	// producer, before dispatching the chunk's parse task.
	ChunkHandler(offset int64) Handler[T]

	// Caps reports the handler's capabilities.
	Caps() Caps
}

// Digest is a handler that folds every record into an order-independent
// 64-bit fingerprint. Two parses that deliver the same record multiset produce
// the same sum regardless of chunk size, worker count, or arrival order, which
// makes it the cheapest way to verify a parallel parse against a sequential
// one, or to checksum a stream without materializing it.
type Digest[T encoding.Value] struct {
	sum   atomic.Uint64
	count atomic.Int64
}

var _ Handler[float64] = (*Digest[float64])(nil)

// NewDigest creates an empty digest handler.
func NewDigest[T encoding.Value]() *Digest[T] {
	return &Digest[T]{}
}

// Handle folds one record into the digest.
func (d *Digest[T]) Handle(row, col int64, v T) {
	var buf [32]byte
	binary.LittleEndian.PutUint64(buf[0:8], uint64(row))
	binary.LittleEndian.PutUint64(buf[8:16], uint64(col))
	n := 16
	switch x := any(v).(type) {
	case int:
		binary.LittleEndian.PutUint64(buf[16:24], uint64(int64(x)))
		n = 24
	case int32:
		binary.LittleEndian.PutUint64(buf[16:24], uint64(int64(x)))
		n = 24
	case int64:
		binary.LittleEndian.PutUint64(buf[16:24], uint64(x))
		n = 24
	case float32:
		binary.LittleEndian.PutUint64(buf[16:24], math.Float64bits(float64(x)))
		n = 24
	case float64:
		binary.LittleEndian.PutUint64(buf[16:24], math.Float64bits(x))
		n = 24
	case complex64:
		binary.LittleEndian.PutUint64(buf[16:24], math.Float64bits(float64(real(x))))
		binary.LittleEndian.PutUint64(buf[24:32], math.Float64bits(float64(imag(x))))
		n = 32
	case complex128:
		binary.LittleEndian.PutUint64(buf[16:24], math.Float64bits(real(x)))
		binary.LittleEndian.PutUint64(buf[24:32], math.Float64bits(imag(x)))
		n = 32
	}

	// Addition commutes, so the sum is independent of record arrival order.
	d.sum.Add(xxhash.Sum64(buf[:n]))
	d.count.Add(1)
}

// ChunkHandler returns the digest itself; the atomic fold is parallel-safe.
func (d *Digest[T]) ChunkHandler(int64) Handler[T] {
	return d
}

// Caps reports CapParallelOk and CapConsumesValues.
func (d *Digest[T]) Caps() Caps {
	return CapParallelOk | CapConsumesValues
}

// Sum64 returns the accumulated fingerprint.
func (d *Digest[T]) Sum64() uint64 {
	return d.sum.Load()
}

// Count returns the number of records folded in.
func (d *Digest[T]) Count() int64 {
	return d.count.Load()
}
