// Package pool provides reusable byte buffers for chunk I/O, so the read
// pipeline recycles allocations instead of churning the GC at multi-GB/s read
// rates. Formatter output is not pooled.
package pool

import "sync"

const (
	// ChunkBufferDefaultSize matches the default read chunk size, so a pooled
	// buffer usually serves a whole chunk without growing.
	ChunkBufferDefaultSize = 1 << 20 // 1MiB

	// ChunkBufferMaxThreshold is the largest buffer the pool retains. Oversized
	// buffers (a pathological single line longer than the chunk size) are
	// dropped rather than pinned.
	ChunkBufferMaxThreshold = 1 << 24 // 16MiB
)

// ByteBuffer is a growable byte slice with explicit length control.
type ByteBuffer struct {
	// B is the underlying byte slice.
	B []byte
}

// NewByteBuffer creates a new ByteBuffer with the specified capacity.
func NewByteBuffer(capacity int) *ByteBuffer {
	return &ByteBuffer{B: make([]byte, 0, capacity)}
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset empties the buffer but retains the allocated memory for reuse.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Len returns the length of the buffer.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// SetLength sets the length of the buffer to n, which must not exceed the
// capacity.
func (bb *ByteBuffer) SetLength(n int) {
	if n < 0 || n > cap(bb.B) {
		panic("SetLength: invalid length")
	}
	bb.B = bb.B[:n]
}

// EnsureCap grows the buffer so at least n more bytes fit without reallocating.
func (bb *ByteBuffer) EnsureCap(n int) {
	if cap(bb.B)-len(bb.B) >= n {
		return
	}
	grown := make([]byte, len(bb.B), len(bb.B)+n)
	copy(grown, bb.B)
	bb.B = grown
}

var chunkBufferPool = sync.Pool{
	New: func() any {
		return NewByteBuffer(ChunkBufferDefaultSize)
	},
}

// GetChunkBuffer returns an empty buffer sized for one read chunk.
func GetChunkBuffer() *ByteBuffer {
	bb, _ := chunkBufferPool.Get().(*ByteBuffer)
	bb.Reset()

	return bb
}

// PutChunkBuffer returns a buffer to the pool. Buffers that grew past the
// retention threshold are discarded.
func PutChunkBuffer(bb *ByteBuffer) {
	if bb == nil || cap(bb.B) > ChunkBufferMaxThreshold {
		return
	}
	chunkBufferPool.Put(bb)
}
