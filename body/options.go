package body

import (
	"fmt"
	"runtime"

	"github.com/rileyjmurray/fast-matrix-market/errs"
	"github.com/rileyjmurray/fast-matrix-market/internal/options"
)

const (
	// DefaultChunkSizeBytes is the read chunk size before extension to the next
	// record boundary.
	DefaultChunkSizeBytes = 1 << 20

	// DefaultChunkSizeValues is the target number of records per write work
	// unit.
	DefaultChunkSizeValues = 1 << 15

	// inflightPerThread bounds the chunks in flight per worker. Too few starves
	// workers on uneven chunk splits; too many holds chunk buffers in memory.
	inflightPerThread = 10
)

// ReadOptions configures body reads. Construct with NewReadOptions.
type ReadOptions struct {
	// ChunkSizeBytes is the byte window the chunker reads before extending to
	// the next newline.
	ChunkSizeBytes int

	// NumThreads is the worker count; 0 selects GOMAXPROCS.
	NumThreads int

	// GeneralizeSymmetry synthesizes mirrored records for non-general
	// symmetries so handlers observe a general matrix.
	GeneralizeSymmetry bool

	// Parallel enables the worker-pool pipeline. Disabled, or with a handler
	// that does not declare CapParallelOk, the same pipeline runs inline.
	Parallel bool

	// LenientBodyLength accepts coordinate bodies with more records than the
	// header declares instead of failing with ErrFileTooLong.
	LenientBodyLength bool
}

// ReadOption is a functional option for ReadOptions.
type ReadOption = options.Option[*ReadOptions]

// NewReadOptions returns ReadOptions with defaults applied, then opts in order.
func NewReadOptions(opts ...ReadOption) (*ReadOptions, error) {
	o := &ReadOptions{
		ChunkSizeBytes: DefaultChunkSizeBytes,
		Parallel:       true,
	}
	if err := options.Apply(o, opts...); err != nil {
		return nil, err
	}

	return o, nil
}

// WithChunkSizeBytes sets the read chunk size.
func WithChunkSizeBytes(n int) ReadOption {
	return options.New(func(o *ReadOptions) error {
		if n <= 0 {
			return fmt.Errorf("%w: chunk size must be positive, got %d", errs.ErrInvalidArgument, n)
		}
		o.ChunkSizeBytes = n

		return nil
	})
}

// WithNumThreads sets the read worker count. 0 selects GOMAXPROCS.
func WithNumThreads(n int) ReadOption {
	return options.New(func(o *ReadOptions) error {
		if n < 0 {
			return fmt.Errorf("%w: thread count must be non-negative, got %d", errs.ErrInvalidArgument, n)
		}
		o.NumThreads = n

		return nil
	})
}

// WithGeneralizeSymmetry enables symmetry generalization on read.
func WithGeneralizeSymmetry(enable bool) ReadOption {
	return options.NoError(func(o *ReadOptions) {
		o.GeneralizeSymmetry = enable
	})
}

// WithParallel enables or disables the parallel read pipeline.
func WithParallel(enable bool) ReadOption {
	return options.NoError(func(o *ReadOptions) {
		o.Parallel = enable
	})
}

// WithLenientBodyLength tolerates surplus coordinate records.
func WithLenientBodyLength(enable bool) ReadOption {
	return options.NoError(func(o *ReadOptions) {
		o.LenientBodyLength = enable
	})
}

// WriteOptions configures body writes. Construct with NewWriteOptions.
type WriteOptions struct {
	// ChunkSizeValues is the target record count per work unit.
	ChunkSizeValues int

	// NumThreads is the worker count; 0 selects GOMAXPROCS.
	NumThreads int

	// Precision is the number of significant float digits; negative emits the
	// shortest round-trip form.
	Precision int

	// AlwaysComment emits a leading comment line even when the comment is
	// empty.
	AlwaysComment bool

	// Parallel enables the worker-pool pipeline.
	Parallel bool
}

// WriteOption is a functional option for WriteOptions.
type WriteOption = options.Option[*WriteOptions]

// NewWriteOptions returns WriteOptions with defaults applied, then opts in
// order.
func NewWriteOptions(opts ...WriteOption) (*WriteOptions, error) {
	o := &WriteOptions{
		ChunkSizeValues: DefaultChunkSizeValues,
		Precision:       -1,
		Parallel:        true,
	}
	if err := options.Apply(o, opts...); err != nil {
		return nil, err
	}

	return o, nil
}

// WithChunkSizeValues sets the target records per write work unit.
func WithChunkSizeValues(n int) WriteOption {
	return options.New(func(o *WriteOptions) error {
		if n <= 0 {
			return fmt.Errorf("%w: chunk size must be positive, got %d", errs.ErrInvalidArgument, n)
		}
		o.ChunkSizeValues = n

		return nil
	})
}

// WithWriteNumThreads sets the write worker count. 0 selects GOMAXPROCS.
func WithWriteNumThreads(n int) WriteOption {
	return options.New(func(o *WriteOptions) error {
		if n < 0 {
			return fmt.Errorf("%w: thread count must be non-negative, got %d", errs.ErrInvalidArgument, n)
		}
		o.NumThreads = n

		return nil
	})
}

// WithPrecision sets the float emission precision in significant digits.
// Negative selects the shortest round-trip form.
func WithPrecision(digits int) WriteOption {
	return options.NoError(func(o *WriteOptions) {
		o.Precision = digits
	})
}

// WithAlwaysComment forces a comment line even for an empty comment.
func WithAlwaysComment(enable bool) WriteOption {
	return options.NoError(func(o *WriteOptions) {
		o.AlwaysComment = enable
	})
}

// WithWriteParallel enables or disables the parallel write pipeline.
func WithWriteParallel(enable bool) WriteOption {
	return options.NoError(func(o *WriteOptions) {
		o.Parallel = enable
	})
}

func resolveThreads(n int) int {
	if n <= 0 {
		return runtime.GOMAXPROCS(0)
	}

	return n
}
