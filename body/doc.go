// Package body implements the chunked, pipelined parse and format engine for
// Matrix Market bodies.
//
// Reading is a three-stage pipeline: the chunker cuts the stream into byte
// windows that end on record boundaries, the line counter establishes each
// chunk's global line number and record ordinal, and the chunk parsers convert
// records into handler callbacks. Writing mirrors it: formatters partition
// their source into work units whose text is produced by pure thunks and
// flushed in submission order.
//
// With NumThreads > 1 both pipelines run on a worker pool with a single
// producer goroutine owning all stream I/O; results are observationally
// identical to the sequential path for any chunk size and worker count.
package body
