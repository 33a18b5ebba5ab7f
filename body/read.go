package body

import (
	"bufio"
	"fmt"
	"runtime"

	"github.com/rileyjmurray/fast-matrix-market/encoding"
	"github.com/rileyjmurray/fast-matrix-market/errs"
	"github.com/rileyjmurray/fast-matrix-market/format"
	"github.com/rileyjmurray/fast-matrix-market/header"
	"github.com/rileyjmurray/fast-matrix-market/internal/pool"
)

// ReadBody parses the body of a Matrix Market file positioned after its
// header, delivering every record to the handler. With GeneralizeSymmetry set
// and a non-general header the handler is wrapped so it observes the general
// expansion.
//
// Records arrive in deterministic order within a chunk; across chunks the
// order is non-deterministic unless the handler forgoes CapParallelOk. The
// result is independent of chunk size and worker count.
func ReadBody[T encoding.Value](br *bufio.Reader, h *header.Header, handler Handler[T], opt *ReadOptions) error {
	if opt == nil {
		var err error
		if opt, err = NewReadOptions(); err != nil {
			return err
		}
	}
	if err := h.Validate(); err != nil {
		return err
	}

	if opt.GeneralizeSymmetry && h.Symmetry != format.SymmetryGeneral {
		handler = NewGeneralizer(handler, h.Symmetry)
	}

	threads := resolveThreads(opt.NumThreads)
	if threads <= 1 || !opt.Parallel || !handler.Caps().Has(CapParallelOk) {
		return readBodySequential(br, h, handler, opt)
	}

	return readBodyParallel(br, h, handler, opt, threads)
}

// checkRecordCount compares the parsed record total against the header's
// declaration.
func checkRecordCount(h *header.Header, records int64, opt *ReadOptions) error {
	expected := h.BodyRecords()
	switch {
	case records < expected:
		return fmt.Errorf("%w: expected %d records, found %d", errs.ErrFileTooShort, expected, records)
	case records > expected && !opt.LenientBodyLength:
		return fmt.Errorf("%w: expected %d records, found %d", errs.ErrFileTooLong, expected, records)
	default:
		return nil
	}
}

// parseChunk dispatches one chunk to the parser for the header's layout and
// object. ordStart is the record ordinal of the chunk's first record.
func parseChunk[T encoding.Value](chunk []byte, h *header.Header, chunkLineStart int64, handler Handler[T], ordStart int64, opt *ReadOptions) (int64, error) {
	switch {
	case h.Layout == format.LayoutArray:
		row0, col0 := arrayPosition(h, ordStart)
		return ReadChunkArray(chunk, h, chunkLineStart, handler, row0, col0)
	case h.Object == format.ObjectMatrix:
		return ReadChunkMatrixCoordinate(chunk, h, chunkLineStart, handler, opt)
	default:
		return ReadChunkVectorCoordinate(chunk, h, chunkLineStart, handler)
	}
}

func readBodySequential[T encoding.Value](br *bufio.Reader, h *header.Header, handler Handler[T], opt *ReadOptions) error {
	lineNum := h.LineCount
	var records int64

	bb := pool.GetChunkBuffer()
	defer pool.PutChunkBuffer(bb)

	for {
		ok, err := NextChunk(br, opt.ChunkSizeBytes, bb)
		if err != nil {
			return err
		}
		if !ok {
			break
		}

		lines, _ := CountLines(bb.B)
		chunkStart := lineNum + 1

		ch := handler.ChunkHandler(records)
		n, err := parseChunk(bb.B, h, chunkStart, ch, records, opt)
		if err != nil {
			return err
		}

		records += n
		lineNum += lines
	}

	return checkRecordCount(h, records, opt)
}

// countedChunk carries a chunk through the line-count stage.
type countedChunk struct {
	bb      *pool.ByteBuffer
	lines   int64
	records int64
}

func readBodyParallel[T encoding.Value](br *bufio.Reader, h *header.Header, handler Handler[T], opt *ReadOptions, threads int) error {
	inflight := inflightPerThread * threads
	// Each pipeline step submits at most one count and one parse task while
	// the load gate holds, so this queue never fills.
	p := newWorkerPool(threads, 2*inflight+2)
	ferr := newFirstError()

	var futures []chan countedChunk
	eof := false

	readAhead := func() {
		if eof || ferr.failed.Load() {
			return
		}
		bb := pool.GetChunkBuffer()
		ok, err := NextChunk(br, opt.ChunkSizeBytes, bb)
		if err != nil {
			pool.PutChunkBuffer(bb)
			// Stream errors precede all outstanding parse errors.
			ferr.record(-1, err)
			eof = true

			return
		}
		if !ok {
			pool.PutChunkBuffer(bb)
			eof = true

			return
		}

		fut := make(chan countedChunk, 1)
		p.submit(func() {
			lines, recs := CountLines(bb.B)
			fut <- countedChunk{bb: bb, lines: lines, records: recs}
		})
		futures = append(futures, fut)
	}

	// Seed the pipeline.
	for len(futures) < inflight && !eof {
		readAhead()
	}

	lineNum := h.LineCount
	var ord int64
	var submitIdx int64

	for len(futures) > 0 {
		if p.load() < int64(inflight) {
			select {
			case cc := <-futures[0]:
				futures = futures[1:]
				readAhead()

				chunkStart := lineNum + 1
				lineNum += cc.lines
				ordStart := ord
				ord += cc.records

				if ferr.failed.Load() {
					pool.PutChunkBuffer(cc.bb)
					continue
				}

				idx := submitIdx
				submitIdx++
				ch := handler.ChunkHandler(ordStart)
				p.submit(func() {
					if ferr.failed.Load() {
						pool.PutChunkBuffer(cc.bb)
						return
					}
					_, err := parseChunk(cc.bb.B, h, chunkStart, ch, ordStart, opt)
					ferr.record(idx, err)
					pool.PutChunkBuffer(cc.bb)
				})

				continue
			default:
			}
		}

		// Backpressure: the pool is saturated or the next line count is still
		// in flight.
		runtime.Gosched()
	}

	p.shutdown()

	if err := ferr.get(); err != nil {
		return err
	}

	return checkRecordCount(h, ord, opt)
}
