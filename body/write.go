package body

import (
	"fmt"
	"io"

	"github.com/rileyjmurray/fast-matrix-market/errs"
)

// WriteBody drains the formatter and writes the produced body text to w.
// Chunks appear in the output in formatter partition order regardless of
// worker completion order; the byte stream is identical for any thread count.
//
// On the first producer or stream error the engine stops issuing work units,
// drains the outstanding ones, and returns that error.
func WriteBody(w io.Writer, f Formatter, opt *WriteOptions) error {
	if opt == nil {
		var err error
		if opt, err = NewWriteOptions(); err != nil {
			return err
		}
	}

	threads := resolveThreads(opt.NumThreads)
	if threads <= 1 || !opt.Parallel {
		return writeBodySequential(w, f, opt)
	}

	return writeBodyParallel(w, f, opt, threads)
}

func writeBodySequential(w io.Writer, f Formatter, opt *WriteOptions) error {
	for f.HasNext() {
		text, err := f.NextChunk(opt)()
		if err != nil {
			return err
		}
		if _, err := w.Write(text); err != nil {
			return fmt.Errorf("%w: %w", errs.ErrIO, err)
		}
	}

	return nil
}

type producedChunk struct {
	text []byte
	err  error
}

func writeBodyParallel(w io.Writer, f Formatter, opt *WriteOptions, threads int) error {
	inflight := inflightPerThread * threads
	p := newWorkerPool(threads, inflight+1)

	// Results are popped in submission order, which both orders the output
	// bytes and makes the first popped failure the first error by submission
	// order.
	var results []chan producedChunk
	var firstErr error

	for f.HasNext() || len(results) > 0 {
		for firstErr == nil && f.HasNext() && len(results) < inflight && p.load() < int64(inflight) {
			producer := f.NextChunk(opt)
			res := make(chan producedChunk, 1)
			p.submit(func() {
				text, err := producer()
				res <- producedChunk{text: text, err: err}
			})
			results = append(results, res)
		}
		if len(results) == 0 {
			break
		}

		pc := <-results[0]
		results = results[1:]
		if firstErr != nil {
			continue // draining
		}
		if pc.err != nil {
			firstErr = pc.err
			continue
		}
		if _, err := w.Write(pc.text); err != nil {
			firstErr = fmt.Errorf("%w: %w", errs.ErrIO, err)
		}
	}

	p.shutdown()

	return firstErr
}
