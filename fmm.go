// Package fastmm reads and writes the Matrix Market sparse/dense matrix text
// format at memory-bandwidth speeds.
//
// The body is processed in chunks that always end on record boundaries, so
// line counting, parsing, and formatting run concurrently on a worker pool
// while a single goroutine owns the stream. Every format feature is covered:
// coordinate and array layouts, matrices and vectors, integer/real/complex/
// pattern fields, the four symmetries, comments, CRLF input, and missing final
// newlines.
//
// # Basic Usage
//
// Reading a sparse matrix into triplets:
//
//	f, _ := os.Open("matrix.mtx")
//	hdr, t, err := fastmm.ReadTriplet[int32, float64](f)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(hdr.Rows, hdr.Cols, len(t.Values))
//
// Writing it back:
//
//	err = fastmm.WriteTriplet(w, t)
//
// Symmetric files can be expanded to their general form during the parse:
//
//	hdr, t, err := fastmm.ReadTriplet[int32, float64](f,
//	    body.WithGeneralizeSymmetry(true))
//
// # Package Structure
//
// This package provides convenience bundles for the common container shapes
// (triplet, doublet, dense, CSC/CSR). For custom containers implement
// body.Handler or body.Formatter and use Read and Write directly; the header
// and body packages expose the individual pipeline stages.
package fastmm

import (
	"bufio"
	"io"
	"math"

	"github.com/rileyjmurray/fast-matrix-market/body"
	"github.com/rileyjmurray/fast-matrix-market/encoding"
	"github.com/rileyjmurray/fast-matrix-market/format"
	"github.com/rileyjmurray/fast-matrix-market/header"
)

const readerBufferSize = 1 << 16

// Read parses a whole Matrix Market stream — header and body — delivering
// records to the handler. It returns the parsed header.
func Read[T encoding.Value](r io.Reader, handler body.Handler[T], opts ...body.ReadOption) (*header.Header, error) {
	opt, err := body.NewReadOptions(opts...)
	if err != nil {
		return nil, err
	}

	br := bufio.NewReaderSize(r, readerBufferSize)
	h, err := header.Read(br)
	if err != nil {
		return nil, err
	}
	if err := body.ReadBody(br, h, handler, opt); err != nil {
		return h, err
	}

	return h, nil
}

// Write emits a whole Matrix Market stream: the header followed by the
// formatter's body.
func Write(w io.Writer, h *header.Header, f body.Formatter, opts ...body.WriteOption) error {
	opt, err := body.NewWriteOptions(opts...)
	if err != nil {
		return err
	}
	if err := header.Write(w, h, opt.AlwaysComment); err != nil {
		return err
	}

	return body.WriteBody(w, f, opt)
}

// fieldFor maps a value type to the field its files are written with.
func fieldFor[T encoding.Value]() format.Field {
	switch encoding.KindOf[T]() {
	case encoding.KindInt:
		return format.FieldInteger
	case encoding.KindFloat:
		return format.FieldReal
	default:
		return format.FieldComplex
	}
}

// maxIndex is the largest 0-based index the index type can hold.
func maxIndex[I body.Index]() int64 {
	switch any(*new(I)).(type) {
	case int32:
		return math.MaxInt32
	case int:
		return math.MaxInt
	default:
		return math.MaxInt64
	}
}
