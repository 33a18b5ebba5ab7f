// Package errs defines the sentinel errors shared across the fast-matrix-market
// packages.
//
// All errors produced by this module wrap one of these sentinels, so callers can
// classify failures with errors.Is regardless of the context (line number,
// offending token) attached by the call site. Errors returned by a
// caller-supplied body.Formatter's chunk producers are passed through unchanged.
//
//	_, _, err := fastmm.ReadTriplet[int32, float64](r)
//	if errors.Is(err, errs.ErrInvalidValue) {
//	    // malformed numeric token; err.Error() names the file line
//	}
package errs

import "errors"

var (
	// ErrInvalidHeader indicates a missing or malformed %%MatrixMarket banner,
	// or an unknown object/format/field/symmetry token.
	ErrInvalidHeader = errors.New("invalid matrix market header")

	// ErrInvalidDimensions indicates a dimension line that is non-numeric,
	// negative, or has the wrong number of fields for the declared format.
	ErrInvalidDimensions = errors.New("invalid dimension line")

	// ErrInvalidValue indicates a malformed numeric token in the body, trailing
	// junk on a record line, or a narrowing conversion the handler's value type
	// cannot represent.
	ErrInvalidValue = errors.New("invalid value")

	// ErrOutOfRange indicates integer overflow while parsing, or a coordinate
	// index outside the declared dimensions.
	ErrOutOfRange = errors.New("out of range")

	// ErrFileTooShort indicates fewer body records than the header declares.
	ErrFileTooShort = errors.New("file contains fewer records than declared")

	// ErrFileTooLong indicates more body records than the header declares.
	ErrFileTooLong = errors.New("file contains more records than declared")

	// ErrInvalidArgument indicates API misuse such as mismatched slice lengths
	// handed to a formatter.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrIO wraps failures of the underlying stream.
	ErrIO = errors.New("i/o error")

	// ErrUnsupportedCompression indicates a CompressionType value the compress
	// package does not recognize.
	ErrUnsupportedCompression = errors.New("unsupported compression")
)
