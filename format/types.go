// Package format defines the enumerated header tokens of the Matrix Market
// format and the stream compression types understood by the compress package.
package format

import (
	"fmt"
	"strings"

	"github.com/rileyjmurray/fast-matrix-market/errs"
)

type (
	Object          uint8
	Layout          uint8
	Field           uint8
	Symmetry        uint8
	CompressionType uint8
)

const (
	ObjectMatrix Object = 0x1 // ObjectMatrix is the banner token "matrix".
	ObjectVector Object = 0x2 // ObjectVector is the banner token "vector".

	LayoutCoordinate Layout = 0x1 // LayoutCoordinate is one (row, col, value) record per line.
	LayoutArray      Layout = 0x2 // LayoutArray is one value per line, column-major.

	FieldInteger Field = 0x1 // FieldInteger values are signed decimal integers.
	FieldReal    Field = 0x2 // FieldReal values are floats.
	FieldDouble  Field = 0x3 // FieldDouble values are floats; synonym of real on read.
	FieldComplex Field = 0x4 // FieldComplex values are two floats: real then imaginary.
	FieldPattern Field = 0x5 // FieldPattern records carry no value column.

	SymmetryGeneral       Symmetry = 0x1
	SymmetrySymmetric     Symmetry = 0x2
	SymmetrySkewSymmetric Symmetry = 0x3
	SymmetryHermitian     Symmetry = 0x4

	CompressionNone CompressionType = 0x1 // CompressionNone represents a plain-text stream.
	CompressionGzip CompressionType = 0x2 // CompressionGzip represents a gzip stream.
	CompressionZstd CompressionType = 0x3 // CompressionZstd represents a Zstandard stream.
	CompressionS2   CompressionType = 0x4 // CompressionS2 represents an S2/Snappy framed stream.
	CompressionLZ4  CompressionType = 0x5 // CompressionLZ4 represents an LZ4 framed stream.
)

func (o Object) String() string {
	switch o {
	case ObjectMatrix:
		return "matrix"
	case ObjectVector:
		return "vector"
	default:
		return "unknown"
	}
}

func (l Layout) String() string {
	switch l {
	case LayoutCoordinate:
		return "coordinate"
	case LayoutArray:
		return "array"
	default:
		return "unknown"
	}
}

func (f Field) String() string {
	switch f {
	case FieldInteger:
		return "integer"
	case FieldReal:
		return "real"
	case FieldDouble:
		return "double"
	case FieldComplex:
		return "complex"
	case FieldPattern:
		return "pattern"
	default:
		return "unknown"
	}
}

func (s Symmetry) String() string {
	switch s {
	case SymmetryGeneral:
		return "general"
	case SymmetrySymmetric:
		return "symmetric"
	case SymmetrySkewSymmetric:
		return "skew-symmetric"
	case SymmetryHermitian:
		return "hermitian"
	default:
		return "unknown"
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionGzip:
		return "gzip"
	case CompressionZstd:
		return "zstd"
	case CompressionS2:
		return "s2"
	case CompressionLZ4:
		return "lz4"
	default:
		return "unknown"
	}
}

// ParseObject parses a banner object token. Tokens are case-insensitive.
func ParseObject(tok string) (Object, error) {
	switch strings.ToLower(tok) {
	case "matrix":
		return ObjectMatrix, nil
	case "vector":
		return ObjectVector, nil
	default:
		return 0, fmt.Errorf("%w: unknown object %q", errs.ErrInvalidHeader, tok)
	}
}

// ParseLayout parses a banner format token. Tokens are case-insensitive.
func ParseLayout(tok string) (Layout, error) {
	switch strings.ToLower(tok) {
	case "coordinate":
		return LayoutCoordinate, nil
	case "array":
		return LayoutArray, nil
	default:
		return 0, fmt.Errorf("%w: unknown format %q", errs.ErrInvalidHeader, tok)
	}
}

// ParseField parses a banner field token. Tokens are case-insensitive.
func ParseField(tok string) (Field, error) {
	switch strings.ToLower(tok) {
	case "integer":
		return FieldInteger, nil
	case "real":
		return FieldReal, nil
	case "double":
		return FieldDouble, nil
	case "complex":
		return FieldComplex, nil
	case "pattern":
		return FieldPattern, nil
	default:
		return 0, fmt.Errorf("%w: unknown field %q", errs.ErrInvalidHeader, tok)
	}
}

// ParseSymmetry parses a banner symmetry token. Tokens are case-insensitive.
func ParseSymmetry(tok string) (Symmetry, error) {
	switch strings.ToLower(tok) {
	case "general":
		return SymmetryGeneral, nil
	case "symmetric":
		return SymmetrySymmetric, nil
	case "skew-symmetric":
		return SymmetrySkewSymmetric, nil
	case "hermitian":
		return SymmetryHermitian, nil
	default:
		return 0, fmt.Errorf("%w: unknown symmetry %q", errs.ErrInvalidHeader, tok)
	}
}
