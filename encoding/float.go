package encoding

import (
	"fmt"
	"math"
	"strconv"
	"unsafe"

	"github.com/rileyjmurray/fast-matrix-market/errs"
)

// unsafeString views a byte slice as a string without copying. The slice must
// not be mutated while the string is live; tokens here never escape the parse
// call.
func unsafeString(b []byte) string {
	return unsafe.String(unsafe.SliceData(b), len(b))
}

// ParseFloat parses a float token with Matrix Market semantics: optional sign,
// '.' decimal point, 'e'/'E' exponent, and the special values nan, inf and
// infinity in any case. strconv's Eisel-Lemire fast path does the heavy
// lifting; tokens with radix prefixes or digit separators are rejected first
// since Go's grammar is wider than the format's.
func ParseFloat(tok []byte) (float64, error) {
	if len(tok) == 0 {
		return 0, fmt.Errorf("%w: empty float token", errs.ErrInvalidValue)
	}
	for _, c := range tok {
		if c == 'x' || c == 'X' || c == '_' || c == 'p' || c == 'P' {
			return 0, fmt.Errorf("%w: %q is not a decimal float", errs.ErrInvalidValue, tok)
		}
	}

	v, err := strconv.ParseFloat(unsafeString(tok), 64)
	if err != nil {
		if numErr, ok := err.(*strconv.NumError); ok && numErr.Err == strconv.ErrRange {
			return 0, fmt.Errorf("%w: float %q overflows", errs.ErrOutOfRange, tok)
		}

		return 0, fmt.Errorf("%w: %q is not a float", errs.ErrInvalidValue, tok)
	}

	return v, nil
}

// AppendFloat appends v to dst. A negative precision selects the shortest form
// that round-trips; otherwise prec is the number of significant digits. NaN and
// infinities are emitted in the conventional lowercase spellings.
func AppendFloat(dst []byte, v float64, prec int) []byte {
	return appendFloatBits(dst, v, prec, 64)
}

// AppendFloat32 is AppendFloat with the shortest form computed at single
// precision, so float32 sources round-trip without excess digits.
func AppendFloat32(dst []byte, v float32, prec int) []byte {
	return appendFloatBits(dst, float64(v), prec, 32)
}

func appendFloatBits(dst []byte, v float64, prec, bits int) []byte {
	switch {
	case math.IsNaN(v):
		return append(dst, "nan"...)
	case math.IsInf(v, 1):
		return append(dst, "inf"...)
	case math.IsInf(v, -1):
		return append(dst, "-inf"...)
	}
	if prec < 0 {
		prec = -1
	}

	return strconv.AppendFloat(dst, v, 'g', prec, bits)
}
