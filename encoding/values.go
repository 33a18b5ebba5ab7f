// Package encoding implements locale-independent conversion between Matrix
// Market text tokens and Go numeric values.
//
// The parse routines operate on raw byte slices straight out of a chunk buffer,
// never on strings, and have fixed semantics regardless of the process locale:
// '.' is the decimal point, the exponent marker is 'e' or 'E', signs are
// optional, and NaN and ±Infinity are accepted and emitted for float fields.
// Emission produces the shortest form that round-trips.
package encoding

import (
	"fmt"
	"math"

	"github.com/rileyjmurray/fast-matrix-market/errs"
)

// Value enumerates the element types a handler or formatter may carry.
// Promotion follows value classes: integer ⊂ real ⊂ complex. Reading a file
// field into a narrower class is rejected with errs.ErrInvalidValue.
type Value interface {
	int | int32 | int64 | float32 | float64 | complex64 | complex128
}

// Kind is the value class of a Value type or header field.
type Kind uint8

const (
	KindInt Kind = iota + 1
	KindFloat
	KindComplex
)

// KindOf reports the value class of T.
func KindOf[T Value]() Kind {
	switch any(*new(T)).(type) {
	case int, int32, int64:
		return KindInt
	case float32, float64:
		return KindFloat
	default:
		return KindComplex
	}
}

// One returns the canonical unit value of T, used for pattern fields where the
// presence of an index implies a value of 1.
func One[T Value]() T {
	v, _ := FromInt[T](1)
	return v
}

// FromInt converts a parsed integer to T, promoting to float or complex as
// needed. Conversion to a narrower integer type is range-checked.
func FromInt[T Value](v int64) (T, error) {
	var out T
	switch p := any(&out).(type) {
	case *int:
		if v < math.MinInt || v > math.MaxInt {
			return out, fmt.Errorf("%w: integer %d overflows int", errs.ErrOutOfRange, v)
		}
		*p = int(v)
	case *int32:
		if v < math.MinInt32 || v > math.MaxInt32 {
			return out, fmt.Errorf("%w: integer %d overflows int32", errs.ErrOutOfRange, v)
		}
		*p = int32(v)
	case *int64:
		*p = v
	case *float32:
		*p = float32(v)
	case *float64:
		*p = float64(v)
	case *complex64:
		*p = complex(float32(v), 0)
	case *complex128:
		*p = complex(float64(v), 0)
	}

	return out, nil
}

// FromFloat converts a parsed float to T. Integer targets are rejected: a real
// field cannot be narrowed into an integer handler.
func FromFloat[T Value](v float64) (T, error) {
	var out T
	switch p := any(&out).(type) {
	case *int, *int32, *int64:
		return out, fmt.Errorf("%w: cannot narrow real value into integer type", errs.ErrInvalidValue)
	case *float32:
		*p = float32(v)
	case *float64:
		*p = v
	case *complex64:
		*p = complex(float32(v), 0)
	case *complex128:
		*p = complex(v, 0)
	}

	return out, nil
}

// FromComplex converts a parsed complex value to T. Only complex targets can
// represent an imaginary component.
func FromComplex[T Value](v complex128) (T, error) {
	var out T
	switch p := any(&out).(type) {
	case *complex64:
		*p = complex64(v)
	case *complex128:
		*p = v
	default:
		return out, fmt.Errorf("%w: cannot narrow complex value into %T", errs.ErrInvalidValue, out)
	}

	return out, nil
}

// Neg returns -v. Used by the skew-symmetric generalizer.
func Neg[T Value](v T) T {
	switch p := any(&v).(type) {
	case *int:
		*p = -*p
	case *int32:
		*p = -*p
	case *int64:
		*p = -*p
	case *float32:
		*p = -*p
	case *float64:
		*p = -*p
	case *complex64:
		*p = -*p
	case *complex128:
		*p = -*p
	}

	return v
}

// Conj returns the complex conjugate of v. Non-complex values are returned
// unchanged. Used by the hermitian generalizer.
func Conj[T Value](v T) T {
	switch p := any(&v).(type) {
	case *complex64:
		*p = complex(real(*p), -imag(*p))
	case *complex128:
		*p = complex(real(*p), -imag(*p))
	}

	return v
}
