package encoding

// ParseComplex parses a complex value from its two whitespace-separated float
// tokens, real part then imaginary part. The caller tokenizes; both tokens
// follow ParseFloat semantics.
func ParseComplex(re, im []byte) (complex128, error) {
	r, err := ParseFloat(re)
	if err != nil {
		return 0, err
	}
	i, err := ParseFloat(im)
	if err != nil {
		return 0, err
	}

	return complex(r, i), nil
}

// AppendComplex appends the two-token text form of v to dst.
func AppendComplex(dst []byte, v complex128, prec int) []byte {
	dst = AppendFloat(dst, real(v), prec)
	dst = append(dst, ' ')

	return AppendFloat(dst, imag(v), prec)
}

// AppendValue appends the text form of any Value to dst, dispatching on the
// concrete type. Integer types ignore prec.
func AppendValue[T Value](dst []byte, v T, prec int) []byte {
	switch x := any(v).(type) {
	case int:
		return AppendInt(dst, int64(x))
	case int32:
		return AppendInt(dst, int64(x))
	case int64:
		return AppendInt(dst, x)
	case float32:
		return AppendFloat32(dst, x, prec)
	case float64:
		return AppendFloat(dst, x, prec)
	case complex64:
		dst = AppendFloat32(dst, real(x), prec)
		dst = append(dst, ' ')

		return AppendFloat32(dst, imag(x), prec)
	default:
		return AppendComplex(dst, x.(complex128), prec)
	}
}
