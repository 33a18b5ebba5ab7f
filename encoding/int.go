package encoding

import (
	"fmt"
	"math"
	"strconv"

	"github.com/rileyjmurray/fast-matrix-market/errs"
)

// ParseInt parses a signed decimal integer token. Only an optional leading sign
// followed by decimal digits is accepted; no radix prefixes, separators, or
// whitespace.
func ParseInt(tok []byte) (int64, error) {
	if len(tok) == 0 {
		return 0, fmt.Errorf("%w: empty integer token", errs.ErrInvalidValue)
	}

	i := 0
	neg := false
	switch tok[0] {
	case '+':
		i++
	case '-':
		neg = true
		i++
	}
	if i == len(tok) {
		return 0, fmt.Errorf("%w: %q is not an integer", errs.ErrInvalidValue, tok)
	}

	var n uint64
	for ; i < len(tok); i++ {
		d := tok[i] - '0'
		if d > 9 {
			return 0, fmt.Errorf("%w: %q is not an integer", errs.ErrInvalidValue, tok)
		}
		if n > (math.MaxUint64-uint64(d))/10 {
			return 0, fmt.Errorf("%w: integer %q overflows", errs.ErrOutOfRange, tok)
		}
		n = n*10 + uint64(d)
	}

	if neg {
		if n > 1<<63 {
			return 0, fmt.Errorf("%w: integer %q overflows int64", errs.ErrOutOfRange, tok)
		}

		return -int64(n), nil
	}
	if n > math.MaxInt64 {
		return 0, fmt.Errorf("%w: integer %q overflows int64", errs.ErrOutOfRange, tok)
	}

	return int64(n), nil
}

// AppendInt appends the decimal form of v to dst.
func AppendInt(dst []byte, v int64) []byte {
	return strconv.AppendInt(dst, v, 10)
}
