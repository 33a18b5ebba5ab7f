// Package compress wraps streams in the compression codecs Matrix Market files
// are commonly shipped with (SuiteSparse distributes .mtx.gz, archives
// increasingly use .mtx.zst). The codecs are streaming: the read and write
// engines stay chunked and bounded regardless of the compressed payload size.
//
// Zstd has two implementations selected at build time: a cgo binding for top
// throughput and a pure-Go fallback, mirroring how the rest of the module never
// requires cgo.
package compress

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/rileyjmurray/fast-matrix-market/errs"
	"github.com/rileyjmurray/fast-matrix-market/format"
)

// Magic prefixes of the supported stream formats. S2 readers accept both the
// S2 and the Snappy framed stream identifiers, so both map to CompressionS2.
var (
	magicGzip   = []byte{0x1f, 0x8b}
	magicZstd   = []byte{0x28, 0xb5, 0x2f, 0xfd}
	magicLZ4    = []byte{0x04, 0x22, 0x4d, 0x18}
	magicS2     = []byte{0xff, 0x06, 0x00, 0x00, 'S', '2', 's', 'T', 'w', 'O'}
	magicSnappy = []byte{0xff, 0x06, 0x00, 0x00, 's', 'N', 'a', 'P', 'p', 'Y'}
)

// Detect sniffs the stream's leading magic bytes without consuming them and
// reports the compression in use. Plain text reports CompressionNone.
func Detect(br *bufio.Reader) format.CompressionType {
	head, _ := br.Peek(len(magicS2))

	switch {
	case bytes.HasPrefix(head, magicGzip):
		return format.CompressionGzip
	case bytes.HasPrefix(head, magicZstd):
		return format.CompressionZstd
	case bytes.HasPrefix(head, magicLZ4):
		return format.CompressionLZ4
	case bytes.HasPrefix(head, magicS2), bytes.HasPrefix(head, magicSnappy):
		return format.CompressionS2
	default:
		return format.CompressionNone
	}
}

// NewReader wraps r in a decompressing reader for the given compression type.
// CompressionNone returns r untouched behind a no-op closer.
func NewReader(r io.Reader, c format.CompressionType) (io.ReadCloser, error) {
	switch c {
	case format.CompressionNone:
		return io.NopCloser(r), nil
	case format.CompressionGzip:
		return newGzipReader(r)
	case format.CompressionZstd:
		return newZstdReader(r)
	case format.CompressionS2:
		return newS2Reader(r), nil
	case format.CompressionLZ4:
		return newLZ4Reader(r), nil
	default:
		return nil, fmt.Errorf("%w: %v", errs.ErrUnsupportedCompression, c)
	}
}

// NewWriter wraps w in a compressing writer. Close flushes the codec framing
// but leaves the underlying writer open.
func NewWriter(w io.Writer, c format.CompressionType) (io.WriteCloser, error) {
	switch c {
	case format.CompressionNone:
		return nopWriteCloser{w}, nil
	case format.CompressionGzip:
		return newGzipWriter(w), nil
	case format.CompressionZstd:
		return newZstdWriter(w)
	case format.CompressionS2:
		return newS2Writer(w), nil
	case format.CompressionLZ4:
		return newLZ4Writer(w), nil
	default:
		return nil, fmt.Errorf("%w: %v", errs.ErrUnsupportedCompression, c)
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
