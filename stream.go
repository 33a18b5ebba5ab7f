package fastmm

import (
	"bufio"
	"io"

	"github.com/rileyjmurray/fast-matrix-market/compress"
	"github.com/rileyjmurray/fast-matrix-market/format"
)

// NewDecompressingReader sniffs the stream's magic bytes and returns a reader
// of the plain text inside. Matrix Market files in the wild are routinely
// gzip- or zstd-compressed; uncompressed input passes through untouched.
//
//	rc, err := fastmm.NewDecompressingReader(f)
//	defer rc.Close()
//	hdr, t, err := fastmm.ReadTriplet[int32, float64](rc)
func NewDecompressingReader(r io.Reader) (io.ReadCloser, error) {
	br := bufio.NewReaderSize(r, readerBufferSize)

	return compress.NewReader(br, compress.Detect(br))
}

// NewCompressingWriter wraps w so written text is compressed with the given
// codec. Close flushes the codec framing without closing w.
func NewCompressingWriter(w io.Writer, c format.CompressionType) (io.WriteCloser, error) {
	return compress.NewWriter(w, c)
}
