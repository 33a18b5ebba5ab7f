//go:build cgo

package compress

import (
	"io"

	"github.com/valyala/gozstd"
)

type gozstdReader struct {
	*gozstd.Reader
}

func (r gozstdReader) Close() error {
	r.Release()
	return nil
}

type gozstdWriter struct {
	*gozstd.Writer
}

func (w gozstdWriter) Close() error {
	err := w.Writer.Close()
	w.Release()

	return err
}

func newZstdReader(r io.Reader) (io.ReadCloser, error) {
	return gozstdReader{gozstd.NewReader(r)}, nil
}

func newZstdWriter(w io.Writer) (io.WriteCloser, error) {
	return gozstdWriter{gozstd.NewWriter(w)}, nil
}
