package fastmm

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rileyjmurray/fast-matrix-market/format"
)

func TestCompressedRoundTrip(t *testing.T) {
	tr := &Triplet[int32, float64]{
		Rows: 4, Cols: 4,
		RowIndex: []int32{0, 1, 2, 3},
		ColIndex: []int32{3, 2, 1, 0},
		Values:   []float64{0.5, -1.25, 3, 1e-9},
	}

	for _, codec := range []format.CompressionType{
		format.CompressionNone,
		format.CompressionGzip,
		format.CompressionZstd,
		format.CompressionS2,
		format.CompressionLZ4,
	} {
		t.Run(codec.String(), func(t *testing.T) {
			var buf bytes.Buffer
			wc, err := NewCompressingWriter(&buf, codec)
			require.NoError(t, err)
			require.NoError(t, WriteTriplet(wc, tr))
			require.NoError(t, wc.Close())

			rc, err := NewDecompressingReader(&buf)
			require.NoError(t, err)
			defer rc.Close()

			hdr, back, err := ReadTriplet[int32, float64](rc)
			require.NoError(t, err)
			require.Equal(t, int64(4), hdr.NNZ)
			require.Equal(t, tr.RowIndex, back.RowIndex)
			require.Equal(t, tr.Values, back.Values)
		})
	}
}
