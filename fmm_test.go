package fastmm

import (
	"bytes"
	"math/rand"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rileyjmurray/fast-matrix-market/body"
	"github.com/rileyjmurray/fast-matrix-market/errs"
	"github.com/rileyjmurray/fast-matrix-market/format"
	"github.com/rileyjmurray/fast-matrix-market/header"
)

func TestReadTriplet_Identity(t *testing.T) {
	text := "%%MatrixMarket matrix coordinate real general\n3 3 3\n1 1 1.0\n2 2 1.0\n3 3 1.0\n"

	hdr, tr, err := ReadTriplet[int32, float64](strings.NewReader(text))
	require.NoError(t, err)
	require.Equal(t, int64(3), hdr.Rows)
	require.Equal(t, []int32{0, 1, 2}, tr.RowIndex)
	require.Equal(t, []int32{0, 1, 2}, tr.ColIndex)
	require.Equal(t, []float64{1, 1, 1}, tr.Values)
}

func TestReadTriplet_Symmetric(t *testing.T) {
	text := "%%MatrixMarket matrix coordinate real symmetric\n2 2 2\n1 1 3.0\n2 1 4.0\n"

	_, tr, err := ReadTriplet[int32, float64](strings.NewReader(text))
	require.NoError(t, err)
	require.Equal(t, []int32{0, 1}, tr.RowIndex)
	require.Equal(t, []int32{0, 0}, tr.ColIndex)
	require.Equal(t, []float64{3, 4}, tr.Values)

	_, tr, err = ReadTriplet[int32, float64](strings.NewReader(text),
		body.WithGeneralizeSymmetry(true))
	require.NoError(t, err)
	require.Equal(t, []int32{0, 1, 0}, tr.RowIndex)
	require.Equal(t, []int32{0, 0, 1}, tr.ColIndex)
	require.Equal(t, []float64{3, 4, 4}, tr.Values)
}

func TestReadTriplet_Pattern(t *testing.T) {
	text := "%%MatrixMarket matrix coordinate pattern general\n2 2 2\n1 2\n2 1\n"

	hdr, tr, err := ReadTriplet[int64, float64](strings.NewReader(text))
	require.NoError(t, err)
	require.Equal(t, format.FieldPattern, hdr.Field)
	require.Equal(t, []int64{0, 1}, tr.RowIndex)
	require.Equal(t, []int64{1, 0}, tr.ColIndex)
	require.Equal(t, []float64{1, 1}, tr.Values)
}

func TestReadDense_Array(t *testing.T) {
	text := "%%MatrixMarket matrix array real general\n2 3\n1\n2\n3\n4\n5\n6\n"

	_, d, err := ReadDense[float64](strings.NewReader(text))
	require.NoError(t, err)
	require.Equal(t, 1.0, d.At(0, 0))
	require.Equal(t, 2.0, d.At(1, 0))
	require.Equal(t, 3.0, d.At(0, 1))
	require.Equal(t, 4.0, d.At(1, 1))
	require.Equal(t, 5.0, d.At(0, 2))
	require.Equal(t, 6.0, d.At(1, 2))
}

func TestReadDoublet_Vector(t *testing.T) {
	text := "%%MatrixMarket vector coordinate real general\n5 2\n2 1.5\n5 -2.0\n"

	hdr, d, err := ReadDoublet[int32, float64](strings.NewReader(text))
	require.NoError(t, err)
	require.Equal(t, int64(5), hdr.Rows)
	require.Equal(t, []int32{1, 4}, d.Indices)
	require.Equal(t, []float64{1.5, -2}, d.Values)
}

func TestReadTriplet_HermitianComplex(t *testing.T) {
	text := "%%MatrixMarket matrix coordinate complex hermitian\n2 2 2\n1 1 3 0\n2 1 1 2\n"

	_, tr, err := ReadTriplet[int32, complex128](strings.NewReader(text),
		body.WithGeneralizeSymmetry(true))
	require.NoError(t, err)
	require.Equal(t, []int32{0, 1, 0}, tr.RowIndex)
	require.Equal(t, []int32{0, 0, 1}, tr.ColIndex)
	require.Equal(t, []complex128{complex(3, 0), complex(1, 2), complex(1, -2)}, tr.Values)
}

func TestReadTriplet_SkewSymmetric(t *testing.T) {
	text := "%%MatrixMarket matrix coordinate real skew-symmetric\n3 3 2\n2 1 5.0\n3 1 -1.0\n"

	_, tr, err := ReadTriplet[int32, float64](strings.NewReader(text),
		body.WithGeneralizeSymmetry(true))
	require.NoError(t, err)
	require.Equal(t, []int32{1, 0, 2, 0}, tr.RowIndex)
	require.Equal(t, []int32{0, 1, 0, 2}, tr.ColIndex)
	require.Equal(t, []float64{5, -5, -1, 1}, tr.Values)
}

func TestWriteTriplet_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	const nnz = 1000
	tr := &Triplet[int64, float64]{Rows: 200, Cols: 300}
	for range nnz {
		tr.RowIndex = append(tr.RowIndex, rng.Int63n(200))
		tr.ColIndex = append(tr.ColIndex, rng.Int63n(300))
		tr.Values = append(tr.Values, rng.NormFloat64())
	}

	var buf bytes.Buffer
	require.NoError(t, WriteTriplet(&buf, tr, body.WithChunkSizeValues(37)))

	hdr, back, err := ReadTriplet[int64, float64](&buf, body.WithChunkSizeBytes(512))
	require.NoError(t, err)
	require.Equal(t, int64(nnz), hdr.NNZ)
	require.Equal(t, tr.RowIndex, back.RowIndex)
	require.Equal(t, tr.ColIndex, back.ColIndex)
	require.Equal(t, tr.Values, back.Values)
}

func TestWriteTriplet_Pattern(t *testing.T) {
	tr := &Triplet[int32, float64]{
		Rows: 2, Cols: 2,
		RowIndex: []int32{0, 1},
		ColIndex: []int32{1, 0},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteTriplet(&buf, tr))
	require.Equal(t, "%%MatrixMarket matrix coordinate pattern general\n2 2 2\n1 2\n2 1\n", buf.String())
}

func TestWriteTripletAs_Symmetric(t *testing.T) {
	tr := &Triplet[int32, float64]{
		Rows: 2, Cols: 2,
		RowIndex: []int32{0, 1},
		ColIndex: []int32{0, 0},
		Values:   []float64{3, 4},
	}
	h := &header.Header{
		Rows: 2, Cols: 2, NNZ: 2,
		Object: format.ObjectMatrix, Layout: format.LayoutCoordinate,
		Field: format.FieldReal, Symmetry: format.SymmetrySymmetric,
		Comment: "lower triangle only",
	}

	var buf bytes.Buffer
	require.NoError(t, WriteTripletAs(&buf, h, tr))

	_, back, err := ReadTriplet[int32, float64](&buf, body.WithGeneralizeSymmetry(true))
	require.NoError(t, err)
	require.Equal(t, []float64{3, 4, 4}, back.Values)
}

func TestWriteDense_RoundTrip(t *testing.T) {
	d := NewDense[float64](3, 2)
	v := 0.5
	for c := int64(0); c < 2; c++ {
		for r := int64(0); r < 3; r++ {
			d.Set(r, c, v)
			v *= -1.75
		}
	}

	var buf bytes.Buffer
	require.NoError(t, WriteDense(&buf, d))

	_, back, err := ReadDense[float64](&buf)
	require.NoError(t, err)
	require.Equal(t, d.Data, back.Data)
}

func TestWriteDenseAs_SymmetricRoundTrip(t *testing.T) {
	d := NewDense[float64](2, 2)
	d.Set(0, 0, 3)
	d.Set(1, 0, 4)
	d.Set(0, 1, 4)
	d.Set(1, 1, 5)

	h := &header.Header{
		Rows: 2, Cols: 2, NNZ: 4,
		Object: format.ObjectMatrix, Layout: format.LayoutArray,
		Field: format.FieldReal, Symmetry: format.SymmetrySymmetric,
	}

	var buf bytes.Buffer
	require.NoError(t, WriteDenseAs(&buf, h, d))
	require.Equal(t, "%%MatrixMarket matrix array real symmetric\n2 2\n3\n4\n5\n", buf.String())

	_, back, err := ReadDense[float64](&buf, body.WithGeneralizeSymmetry(true))
	require.NoError(t, err)
	require.Equal(t, d.Data, back.Data)
}

func TestWriteDoublet_RoundTrip(t *testing.T) {
	d := &Doublet[int32, complex64]{
		Length:  9,
		Indices: []int32{2, 7},
		Values:  []complex64{complex(1, -1), complex(0, 2.5)},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteDoublet(&buf, d))

	_, back, err := ReadDoublet[int32, complex64](&buf)
	require.NoError(t, err)
	require.Equal(t, d.Indices, back.Indices)
	require.Equal(t, d.Values, back.Values)
}

func TestWriteCSC_And_CSR(t *testing.T) {
	// [[1 0] [2 3]] both ways.
	csc := &CSC[int64, float64]{
		Rows: 2, Cols: 2,
		ColPtr:   []int64{0, 2, 3},
		RowIndex: []int64{0, 1, 1},
		Values:   []float64{1, 2, 3},
	}
	csr := &CSR[int64, float64]{
		Rows: 2, Cols: 2,
		RowPtr:   []int64{0, 1, 3},
		ColIndex: []int64{0, 0, 1},
		Values:   []float64{1, 2, 3},
	}

	var a, b bytes.Buffer
	require.NoError(t, WriteCSC(&a, csc))
	require.NoError(t, WriteCSR(&b, csr))
	require.Equal(t, a.String(), b.String())

	_, tr, err := ReadTriplet[int64, float64](&a)
	require.NoError(t, err)
	require.Equal(t, []int64{0, 1, 1}, tr.RowIndex)
	require.Equal(t, []int64{0, 0, 1}, tr.ColIndex)
	require.Equal(t, []float64{1, 2, 3}, tr.Values)
}

func TestWriteCSC_BadPointerLength(t *testing.T) {
	csc := &CSC[int64, float64]{
		Rows: 2, Cols: 2,
		ColPtr:   []int64{0, 3},
		RowIndex: []int64{0, 1, 1},
		Values:   []float64{1, 2, 3},
	}
	require.ErrorIs(t, WriteCSC(&bytes.Buffer{}, csc), errs.ErrInvalidArgument)
}

func TestPattern_FullRoundTrip(t *testing.T) {
	text := "%%MatrixMarket matrix coordinate pattern general\n2 2 2\n1 2\n2 1\n"

	hdr, tr, err := ReadTriplet[int32, float64](strings.NewReader(text))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteTripletAs(&buf, hdr, tr))
	require.Equal(t, text, buf.String())
}

func TestReadTriplet_IntegerField(t *testing.T) {
	text := "%%MatrixMarket matrix coordinate integer general\n2 2 2\n1 2 -5\n2 1 7\n"

	_, tr, err := ReadTriplet[int32, int64](strings.NewReader(text))
	require.NoError(t, err)
	require.Equal(t, []int64{-5, 7}, tr.Values)
}

func TestReadTriplet_NarrowingRejected(t *testing.T) {
	text := "%%MatrixMarket matrix coordinate real general\n2 2 1\n1 1 1.5\n"
	_, _, err := ReadTriplet[int32, int64](strings.NewReader(text))
	require.ErrorIs(t, err, errs.ErrInvalidValue)
}

func TestRead_WithDigestHandler(t *testing.T) {
	text := "%%MatrixMarket matrix coordinate real general\n3 3 3\n1 1 1.0\n2 2 1.0\n3 3 1.0\n"

	d := body.NewDigest[float64]()
	hdr, err := Read[float64](strings.NewReader(text), d)
	require.NoError(t, err)
	require.Equal(t, int64(3), hdr.NNZ)
	require.Equal(t, int64(3), d.Count())
}

func TestRoundTrip_GeneralizedMultiset(t *testing.T) {
	// A symmetric file read with generalization equals its expanded general
	// form read directly, as multisets.
	symText := "%%MatrixMarket matrix coordinate real symmetric\n3 3 4\n1 1 1.0\n2 1 2.0\n3 2 3.0\n3 3 4.0\n"
	genText := "%%MatrixMarket matrix coordinate real general\n3 3 6\n1 1 1.0\n2 1 2.0\n1 2 2.0\n3 2 3.0\n2 3 3.0\n3 3 4.0\n"

	_, sym, err := ReadTriplet[int32, float64](strings.NewReader(symText),
		body.WithGeneralizeSymmetry(true))
	require.NoError(t, err)
	_, gen, err := ReadTriplet[int32, float64](strings.NewReader(genText))
	require.NoError(t, err)

	require.ElementsMatch(t, flatten(sym), flatten(gen))
}

type flatRecord struct {
	row, col int32
	v        float64
}

func flatten(t *Triplet[int32, float64]) []flatRecord {
	recs := make([]flatRecord, len(t.RowIndex))
	for i := range recs {
		recs[i] = flatRecord{t.RowIndex[i], t.ColIndex[i], t.Values[i]}
	}
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].row != recs[j].row {
			return recs[i].row < recs[j].row
		}

		return recs[i].col < recs[j].col
	})

	return recs
}
