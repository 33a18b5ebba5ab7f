package body

import (
	"bufio"
	"bytes"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rileyjmurray/fast-matrix-market/encoding"
	"github.com/rileyjmurray/fast-matrix-market/errs"
	"github.com/rileyjmurray/fast-matrix-market/format"
	"github.com/rileyjmurray/fast-matrix-market/header"
)

func readAll[T encoding.Value](t *testing.T, text string, handler Handler[T], opts ...ReadOption) error {
	t.Helper()
	opt, err := NewReadOptions(opts...)
	require.NoError(t, err)

	br := bufio.NewReader(strings.NewReader(text))
	h, err := header.Read(br)
	require.NoError(t, err)

	return ReadBody(br, h, handler, opt)
}

func sortRecords[T encoding.Value](recs []record[T], less func(a, b record[T]) bool) {
	sort.Slice(recs, func(i, j int) bool { return less(recs[i], recs[j]) })
}

func byPosition[T encoding.Value](a, b record[T]) bool {
	if a.row != b.row {
		return a.row < b.row
	}

	return a.col < b.col
}

func TestReadBody_Sequential(t *testing.T) {
	text := "%%MatrixMarket matrix coordinate real general\n3 3 3\n1 1 1.0\n2 2 1.0\n3 3 1.0\n"
	c := &collector[float64]{}
	require.NoError(t, readAll[float64](t, text, c, WithParallel(false)))
	require.Equal(t, []record[float64]{{0, 0, 1}, {1, 1, 1}, {2, 2, 1}}, c.recs)
}

func TestReadBody_GeneralizeSymmetric(t *testing.T) {
	text := "%%MatrixMarket matrix coordinate real symmetric\n2 2 2\n1 1 3.0\n2 1 4.0\n"

	c := &collector[float64]{}
	require.NoError(t, readAll[float64](t, text, c))
	require.Equal(t, []record[float64]{{0, 0, 3}, {1, 0, 4}}, c.recs)

	c = &collector[float64]{}
	require.NoError(t, readAll[float64](t, text, c, WithGeneralizeSymmetry(true)))
	require.Equal(t, []record[float64]{{0, 0, 3}, {1, 0, 4}, {0, 1, 4}}, c.recs)
}

func TestReadBody_FileTooShort(t *testing.T) {
	text := "%%MatrixMarket matrix coordinate real general\n3 3 3\n1 1 1.0\n"
	err := readAll[float64](t, text, &collector[float64]{})
	require.ErrorIs(t, err, errs.ErrFileTooShort)
}

func TestReadBody_FileTooLong(t *testing.T) {
	text := "%%MatrixMarket matrix coordinate real general\n2 2 1\n1 1 1.0\n2 2 2.0\n"
	err := readAll[float64](t, text, &collector[float64]{})
	require.ErrorIs(t, err, errs.ErrFileTooLong)

	c := &collector[float64]{}
	require.NoError(t, readAll[float64](t, text, c, WithLenientBodyLength(true), WithParallel(false)))
	require.Len(t, c.recs, 2)
}

func TestReadBody_ErrorCitesFileLine(t *testing.T) {
	// Header occupies 3 lines (banner, comment, dims); the bad record sits on
	// file line 6.
	text := "%%MatrixMarket matrix coordinate real general\n% note\n3 3 3\n1 1 1.0\n2 2 1.0\n3 oops 1.0\n"
	for _, threads := range []int{1, 4} {
		err := readAll[float64](t, text, &collector[float64]{}, WithNumThreads(threads))
		require.ErrorIs(t, err, errs.ErrInvalidValue)
		require.ErrorContains(t, err, "line 6")
	}
}

func TestReadBody_ErrorLineAcrossChunks(t *testing.T) {
	// Tiny chunks place the bad record in a late chunk; the reported line
	// number must still be file-global.
	var b strings.Builder
	b.WriteString("%%MatrixMarket matrix coordinate integer general\n100 100 100\n")
	for i := 1; i <= 99; i++ {
		fmt.Fprintf(&b, "%d %d %d\n", i, i, i)
	}
	b.WriteString("100 100 bad\n")

	err := readAll[int64](t, b.String(), &collector[int64]{},
		WithChunkSizeBytes(64), WithNumThreads(4))
	require.ErrorIs(t, err, errs.ErrInvalidValue)
	require.ErrorContains(t, err, "line 102")
}

func TestReadBody_ChunkAndThreadIndependence(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	const nnz = 2000

	var b strings.Builder
	fmt.Fprintf(&b, "%%%%MatrixMarket matrix coordinate real general\n500 500 %d\n", nnz)
	for range nnz {
		fmt.Fprintf(&b, "%d %d %g\n", rng.Intn(500)+1, rng.Intn(500)+1, rng.NormFloat64())
	}
	text := b.String()

	ref := NewDigest[float64]()
	require.NoError(t, readAll[float64](t, text, ref, WithParallel(false)))
	require.Equal(t, int64(nnz), ref.Count())

	for _, chunkSize := range []int{64, 1 << 10, 1 << 14, 1 << 24} {
		for _, threads := range []int{1, 2, 3, 8, 16} {
			d := NewDigest[float64]()
			require.NoError(t, readAll[float64](t, text, d,
				WithChunkSizeBytes(chunkSize), WithNumThreads(threads)))
			require.Equal(t, ref.Sum64(), d.Sum64(), "chunk=%d threads=%d", chunkSize, threads)
			require.Equal(t, int64(nnz), d.Count())
		}
	}
}

func TestReadBody_ParallelArray(t *testing.T) {
	const rows, cols = 37, 11
	var b strings.Builder
	fmt.Fprintf(&b, "%%%%MatrixMarket matrix array integer general\n%d %d\n", rows, cols)
	for i := range rows * cols {
		fmt.Fprintf(&b, "%d\n", i)
	}

	c := &collector[int64]{}
	require.NoError(t, readAll[int64](t, b.String(), c,
		WithChunkSizeBytes(16), WithNumThreads(8)))
	require.Len(t, c.recs, rows*cols)

	// Each value i was written at ordinal i, so its position is recoverable.
	sortRecords(c.recs, func(a, b record[int64]) bool { return a.v < b.v })
	for i, r := range c.recs {
		require.Equal(t, int64(i%rows), r.row)
		require.Equal(t, int64(i/rows), r.col)
	}
}

func TestReadBody_BlankLinesDoNotShiftOrdinals(t *testing.T) {
	// Blank lines between records must not disturb array positions even when
	// they land in their own chunks.
	text := "%%MatrixMarket matrix array real general\n2 2\n1\n\n2\n\n\n3\n4\n"
	c := &collector[float64]{}
	require.NoError(t, readAll[float64](t, text, c, WithChunkSizeBytes(2), WithNumThreads(4)))

	sortRecords(c.recs, byPosition)
	require.Equal(t, []record[float64]{{0, 0, 1}, {0, 1, 3}, {1, 0, 2}, {1, 1, 4}}, c.recs)
}

func TestWriteBody_ParallelMatchesSequential(t *testing.T) {
	const n = 5000
	rows := make([]int64, n)
	cols := make([]int64, n)
	vals := make([]float64, n)
	rng := rand.New(rand.NewSource(7))
	for i := range rows {
		rows[i] = int64(i / 100)
		cols[i] = int64(i % 100)
		vals[i] = rng.NormFloat64()
	}

	var seq bytes.Buffer
	f, err := NewTripletFormatter(rows, cols, vals)
	require.NoError(t, err)
	seqOpt := writeOpts(t, WithWriteParallel(false), WithChunkSizeValues(64))
	require.NoError(t, WriteBody(&seq, f, seqOpt))

	for _, threads := range []int{2, 4, 16} {
		var par bytes.Buffer
		f, err := NewTripletFormatter(rows, cols, vals)
		require.NoError(t, err)
		parOpt := writeOpts(t, WithWriteNumThreads(threads), WithChunkSizeValues(64))
		require.NoError(t, WriteBody(&par, f, parOpt))
		require.Equal(t, seq.String(), par.String(), "threads=%d", threads)
	}
}

func TestWriteBody_FirstErrorWins(t *testing.T) {
	f := &failingFormatter{failAt: 3, total: 50}
	opt := writeOpts(t, WithWriteNumThreads(8), WithChunkSizeValues(1))

	err := WriteBody(&bytes.Buffer{}, f, opt)
	require.ErrorContains(t, err, "unit 3")
}

// failingFormatter emits numbered one-line chunks and fails at a fixed unit.
type failingFormatter struct {
	next   int
	failAt int
	total  int
}

func (f *failingFormatter) HasNext() bool { return f.next < f.total }

func (f *failingFormatter) NextChunk(*WriteOptions) ChunkProducer {
	unit := f.next
	f.next++

	return func() ([]byte, error) {
		if unit >= f.failAt {
			return nil, fmt.Errorf("unit %d failed", unit)
		}

		return fmt.Appendf(nil, "%d\n", unit), nil
	}
}

func TestNewReadOptions_Validation(t *testing.T) {
	o, err := NewReadOptions()
	require.NoError(t, err)
	require.Equal(t, DefaultChunkSizeBytes, o.ChunkSizeBytes)
	require.True(t, o.Parallel)

	_, err = NewReadOptions(WithChunkSizeBytes(0))
	require.ErrorIs(t, err, errs.ErrInvalidArgument)
	_, err = NewReadOptions(WithNumThreads(-1))
	require.ErrorIs(t, err, errs.ErrInvalidArgument)
}

func TestNewWriteOptions_Validation(t *testing.T) {
	o, err := NewWriteOptions()
	require.NoError(t, err)
	require.Equal(t, DefaultChunkSizeValues, o.ChunkSizeValues)
	require.Equal(t, -1, o.Precision)

	_, err = NewWriteOptions(WithChunkSizeValues(-3))
	require.ErrorIs(t, err, errs.ErrInvalidArgument)
}

func TestReadBody_NonParallelHandlerForcesSequential(t *testing.T) {
	// A handler without CapParallelOk must observe records in file order even
	// with threads configured.
	text := "%%MatrixMarket matrix coordinate integer general\n10 10 10\n" +
		"1 1 1\n2 2 2\n3 3 3\n4 4 4\n5 5 5\n6 6 6\n7 7 7\n8 8 8\n9 9 9\n10 10 10\n"
	c := &orderedCollector{}
	require.NoError(t, readAll[int64](t, text, c, WithNumThreads(8), WithChunkSizeBytes(8)))
	for i, r := range c.recs {
		require.Equal(t, int64(i+1), r.v)
	}
}

type orderedCollector struct {
	recs []record[int64]
}

func (c *orderedCollector) Handle(row, col int64, v int64) {
	c.recs = append(c.recs, record[int64]{row, col, v})
}

func (c *orderedCollector) ChunkHandler(int64) Handler[int64] { return c }

func (c *orderedCollector) Caps() Caps { return CapConsumesValues }

func BenchmarkReadChunkMatrixCoordinate(b *testing.B) {
	h := coordHeader(1000, 1000, 100000, format.FieldReal, format.SymmetryGeneral)
	var sb strings.Builder
	rng := rand.New(rand.NewSource(1))
	for range 100000 {
		fmt.Fprintf(&sb, "%d %d %g\n", rng.Intn(1000)+1, rng.Intn(1000)+1, rng.NormFloat64())
	}
	chunk := []byte(sb.String())
	d := NewDigest[float64]()

	b.SetBytes(int64(len(chunk)))
	b.ResetTimer()
	for range b.N {
		_, err := ReadChunkMatrixCoordinate(chunk, h, 3, d, nil)
		if err != nil {
			b.Fatal(err)
		}
	}
}
