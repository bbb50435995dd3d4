package seqchunk

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/seqchunk/encoding"
	"github.com/arloliu/seqchunk/format"
	"github.com/arloliu/seqchunk/section"
)

func TestStreamHelpers(t *testing.T) {
	dense := DenseStream("x", format.ElementFloat64, 4, format.CompressionLZ4)
	require.Equal(t, format.StorageDense, dense.Storage)
	require.Equal(t, uint8(8), dense.ElementWidth)
	require.Equal(t, format.CompressionLZ4, dense.Compression)
	require.NoError(t, dense.Validate())

	sparse := SparseStream("y", format.ElementFloat32, 100, format.CompressionNone)
	require.Equal(t, format.StorageSparse, sparse.Storage)
	require.Equal(t, int32(100), sparse.SampleDim)
	require.NoError(t, sparse.Validate())
}

func TestWriteAndRead(t *testing.T) {
	streams := []section.StreamDescriptor{
		DenseStream("features", format.ElementFloat32, 2, format.CompressionZstd),
		SparseStream("labels", format.ElementFloat32, 5, format.CompressionNone),
	}
	w, err := NewWriter(streams)
	require.NoError(t, err)

	features := []encoding.SequenceData{
		encoding.NewDenseSequence(2, []float32{1, 2, 3, 4}),
		encoding.NewDenseSequence(2, []float32{5, 6}),
	}
	labels := []encoding.SequenceData{
		encoding.NewSparseSequence(5, []int32{1, 0}, []int32{4}, []float32{1}),
		encoding.NewSparseSequence(5, []int32{1}, []int32{2}, []float32{1}),
	}
	require.NoError(t, w.AddChunk(features, labels))

	path := filepath.Join(t.TempDir(), "train.chunks")
	require.NoError(t, w.WriteFile(path))

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	c, err := r.GetChunk(0)
	require.NoError(t, err)
	require.Equal(t, 2, c.NumSequences())

	seq, err := c.Sequence(1)
	require.NoError(t, err)
	require.Equal(t, []float32{5, 6}, seq[0].(*encoding.DenseSequence[float32]).Values)
	require.Equal(t, int64(1), seq[1].SequenceID())

	var buf bytes.Buffer
	_, err = w.WriteTo(&buf)
	require.NoError(t, err)

	mem, err := NewReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer mem.Close()
	require.Equal(t, r.Fingerprint(), mem.Fingerprint())
}
