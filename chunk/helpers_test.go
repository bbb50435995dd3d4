package chunk

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/seqchunk/encoding"
	"github.com/arloliu/seqchunk/format"
	"github.com/arloliu/seqchunk/section"
)

const labelDim = 10

// scenarioLengths holds the sequence lengths of each chunk of the test file.
var scenarioLengths = [][]int{
	{4, 6},
	{5},
	{1, 2, 3},
}

func scenarioStreams() []section.StreamDescriptor {
	return []section.StreamDescriptor{
		section.NewStreamDescriptor("features", format.StorageDense, format.ElementFloat32, 1),
		section.NewStreamDescriptor("labels", format.StorageSparse, format.ElementFloat32, labelDim),
	}
}

// featureSequence returns a dense sequence whose values encode its global id.
func featureSequence(globalID int64, length int) *encoding.DenseSequence[float32] {
	values := make([]float32, length)
	for i := range values {
		values[i] = float32(globalID*100) + float32(i)
	}

	return encoding.NewDenseSequence(1, values)
}

// labelSequence returns a sparse sequence with one non-zero value per sample.
func labelSequence(globalID int64, length int) *encoding.SparseSequence[float32] {
	nnz := make([]int32, length)
	indices := make([]int32, length)
	values := make([]float32, length)
	for i := range nnz {
		nnz[i] = 1
		indices[i] = int32((int(globalID) + i) % labelDim) //nolint: gosec
		values[i] = float32(globalID) + 0.5
	}

	return encoding.NewSparseSequence(labelDim, nnz, indices, values)
}

// buildFile writes a file with the given streams and per-chunk sequence lengths.
func buildFile(t testing.TB, streams []section.StreamDescriptor, lengths [][]int) []byte {
	t.Helper()

	w, err := NewWriter(streams, WithChunkCapacityHint(len(lengths)))
	require.NoError(t, err)

	var global int64
	for _, chunk := range lengths {
		features := make([]encoding.SequenceData, len(chunk))
		labels := make([]encoding.SequenceData, len(chunk))
		for j, n := range chunk {
			features[j] = featureSequence(global, n)
			labels[j] = labelSequence(global, n)
			global++
		}
		require.NoError(t, w.AddChunk(features, labels))
	}

	var buf bytes.Buffer
	n, err := w.WriteTo(&buf)
	require.NoError(t, err)
	require.Equal(t, int64(buf.Len()), n)

	return buf.Bytes()
}

func scenarioFile(t testing.TB) []byte {
	t.Helper()

	return buildFile(t, scenarioStreams(), scenarioLengths)
}

func openBytes(t testing.TB, data []byte, opts ...ReaderOption) *Reader {
	t.Helper()

	r, err := NewReader(bytes.NewReader(data), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })

	return r
}

// requireScenarioChunk checks a decoded chunk against the generated content.
func requireScenarioChunk(t *testing.T, c *Chunk, chunkID int, firstID int64) {
	t.Helper()

	lengths := scenarioLengths[chunkID]
	require.Equal(t, chunkID, c.ID())
	require.Equal(t, 2, c.NumStreams())
	require.Equal(t, len(lengths), c.NumSequences())
	require.Equal(t, firstID, c.FirstSequenceID())

	features, err := c.Stream(0)
	require.NoError(t, err)
	labels, err := c.Stream(1)
	require.NoError(t, err)

	for j, n := range lengths {
		id := firstID + int64(j)

		f := features[j].(*encoding.DenseSequence[float32])
		require.Equal(t, id, f.SequenceID())
		require.Equal(t, n, f.NumSamples())
		require.Equal(t, featureSequence(id, n).Values, f.Values)

		l := labels[j].(*encoding.SparseSequence[float32])
		want := labelSequence(id, n)
		require.Equal(t, id, l.SequenceID())
		require.Equal(t, n, l.NumSamples())
		require.Equal(t, want.NNZCounts, l.NNZCounts)
		require.Equal(t, want.Indices, l.Indices)
		require.Equal(t, want.Values, l.Values)
	}
}
