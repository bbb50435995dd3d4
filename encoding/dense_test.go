package encoding

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/seqchunk/endian"
	"github.com/arloliu/seqchunk/errs"
	"github.com/arloliu/seqchunk/format"
	"github.com/arloliu/seqchunk/section"
)

func denseDesc(element format.ElementType, dim int) section.StreamDescriptor {
	return section.NewStreamDescriptor("features", format.StorageDense, element, dim)
}

// rawDenseRun builds a dense float32 run by hand.
func rawDenseRun(lengths []int32, values []float32) []byte {
	engine := endian.FileEngine()
	var buf []byte
	for _, n := range lengths {
		buf = appendCount(buf, int(n), engine)
	}

	return appendValues(buf, values, engine)
}

func TestDenseDecoder_Decode(t *testing.T) {
	dec, err := NewStreamDecoder(denseDesc(format.ElementFloat32, 2))
	require.NoError(t, err)

	data := rawDenseRun([]int32{1, 2}, []float32{1, 2, 3, 4, 5, 6})
	seqs, n, err := dec.Decode(data, 2, 3)
	require.NoError(t, err)
	require.Equal(t, len(data), n)
	require.Len(t, seqs, 2)

	first := seqs[0].(*DenseSequence[float32])
	require.Equal(t, int64(0), first.SequenceID())
	require.Equal(t, 1, first.NumSamples())
	require.Equal(t, 2, first.SampleDim())
	require.False(t, first.IsSparse())
	require.Equal(t, format.ElementFloat32, first.ElementType())
	require.Equal(t, []float32{1, 2}, first.Values)

	second := seqs[1].(*DenseSequence[float32])
	require.Equal(t, int64(1), second.SequenceID())
	require.Equal(t, 2, second.NumSamples())
	require.Equal(t, []float32{3, 4}, second.Sample(0))
	require.Equal(t, []float32{5, 6}, second.Sample(1))
}

func TestDenseDecoder_ConsumesOnlyItsRun(t *testing.T) {
	dec, err := NewStreamDecoder(denseDesc(format.ElementFloat32, 1))
	require.NoError(t, err)

	data := rawDenseRun([]int32{2}, []float32{7, 8})
	run := len(data)
	data = append(data, 0xAA, 0xBB, 0xCC)

	seqs, n, err := dec.Decode(data, 1, 2)
	require.NoError(t, err)
	require.Equal(t, run, n)
	require.Equal(t, []float32{7, 8}, seqs[0].(*DenseSequence[float32]).Values)
}

func TestDenseDecoder_DoesNotAliasInput(t *testing.T) {
	dec, err := NewStreamDecoder(denseDesc(format.ElementFloat32, 1))
	require.NoError(t, err)

	data := rawDenseRun([]int32{1}, []float32{42})
	seqs, _, err := dec.Decode(data, 1, 1)
	require.NoError(t, err)

	for i := range data {
		data[i] = 0
	}
	require.Equal(t, []float32{42}, seqs[0].(*DenseSequence[float32]).Values)
}

func TestDenseDecoder_SequenceWindowsAreIsolated(t *testing.T) {
	dec, err := NewStreamDecoder(denseDesc(format.ElementFloat32, 1))
	require.NoError(t, err)

	seqs, _, err := dec.Decode(rawDenseRun([]int32{1, 1}, []float32{1, 2}), 2, 2)
	require.NoError(t, err)

	first := seqs[0].(*DenseSequence[float32])
	first.Values = append(first.Values, 99)
	require.Equal(t, []float32{2}, seqs[1].(*DenseSequence[float32]).Values)
}

func TestDenseDecoder_Errors(t *testing.T) {
	engine := endian.FileEngine()
	dec, err := NewStreamDecoder(denseDesc(format.ElementFloat32, 2))
	require.NoError(t, err)

	tests := []struct {
		name      string
		data      []byte
		sequences int
		samples   int
	}{
		{
			name:      "truncated lengths",
			data:      []byte{1, 0},
			sequences: 1,
			samples:   1,
		},
		{
			name:      "negative length",
			data:      appendCount(nil, -1, engine),
			sequences: 1,
			samples:   0,
		},
		{
			name:      "length sum mismatch",
			data:      rawDenseRun([]int32{1, 1}, []float32{1, 2, 3, 4}),
			sequences: 2,
			samples:   3,
		},
		{
			name:      "truncated values",
			data:      rawDenseRun([]int32{2}, []float32{1, 2, 3}),
			sequences: 1,
			samples:   2,
		},
		{
			name:      "negative sample count",
			data:      nil,
			sequences: 0,
			samples:   -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seqs, n, err := dec.Decode(tt.data, tt.sequences, tt.samples)
			require.ErrorIs(t, err, errs.ErrChunkDecode)
			require.Nil(t, seqs)
			require.Zero(t, n)
		})
	}
}

func TestDenseDecoder_EmptyRun(t *testing.T) {
	dec, err := NewStreamDecoder(denseDesc(format.ElementFloat64, 3))
	require.NoError(t, err)

	seqs, n, err := dec.Decode(nil, 0, 0)
	require.NoError(t, err)
	require.Empty(t, seqs)
	require.Zero(t, n)
}

func TestDenseEncoder_RoundTrip(t *testing.T) {
	t.Run("float32", func(t *testing.T) {
		desc := denseDesc(format.ElementFloat32, 3)
		in := []SequenceData{
			NewDenseSequence(3, []float32{1, 2, 3}),
			NewDenseSequence(3, []float32{}),
			NewDenseSequence(3, []float32{4, 5, 6, 7, 8, 9}),
		}
		out := roundTrip(t, desc, in, 3)
		require.Equal(t, []float32{1, 2, 3}, out[0].(*DenseSequence[float32]).Values)
		require.Equal(t, 0, out[1].NumSamples())
		require.Equal(t, []float32{4, 5, 6, 7, 8, 9}, out[2].(*DenseSequence[float32]).Values)
	})

	t.Run("float64", func(t *testing.T) {
		desc := denseDesc(format.ElementFloat64, 1)
		in := []SequenceData{NewDenseSequence(1, []float64{0.5, -1.25})}
		out := roundTrip(t, desc, in, 2)
		require.Equal(t, []float64{0.5, -1.25}, out[0].(*DenseSequence[float64]).Values)
		require.Equal(t, format.ElementFloat64, out[0].ElementType())
	})
}

func TestDenseEncoder_Errors(t *testing.T) {
	enc, err := NewStreamEncoder(denseDesc(format.ElementFloat32, 2))
	require.NoError(t, err)

	_, _, err = enc.Encode(nil, []SequenceData{NewDenseSequence(2, []float64{1, 2})})
	require.ErrorIs(t, err, errs.ErrUnsupportedSequence)

	_, _, err = enc.Encode(nil, []SequenceData{NewDenseSequence(3, []float32{1, 2, 3})})
	require.ErrorIs(t, err, errs.ErrUnsupportedSequence)

	_, _, err = enc.Encode(nil, []SequenceData{&DenseSequence[float32]{Samples: 2, Dim: 2, Values: []float32{1}}})
	require.ErrorIs(t, err, errs.ErrUnsupportedSequence)
}

// roundTrip encodes seqs, checks the reported sample count and decodes them back.
func roundTrip(t *testing.T, desc section.StreamDescriptor, seqs []SequenceData, wantSamples int) []SequenceData {
	t.Helper()

	enc, err := NewStreamEncoder(desc)
	require.NoError(t, err)
	dec, err := NewStreamDecoder(desc)
	require.NoError(t, err)
	require.Equal(t, desc, enc.Descriptor())
	require.Equal(t, desc, dec.Descriptor())

	data, samples, err := enc.Encode(nil, seqs)
	require.NoError(t, err)
	require.Equal(t, wantSamples, samples)

	out, n, err := dec.Decode(data, len(seqs), samples)
	require.NoError(t, err)
	require.Equal(t, len(data), n)
	require.Len(t, out, len(seqs))

	for i, s := range out {
		require.Equal(t, seqs[i].NumSamples(), s.NumSamples())
		require.Equal(t, seqs[i].SampleDim(), s.SampleDim())
		require.Equal(t, seqs[i].IsSparse(), s.IsSparse())
	}

	return out
}
