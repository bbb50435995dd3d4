package encoding

import (
	"github.com/arloliu/seqchunk/endian"
	"github.com/arloliu/seqchunk/section"
)

type denseDecoder[T Element] struct {
	desc   section.StreamDescriptor
	engine endian.EndianEngine
}

func (d denseDecoder[T]) Descriptor() section.StreamDescriptor {
	return d.desc
}

// Decode decodes a dense run. All sequences of the chunk share one value
// slice; each sequence gets a capacity-limited window of it.
func (d denseDecoder[T]) Decode(data []byte, sequenceCount, sampleCount int) ([]SequenceData, int, error) {
	if err := checkCounts(d.desc, sequenceCount, sampleCount); err != nil {
		return nil, 0, err
	}

	lengths, pos, err := readSequenceLengths(d.desc, data, sequenceCount, sampleCount, d.engine)
	if err != nil {
		return nil, 0, err
	}

	dim := int(d.desc.SampleDim)
	width := int(d.desc.ElementWidth)
	valueCount := int64(sampleCount) * int64(dim)
	if valueCount > int64(len(data)-pos)/int64(width) {
		return nil, 0, decodeError(d.desc, "truncated values: need %d values of %d bytes, have %d bytes", valueCount, width, len(data)-pos)
	}

	end := pos + int(valueCount)*width
	values := make([]T, valueCount)
	decodeValues(values, data[pos:end], d.engine)

	seqs := make([]SequenceData, sequenceCount)
	start := 0
	for i, n := range lengths {
		stop := start + int(n)*dim
		seqs[i] = &DenseSequence[T]{
			ID:      int64(i),
			Samples: int(n),
			Dim:     dim,
			Values:  values[start:stop:stop],
		}
		start = stop
	}

	return seqs, end, nil
}

type denseEncoder[T Element] struct {
	desc   section.StreamDescriptor
	engine endian.EndianEngine
}

func (e denseEncoder[T]) Descriptor() section.StreamDescriptor {
	return e.desc
}

func (e denseEncoder[T]) Encode(dst []byte, seqs []SequenceData) ([]byte, int, error) {
	dim := int(e.desc.SampleDim)
	typed := make([]*DenseSequence[T], len(seqs))
	samples := 0
	for i, s := range seqs {
		ds, ok := s.(*DenseSequence[T])
		if !ok {
			return dst, 0, unsupportedSequence(e.desc, i, s)
		}
		if ds.Dim != dim || len(ds.Values) != ds.Samples*dim {
			return dst, 0, invalidSequence(e.desc, i, "dense sequence has %d values for %d samples of dimension %d (stream dimension %d)",
				len(ds.Values), ds.Samples, ds.Dim, dim)
		}
		typed[i] = ds
		samples += ds.Samples
	}

	for _, ds := range typed {
		dst = appendCount(dst, ds.Samples, e.engine)
	}
	for _, ds := range typed {
		dst = appendValues(dst, ds.Values, e.engine)
	}

	return dst, samples, nil
}
