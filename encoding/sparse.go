package encoding

import (
	"github.com/arloliu/seqchunk/endian"
	"github.com/arloliu/seqchunk/section"
)

type sparseDecoder[T Element] struct {
	desc   section.StreamDescriptor
	engine endian.EndianEngine
}

func (d sparseDecoder[T]) Descriptor() section.StreamDescriptor {
	return d.desc
}

// Decode decodes a sparse run and checks every index against the stream's
// feature dimension.
func (d sparseDecoder[T]) Decode(data []byte, sequenceCount, sampleCount int) ([]SequenceData, int, error) {
	if err := checkCounts(d.desc, sequenceCount, sampleCount); err != nil {
		return nil, 0, err
	}

	lengths, pos, err := readSequenceLengths(d.desc, data, sequenceCount, sampleCount, d.engine)
	if err != nil {
		return nil, 0, err
	}

	dim := int(d.desc.SampleDim)
	nnzSize := sampleCount * countSize
	if len(data)-pos < nnzSize {
		return nil, 0, decodeError(d.desc, "truncated non-zero counts: need %d bytes, have %d", nnzSize, len(data)-pos)
	}

	nnzCounts, totalNNZ, bad := readCounts(data[pos:], sampleCount, d.engine)
	if bad >= 0 {
		return nil, 0, decodeError(d.desc, "sample %d has negative non-zero count", bad)
	}
	for i, n := range nnzCounts {
		if int(n) > dim {
			return nil, 0, decodeError(d.desc, "sample %d has %d non-zero values, dimension is %d", i, n, dim)
		}
	}
	pos += nnzSize

	width := int(d.desc.ElementWidth)
	pairSize := countSize + width
	if totalNNZ > int64(len(data)-pos)/int64(pairSize) {
		return nil, 0, decodeError(d.desc, "truncated index/value pairs: need %d pairs of %d bytes, have %d bytes", totalNNZ, pairSize, len(data)-pos)
	}

	indices := make([]int32, totalNNZ)
	values := make([]T, totalNNZ)
	for i := range indices {
		idx := int32(d.engine.Uint32(data[pos:])) //nolint: gosec
		if idx < 0 || int(idx) >= dim {
			return nil, 0, decodeError(d.desc, "index %d out of range [0, %d) at non-zero %d", idx, dim, i)
		}
		indices[i] = idx
		values[i] = readValue[T](data[pos+countSize:], d.engine)
		pos += pairSize
	}

	seqs := make([]SequenceData, sequenceCount)
	sample, nz := 0, 0
	for i, n := range lengths {
		sampleEnd := sample + int(n)
		nzEnd := nz
		for _, c := range nnzCounts[sample:sampleEnd] {
			nzEnd += int(c)
		}
		seqs[i] = &SparseSequence[T]{
			ID:        int64(i),
			Samples:   int(n),
			Dim:       dim,
			NNZCounts: nnzCounts[sample:sampleEnd:sampleEnd],
			Indices:   indices[nz:nzEnd:nzEnd],
			Values:    values[nz:nzEnd:nzEnd],
		}
		sample, nz = sampleEnd, nzEnd
	}

	return seqs, pos, nil
}

type sparseEncoder[T Element] struct {
	desc   section.StreamDescriptor
	engine endian.EndianEngine
}

func (e sparseEncoder[T]) Descriptor() section.StreamDescriptor {
	return e.desc
}

func (e sparseEncoder[T]) Encode(dst []byte, seqs []SequenceData) ([]byte, int, error) {
	dim := int(e.desc.SampleDim)
	typed := make([]*SparseSequence[T], len(seqs))
	samples := 0
	for i, s := range seqs {
		ss, ok := s.(*SparseSequence[T])
		if !ok {
			return dst, 0, unsupportedSequence(e.desc, i, s)
		}
		if err := e.check(i, ss, dim); err != nil {
			return dst, 0, err
		}
		typed[i] = ss
		samples += ss.Samples
	}

	for _, ss := range typed {
		dst = appendCount(dst, ss.Samples, e.engine)
	}
	for _, ss := range typed {
		for _, n := range ss.NNZCounts {
			dst = appendCount(dst, int(n), e.engine)
		}
	}
	for _, ss := range typed {
		for j, idx := range ss.Indices {
			dst = appendCount(dst, int(idx), e.engine)
			dst = appendValue(dst, ss.Values[j], e.engine)
		}
	}

	return dst, samples, nil
}

func (e sparseEncoder[T]) check(i int, ss *SparseSequence[T], dim int) error {
	if ss.Dim != dim {
		return invalidSequence(e.desc, i, "sparse sequence dimension %d, stream dimension %d", ss.Dim, dim)
	}
	if len(ss.NNZCounts) != ss.Samples {
		return invalidSequence(e.desc, i, "sparse sequence has %d non-zero counts for %d samples", len(ss.NNZCounts), ss.Samples)
	}
	if len(ss.Indices) != len(ss.Values) {
		return invalidSequence(e.desc, i, "sparse sequence has %d indices and %d values", len(ss.Indices), len(ss.Values))
	}

	total := 0
	for _, n := range ss.NNZCounts {
		if n < 0 || int(n) > dim {
			return invalidSequence(e.desc, i, "non-zero count %d out of range [0, %d]", n, dim)
		}
		total += int(n)
	}
	if total != len(ss.Indices) {
		return invalidSequence(e.desc, i, "non-zero counts add up to %d, have %d indices", total, len(ss.Indices))
	}

	for _, idx := range ss.Indices {
		if idx < 0 || int(idx) >= dim {
			return invalidSequence(e.desc, i, "index %d out of range [0, %d)", idx, dim)
		}
	}

	return nil
}
