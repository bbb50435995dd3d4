package encoding

import (
	"github.com/arloliu/seqchunk/format"
)

// Element is the set of value types a stream can carry.
type Element interface {
	float32 | float64
}

// SequenceData is one stream's worth of data for one sequence.
type SequenceData interface {
	// SequenceID returns the file-wide id of the sequence.
	SequenceID() int64
	// SetSequenceID sets the file-wide id of the sequence.
	SetSequenceID(id int64)
	// NumSamples returns the number of samples in the sequence.
	NumSamples() int
	// SampleDim returns the number of values per dense sample, or the
	// feature dimension of a sparse sample.
	SampleDim() int
	// ElementType returns the value type of the sequence.
	ElementType() format.ElementType
	// IsSparse reports whether the sequence uses sparse storage.
	IsSparse() bool
}

// DenseSequence holds every value of every sample of a sequence.
type DenseSequence[T Element] struct {
	ID      int64
	Samples int
	Dim     int
	// Values holds Samples × Dim values, sample-major.
	Values []T
}

var (
	_ SequenceData = (*DenseSequence[float32])(nil)
	_ SequenceData = (*DenseSequence[float64])(nil)
)

// NewDenseSequence creates a dense sequence from sample-major values.
// The number of samples is len(values) / dim.
func NewDenseSequence[T Element](dim int, values []T) *DenseSequence[T] {
	samples := 0
	if dim > 0 {
		samples = len(values) / dim
	}

	return &DenseSequence[T]{Samples: samples, Dim: dim, Values: values}
}

func (s *DenseSequence[T]) SequenceID() int64               { return s.ID }
func (s *DenseSequence[T]) SetSequenceID(id int64)          { s.ID = id }
func (s *DenseSequence[T]) NumSamples() int                 { return s.Samples }
func (s *DenseSequence[T]) SampleDim() int                  { return s.Dim }
func (s *DenseSequence[T]) ElementType() format.ElementType { return elementTypeOf[T]() }
func (s *DenseSequence[T]) IsSparse() bool                  { return false }

// Sample returns the values of sample i.
func (s *DenseSequence[T]) Sample(i int) []T {
	return s.Values[i*s.Dim : (i+1)*s.Dim]
}

// SparseSequence holds the non-zero values of every sample of a sequence.
type SparseSequence[T Element] struct {
	ID      int64
	Samples int
	Dim     int
	// NNZCounts holds the number of non-zero values of each sample.
	NNZCounts []int32
	// Indices holds the feature index of every non-zero value, grouped by sample.
	Indices []int32
	// Values holds the non-zero values, parallel to Indices.
	Values []T
}

var (
	_ SequenceData = (*SparseSequence[float32])(nil)
	_ SequenceData = (*SparseSequence[float64])(nil)
)

// NewSparseSequence creates a sparse sequence. len(nnzCounts) is the number of samples.
func NewSparseSequence[T Element](dim int, nnzCounts []int32, indices []int32, values []T) *SparseSequence[T] {
	return &SparseSequence[T]{
		Samples:   len(nnzCounts),
		Dim:       dim,
		NNZCounts: nnzCounts,
		Indices:   indices,
		Values:    values,
	}
}

func (s *SparseSequence[T]) SequenceID() int64               { return s.ID }
func (s *SparseSequence[T]) SetSequenceID(id int64)          { s.ID = id }
func (s *SparseSequence[T]) NumSamples() int                 { return s.Samples }
func (s *SparseSequence[T]) SampleDim() int                  { return s.Dim }
func (s *SparseSequence[T]) ElementType() format.ElementType { return elementTypeOf[T]() }
func (s *SparseSequence[T]) IsSparse() bool                  { return true }

// Sample returns the indices and values of sample i.
func (s *SparseSequence[T]) Sample(i int) ([]int32, []T) {
	start := 0
	for _, n := range s.NNZCounts[:i] {
		start += int(n)
	}
	end := start + int(s.NNZCounts[i])

	return s.Indices[start:end], s.Values[start:end]
}

// Dense expands sample i into a dense slice of Dim values.
func (s *SparseSequence[T]) Dense(i int) []T {
	out := make([]T, s.Dim)
	indices, values := s.Sample(i)
	for j, idx := range indices {
		out[idx] = values[j]
	}

	return out
}

func elementTypeOf[T Element]() format.ElementType {
	var zero T
	switch any(zero).(type) {
	case float32:
		return format.ElementFloat32
	case float64:
		return format.ElementFloat64
	default:
		return 0
	}
}
