package encoding

import (
	"fmt"

	"github.com/arloliu/seqchunk/compress"
	"github.com/arloliu/seqchunk/endian"
	"github.com/arloliu/seqchunk/errs"
	"github.com/arloliu/seqchunk/format"
	"github.com/arloliu/seqchunk/section"
)

// StreamEncoder encodes one stream's sequences of a chunk into a run that the
// matching StreamDecoder reads back.
type StreamEncoder interface {
	// Descriptor returns the stream descriptor the encoder was built for.
	Descriptor() section.StreamDescriptor

	// Encode appends the run for seqs to dst.
	//
	// Returns the extended slice and the total number of samples across seqs,
	// which the writer stores in the offset index.
	Encode(dst []byte, seqs []SequenceData) ([]byte, int, error)
}

// NewStreamEncoder returns the encoder matching the descriptor. Sequences
// passed to it must be *DenseSequence[T] or *SparseSequence[T] with T matching
// the descriptor's element type.
func NewStreamEncoder(desc section.StreamDescriptor) (StreamEncoder, error) {
	if err := desc.Validate(); err != nil {
		return nil, err
	}

	engine := endian.FileEngine()

	var enc StreamEncoder
	switch desc.Storage {
	case format.StorageDense:
		switch desc.Element {
		case format.ElementFloat32:
			enc = denseEncoder[float32]{desc: desc, engine: engine}
		case format.ElementFloat64:
			enc = denseEncoder[float64]{desc: desc, engine: engine}
		}
	case format.StorageSparse:
		switch desc.Element {
		case format.ElementFloat32:
			enc = sparseEncoder[float32]{desc: desc, engine: engine}
		case format.ElementFloat64:
			enc = sparseEncoder[float64]{desc: desc, engine: engine}
		}
	}

	if enc == nil {
		return nil, fmt.Errorf("%w: no encoder for %s %s stream %q",
			errs.ErrInvalidStreamDescriptor, desc.Storage, desc.Element, desc.Name)
	}

	if desc.Compression == format.CompressionNone {
		return enc, nil
	}

	codec, err := compress.GetCodec(desc.Compression)
	if err != nil {
		return nil, fmt.Errorf("%w: stream %q: %w", errs.ErrInvalidStreamDescriptor, desc.Name, err)
	}

	return compressedEncoder{inner: enc, codec: codec, engine: engine}, nil
}

func unsupportedSequence(desc section.StreamDescriptor, i int, s SequenceData) error {
	return fmt.Errorf("%w: sequence %d is %T, stream %q holds %s %s values",
		errs.ErrUnsupportedSequence, i, s, desc.Name, desc.Storage, desc.Element)
}

func invalidSequence(desc section.StreamDescriptor, i int, msg string, args ...any) error {
	return fmt.Errorf("%w: stream %q, sequence %d: %s",
		errs.ErrUnsupportedSequence, desc.Name, i, fmt.Sprintf(msg, args...))
}
