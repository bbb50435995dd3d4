package encoding

import (
	"fmt"

	"github.com/arloliu/seqchunk/compress"
	"github.com/arloliu/seqchunk/endian"
	"github.com/arloliu/seqchunk/errs"
	"github.com/arloliu/seqchunk/format"
	"github.com/arloliu/seqchunk/section"
)

// countSize is the encoded size of one int32 length or non-zero count.
const countSize = 4

// StreamDecoder decodes one stream's run inside a chunk.
//
// Implementations are stateless and safe for concurrent use; one decoder is
// shared by every chunk read from the same file.
type StreamDecoder interface {
	// Descriptor returns the stream descriptor the decoder was built for.
	Descriptor() section.StreamDescriptor

	// Decode decodes the run at the start of data.
	//
	// Parameters:
	//   - data: chunk bytes starting at this stream's run; may extend past it
	//   - sequenceCount: number of sequences in the chunk
	//   - sampleCount: number of samples of this stream in the chunk
	//
	// Returns:
	//   - []SequenceData: sequenceCount sequences in chunk order, with
	//     chunk-relative sequence ids
	//   - int: number of bytes of data consumed by the run
	//   - error: wraps errs.ErrChunkDecode when the run is malformed
	Decode(data []byte, sequenceCount, sampleCount int) ([]SequenceData, int, error)
}

// NewStreamDecoder returns the decoder variant selected by the descriptor's
// storage type, element type and compression.
func NewStreamDecoder(desc section.StreamDescriptor) (StreamDecoder, error) {
	if err := desc.Validate(); err != nil {
		return nil, err
	}

	engine := endian.FileEngine()

	var dec StreamDecoder
	switch desc.Storage {
	case format.StorageDense:
		switch desc.Element {
		case format.ElementFloat32:
			dec = denseDecoder[float32]{desc: desc, engine: engine}
		case format.ElementFloat64:
			dec = denseDecoder[float64]{desc: desc, engine: engine}
		}
	case format.StorageSparse:
		switch desc.Element {
		case format.ElementFloat32:
			dec = sparseDecoder[float32]{desc: desc, engine: engine}
		case format.ElementFloat64:
			dec = sparseDecoder[float64]{desc: desc, engine: engine}
		}
	}

	if dec == nil {
		return nil, fmt.Errorf("%w: no decoder for %s %s stream %q",
			errs.ErrInvalidStreamDescriptor, desc.Storage, desc.Element, desc.Name)
	}

	if desc.Compression == format.CompressionNone {
		return dec, nil
	}

	codec, err := compress.GetCodec(desc.Compression)
	if err != nil {
		return nil, fmt.Errorf("%w: stream %q: %w", errs.ErrInvalidStreamDescriptor, desc.Name, err)
	}

	return compressedDecoder{inner: dec, codec: codec, engine: engine}, nil
}

// decodeError wraps a malformed-run condition with ErrChunkDecode.
func decodeError(desc section.StreamDescriptor, msg string, args ...any) error {
	return fmt.Errorf("%w: %s stream %q: %s", errs.ErrChunkDecode, desc.Storage, desc.Name, fmt.Sprintf(msg, args...))
}

// checkCounts validates the counts handed to Decode.
func checkCounts(desc section.StreamDescriptor, sequenceCount, sampleCount int) error {
	if sequenceCount < 0 || sampleCount < 0 {
		return decodeError(desc, "negative sequence (%d) or sample (%d) count", sequenceCount, sampleCount)
	}

	return nil
}

// readSequenceLengths reads and checks the per-sequence sample counts at the
// start of a run; the lengths must add up to sampleCount.
func readSequenceLengths(desc section.StreamDescriptor, data []byte, sequenceCount, sampleCount int, engine endian.EndianEngine) ([]int32, int, error) {
	size := sequenceCount * countSize
	if len(data) < size {
		return nil, 0, decodeError(desc, "truncated sequence lengths: need %d bytes, have %d", size, len(data))
	}

	lengths, sum, bad := readCounts(data, sequenceCount, engine)
	if bad >= 0 {
		return nil, 0, decodeError(desc, "sequence %d has negative length", bad)
	}

	if sum != int64(sampleCount) {
		return nil, 0, decodeError(desc, "sequence lengths add up to %d samples, index declares %d", sum, sampleCount)
	}

	return lengths, size, nil
}
