package encoding

import (
	"fmt"
	"math"

	"github.com/arloliu/seqchunk/compress"
	"github.com/arloliu/seqchunk/endian"
	"github.com/arloliu/seqchunk/errs"
	"github.com/arloliu/seqchunk/format"
	"github.com/arloliu/seqchunk/internal/pool"
	"github.com/arloliu/seqchunk/section"
)

// compressedHeaderSize is the size of the compressed-length prefix of a run.
const compressedHeaderSize = 4

// compressedDecoder decodes a run stored as [uint32 compressedLen][payload].
type compressedDecoder struct {
	inner  StreamDecoder
	codec  compress.Decompressor
	engine endian.EndianEngine
}

func (d compressedDecoder) Descriptor() section.StreamDescriptor {
	return d.inner.Descriptor()
}

func (d compressedDecoder) Decode(data []byte, sequenceCount, sampleCount int) ([]SequenceData, int, error) {
	desc := d.inner.Descriptor()
	if len(data) < compressedHeaderSize {
		return nil, 0, decodeError(desc, "truncated compressed length")
	}

	size := int64(d.engine.Uint32(data))
	end := compressedHeaderSize + size
	if int64(len(data)) < end {
		return nil, 0, decodeError(desc, "truncated %s payload: need %d bytes, have %d",
			desc.Compression, size, len(data)-compressedHeaderSize)
	}

	if err := checkCounts(desc, sequenceCount, sampleCount); err != nil {
		return nil, 0, err
	}

	raw, err := d.codec.Decompress(data[compressedHeaderSize:end], maxRunSize(desc, sequenceCount, sampleCount))
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %s stream %q: %s: %w", errs.ErrChunkDecode, desc.Storage, desc.Name, desc.Compression, err)
	}

	seqs, n, err := d.inner.Decode(raw, sequenceCount, sampleCount)
	if err != nil {
		return nil, 0, err
	}

	if n != len(raw) {
		return nil, 0, decodeError(desc, "%d trailing bytes after decompressed run", len(raw)-n)
	}

	return seqs, int(end), nil
}

// maxRunSize returns the largest plain run that can hold sequenceCount
// sequences with sampleCount samples in total. Dense runs have exactly this
// size; sparse runs reach it only when every sample stores all SampleDim
// entries. Products saturate at math.MaxInt.
func maxRunSize(desc section.StreamDescriptor, sequenceCount, sampleCount int) int {
	values := mulSat(sampleCount, int(desc.SampleDim))
	size := mulSat(sequenceCount, countSize)

	switch desc.Storage {
	case format.StorageSparse:
		size = addSat(size, mulSat(sampleCount, countSize))
		size = addSat(size, mulSat(values, countSize+int(desc.ElementWidth)))
	default:
		size = addSat(size, mulSat(values, int(desc.ElementWidth)))
	}

	return size
}

func mulSat(a, b int) int {
	if a == 0 || b == 0 {
		return 0
	}
	if a > math.MaxInt/b {
		return math.MaxInt
	}

	return a * b
}

func addSat(a, b int) int {
	if a > math.MaxInt-b {
		return math.MaxInt
	}

	return a + b
}

// compressedEncoder encodes a run with its inner encoder and stores it
// compressed behind a length prefix.
type compressedEncoder struct {
	inner  StreamEncoder
	codec  compress.Compressor
	engine endian.EndianEngine
}

func (e compressedEncoder) Descriptor() section.StreamDescriptor {
	return e.inner.Descriptor()
}

func (e compressedEncoder) Encode(dst []byte, seqs []SequenceData) ([]byte, int, error) {
	buf := pool.GetStreamBuffer()
	defer pool.PutStreamBuffer(buf)

	raw, samples, err := e.inner.Encode(buf.Bytes()[:0], seqs)
	if err != nil {
		return dst, 0, err
	}
	buf.B = raw

	payload, err := e.codec.Compress(raw)
	if err != nil {
		return dst, 0, fmt.Errorf("compress stream %q: %w", e.inner.Descriptor().Name, err)
	}

	if int64(len(payload)) > math.MaxUint32 {
		return dst, 0, fmt.Errorf("compress stream %q: payload of %d bytes exceeds the run size limit", e.inner.Descriptor().Name, len(payload))
	}

	dst = e.engine.AppendUint32(dst, uint32(len(payload))) //nolint: gosec
	dst = append(dst, payload...)

	return dst, samples, nil
}
