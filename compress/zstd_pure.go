//go:build !(cgo && gozstd)

package compress

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/arloliu/seqchunk/errs"
	"github.com/klauspost/compress/zstd"
)

// zstdDecoderPool pools streaming zstd decoders. Runs are decoded through
// io.Reader so the output can be cut off at the caller's limit.
var zstdDecoderPool = sync.Pool{
	New: func() any {
		decoder, err := zstd.NewReader(nil,
			zstd.WithDecoderConcurrency(1),
			zstd.WithDecoderLowmem(true),
		)
		if err != nil {
			panic(fmt.Sprintf("failed to create zstd decoder for pool: %v", err))
		}

		return decoder
	},
}

var zstdEncoderPool = sync.Pool{
	New: func() any {
		encoder, err := zstd.NewWriter(nil,
			zstd.WithEncoderLevel(zstd.SpeedDefault),
			zstd.WithEncoderCRC(false),
		)
		if err != nil {
			panic(fmt.Sprintf("failed to create zstd encoder for pool: %v", err))
		}

		return encoder
	},
}

// Compress encodes data as a single zstd frame. The frame records its
// content size, which Decompress checks against its limit.
func (c ZstdCompressor) Compress(data []byte) ([]byte, error) {
	encoder, _ := zstdEncoderPool.Get().(*zstd.Encoder)
	defer zstdEncoderPool.Put(encoder)

	return encoder.EncodeAll(data, nil), nil
}

// Decompress decodes a zstd run of at most limit bytes.
//
// A frame whose declared content size exceeds limit is rejected from its
// header alone; frames without a declared size are streamed and cut off at
// limit.
func (c ZstdCompressor) Decompress(data []byte, limit int) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var hdr zstd.Header
	if err := hdr.Decode(data); err != nil {
		return nil, fmt.Errorf("zstd frame header: %w", err)
	}

	hint := 0
	if hdr.HasFCS {
		if hdr.FrameContentSize > uint64(limit) { //nolint: gosec
			return nil, fmt.Errorf("%w: zstd frame declares %d bytes, limit is %d", errs.ErrRunTooLarge, hdr.FrameContentSize, limit)
		}
		hint = int(hdr.FrameContentSize) //nolint: gosec
	}

	decoder, _ := zstdDecoderPool.Get().(*zstd.Decoder)
	defer zstdDecoderPool.Put(decoder)

	if err := decoder.Reset(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("zstd decompression failed: %w", err)
	}
	defer decoder.Reset(nil) //nolint: errcheck

	return readLimited("zstd", decoder, limit, hint)
}
