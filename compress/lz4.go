package compress

import (
	"errors"
	"fmt"
	"sync"

	"github.com/arloliu/seqchunk/errs"
	"github.com/pierrec/lz4/v4"
)

var lz4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.Compressor{}
	},
}

// LZ4Compressor stores runs as raw LZ4 blocks.
//
// The block format carries no decoded length, so Decompress grows its buffer
// up to the caller's limit.
type LZ4Compressor struct{}

var _ Codec = (*LZ4Compressor)(nil)

// NewLZ4Compressor creates a new LZ4 compressor.
func NewLZ4Compressor() LZ4Compressor {
	return LZ4Compressor{}
}

// Compress compresses the input data using a pooled lz4.Compressor.
//
// Returns nil for empty input.
func (c LZ4Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	dst := make([]byte, lz4.CompressBlockBound(len(data)))

	lc, _ := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(lc)

	n, err := lc.CompressBlock(data, dst)
	if err != nil {
		return nil, err
	}

	return dst[:n], nil
}

// Decompress decompresses an LZ4 block of at most limit bytes.
//
// The buffer starts at 4x the compressed size and doubles on
// ErrInvalidSourceShortBuffer; a block that still does not fit once the
// buffer reaches limit is rejected.
func (c LZ4Compressor) Decompress(data []byte, limit int) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	bufSize := min(len(data)*4, limit)
	for {
		buf := make([]byte, bufSize)
		n, err := lz4.UncompressBlock(data, buf)
		if err == nil {
			return buf[:n], nil
		}

		if !errors.Is(err, lz4.ErrInvalidSourceShortBuffer) {
			return nil, fmt.Errorf("lz4 decompression failed: %w", err)
		}

		if bufSize >= limit {
			return nil, fmt.Errorf("%w: lz4 run does not fit in %d bytes", errs.ErrRunTooLarge, limit)
		}

		bufSize = min(bufSize*2, limit)
	}
}
