package compress

import (
	"bytes"
	"fmt"
	"io"

	"github.com/arloliu/seqchunk/errs"
	"github.com/arloliu/seqchunk/format"
)

// Compressor compresses one stream run of a chunk.
type Compressor interface {
	// Compress compresses data and returns the compressed result.
	//
	// The returned slice is owned by the caller unless the codec documents
	// otherwise (NoOpCompressor returns its input). data is not modified.
	Compress(data []byte) ([]byte, error)
}

// Decompressor restores one stream run of a chunk.
//
// Implementations must be safe for concurrent use.
type Decompressor interface {
	// Decompress decompresses data previously produced by the matching Compressor.
	//
	// limit is the largest decompressed size the caller accepts. A run that
	// would inflate past it fails with errs.ErrRunTooLarge before the output
	// is fully materialized.
	//
	// Returns an error if data is corrupted or was compressed with another algorithm.
	Decompress(data []byte, limit int) ([]byte, error)
}

// Codec combines both compression and decompression capabilities.
type Codec interface {
	Compressor
	Decompressor
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionS2:   NewS2Compressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
}

// GetCodec returns the built-in Codec for the given compression type.
//
// The codecs are stateless and shared between all streams of all readers.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("unsupported compression type: %s", compressionType)
}

func sizeLimitError(algo string, size, limit int) error {
	return fmt.Errorf("%w: %s run inflates to %d bytes, limit is %d", errs.ErrRunTooLarge, algo, size, limit)
}

// readLimited drains a streaming decompressor, failing as soon as more than
// limit bytes come out of it.
func readLimited(algo string, r io.Reader, limit, sizeHint int) ([]byte, error) {
	var out bytes.Buffer
	out.Grow(min(sizeHint, limit))

	n, err := out.ReadFrom(io.LimitReader(r, int64(limit)+1))
	if err != nil {
		return nil, fmt.Errorf("%s decompression failed: %w", algo, err)
	}

	if n > int64(limit) {
		return nil, fmt.Errorf("%w: %s run inflates past %d bytes", errs.ErrRunTooLarge, algo, limit)
	}

	return out.Bytes(), nil
}
