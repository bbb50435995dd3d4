//go:build cgo && gozstd

package compress

import (
	"bytes"

	"github.com/valyala/gozstd"
)

// Compress compresses the input data using the cgo Zstandard bindings.
func (c ZstdCompressor) Compress(data []byte) ([]byte, error) {
	return gozstd.CompressLevel(nil, data, 3), nil
}

// Decompress streams a zstd run through the cgo bindings and stops once
// more than limit bytes have been produced.
func (c ZstdCompressor) Decompress(data []byte, limit int) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	zr := gozstd.NewReader(bytes.NewReader(data))
	defer zr.Release()

	return readLimited("zstd", zr, limit, 0)
}
