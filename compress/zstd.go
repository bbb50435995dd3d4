package compress

// ZstdCompressor provides Zstandard compression for stream runs.
//
// It gives the best ratio of the built-in codecs and suits large, rarely
// re-encoded training files. The default build uses the pure Go
// klauspost/compress implementation; building with `-tags gozstd` and cgo
// enabled switches to the valyala/gozstd bindings.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd compressor with default settings.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
