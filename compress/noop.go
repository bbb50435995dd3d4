package compress

// NoOpCompressor passes data through unchanged. It backs streams declared
// with CompressionNone when a Codec value is still required.
type NoOpCompressor struct{}

var _ Codec = (*NoOpCompressor)(nil)

// NewNoOpCompressor creates a new no-operation compressor.
func NewNoOpCompressor() NoOpCompressor {
	return NoOpCompressor{}
}

// Compress returns data as-is. The result shares memory with the input.
func (c NoOpCompressor) Compress(data []byte) ([]byte, error) {
	return data, nil
}

// Decompress returns data as-is when it fits within limit. The result
// shares memory with the input.
func (c NoOpCompressor) Decompress(data []byte, limit int) ([]byte, error) {
	if len(data) > limit {
		return nil, sizeLimitError("raw", len(data), limit)
	}

	return data, nil
}
