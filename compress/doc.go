// Package compress provides the codecs applied to compressed stream runs of a chunk.
//
// A stream declares its compression in its header descriptor. When it is not
// CompressionNone, the stream's run inside every chunk is stored as
//
//	[uint32 compressedLen][compressed payload]
//
// and the payload decompresses to the stream's plain dense or sparse encoding.
// Compression is applied per stream so that, for example, large sparse label
// streams can be compressed while dense feature streams stay raw.
//
// Supported algorithms:
//   - None: no compression
//   - Zstd: best ratio, moderate speed (klauspost/compress, or valyala/gozstd
//     when built with the gozstd tag and cgo)
//   - S2: balanced speed and ratio
//   - LZ4: fastest decompression
//
// # Thread Safety
//
// All codecs returned by this package are stateless values backed by pooled
// encoders/decoders and are safe for concurrent use by prefetching workers.
package compress
