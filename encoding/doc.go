// Package encoding decodes and encodes the per-stream runs stored inside a chunk.
//
// Every chunk holds one run per declared stream, in declared stream order. A
// run is decoded by the StreamDecoder bound to the stream when the file is
// opened; the decoder is picked from the stream's storage type, element type
// and compression (see NewStreamDecoder). Stream boundaries are not stored:
// each decoder consumes exactly the bytes its run needs, given the chunk's
// sequence count and the stream's sample count from the offset index, and
// reports how many bytes it consumed so the next decoder can start there.
//
// # Dense Runs
//
//	[int32 × sequenceCount]                  samples per sequence
//	[sampleCount × sampleDim × element]      values, sample-major
//
// # Sparse Runs
//
//	[int32 × sequenceCount]                  samples per sequence
//	[int32 × sampleCount]                    non-zero count per sample
//	[totalNNZ × (int32 index, element)]      interleaved index/value pairs
//
// Every index must lie in [0, sampleDim).
//
// # Compressed Runs
//
// Streams declaring a compression other than none wrap the plain run:
//
//	[uint32 compressedLen][compressed plain run]
//
// # Sequence Data
//
// Decoded sequences are returned as SequenceData values holding either a
// *DenseSequence[T] or a *SparseSequence[T] with T float32 or float64.
// Decoded values never alias the input buffer, so chunk read buffers can be
// recycled as soon as decoding returns.
package encoding
