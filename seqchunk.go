// Package seqchunk reads and writes chunked binary files of labeled sequences.
//
// A chunk file groups variable-length sequences into chunks. Each sequence
// carries one run of samples per stream (for example dense features and
// sparse labels). A fixed-width offset index placed after the header locates
// every chunk, so a reader can load any chunk with a single positioned read
// and decode it without touching the rest of the file.
//
// # Core Features
//
//   - O(1) chunk lookup through the offset index
//   - Dense and sparse streams of float32 or float64 values
//   - Optional per-stream compression (Zstd, S2, LZ4)
//   - Concurrent GetChunk calls over pread or a memory mapping
//   - Stream renaming and validation against an expected stream list
//
// # Basic Usage
//
// Writing a file:
//
//	w, _ := seqchunk.NewWriter([]section.StreamDescriptor{
//	    seqchunk.DenseStream("features", format.ElementFloat32, 3, format.CompressionNone),
//	    seqchunk.SparseStream("labels", format.ElementFloat32, 1000, format.CompressionZstd),
//	})
//	_ = w.AddChunk(features, labels)
//	_ = w.WriteFile("train.chunks")
//
// Reading it back:
//
//	r, _ := seqchunk.Open("train.chunks")
//	defer r.Close()
//	descs, _ := r.ListChunks()
//	c, _ := r.GetChunk(descs[0].ID)
//	seqs, _ := c.Stream(0)
//
// # Package Structure
//
// This package provides top-level wrappers around the chunk package. Use
// chunk, encoding and section directly for finer control.
package seqchunk

import (
	"github.com/arloliu/seqchunk/chunk"
	"github.com/arloliu/seqchunk/format"
	"github.com/arloliu/seqchunk/section"
)

// Open opens a chunk file for random access.
//
// Available options:
//   - chunk.WithLogger(logger)
//   - chunk.WithStreams(configs...)
//   - chunk.WithStreamRename(map)
//   - chunk.WithMmap(true|false)
func Open(path string, opts ...chunk.ReaderOption) (*chunk.Reader, error) {
	return chunk.Open(path, opts...)
}

// NewReader creates a reader over an in-memory or custom byte source.
func NewReader(src chunk.ByteSource, opts ...chunk.ReaderOption) (*chunk.Reader, error) {
	return chunk.NewReader(src, opts...)
}

// NewWriter creates a writer for the given streams.
func NewWriter(streams []section.StreamDescriptor, opts ...chunk.WriterOption) (*chunk.Writer, error) {
	return chunk.NewWriter(streams, opts...)
}

// DenseStream describes a dense stream with dim values per sample.
func DenseStream(name string, element format.ElementType, dim int, compression format.CompressionType) section.StreamDescriptor {
	desc := section.NewStreamDescriptor(name, format.StorageDense, element, dim)
	desc.Compression = compression

	return desc
}

// SparseStream describes a sparse stream with feature dimension dim.
func SparseStream(name string, element format.ElementType, dim int, compression format.CompressionType) section.StreamDescriptor {
	desc := section.NewStreamDescriptor(name, format.StorageSparse, element, dim)
	desc.Compression = compression

	return desc
}
