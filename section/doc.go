// Package section defines the low-level binary structures of the seqchunk file format.
//
// It handles serialization and bounds-checked parsing of the file header, the
// stream descriptors it carries and the offset index that locates every chunk.
// Higher level packages never interpret raw header or index bytes themselves.
//
// # File Structure
//
// A chunk file consists of three regions laid out back to back:
//
//	┌─────────────────────────────────────────────────────────┐
//	│ Header (variable)                                       │
//	│  - version (int64)                                      │
//	│  - numStreams (int32)                                   │
//	│  - numStreams × stream descriptor                       │
//	│  - numChunks (int64), numSequences (int64)              │
//	├─────────────────────────────────────────────────────────┤
//	│ Offset Index ((numChunks+1) × row width, fixed per row) │
//	│  - offset (int64), sequence count (int32)               │
//	│  - one sample count (int32) per stream                  │
//	│  - last row is a sentinel marking the end of data       │
//	├─────────────────────────────────────────────────────────┤
//	│ Data Region (variable)                                  │
//	│  - one block per chunk                                  │
//	│  - per-stream runs in declared stream order             │
//	└─────────────────────────────────────────────────────────┘
//
// # Stream Descriptor
//
//	Bytes   | Field        | Type   | Description
//	--------|--------------|--------|-----------------------------------
//	0       | nameLen      | uint8  | length of the stream name
//	1..n    | name         | bytes  | stream name
//	n+1     | storage      | uint8  | 1 = dense, 2 = sparse
//	n+2     | element      | uint8  | 1 = float32, 2 = float64
//	n+3     | elementWidth | uint8  | must match element (4 or 8)
//	n+4     | compression  | uint8  | 1 = none, 2 = zstd, 3 = s2, 4 = lz4
//	n+5..8  | sampleDim    | int32  | values per sample / feature dimension
//
// # Offset Index
//
// Row width is 8 + 4 × (1 + numStreams) bytes. Offsets are relative to the
// start of the data region, which begins right after the sentinel row. The
// size of chunk i is offset[i+1] - offset[i].
//
// All multi-byte fields use the byte order returned by endian.FileEngine.
package section
