package section

import (
	"fmt"

	"github.com/arloliu/seqchunk/endian"
	"github.com/arloliu/seqchunk/errs"
)

// RowWidth returns the size in bytes of one offset index row for a file with
// numStreams streams: an int64 offset, an int32 sequence count and one int32
// sample count per stream.
func RowWidth(numStreams int) int {
	return OffsetFieldSize + (1+numStreams)*CountFieldSize
}

// OffsetRow is the decoded form of one offset index row.
type OffsetRow struct {
	// Offset is the byte offset of the chunk relative to the start of the data region.
	//
	// Offset: 0, Size: 8 bytes
	Offset int64
	// SequenceCount is the number of sequences in the chunk.
	//
	// Offset: 8, Size: 4 bytes
	SequenceCount int32
	// SampleCounts holds, per stream, the number of samples across all sequences of the chunk.
	//
	// Offset: 12, Size: 4 bytes each
	SampleCounts []int32
}

// AppendTo appends the encoded row to dst.
func (r OffsetRow) AppendTo(dst []byte, engine endian.EndianEngine) []byte {
	dst = engine.AppendUint64(dst, uint64(r.Offset))        //nolint: gosec
	dst = engine.AppendUint32(dst, uint32(r.SequenceCount)) //nolint: gosec
	for _, c := range r.SampleCounts {
		dst = engine.AppendUint32(dst, uint32(c)) //nolint: gosec
	}

	return dst
}

// ParseOffsetRow decodes a row for a file with numStreams streams.
//
// Parameters:
//   - data: bytes of the row (must be at least RowWidth(numStreams) bytes)
//   - numStreams: number of streams declared by the header
//   - engine: byte order
//
// Returns:
//   - OffsetRow: the decoded row
//   - error: ErrInvalidOffsetRow if data is too short
func ParseOffsetRow(data []byte, numStreams int, engine endian.EndianEngine) (OffsetRow, error) {
	width := RowWidth(numStreams)
	if numStreams < 0 || len(data) < width {
		return OffsetRow{}, fmt.Errorf("%w: need %d bytes, have %d", errs.ErrInvalidOffsetRow, width, len(data))
	}

	row := OffsetRow{
		Offset:        int64(engine.Uint64(data[0:8])),  //nolint: gosec
		SequenceCount: int32(engine.Uint32(data[8:12])), //nolint: gosec
		SampleCounts:  make([]int32, numStreams),
	}
	for i := range row.SampleCounts {
		pos := OffsetFieldSize + (1+i)*CountFieldSize
		row.SampleCounts[i] = int32(engine.Uint32(data[pos : pos+CountFieldSize])) //nolint: gosec
	}

	return row, nil
}

// OffsetIndex is the in-memory offset table of a chunk file.
//
// It holds numChunks+1 fixed-width rows; the last row is a sentinel whose
// offset marks the end of the data region, so the size of every chunk,
// including the last one, is offset[i+1] - offset[i].
//
// An OffsetIndex is immutable after construction. All methods are safe for
// concurrent use without locking.
type OffsetIndex struct {
	data       []byte
	engine     endian.EndianEngine
	starts     []int64
	numChunks  int
	numStreams int
	rowWidth   int
	totalSeqs  int64
}

// NewOffsetIndex builds an index over raw offset table bytes.
//
// The index keeps a read-only view of data; callers must not modify it
// afterwards. The cumulative sequence start of every chunk is computed here
// in a single pass, with the first chunk starting at zero.
//
// Parameters:
//   - data: the offset index region, exactly (numChunks+1) × RowWidth(numStreams) bytes
//   - numChunks: number of real chunks (the sentinel row is not counted)
//   - numStreams: number of streams declared by the header
//   - engine: byte order of the file
//
// Returns:
//   - *OffsetIndex: the index
//   - error: ErrInvalidOffsetRow if the region size does not match
func NewOffsetIndex(data []byte, numChunks, numStreams int, engine endian.EndianEngine) (*OffsetIndex, error) {
	if numChunks < 0 || numStreams < 0 {
		return nil, fmt.Errorf("%w: negative chunk (%d) or stream (%d) count", errs.ErrInvalidOffsetRow, numChunks, numStreams)
	}

	rowWidth := RowWidth(numStreams)
	if want := (numChunks + 1) * rowWidth; len(data) != want {
		return nil, fmt.Errorf("%w: offset index is %d bytes, want %d", errs.ErrInvalidOffsetRow, len(data), want)
	}

	idx := &OffsetIndex{
		data:       data,
		engine:     engine,
		numChunks:  numChunks,
		numStreams: numStreams,
		rowWidth:   rowWidth,
		starts:     make([]int64, numChunks),
	}

	var seen int64
	for c := range numChunks {
		idx.starts[c] = seen
		seen += int64(idx.sequenceCount(c))
	}
	idx.totalSeqs = seen

	return idx, nil
}

// NumChunks returns the number of chunks, not counting the sentinel row.
func (x *OffsetIndex) NumChunks() int {
	return x.numChunks
}

// NumStreams returns the number of per-stream sample count columns.
func (x *OffsetIndex) NumStreams() int {
	return x.numStreams
}

// RowWidth returns the width of one row in bytes.
func (x *OffsetIndex) RowWidth() int {
	return x.rowWidth
}

// TotalSequences returns the sum of the sequence counts of all chunks.
func (x *OffsetIndex) TotalSequences() int64 {
	return x.totalSeqs
}

// Row decodes the row of chunkID into a typed struct.
func (x *OffsetIndex) Row(chunkID int) (OffsetRow, error) {
	if err := x.checkChunk(chunkID); err != nil {
		return OffsetRow{}, err
	}

	return ParseOffsetRow(x.row(chunkID), x.numStreams, x.engine)
}

// Offset returns the byte offset of chunkID relative to the data region.
func (x *OffsetIndex) Offset(chunkID int) (int64, error) {
	if err := x.checkChunk(chunkID); err != nil {
		return 0, err
	}

	return x.offset(chunkID), nil
}

// EndOffset returns the sentinel offset, i.e. the size of the data region
// covered by the index.
func (x *OffsetIndex) EndOffset() int64 {
	return x.offset(x.numChunks)
}

// SequenceCount returns the number of sequences in chunkID.
func (x *OffsetIndex) SequenceCount(chunkID int) (int32, error) {
	if err := x.checkChunk(chunkID); err != nil {
		return 0, err
	}

	return x.sequenceCount(chunkID), nil
}

// SampleCount returns the number of samples of stream in chunkID.
//
// Passing AllStreams returns the sequence count of the chunk, which lets
// callers treat "per sequence" and "per sample" counts uniformly.
func (x *OffsetIndex) SampleCount(chunkID int, stream int) (int32, error) {
	if err := x.checkChunk(chunkID); err != nil {
		return 0, err
	}

	if stream == AllStreams {
		return x.sequenceCount(chunkID), nil
	}

	if stream < 0 || stream >= x.numStreams {
		return 0, fmt.Errorf("%w: stream %d, file has %d streams", errs.ErrInvalidStreamIndex, stream, x.numStreams)
	}

	return x.sampleCount(chunkID, stream), nil
}

// ChunkByteSize returns offset[chunkID+1] - offset[chunkID].
func (x *OffsetIndex) ChunkByteSize(chunkID int) (int64, error) {
	if err := x.checkChunk(chunkID); err != nil {
		return 0, err
	}

	return x.chunkByteSize(chunkID), nil
}

// SequenceStart returns the number of sequences in all chunks before chunkID.
// Adding a chunk-relative sequence index yields a file-wide sequence id.
func (x *OffsetIndex) SequenceStart(chunkID int) (int64, error) {
	if err := x.checkChunk(chunkID); err != nil {
		return 0, err
	}

	return x.starts[chunkID], nil
}

// Validate checks the structural invariants of the index against the size
// of the data region: the first offset is not negative, offsets never
// decrease, the sentinel lies inside the data region and no count is negative.
func (x *OffsetIndex) Validate(dataRegionSize int64) error {
	prev := x.offset(0)
	if prev < 0 {
		return fmt.Errorf("%w: chunk 0 has negative offset %d", errs.ErrCorruptHeader, prev)
	}

	for c := range x.numChunks {
		next := x.offset(c + 1)
		if next < prev {
			return fmt.Errorf("%w: offset of chunk %d (%d) precedes offset of chunk %d (%d)",
				errs.ErrCorruptHeader, c+1, next, c, prev)
		}
		prev = next

		if n := x.sequenceCount(c); n < 0 {
			return fmt.Errorf("%w: chunk %d has negative sequence count %d", errs.ErrCorruptHeader, c, n)
		}

		for s := range x.numStreams {
			if n := x.sampleCount(c, s); n < 0 {
				return fmt.Errorf("%w: chunk %d stream %d has negative sample count %d", errs.ErrCorruptHeader, c, s, n)
			}
		}
	}

	if end := x.EndOffset(); end > dataRegionSize {
		return fmt.Errorf("%w: data region ends at %d but file holds %d data bytes", errs.ErrCorruptHeader, end, dataRegionSize)
	}

	return nil
}

func (x *OffsetIndex) checkChunk(chunkID int) error {
	if chunkID < 0 || chunkID >= x.numChunks {
		return fmt.Errorf("%w: chunk %d, index has %d chunks", errs.ErrIndexOutOfRange, chunkID, x.numChunks)
	}

	return nil
}

// row returns the raw bytes of row i; i may address the sentinel row.
func (x *OffsetIndex) row(i int) []byte {
	start := i * x.rowWidth
	return x.data[start : start+x.rowWidth]
}

func (x *OffsetIndex) offset(i int) int64 {
	return int64(x.engine.Uint64(x.row(i)[0:OffsetFieldSize])) //nolint: gosec
}

func (x *OffsetIndex) sequenceCount(i int) int32 {
	return int32(x.engine.Uint32(x.row(i)[OffsetFieldSize : OffsetFieldSize+CountFieldSize])) //nolint: gosec
}

func (x *OffsetIndex) sampleCount(i, stream int) int32 {
	pos := OffsetFieldSize + (1+stream)*CountFieldSize
	return int32(x.engine.Uint32(x.row(i)[pos : pos+CountFieldSize])) //nolint: gosec
}

func (x *OffsetIndex) chunkByteSize(i int) int64 {
	return x.offset(i+1) - x.offset(i)
}
