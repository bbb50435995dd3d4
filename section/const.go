package section

// File format version and structural limits.
const (
	// SupportedVersion is the only file format version this package reads and writes.
	SupportedVersion int64 = 1

	MaxStreams          = 1024 // maximum number of streams declared by one file
	MaxStreamNameLength = 255  // stream names are stored with a uint8 length prefix
)

// Field sizes of the fixed parts of a file.
const (
	OffsetFieldSize = 8 // int64 byte offset at the start of every offset row
	CountFieldSize  = 4 // int32 sequence count and per-stream sample counts

	headerPrefixSize          = 12 // version (int64) + numStreams (int32)
	headerSuffixSize          = 16 // numChunks (int64) + numSequences (int64)
	streamDescriptorFixedSize = 8  // storage, element, width, compression (uint8 each) + sampleDim (int32)
)

// AllStreams is the stream selector accepted by OffsetIndex.SampleCount that
// returns the sequence count of a chunk instead of a per-stream sample count.
const AllStreams = -1
