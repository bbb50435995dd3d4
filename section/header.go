package section

import (
	"bytes"
	"fmt"
	"io"

	"github.com/arloliu/seqchunk/endian"
	"github.com/arloliu/seqchunk/errs"
	"github.com/arloliu/seqchunk/format"
)

// StreamDescriptor describes one stream declared in the file header.
//
// On disk (little-endian):
//
//	[uint8 nameLen][name][uint8 storage][uint8 element][uint8 width][uint8 compression][int32 sampleDim]
type StreamDescriptor struct {
	// Name identifies the stream, e.g. "features" or "labels".
	Name string
	// Storage selects the dense or sparse decoder.
	Storage format.StorageType
	// Element is the value type of every element in the stream.
	Element format.ElementType
	// ElementWidth is the encoded width of one element in bytes. It must agree with Element.
	ElementWidth uint8
	// Compression is applied to the stream's run inside each chunk.
	Compression format.CompressionType
	// SampleDim is the number of values per dense sample, or the feature
	// dimension of a sparse sample.
	SampleDim int32
}

// Validate checks the descriptor for internal consistency.
func (d StreamDescriptor) Validate() error {
	if len(d.Name) > MaxStreamNameLength {
		return fmt.Errorf("%w: name length %d exceeds %d", errs.ErrInvalidStreamDescriptor, len(d.Name), MaxStreamNameLength)
	}

	if !d.Storage.IsValid() {
		return fmt.Errorf("%w: stream %q has unknown storage type %d", errs.ErrInvalidStreamDescriptor, d.Name, d.Storage)
	}

	width := d.Element.Width()
	if width == 0 {
		return fmt.Errorf("%w: stream %q has unknown element type %d", errs.ErrInvalidStreamDescriptor, d.Name, d.Element)
	}

	if int(d.ElementWidth) != width {
		return fmt.Errorf("%w: stream %q declares width %d for %s elements", errs.ErrInvalidStreamDescriptor, d.Name, d.ElementWidth, d.Element)
	}

	if !d.Compression.IsValid() {
		return fmt.Errorf("%w: stream %q has unknown compression %d", errs.ErrInvalidStreamDescriptor, d.Name, d.Compression)
	}

	if d.SampleDim <= 0 {
		return fmt.Errorf("%w: stream %q has non-positive sample dimension %d", errs.ErrInvalidStreamDescriptor, d.Name, d.SampleDim)
	}

	return nil
}

// Size returns the encoded size of the descriptor in bytes.
func (d StreamDescriptor) Size() int {
	return 1 + len(d.Name) + streamDescriptorFixedSize
}

// AppendTo appends the encoded descriptor to dst.
func (d StreamDescriptor) AppendTo(dst []byte, engine endian.EndianEngine) []byte {
	dst = append(dst, uint8(len(d.Name))) //nolint: gosec
	dst = append(dst, d.Name...)
	dst = append(dst, uint8(d.Storage), uint8(d.Element), d.ElementWidth, uint8(d.Compression))
	dst = engine.AppendUint32(dst, uint32(d.SampleDim)) //nolint: gosec

	return dst
}

// NewStreamDescriptor creates a descriptor with the element width derived from
// the element type and no compression.
func NewStreamDescriptor(name string, storage format.StorageType, element format.ElementType, sampleDim int) StreamDescriptor {
	return StreamDescriptor{
		Name:         name,
		Storage:      storage,
		Element:      element,
		ElementWidth: uint8(element.Width()), //nolint: gosec
		Compression:  format.CompressionNone,
		SampleDim:    int32(sampleDim), //nolint: gosec
	}
}

// FileHeader is the variable-size header at the start of a chunk file.
//
// Layout:
//
//	[int64 version][int32 numStreams][numStreams × StreamDescriptor][int64 numChunks][int64 numSequences]
//
// The offset index starts immediately after the header and the data region
// immediately after the offset index.
type FileHeader struct {
	Version      int64
	Streams      []StreamDescriptor
	NumChunks    int64
	NumSequences int64
}

// NewFileHeader creates a header for the given streams with the supported version.
// Chunk and sequence counts are filled in by the writer.
func NewFileHeader(streams []StreamDescriptor) *FileHeader {
	return &FileHeader{
		Version: SupportedVersion,
		Streams: streams,
	}
}

// NumStreams returns the number of declared streams.
func (h *FileHeader) NumStreams() int {
	return len(h.Streams)
}

// Size returns the encoded size of the header in bytes.
func (h *FileHeader) Size() int {
	size := headerPrefixSize + headerSuffixSize
	for _, s := range h.Streams {
		size += s.Size()
	}

	return size
}

// OffsetIndexSize returns the size of the offset index region, sentinel row included.
func (h *FileHeader) OffsetIndexSize() int64 {
	return (h.NumChunks + 1) * int64(RowWidth(h.NumStreams()))
}

// Validate checks the header fields without touching the offset index.
func (h *FileHeader) Validate() error {
	if h.Version != SupportedVersion {
		return fmt.Errorf("%w: got %d, want %d", errs.ErrVersionMismatch, h.Version, SupportedVersion)
	}

	if len(h.Streams) == 0 || len(h.Streams) > MaxStreams {
		return fmt.Errorf("%w: stream count %d out of range [1, %d]", errs.ErrCorruptHeader, len(h.Streams), MaxStreams)
	}

	for i, s := range h.Streams {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("%w: stream %d: %w", errs.ErrCorruptHeader, i, err)
		}
	}

	if h.NumChunks < 0 {
		return fmt.Errorf("%w: negative chunk count %d", errs.ErrCorruptHeader, h.NumChunks)
	}

	if h.NumSequences < 0 {
		return fmt.Errorf("%w: negative sequence count %d", errs.ErrCorruptHeader, h.NumSequences)
	}

	return nil
}

// AppendTo appends the encoded header to dst.
func (h *FileHeader) AppendTo(dst []byte, engine endian.EndianEngine) []byte {
	dst = engine.AppendUint64(dst, uint64(h.Version))      //nolint: gosec
	dst = engine.AppendUint32(dst, uint32(len(h.Streams))) //nolint: gosec
	for _, s := range h.Streams {
		dst = s.AppendTo(dst, engine)
	}
	dst = engine.AppendUint64(dst, uint64(h.NumChunks))    //nolint: gosec
	dst = engine.AppendUint64(dst, uint64(h.NumSequences)) //nolint: gosec

	return dst
}

// Bytes serializes the header using the file byte order.
func (h *FileHeader) Bytes() []byte {
	return h.AppendTo(make([]byte, 0, h.Size()), endian.FileEngine())
}

// ReadFileHeader reads and validates a header from r.
//
// The version is checked before anything else is read, so a file with an
// unsupported version fails with ErrVersionMismatch even if the rest of the
// header is garbage. Short reads fail with ErrCorruptHeader.
//
// Returns:
//   - FileHeader: the parsed header
//   - int: number of bytes consumed from r
//   - error: ErrVersionMismatch, ErrCorruptHeader or a read error
func ReadFileHeader(r io.Reader, engine endian.EndianEngine) (FileHeader, int, error) {
	var h FileHeader
	consumed := 0

	var version [8]byte
	if err := readHeaderField(r, version[:], "version"); err != nil {
		return h, consumed, err
	}
	consumed += len(version)

	h.Version = int64(engine.Uint64(version[:])) //nolint: gosec
	if h.Version != SupportedVersion {
		return h, consumed, fmt.Errorf("%w: got %d, want %d", errs.ErrVersionMismatch, h.Version, SupportedVersion)
	}

	var count [4]byte
	if err := readHeaderField(r, count[:], "stream count"); err != nil {
		return h, consumed, err
	}
	consumed += len(count)

	numStreams := int32(engine.Uint32(count[:])) //nolint: gosec
	if numStreams <= 0 || numStreams > MaxStreams {
		return h, consumed, fmt.Errorf("%w: stream count %d out of range [1, %d]", errs.ErrCorruptHeader, numStreams, MaxStreams)
	}

	h.Streams = make([]StreamDescriptor, numStreams)
	for i := range h.Streams {
		d, n, err := readStreamDescriptor(r, engine)
		consumed += n
		if err != nil {
			return h, consumed, fmt.Errorf("%w: stream %d: %w", errs.ErrCorruptHeader, i, err)
		}
		h.Streams[i] = d
	}

	var suffix [headerSuffixSize]byte
	if err := readHeaderField(r, suffix[:], "chunk counts"); err != nil {
		return h, consumed, err
	}
	consumed += headerSuffixSize

	h.NumChunks = int64(engine.Uint64(suffix[0:8]))     //nolint: gosec
	h.NumSequences = int64(engine.Uint64(suffix[8:16])) //nolint: gosec

	if err := h.Validate(); err != nil {
		return h, consumed, err
	}

	return h, consumed, nil
}

// ParseFileHeader parses a header from the start of data.
func ParseFileHeader(data []byte, engine endian.EndianEngine) (FileHeader, int, error) {
	return ReadFileHeader(bytes.NewReader(data), engine)
}

func readStreamDescriptor(r io.Reader, engine endian.EndianEngine) (StreamDescriptor, int, error) {
	var d StreamDescriptor

	var nameLen [1]byte
	if _, err := io.ReadFull(r, nameLen[:]); err != nil {
		return d, 0, fmt.Errorf("%w: name length: %w", errs.ErrInvalidHeaderSize, err)
	}

	rest := make([]byte, int(nameLen[0])+streamDescriptorFixedSize)
	if _, err := io.ReadFull(r, rest); err != nil {
		return d, 1, fmt.Errorf("%w: descriptor body: %w", errs.ErrInvalidHeaderSize, err)
	}

	n := int(nameLen[0])
	d.Name = string(rest[:n])
	fixed := rest[n:]
	d.Storage = format.StorageType(fixed[0])
	d.Element = format.ElementType(fixed[1])
	d.ElementWidth = fixed[2]
	d.Compression = format.CompressionType(fixed[3])
	d.SampleDim = int32(engine.Uint32(fixed[4:8])) //nolint: gosec

	return d, 1 + len(rest), d.Validate()
}

func readHeaderField(r io.Reader, buf []byte, field string) error {
	if _, err := io.ReadFull(r, buf); err != nil {
		return fmt.Errorf("%w: reading %s: %w", errs.ErrCorruptHeader, field, err)
	}

	return nil
}
