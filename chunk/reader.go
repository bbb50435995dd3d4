package chunk

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/arloliu/seqchunk/encoding"
	"github.com/arloliu/seqchunk/endian"
	"github.com/arloliu/seqchunk/errs"
	"github.com/arloliu/seqchunk/internal/hash"
	"github.com/arloliu/seqchunk/internal/pool"
	"github.com/arloliu/seqchunk/section"
)

// ChunkDescription summarizes one chunk without reading its bytes.
type ChunkDescription struct {
	ID            int
	SequenceCount int
	// NumSamples is the largest per-stream sample count of the chunk.
	NumSamples int
	ByteSize   int64
}

// SequenceDescription locates one sequence inside the file.
type SequenceDescription struct {
	ChunkID      int
	IndexInChunk int
	GlobalID     int64
	// Key identifies the sequence to downstream consumers. Files carry no
	// explicit keys, so it equals GlobalID.
	Key int64
}

// StreamInfo describes a stream as exposed by the reader.
type StreamInfo struct {
	// Name is the exposed name, after renaming.
	Name string
	// Descriptor is the descriptor stored in the file header.
	Descriptor section.StreamDescriptor
}

// Reader gives random access to the chunks of a chunk file.
//
// The offset index is loaded once at open and is immutable afterwards. All
// methods are safe for concurrent use; Close waits for in-flight reads.
type Reader struct {
	mu     sync.RWMutex
	closed bool

	src    ByteSource
	closer io.Closer
	logger *slog.Logger

	header      section.FileHeader
	index       *section.OffsetIndex
	streams     []StreamInfo
	decoders    []encoding.StreamDecoder
	dataStart   int64
	fingerprint uint64
}

// closableSource is a ByteSource the reader owns.
type closableSource interface {
	ByteSource
	io.Closer
}

// Open opens the chunk file at path.
//
// The header and offset index are read and validated before Open returns. On
// any failure the file is closed and no reader is returned.
func Open(path string, opts ...ReaderOption) (*Reader, error) {
	cfg, err := newReaderConfig(opts...)
	if err != nil {
		return nil, err
	}

	var src closableSource
	if cfg.mmap {
		m, err := OpenMmapSource(path)
		if err != nil {
			return nil, err
		}
		src = m
	} else {
		f, err := OpenFileSource(path)
		if err != nil {
			return nil, err
		}
		src = f
	}

	if err := adviseRandom(src); err != nil {
		cfg.logger.Debug("random access advice rejected", slog.String("path", path), slog.Any("error", err))
	}

	r, err := newReader(src, cfg)
	if err != nil {
		src.Close()
		return nil, err
	}
	r.closer = src

	r.logger.Debug("chunk file opened",
		slog.String("path", path),
		slog.Bool("mmap", cfg.mmap),
		slog.Int64("size", src.Size()),
		slog.Int("chunks", r.index.NumChunks()),
		slog.Int64("sequences", r.index.TotalSequences()),
		slog.Int("streams", len(r.streams)))

	return r, nil
}

// NewReader creates a reader over src.
//
// If src implements io.Closer, the reader takes ownership of it once
// NewReader succeeds and closes it in Close. On failure src is left open.
func NewReader(src ByteSource, opts ...ReaderOption) (*Reader, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: nil byte source", errs.ErrFileOpen)
	}

	cfg, err := newReaderConfig(opts...)
	if err != nil {
		return nil, err
	}

	r, err := newReader(src, cfg)
	if err != nil {
		return nil, err
	}

	if c, ok := src.(io.Closer); ok {
		r.closer = c
	}

	r.logger.Debug("chunk source opened",
		slog.Int64("size", src.Size()),
		slog.Int("chunks", r.index.NumChunks()),
		slog.Int64("sequences", r.index.TotalSequences()),
		slog.Int("streams", len(r.streams)))

	return r, nil
}

func newReader(src ByteSource, cfg *ReaderConfig) (*Reader, error) {
	engine := endian.FileEngine()
	size := src.Size()

	header, headerSize, err := section.ReadFileHeader(io.NewSectionReader(src, 0, size), engine)
	if err != nil {
		return nil, err
	}

	numStreams := header.NumStreams()
	rowWidth := int64(section.RowWidth(numStreams))
	remaining := size - int64(headerSize)
	if header.NumChunks > remaining/rowWidth-1 {
		return nil, fmt.Errorf("%w: %d chunks need a %d-byte offset index, %d bytes left after the header",
			errs.ErrCorruptHeader, header.NumChunks, (header.NumChunks+1)*rowWidth, remaining)
	}

	indexData := make([]byte, header.OffsetIndexSize())
	if err := readFull(src, indexData, int64(headerSize)); err != nil {
		return nil, fmt.Errorf("%w: reading offset index: %w", errs.ErrCorruptHeader, err)
	}

	index, err := section.NewOffsetIndex(indexData, int(header.NumChunks), numStreams, engine)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrCorruptHeader, err)
	}

	dataStart := int64(headerSize) + int64(len(indexData))
	if err := index.Validate(size - dataStart); err != nil {
		return nil, err
	}

	if total := index.TotalSequences(); total != header.NumSequences {
		return nil, fmt.Errorf("%w: header declares %d sequences, offset index holds %d",
			errs.ErrCorruptHeader, header.NumSequences, total)
	}

	streams, err := bindStreams(header.Streams, cfg)
	if err != nil {
		return nil, err
	}

	decoders := make([]encoding.StreamDecoder, numStreams)
	for i, desc := range header.Streams {
		dec, err := encoding.NewStreamDecoder(desc)
		if err != nil {
			return nil, fmt.Errorf("%w: stream %d: %w", errs.ErrCorruptHeader, i, err)
		}
		decoders[i] = dec
	}

	return &Reader{
		src:         src,
		logger:      cfg.logger,
		header:      header,
		index:       index,
		streams:     streams,
		decoders:    decoders,
		dataStart:   dataStart,
		fingerprint: hash.Fingerprint(header.Bytes(), indexData),
	}, nil
}

// bindStreams checks the file streams against the configuration and applies
// renaming.
func bindStreams(descs []section.StreamDescriptor, cfg *ReaderConfig) ([]StreamInfo, error) {
	if cfg.streams != nil && len(cfg.streams) != len(descs) {
		return nil, fmt.Errorf("%w: file declares %d streams, configured %d",
			errs.ErrStreamMismatch, len(descs), len(cfg.streams))
	}

	streams := make([]StreamInfo, len(descs))
	seen := make(map[string]int, len(descs))
	for i, desc := range descs {
		name := desc.Name
		if alias, ok := cfg.rename[name]; ok && alias != "" {
			name = alias
		}

		if cfg.streams != nil {
			sc := cfg.streams[i]
			if err := sc.check(i, desc); err != nil {
				return nil, err
			}
			if sc.Alias != "" {
				name = sc.Alias
			}
		}

		if prev, dup := seen[name]; dup {
			return nil, fmt.Errorf("%w: streams %d and %d are both exposed as %q",
				errs.ErrStreamMismatch, prev, i, name)
		}
		seen[name] = i
		streams[i] = StreamInfo{Name: name, Descriptor: desc}
	}

	return streams, nil
}

// NumChunks returns the number of chunks in the file.
func (r *Reader) NumChunks() int {
	return r.index.NumChunks()
}

// NumSequences returns the number of sequences in the file.
func (r *Reader) NumSequences() int64 {
	return r.index.TotalSequences()
}

// Header returns the parsed file header.
func (r *Reader) Header() section.FileHeader {
	return r.header
}

// Streams returns the streams in file order.
func (r *Reader) Streams() []StreamInfo {
	out := make([]StreamInfo, len(r.streams))
	copy(out, r.streams)

	return out
}

// StreamIndex returns the position of the stream exposed as name.
func (r *Reader) StreamIndex(name string) (int, error) {
	for i, s := range r.streams {
		if s.Name == name {
			return i, nil
		}
	}

	return -1, fmt.Errorf("%w: no stream named %q", errs.ErrInvalidStreamIndex, name)
}

// Fingerprint returns a stable hash of the header and offset index. Two
// files with the same fingerprint have the same layout.
func (r *Reader) Fingerprint() uint64 {
	return r.fingerprint
}

// ListChunks describes every chunk in file order without reading chunk data.
func (r *Reader) ListChunks() ([]ChunkDescription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return nil, errs.ErrReaderClosed
	}

	out := make([]ChunkDescription, r.index.NumChunks())
	for i := range out {
		row, err := r.index.Row(i)
		if err != nil {
			return nil, err
		}
		size, err := r.index.ChunkByteSize(i)
		if err != nil {
			return nil, err
		}

		var samples int32
		for _, n := range row.SampleCounts {
			samples = max(samples, n)
		}

		out[i] = ChunkDescription{
			ID:            i,
			SequenceCount: int(row.SequenceCount),
			NumSamples:    int(samples),
			ByteSize:      size,
		}
	}

	return out, nil
}

// ListSequences describes the sequences of a chunk without reading chunk data.
func (r *Reader) ListSequences(chunkID int) ([]SequenceDescription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return nil, errs.ErrReaderClosed
	}

	count, err := r.index.SequenceCount(chunkID)
	if err != nil {
		return nil, invalidChunk(chunkID, err)
	}
	start, err := r.index.SequenceStart(chunkID)
	if err != nil {
		return nil, invalidChunk(chunkID, err)
	}

	out := make([]SequenceDescription, count)
	for j := range out {
		id := start + int64(j)
		out[j] = SequenceDescription{ChunkID: chunkID, IndexInChunk: j, GlobalID: id, Key: id}
	}

	return out, nil
}

// ReadChunkBytes reads the raw bytes of a chunk into a new slice.
func (r *Reader) ReadChunkBytes(chunkID int) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return nil, errs.ErrReaderClosed
	}

	off, size, err := r.chunkRange(chunkID)
	if err != nil {
		return nil, err
	}

	buf := make([]byte, size)
	if err := r.readChunk(chunkID, buf, off); err != nil {
		return nil, err
	}

	return buf, nil
}

// GetChunk reads and decodes a chunk.
//
// The raw bytes are read into a pooled buffer that is released before
// GetChunk returns; the returned chunk never references it.
func (r *Reader) GetChunk(chunkID int) (*Chunk, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return nil, errs.ErrReaderClosed
	}

	off, size, err := r.chunkRange(chunkID)
	if err != nil {
		return nil, err
	}

	bb := pool.GetChunkBuffer()
	defer pool.PutChunkBuffer(bb)

	bb.Resize(int(size))
	buf := bb.Bytes()
	if err := r.readChunk(chunkID, buf, off); err != nil {
		return nil, err
	}

	return r.parseChunk(chunkID, buf)
}

// ParseChunk decodes chunk bytes previously read with ReadChunkBytes.
//
// Streams are decoded in file order, each starting where the previous one
// ended. Bytes left over after the last stream are a decode error.
func (r *Reader) ParseChunk(chunkID int, buf []byte) (*Chunk, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return nil, errs.ErrReaderClosed
	}

	return r.parseChunk(chunkID, buf)
}

// Close releases the underlying source. Calls after Close fail with
// errs.ErrReaderClosed; closing twice is a no-op.
func (r *Reader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	if r.closer != nil {
		if err := r.closer.Close(); err != nil {
			return fmt.Errorf("close chunk source: %w", err)
		}
	}

	return nil
}

func (r *Reader) parseChunk(chunkID int, buf []byte) (*Chunk, error) {
	row, err := r.index.Row(chunkID)
	if err != nil {
		return nil, invalidChunk(chunkID, err)
	}
	start, err := r.index.SequenceStart(chunkID)
	if err != nil {
		return nil, invalidChunk(chunkID, err)
	}

	seqCount := int(row.SequenceCount)
	streams := make([][]encoding.SequenceData, len(r.decoders))
	cursor := 0
	for s, dec := range r.decoders {
		seqs, n, err := dec.Decode(buf[cursor:], seqCount, int(row.SampleCounts[s]))
		if err != nil {
			return nil, r.decodeFailure(chunkID, s, err)
		}
		if len(seqs) != seqCount {
			return nil, r.decodeFailure(chunkID, s, fmt.Errorf("decoded %d sequences, want %d", len(seqs), seqCount))
		}

		for j, seq := range seqs {
			seq.SetSequenceID(start + int64(j))
		}
		streams[s] = seqs
		cursor += n
	}

	if cursor != len(buf) {
		return nil, r.decodeFailure(chunkID, section.AllStreams,
			fmt.Errorf("%d trailing bytes after the last stream", len(buf)-cursor))
	}

	return &Chunk{
		id:            chunkID,
		firstSequence: start,
		numSequences:  seqCount,
		streams:       streams,
	}, nil
}

func (r *Reader) decodeFailure(chunkID, stream int, err error) error {
	derr := &errs.ChunkDecodeError{Err: err, ChunkID: chunkID, StreamIndex: stream}
	if stream >= 0 {
		derr.Stream = r.streams[stream].Name
	}

	r.logger.Warn("chunk decode failed",
		slog.Int("chunk", chunkID),
		slog.Int("stream", stream),
		slog.String("stream_name", derr.Stream),
		slog.Any("error", err))

	return derr
}

// chunkRange returns the absolute file offset and size of a chunk.
func (r *Reader) chunkRange(chunkID int) (int64, int64, error) {
	off, err := r.index.Offset(chunkID)
	if err != nil {
		return 0, 0, invalidChunk(chunkID, err)
	}
	size, err := r.index.ChunkByteSize(chunkID)
	if err != nil {
		return 0, 0, invalidChunk(chunkID, err)
	}

	return r.dataStart + off, size, nil
}

func (r *Reader) readChunk(chunkID int, buf []byte, off int64) error {
	if err := readFull(r.src, buf, off); err != nil {
		return fmt.Errorf("%w: chunk %d (%d bytes at offset %d): %w", errs.ErrIORead, chunkID, len(buf), off, err)
	}

	return nil
}

func invalidChunk(chunkID int, err error) error {
	return fmt.Errorf("%w: %d: %w", errs.ErrInvalidChunkID, chunkID, err)
}

// readFull fills buf with one positioned read at off. A short read is an
// error even when the source reports io.EOF alongside it.
func readFull(src io.ReaderAt, buf []byte, off int64) error {
	n, err := src.ReadAt(buf, off)
	if n == len(buf) {
		return nil
	}
	if err == nil || errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}

	return fmt.Errorf("read %d of %d bytes: %w", n, len(buf), err)
}
