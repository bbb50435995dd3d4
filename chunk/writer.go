package chunk

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/arloliu/seqchunk/encoding"
	"github.com/arloliu/seqchunk/endian"
	"github.com/arloliu/seqchunk/errs"
	"github.com/arloliu/seqchunk/internal/pool"
	"github.com/arloliu/seqchunk/section"
)

const defaultChunkCapacity = 16

// Writer builds a chunk file in memory and writes it out in one pass.
//
// Chunks are encoded as they are added; WriteTo emits the header, the offset
// index and the data region. A Writer is not safe for concurrent use.
type Writer struct {
	header   *section.FileHeader
	encoders []encoding.StreamEncoder
	rows     []section.OffsetRow
	data     *pool.ByteBuffer
	engine   endian.EndianEngine
	finished bool
}

// NewWriter creates a writer for the given streams.
func NewWriter(streams []section.StreamDescriptor, opts ...WriterOption) (*Writer, error) {
	cfg, err := newWriterConfig(opts...)
	if err != nil {
		return nil, err
	}

	if len(streams) == 0 || len(streams) > section.MaxStreams {
		return nil, fmt.Errorf("%w: %d streams, want 1 to %d", errs.ErrStreamCountMismatch, len(streams), section.MaxStreams)
	}

	encoders := make([]encoding.StreamEncoder, len(streams))
	seen := make(map[string]struct{}, len(streams))
	for i, desc := range streams {
		if _, dup := seen[desc.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate stream name %q", errs.ErrInvalidStreamDescriptor, desc.Name)
		}
		seen[desc.Name] = struct{}{}

		enc, err := encoding.NewStreamEncoder(desc)
		if err != nil {
			return nil, fmt.Errorf("stream %d: %w", i, err)
		}
		encoders[i] = enc
	}

	descs := make([]section.StreamDescriptor, len(streams))
	copy(descs, streams)

	return &Writer{
		header:   section.NewFileHeader(descs),
		encoders: encoders,
		rows:     make([]section.OffsetRow, 0, cfg.chunkCapacity),
		data:     pool.NewByteBuffer(pool.StreamBufferDefaultSize),
		engine:   endian.FileEngine(),
	}, nil
}

// AddChunk encodes one chunk. It takes one slice per stream, in stream
// order; every slice must hold the same number of sequences.
//
// A failed AddChunk leaves the writer unchanged.
func (w *Writer) AddChunk(streams ...[]encoding.SequenceData) error {
	if w.finished {
		return errs.ErrWriterFinished
	}

	if len(streams) != len(w.encoders) {
		return fmt.Errorf("%w: got %d streams, writer has %d", errs.ErrStreamCountMismatch, len(streams), len(w.encoders))
	}

	seqCount := len(streams[0])
	for s, seqs := range streams {
		if len(seqs) != seqCount {
			return fmt.Errorf("%w: stream %d has %d sequences, stream 0 has %d",
				errs.ErrSequenceCountMismatch, s, len(seqs), seqCount)
		}
	}
	if seqCount > math.MaxInt32 {
		return fmt.Errorf("%w: %d sequences in one chunk", errs.ErrSequenceCountMismatch, seqCount)
	}

	mark := w.data.Len()
	row := section.OffsetRow{
		Offset:        int64(mark),
		SequenceCount: int32(seqCount), //nolint: gosec
		SampleCounts:  make([]int32, len(w.encoders)),
	}

	for s, enc := range w.encoders {
		out, samples, err := enc.Encode(w.data.B, streams[s])
		if err != nil {
			w.data.B = w.data.B[:mark]
			return fmt.Errorf("chunk %d, stream %d: %w", len(w.rows), s, err)
		}
		if samples > math.MaxInt32 {
			w.data.B = w.data.B[:mark]
			return fmt.Errorf("%w: chunk %d, stream %d has %d samples", errs.ErrSequenceCountMismatch, len(w.rows), s, samples)
		}
		w.data.B = out
		row.SampleCounts[s] = int32(samples) //nolint: gosec
	}

	w.rows = append(w.rows, row)
	w.header.NumSequences += int64(seqCount)

	return nil
}

// NumChunks returns the number of chunks added so far.
func (w *Writer) NumChunks() int {
	return len(w.rows)
}

// WriteTo writes the complete file to dst. No chunks can be added afterwards.
func (w *Writer) WriteTo(dst io.Writer) (int64, error) {
	w.finished = true
	w.header.NumChunks = int64(len(w.rows))

	buf := w.header.Bytes()
	for _, row := range w.rows {
		buf = row.AppendTo(buf, w.engine)
	}
	sentinel := section.OffsetRow{
		Offset:       int64(w.data.Len()),
		SampleCounts: make([]int32, len(w.encoders)),
	}
	buf = sentinel.AppendTo(buf, w.engine)

	n, err := dst.Write(buf)
	written := int64(n)
	if err != nil {
		return written, fmt.Errorf("write header: %w", err)
	}

	m, err := dst.Write(w.data.Bytes())
	written += int64(m)
	if err != nil {
		return written, fmt.Errorf("write data region: %w", err)
	}

	return written, nil
}

// WriteFile writes the complete file to path. The file is written under a
// temporary name in the same directory and renamed into place.
func (w *Writer) WriteFile(path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	tmpName := tmp.Name()

	if _, err := w.WriteTo(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpName)

		return err
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", tmpName, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename %s: %w", tmpName, err)
	}

	return nil
}
