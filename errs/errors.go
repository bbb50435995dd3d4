// Package errs defines the sentinel errors returned by seqchunk packages.
//
// Callers should match errors with errors.Is. Most errors are wrapped with
// additional context (chunk id, stream name, byte offsets) before they are
// returned.
package errs

import (
	"errors"
	"fmt"
)

// Open-time errors. A reader that fails with one of these is never returned.
var (
	ErrFileOpen          = errors.New("failed to open chunk file")
	ErrCorruptHeader     = errors.New("corrupt chunk file header")
	ErrVersionMismatch   = errors.New("unsupported chunk file version")
	ErrStreamMismatch    = errors.New("configured streams do not match file streams")
	ErrInvalidHeaderSize = errors.New("invalid header size")
)

// Offset index errors.
var (
	ErrIndexOutOfRange    = errors.New("chunk index out of range")
	ErrInvalidStreamIndex = errors.New("invalid stream index")
	ErrInvalidOffsetRow   = errors.New("invalid offset row size")
)

// Per-request errors. The reader stays usable after any of these.
var (
	ErrInvalidChunkID = errors.New("invalid chunk id")
	ErrIORead         = errors.New("chunk read failed")
	ErrChunkDecode    = errors.New("chunk decode failed")
	ErrRunTooLarge    = errors.New("decompressed run exceeds its size limit")
	ErrReaderClosed   = errors.New("reader is closed")
)

// Writer and stream configuration errors.
var (
	ErrInvalidStreamDescriptor = errors.New("invalid stream descriptor")
	ErrStreamCountMismatch     = errors.New("stream count mismatch")
	ErrSequenceCountMismatch   = errors.New("sequence count mismatch")
	ErrUnsupportedSequence     = errors.New("unsupported sequence data type")
	ErrWriterFinished          = errors.New("writer already finished")
)

// ChunkDecodeError reports a failure to decode one stream of one chunk.
//
// It matches ErrChunkDecode with errors.Is and unwraps to the underlying cause.
type ChunkDecodeError struct {
	Err         error
	Stream      string
	ChunkID     int
	StreamIndex int
}

func (e *ChunkDecodeError) Error() string {
	if e.StreamIndex < 0 {
		return fmt.Sprintf("%s: chunk %d: %v", ErrChunkDecode, e.ChunkID, e.Err)
	}

	return fmt.Sprintf("%s: chunk %d, stream %d (%q): %v", ErrChunkDecode, e.ChunkID, e.StreamIndex, e.Stream, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ChunkDecodeError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrChunkDecode.
func (e *ChunkDecodeError) Is(target error) bool {
	return target == ErrChunkDecode
}
