package chunk

import (
	"fmt"

	"github.com/arloliu/seqchunk/encoding"
	"github.com/arloliu/seqchunk/errs"
)

// Chunk is the decoded content of one chunk: for every stream, one
// SequenceData per sequence in chunk order.
//
// A Chunk owns its data; it does not reference the buffer it was decoded from.
type Chunk struct {
	id            int
	firstSequence int64
	numSequences  int
	streams       [][]encoding.SequenceData
}

// ID returns the chunk id.
func (c *Chunk) ID() int {
	return c.id
}

// NumStreams returns the number of streams.
func (c *Chunk) NumStreams() int {
	return len(c.streams)
}

// NumSequences returns the number of sequences in the chunk.
func (c *Chunk) NumSequences() int {
	return c.numSequences
}

// FirstSequenceID returns the global id of the first sequence in the chunk.
func (c *Chunk) FirstSequenceID() int64 {
	return c.firstSequence
}

// Stream returns the sequences of stream i in chunk order.
func (c *Chunk) Stream(i int) ([]encoding.SequenceData, error) {
	if i < 0 || i >= len(c.streams) {
		return nil, fmt.Errorf("%w: %d, chunk has %d streams", errs.ErrInvalidStreamIndex, i, len(c.streams))
	}

	return c.streams[i], nil
}

// Sequence returns the data of every stream for the sequence at index
// within the chunk, in stream order.
func (c *Chunk) Sequence(index int) ([]encoding.SequenceData, error) {
	if index < 0 || index >= c.numSequences {
		return nil, fmt.Errorf("%w: sequence %d, chunk %d has %d sequences",
			errs.ErrIndexOutOfRange, index, c.id, c.numSequences)
	}

	out := make([]encoding.SequenceData, len(c.streams))
	for s, seqs := range c.streams {
		out[s] = seqs[index]
	}

	return out, nil
}
