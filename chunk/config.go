package chunk

import (
	"fmt"
	"log/slog"

	"github.com/arloliu/seqchunk/errs"
	"github.com/arloliu/seqchunk/format"
	"github.com/arloliu/seqchunk/internal/options"
	"github.com/arloliu/seqchunk/section"
)

// StreamConfig declares a stream the caller expects to find in the file.
//
// Zero-valued fields other than Name are not checked.
type StreamConfig struct {
	// Name is the stream name stored in the file header.
	Name string
	// Alias, when set, replaces Name in the descriptions the reader exposes.
	Alias string
	// Storage is the expected storage type.
	Storage format.StorageType
	// Element is the expected element type.
	Element format.ElementType
	// SampleDim is the expected sample dimension.
	SampleDim int
}

// check reports whether desc satisfies the configuration.
func (c StreamConfig) check(i int, desc section.StreamDescriptor) error {
	if c.Name != desc.Name {
		return fmt.Errorf("%w: stream %d is %q, configured %q", errs.ErrStreamMismatch, i, desc.Name, c.Name)
	}
	if c.Storage != 0 && c.Storage != desc.Storage {
		return fmt.Errorf("%w: stream %q is %s, configured %s", errs.ErrStreamMismatch, desc.Name, desc.Storage, c.Storage)
	}
	if c.Element != 0 && c.Element != desc.Element {
		return fmt.Errorf("%w: stream %q holds %s, configured %s", errs.ErrStreamMismatch, desc.Name, desc.Element, c.Element)
	}
	if c.SampleDim != 0 && int32(c.SampleDim) != desc.SampleDim { //nolint: gosec
		return fmt.Errorf("%w: stream %q has dimension %d, configured %d", errs.ErrStreamMismatch, desc.Name, desc.SampleDim, c.SampleDim)
	}

	return nil
}

// ReaderConfig holds the reader settings assembled from ReaderOptions.
type ReaderConfig struct {
	logger  *slog.Logger
	streams []StreamConfig
	rename  map[string]string
	mmap    bool
}

// ReaderOption configures a Reader.
type ReaderOption = options.Option[*ReaderConfig]

func newReaderConfig(opts ...ReaderOption) (*ReaderConfig, error) {
	cfg := &ReaderConfig{
		logger: slog.New(slog.DiscardHandler),
	}

	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// WithLogger sets the logger used for open summaries and decode failures.
// A nil logger keeps the default, which discards everything.
func WithLogger(logger *slog.Logger) ReaderOption {
	return options.NoError(func(c *ReaderConfig) {
		if logger != nil {
			c.logger = logger
		}
	})
}

// WithStreams declares the streams the caller expects, in file order.
//
// Open fails with errs.ErrStreamMismatch when the file declares a different
// number of streams or a stream disagrees with its configuration.
func WithStreams(streams ...StreamConfig) ReaderOption {
	return options.New(func(c *ReaderConfig) error {
		seen := make(map[string]struct{}, len(streams))
		for _, s := range streams {
			if s.Name == "" {
				return fmt.Errorf("%w: stream config without a name", errs.ErrInvalidStreamDescriptor)
			}
			if _, dup := seen[s.Name]; dup {
				return fmt.Errorf("%w: stream %q configured twice", errs.ErrInvalidStreamDescriptor, s.Name)
			}
			seen[s.Name] = struct{}{}
		}
		c.streams = streams

		return nil
	})
}

// WithStreamRename maps file stream names to the names the reader exposes.
// Names missing from the map are kept. Aliases set through WithStreams win
// over this map.
func WithStreamRename(rename map[string]string) ReaderOption {
	return options.NoError(func(c *ReaderConfig) {
		c.rename = make(map[string]string, len(rename))
		for from, to := range rename {
			c.rename[from] = to
		}
	})
}

// WithMmap makes Open map the file into memory instead of issuing pread calls.
// It has no effect on NewReader.
func WithMmap(enabled bool) ReaderOption {
	return options.NoError(func(c *ReaderConfig) {
		c.mmap = enabled
	})
}

// WriterConfig holds the writer settings assembled from WriterOptions.
type WriterConfig struct {
	chunkCapacity int
}

// WriterOption configures a Writer.
type WriterOption = options.Option[*WriterConfig]

func newWriterConfig(opts ...WriterOption) (*WriterConfig, error) {
	cfg := &WriterConfig{chunkCapacity: defaultChunkCapacity}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// WithChunkCapacityHint preallocates room for n chunks.
func WithChunkCapacityHint(n int) WriterOption {
	return options.New(func(c *WriterConfig) error {
		if n < 0 {
			return fmt.Errorf("chunk capacity hint must not be negative, got %d", n)
		}
		c.chunkCapacity = n

		return nil
	})
}
