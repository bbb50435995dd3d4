package chunk

import (
	"fmt"
	"io"
	"os"

	"github.com/edsrzf/mmap-go"

	"github.com/arloliu/seqchunk/errs"
)

// MmapSource is a ByteSource backed by a read-only memory mapping of a file.
//
// ReadAt copies out of the mapping, so chunk buffers never point into it and
// stay valid after Close.
type MmapSource struct {
	f    *os.File
	data mmap.MMap
}

var _ ByteSource = (*MmapSource)(nil)

// OpenMmapSource maps path read-only.
func OpenMmapSource(path string) (*MmapSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrFileOpen, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: stat %s: %w", errs.ErrFileOpen, path, err)
	}

	// Mapping an empty file fails on most platforms.
	if info.Size() == 0 {
		return &MmapSource{f: f}, nil
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: mmap %s: %w", errs.ErrFileOpen, path, err)
	}

	return &MmapSource{f: f, data: m}, nil
}

// ReadAt implements io.ReaderAt.
func (s *MmapSource) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, fmt.Errorf("mmap read at negative offset %d", off)
	}
	if off >= int64(len(s.data)) {
		if len(p) == 0 {
			return 0, nil
		}

		return 0, io.EOF
	}

	n := copy(p, s.data[off:])
	if n < len(p) {
		return n, io.EOF
	}

	return n, nil
}

// Size returns the length of the mapping.
func (s *MmapSource) Size() int64 {
	return int64(len(s.data))
}

// Bytes returns the mapped file. The slice is valid until Close and must not
// be modified.
func (s *MmapSource) Bytes() []byte {
	return s.data
}

// Close unmaps and closes the file.
func (s *MmapSource) Close() error {
	if s.data != nil {
		if err := s.data.Unmap(); err != nil {
			return err
		}
		s.data = nil
	}

	if s.f != nil {
		err := s.f.Close()
		s.f = nil

		return err
	}

	return nil
}
