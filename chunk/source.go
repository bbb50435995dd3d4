package chunk

import (
	"fmt"
	"io"
	"os"

	"github.com/arloliu/seqchunk/errs"
)

// ByteSource provides random access to the bytes of a chunk file.
//
// Every read the reader issues is a positioned ReadAt, so a source must
// support concurrent ReadAt calls. *os.File, *bytes.Reader and *MmapSource
// all do. A source that also implements io.Closer is closed by Reader.Close.
type ByteSource interface {
	io.ReaderAt
	Size() int64
}

// FileSource is a ByteSource backed by an open file.
//
// Reads go through ReadAt (pread on unix), never seek+read, so concurrent
// reads never disturb each other.
type FileSource struct {
	f    *os.File
	size int64
}

var _ ByteSource = (*FileSource)(nil)

// OpenFileSource opens path for positioned reads.
func OpenFileSource(path string) (*FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrFileOpen, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: stat %s: %w", errs.ErrFileOpen, path, err)
	}

	if !info.Mode().IsRegular() {
		f.Close()
		return nil, fmt.Errorf("%w: %s is not a regular file", errs.ErrFileOpen, path)
	}

	return &FileSource{f: f, size: info.Size()}, nil
}

// ReadAt implements io.ReaderAt.
func (s *FileSource) ReadAt(p []byte, off int64) (int, error) {
	return s.f.ReadAt(p, off)
}

// Size returns the size of the file when it was opened.
func (s *FileSource) Size() int64 {
	return s.size
}

// Name returns the path the file was opened with.
func (s *FileSource) Name() string {
	return s.f.Name()
}

// Close closes the file.
func (s *FileSource) Close() error {
	if s.f == nil {
		return nil
	}
	err := s.f.Close()
	s.f = nil

	return err
}
