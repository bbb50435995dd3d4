//go:build linux

package chunk

import (
	"golang.org/x/sys/unix"
)

// adviseRandom tells the kernel that src is read at random offsets, which
// turns off read-ahead beyond the requested chunk.
func adviseRandom(src ByteSource) error {
	switch s := src.(type) {
	case *FileSource:
		if s.f == nil {
			return nil
		}

		return unix.Fadvise(int(s.f.Fd()), 0, s.size, unix.FADV_RANDOM)
	case *MmapSource:
		if len(s.data) == 0 {
			return nil
		}

		return unix.Madvise(s.data, unix.MADV_RANDOM)
	default:
		return nil
	}
}
