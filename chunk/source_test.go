package chunk

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "src.bin")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	return path
}

func TestSources_ReadAt(t *testing.T) {
	data := []byte("0123456789")
	path := writeTemp(t, data)

	file, err := OpenFileSource(path)
	require.NoError(t, err)
	defer file.Close()

	mapped, err := OpenMmapSource(path)
	require.NoError(t, err)
	defer mapped.Close()

	require.Equal(t, path, file.Name())
	require.Equal(t, data, mapped.Bytes())
	require.NoError(t, adviseRandom(file))
	require.NoError(t, adviseRandom(mapped))

	for name, src := range map[string]ByteSource{"file": file, "mmap": mapped} {
		t.Run(name, func(t *testing.T) {
			require.Equal(t, int64(len(data)), src.Size())

			buf := make([]byte, 4)
			n, err := src.ReadAt(buf, 3)
			require.NoError(t, err)
			require.Equal(t, 4, n)
			require.Equal(t, "3456", string(buf))

			n, err = src.ReadAt(buf, 8)
			require.ErrorIs(t, err, io.EOF)
			require.Equal(t, 2, n)

			_, err = src.ReadAt(buf, 10)
			require.ErrorIs(t, err, io.EOF)

			_, err = src.ReadAt(buf, -1)
			require.Error(t, err)
		})
	}
}

func TestMmapSource_Empty(t *testing.T) {
	src, err := OpenMmapSource(writeTemp(t, nil))
	require.NoError(t, err)

	require.Zero(t, src.Size())
	require.NoError(t, adviseRandom(src))

	_, err = src.ReadAt(make([]byte, 1), 0)
	require.ErrorIs(t, err, io.EOF)

	require.NoError(t, src.Close())
	require.NoError(t, src.Close())
}
