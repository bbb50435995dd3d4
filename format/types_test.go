package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStorageType(t *testing.T) {
	require.True(t, StorageDense.IsValid())
	require.True(t, StorageSparse.IsValid())
	require.False(t, StorageType(0).IsValid())
	require.False(t, StorageType(3).IsValid())

	require.Equal(t, "Dense", StorageDense.String())
	require.Equal(t, "Sparse", StorageSparse.String())
}

func TestElementType_Width(t *testing.T) {
	tests := []struct {
		typ   ElementType
		width int
	}{
		{ElementFloat32, 4},
		{ElementFloat64, 8},
		{ElementType(0), 0},
		{ElementType(9), 0},
	}

	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			require.Equal(t, tt.width, tt.typ.Width())
		})
	}
}

func TestCompressionType(t *testing.T) {
	for _, ct := range []CompressionType{CompressionNone, CompressionZstd, CompressionS2, CompressionLZ4} {
		require.True(t, ct.IsValid(), ct.String())
		require.NotEqual(t, "Unknown", ct.String())
	}

	require.False(t, CompressionType(0).IsValid())
	require.Equal(t, "Unknown", CompressionType(5).String())
}
