package section

import (
	"testing"

	"github.com/arloliu/seqchunk/endian"
	"github.com/arloliu/seqchunk/errs"
	"github.com/arloliu/seqchunk/format"
	"github.com/stretchr/testify/require"
)

func testStreams() []StreamDescriptor {
	sparse := NewStreamDescriptor("labels", format.StorageSparse, format.ElementFloat64, 1000)
	sparse.Compression = format.CompressionZstd

	return []StreamDescriptor{
		NewStreamDescriptor("features", format.StorageDense, format.ElementFloat32, 3),
		sparse,
	}
}

func TestNewStreamDescriptor(t *testing.T) {
	d := NewStreamDescriptor("features", format.StorageDense, format.ElementFloat64, 40)

	require.Equal(t, uint8(8), d.ElementWidth)
	require.Equal(t, format.CompressionNone, d.Compression)
	require.Equal(t, int32(40), d.SampleDim)
	require.NoError(t, d.Validate())
	require.Equal(t, 1+len("features")+streamDescriptorFixedSize, d.Size())
}

func TestStreamDescriptor_Validate(t *testing.T) {
	valid := NewStreamDescriptor("x", format.StorageDense, format.ElementFloat32, 1)

	testCases := []struct {
		name   string
		mutate func(d *StreamDescriptor)
	}{
		{name: "unknown storage", mutate: func(d *StreamDescriptor) { d.Storage = 9 }},
		{name: "unknown element", mutate: func(d *StreamDescriptor) { d.Element = 7 }},
		{name: "width mismatch", mutate: func(d *StreamDescriptor) { d.ElementWidth = 8 }},
		{name: "unknown compression", mutate: func(d *StreamDescriptor) { d.Compression = 0 }},
		{name: "zero sample dim", mutate: func(d *StreamDescriptor) { d.SampleDim = 0 }},
		{name: "name too long", mutate: func(d *StreamDescriptor) { d.Name = string(make([]byte, 256)) }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d := valid
			tc.mutate(&d)
			require.ErrorIs(t, d.Validate(), errs.ErrInvalidStreamDescriptor)
		})
	}
}

func TestFileHeader_RoundTrip(t *testing.T) {
	h := NewFileHeader(testStreams())
	h.NumChunks = 3
	h.NumSequences = 17

	data := h.Bytes()
	require.Len(t, data, h.Size())

	parsed, n, err := ParseFileHeader(data, endian.FileEngine())
	require.NoError(t, err)
	require.Equal(t, len(data), n)
	require.Equal(t, *h, parsed)
	require.Equal(t, 2, parsed.NumStreams())
	require.Equal(t, int64(4*RowWidth(2)), parsed.OffsetIndexSize())
}

func TestFileHeader_TrailingBytesIgnored(t *testing.T) {
	h := NewFileHeader(testStreams())
	data := append(h.Bytes(), 0xAA, 0xBB, 0xCC)

	_, n, err := ParseFileHeader(data, endian.FileEngine())
	require.NoError(t, err)
	require.Equal(t, h.Size(), n)
}

func TestReadFileHeader_Errors(t *testing.T) {
	engine := endian.FileEngine()
	valid := NewFileHeader(testStreams()).Bytes()

	t.Run("version zero", func(t *testing.T) {
		data := append([]byte(nil), valid...)
		engine.PutUint64(data[0:8], 0)

		_, _, err := ParseFileHeader(data, engine)
		require.ErrorIs(t, err, errs.ErrVersionMismatch)
	})

	t.Run("future version with garbage body", func(t *testing.T) {
		data := engine.AppendUint64(nil, 2)
		data = append(data, 0xFF, 0xFF)

		_, _, err := ParseFileHeader(data, engine)
		require.ErrorIs(t, err, errs.ErrVersionMismatch)
	})

	t.Run("empty input", func(t *testing.T) {
		_, _, err := ParseFileHeader(nil, engine)
		require.ErrorIs(t, err, errs.ErrCorruptHeader)
	})

	t.Run("zero streams", func(t *testing.T) {
		data := append([]byte(nil), valid...)
		engine.PutUint32(data[8:12], 0)

		_, _, err := ParseFileHeader(data, engine)
		require.ErrorIs(t, err, errs.ErrCorruptHeader)
	})

	t.Run("too many streams", func(t *testing.T) {
		data := append([]byte(nil), valid...)
		engine.PutUint32(data[8:12], MaxStreams+1)

		_, _, err := ParseFileHeader(data, engine)
		require.ErrorIs(t, err, errs.ErrCorruptHeader)
	})

	t.Run("truncated descriptor", func(t *testing.T) {
		_, _, err := ParseFileHeader(valid[:headerPrefixSize+4], engine)
		require.ErrorIs(t, err, errs.ErrCorruptHeader)
	})

	t.Run("truncated counts", func(t *testing.T) {
		_, _, err := ParseFileHeader(valid[:len(valid)-3], engine)
		require.ErrorIs(t, err, errs.ErrCorruptHeader)
	})

	t.Run("bad width", func(t *testing.T) {
		data := append([]byte(nil), valid...)
		// first descriptor: nameLen at 12, name "features" (8 bytes), then storage, element, width
		data[headerPrefixSize+1+8+2] = 8

		_, _, err := ParseFileHeader(data, engine)
		require.ErrorIs(t, err, errs.ErrCorruptHeader)
		require.ErrorIs(t, err, errs.ErrInvalidStreamDescriptor)
	})

	t.Run("negative chunk count", func(t *testing.T) {
		data := append([]byte(nil), valid...)
		engine.PutUint64(data[len(data)-16:len(data)-8], ^uint64(0))

		_, _, err := ParseFileHeader(data, engine)
		require.ErrorIs(t, err, errs.ErrCorruptHeader)
	})
}
