package pool

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewByteBuffer(t *testing.T) {
	bb := NewByteBuffer(1024)

	require.NotNil(t, bb)
	assert.Equal(t, 0, bb.Len())
	assert.Equal(t, 1024, bb.Cap())
}

func TestByteBuffer_WriteAndReset(t *testing.T) {
	bb := NewByteBuffer(4)
	bb.MustWrite([]byte("hello"))
	n, err := bb.Write([]byte(" world"))

	require.NoError(t, err)
	require.Equal(t, 6, n)
	require.Equal(t, []byte("hello world"), bb.Bytes())

	capBefore := bb.Cap()
	bb.Reset()
	require.Equal(t, 0, bb.Len())
	require.Equal(t, capBefore, bb.Cap())
}

func TestByteBuffer_Resize(t *testing.T) {
	bb := NewByteBuffer(16)
	bb.MustWrite([]byte("abc"))

	bb.Resize(10)
	require.Equal(t, 10, bb.Len())
	require.Equal(t, 16, bb.Cap())
	require.Equal(t, []byte("abc"), bb.Bytes()[:3], "resize within capacity keeps contents")

	bb.Resize(100)
	require.Equal(t, 100, bb.Len())
	require.GreaterOrEqual(t, bb.Cap(), 100)

	bb.Resize(0)
	require.Equal(t, 0, bb.Len())

	require.Panics(t, func() { bb.Resize(-1) })
}

func TestByteBuffer_Grow(t *testing.T) {
	t.Run("sufficient capacity", func(t *testing.T) {
		bb := NewByteBuffer(64)
		bb.Grow(32)
		require.Equal(t, 64, bb.Cap())
	})

	t.Run("small buffer grows by default size", func(t *testing.T) {
		bb := NewByteBuffer(8)
		bb.MustWrite([]byte("12345678"))
		bb.Grow(1)
		require.Equal(t, 8+StreamBufferDefaultSize, bb.Cap())
		require.Equal(t, []byte("12345678"), bb.Bytes())
	})

	t.Run("large buffer grows by quarter", func(t *testing.T) {
		size := 8 * StreamBufferDefaultSize
		bb := NewByteBuffer(size)
		bb.Resize(size)
		bb.Grow(1)
		require.Equal(t, size+size/4, bb.Cap())
	})

	t.Run("request larger than growth step", func(t *testing.T) {
		bb := NewByteBuffer(0)
		bb.Grow(3 * StreamBufferDefaultSize)
		require.GreaterOrEqual(t, bb.Cap(), 3*StreamBufferDefaultSize)
	})
}

func TestByteBuffer_WriteTo(t *testing.T) {
	bb := NewByteBuffer(8)
	bb.MustWrite([]byte("chunk"))

	var out bytes.Buffer
	n, err := bb.WriteTo(&out)
	require.NoError(t, err)
	require.Equal(t, int64(5), n)
	require.Equal(t, "chunk", out.String())
}

func TestByteBufferPool_PutResetsAndDropsLarge(t *testing.T) {
	p := NewByteBufferPool(16, 64)

	bb := p.Get()
	bb.MustWrite([]byte("data"))
	p.Put(bb)

	got := p.Get()
	require.Equal(t, 0, got.Len())

	large := NewByteBuffer(128)
	p.Put(large) // dropped, must not panic
	p.Put(nil)
}

func TestDefaultPools_Concurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := range 32 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			cb := GetChunkBuffer()
			cb.Resize(n * 100)
			PutChunkBuffer(cb)

			sb := GetStreamBuffer()
			sb.MustWrite(make([]byte, n))
			PutStreamBuffer(sb)
		}(i)
	}
	wg.Wait()
}
