package encoding

import (
	"math"
	"unsafe"

	"github.com/arloliu/seqchunk/endian"
)

// decodeValues fills dst from src, which must hold len(dst) encoded elements.
//
// When the file byte order matches the host, the bytes are copied straight
// into dst; otherwise each element is decoded through the engine. Either way
// dst never aliases src.
func decodeValues[T Element](dst []T, src []byte, engine endian.EndianEngine) {
	if len(dst) == 0 {
		return
	}

	if endian.CompareNativeEndian(engine) {
		width := int(unsafe.Sizeof(dst[0]))
		raw := unsafe.Slice((*byte)(unsafe.Pointer(&dst[0])), len(dst)*width)
		copy(raw, src)

		return
	}

	switch d := any(dst).(type) {
	case []float32:
		for i := range d {
			d[i] = math.Float32frombits(engine.Uint32(src[i*4:]))
		}
	case []float64:
		for i := range d {
			d[i] = math.Float64frombits(engine.Uint64(src[i*8:]))
		}
	}
}

// readValue decodes a single element from the start of src.
func readValue[T Element](src []byte, engine endian.EndianEngine) T {
	var zero T
	switch any(zero).(type) {
	case float32:
		return T(math.Float32frombits(engine.Uint32(src)))
	case float64:
		return T(math.Float64frombits(engine.Uint64(src)))
	default:
		return zero
	}
}

// appendValue appends one encoded element to dst.
func appendValue[T Element](dst []byte, v T, engine endian.EndianEngine) []byte {
	switch x := any(v).(type) {
	case float32:
		return engine.AppendUint32(dst, math.Float32bits(x))
	case float64:
		return engine.AppendUint64(dst, math.Float64bits(x))
	default:
		return dst
	}
}

// appendValues appends every element of values to dst.
func appendValues[T Element](dst []byte, values []T, engine endian.EndianEngine) []byte {
	for _, v := range values {
		dst = appendValue(dst, v, engine)
	}

	return dst
}

// readCounts decodes n int32 counts from src, rejecting negative values.
// It returns the counts, their sum and the index of the first negative count
// (or -1).
func readCounts(src []byte, n int, engine endian.EndianEngine) ([]int32, int64, int) {
	counts := make([]int32, n)
	var sum int64
	for i := range counts {
		c := int32(engine.Uint32(src[i*4:])) //nolint: gosec
		if c < 0 {
			return nil, 0, i
		}
		counts[i] = c
		sum += int64(c)
	}

	return counts, sum, -1
}

// appendCount appends one int32 count to dst.
func appendCount(dst []byte, n int, engine endian.EndianEngine) []byte {
	return engine.AppendUint32(dst, uint32(int32(n))) //nolint: gosec
}
