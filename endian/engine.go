// Package endian provides byte order utilities for the seqchunk file format.
//
// Every multi-byte field of a seqchunk file (header, offset index rows and
// stream payloads) is stored little-endian. Readers and writers obtain the
// engine through FileEngine so the byte order is decided in one place.
//
// EndianEngine combines binary.ByteOrder and binary.AppendByteOrder so the
// same value can be used for positioned decoding and append-style encoding:
//
//	engine := endian.FileEngine()
//	buf = engine.AppendUint64(buf, uint64(offset))
//	offset = int64(engine.Uint64(buf[0:8]))
//
// All functions in this package are safe for concurrent use.
package endian

import (
	"encoding/binary"
	"unsafe"
)

// EndianEngine combines ByteOrder and AppendByteOrder interfaces from encoding/binary.
//
// It is satisfied by binary.LittleEndian and binary.BigEndian.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// CheckEndianness uses a fixed integer value to determine the host's byte order.
func CheckEndianness() binary.ByteOrder {
	// 0x0100 is 256. On a little-endian host the low byte (0x00) comes first.
	var i uint16 = 0x0100
	b := (*[2]byte)(unsafe.Pointer(&i))

	if b[0] == 0x01 {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// IsNativeLittleEndian reports whether the host is little-endian.
func IsNativeLittleEndian() bool {
	return CheckEndianness() == binary.LittleEndian
}

// CompareNativeEndian reports whether engine matches the host byte order.
//
// When it does, fixed-width payloads can be copied straight into typed slices.
func CompareNativeEndian(engine EndianEngine) bool {
	return engine == CheckEndianness()
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

// FileEngine returns the engine used for every field of a seqchunk file.
func FileEngine() EndianEngine {
	return binary.LittleEndian
}
