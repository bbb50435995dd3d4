package format

type (
	StorageType     uint8
	ElementType     uint8
	CompressionType uint8
)

const (
	StorageDense  StorageType = 0x1 // StorageDense stores every value of every sample.
	StorageSparse StorageType = 0x2 // StorageSparse stores (index, value) pairs for non-zero values only.

	ElementFloat32 ElementType = 0x1 // ElementFloat32 represents IEEE 754 single precision values.
	ElementFloat64 ElementType = 0x2 // ElementFloat64 represents IEEE 754 double precision values.

	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

func (s StorageType) String() string {
	switch s {
	case StorageDense:
		return "Dense"
	case StorageSparse:
		return "Sparse"
	default:
		return "Unknown"
	}
}

// IsValid reports whether s is a known storage type.
func (s StorageType) IsValid() bool {
	return s == StorageDense || s == StorageSparse
}

func (e ElementType) String() string {
	switch e {
	case ElementFloat32:
		return "Float32"
	case ElementFloat64:
		return "Float64"
	default:
		return "Unknown"
	}
}

// Width returns the encoded size of one element in bytes, or 0 for unknown types.
func (e ElementType) Width() int {
	switch e {
	case ElementFloat32:
		return 4
	case ElementFloat64:
		return 8
	default:
		return 0
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// IsValid reports whether c is a known compression type.
func (c CompressionType) IsValid() bool {
	return c >= CompressionNone && c <= CompressionLZ4
}
