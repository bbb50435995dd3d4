package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFingerprint(t *testing.T) {
	tests := []struct {
		name  string
		parts [][]byte
		id    uint64
	}{
		{"no parts", nil, 0xef46db3751d8e999},
		{"empty part", [][]byte{{}}, 0xef46db3751d8e999},
		{"single part", [][]byte{[]byte("test")}, 0x4fdcca5ddb678139},
		{"split parts", [][]byte{[]byte("te"), []byte("st")}, 0x4fdcca5ddb678139},
		{"many parts", [][]byte{[]byte("another"), []byte(" test"), []byte(" string")}, 0x212a22f593810bec},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.id, Fingerprint(tt.parts...))
		})
	}
}

func BenchmarkFingerprint(b *testing.B) {
	header := make([]byte, 64)
	index := make([]byte, 20*1024)
	for b.Loop() {
		Fingerprint(header, index)
	}
}
