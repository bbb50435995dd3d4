// Package hash computes content fingerprints of chunk files.
package hash

import "github.com/cespare/xxhash/v2"

// Fingerprint computes the xxHash64 of the concatenation of parts without
// copying them into one buffer.
func Fingerprint(parts ...[]byte) uint64 {
	d := xxhash.New()
	for _, p := range parts {
		_, _ = d.Write(p)
	}

	return d.Sum64()
}
