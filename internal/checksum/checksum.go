// Package checksum fingerprints loaded artifacts.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
)

// Sum returns the hex-encoded SHA-256 digest of data.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// SumAll digests several byte slices in order. Each part is length-prefixed
// so that moving bytes between parts changes the result.
func SumAll(parts ...[]byte) string {
	h := sha256.New()
	var prefix [8]byte
	for _, p := range parts {
		n := uint64(len(p))
		for i := range prefix {
			prefix[i] = byte(n >> (8 * i))
		}
		h.Write(prefix[:])
		h.Write(p)
	}
	return hex.EncodeToString(h.Sum(nil))
}
