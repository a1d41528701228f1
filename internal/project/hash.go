package project

import (
	"crypto/sha256"
)

// Digest is a fixed 256-bit hash, compatible with source.File.Hash.
type Digest [32]byte

// DigestOf hashes s.
func DigestOf(s string) Digest {
	return Digest(sha256.Sum256([]byte(s)))
}

// Combine builds a composite hash: H( first || rest[0] || rest[1] ... ).
// Callers must pass rest in a deterministic order.
func Combine(first Digest, rest ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(first[:])
	for _, d := range rest {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}
