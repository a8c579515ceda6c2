package hashing

// Package hashing wraps BLAKE3 with the fixed derive-key contexts used across
// the trust layer. Contexts separate domains so a digest produced for one
// component can never stand in for another's.

import (
	"crypto/subtle"

	"github.com/zeebo/blake3"
)

// Derive-key context strings. Components add their own constant instead of
// reusing an existing one.
const (
	ContextShareKey   = "axiom-trust 2026-03-02 vss share encryption key"
	ContextProofCache = "axiom-trust 2026-03-02 qzkp proof cache key"
)

// Sum returns the 32-byte BLAKE3 digest of data.
func Sum(data []byte) [32]byte {
	return blake3.Sum256(data)
}

// SumContext digests data bound to a derive-key context.
func SumContext(context string, data []byte) [32]byte {
	var out [32]byte
	blake3.DeriveKey(context, data, out[:])
	return out
}

// Verify reports whether sum is the BLAKE3 digest of data, comparing in
// constant time.
func Verify(data, sum []byte) bool {
	d := blake3.Sum256(data)
	return subtle.ConstantTimeCompare(d[:], sum) == 1
}

// DeriveKey returns n bytes of key material derived from material under
// context.
func DeriveKey(context string, material []byte, n int) []byte {
	out := make([]byte, n)
	blake3.DeriveKey(context, material, out)
	return out
}

// XOF returns n bytes of extended output for data.
func XOF(data []byte, n int) []byte {
	h := blake3.New()
	h.Write(data)
	out := make([]byte, n)
	h.Digest().Read(out)
	return out
}
