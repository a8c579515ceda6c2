package qzkp

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"strconv"

	"golang.org/x/crypto/sha3"
)

// Commitment is the 32-byte SHA3-256 digest binding an encoded state and its
// coherence to an identifier.
type Commitment [32]byte

// Hex returns the lowercase hex encoding of the commitment.
func (c Commitment) Hex() string {
	return hex.EncodeToString(c[:])
}

// ParseCommitment decodes a hex-encoded commitment.
func ParseCommitment(s string) (Commitment, error) {
	var c Commitment
	raw, err := hex.DecodeString(s)
	if err != nil {
		return c, fmt.Errorf("qzkp: parse commitment: %w", err)
	}
	if len(raw) != len(c) {
		return c, fmt.Errorf("qzkp: parse commitment: %d bytes, want %d", len(raw), len(c))
	}
	copy(c[:], raw)
	return c, nil
}

// Commit digests the state coordinates (real and imaginary float64 bits per
// coordinate, little endian), the shortest decimal form of the coherence and
// the identifier bytes.
func Commit(state *StateVector, identifier string) Commitment {
	h := sha3.New256()
	var buf [8]byte
	for _, c := range state.Coordinates {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(real(c)))
		h.Write(buf[:])
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(imag(c)))
		h.Write(buf[:])
	}
	h.Write([]byte(strconv.FormatFloat(state.Coherence, 'g', -1, 64)))
	h.Write([]byte(identifier))
	var out Commitment
	h.Sum(out[:0])
	return out
}
