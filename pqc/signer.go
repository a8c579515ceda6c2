package pqc

import (
	"fmt"

	"github.com/cloudflare/circl/sign"
)

// Signer holds a signing keypair. The private key never leaves the struct and
// is not serializable through it.
type Signer struct {
	scheme sign.Scheme
	pub    sign.PublicKey
	priv   sign.PrivateKey
}

// NewSigner generates a fresh keypair. A nil scheme selects ML-DSA-44.
func NewSigner(scheme sign.Scheme) (*Signer, error) {
	if scheme == nil {
		scheme = DefaultSignScheme()
	}
	pub, priv, err := scheme.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("pqc: signature keygen: %w", err)
	}
	return &Signer{scheme: scheme, pub: pub, priv: priv}, nil
}

// NewSignerFromSeed derives the keypair deterministically from seed, which
// must be scheme.SeedSize() bytes.
func NewSignerFromSeed(scheme sign.Scheme, seed []byte) (*Signer, error) {
	if scheme == nil {
		scheme = DefaultSignScheme()
	}
	if len(seed) != scheme.SeedSize() {
		return nil, fmt.Errorf("pqc: seed must be %d bytes, got %d", scheme.SeedSize(), len(seed))
	}
	pub, priv := scheme.DeriveKey(seed)
	return &Signer{scheme: scheme, pub: pub, priv: priv}, nil
}

// Sign returns the detached signature over msg.
func (s *Signer) Sign(msg []byte) []byte {
	return s.scheme.Sign(s.priv, msg, nil)
}

// Public returns the verification half of the keypair.
func (s *Signer) Public() VerifyKey {
	return VerifyKey{scheme: s.scheme, pub: s.pub}
}

// Scheme returns the underlying signature scheme.
func (s *Signer) Scheme() sign.Scheme {
	return s.scheme
}

// VerifyKey is the public half of a signing keypair. The zero value verifies
// nothing.
type VerifyKey struct {
	scheme sign.Scheme
	pub    sign.PublicKey
}

// Verify reports whether sig is a valid signature over msg.
func (k VerifyKey) Verify(msg, sig []byte) bool {
	if k.scheme == nil || k.pub == nil {
		return false
	}
	return k.scheme.Verify(k.pub, msg, sig, nil)
}

// MarshalBinary encodes the public key in the scheme's fixed-size format.
func (k VerifyKey) MarshalBinary() ([]byte, error) {
	if k.pub == nil {
		return nil, fmt.Errorf("pqc: empty verify key")
	}
	return k.pub.MarshalBinary()
}

// Scheme returns the underlying signature scheme, nil for the zero value.
func (k VerifyKey) Scheme() sign.Scheme {
	return k.scheme
}

// ParseVerifyKey decodes a public key. A nil scheme selects ML-DSA-44.
func ParseVerifyKey(scheme sign.Scheme, data []byte) (VerifyKey, error) {
	if scheme == nil {
		scheme = DefaultSignScheme()
	}
	pub, err := scheme.UnmarshalBinaryPublicKey(data)
	if err != nil {
		return VerifyKey{}, fmt.Errorf("pqc: parse verify key: %w", err)
	}
	return VerifyKey{scheme: scheme, pub: pub}, nil
}
