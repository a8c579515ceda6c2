package pqc

import (
	"fmt"

	"github.com/cloudflare/circl/kem"
)

// KEMKeyPair holds an encapsulation keypair. Share recipients own one; the
// decapsulation key never leaves the struct.
type KEMKeyPair struct {
	scheme kem.Scheme
	pub    kem.PublicKey
	priv   kem.PrivateKey
}

// NewKEMKeyPair generates a fresh keypair. A nil scheme selects ML-KEM-768.
func NewKEMKeyPair(scheme kem.Scheme) (*KEMKeyPair, error) {
	if scheme == nil {
		scheme = DefaultKEMScheme()
	}
	pub, priv, err := scheme.GenerateKeyPair()
	if err != nil {
		return nil, fmt.Errorf("pqc: kem keygen: %w", err)
	}
	return &KEMKeyPair{scheme: scheme, pub: pub, priv: priv}, nil
}

// NewKEMKeyPairFromSeed derives the keypair deterministically from seed,
// which must be scheme.SeedSize() bytes.
func NewKEMKeyPairFromSeed(scheme kem.Scheme, seed []byte) (*KEMKeyPair, error) {
	if scheme == nil {
		scheme = DefaultKEMScheme()
	}
	if len(seed) != scheme.SeedSize() {
		return nil, fmt.Errorf("pqc: kem seed must be %d bytes, got %d", scheme.SeedSize(), len(seed))
	}
	pub, priv := scheme.DeriveKeyPair(seed)
	return &KEMKeyPair{scheme: scheme, pub: pub, priv: priv}, nil
}

// Public returns the encapsulation key.
func (k *KEMKeyPair) Public() kem.PublicKey {
	return k.pub
}

// Scheme returns the underlying KEM scheme.
func (k *KEMKeyPair) Scheme() kem.Scheme {
	return k.scheme
}

// Decapsulate recovers the shared secret from an encapsulation ciphertext.
func (k *KEMKeyPair) Decapsulate(ct []byte) ([]byte, error) {
	ss, err := k.scheme.Decapsulate(k.priv, ct)
	if err != nil {
		return nil, fmt.Errorf("pqc: decapsulate: %w", err)
	}
	return ss, nil
}

// Encapsulate generates a fresh shared secret against pk and returns the
// ciphertext carrying it.
func Encapsulate(pk kem.PublicKey) (ct, ss []byte, err error) {
	ct, ss, err = pk.Scheme().Encapsulate(pk)
	if err != nil {
		return nil, nil, fmt.Errorf("pqc: encapsulate: %w", err)
	}
	return ct, ss, nil
}

// ParseKEMPublicKey decodes an encapsulation key. A nil scheme selects
// ML-KEM-768.
func ParseKEMPublicKey(scheme kem.Scheme, data []byte) (kem.PublicKey, error) {
	if scheme == nil {
		scheme = DefaultKEMScheme()
	}
	pub, err := scheme.UnmarshalBinaryPublicKey(data)
	if err != nil {
		return nil, fmt.Errorf("pqc: parse kem public key: %w", err)
	}
	return pub, nil
}
