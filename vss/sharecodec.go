package vss

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/cloudflare/circl/kem"

	"axiom-trust/hashing"
	"axiom-trust/internal/gf127"
	"axiom-trust/pqc"
)

// shareValueLen is the fixed width of an encrypted share value: a field
// element of F_{2^127-1} in big-endian bytes.
const shareValueLen = 16

// Share is the transport form of one protected share. Ciphertext is the
// AES-256-GCM nonce followed by the sealed value; Encapsulation is the ML-KEM
// ciphertext the symmetric key derives from; Signature is the issuer's
// ML-DSA signature over Ciphertext.
type Share struct {
	Index         int    `json:"index"`
	Ciphertext    []byte `json:"ciphertext"`
	Encapsulation []byte `json:"encapsulation"`
	Signature     []byte `json:"signature"`
}

// EncodeShare protects one polynomial point for a holder: a fresh shared
// secret is encapsulated to the holder key, the AES-256-GCM key derived from
// it seals the value, and the issuer signs the ciphertext.
func EncodeShare(x int, y *big.Int, holder kem.PublicKey, issuer *pqc.Signer) (Share, error) {
	if x <= 0 {
		return Share{}, fmt.Errorf("%w: share index %d", ErrConfiguration, x)
	}
	encapsulation, secret, err := pqc.Encapsulate(holder)
	if err != nil {
		return Share{}, err
	}
	key := hashing.DeriveKey(hashing.ContextShareKey, secret, 32)
	value := make([]byte, shareValueLen)
	gf127.Reduce(y).FillBytes(value)
	ciphertext, err := aesGCMSeal(key, value)
	if err != nil {
		return Share{}, err
	}
	return Share{
		Index:         x,
		Ciphertext:    ciphertext,
		Encapsulation: encapsulation,
		Signature:     issuer.Sign(ciphertext),
	}, nil
}

// DecodeShare verifies and opens a share. The issuer signature is checked
// before any decryption; every failure reports ErrIntegrity.
func DecodeShare(s Share, holder *pqc.KEMKeyPair, issuerKey pqc.VerifyKey) (Point, error) {
	if s.Index <= 0 {
		return Point{}, fmt.Errorf("%w: share index %d", ErrIntegrity, s.Index)
	}
	if !issuerKey.Verify(s.Ciphertext, s.Signature) {
		return Point{}, fmt.Errorf("%w: signature rejected for index %d", ErrIntegrity, s.Index)
	}
	secret, err := holder.Decapsulate(s.Encapsulation)
	if err != nil {
		return Point{}, fmt.Errorf("%w: index %d: %v", ErrIntegrity, s.Index, err)
	}
	key := hashing.DeriveKey(hashing.ContextShareKey, secret, 32)
	value, err := aesGCMOpen(key, s.Ciphertext)
	if err != nil {
		return Point{}, fmt.Errorf("%w: index %d: %v", ErrIntegrity, s.Index, err)
	}
	if len(value) != shareValueLen {
		return Point{}, fmt.Errorf("%w: index %d: value is %d bytes", ErrIntegrity, s.Index, len(value))
	}
	return Point{X: s.Index, Y: new(big.Int).SetBytes(value)}, nil
}

// aesGCMSeal encrypts plaintext under a 32-byte key and prepends the random
// nonce.
func aesGCMSeal(key, plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("vss: seal: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("vss: seal: %w", err)
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("vss: seal nonce: %w", err)
	}
	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

// aesGCMOpen reverses aesGCMSeal, authenticating the payload.
func aesGCMOpen(key, data []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("vss: open: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("vss: open: %w", err)
	}
	if len(data) < gcm.NonceSize() {
		return nil, fmt.Errorf("vss: open: ciphertext too short")
	}
	plaintext, err := gcm.Open(nil, data[:gcm.NonceSize()], data[gcm.NonceSize():], nil)
	if err != nil {
		return nil, fmt.Errorf("vss: open: %w", err)
	}
	return plaintext, nil
}
