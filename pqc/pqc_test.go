package pqc

import (
	"bytes"
	"testing"
)

func TestSigner_RoundTrip(t *testing.T) {
	signer, err := NewSigner(nil)
	if err != nil {
		t.Fatal(err)
	}
	msg := []byte("proof body || commitment")
	sig := signer.Sign(msg)
	if !signer.Public().Verify(msg, sig) {
		t.Fatal("valid signature rejected")
	}
	if signer.Public().Verify(append([]byte("x"), msg...), sig) {
		t.Fatal("signature accepted for a different message")
	}
	sig[0] ^= 1
	if signer.Public().Verify(msg, sig) {
		t.Fatal("corrupted signature accepted")
	}
}

func TestSigner_WrongKeyRejected(t *testing.T) {
	a, err := NewSigner(nil)
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewSigner(nil)
	if err != nil {
		t.Fatal(err)
	}
	msg := []byte("message")
	if b.Public().Verify(msg, a.Sign(msg)) {
		t.Fatal("signature verified under an unrelated key")
	}
}

func TestSigner_FromSeedDeterministic(t *testing.T) {
	scheme := DefaultSignScheme()
	seed := bytes.Repeat([]byte{7}, scheme.SeedSize())
	a, err := NewSignerFromSeed(scheme, seed)
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewSignerFromSeed(scheme, seed)
	if err != nil {
		t.Fatal(err)
	}
	ab, err := a.Public().MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	bb, err := b.Public().MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(ab, bb) {
		t.Fatal("seeded keygen not deterministic")
	}
	if _, err := NewSignerFromSeed(scheme, seed[:4]); err == nil {
		t.Fatal("short seed accepted")
	}
}

func TestVerifyKey_ParseRoundTrip(t *testing.T) {
	signer, err := NewSigner(nil)
	if err != nil {
		t.Fatal(err)
	}
	raw, err := signer.Public().MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	parsed, err := ParseVerifyKey(nil, raw)
	if err != nil {
		t.Fatal(err)
	}
	msg := []byte("message")
	if !parsed.Verify(msg, signer.Sign(msg)) {
		t.Fatal("parsed key rejected a valid signature")
	}
	var zero VerifyKey
	if zero.Verify(msg, signer.Sign(msg)) {
		t.Fatal("zero-value key verified a signature")
	}
}

func TestKEM_EncapsulateDecapsulate(t *testing.T) {
	pair, err := NewKEMKeyPair(nil)
	if err != nil {
		t.Fatal(err)
	}
	ct, ss, err := Encapsulate(pair.Public())
	if err != nil {
		t.Fatal(err)
	}
	if len(ct) != pair.Scheme().CiphertextSize() {
		t.Fatalf("ciphertext length = %d want %d", len(ct), pair.Scheme().CiphertextSize())
	}
	got, err := pair.Decapsulate(ct)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, ss) {
		t.Fatal("decapsulated secret differs from encapsulated secret")
	}
}

func TestKEM_PublicKeyRoundTrip(t *testing.T) {
	pair, err := NewKEMKeyPair(nil)
	if err != nil {
		t.Fatal(err)
	}
	raw, err := pair.Public().MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	pub, err := ParseKEMPublicKey(nil, raw)
	if err != nil {
		t.Fatal(err)
	}
	ct, ss, err := Encapsulate(pub)
	if err != nil {
		t.Fatal(err)
	}
	got, err := pair.Decapsulate(ct)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, ss) {
		t.Fatal("secret mismatch after public key round trip")
	}
}

func TestSchemeByName(t *testing.T) {
	if _, err := SignSchemeByName("ML-DSA-44"); err != nil {
		t.Fatal(err)
	}
	if _, err := SignSchemeByName("not-a-scheme"); err == nil {
		t.Fatal("unknown signature scheme resolved")
	}
	if _, err := KEMSchemeByName("ML-KEM-768"); err != nil {
		t.Fatal(err)
	}
	if _, err := KEMSchemeByName("not-a-kem"); err == nil {
		t.Fatal("unknown KEM scheme resolved")
	}
}
