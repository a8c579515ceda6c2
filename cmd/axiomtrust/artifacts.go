package main

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"axiom-trust/pqc"
	"axiom-trust/vss"
)

// artifactDir is where the CLI persists keys, proofs and shares.
const artifactDir = "axiomtrust_keys"

// keyArtifact persists the issuer key material. Private halves are stored as
// derivation seeds so the artifact stays scheme-portable.
type keyArtifact struct {
	Version    string `json:"version"`
	Timestamp  string `json:"timestamp"`
	SignScheme string `json:"sign_scheme"`
	KEMScheme  string `json:"kem_scheme"`
	SignSeed   string `json:"sign_seed"`
	KEMSeed    string `json:"kem_seed"`
	VerifyKey  string `json:"verify_key"`
}

// proofArtifact persists one proof transcript with its commitment.
type proofArtifact struct {
	Version    string          `json:"version"`
	Timestamp  string          `json:"timestamp"`
	Identifier string          `json:"identifier"`
	Commitment string          `json:"commitment"`
	Proof      json.RawMessage `json:"proof"`
}

// sharesArtifact persists the share groups of one split secret.
type sharesArtifact struct {
	Version   string        `json:"version"`
	Timestamp string        `json:"timestamp"`
	Threshold int           `json:"threshold"`
	Total     int           `json:"total"`
	Groups    [][]vss.Share `json:"groups"`
}

func stamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func saveArtifact(name string, v any) error {
	if err := os.MkdirAll(artifactDir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(artifactDir, name)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func loadArtifact(name string, v any) error {
	data, err := os.ReadFile(filepath.Join(artifactDir, name))
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// generateKeys writes a fresh issuer artifact and returns the loaded keypairs.
func generateKeys() (*pqc.Signer, *pqc.KEMKeyPair, error) {
	signScheme := pqc.DefaultSignScheme()
	kemScheme := pqc.DefaultKEMScheme()
	signSeed := make([]byte, signScheme.SeedSize())
	if _, err := rand.Read(signSeed); err != nil {
		return nil, nil, err
	}
	kemSeed := make([]byte, kemScheme.SeedSize())
	if _, err := rand.Read(kemSeed); err != nil {
		return nil, nil, err
	}
	signer, err := pqc.NewSignerFromSeed(signScheme, signSeed)
	if err != nil {
		return nil, nil, err
	}
	pair, err := pqc.NewKEMKeyPairFromSeed(kemScheme, kemSeed)
	if err != nil {
		return nil, nil, err
	}
	vk, err := signer.Public().MarshalBinary()
	if err != nil {
		return nil, nil, err
	}
	art := keyArtifact{
		Version:    "axiomtrust-keys-v1",
		Timestamp:  stamp(),
		SignScheme: signScheme.Name(),
		KEMScheme:  kemScheme.Name(),
		SignSeed:   base64.StdEncoding.EncodeToString(signSeed),
		KEMSeed:    base64.StdEncoding.EncodeToString(kemSeed),
		VerifyKey:  hex.EncodeToString(vk),
	}
	if err := saveArtifact("issuer.json", art); err != nil {
		return nil, nil, err
	}
	return signer, pair, nil
}

// loadKeys re-derives the issuer keypairs from the stored seeds.
func loadKeys() (*pqc.Signer, *pqc.KEMKeyPair, error) {
	var art keyArtifact
	if err := loadArtifact("issuer.json", &art); err != nil {
		return nil, nil, fmt.Errorf("load issuer (run 'axiomtrust keys' first?): %w", err)
	}
	signScheme, err := pqc.SignSchemeByName(art.SignScheme)
	if err != nil {
		return nil, nil, err
	}
	kemScheme, err := pqc.KEMSchemeByName(art.KEMScheme)
	if err != nil {
		return nil, nil, err
	}
	signSeed, err := base64.StdEncoding.DecodeString(art.SignSeed)
	if err != nil {
		return nil, nil, fmt.Errorf("decode sign seed: %w", err)
	}
	kemSeed, err := base64.StdEncoding.DecodeString(art.KEMSeed)
	if err != nil {
		return nil, nil, fmt.Errorf("decode kem seed: %w", err)
	}
	signer, err := pqc.NewSignerFromSeed(signScheme, signSeed)
	if err != nil {
		return nil, nil, err
	}
	pair, err := pqc.NewKEMKeyPairFromSeed(kemScheme, kemSeed)
	if err != nil {
		return nil, nil, err
	}
	return signer, pair, nil
}
