package qzkp

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Metadata summarizes state characteristics carried alongside a proof. It is
// informational: verification never inspects it beyond the signature binding.
type Metadata struct {
	Coherence    float64 `json:"coherence"`
	Entanglement float64 `json:"entanglement"`
}

// Proof is a signed vector-knowledge transcript.
type Proof struct {
	Dimensions        int
	BasisCoefficients []complex128
	Measurements      []Measurement
	Metadata          Metadata
	Identifier        string
	Signature         []byte
}

// complexJSON is the wire form of a complex coordinate.
type complexJSON struct {
	Imag float64 `json:"imag"`
	Real float64 `json:"real"`
}

// proofBody is the canonical signing view of a proof: keys in sorted order,
// compact separators, signature omitted. Struct field order defines the
// emitted key order and must stay alphabetical.
type proofBody struct {
	BasisCoefficients []complexJSON `json:"basis_coefficients"`
	Identifier        string        `json:"identifier"`
	Measurements      []Measurement `json:"measurements"`
	QuantumDimensions int           `json:"quantum_dimensions"`
	StateMetadata     Metadata      `json:"state_metadata"`
}

// proofWire is the transport form: the canonical fields plus the hex
// signature, again in sorted key order.
type proofWire struct {
	BasisCoefficients []complexJSON `json:"basis_coefficients"`
	Identifier        string        `json:"identifier"`
	Measurements      []Measurement `json:"measurements"`
	QuantumDimensions int           `json:"quantum_dimensions"`
	Signature         string        `json:"signature"`
	StateMetadata     Metadata      `json:"state_metadata"`
}

func (p *Proof) body() proofBody {
	coeffs := make([]complexJSON, len(p.BasisCoefficients))
	for i, c := range p.BasisCoefficients {
		coeffs[i] = complexJSON{Imag: imag(c), Real: real(c)}
	}
	return proofBody{
		BasisCoefficients: coeffs,
		Identifier:        p.Identifier,
		Measurements:      p.Measurements,
		QuantumDimensions: p.Dimensions,
		StateMetadata:     p.Metadata,
	}
}

// CanonicalBody renders the byte-exact representation the transcript
// signature covers. Identical proofs always produce identical bytes.
func (p *Proof) CanonicalBody() ([]byte, error) {
	out, err := json.Marshal(p.body())
	if err != nil {
		return nil, fmt.Errorf("qzkp: canonical body: %w", err)
	}
	return out, nil
}

// signedMessage is the canonical body with the commitment appended.
func (p *Proof) signedMessage(commitment Commitment) ([]byte, error) {
	body, err := p.CanonicalBody()
	if err != nil {
		return nil, err
	}
	return append(body, commitment[:]...), nil
}

// MarshalJSON renders the transport form with a hex signature.
func (p *Proof) MarshalJSON() ([]byte, error) {
	body := p.body()
	return json.Marshal(proofWire{
		BasisCoefficients: body.BasisCoefficients,
		Identifier:        body.Identifier,
		Measurements:      body.Measurements,
		QuantumDimensions: body.QuantumDimensions,
		Signature:         hex.EncodeToString(p.Signature),
		StateMetadata:     body.StateMetadata,
	})
}

// UnmarshalJSON parses the transport form.
func (p *Proof) UnmarshalJSON(data []byte) error {
	var w proofWire
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("qzkp: parse proof: %w", err)
	}
	sig, err := hex.DecodeString(w.Signature)
	if err != nil {
		return fmt.Errorf("qzkp: parse proof signature: %w", err)
	}
	coeffs := make([]complex128, len(w.BasisCoefficients))
	for i, c := range w.BasisCoefficients {
		coeffs[i] = complex(c.Real, c.Imag)
	}
	p.Dimensions = w.QuantumDimensions
	p.BasisCoefficients = coeffs
	p.Measurements = w.Measurements
	p.Metadata = w.StateMetadata
	p.Identifier = w.Identifier
	p.Signature = sig
	return nil
}
