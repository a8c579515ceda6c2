package pqc

// Package pqc provides the post-quantum primitives shared by the proof and
// sharing engines: ML-DSA signatures and ML-KEM encapsulation behind circl's
// generic scheme interfaces, so deployments can swap parameter sets by name.

import (
	"fmt"

	"github.com/cloudflare/circl/kem"
	"github.com/cloudflare/circl/kem/mlkem/mlkem768"
	kemschemes "github.com/cloudflare/circl/kem/schemes"
	"github.com/cloudflare/circl/sign"
	"github.com/cloudflare/circl/sign/mldsa/mldsa44"
	signschemes "github.com/cloudflare/circl/sign/schemes"
)

// DefaultSignScheme is the signature scheme engines use unless configured
// otherwise (ML-DSA-44, NIST level 2).
func DefaultSignScheme() sign.Scheme {
	return mldsa44.Scheme()
}

// DefaultKEMScheme is the encapsulation scheme for share transport
// (ML-KEM-768, NIST level 3).
func DefaultKEMScheme() kem.Scheme {
	return mlkem768.Scheme()
}

// SignSchemeByName resolves a registered circl signature scheme, e.g.
// "ML-DSA-44" or "ML-DSA-65".
func SignSchemeByName(name string) (sign.Scheme, error) {
	s := signschemes.ByName(name)
	if s == nil {
		return nil, fmt.Errorf("pqc: unknown signature scheme %q", name)
	}
	return s, nil
}

// KEMSchemeByName resolves a registered circl KEM scheme, e.g. "ML-KEM-768".
func KEMSchemeByName(name string) (kem.Scheme, error) {
	s := kemschemes.ByName(name)
	if s == nil {
		return nil, fmt.Errorf("pqc: unknown KEM scheme %q", name)
	}
	return s, nil
}
