package qzkp

// Package qzkp implements the vector-knowledge proof scheme: a real input
// vector is encoded as a normalized complex state, bound to an identifier
// through a SHA3-256 commitment, observed through sampled measurements and
// signed with a post-quantum signature. Verification replays a fixed chain of
// checks and answers with a bare verdict.

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Adjustment records how an input vector was fitted to the engine dimension.
type Adjustment int

const (
	AdjustmentNone Adjustment = iota
	AdjustmentPadded
	AdjustmentTruncated
)

func (a Adjustment) String() string {
	switch a {
	case AdjustmentPadded:
		return "padded"
	case AdjustmentTruncated:
		return "truncated"
	default:
		return "none"
	}
}

// StateVector is the normalized complex encoding of a real input vector.
// Coordinates carry zero phase, so encoding the same vector twice yields the
// same state.
type StateVector struct {
	Coordinates []complex128
	Coherence   float64
	Entropy     float64
	Adjustment  Adjustment
	InputLength int
}

// encodeState fits vector to dim entries (zero padding or truncation) and
// L2-normalizes the result.
func encodeState(vector []float64, dim int) (*StateVector, error) {
	if len(vector) == 0 {
		return nil, fmt.Errorf("%w: empty vector", ErrInvalidInput)
	}
	for i, v := range vector {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: non-finite coordinate %d", ErrInvalidInput, i)
		}
	}
	adj := AdjustmentNone
	fitted := vector
	switch {
	case len(vector) > dim:
		fitted = vector[:dim]
		adj = AdjustmentTruncated
	case len(vector) < dim:
		fitted = make([]float64, dim)
		copy(fitted, vector)
		adj = AdjustmentPadded
	}
	norm := floats.Norm(fitted, 2)
	if norm == 0 {
		return nil, fmt.Errorf("%w: zero norm", ErrInvalidInput)
	}
	coords := make([]complex128, dim)
	abs := make([]float64, dim)
	for i, v := range fitted {
		coords[i] = complex(v/norm, 0)
		abs[i] = math.Abs(v / norm)
	}
	return &StateVector{
		Coordinates: coords,
		Coherence:   stat.Mean(abs, nil),
		Entropy:     entropyBits(coords),
		Adjustment:  adj,
		InputLength: len(vector),
	}, nil
}

// entropyBits is the Shannon entropy in bits of the measurement distribution
// |c_i|^2, with a small guard against log2(0).
func entropyBits(coords []complex128) float64 {
	const eps = 1e-10
	h := 0.0
	for _, c := range coords {
		p := real(c)*real(c) + imag(c)*imag(c)
		h -= p * math.Log2(p+eps)
	}
	return h
}
