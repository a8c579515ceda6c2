package qzkp

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"math/cmplx"
)

// Measurement is one sampled observation of a state vector. Field order
// matches the canonical key order of the wire form.
type Measurement struct {
	BasisIndex  int     `json:"basis_index"`
	Phase       float64 `json:"phase"`
	Probability float64 `json:"probability"`
}

// sampleMeasurements draws n observations with replacement from the state's
// measurement distribution: a uniform basis index, the squared magnitude at
// that index and its phase.
func sampleMeasurements(state *StateVector, n int, prng io.Reader) ([]Measurement, error) {
	dim := len(state.Coordinates)
	out := make([]Measurement, n)
	for i := 0; i < n; i++ {
		idx, err := uniformIndex(prng, dim)
		if err != nil {
			return nil, err
		}
		c := state.Coordinates[idx]
		out[i] = Measurement{
			BasisIndex:  idx,
			Phase:       cmplx.Phase(c),
			Probability: real(c)*real(c) + imag(c)*imag(c),
		}
	}
	return out, nil
}

// uniformIndex returns a uniform integer in [0, n), rejection-sampling the
// reader to avoid modulo bias.
func uniformIndex(r io.Reader, n int) (int, error) {
	if n <= 0 {
		return 0, fmt.Errorf("qzkp: empty basis")
	}
	bound := uint64(n)
	limit := (math.MaxUint64 / bound) * bound
	var buf [8]byte
	for {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return 0, fmt.Errorf("qzkp: sampling: %w", err)
		}
		v := binary.LittleEndian.Uint64(buf[:])
		if v < limit {
			return int(v % bound), nil
		}
	}
}
