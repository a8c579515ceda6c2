package qzkp

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tuneinsight/lattigo/v4/utils"
)

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	e, err := New(DefaultConfig(), opts...)
	require.NoError(t, err)
	return e
}

// resign rebuilds the transcript signature after a test mutated the proof.
func resign(t *testing.T, e *Engine, commitment Commitment, p *Proof) {
	t.Helper()
	msg, err := p.signedMessage(commitment)
	require.NoError(t, err)
	p.Signature = e.signer.Sign(msg)
}

func TestProveVerify_BasisVector(t *testing.T) {
	e := newTestEngine(t)
	vector := []float64{1, 0, 0, 0, 0, 0, 0, 0}

	commitment, proof, err := e.ProveVectorKnowledge(vector, "test-1")
	require.NoError(t, err)
	require.Len(t, proof.Measurements, 16)
	require.Equal(t, 8, proof.Dimensions)
	require.InDelta(t, 0.125, proof.Metadata.Coherence, 1e-12)

	require.True(t, e.VerifyProof(commitment, proof, "test-1"))

	ok, reason := e.VerifyProofReport(commitment, proof, "test-2")
	require.False(t, ok)
	require.ErrorIs(t, reason, ErrIdentifierMismatch)
}

func TestVerify_TamperedSignature(t *testing.T) {
	e := newTestEngine(t)
	commitment, proof, err := e.ProveVectorKnowledge([]float64{2, 1, 0, 0, 0, 0, 0, 1}, "sig")
	require.NoError(t, err)

	proof.Signature[0] ^= 1
	ok, reason := e.VerifyProofReport(commitment, proof, "sig")
	require.False(t, ok)
	require.ErrorIs(t, reason, ErrSignature)
}

func TestVerify_TamperedCommitment(t *testing.T) {
	e := newTestEngine(t)
	commitment, proof, err := e.ProveVectorKnowledge([]float64{1, 1, 0, 0, 0, 0, 0, 0}, "commit")
	require.NoError(t, err)

	commitment[0] ^= 1
	require.False(t, e.VerifyProof(commitment, proof, "commit"))
}

func TestVerify_UnnormalizedCoefficients(t *testing.T) {
	e := newTestEngine(t)
	commitment, proof, err := e.ProveVectorKnowledge([]float64{1, 0, 0, 0, 0, 0, 0, 0}, "norm")
	require.NoError(t, err)

	proof.BasisCoefficients[0] = complex(0.9, 0)
	resign(t, e, commitment, proof)
	ok, reason := e.VerifyProofReport(commitment, proof, "norm")
	require.False(t, ok)
	require.ErrorIs(t, reason, ErrNormalization)
}

func TestVerify_MeasurementRanges(t *testing.T) {
	e := newTestEngine(t)

	commitment, proof, err := e.ProveVectorKnowledge([]float64{1, 0, 0, 0, 0, 0, 0, 0}, "range")
	require.NoError(t, err)
	proof.Measurements[0].Probability = 1.5
	resign(t, e, commitment, proof)
	ok, reason := e.VerifyProofReport(commitment, proof, "range")
	require.False(t, ok)
	require.ErrorIs(t, reason, ErrMeasurementRange)

	commitment, proof, err = e.ProveVectorKnowledge([]float64{1, 0, 0, 0, 0, 0, 0, 0}, "phase")
	require.NoError(t, err)
	proof.Measurements[3].Phase = 4
	resign(t, e, commitment, proof)
	ok, reason = e.VerifyProofReport(commitment, proof, "phase")
	require.False(t, ok)
	require.ErrorIs(t, reason, ErrMeasurementRange)
}

func TestVerify_Structural(t *testing.T) {
	e := newTestEngine(t)
	commitment, proof, err := e.ProveVectorKnowledge([]float64{1, 0, 0, 0, 0, 0, 0, 0}, "shape")
	require.NoError(t, err)

	ok, reason := e.VerifyProofReport(commitment, nil, "shape")
	require.False(t, ok)
	require.ErrorIs(t, reason, ErrStructural)

	short := *proof
	short.Measurements = proof.Measurements[:8]
	resign(t, e, commitment, &short)
	ok, reason = e.VerifyProofReport(commitment, &short, "shape")
	require.False(t, ok)
	require.ErrorIs(t, reason, ErrStructural)

	unsigned := *proof
	unsigned.Signature = nil
	ok, reason = e.VerifyProofReport(commitment, &unsigned, "shape")
	require.False(t, ok)
	require.ErrorIs(t, reason, ErrStructural)

	inconsistent := *proof
	inconsistent.Dimensions = 4
	ok, reason = e.VerifyProofReport(commitment, &inconsistent, "shape")
	require.False(t, ok)
	require.ErrorIs(t, reason, ErrStructural)

	// A proof for another engine geometry fails the dimension check.
	narrow, err := New(Config{Dimensions: 4, SecurityLevel: 128})
	require.NoError(t, err)
	ok, reason = narrow.VerifyProofReport(commitment, proof, "shape")
	require.False(t, ok)
	require.ErrorIs(t, reason, ErrStructural)
}

func TestVerify_NeverPanicsOnGarbage(t *testing.T) {
	e := newTestEngine(t)
	garbage := &Proof{
		Dimensions:        8,
		BasisCoefficients: make([]complex128, 8),
		Measurements:      make([]Measurement, 16),
		Identifier:        "garbage",
		Signature:         []byte{1},
	}
	garbage.BasisCoefficients[0] = complex(math.NaN(), math.Inf(1))
	ok, reason := e.VerifyProofReport(Commitment{}, garbage, "garbage")
	require.False(t, ok)
	require.ErrorIs(t, reason, ErrStructural)
	require.False(t, e.VerifyProof(Commitment{}, garbage, "garbage"))
}

func TestProve_InvalidInputs(t *testing.T) {
	e := newTestEngine(t)
	for name, vector := range map[string][]float64{
		"empty":      nil,
		"zero":       {0, 0, 0},
		"non-finite": {1, math.NaN()},
	} {
		_, _, err := e.ProveVectorKnowledge(vector, "bad")
		require.ErrorIs(t, err, ErrInvalidInput, name)
	}
}

func TestProve_PadsAndTruncates(t *testing.T) {
	e := newTestEngine(t)

	commitment, proof, err := e.ProveVectorKnowledge([]float64{1, 2, 3}, "short")
	require.NoError(t, err)
	require.True(t, e.VerifyProof(commitment, proof, "short"))

	commitment, proof, err = e.ProveVectorKnowledge(
		[]float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, "long")
	require.NoError(t, err)
	require.True(t, e.VerifyProof(commitment, proof, "long"))
}

func TestProve_DeterministicTranscript(t *testing.T) {
	key := bytes.Repeat([]byte{7}, 64)
	vector := []float64{0.5, -0.25, 3, 0, 0, 1, 2, 0.125}

	bodies := make([][]byte, 2)
	commitments := make([]Commitment, 2)
	for i := range bodies {
		prng, err := utils.NewKeyedPRNG(key)
		require.NoError(t, err)
		e, err := New(DefaultConfig(), WithPRNG(prng))
		require.NoError(t, err)
		commitment, proof, err := e.ProveVectorKnowledge(vector, "same")
		require.NoError(t, err)
		body, err := proof.CanonicalBody()
		require.NoError(t, err)
		bodies[i] = body
		commitments[i] = commitment
	}
	require.Equal(t, commitments[0], commitments[1])
	require.Equal(t, bodies[0], bodies[1])
}

func TestNew_ConfigValidation(t *testing.T) {
	cases := []Config{
		{Dimensions: 0, SecurityLevel: 128},
		{Dimensions: 8, SecurityLevel: 0},
		{Dimensions: 8, SecurityLevel: 12},
		{Dimensions: -1, SecurityLevel: 128},
		{Dimensions: 8, SecurityLevel: 128, CacheSize: -5},
	}
	for i, cfg := range cases {
		_, err := New(cfg)
		require.ErrorIs(t, err, ErrConfiguration, "case %d", i)
	}
}

func TestVerify_CacheHitsAndEviction(t *testing.T) {
	e, err := New(Config{Dimensions: 8, SecurityLevel: 128, CacheSize: 2})
	require.NoError(t, err)

	type item struct {
		commitment Commitment
		proof      *Proof
		id         string
	}
	items := make([]item, 3)
	for i, id := range []string{"a", "b", "c"} {
		commitment, proof, err := e.ProveVectorKnowledge([]float64{1, float64(i), 0, 0, 0, 0, 0, 0}, id)
		require.NoError(t, err)
		items[i] = item{commitment, proof, id}
	}

	require.True(t, e.VerifyProof(items[0].commitment, items[0].proof, items[0].id))
	require.True(t, e.VerifyProof(items[0].commitment, items[0].proof, items[0].id))
	hits, misses := e.CacheStats()
	require.Equal(t, uint64(1), hits)
	require.Equal(t, uint64(1), misses)

	// Two more distinct proofs push the first entry out (oldest first).
	require.True(t, e.VerifyProof(items[1].commitment, items[1].proof, items[1].id))
	require.True(t, e.VerifyProof(items[2].commitment, items[2].proof, items[2].id))
	require.Equal(t, 2, e.CacheLen())

	require.True(t, e.VerifyProof(items[0].commitment, items[0].proof, items[0].id))
	hits, misses = e.CacheStats()
	require.Equal(t, uint64(1), hits)
	require.Equal(t, uint64(4), misses)
}

func TestVerify_CachesRejections(t *testing.T) {
	e := newTestEngine(t)
	commitment, proof, err := e.ProveVectorKnowledge([]float64{1, 0, 0, 0, 0, 0, 0, 0}, "rej")
	require.NoError(t, err)
	proof.Signature[0] ^= 1

	ok, reason := e.VerifyProofReport(commitment, proof, "rej")
	require.False(t, ok)
	require.ErrorIs(t, reason, ErrSignature)

	ok, reason = e.VerifyProofReport(commitment, proof, "rej")
	require.False(t, ok)
	require.ErrorIs(t, reason, ErrSignature)
	hits, _ := e.CacheStats()
	require.Equal(t, uint64(1), hits)
}

func TestVerify_TamperAfterCachingMisses(t *testing.T) {
	e := newTestEngine(t)
	commitment, proof, err := e.ProveVectorKnowledge([]float64{3, 1, 4, 1, 5, 9, 2, 6}, "pi")
	require.NoError(t, err)
	require.True(t, e.VerifyProof(commitment, proof, "pi"))

	tampered := *proof
	tampered.Signature = append([]byte(nil), proof.Signature...)
	tampered.Signature[0] ^= 1
	require.False(t, e.VerifyProof(commitment, &tampered, "pi"))

	_, misses := e.CacheStats()
	require.Equal(t, uint64(2), misses)
}
