package bench

import (
	"context"
	"fmt"
	"testing"

	"axiom-trust/qzkp"
)

func benchVector(n int) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = float64(i%7) + 0.5
	}
	return v
}

func BenchmarkEncodeState(b *testing.B) {
	e, _ := qzkp.New(qzkp.DefaultConfig())
	vector := benchVector(8)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = e.EncodeState(vector)
	}
}

func BenchmarkProveVectorKnowledge(b *testing.B) {
	e, _ := qzkp.New(qzkp.DefaultConfig())
	vector := benchVector(8)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _, _ = e.ProveVectorKnowledge(vector, "bench")
	}
}

func BenchmarkVerifyProof(b *testing.B) {
	// Cache size 1 with two alternating proofs keeps every verification cold.
	e, _ := qzkp.New(qzkp.Config{Dimensions: 8, SecurityLevel: 128, CacheSize: 1})
	vector := benchVector(8)
	c0, p0, _ := e.ProveVectorKnowledge(vector, "bench-0")
	c1, p1, _ := e.ProveVectorKnowledge(vector, "bench-1")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if i%2 == 0 {
			e.VerifyProof(c0, p0, "bench-0")
		} else {
			e.VerifyProof(c1, p1, "bench-1")
		}
	}
}

func BenchmarkVerifyProofCached(b *testing.B) {
	e, _ := qzkp.New(qzkp.DefaultConfig())
	vector := benchVector(8)
	commitment, proof, _ := e.ProveVectorKnowledge(vector, "bench")
	e.VerifyProof(commitment, proof, "bench")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.VerifyProof(commitment, proof, "bench")
	}
}

func BenchmarkProveBatch(b *testing.B) {
	e, _ := qzkp.New(qzkp.DefaultConfig())
	vectors := make([][]float64, 16)
	identifiers := make([]string, 16)
	for i := range vectors {
		vectors[i] = benchVector(8)
		identifiers[i] = fmt.Sprintf("bench-%d", i)
	}
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = e.ProveBatch(ctx, vectors, identifiers)
	}
}

func BenchmarkVerifyBatch(b *testing.B) {
	e, _ := qzkp.New(qzkp.DefaultConfig())
	items := make([]qzkp.VerifyItem, 16)
	for i := range items {
		commitment, proof, _ := e.ProveVectorKnowledge(benchVector(8), fmt.Sprintf("bench-%d", i))
		items[i] = qzkp.VerifyItem{Commitment: commitment, Proof: proof, Identifier: fmt.Sprintf("bench-%d", i)}
	}
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = e.VerifyBatch(ctx, items)
	}
}
