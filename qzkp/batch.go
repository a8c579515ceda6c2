package qzkp

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ProveResult is one outcome of ProveBatch, positionally aligned with its
// input.
type ProveResult struct {
	Commitment Commitment
	Proof      *Proof
	Err        error
}

// VerifyItem pairs a proof with the commitment and identifier to check it
// against.
type VerifyItem struct {
	Commitment Commitment
	Proof      *Proof
	Identifier string
}

// ProveBatch proves every vector concurrently on a bounded pool, preserving
// input order. Per-item failures land in their slot and do not abort the
// batch. When ctx is cancelled no further item starts; items that never ran
// carry the context error.
func (e *Engine) ProveBatch(ctx context.Context, vectors [][]float64, identifiers []string) ([]ProveResult, error) {
	if len(vectors) != len(identifiers) {
		return nil, fmt.Errorf("%w: %d vectors for %d identifiers", ErrInvalidInput, len(vectors), len(identifiers))
	}
	results := make([]ProveResult, len(vectors))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	scheduled := 0
	for i := range vectors {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = ProveResult{Err: err}
				return nil
			}
			commitment, proof, err := e.ProveVectorKnowledge(vectors[i], identifiers[i])
			results[i] = ProveResult{Commitment: commitment, Proof: proof, Err: err}
			return nil
		})
		scheduled++
	}
	_ = g.Wait()
	for i := scheduled; i < len(results); i++ {
		results[i] = ProveResult{Err: ctx.Err()}
	}
	return results, ctx.Err()
}

// VerifyBatch verifies every item concurrently on a bounded pool, preserving
// input order. Items skipped because of cancellation report false.
func (e *Engine) VerifyBatch(ctx context.Context, items []VerifyItem) ([]bool, error) {
	verdicts := make([]bool, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range items {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			item := items[i]
			verdicts[i] = e.VerifyProof(item.Commitment, item.Proof, item.Identifier)
			return nil
		})
	}
	_ = g.Wait()
	return verdicts, ctx.Err()
}
