package vss

// Package vss implements verifiable secret sharing for real-valued vectors.
// Coordinates are fixed-point scaled into F_p with p = 2^127 - 1, shared with
// Shamir polynomials and transported as KEM-encrypted, signature-protected
// shares. Reconstruction interpolates at zero and fails closed on any
// integrity violation.

import (
	"fmt"
	"io"
	"math/big"

	"axiom-trust/internal/gf127"
)

// Point is a decoded share value on a coordinate's sharing polynomial.
type Point struct {
	X int
	Y *big.Int
}

// splitValue shares y0 among total points with reconstruction threshold
// threshold. The polynomial coefficients are drawn from prng and wiped before
// returning.
func splitValue(y0 *big.Int, threshold, total int, prng io.Reader) ([]Point, error) {
	coeffs := make([]*big.Int, threshold)
	coeffs[0] = gf127.Reduce(y0)
	for i := 1; i < threshold; i++ {
		c, err := gf127.Rand(prng)
		if err != nil {
			return nil, err
		}
		coeffs[i] = c
	}
	points := make([]Point, total)
	for x := 1; x <= total; x++ {
		points[x-1] = Point{X: x, Y: gf127.EvalPoly(coeffs, big.NewInt(int64(x)))}
	}
	for _, c := range coeffs {
		c.SetInt64(0)
	}
	return points, nil
}

// interpolate reconstructs the shared value at x = 0 from decoded points.
func interpolate(points []Point) (*big.Int, error) {
	seen := make(map[int]struct{}, len(points))
	xs := make([]*big.Int, len(points))
	ys := make([]*big.Int, len(points))
	for i, p := range points {
		if _, ok := seen[p.X]; ok {
			return nil, fmt.Errorf("%w: x=%d", ErrDuplicateShare, p.X)
		}
		seen[p.X] = struct{}{}
		xs[i] = big.NewInt(int64(p.X))
		ys[i] = p.Y
	}
	y, err := gf127.InterpolateAtZero(xs, ys)
	if err != nil {
		return nil, fmt.Errorf("vss: interpolate: %w", err)
	}
	return y, nil
}
