package gf127

// Package gf127 implements arithmetic over the prime field F_p for the
// Mersenne prime p = 2^127 - 1. It provides the modular operations, fixed-point
// embedding and Lagrange interpolation used by the secret-sharing layer.

import (
	"crypto/rand"
	"fmt"
	"io"
	"math"
	"math/big"
)

// modulus is the Mersenne prime 2^127 - 1.
var modulus = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))

// halfModulus is (p-1)/2, the boundary of the centered representative range.
var halfModulus = new(big.Int).Rsh(modulus, 1)

// Modulus returns a copy of the field modulus.
func Modulus() *big.Int {
	return new(big.Int).Set(modulus)
}

// Reduce returns the canonical representative of x in [0, p).
func Reduce(x *big.Int) *big.Int {
	return new(big.Int).Mod(x, modulus)
}

// Add returns a + b in F_p.
func Add(a, b *big.Int) *big.Int {
	return Reduce(new(big.Int).Add(a, b))
}

// Sub returns a - b in F_p.
func Sub(a, b *big.Int) *big.Int {
	return Reduce(new(big.Int).Sub(a, b))
}

// Mul returns a * b in F_p.
func Mul(a, b *big.Int) *big.Int {
	return Reduce(new(big.Int).Mul(a, b))
}

// Neg returns -a in F_p.
func Neg(a *big.Int) *big.Int {
	return Reduce(new(big.Int).Neg(a))
}

// Inv returns the multiplicative inverse of a in F_p. It panics if a is zero.
func Inv(a *big.Int) *big.Int {
	r := Reduce(a)
	if r.Sign() == 0 {
		panic("gf127: inverse of zero")
	}
	return new(big.Int).ModInverse(r, modulus)
}

// Rand samples a uniform field element from r. A nil reader falls back to
// crypto/rand. Sampling draws 127 bits and rejects the single value p.
func Rand(r io.Reader) (*big.Int, error) {
	if r == nil {
		r = rand.Reader
	}
	buf := make([]byte, 16)
	for {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("gf127: sampling: %w", err)
		}
		buf[0] &= 0x7f
		x := new(big.Int).SetBytes(buf)
		if x.Cmp(modulus) < 0 {
			return x, nil
		}
	}
}

// EvalPoly evaluates the polynomial with coefficient vector coeffs (constant
// term first) at x using Horner's method.
func EvalPoly(coeffs []*big.Int, x *big.Int) *big.Int {
	acc := big.NewInt(0)
	for i := len(coeffs) - 1; i >= 0; i-- {
		acc = Add(Mul(acc, x), coeffs[i])
	}
	return acc
}

// InterpolateAtZero evaluates the unique polynomial of degree len(xs)-1
// through the given points at x = 0. The abscissas must be pairwise distinct.
func InterpolateAtZero(xs, ys []*big.Int) (*big.Int, error) {
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("gf127: mismatched point slices")
	}
	if len(xs) == 0 {
		return nil, fmt.Errorf("gf127: no points")
	}
	seen := make(map[string]struct{}, len(xs))
	for _, x := range xs {
		key := Reduce(x).Text(16)
		if _, ok := seen[key]; ok {
			return nil, fmt.Errorf("gf127: duplicate abscissa %s", key)
		}
		seen[key] = struct{}{}
	}
	acc := big.NewInt(0)
	for i := range xs {
		num := big.NewInt(1)
		den := big.NewInt(1)
		for j := range xs {
			if j == i {
				continue
			}
			num = Mul(num, Neg(xs[j]))
			den = Mul(den, Sub(xs[i], xs[j]))
		}
		acc = Add(acc, Mul(ys[i], Mul(num, Inv(den))))
	}
	return acc, nil
}

// ---------------- Fixed-point embedding ----------------

// EncodeFixed maps a real coordinate to its fixed-point representative,
// rounding v*scale to the nearest integer. Negative values land in the upper
// half of the field.
func EncodeFixed(v float64, scale int64) (*big.Int, error) {
	if scale <= 0 {
		return nil, fmt.Errorf("gf127: scale must be positive")
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("gf127: non-finite value")
	}
	scaled := math.Round(v * float64(scale))
	if math.Abs(scaled) >= math.Ldexp(1, 62) {
		return nil, fmt.Errorf("gf127: value out of fixed-point range")
	}
	return Reduce(big.NewInt(int64(scaled))), nil
}

// DecodeFixed inverts EncodeFixed, lifting y to the centered range
// (-(p-1)/2, (p-1)/2] before descaling.
func DecodeFixed(y *big.Int, scale int64) float64 {
	v := Reduce(y)
	if v.Cmp(halfModulus) > 0 {
		v = new(big.Int).Sub(v, modulus)
	}
	f, _ := new(big.Float).SetInt(v).Float64()
	return f / float64(scale)
}
