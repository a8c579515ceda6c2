package vss

import (
	"errors"
	"math/big"
	"testing"

	"axiom-trust/internal/gf127"
)

func TestSplitValue_SubsetsRecoverSecret(t *testing.T) {
	for _, secret := range []int64{0, 1, -1, 123456789, -987654321} {
		y0 := gf127.Reduce(big.NewInt(secret))
		points, err := splitValue(y0, 3, 5, nil)
		if err != nil {
			t.Fatalf("splitValue: %v", err)
		}
		if len(points) != 5 {
			t.Fatalf("points = %d want 5", len(points))
		}
		for _, subset := range [][]int{{0, 1, 2}, {0, 2, 4}, {1, 3, 4}, {0, 1, 2, 3, 4}} {
			picked := make([]Point, len(subset))
			for i, j := range subset {
				picked[i] = points[j]
			}
			y, err := interpolate(picked)
			if err != nil {
				t.Fatalf("interpolate subset %v: %v", subset, err)
			}
			if y.Cmp(y0) != 0 {
				t.Fatalf("secret %d: subset %v recovered %s want %s", secret, subset, y, y0)
			}
		}
	}
}

func TestSplitValue_MinimalScheme(t *testing.T) {
	y0 := big.NewInt(42)
	points, err := splitValue(y0, 2, 2, nil)
	if err != nil {
		t.Fatalf("splitValue: %v", err)
	}
	y, err := interpolate(points)
	if err != nil {
		t.Fatalf("interpolate: %v", err)
	}
	if y.Cmp(y0) != 0 {
		t.Fatalf("recovered %s want %s", y, y0)
	}
}

func TestSplitValue_ShareIndexesStartAtOne(t *testing.T) {
	points, err := splitValue(big.NewInt(7), 2, 4, nil)
	if err != nil {
		t.Fatalf("splitValue: %v", err)
	}
	for i, p := range points {
		if p.X != i+1 {
			t.Fatalf("points[%d].X = %d want %d", i, p.X, i+1)
		}
	}
}

func TestInterpolate_TamperedPointChangesResult(t *testing.T) {
	y0 := big.NewInt(123456789)
	points, err := splitValue(y0, 3, 3, nil)
	if err != nil {
		t.Fatalf("splitValue: %v", err)
	}
	points[1].Y = gf127.Add(points[1].Y, big.NewInt(1))
	y, err := interpolate(points)
	if err != nil {
		t.Fatalf("interpolate: %v", err)
	}
	if y.Cmp(gf127.Reduce(y0)) == 0 {
		t.Fatal("tampered share still reconstructed the secret")
	}
}

func TestInterpolate_RejectsDuplicateIndex(t *testing.T) {
	points, err := splitValue(big.NewInt(5), 2, 3, nil)
	if err != nil {
		t.Fatalf("splitValue: %v", err)
	}
	points[2] = points[0]
	if _, err := interpolate(points); !errors.Is(err, ErrDuplicateShare) {
		t.Fatalf("err = %v want ErrDuplicateShare", err)
	}
}
