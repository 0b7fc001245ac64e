package pulse

import (
	"errors"
	"math"
	"testing"
)

func TestValidateRolloff(t *testing.T) {
	for _, beta := range []float64{0, 0.25, 0.35, 1} {
		if err := ValidateRolloff(beta); err != nil {
			t.Fatalf("ValidateRolloff(%v) = %v, want nil", beta, err)
		}
	}
	for _, beta := range []float64{-0.01, 1.01, math.NaN(), math.Inf(1)} {
		if err := ValidateRolloff(beta); !errors.Is(err, ErrInvalidRolloff) {
			t.Fatalf("ValidateRolloff(%v) = %v, want ErrInvalidRolloff", beta, err)
		}
	}
}

func TestRootRaisedCosine_UnitSumAndSymmetry(t *testing.T) {
	tests := []struct {
		n      int
		period float64
		beta   float64
	}{
		{1, 4, 0.35},
		{2, 4, 0.35},
		{33, 4, 0.35},
		{64, 8, 0.5},
		{41, 10, 0},
		{41, 10, 1},
		{17, 2.5, 0.2},
	}
	for _, tc := range tests {
		taps := make([]float64, tc.n)
		RootRaisedCosine(taps, tc.period, tc.beta)

		var sum float64
		for i, v := range taps {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Fatalf("n=%d T=%v beta=%v: tap %d = %v", tc.n, tc.period, tc.beta, i, v)
			}
			sum += v
		}
		if math.Abs(sum-1) > 1e-12 {
			t.Fatalf("n=%d T=%v beta=%v: sum = %v, want 1", tc.n, tc.period, tc.beta, sum)
		}
		for i := range taps {
			j := len(taps) - 1 - i
			if math.Abs(taps[i]-taps[j]) > 1e-12 {
				t.Fatalf("n=%d: taps[%d]=%v != taps[%d]=%v", tc.n, i, taps[i], j, taps[j])
			}
		}
	}
}

func TestRootRaisedCosine_PeakAtCentre(t *testing.T) {
	taps := make([]float64, 33)
	RootRaisedCosine(taps, 4, 0.35)

	for i, v := range taps {
		if i != 16 && v >= taps[16] {
			t.Fatalf("taps[%d]=%v >= centre %v", i, v, taps[16])
		}
	}
}

func TestRootRaisedCosine_Singularity(t *testing.T) {
	// With T=4 and beta=0.25, |4βt/T| = 1 at t = ±4 samples.
	taps := make([]float64, 9)
	RootRaisedCosine(taps, 4, 0.25)

	want := make([]float64, 9)
	var sum float64
	for i := range want {
		want[i] = rrc(float64(i-4), 4, 0.25)
		sum += want[i]
	}
	// Compare against a point just off the singularity.
	near := rrc(4+1e-6, 4, 0.25) / sum
	if math.Abs(taps[8]-near) > 1e-5 {
		t.Fatalf("singular tap = %v, neighbourhood value %v", taps[8], near)
	}
}

func TestRootRaisedCosine_Empty(t *testing.T) {
	RootRaisedCosine(nil, 4, 0.35)
}
