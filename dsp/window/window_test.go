package window

import (
	"math"
	"testing"
)

func TestGenerateSymmetric(t *testing.T) {
	tests := []struct {
		typ  Type
		want []float64
	}{
		{TypeRectangular, []float64{1, 1, 1, 1, 1}},
		{TypeHann, []float64{0, 0.5, 1, 0.5, 0}},
		{TypeHamming, []float64{0.08, 0.54, 1, 0.54, 0.08}},
		{TypeBlackman, []float64{0, 0.34, 1, 0.34, 0}},
	}

	for _, tt := range tests {
		t.Run(Info(tt.typ).Name, func(t *testing.T) {
			got := Generate(tt.typ, 5)
			checkGolden(t, got, tt.want, 1e-12)
		})
	}
}

func TestBlackmanHarrisEndpoints(t *testing.T) {
	w := Generate(TypeBlackmanHarris4Term, 9)
	if !almostEqual(w[0], 6e-5, 1e-12) {
		t.Fatalf("w[0] = %v, want 6e-5", w[0])
	}

	if !almostEqual(w[4], 1, 1e-12) {
		t.Fatalf("w[4] = %v, want 1", w[4])
	}
}

func TestPeriodicDiffersFromSymmetric(t *testing.T) {
	sym := Generate(TypeHann, 8)
	per := Generate(TypeHann, 8, WithPeriodic())

	if almostEqual(sym[len(sym)-1], per[len(per)-1], 1e-12) {
		t.Fatal("periodic and symmetric windows should differ at the end")
	}

	if per[0] != 0 || !almostEqual(per[4], 1, 1e-12) {
		t.Fatalf("periodic Hann = %v, want zero start and unit center", per)
	}
}

func TestGenerateEdgeCases(t *testing.T) {
	if got := Generate(TypeHann, 0); got != nil {
		t.Fatalf("Generate(0) = %v, want nil", got)
	}

	if got := Generate(TypeHann, 1); len(got) != 1 || got[0] != 0 {
		t.Fatalf("Generate(1) = %v, want [0]", got)
	}

	if _, err := Hann(0); err == nil {
		t.Fatal("Hann(0) error = nil")
	}

	for _, fn := range []func(int, ...Option) ([]float64, error){Hann, Hamming, Blackman} {
		w, err := fn(16)
		if err != nil || len(w) != 16 {
			t.Fatalf("wrapper = (%d coeffs, %v), want 16 coeffs", len(w), err)
		}
	}
}

func TestMetadataAndENBW(t *testing.T) {
	for _, typ := range []Type{TypeRectangular, TypeHann, TypeHamming, TypeBlackman, TypeBlackmanHarris4Term} {
		w := Generate(typ, 4096, WithPeriodic())

		enbw, err := EquivalentNoiseBandwidth(w)
		if err != nil {
			t.Fatalf("EquivalentNoiseBandwidth() error = %v", err)
		}

		m := Info(typ)
		if math.Abs(enbw-m.ENBW) > 0.01 {
			t.Fatalf("%s ENBW = %v, want %v", m.Name, enbw, m.ENBW)
		}

		if cg := CoherentGain(w); math.Abs(cg-m.CoherentGain) > 1e-3 {
			t.Fatalf("%s coherent gain = %v, want %v", m.Name, cg, m.CoherentGain)
		}
	}

	if m := Info(Type(99)); m.Name != "" {
		t.Fatalf("Info(99) = %+v, want zero", m)
	}

	if _, err := EquivalentNoiseBandwidth(nil); err == nil {
		t.Fatal("EquivalentNoiseBandwidth(nil) error = nil")
	}

	if _, err := EquivalentNoiseBandwidth([]float64{1, -1}); err == nil {
		t.Fatal("EquivalentNoiseBandwidth(zero sum) error = nil")
	}
}

func TestApplyCoefficientsInPlace(t *testing.T) {
	x := []float64{1, 2, 3, 4}
	if err := ApplyCoefficientsInPlace(x, []float64{0, 0.5, 1, 2}); err != nil {
		t.Fatalf("ApplyCoefficientsInPlace() error = %v", err)
	}

	checkGolden(t, x, []float64{0, 1, 3, 8}, 0)

	if err := ApplyCoefficientsInPlace(x, []float64{1}); err == nil {
		t.Fatal("mismatched length error = nil")
	}
}

func TestApplyComplex(t *testing.T) {
	x := []complex128{1 + 1i, 2 - 1i, -3 + 0.5i}
	coeffs := []float64{0.5, 1, 0.25}
	out := make([]complex128, 3)
	re := make([]float64, 3)
	im := make([]float64, 3)

	if err := ApplyComplex(out, x, coeffs, re, im); err != nil {
		t.Fatalf("ApplyComplex() error = %v", err)
	}

	for i := range x {
		want := x[i] * complex(coeffs[i], 0)
		if out[i] != want {
			t.Fatalf("out[%d] = %v, want %v", i, out[i], want)
		}
	}

	if err := ApplyComplex(out, x, coeffs[:2], re, im); err == nil {
		t.Fatal("mismatched coefficients error = nil")
	}

	if err := ApplyComplex(out, x, coeffs, re[:1], im); err == nil {
		t.Fatal("short scratch error = nil")
	}
}

func checkGolden(t *testing.T, got, want []float64, tol float64) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}

	for i := range got {
		if !almostEqual(got[i], want[i], tol) {
			t.Fatalf("index %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}
