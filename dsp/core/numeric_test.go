package core

import (
	"math"
	"testing"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		min      float64
		max      float64
		expected float64
	}{
		{name: "inside", value: 0.25, min: -0.5, max: 0.5, expected: 0.25},
		{name: "below", value: -1, min: -0.5, max: 0.5, expected: -0.5},
		{name: "above", value: 2, min: -0.5, max: 0.5, expected: 0.5},
		{name: "swapped", value: 2, min: 0.5, max: -0.5, expected: 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clamp(tt.value, tt.min, tt.max)
			if got != tt.expected {
				t.Fatalf("Clamp() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestNearlyEqual(t *testing.T) {
	if !NearlyEqual(1.0, 1.0+1e-13, 1e-12) {
		t.Fatal("expected values to be nearly equal")
	}
	if NearlyEqual(1.0, 1.1, 1e-3) {
		t.Fatal("expected values to differ")
	}
}

func TestNearlyEqualComplex(t *testing.T) {
	if !NearlyEqualComplex(1+1i, 1+1i+1e-13, 1e-12) {
		t.Fatal("expected samples to be nearly equal")
	}
	if NearlyEqualComplex(1i, -1i, 1e-3) {
		t.Fatal("expected samples to differ")
	}
}

func TestWrapPhase(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{in: 0, want: 0},
		{in: math.Pi / 2, want: math.Pi / 2},
		{in: math.Pi, want: -math.Pi},
		{in: 3 * math.Pi / 2, want: -math.Pi / 2},
		{in: -3 * math.Pi / 2, want: math.Pi / 2},
	}

	for _, tt := range tests {
		got := WrapPhase(tt.in)
		if !NearlyEqual(got, tt.want, 1e-9) {
			t.Fatalf("WrapPhase(%v) = %v, want %v", tt.in, got, tt.want)
		}
		if got < -math.Pi || got >= math.Pi {
			t.Fatalf("WrapPhase(%v) = %v outside [-pi, pi)", tt.in, got)
		}
	}
}

func TestDBConversions(t *testing.T) {
	if !NearlyEqual(LinearToDB(0.5), -6.0206, 1e-4) {
		t.Fatalf("LinearToDB(0.5) = %v, want -6.02", LinearToDB(0.5))
	}
	if !math.IsInf(LinearToDB(0), -1) {
		t.Fatal("expected -Inf for zero")
	}
	if !math.IsNaN(LinearToDB(-1)) {
		t.Fatal("expected NaN for negative amplitude")
	}
}

func TestDBPowerConversions(t *testing.T) {
	// 3 dB power ~ 2x linear power
	p := DBPowerToLinear(3)
	if !NearlyEqual(p, 2.0, 0.01) {
		t.Fatalf("DBPowerToLinear(3) = %v, want ~2.0", p)
	}

	db := LinearPowerToDB(p)
	if !NearlyEqual(db, 3.0, 1e-10) {
		t.Fatalf("LinearPowerToDB(DBPowerToLinear(3)) = %v, want 3", db)
	}

	if !math.IsInf(LinearPowerToDB(0), -1) {
		t.Fatal("expected -Inf for zero power")
	}
}

func TestPowerDB(t *testing.T) {
	if got := PowerDB(1i); !NearlyEqual(got, 0, 1e-12) {
		t.Fatalf("PowerDB(1i) = %v, want 0", got)
	}
	if got := PowerDB(0.1); !NearlyEqual(got, -20, 1e-9) {
		t.Fatalf("PowerDB(0.1) = %v, want -20", got)
	}
}
