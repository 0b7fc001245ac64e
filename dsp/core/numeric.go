package core

import (
	"math"
	"math/cmplx"
)

const defaultEpsilon = 1e-12

// Clamp limits value to the inclusive range [min, max].
func Clamp(value, min, max float64) float64 {
	if min > max {
		min, max = max, min
	}

	if value < min {
		return min
	}

	if value > max {
		return max
	}

	return value
}

// NearlyEqual reports whether a and b are equal within eps.
func NearlyEqual(a, b, eps float64) bool {
	if eps <= 0 {
		eps = defaultEpsilon
	}

	diff := math.Abs(a - b)
	if diff <= eps {
		return true
	}

	largest := math.Max(math.Abs(a), math.Abs(b))
	if largest == 0 {
		return diff <= eps
	}

	return diff/largest <= eps
}

// NearlyEqualComplex reports whether |a-b| <= eps.
func NearlyEqualComplex(a, b complex128, eps float64) bool {
	if eps <= 0 {
		eps = defaultEpsilon
	}

	return cmplx.Abs(a-b) <= eps
}

// WrapPhase maps an angle in radians onto [-pi, pi).
func WrapPhase(phase float64) float64 {
	if phase >= -math.Pi && phase < math.Pi {
		return phase
	}

	phase = math.Mod(phase+math.Pi, 2*math.Pi)
	if phase < 0 {
		phase += 2 * math.Pi
	}

	return phase - math.Pi
}

// LinearToDB converts linear amplitude to dB (20*log10 convention).
// Returns -Inf for zero and NaN for negative values.
func LinearToDB(linear float64) float64 {
	if linear < 0 {
		return math.NaN()
	}

	if linear == 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(linear)
}

// LinearPowerToDB converts linear power to dB (10*log10 convention).
// Returns -Inf for zero and NaN for negative values.
func LinearPowerToDB(power float64) float64 {
	if power < 0 {
		return math.NaN()
	}

	if power == 0 {
		return math.Inf(-1)
	}

	return 10 * math.Log10(power)
}

// DBPowerToLinear converts dB to linear power (10*log10 convention).
func DBPowerToLinear(db float64) float64 {
	return math.Pow(10, db/10)
}

// PowerDB returns the instantaneous power of an I/Q sample in dB.
func PowerDB(x complex128) float64 {
	re, im := real(x), imag(x)
	return LinearPowerToDB(re*re + im*im)
}
