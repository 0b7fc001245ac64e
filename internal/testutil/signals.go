package testutil

import (
	"math"
	"math/cmplx"
	"math/rand"
)

// Tone generates amplitude*exp(j*2*pi*freq*n) with freq in cycles per sample.
func Tone(freq, amplitude float64, length int) []complex128 {
	out := make([]complex128, length)
	step := 2 * math.Pi * freq
	for i := range out {
		out[i] = cmplx.Rect(amplitude, step*float64(i))
	}
	return out
}

// DeterministicNoise generates circular Gaussian noise with a fixed seed.
func DeterministicNoise(seed int64, sigma float64, length int) []complex128 {
	out := make([]complex128, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = complex(rng.NormFloat64()*sigma, rng.NormFloat64()*sigma)
	}
	return out
}

// Impulse generates a unit impulse at the given position.
func Impulse(length, pos int) []complex128 {
	out := make([]complex128, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value complex128, length int) []complex128 {
	out := make([]complex128, length)
	for i := range out {
		out[i] = value
	}
	return out
}
