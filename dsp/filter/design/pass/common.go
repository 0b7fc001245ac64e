package pass

import (
	"math"

	"github.com/cwbudde/algo-sdr/dsp/filter/biquad"
)

// bilinearK computes the bilinear transform frequency warping factor tan(π*freq/sampleRate).
// Returns (k, true) on success, (0, false) if parameters are invalid.
func bilinearK(freq, sampleRate float64) (float64, bool) {
	if sampleRate <= 0 || freq <= 0 || freq >= sampleRate/2 || math.IsNaN(freq) {
		return 0, false
	}

	return math.Tan(math.Pi * freq / sampleRate), true
}

// butterworthQ returns the quality factor for a Butterworth filter section.
// index ranges from 0 to (order/2 - 1) for the biquad sections.
func butterworthQ(order, index int) float64 {
	theta := math.Pi * float64(2*index+1) / (2 * float64(order))

	s := math.Sin(theta)
	if s == 0 {
		return 1 / math.Sqrt2 // default Q
	}

	return 1 / (2 * s)
}

// butterworthFirstOrderLP designs a first-order lowpass Butterworth section.
// Used for odd-order filters.
func butterworthFirstOrderLP(freq, sampleRate float64) biquad.Coefficients {
	k, ok := bilinearK(freq, sampleRate)
	if !ok {
		return biquad.Coefficients{}
	}

	norm := 1 / (1 + k)

	return biquad.Coefficients{
		B0: k * norm,
		B1: k * norm,
		B2: 0,
		A1: (k - 1) * norm,
		A2: 0,
	}
}
