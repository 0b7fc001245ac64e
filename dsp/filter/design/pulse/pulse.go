// Package pulse generates pulse-shaping FIR taps.
package pulse

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidRolloff is returned for excess-bandwidth factors outside [0, 1].
var ErrInvalidRolloff = errors.New("pulse: rolloff must be in [0, 1]")

const singularityTol = 1e-9

// ValidateRolloff reports whether beta is a usable roll-off factor.
func ValidateRolloff(beta float64) error {
	if !(beta >= 0 && beta <= 1) {
		return fmt.Errorf("%w: %g", ErrInvalidRolloff, beta)
	}

	return nil
}

// RootRaisedCosine fills dst with root-raised-cosine taps for a pulse of
// symbolPeriod samples and roll-off beta. Taps are centred at
// (len(dst)-1)/2 and scaled to unit DC gain. The result is symmetric.
//
// Callers validate parameters; symbolPeriod must be positive.
func RootRaisedCosine(dst []float64, symbolPeriod, beta float64) {
	if len(dst) == 0 {
		return
	}

	center := float64(len(dst)-1) / 2
	var sum float64
	for i := range dst {
		dst[i] = rrc(float64(i)-center, symbolPeriod, beta)
		sum += dst[i]
	}

	if sum == 0 || math.IsNaN(sum) {
		return
	}
	for i := range dst {
		dst[i] /= sum
	}
}

// rrc evaluates the unnormalized impulse response at t samples from centre.
func rrc(t, period, beta float64) float64 {
	x := t / period
	if t == 0 {
		return 1 + beta*(4/math.Pi-1)
	}

	q := 4 * beta * x
	if beta > 0 && math.Abs(math.Abs(q)-1) < singularityTol {
		s := math.Pi / (4 * beta)
		return beta / math.Sqrt2 * ((1+2/math.Pi)*math.Sin(s) + (1-2/math.Pi)*math.Cos(s))
	}

	num := math.Sin(math.Pi*x*(1-beta)) + q*math.Cos(math.Pi*x*(1+beta))
	den := math.Pi * x * (1 - q*q)
	return num / den
}
