// Package iq measures the stability of a complex baseband stream.
//
// A correctly tuned constant-envelope signal comes out of the tuner with a
// steady magnitude and no residual rotation. Analyze quantifies both.
package iq

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/stat"

	"github.com/cwbudde/algo-sdr/dsp/core"
)

// ErrTooFewSamples is returned when fewer than two samples remain after skip.
var ErrTooFewSamples = errors.New("iq: need at least two samples")

// Stats summarizes a sample run.
type Stats struct {
	Count int

	MeanMagnitude   float64
	MagnitudeStdDev float64
	// MagnitudeSpread is MagnitudeStdDev relative to MeanMagnitude.
	MagnitudeSpread float64

	// MeanRotation is the average phase step between consecutive samples
	// in radians; a residual frequency offset of f cycles/sample shows up
	// as 2*pi*f.
	MeanRotation   float64
	RotationStdDev float64
}

// ResidualFrequency converts MeanRotation to cycles per sample.
func (s Stats) ResidualFrequency() float64 {
	return s.MeanRotation / (2 * math.Pi)
}

// Analyze computes Stats over samples[skip:]. Skip discards the start-up
// transient.
func Analyze(samples []complex128, skip int) (Stats, error) {
	if skip < 0 {
		skip = 0
	}
	if len(samples)-skip < 2 {
		return Stats{}, fmt.Errorf("%w: have %d after skipping %d", ErrTooFewSamples, max(len(samples)-skip, 0), skip)
	}
	run := samples[skip:]

	mags := make([]float64, len(run))
	for i, x := range run {
		mags[i] = cmplx.Abs(x)
	}

	steps := make([]float64, len(run)-1)
	for i := 1; i < len(run); i++ {
		steps[i-1] = core.WrapPhase(cmplx.Phase(run[i]) - cmplx.Phase(run[i-1]))
	}

	s := Stats{Count: len(run)}
	s.MeanMagnitude, s.MagnitudeStdDev = stat.MeanStdDev(mags, nil)
	if s.MeanMagnitude > 0 {
		s.MagnitudeSpread = s.MagnitudeStdDev / s.MeanMagnitude
	}
	if len(steps) > 1 {
		s.MeanRotation, s.RotationStdDev = stat.MeanStdDev(steps, nil)
	} else {
		s.MeanRotation = steps[0]
	}

	return s, nil
}
