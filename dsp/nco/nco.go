package nco

import (
	"math"

	"github.com/cwbudde/algo-sdr/dsp/core"
)

// Oscillator generates unit-magnitude complex samples exp(j*phase) with a
// phase accumulator that advances 2*pi*freq radians per sample.
type Oscillator struct {
	freq  float64
	step  float64
	phase float64
}

// New returns an oscillator at freq cycles per sample with zero phase.
func New(freq float64) *Oscillator {
	o := &Oscillator{}
	o.SetFrequency(freq)
	return o
}

// SetFrequency retunes the oscillator without disturbing its phase.
func (o *Oscillator) SetFrequency(freq float64) {
	o.freq = freq
	o.step = 2 * math.Pi * freq
}

// Frequency returns the configured frequency in cycles per sample.
func (o *Oscillator) Frequency() float64 {
	return o.freq
}

// Phase returns the phase of the next sample in radians, in [-pi, pi).
func (o *Oscillator) Phase() float64 {
	return o.phase
}

// SetPhase sets the phase of the next sample.
func (o *Oscillator) SetPhase(phase float64) {
	o.phase = core.WrapPhase(phase)
}

// Reset rewinds the phase to zero.
func (o *Oscillator) Reset() {
	o.phase = 0
}

// Read returns the current sample and advances the phase by one step.
func (o *Oscillator) Read() complex128 {
	sin, cos := math.Sincos(o.phase)
	o.phase = core.WrapPhase(o.phase + o.step)
	return complex(cos, sin)
}

// Mix multiplies x by the next oscillator sample.
func (o *Oscillator) Mix(x complex128) complex128 {
	return x * o.Read()
}

// MixBlock mixes buf in place.
func (o *Oscillator) MixBlock(buf []complex128) {
	for i, x := range buf {
		buf[i] = x * o.Read()
	}
}
