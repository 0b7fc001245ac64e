package iir

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-sdr/dsp/filter/biquad"
	"github.com/cwbudde/algo-sdr/dsp/filter/design/pass"
)

var (
	// ErrInvalidOrder is returned for filter orders below one.
	ErrInvalidOrder = errors.New("iir: invalid order")

	// ErrInvalidCutoff is returned for cutoffs outside (0, 0.5) cycles per sample.
	ErrInvalidCutoff = errors.New("iir: invalid cutoff")

	// ErrUnstable is returned when the designed cascade has a pole on or
	// outside the unit circle.
	ErrUnstable = errors.New("iir: unstable design")
)

// Filter is a Butterworth low-pass over complex samples.
type Filter struct {
	chain  *biquad.Chain
	order  int
	cutoff float64
}

// DesignLowpass designs a Butterworth low-pass of the given order with its
// -3 dB point at cutoff cycles per sample.
func DesignLowpass(order int, cutoff float64) (*Filter, error) {
	if order < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidOrder, order)
	}
	if !(cutoff > 0 && cutoff < 0.5) || math.IsNaN(cutoff) {
		return nil, fmt.Errorf("%w: %g cycles/sample", ErrInvalidCutoff, cutoff)
	}

	sections := pass.ButterworthLP(cutoff, order, 1)
	if len(sections) == 0 {
		return nil, fmt.Errorf("%w: %g cycles/sample", ErrInvalidCutoff, cutoff)
	}

	chain := biquad.NewChain(sections)
	if !chain.Stable() {
		return nil, fmt.Errorf("%w: order %d cutoff %g", ErrUnstable, order, cutoff)
	}

	return &Filter{chain: chain, order: order, cutoff: cutoff}, nil
}

// Feed filters one sample. It panics if the filter has been released.
func (f *Filter) Feed(x complex128) complex128 {
	if f.chain == nil {
		panic("iir: Feed on released filter")
	}

	return f.chain.ProcessSample(x)
}

// FeedBlock filters buf in place.
func (f *Filter) FeedBlock(buf []complex128) {
	if f.chain == nil {
		panic("iir: FeedBlock on released filter")
	}

	f.chain.ProcessBlock(buf)
}

// Reset clears the filter state.
func (f *Filter) Reset() {
	if f.chain != nil {
		f.chain.Reset()
	}
}

// Release drops the cascade and its state. It is safe to call more than once.
func (f *Filter) Release() {
	if f == nil {
		return
	}

	f.chain = nil
}

// Released reports whether Release has been called.
func (f *Filter) Released() bool {
	return f.chain == nil
}

// Order returns the design order.
func (f *Filter) Order() int { return f.order }

// Cutoff returns the -3 dB frequency in cycles per sample.
func (f *Filter) Cutoff() float64 { return f.cutoff }

// Response returns the complex frequency response at freq cycles per sample.
func (f *Filter) Response(freq float64) complex128 {
	if f.chain == nil {
		return 0
	}

	return f.chain.Response(freq, 1)
}
