package fir

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-sdr/dsp/buffer"
)

// ErrInvalidLength is returned for non-positive capacities.
var ErrInvalidLength = errors.New("fir: invalid length")

// Option configures a Filter.
type Option func(*Filter)

// WithPool takes the history ring from pool and hands it back on Release.
func WithPool(pool *buffer.Pool) Option {
	return func(f *Filter) {
		f.pool = pool
	}
}

// Filter is a matched FIR filter with a circular-buffer history.
//
// Taps and history always share the same capacity. Tap 0 multiplies the
// newest sample.
type Filter struct {
	taps    []float64
	history *buffer.Ring
	pool    *buffer.Pool
}

// New allocates a filter able to hold capacity taps. The logical length
// starts at capacity with all taps and history zeroed.
func New(capacity int, opts ...Option) (*Filter, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLength, capacity)
	}

	f := &Filter{}
	for _, opt := range opts {
		opt(f)
	}

	if f.pool != nil {
		f.history = f.pool.Get(capacity)
	} else {
		f.history = buffer.NewRing(capacity)
	}
	f.taps = make([]float64, f.history.Cap())
	f.history.Resize(capacity)

	return f, nil
}

// Cap returns the storage capacity shared by taps and history.
func (f *Filter) Cap() int {
	return len(f.taps)
}

// Len returns the logical filter length.
func (f *Filter) Len() int {
	return f.history.Len()
}

// Cursor returns the history slot the next Push overwrites.
func (f *Filter) Cursor() int {
	return f.history.Cursor()
}

// Resize sets the logical length to n, which must not exceed Cap.
// Taps beyond the new length are left for the caller to rewrite.
func (f *Filter) Resize(n int) {
	f.history.Resize(n)
}

// Taps returns the writable logical tap slice.
func (f *Filter) Taps() []float64 {
	return f.taps[:f.history.Len()]
}

// History returns the history ring.
func (f *Filter) History() *buffer.Ring {
	return f.history
}

// Push stores one input sample in the history.
func (f *Filter) Push(x complex128) {
	f.history.Push(x)
}

// Output correlates the taps with the history, newest sample first.
// It has no side effects.
//
//	y = sum_{i=0}^{N-1} h[i] * x[newest-i]
func (f *Filter) Output() complex128 {
	newer, older := f.history.Segments()

	var re, im float64
	k := 0
	for i := len(newer) - 1; i >= 0; i-- {
		h := f.taps[k]
		re += h * real(newer[i])
		im += h * imag(newer[i])
		k++
	}
	for i := len(older) - 1; i >= 0; i-- {
		h := f.taps[k]
		re += h * real(older[i])
		im += h * imag(older[i])
		k++
	}

	return complex(re, im)
}

// Reset clears the history and rewinds the cursor. Taps are kept.
func (f *Filter) Reset() {
	f.history.Reset()
}

// Release hands the history back to the pool, if any. The filter must not
// be used afterwards.
func (f *Filter) Release() {
	if f == nil || f.history == nil {
		return
	}
	if f.pool != nil {
		f.pool.Put(f.history)
	}
	f.history = nil
	f.taps = nil
}

// Response computes the complex frequency response of the logical taps at
// freq cycles per sample.
func (f *Filter) Response(freq float64) complex128 {
	w := 2 * math.Pi * freq
	var h complex128
	for k, c := range f.Taps() {
		h += complex(c, 0) * cmplx.Exp(complex(0, -w*float64(k)))
	}
	return h
}

// MagnitudeDB returns the magnitude response in dB at freq cycles per sample.
func (f *Filter) MagnitudeDB(freq float64) float64 {
	return 20 * math.Log10(cmplx.Abs(f.Response(freq)))
}
