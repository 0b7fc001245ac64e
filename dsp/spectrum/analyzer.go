package spectrum

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-sdr/dsp/core"
	"github.com/cwbudde/algo-sdr/dsp/window"
)

var (
	// ErrInvalidSize reports an analyzer size below two bins.
	ErrInvalidSize = errors.New("spectrum: size must be >= 2")
	// ErrShortBlock reports fewer samples than the analyzer size.
	ErrShortBlock = errors.New("spectrum: block shorter than analyzer size")
)

// floorPower keeps log conversions finite for empty bins.
const floorPower = 1e-30

// Analyzer computes windowed, DC-centred power spectra of fixed size.
// It reuses its FFT plan and scratch buffers and is not safe for
// concurrent use.
type Analyzer struct {
	size   int
	plan   *algofft.Plan[complex128]
	coeffs []float64
	norm   float64

	in, out []complex128
	re, im  []float64
}

// NewAnalyzer builds an analyzer for blocks of size samples weighted by
// the given window in periodic form.
func NewAnalyzer(size int, win window.Type) (*Analyzer, error) {
	if size < 2 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("spectrum: fft plan: %w", err)
	}

	coeffs := window.Generate(win, size, window.WithPeriodic())

	sum := 0.0
	for _, c := range coeffs {
		sum += c
	}

	return &Analyzer{
		size:   size,
		plan:   plan,
		coeffs: coeffs,
		norm:   1 / (sum * sum),
		in:     make([]complex128, size),
		out:    make([]complex128, size),
		re:     make([]float64, size),
		im:     make([]float64, size),
	}, nil
}

// Size returns the number of bins.
func (a *Analyzer) Size() int { return a.size }

// BinFrequency returns the frequency in cycles/sample of DC-centred bin k.
func (a *Analyzer) BinFrequency(k int) float64 {
	return float64(k-a.size/2) / float64(a.size)
}

// Power returns the DC-centred power spectrum of the first Size samples.
// A tone of amplitude A centred on a bin reads A*A in that bin.
func (a *Analyzer) Power(samples []complex128) ([]float64, error) {
	dst := make([]float64, a.size)
	if err := a.PowerInto(dst, samples); err != nil {
		return nil, err
	}
	return dst, nil
}

// PowerInto is the allocation-free form of [Analyzer.Power]; dst must hold
// Size values.
func (a *Analyzer) PowerInto(dst []float64, samples []complex128) error {
	if len(samples) < a.size {
		return fmt.Errorf("%w: %d < %d", ErrShortBlock, len(samples), a.size)
	}
	if len(dst) < a.size {
		return fmt.Errorf("%w: dst %d < %d", ErrShortBlock, len(dst), a.size)
	}

	if err := window.ApplyComplex(a.in, samples[:a.size], a.coeffs, a.re, a.im); err != nil {
		return err
	}

	if err := a.plan.Forward(a.out, a.in); err != nil {
		return fmt.Errorf("spectrum: forward transform: %w", err)
	}

	core.SplitComplex(a.re, a.im, a.out)
	vecmath.Power(dst[:a.size], a.re, a.im)
	vecmath.ScaleBlock(dst[:a.size], dst[:a.size], a.norm)
	Shift(dst[:a.size])

	return nil
}

// Peak locates the strongest component of the block. The frequency is
// refined by parabolic interpolation over the log power of the
// neighbouring bins.
func (a *Analyzer) Peak(samples []complex128) (freq, powerDB float64, err error) {
	p, err := a.Power(samples)
	if err != nil {
		return 0, 0, err
	}

	k := 0
	for i := range p {
		if p[i] > p[k] {
			k = i
		}
	}

	db := func(i int) float64 {
		i = (i + a.size) % a.size
		return 10 * math.Log10(p[i]+floorPower)
	}

	y0, y1, y2 := db(k-1), db(k), db(k+1)
	offset := 0.0
	if den := y0 - 2*y1 + y2; den < 0 {
		offset = 0.5 * (y0 - y2) / den
	}

	freq = (float64(k-a.size/2) + offset) / float64(a.size)
	powerDB = y1 - 0.25*(y0-y2)*offset

	return freq, powerDB, nil
}

// PowerDB converts linear power values to decibels in place.
func PowerDB(p []float64) {
	for i, v := range p {
		p[i] = 10 * math.Log10(v+floorPower)
	}
}
