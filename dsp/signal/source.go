package signal

import (
	"io"
	"math"
	"math/cmplx"
	"math/rand"
)

// ToneSource streams a complex exponential, optionally with additive noise.
// It satisfies the tuner's sample source contract.
type ToneSource struct {
	step      float64
	amplitude float64
	sigma     float64
	rng       *rand.Rand
	n         int
	limit     int
}

// SourceOption configures a ToneSource.
type SourceOption func(*ToneSource)

// WithNoise adds circular Gaussian noise of standard deviation sigma per rail.
func WithNoise(sigma float64, seed int64) SourceOption {
	return func(s *ToneSource) {
		if sigma > 0 {
			s.sigma = sigma
			s.rng = rand.New(rand.NewSource(seed))
		}
	}
}

// WithLimit ends the stream after n samples.
func WithLimit(n int) SourceOption {
	return func(s *ToneSource) {
		if n >= 0 {
			s.limit = n
		}
	}
}

// NewToneSource returns an unbounded tone at freq cycles per sample.
func NewToneSource(freq, amplitude float64, opts ...SourceOption) *ToneSource {
	s := &ToneSource{
		step:      2 * math.Pi * freq,
		amplitude: amplitude,
		limit:     -1,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Read fills dst. When the sample limit cuts the request short it returns
// the samples produced together with io.EOF.
func (s *ToneSource) Read(dst []complex128) (int, error) {
	n := len(dst)
	if s.limit >= 0 && s.n+n > s.limit {
		n = max(s.limit-s.n, 0)
	}

	for i := range n {
		// Keep the phase argument bounded on long runs.
		phase := math.Mod(s.step*float64(s.n), 2*math.Pi)
		x := cmplx.Rect(s.amplitude, phase)
		if s.rng != nil {
			x += complex(s.rng.NormFloat64()*s.sigma, s.rng.NormFloat64()*s.sigma)
		}
		dst[i] = x
		s.n++
	}

	if n < len(dst) {
		return n, io.EOF
	}
	return n, nil
}

// Produced returns the number of samples emitted so far.
func (s *ToneSource) Produced() int {
	return s.n
}
