package signal

import (
	"fmt"
	"math"
	"math/cmplx"
	"math/rand"

	"github.com/cwbudde/algo-sdr/dsp/core"
)

// Generator creates deterministic complex baseband signals from a shared
// configuration. Frequencies are in cycles per sample.
type Generator struct {
	cfg  core.ProcessorConfig
	seed int64
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets deterministic random seed for noise generation.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// NewGenerator creates a configured signal generator.
func NewGenerator(opts ...core.ProcessorOption) *Generator {
	return NewGeneratorWithOptions(opts)
}

// NewGeneratorWithOptions creates a configured signal generator with signal-specific options.
func NewGeneratorWithOptions(coreOpts []core.ProcessorOption, opts ...Option) *Generator {
	g := &Generator{
		cfg:  core.ApplyProcessorOptions(coreOpts...),
		seed: 1,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// Config returns the generator processor configuration.
func (g *Generator) Config() core.ProcessorConfig {
	return g.cfg
}

// Seed returns the noise seed.
func (g *Generator) Seed() int64 {
	return g.seed
}

// SetSeed replaces the noise seed.
func (g *Generator) SetSeed(seed int64) {
	g.seed = seed
}

// Tone generates amplitude * exp(j*2*pi*freq*n).
func (g *Generator) Tone(freq, amplitude float64, samples int) ([]complex128, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("tone samples must be > 0: %d", samples)
	}
	out := make([]complex128, samples)
	step := 2 * math.Pi * freq
	for i := range out {
		out[i] = cmplx.Rect(amplitude, step*float64(i))
	}
	return out, nil
}

// Noise generates deterministic circular Gaussian noise with standard
// deviation sigma per rail.
func (g *Generator) Noise(sigma float64, samples int) ([]complex128, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("noise samples must be > 0: %d", samples)
	}
	if sigma < 0 {
		return nil, fmt.Errorf("noise sigma must be >= 0: %f", sigma)
	}
	out := make([]complex128, samples)
	rng := rand.New(rand.NewSource(g.seed))
	for i := range out {
		out[i] = complex(rng.NormFloat64()*sigma, rng.NormFloat64()*sigma)
	}
	return out, nil
}

// Impulse generates a unit sample at pos and zeros elsewhere.
func (g *Generator) Impulse(samples, pos int) ([]complex128, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("impulse samples must be > 0: %d", samples)
	}
	if pos < 0 || pos >= samples {
		return nil, fmt.Errorf("impulse position %d out of range [0, %d)", pos, samples)
	}
	out := make([]complex128, samples)
	out[pos] = 1
	return out, nil
}

// Normalize scales data to target peak magnitude and returns a new slice.
func Normalize(data []complex128, targetPeak float64) ([]complex128, error) {
	if targetPeak < 0 {
		return nil, fmt.Errorf("normalize target peak must be >= 0: %f", targetPeak)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("normalize input must not be empty")
	}

	maxAbs := 0.0
	for _, v := range data {
		maxAbs = math.Max(maxAbs, cmplx.Abs(v))
	}

	out := make([]complex128, len(data))
	if maxAbs == 0 || targetPeak == 0 {
		return out, nil
	}

	scale := complex(targetPeak/maxAbs, 0)
	for i, v := range data {
		out[i] = v * scale
	}
	return out, nil
}
