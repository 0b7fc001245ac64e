package tuner

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/cwbudde/algo-sdr/dsp/filter/design/pulse"
)

// Params is one complete tuner configuration.
type Params struct {
	// CenterFrequency is the channel centre in cycles per sample, in [-0.5, 0.5].
	CenterFrequency float64
	// SymbolPeriod is the symbol duration in samples; it must exceed 1.
	SymbolPeriod float64
	// Rolloff is the root-raised-cosine excess bandwidth, in [0, 1].
	Rolloff float64
	// Length is the matched filter length in taps.
	Length int
	// Decimation is the number of input samples per output sample.
	// Zero or less selects the value derived from the initial symbol period.
	Decimation int
}

// MaxDecimation bounds the decimation factor. One output window is
// buffered in full, so the factor sizes an allocation.
const MaxDecimation = 1 << 16

// DeriveDecimation returns the decimation factor for a symbol period:
// at least four output samples per symbol, never less than one.
//
// This is floor(T/4), not ceil(1/(4T)). The latter is 1 for every valid
// T and would leave the output at the input rate, so the factor is
// deliberately taken from samples per symbol instead.
func DeriveDecimation(symbolPeriod float64) int {
	if !(symbolPeriod > 0) || math.IsInf(symbolPeriod, 0) {
		return 1
	}
	return max(1, int(math.Floor(symbolPeriod/4)))
}

// Validate reports whether p describes a realizable configuration.
func (p Params) Validate() error {
	if math.IsNaN(p.CenterFrequency) || math.Abs(p.CenterFrequency) > 0.5 {
		return fmt.Errorf("%w: center frequency %g outside [-0.5, 0.5]", ErrInvalidParams, p.CenterFrequency)
	}
	if err := p.validateDecimation(); err != nil {
		return err
	}
	return p.validateFilter()
}

func (p Params) validateDecimation() error {
	if p.Decimation > MaxDecimation {
		return fmt.Errorf("%w: decimation %d exceeds %d", ErrInvalidParams, p.Decimation, MaxDecimation)
	}
	return nil
}

// validateFilter checks only the fields that shape the filters.
func (p Params) validateFilter() error {
	switch {
	case !(p.SymbolPeriod > 1) || math.IsInf(p.SymbolPeriod, 0):
		return fmt.Errorf("%w: symbol period %g must exceed 1 sample", ErrInvalidParams, p.SymbolPeriod)
	case p.Length < 1:
		return fmt.Errorf("%w: filter length %d", ErrInvalidParams, p.Length)
	}
	if err := pulse.ValidateRolloff(p.Rolloff); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidParams, err)
	}
	return nil
}

func (p Params) filterEqual(o Params) bool {
	return p.SymbolPeriod == o.SymbolPeriod && p.Rolloff == o.Rolloff && p.Length == o.Length
}

// Control holds the requested configuration. Every write replaces the whole
// snapshot with a single compare-and-swap, so readers never observe a mix
// of old and new fields. It is safe for concurrent use.
type Control struct {
	p atomic.Pointer[Params]
}

// NewControl returns a Control holding p.
func NewControl(p Params) *Control {
	c := &Control{}
	c.Set(p)
	return c
}

// Load returns the current request snapshot.
func (c *Control) Load() Params {
	return *c.p.Load()
}

// Set replaces the whole request.
func (c *Control) Set(p Params) {
	c.p.Store(&p)
}

// Update applies fn to a copy of the current request and publishes it,
// retrying if another writer got there first.
func (c *Control) Update(fn func(p *Params)) Params {
	for {
		old := c.p.Load()
		next := *old
		fn(&next)
		if c.p.CompareAndSwap(old, &next) {
			return next
		}
	}
}

// SetCenterFrequency requests a new channel centre.
func (c *Control) SetCenterFrequency(f float64) {
	c.Update(func(p *Params) { p.CenterFrequency = f })
}

// SetSymbolPeriod requests a new symbol period.
func (c *Control) SetSymbolPeriod(t float64) {
	c.Update(func(p *Params) { p.SymbolPeriod = t })
}

// SetRolloff requests a new roll-off factor.
func (c *Control) SetRolloff(beta float64) {
	c.Update(func(p *Params) { p.Rolloff = beta })
}

// SetLength requests a new matched filter length.
func (c *Control) SetLength(n int) {
	c.Update(func(p *Params) { p.Length = n })
}

// SetDecimation requests a new decimation factor.
func (c *Control) SetDecimation(d int) {
	c.Update(func(p *Params) { p.Decimation = d })
}

type property struct {
	get func(p Params) float64
	set func(p *Params, v float64)
	integer bool
}

var properties = map[string]property{
	"fc": {
		get: func(p Params) float64 { return p.CenterFrequency },
		set: func(p *Params, v float64) { p.CenterFrequency = v },
	},
	"T": {
		get: func(p Params) float64 { return p.SymbolPeriod },
		set: func(p *Params, v float64) { p.SymbolPeriod = v },
	},
	"beta": {
		get: func(p Params) float64 { return p.Rolloff },
		set: func(p *Params, v float64) { p.Rolloff = v },
	},
	"size": {
		get: func(p Params) float64 { return float64(p.Length) },
		set: func(p *Params, v float64) { p.Length = int(v) },
		integer: true,
	},
	"decimation": {
		get: func(p Params) float64 { return float64(p.Decimation) },
		set: func(p *Params, v float64) { p.Decimation = int(v) },
		integer: true,
	},
}

var aliases = map[string]string{
	"center_frequency": "fc",
	"symbol_period":    "T",
	"rolloff":          "beta",
	"length":           "size",
	"filter_length":    "size",
}

func lookup(name string) (property, error) {
	name = strings.TrimSpace(name)
	if canon, ok := aliases[strings.ToLower(name)]; ok {
		name = canon
	}
	prop, ok := properties[name]
	if !ok {
		return property{}, fmt.Errorf("%w: %q", ErrUnknownProperty, name)
	}
	return prop, nil
}

// Property returns the requested value of a named property.
func (c *Control) Property(name string) (float64, error) {
	prop, err := lookup(name)
	if err != nil {
		return 0, err
	}
	return prop.get(c.Load()), nil
}

// SetProperty sets a named property. Integer properties reject fractional
// values. The value itself is checked when the tuner applies it.
func (c *Control) SetProperty(name string, v float64) error {
	prop, err := lookup(name)
	if err != nil {
		return err
	}
	if math.IsNaN(v) {
		return fmt.Errorf("%w: %s is NaN", ErrInvalidParams, name)
	}
	if prop.integer {
		if v != math.Trunc(v) {
			return fmt.Errorf("%w: %s must be an integer, got %g", ErrInvalidParams, name, v)
		}
		if math.Abs(v) > math.MaxInt32 {
			return fmt.Errorf("%w: %s out of range, got %g", ErrInvalidParams, name, v)
		}
	}
	c.Update(func(p *Params) { prop.set(p, v) })
	return nil
}

// Properties lists the canonical property names in sorted order.
func Properties() []string {
	names := make([]string, 0, len(properties))
	for name := range properties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
