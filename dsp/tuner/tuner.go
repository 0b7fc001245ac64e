package tuner

import (
	"fmt"

	"github.com/cwbudde/algo-sdr/dsp/filter/fir"
	"github.com/cwbudde/algo-sdr/dsp/filter/iir"
	"github.com/cwbudde/algo-sdr/dsp/nco"
	"github.com/cwbudde/algo-sdr/internal/logging"
)

// Tuner down-converts, channel-filters and matched-filters a complex stream.
//
// A Tuner is driven by a single goroutine. Only its Control may be touched
// concurrently.
type Tuner struct {
	opts options
	log  logging.Logger
	ctl  *Control

	// applied holds the filter-side parameters realized in lpf and mf.
	applied Params
	// derived is the decimation used when the request leaves it at zero.
	derived    int
	decimation int

	osc *nco.Oscillator
	lpf *iir.Filter
	mf  *fir.Filter

	closed bool
}

// New builds a tuner for p. Construction runs the same reconfiguration path
// as a live update from an empty state, so on failure nothing is left
// allocated.
func New(p Params, opts ...Option) (*Tuner, error) {
	o := applyOptions(opts)
	t := &Tuner{
		opts: o,
		log:  o.log.With(logging.F("component", "tuner")),
		osc:  nco.New(0),
	}

	if p.Decimation <= 0 {
		p.Decimation = DeriveDecimation(p.SymbolPeriod)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("tuner: construct: %w", err)
	}
	if err := t.UpdateFilter(p); err != nil {
		return nil, fmt.Errorf("tuner: construct: %w", err)
	}
	t.UpdateOscillator(p)
	t.derived = p.Decimation
	t.decimation = p.Decimation
	t.ctl = NewControl(p)

	t.log.Info("tuner ready",
		logging.F("fc", p.CenterFrequency),
		logging.F("T", p.SymbolPeriod),
		logging.F("beta", p.Rolloff),
		logging.F("size", p.Length),
		logging.F("decimation", p.Decimation))

	return t, nil
}

// Control returns the live request handle.
func (t *Tuner) Control() *Control {
	return t.ctl
}

// FilterChanged reports whether req asks for a different symbol period,
// roll-off or filter length than the one in effect.
func (t *Tuner) FilterChanged(req Params) bool {
	return !t.applied.filterEqual(req)
}

// OscillatorChanged reports whether req asks for a different centre
// frequency than the oscillator is set to.
func (t *Tuner) OscillatorChanged(req Params) bool {
	return t.osc.Frequency() != -req.CenterFrequency
}

// UpdateOscillator retunes the oscillator to -req.CenterFrequency. The
// oscillator phase is kept. Frequencies outside [-0.5, 0.5] alias.
func (t *Tuner) UpdateOscillator(req Params) {
	t.osc.SetFrequency(-req.CenterFrequency)
	t.applied.CenterFrequency = req.CenterFrequency
}

// Sync loads one request snapshot and applies any drift: the decimation
// and filter side first, then the oscillator. If either is rejected
// nothing changes and the error is returned with the snapshot.
func (t *Tuner) Sync() (Params, error) {
	if t.closed {
		return Params{}, ErrClosed
	}

	req := t.ctl.Load()
	if err := req.validateDecimation(); err != nil {
		return req, err
	}
	if t.FilterChanged(req) {
		if err := t.UpdateFilter(req); err != nil {
			return req, err
		}
	}
	if t.OscillatorChanged(req) {
		t.UpdateOscillator(req)
	}
	if req.Decimation > 0 {
		t.decimation = req.Decimation
	} else {
		t.decimation = t.derived
	}
	return req, nil
}

// Feed mixes, low-passes and stores each sample in the matched filter
// history.
func (t *Tuner) Feed(samples []complex128) {
	for _, x := range samples {
		t.mf.Push(t.lpf.Feed(t.osc.Mix(x)))
	}
}

// Read correlates the matched filter with the most recent history. It does
// not advance any state.
func (t *Tuner) Read() complex128 {
	return t.mf.Output()
}

// Effective returns the configuration currently realized.
func (t *Tuner) Effective() Params {
	p := t.applied
	p.CenterFrequency = -t.osc.Frequency()
	p.Decimation = t.decimation
	return p
}

// Decimation returns the factor in effect: the one used by the last
// synchronized batch, or the constructed one before any.
func (t *Tuner) Decimation() int {
	return t.decimation
}

// Capacity returns the physical matched filter capacity.
func (t *Tuner) Capacity() int {
	if t.mf == nil {
		return 0
	}
	return t.mf.Cap()
}

// OscillatorFrequency returns the frequency the oscillator is set to.
func (t *Tuner) OscillatorFrequency() float64 {
	return t.osc.Frequency()
}

// Close releases the matched filter storage and the low-pass state. It is
// idempotent.
func (t *Tuner) Close() error {
	if t.closed {
		return nil
	}
	t.closed = true

	t.mf.Release()
	t.mf = nil
	t.lpf.Release()
	t.lpf = nil

	t.log.Debug("tuner closed")
	return nil
}
