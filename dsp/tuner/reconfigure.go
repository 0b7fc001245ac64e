package tuner

import (
	"fmt"

	"github.com/cwbudde/algo-sdr/dsp/filter/design/pulse"
	"github.com/cwbudde/algo-sdr/dsp/filter/fir"
	"github.com/cwbudde/algo-sdr/dsp/filter/iir"
	"github.com/cwbudde/algo-sdr/internal/logging"
)

// lowpassCutoff returns the channel filter cutoff for a symbol period:
// half the symbol rate, in cycles per sample.
func lowpassCutoff(symbolPeriod float64) float64 {
	return 1 / (2 * symbolPeriod)
}

// UpdateFilter realizes the filter side of req.
//
// Validation, storage growth and low-pass redesign all happen into
// temporaries first. Live state changes only after every one of them has
// succeeded; on failure the previous filters, taps, history and effective
// parameters are untouched and the temporaries are released.
func (t *Tuner) UpdateFilter(req Params) error {
	if t.closed {
		return ErrClosed
	}
	if err := req.validateFilter(); err != nil {
		return err
	}

	grow := t.mf == nil || req.Length > t.mf.Cap()
	redesign := t.lpf == nil || req.SymbolPeriod != t.applied.SymbolPeriod

	var mf *fir.Filter
	if grow {
		var err error
		mf, err = t.opts.alloc(req.Length)
		if err != nil {
			return fmt.Errorf("tuner: allocate %d taps: %w", req.Length, err)
		}
		if mf.Cap() < req.Length {
			mf.Release()
			return fmt.Errorf("tuner: allocate %d taps: %w: got capacity %d", req.Length, ErrInvalidParams, mf.Cap())
		}
	}

	var lpf *iir.Filter
	if redesign {
		var err error
		lpf, err = t.opts.design(t.opts.order, lowpassCutoff(req.SymbolPeriod))
		if err != nil {
			mf.Release()
			return fmt.Errorf("tuner: design low-pass for T=%g: %w", req.SymbolPeriod, err)
		}
	}

	// Commit.
	if grow {
		t.mf.Release()
		t.mf = mf
	}
	t.mf.Resize(req.Length)
	pulse.RootRaisedCosine(t.mf.Taps(), req.SymbolPeriod, req.Rolloff)

	if redesign {
		t.lpf.Release()
		t.lpf = lpf
	}

	t.applied.SymbolPeriod = req.SymbolPeriod
	t.applied.Rolloff = req.Rolloff
	t.applied.Length = req.Length

	t.log.Debug("filter updated",
		logging.F("T", req.SymbolPeriod),
		logging.F("beta", req.Rolloff),
		logging.F("size", req.Length),
		logging.F("capacity", t.mf.Cap()),
		logging.F("grown", grow),
		logging.F("redesigned", redesign))

	return nil
}
