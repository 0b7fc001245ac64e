package tuner

import (
	"math/cmplx"
	"testing"

	"github.com/cwbudde/algo-sdr/dsp/filter/design/pulse"
)

func pulseTaps(dst []float64, period, beta float64) {
	pulse.RootRaisedCosine(dst, period, beta)
}

// An impulse written into the history followed by k zeros must read back
// tap k: tap 0 aligns with the newest sample.
func TestMatchedFilterImpulseAlignment(t *testing.T) {
	tu := newTuner(t, Params{SymbolPeriod: 4, Rolloff: 0.35, Length: 17})

	// Use an asymmetric tap set so a reversed traversal would be caught.
	taps := tu.mf.Taps()
	for i := range taps {
		taps[i] = float64(i + 1)
	}

	n := tu.Effective().Length
	for k := range n {
		tu.mf.Reset()
		tu.mf.Push(1)
		for range k {
			tu.mf.Push(0)
		}
		if got, want := tu.Read(), complex(taps[k], 0); got != want {
			t.Fatalf("k=%d: Read() = %v, want %v", k, got, want)
		}
	}
}

// The same alignment holds after the window has wrapped several times.
func TestMatchedFilterAlignmentAfterWrap(t *testing.T) {
	tu := newTuner(t, Params{SymbolPeriod: 4, Rolloff: 0.35, Length: 9})
	taps := tu.mf.Taps()
	for i := range taps {
		taps[i] = float64(10 * (i + 1))
	}

	for range 23 {
		tu.mf.Push(0)
	}
	tu.mf.Push(1i)
	for range 4 {
		tu.mf.Push(0)
	}
	if got, want := tu.Read(), complex(0, taps[4]); cmplx.Abs(got-want) != 0 {
		t.Fatalf("Read() = %v, want %v", got, want)
	}
}

func TestReadHasNoSideEffects(t *testing.T) {
	tu := newTuner(t, defaultParams())
	tu.Feed([]complex128{1, 2, 3})

	cursor := tu.mf.Cursor()
	a := tu.Read()
	b := tu.Read()
	if a != b || tu.mf.Cursor() != cursor {
		t.Fatalf("Read() mutated state: %v then %v, cursor %d -> %d", a, b, cursor, tu.mf.Cursor())
	}
}
