package tuner

import (
	"errors"
	"slices"
	"testing"

	"github.com/cwbudde/algo-sdr/dsp/buffer"
	"github.com/cwbudde/algo-sdr/dsp/filter/fir"
	"github.com/cwbudde/algo-sdr/dsp/filter/iir"
	"github.com/cwbudde/algo-sdr/internal/testutil"
)

func failingAllocator(err error) Allocator {
	return func(int) (*fir.Filter, error) { return nil, err }
}

// recordingAllocator keeps every filter it hands out and can be told to fail.
type recordingAllocator struct {
	filters []*fir.Filter
	fail    error
}

func (a *recordingAllocator) allocate(length int) (*fir.Filter, error) {
	if a.fail != nil {
		return nil, a.fail
	}
	f, err := fir.New(length)
	if err != nil {
		return nil, err
	}
	a.filters = append(a.filters, f)
	return f, nil
}

// switchDesigner delegates to iir.DesignLowpass until fail is set.
type switchDesigner struct {
	calls int
	fail  error
}

func (d *switchDesigner) design(order int, cutoff float64) (*iir.Filter, error) {
	d.calls++
	if d.fail != nil {
		return nil, d.fail
	}
	return iir.DesignLowpass(order, cutoff)
}

// liveState captures everything a failed reconfiguration must leave alone.
type liveState struct {
	effective Params
	capacity  int
	cursor    int
	mf        *fir.Filter
	lpf       *iir.Filter
	taps      []float64
	history   []complex128
	output    complex128
}

func captureState(tu *Tuner) liveState {
	return liveState{
		effective: tu.Effective(),
		capacity:  tu.Capacity(),
		cursor:    tu.mf.Cursor(),
		mf:        tu.mf,
		lpf:       tu.lpf,
		taps:      slices.Clone(tu.mf.Taps()),
		history:   slices.Clone(tu.mf.History().Data()),
		output:    tu.Read(),
	}
}

func requireState(t *testing.T, tu *Tuner, want liveState) {
	t.Helper()

	got := captureState(tu)
	if got.effective != want.effective {
		t.Fatalf("Effective() = %+v, want %+v", got.effective, want.effective)
	}
	if got.capacity != want.capacity || got.cursor != want.cursor {
		t.Fatalf("capacity/cursor = %d/%d, want %d/%d", got.capacity, got.cursor, want.capacity, want.cursor)
	}
	if got.mf != want.mf || got.lpf != want.lpf {
		t.Fatal("live filters were swapped")
	}
	if want.lpf.Released() {
		t.Fatal("live low-pass was released")
	}
	if !slices.Equal(got.taps, want.taps) {
		t.Fatal("matched filter taps changed")
	}
	if !slices.Equal(got.history, want.history) {
		t.Fatal("history contents changed")
	}
	if got.output != want.output {
		t.Fatalf("Read() = %v, want %v", got.output, want.output)
	}
}

func TestCapacityMonotonic(t *testing.T) {
	tu := newTuner(t, defaultParams())

	prev := tu.Capacity()
	for _, n := range []int{32, 16, 96, 8, 96, 97, 10, 200, 1} {
		tu.Control().SetLength(n)
		if _, err := tu.Sync(); err != nil {
			t.Fatalf("Sync(size=%d) error = %v", n, err)
		}
		c := tu.Capacity()
		if c < prev {
			t.Fatalf("size=%d: capacity shrank from %d to %d", n, prev, c)
		}
		if c < tu.Effective().Length {
			t.Fatalf("size=%d: capacity %d below effective length %d", n, c, tu.Effective().Length)
		}
		if tu.Effective().Length != n || len(tu.mf.Taps()) != n {
			t.Fatalf("size=%d: effective length %d, taps %d", n, tu.Effective().Length, len(tu.mf.Taps()))
		}
		prev = c
	}
}

func TestShrinkReusesStorage(t *testing.T) {
	alloc := &recordingAllocator{}
	tu := newTuner(t, defaultParams(), WithAllocator(alloc.allocate))
	mf := tu.mf

	for _, n := range []int{16, 64, 40} {
		tu.Control().SetLength(n)
		if _, err := tu.Sync(); err != nil {
			t.Fatalf("Sync(size=%d) error = %v", n, err)
		}
	}
	if tu.mf != mf || len(alloc.filters) != 1 {
		t.Fatalf("allocations = %d, want 1 (storage reused)", len(alloc.filters))
	}
}

func TestGrowReleasesOldStorage(t *testing.T) {
	alloc := &recordingAllocator{}
	tu := newTuner(t, defaultParams(), WithAllocator(alloc.allocate))
	old := tu.mf

	tu.Control().SetLength(128)
	if _, err := tu.Sync(); err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	if old.History() != nil {
		t.Fatal("old matched filter storage was not released")
	}
	if tu.Capacity() != 128 {
		t.Fatalf("Capacity() = %d, want 128", tu.Capacity())
	}
}

func TestRedesignOnlyWhenPeriodChanges(t *testing.T) {
	d := &switchDesigner{}
	tu := newTuner(t, defaultParams(), WithDesigner(d.design))
	lpf := tu.lpf

	tu.Control().SetRolloff(0.5)
	tu.Control().SetLength(48)
	if _, err := tu.Sync(); err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	if d.calls != 1 || tu.lpf != lpf {
		t.Fatalf("designer calls = %d, want 1 (no redesign)", d.calls)
	}

	tu.Control().SetSymbolPeriod(16)
	if _, err := tu.Sync(); err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	if d.calls != 2 || tu.lpf == lpf {
		t.Fatalf("designer calls = %d, want 2 (redesign)", d.calls)
	}
	if !lpf.Released() {
		t.Fatal("replaced low-pass was not released")
	}
	if tu.lpf.Cutoff() != lowpassCutoff(16) {
		t.Fatalf("Cutoff() = %v, want %v", tu.lpf.Cutoff(), lowpassCutoff(16))
	}
}

func TestAtomicity_AllocationFailure(t *testing.T) {
	alloc := &recordingAllocator{}
	tu := newTuner(t, defaultParams(), WithAllocator(alloc.allocate))
	tu.Feed(testutil.Tone(0.1, 1, 100))
	before := captureState(tu)

	alloc.fail = errors.New("out of memory")
	tu.Control().Update(func(p *Params) {
		p.Length = 256
		p.SymbolPeriod = 12
		p.Rolloff = 0.2
	})

	if _, err := tu.Sync(); !errors.Is(err, alloc.fail) {
		t.Fatalf("Sync() error = %v, want %v", err, alloc.fail)
	}
	requireState(t, tu, before)

	// A later attempt succeeds once the fault clears.
	alloc.fail = nil
	if _, err := tu.Sync(); err != nil {
		t.Fatalf("retry Sync() error = %v", err)
	}
	if got := tu.Effective(); got.Length != 256 || got.SymbolPeriod != 12 || got.Rolloff != 0.2 {
		t.Fatalf("Effective() = %+v after retry", got)
	}
}

func TestAtomicity_DesignFailure(t *testing.T) {
	alloc := &recordingAllocator{}
	d := &switchDesigner{}
	tu := newTuner(t, defaultParams(), WithAllocator(alloc.allocate), WithDesigner(d.design))
	tu.Feed(testutil.Tone(0.1, 1, 100))
	before := captureState(tu)

	d.fail = errors.New("unstable")
	tu.Control().Update(func(p *Params) {
		p.Length = 128
		p.SymbolPeriod = 10
	})

	if _, err := tu.Sync(); !errors.Is(err, d.fail) {
		t.Fatalf("Sync() error = %v, want %v", err, d.fail)
	}
	requireState(t, tu, before)

	// The matched filter built for the failed attempt was handed back.
	if n := len(alloc.filters); n != 2 {
		t.Fatalf("allocations = %d, want 2", n)
	}
	if alloc.filters[1].History() != nil {
		t.Fatal("temporary matched filter leaked after design failure")
	}
}

func TestAtomicity_InvalidRequest(t *testing.T) {
	tu := newTuner(t, defaultParams())
	tu.Feed(testutil.Tone(0.1, 1, 10))
	before := captureState(tu)

	for _, mod := range []func(p *Params){
		func(p *Params) { p.SymbolPeriod = 0.5 },
		func(p *Params) { p.Rolloff = 3 },
		func(p *Params) { p.Length = 0 },
	} {
		req := tu.Effective()
		mod(&req)
		if err := tu.UpdateFilter(req); !errors.Is(err, ErrInvalidParams) {
			t.Fatalf("UpdateFilter(%+v) = %v, want ErrInvalidParams", req, err)
		}
		requireState(t, tu, before)
	}
}

func TestNoOpReconfiguration(t *testing.T) {
	alloc := &recordingAllocator{}
	d := &switchDesigner{}
	tu := newTuner(t, defaultParams(), WithAllocator(alloc.allocate), WithDesigner(d.design))
	tu.Feed(testutil.Tone(0.1, 1, 10))

	taps := &tu.mf.Taps()[0]
	hist := &tu.mf.History().Data()[0]
	mf, lpf := tu.mf, tu.lpf

	if tu.FilterChanged(tu.Control().Load()) || tu.OscillatorChanged(tu.Control().Load()) {
		t.Fatal("drift reported with request equal to effective")
	}

	allocs := testing.AllocsPerRun(100, func() {
		if _, err := tu.Sync(); err != nil {
			t.Fatalf("Sync() error = %v", err)
		}
	})
	if allocs != 0 {
		t.Fatalf("Sync() allocated %v times per run, want 0", allocs)
	}

	if &tu.mf.Taps()[0] != taps || &tu.mf.History().Data()[0] != hist {
		t.Fatal("no-op sync moved the underlying storage")
	}
	if tu.mf != mf || tu.lpf != lpf {
		t.Fatal("no-op sync swapped filters")
	}
	if len(alloc.filters) != 1 || d.calls != 1 {
		t.Fatalf("allocations/designs = %d/%d, want 1/1", len(alloc.filters), d.calls)
	}
}

func TestCursorWrapsOnShrink(t *testing.T) {
	tu := newTuner(t, defaultParams())
	tu.Feed(make([]complex128, 50))
	if tu.mf.Cursor() != 50 {
		t.Fatalf("Cursor() = %d, want 50", tu.mf.Cursor())
	}

	tu.Control().SetLength(20)
	if _, err := tu.Sync(); err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	if c := tu.mf.Cursor(); c < 0 || c >= 20 {
		t.Fatalf("Cursor() = %d outside [0, 20)", c)
	}
}

func TestTapsFollowRequest(t *testing.T) {
	tu := newTuner(t, defaultParams())
	tu.Control().Update(func(p *Params) {
		p.SymbolPeriod = 10
		p.Rolloff = 0.5
		p.Length = 41
	})
	if _, err := tu.Sync(); err != nil {
		t.Fatalf("Sync() error = %v", err)
	}

	want := make([]float64, 41)
	pulseTaps(want, 10, 0.5)
	if !slices.Equal(tu.mf.Taps(), want) {
		t.Fatal("matched filter taps do not match a fresh RRC design")
	}
}

func TestWithPool(t *testing.T) {
	pool := buffer.NewPool()
	tu := newTuner(t, defaultParams(), WithPool(pool))

	tu.Control().SetLength(128)
	if _, err := tu.Sync(); err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	if tu.Capacity() < 128 {
		t.Fatalf("Capacity() = %d, want >= 128", tu.Capacity())
	}
}
