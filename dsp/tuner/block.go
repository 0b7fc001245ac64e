package tuner

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/cwbudde/algo-sdr/dsp/core"
	"github.com/cwbudde/algo-sdr/internal/logging"
)

// Source delivers raw input samples. Returning fewer than len(dst) samples
// is a short read and ends the current batch.
type Source interface {
	Read(dst []complex128) (int, error)
}

// Block drives a Tuner from a Source, one decimated output per window.
type Block struct {
	t   *Tuner
	src Source
	log logging.Logger

	scratch []complex128

	consumed atomic.Uint64
	produced atomic.Uint64
}

// BlockOption configures a Block.
type BlockOption func(*Block)

// WithBlockLogger sets the block logger. The default is the tuner's.
func WithBlockLogger(l logging.Logger) BlockOption {
	return func(b *Block) {
		if l != nil {
			b.log = l
		}
	}
}

// NewBlock returns a Block pulling from src into t.
func NewBlock(t *Tuner, src Source, opts ...BlockOption) *Block {
	b := &Block{t: t, src: src, log: t.log}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// Tuner returns the driven tuner.
func (b *Block) Tuner() *Tuner {
	return b.t
}

// Process fills dst with decimated output.
//
// The request snapshot is synchronized once for the whole call. If the
// request is rejected nothing is emitted and the error wraps ErrAcquire.
// Each output sample then consumes exactly d input samples read in one
// batch. On a short read Process returns the outputs completed so far with
// the source error, or ErrShortRead if the source reported none; the
// partial window never produces output.
func (b *Block) Process(dst []complex128) (int, error) {
	if _, err := b.t.Sync(); err != nil {
		if errors.Is(err, ErrClosed) {
			return 0, err
		}
		b.log.Error("failed to update filter", logging.Err(err))
		return 0, fmt.Errorf("%w: %w", ErrAcquire, err)
	}

	d := b.t.Decimation()
	b.scratch = core.EnsureLen(b.scratch, d)
	window := b.scratch[:d]

	for i := range dst {
		n, err := b.src.Read(window)
		if n > 0 {
			b.t.Feed(window[:n])
			b.consumed.Add(uint64(n))
		}
		if n < d {
			if err == nil {
				err = ErrShortRead
			}
			return i, err
		}

		dst[i] = b.t.Read()
		b.produced.Add(1)
	}

	return len(dst), nil
}

// Consumed returns the number of input samples fed so far.
func (b *Block) Consumed() uint64 {
	return b.consumed.Load()
}

// Produced returns the number of output samples emitted so far.
func (b *Block) Produced() uint64 {
	return b.produced.Load()
}
