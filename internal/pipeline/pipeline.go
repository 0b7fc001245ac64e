// Package pipeline drives a tuner block from a source into a file sink or
// a live monitor.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/cwbudde/algo-sdr/dsp/tuner"
	"github.com/cwbudde/algo-sdr/internal/logging"
)

// Sink accepts tuner output.
type Sink interface {
	Write(samples []complex128) error
}

// Stats summarizes a finished run.
type Stats struct {
	Blocks   int
	Consumed uint64
	Produced uint64
}

// Run processes blocks of blockSize outputs until the source reports
// io.EOF, ctx is cancelled or a stage fails. Outputs completed before a
// short read are written before Run returns. Reaching the end of the
// source is not an error.
func Run(ctx context.Context, b *tuner.Block, sink Sink, blockSize int, log logging.Logger) (Stats, error) {
	if blockSize < 1 {
		return Stats{}, fmt.Errorf("pipeline: block size %d", blockSize)
	}
	if log == nil {
		log = logging.Default()
	}

	buf := make([]complex128, blockSize)
	var st Stats

	for {
		if err := ctx.Err(); err != nil {
			return st.with(b), err
		}

		n, err := b.Process(buf)
		if n > 0 {
			if werr := sink.Write(buf[:n]); werr != nil {
				return st.with(b), fmt.Errorf("pipeline: write: %w", werr)
			}
			st.Blocks++
		}

		switch {
		case err == nil:
		case errors.Is(err, io.EOF):
			st = st.with(b)
			log.Info("source exhausted",
				logging.F("consumed", st.Consumed),
				logging.F("produced", st.Produced))
			return st, nil
		default:
			return st.with(b), err
		}
	}
}

func (s Stats) with(b *tuner.Block) Stats {
	s.Consumed = b.Consumed()
	s.Produced = b.Produced()
	return s
}

// Collect is a Sink that keeps everything in memory.
type Collect struct {
	Samples []complex128
}

// Write appends samples.
func (c *Collect) Write(samples []complex128) error {
	c.Samples = append(c.Samples, samples...)
	return nil
}
