package pipeline

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/cwbudde/algo-sdr/dsp/spectrum"
	"github.com/cwbudde/algo-sdr/dsp/tuner"
	"github.com/cwbudde/algo-sdr/internal/logging"
	"github.com/cwbudde/algo-sdr/internal/transport"
)

// Broadcaster publishes monitor frames.
type Broadcaster interface {
	Broadcast(v any) error
}

// Monitor processes one block per tick and publishes it as a frame.
type Monitor struct {
	block     *tuner.Block
	out       Broadcaster
	analyzer  *spectrum.Analyzer
	blockSize int
	points    int
	log       logging.Logger

	buf []complex128
	seq uint64
}

// MonitorConfig sizes a Monitor.
type MonitorConfig struct {
	BlockSize int
	// Points caps the I/Q points per frame; zero sends every sample.
	Points   int
	Analyzer *spectrum.Analyzer
}

// NewMonitor returns a monitor publishing block output to out.
func NewMonitor(b *tuner.Block, out Broadcaster, cfg MonitorConfig, log logging.Logger) *Monitor {
	if log == nil {
		log = logging.Default()
	}
	size := max(cfg.BlockSize, 1)
	return &Monitor{
		block:     b,
		out:       out,
		analyzer:  cfg.Analyzer,
		blockSize: size,
		points:    cfg.Points,
		log:       log.With(logging.F("component", "monitor")),
		buf:       make([]complex128, size),
	}
}

// Run ticks every interval until ctx is cancelled or the source ends.
// Reconfiguration failures are logged and retried on the next tick, so a
// bad live property never stops the monitor.
func (m *Monitor) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		done, err := m.Step()
		if err != nil {
			return err
		}
		if done {
			m.log.Info("source exhausted", logging.F("frames", m.seq))
			return nil
		}
	}
}

// Step processes one block and publishes a frame. It reports done once the
// source is exhausted.
func (m *Monitor) Step() (done bool, err error) {
	n, err := m.block.Process(m.buf)
	switch {
	case err == nil:
	case errors.Is(err, io.EOF):
		done = true
	case errors.Is(err, tuner.ErrAcquire):
		m.log.Warn("block skipped", logging.Err(err))
		return false, nil
	default:
		return false, err
	}

	if n > 0 {
		m.seq++
		if berr := m.out.Broadcast(m.frame(m.buf[:n])); berr != nil {
			return done, berr
		}
	}
	return done, nil
}

func (m *Monitor) frame(out []complex128) transport.Frame {
	p := m.block.Tuner().Effective()

	f := transport.Frame{
		Type:     transport.TypeFrame,
		Seq:      m.seq,
		Consumed: m.block.Consumed(),
		Produced: m.block.Produced(),
		Params: map[string]float64{
			"fc":         p.CenterFrequency,
			"T":          p.SymbolPeriod,
			"beta":       p.Rolloff,
			"size":       float64(p.Length),
			"decimation": float64(p.Decimation),
		},
		IQ: transport.IQPoints(out, m.points),
	}

	if m.analyzer != nil && len(out) >= m.analyzer.Size() {
		freq, db, err := m.analyzer.Peak(out)
		if err == nil {
			f.PeakFreq, f.PeakDB = freq, db
		}
	}
	return f
}

// Frames returns the number of frames published.
func (m *Monitor) Frames() uint64 {
	return m.seq
}
