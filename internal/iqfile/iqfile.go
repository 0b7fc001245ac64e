// Package iqfile stores complex baseband streams as two-channel PCM WAV
// files, I on the left channel and Q on the right.
package iqfile

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/cwbudde/algo-sdr/dsp/core"
)

const (
	channels  = 2
	pcmFormat = 1
)

var (
	// ErrNotIQ reports a WAV file that does not carry two channels.
	ErrNotIQ = errors.New("iqfile: not a two-channel WAV file")
	// ErrBitDepth reports an unsupported PCM sample width.
	ErrBitDepth = errors.New("iqfile: unsupported bit depth")
	// ErrEmpty reports a file without samples where data is required.
	ErrEmpty = errors.New("iqfile: no samples")
)

func fullScale(bitDepth int) (float64, error) {
	switch bitDepth {
	case 16, 24, 32:
		return float64(int64(1)<<(bitDepth-1) - 1), nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrBitDepth, bitDepth)
	}
}

// Reader streams samples from an I/Q WAV file.
type Reader struct {
	f     *os.File
	dec   *wav.Decoder
	buf   *audio.IntBuffer
	scale float64
	read  uint64
}

// Open opens an I/Q WAV file for reading.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		f.Close()
		return nil, fmt.Errorf("iqfile: %s: invalid WAV file", path)
	}
	if dec.NumChans != channels {
		f.Close()
		return nil, fmt.Errorf("%w: %s has %d channels", ErrNotIQ, path, dec.NumChans)
	}

	scale, err := fullScale(int(dec.BitDepth))
	if err != nil {
		f.Close()
		return nil, err
	}

	return &Reader{
		f:     f,
		dec:   dec,
		buf:   &audio.IntBuffer{Format: dec.Format()},
		scale: scale,
	}, nil
}

// SampleRate returns the rate recorded in the header.
func (r *Reader) SampleRate() int { return int(r.dec.SampleRate) }

// BitDepth returns the PCM sample width.
func (r *Reader) BitDepth() int { return int(r.dec.BitDepth) }

// Samples returns the number of complex samples read so far.
func (r *Reader) Samples() uint64 { return r.read }

// Read fills dst with the next samples. A read that reaches the end of the
// data before dst is full returns the samples it got together with io.EOF.
func (r *Reader) Read(dst []complex128) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	r.buf.Data = core.EnsureLen(r.buf.Data, channels*len(dst))
	n, err := r.dec.PCMBuffer(r.buf)
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("iqfile: decode: %w", err)
	}

	frames := n / channels
	inv := 1 / r.scale
	for i := range frames {
		dst[i] = complex(float64(r.buf.Data[2*i])*inv, float64(r.buf.Data[2*i+1])*inv)
	}
	r.read += uint64(frames)

	if frames < len(dst) {
		return frames, io.EOF
	}
	return frames, nil
}

// Close releases the file.
func (r *Reader) Close() error {
	return r.f.Close()
}

// ReadAll loads every sample of the file at path.
func ReadAll(path string) ([]complex128, int, error) {
	r, err := Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer r.Close()

	var out []complex128
	chunk := make([]complex128, 4096)
	for {
		n, err := r.Read(chunk)
		out = append(out, chunk[:n]...)
		if errors.Is(err, io.EOF) {
			return out, r.SampleRate(), nil
		}
		if err != nil {
			return nil, 0, err
		}
	}
}

// Writer appends samples to an I/Q WAV file. Components are clipped to
// [-1, 1] before quantization.
type Writer struct {
	f       *os.File
	enc     *wav.Encoder
	buf     *audio.IntBuffer
	scale   float64
	written uint64
}

// Create creates or truncates path and writes a header for the given
// sample rate and bit depth.
func Create(path string, sampleRate, bitDepth int) (*Writer, error) {
	scale, err := fullScale(bitDepth)
	if err != nil {
		return nil, err
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	return &Writer{
		f:   f,
		enc: wav.NewEncoder(f, sampleRate, bitDepth, channels, pcmFormat),
		buf: &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
			SourceBitDepth: bitDepth,
		},
		scale: scale,
	}, nil
}

// Write appends samples.
func (w *Writer) Write(samples []complex128) error {
	if len(samples) == 0 {
		return nil
	}

	w.buf.Data = core.EnsureLen(w.buf.Data, channels*len(samples))
	for i, s := range samples {
		w.buf.Data[2*i] = w.quantize(real(s))
		w.buf.Data[2*i+1] = w.quantize(imag(s))
	}

	if err := w.enc.Write(w.buf); err != nil {
		return fmt.Errorf("iqfile: encode: %w", err)
	}
	w.written += uint64(len(samples))
	return nil
}

func (w *Writer) quantize(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	return int(math.Round(core.Clamp(v, -1, 1) * w.scale))
}

// Samples returns the number of complex samples written.
func (w *Writer) Samples() uint64 { return w.written }

// Close finalizes the header and closes the file.
func (w *Writer) Close() error {
	if err := w.enc.Close(); err != nil {
		w.f.Close()
		return fmt.Errorf("iqfile: finalize: %w", err)
	}
	return w.f.Close()
}

// Loop replays a file endlessly. It reopens the file when the data runs
// out, so each pass starts from the first sample.
type Loop struct {
	path   string
	r      *Reader
	passes int
}

// OpenLoop opens path as an endless source.
func OpenLoop(path string) (*Loop, error) {
	r, err := Open(path)
	if err != nil {
		return nil, err
	}
	return &Loop{path: path, r: r}, nil
}

// SampleRate returns the rate recorded in the header.
func (l *Loop) SampleRate() int { return l.r.SampleRate() }

// Passes returns how many times the file has been restarted.
func (l *Loop) Passes() int { return l.passes }

// Read always fills dst unless the file is empty or cannot be reopened.
func (l *Loop) Read(dst []complex128) (int, error) {
	total := 0
	for total < len(dst) {
		n, err := l.r.Read(dst[total:])
		total += n
		if err == nil {
			continue
		}
		if !errors.Is(err, io.EOF) {
			return total, err
		}
		if n == 0 && l.r.Samples() == 0 {
			return total, fmt.Errorf("%w: %s", ErrEmpty, l.path)
		}
		if err := l.rewind(); err != nil {
			return total, err
		}
	}
	return total, nil
}

func (l *Loop) rewind() error {
	l.r.Close()
	r, err := Open(l.path)
	if err != nil {
		return fmt.Errorf("iqfile: reopen %s: %w", l.path, err)
	}
	l.r = r
	l.passes++
	return nil
}

// Close releases the file.
func (l *Loop) Close() error {
	return l.r.Close()
}
