package tuner

import (
	"github.com/cwbudde/algo-sdr/dsp/buffer"
	"github.com/cwbudde/algo-sdr/dsp/filter/fir"
	"github.com/cwbudde/algo-sdr/dsp/filter/iir"
	"github.com/cwbudde/algo-sdr/internal/logging"
)

// DefaultLowpassOrder is the Butterworth order of the channel filter.
const DefaultLowpassOrder = 5

// DefaultMaxLength is the matched filter length cap used unless
// WithMaxLength sets another.
const DefaultMaxLength = 1 << 16

// Allocator creates matched filter storage for at least length taps.
type Allocator func(length int) (*fir.Filter, error)

// Designer builds a channel low-pass with the given order and cutoff in
// cycles per sample.
type Designer func(order int, cutoff float64) (*iir.Filter, error)

type options struct {
	log       logging.Logger
	order     int
	maxLength int
	pool      *buffer.Pool
	alloc     Allocator
	design    Designer
}

// Option configures a Tuner.
type Option func(*options)

// WithLogger sets the logger. The default is logging.Default().
func WithLogger(l logging.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithLowpassOrder sets the channel filter order.
func WithLowpassOrder(order int) Option {
	return func(o *options) {
		o.order = order
	}
}

// WithMaxLength caps the matched filter length accepted by the default
// allocator. Values below one keep DefaultMaxLength.
func WithMaxLength(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxLength = n
		}
	}
}

// WithPool recycles matched filter history through pool.
func WithPool(pool *buffer.Pool) Option {
	return func(o *options) {
		o.pool = pool
	}
}

// WithAllocator replaces the matched filter allocator.
func WithAllocator(a Allocator) Option {
	return func(o *options) {
		if a != nil {
			o.alloc = a
		}
	}
}

// WithDesigner replaces the channel low-pass designer.
func WithDesigner(d Designer) Option {
	return func(o *options) {
		if d != nil {
			o.design = d
		}
	}
}

func applyOptions(opts []Option) options {
	o := options{
		log:       logging.Default(),
		order:     DefaultLowpassOrder,
		maxLength: DefaultMaxLength,
		design:    iir.DesignLowpass,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.alloc == nil {
		o.alloc = defaultAllocator(o.maxLength, o.pool)
	}
	return o
}

func defaultAllocator(maxLength int, pool *buffer.Pool) Allocator {
	return func(length int) (*fir.Filter, error) {
		if maxLength > 0 && length > maxLength {
			return nil, ErrFilterTooLong
		}
		if pool != nil {
			return fir.New(length, fir.WithPool(pool))
		}
		return fir.New(length)
	}
}
