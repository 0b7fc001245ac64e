// Package fir provides a direct-form FIR runtime over complex samples.
//
// A [Filter] correlates a tap vector with a circular history of the most
// recent input samples. Storage is allocated once at a fixed capacity; the
// logical length can then move anywhere in [0, Cap] without reallocating,
// which lets a matched filter be retuned in place.
//
// This package provides the processing runtime only. Tap design lives in
// dsp/filter/design/pulse.
package fir
