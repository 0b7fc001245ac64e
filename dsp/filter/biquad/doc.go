// Package biquad provides biquad (second-order IIR) filter runtime primitives
// for complex baseband samples.
//
// A [Section] implements Direct Form II Transposed processing for a single
// second-order section defined by real [Coefficients]. Because the
// coefficients are real, the in-phase and quadrature rails are filtered
// identically and independently. Multiple sections can be cascaded via
// [Chain] for higher-order filters (Butterworth and friends).
//
// This package provides the processing runtime only. Coefficient design
// lives in dsp/filter/design.
package biquad
