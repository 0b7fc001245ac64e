// Package design provides digital IIR filter coefficient designers.
//
// The functions in this package produce biquad coefficients consumable by
// dsp/filter/biquad for runtime processing. Frequencies are given together
// with a sample rate; pass a sample rate of 1 to design in cycles per sample.
//
// The sub-package design/pass builds higher-order Butterworth cascades from
// these sections, and design/pulse generates pulse-shaping FIR taps.
package design
