// Package iir provides the channel-select low-pass used by the tuner.
//
// A Filter wraps a Butterworth cascade of complex-sample biquad sections.
// Frequencies are normalized to cycles per sample.
package iir
