// Package tuner extracts a narrow channel from a wideband complex stream.
//
// Each input sample is down-mixed by a numerically controlled oscillator,
// channel-selected by a Butterworth low-pass and written into a circular
// history. A root-raised-cosine matched filter is correlated against that
// history once per decimation window to produce one output sample.
//
// Requested parameters live in a [Control] that any goroutine may update.
// The [Tuner] samples the request once per batch and reconfigures lazily.
// Reconfiguration is failure-atomic: every fallible step (validation,
// storage allocation, low-pass design) runs before any live state changes,
// so a failed update leaves the previous configuration running untouched.
//
// Frequencies are normalized to cycles per sample and the symbol period is
// given in samples per symbol.
package tuner
