// Package nco provides a numerically controlled quadrature oscillator.
//
// Frequencies are normalized to cycles per sample, so 0.25 completes a full
// turn every four calls to [Oscillator.Read]. A negative frequency rotates
// clockwise, which is what a receiver uses to shift a signal down to DC.
package nco
