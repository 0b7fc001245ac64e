// Package window provides spectral analysis windows and helpers to apply
// them to complex sample blocks.
package window
