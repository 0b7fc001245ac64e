// Package spectrum estimates power spectra of complex baseband blocks.
//
// [Analyzer] windows a block, transforms it with a reusable FFT plan and
// reports DC-centred power bins. The slice helpers operate on bins from any
// FFT backend.
package spectrum
