// Package pass designs higher-order pass filters as cascades of biquad
// sections.
package pass
