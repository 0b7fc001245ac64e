// Package signal generates deterministic complex test signals and
// streaming sources for exercising the tuner.
package signal
