// Command tuner runs the streaming SDR tuner over I/Q WAV files or a
// synthetic tone.
//
// Usage:
//
//	tuner synth -o tone.wav --freq 0.11 --samples 48000 --noise 0.05
//	tuner run -i tone.wav -o base.wav --set fc=0.1 --set T=8
//	tuner analyze -i base.wav
//	tuner serve --listen :8080 --advertise
//	tuner discover --timeout 3s
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "tuner:", err)
		os.Exit(1)
	}
}
