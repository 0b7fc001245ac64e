package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-sdr/dsp/signal"
	"github.com/cwbudde/algo-sdr/internal/iqfile"
	"github.com/cwbudde/algo-sdr/internal/logging"
)

func newSynthCmd(a *app) *cobra.Command {
	var (
		out       string
		freq      float64
		amplitude float64
		samples   int
		noise     float64
		seed      int64
	)

	cmd := &cobra.Command{
		Use:   "synth",
		Short: "Write a complex tone with optional noise to an I/Q WAV file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if samples < 1 {
				return fmt.Errorf("--samples must be positive, got %d", samples)
			}

			src := signal.NewToneSource(freq, amplitude, signal.WithLimit(samples), signal.WithNoise(noise, seed))
			w, err := iqfile.Create(out, a.cfg.Stream.SampleRate, a.cfg.Stream.BitDepth)
			if err != nil {
				return err
			}

			chunk := make([]complex128, 4096)
			for {
				n, rerr := src.Read(chunk)
				if err := w.Write(chunk[:n]); err != nil {
					w.Close()
					return err
				}
				if errors.Is(rerr, io.EOF) {
					break
				}
			}
			if err := w.Close(); err != nil {
				return err
			}

			a.log.Info("tone written",
				logging.F("file", out),
				logging.F("freq", freq),
				logging.F("samples", w.Samples()))
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d samples to %s\n", w.Samples(), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "output", "o", "", "output I/Q WAV file")
	cmd.Flags().Float64Var(&freq, "freq", 0.1, "tone frequency in cycles/sample")
	cmd.Flags().Float64Var(&amplitude, "amplitude", 0.5, "tone amplitude (full scale is 1)")
	cmd.Flags().IntVar(&samples, "samples", 48000, "number of samples")
	cmd.Flags().Float64Var(&noise, "noise", 0, "noise standard deviation per rail")
	cmd.Flags().Int64Var(&seed, "seed", 1, "noise seed")
	cmd.MarkFlagRequired("output")

	return cmd
}
