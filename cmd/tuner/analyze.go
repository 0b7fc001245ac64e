package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-sdr/dsp/spectrum"
	"github.com/cwbudde/algo-sdr/dsp/window"
	"github.com/cwbudde/algo-sdr/internal/iqfile"
	"github.com/cwbudde/algo-sdr/internal/logging"
	"github.com/cwbudde/algo-sdr/measure/iq"
)

func newAnalyzeCmd(a *app) *cobra.Command {
	var (
		in      string
		skip    int
		fftSize int
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Print magnitude, rotation and spectral peak statistics of an I/Q WAV file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			samples, rate, err := iqfile.ReadAll(in)
			if err != nil {
				return err
			}

			st, err := iq.Analyze(samples, skip)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "samples:           %d (header rate %d Hz)\n", len(samples), rate)
			fmt.Fprintf(w, "mean magnitude:    %.6f\n", st.MeanMagnitude)
			fmt.Fprintf(w, "magnitude spread:  %.6f\n", st.MagnitudeSpread)
			fmt.Fprintf(w, "residual freq:     %.6f cycles/sample\n", st.ResidualFrequency())
			fmt.Fprintf(w, "rotation std-dev:  %.6f rad\n", st.RotationStdDev)

			if len(samples)-skip < fftSize {
				a.log.Debug("too few samples for spectrum", logging.F("need", fftSize))
				return nil
			}

			an, err := spectrum.NewAnalyzer(fftSize, window.TypeBlackmanHarris4Term)
			if err != nil {
				return err
			}
			freq, db, err := an.Peak(samples[len(samples)-fftSize:])
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "spectral peak:     %.6f cycles/sample at %.2f dB\n", freq, db)
			return nil
		},
	}

	cmd.Flags().StringVarP(&in, "input", "i", "", "I/Q WAV file")
	cmd.Flags().IntVar(&skip, "skip", 0, "samples to skip before measuring (filter settling)")
	cmd.Flags().IntVar(&fftSize, "fft", 1024, "spectrum size in bins")
	cmd.MarkFlagRequired("input")

	return cmd
}
