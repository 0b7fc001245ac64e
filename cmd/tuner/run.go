package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-sdr/dsp/tuner"
	"github.com/cwbudde/algo-sdr/internal/iqfile"
	"github.com/cwbudde/algo-sdr/internal/pipeline"
)

func newRunCmd(a *app) *cobra.Command {
	var (
		in, out   string
		sets      []string
		blockSize int
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Tune an I/Q WAV file and write the decimated output",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if blockSize > 0 {
				a.cfg.Stream.BlockSize = blockSize
			}

			src, err := iqfile.Open(in)
			if err != nil {
				return err
			}
			defer src.Close()

			t, err := a.newTuner(sets)
			if err != nil {
				return err
			}
			defer t.Close()

			// The output keeps the input rate in its header; the true rate
			// is the input rate divided by the decimation factor.
			sink, err := iqfile.Create(out, src.SampleRate(), a.cfg.Stream.BitDepth)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			st, runErr := pipeline.Run(ctx, tuner.NewBlock(t, src), sink, a.cfg.Stream.BlockSize, a.log)
			if err := sink.Close(); err != nil && runErr == nil {
				runErr = err
			}
			if runErr != nil {
				return runErr
			}

			fmt.Fprintf(cmd.OutOrStdout(), "consumed %d samples, produced %d samples (decimation %d)\n",
				st.Consumed, st.Produced, t.Decimation())
			return nil
		},
	}

	cmd.Flags().StringVarP(&in, "input", "i", "", "input I/Q WAV file")
	cmd.Flags().StringVarP(&out, "output", "o", "", "output I/Q WAV file")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "set a tuner property, e.g. fc=0.1 (repeatable)")
	cmd.Flags().IntVar(&blockSize, "block", 0, "output samples per block (default from config)")
	cmd.MarkFlagRequired("input")
	cmd.MarkFlagRequired("output")

	return cmd
}
