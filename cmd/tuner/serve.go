package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	dspsignal "github.com/cwbudde/algo-sdr/dsp/signal"
	"github.com/cwbudde/algo-sdr/dsp/spectrum"
	"github.com/cwbudde/algo-sdr/dsp/tuner"
	"github.com/cwbudde/algo-sdr/dsp/window"
	"github.com/cwbudde/algo-sdr/internal/discovery"
	"github.com/cwbudde/algo-sdr/internal/iqfile"
	"github.com/cwbudde/algo-sdr/internal/logging"
	"github.com/cwbudde/algo-sdr/internal/pipeline"
	"github.com/cwbudde/algo-sdr/internal/transport"
)

const monitorPoints = 256

func newServeCmd(a *app) *cobra.Command {
	var (
		in        string
		listen    string
		advertise bool
		freq      float64
		noise     float64
		sets      []string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Stream tuner output to websocket clients and accept live property changes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("listen") {
				a.cfg.Serve.Listen = listen
			}
			if cmd.Flags().Changed("advertise") {
				a.cfg.Serve.Advertise = advertise
			}

			src, closeSrc, err := serveSource(in, freq, noise)
			if err != nil {
				return err
			}
			defer closeSrc()

			t, err := a.newTuner(sets)
			if err != nil {
				return err
			}
			defer t.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return a.serve(ctx, t, src)
		},
	}

	cmd.Flags().StringVarP(&in, "input", "i", "", "I/Q WAV file to loop (default: synthetic tone)")
	cmd.Flags().StringVar(&listen, "listen", "", "listen address (default from config)")
	cmd.Flags().BoolVar(&advertise, "advertise", false, "advertise the monitor over mDNS")
	cmd.Flags().Float64Var(&freq, "freq", 0.1, "synthetic tone frequency in cycles/sample")
	cmd.Flags().Float64Var(&noise, "noise", 0.01, "synthetic noise standard deviation per rail")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "set a tuner property, e.g. fc=0.1 (repeatable)")

	return cmd
}

func serveSource(path string, freq, noise float64) (tuner.Source, func(), error) {
	if path == "" {
		return dspsignal.NewToneSource(freq, 0.5, dspsignal.WithNoise(noise, time.Now().UnixNano())), func() {}, nil
	}
	l, err := iqfile.OpenLoop(path)
	if err != nil {
		return nil, nil, err
	}
	return l, func() { l.Close() }, nil
}

func (a *app) serve(ctx context.Context, t *tuner.Tuner, src tuner.Source) error {
	ln, err := net.Listen("tcp", a.cfg.Serve.Listen)
	if err != nil {
		return fmt.Errorf("listen %s: %w", a.cfg.Serve.Listen, err)
	}
	return a.serveOn(ctx, t, src, ln)
}

// serveOn runs the monitor and its HTTP endpoints on ln until ctx ends,
// the source is exhausted or the server fails.
func (a *app) serveOn(ctx context.Context, t *tuner.Tuner, src tuner.Source, ln net.Listener) error {
	hub := transport.NewHub(t.Control(), a.log)
	defer hub.Close()

	mux := http.NewServeMux()
	mux.Handle("/ws", hub)
	mux.HandleFunc("/params", func(w http.ResponseWriter, _ *http.Request) {
		req := t.Control().Load()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]float64{
			"fc":         req.CenterFrequency,
			"T":          req.SymbolPeriod,
			"beta":       req.Rolloff,
			"size":       float64(req.Length),
			"decimation": float64(req.Decimation),
		})
	})

	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	// A listener failure stops the monitor too.
	ctx, cancelRun := context.WithCancel(ctx)
	defer cancelRun()

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("monitor server failed", logging.Err(err))
			serveErr <- err
			cancelRun()
		}
		close(serveErr)
	}()
	a.log.Info("monitor listening", logging.F("addr", ln.Addr().String()))

	if a.cfg.Serve.Advertise {
		port := ln.Addr().(*net.TCPAddr).Port
		p := t.Effective()
		text := discovery.TXT(map[string]string{
			"path": "/ws",
			"fc":   strconv.FormatFloat(p.CenterFrequency, 'g', -1, 64),
			"T":    strconv.FormatFloat(p.SymbolPeriod, 'g', -1, 64),
		})
		ad, err := discovery.Advertise(ctx, a.cfg.Serve.Instance, port, text, discovery.WithLogger(a.log))
		if err != nil {
			a.log.Warn("not advertising", logging.Err(err))
		} else {
			defer ad.Shutdown()
		}
	}

	an, err := spectrum.NewAnalyzer(min(a.cfg.Stream.BlockSize, 1024), window.TypeHann)
	if err != nil {
		a.log.Warn("spectrum disabled", logging.Err(err))
		an = nil
	}

	mon := pipeline.NewMonitor(tuner.NewBlock(t, src), hub, pipeline.MonitorConfig{
		BlockSize: a.cfg.Stream.BlockSize,
		Points:    monitorPoints,
		Analyzer:  an,
	}, a.log)

	return shutdown(mon.Run(ctx, a.cfg.Serve.FrameInterval), hub, srv, serveErr)
}

// shutdown stops the hub and server after the monitor returns. A server
// failure is returned in place of the monitor's error.
func shutdown(runErr error, hub *transport.Hub, srv *http.Server, serveErr <-chan error) error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	hub.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil && runErr == nil {
		runErr = err
	}
	if err := <-serveErr; err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return runErr
}
