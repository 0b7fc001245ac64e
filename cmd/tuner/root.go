package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-sdr/dsp/tuner"
	"github.com/cwbudde/algo-sdr/internal/config"
	"github.com/cwbudde/algo-sdr/internal/logging"
)

// app is the state shared by all subcommands once the root pre-run has
// loaded the configuration.
type app struct {
	configPath string
	logLevel   string
	logFormat  string

	cfg *config.Config
	log logging.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "tuner",
		Short:         "Streaming SDR tuner: mix, channel filter, matched filter, decimate",
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "path to a YAML config file (default: ./"+config.DefaultFile+" if present)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&a.logFormat, "log-format", "", "log format: text or json")

	root.AddCommand(
		newRunCmd(a),
		newSynthCmd(a),
		newAnalyzeCmd(a),
		newServeCmd(a),
		newDiscoverCmd(a),
	)

	return root
}

func (a *app) load(cmd *cobra.Command) error {
	cfg, err := config.LoadConfig(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if a.logFormat != "" {
		cfg.LogFormat = a.logFormat
	}

	log, err := cfg.Logger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	logging.SetDefault(log)

	a.cfg = cfg
	a.log = log
	return nil
}

// newTuner builds a tuner from the configuration with name=value property
// overrides merged in first, so they are validated and drive the derived
// decimation like configured values.
func (a *app) newTuner(sets []string) (*tuner.Tuner, error) {
	req := tuner.NewControl(a.cfg.Params())
	for _, kv := range sets {
		name, value, err := parseSet(kv)
		if err == nil {
			err = req.SetProperty(name, value)
		}
		if err != nil {
			return nil, fmt.Errorf("--set %s: %w", kv, err)
		}
	}
	return tuner.New(req.Load(), a.cfg.TunerOptions(a.log)...)
}

func parseSet(kv string) (string, float64, error) {
	name, raw, ok := strings.Cut(kv, "=")
	if !ok || strings.TrimSpace(name) == "" {
		return "", 0, fmt.Errorf("want name=value")
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return "", 0, err
	}
	return strings.TrimSpace(name), v, nil
}
