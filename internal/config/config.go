// Package config loads the tuner command line configuration from YAML,
// layered over built-in defaults and environment overrides.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-sdr/dsp/tuner"
	"github.com/cwbudde/algo-sdr/internal/logging"
)

// DefaultFile is looked up in the working directory when no path is given.
const DefaultFile = "tuner.yaml"

// Environment variables that override file values.
const (
	EnvLogLevel = "TUNER_LOG_LEVEL"
	EnvFC       = "TUNER_FC"
	EnvListen   = "TUNER_LISTEN"
)

// ErrInvalid reports a configuration that failed validation.
var ErrInvalid = errors.New("config: invalid")

// Config is the root of the YAML document.
type Config struct {
	LogLevel  string       `yaml:"log_level"`
	LogFormat string       `yaml:"log_format"`
	Tuner     TunerConfig  `yaml:"tuner"`
	Stream    StreamConfig `yaml:"stream"`
	Serve     ServeConfig  `yaml:"serve"`
}

// TunerConfig holds the initial tuner request and its construction limits.
type TunerConfig struct {
	CenterFrequency float64 `yaml:"center_frequency"` // cycles/sample
	SymbolPeriod    float64 `yaml:"symbol_period"`    // samples/symbol
	Rolloff         float64 `yaml:"rolloff"`
	FilterLength    int     `yaml:"filter_length"`
	Decimation      int     `yaml:"decimation"` // 0 derives from symbol_period
	LowpassOrder    int     `yaml:"lowpass_order"`
	MaxFilterLength int     `yaml:"max_filter_length"` // 0 selects tuner.DefaultMaxLength
}

// StreamConfig describes how samples move through files and frames.
type StreamConfig struct {
	BlockSize  int `yaml:"block_size"`  // output samples per Process call
	SampleRate int `yaml:"sample_rate"` // written to WAV headers only
	BitDepth   int `yaml:"bit_depth"`
}

// ServeConfig configures the live monitor.
type ServeConfig struct {
	Listen        string        `yaml:"listen"`
	Advertise     bool          `yaml:"advertise"`
	Instance      string        `yaml:"instance"`
	FrameInterval time.Duration `yaml:"frame_interval"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogLevel:  "info",
		LogFormat: "text",
		Tuner: TunerConfig{
			CenterFrequency: 0.1,
			SymbolPeriod:    8,
			Rolloff:         0.35,
			FilterLength:    64,
			LowpassOrder:    tuner.DefaultLowpassOrder,
			MaxFilterLength: tuner.DefaultMaxLength,
		},
		Stream: StreamConfig{
			BlockSize:  1024,
			SampleRate: 48000,
			BitDepth:   16,
		},
		Serve: ServeConfig{
			Listen:        ":8080",
			Instance:      "algo-sdr tuner",
			FrameInterval: 50 * time.Millisecond,
		},
	}
}

// LoadConfig reads the configuration at path. An empty path tries
// DefaultFile and falls back to the defaults when it does not exist.
// Environment overrides are applied last and the result is validated.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			path = DefaultFile
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	if val, ok := os.LookupEnv(EnvLogLevel); ok {
		c.LogLevel = val
	}

	if val, ok := os.LookupEnv(EnvFC); ok {
		fc, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %w", ErrInvalid, EnvFC, val, err)
		}
		c.Tuner.CenterFrequency = fc
	}

	if val, ok := os.LookupEnv(EnvListen); ok {
		c.Serve.Listen = val
	}

	return nil
}

// Validate checks every section.
func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log_level: %w", ErrInvalid, err)
	}
	if _, err := logging.ParseFormat(c.LogFormat); err != nil {
		return fmt.Errorf("%w: log_format: %w", ErrInvalid, err)
	}

	if err := c.Params().Validate(); err != nil {
		return fmt.Errorf("%w: tuner: %w", ErrInvalid, err)
	}

	switch {
	case c.Tuner.Decimation < 0 || c.Tuner.Decimation > tuner.MaxDecimation:
		return fmt.Errorf("%w: tuner.decimation %d", ErrInvalid, c.Tuner.Decimation)
	case c.Tuner.LowpassOrder < 1:
		return fmt.Errorf("%w: tuner.lowpass_order %d", ErrInvalid, c.Tuner.LowpassOrder)
	case c.Tuner.MaxFilterLength < 0:
		return fmt.Errorf("%w: tuner.max_filter_length %d", ErrInvalid, c.Tuner.MaxFilterLength)
	case c.Tuner.MaxFilterLength > 0 && c.Tuner.FilterLength > c.Tuner.MaxFilterLength:
		return fmt.Errorf("%w: tuner.filter_length %d exceeds max_filter_length %d",
			ErrInvalid, c.Tuner.FilterLength, c.Tuner.MaxFilterLength)
	case c.Stream.BlockSize < 1:
		return fmt.Errorf("%w: stream.block_size %d", ErrInvalid, c.Stream.BlockSize)
	case c.Stream.SampleRate < 1:
		return fmt.Errorf("%w: stream.sample_rate %d", ErrInvalid, c.Stream.SampleRate)
	case c.Stream.BitDepth != 16 && c.Stream.BitDepth != 24 && c.Stream.BitDepth != 32:
		return fmt.Errorf("%w: stream.bit_depth %d (want 16, 24 or 32)", ErrInvalid, c.Stream.BitDepth)
	case c.Serve.FrameInterval <= 0:
		return fmt.Errorf("%w: serve.frame_interval %s", ErrInvalid, c.Serve.FrameInterval)
	}

	return nil
}

// Params converts the tuner section into a tuner request.
func (c *Config) Params() tuner.Params {
	return tuner.Params{
		CenterFrequency: c.Tuner.CenterFrequency,
		SymbolPeriod:    c.Tuner.SymbolPeriod,
		Rolloff:         c.Tuner.Rolloff,
		Length:          c.Tuner.FilterLength,
		Decimation:      c.Tuner.Decimation,
	}
}

// TunerOptions returns the construction options implied by the tuner
// section, with l as the tuner logger.
func (c *Config) TunerOptions(l logging.Logger) []tuner.Option {
	opts := []tuner.Option{
		tuner.WithLogger(l),
		tuner.WithLowpassOrder(c.Tuner.LowpassOrder),
	}
	if c.Tuner.MaxFilterLength > 0 {
		opts = append(opts, tuner.WithMaxLength(c.Tuner.MaxFilterLength))
	}
	return opts
}

// Logger builds a logger for the configured level and format.
func (c *Config) Logger(w io.Writer) (logging.Logger, error) {
	level, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	format, err := logging.ParseFormat(c.LogFormat)
	if err != nil {
		return nil, err
	}
	return logging.New(level, format, w), nil
}
