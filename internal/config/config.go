package config

import (
	"os"
	"strconv"
	"strings"
)

const (
	WindowWidth  = 1024
	WindowHeight = 768

	// Button dimensions
	ButtonWidth  = 180
	ButtonHeight = 48

	// Spiral parameters
	SeedCount    = 5000
	RotationStep = 0.001

	// Analyser parameters
	FFTSize               = 256
	SampleRate            = 44100
	SmoothingTimeConstant = 0.8
	MinDecibels           = -100.0
	MaxDecibels           = -30.0

	SourceMic  = "mic"
	SourceFile = "file"
)

// Config holds the runtime settings of the visualizer.
type Config struct {
	Seeds      int
	FFTSize    int
	SampleRate int
	Source     string
	File       string
	RandSeed   int64
	LogFile    string
	LogLevel   string
	Width      int
	Height     int
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		Seeds:      SeedCount,
		FFTSize:    FFTSize,
		SampleRate: SampleRate,
		Source:     SourceMic,
		RandSeed:   1,
		LogLevel:   "info",
		Width:      WindowWidth,
		Height:     WindowHeight,
	}
}

// Load returns the default configuration with PHYLLO_* environment
// overrides applied. Malformed values are ignored.
func Load() *Config {
	cfg := Default()

	if v := os.Getenv("PHYLLO_SEEDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Seeds = n
		}
	}

	// FFT size must be a power of two
	if v := os.Getenv("PHYLLO_FFT_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 32 && n&(n-1) == 0 {
			cfg.FFTSize = n
		}
	}

	if v := os.Getenv("PHYLLO_SAMPLE_RATE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SampleRate = n
		}
	}

	if v := os.Getenv("PHYLLO_SOURCE"); v != "" {
		switch s := strings.ToLower(strings.TrimSpace(v)); s {
		case SourceMic, SourceFile:
			cfg.Source = s
		}
	}

	if v := os.Getenv("PHYLLO_FILE"); v != "" {
		cfg.File = v
	}

	if v := os.Getenv("PHYLLO_RAND_SEED"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.RandSeed = n
		}
	}

	if v := os.Getenv("PHYLLO_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}

	if v := os.Getenv("PHYLLO_LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}

	return cfg
}
