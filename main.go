package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/ncruces/zenity"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/iburimskiy/phyllotaxis/internal/audio"
	"github.com/iburimskiy/phyllotaxis/internal/config"
	"github.com/iburimskiy/phyllotaxis/internal/game"
)

const title = "Phyllotaxis - click to start, Space: play/pause, S: save SVG, Esc/Q: quit"

func main() {
	cfg := config.Load()
	flag.IntVar(&cfg.Seeds, "seeds", cfg.Seeds, "number of seeds in the spiral")
	flag.IntVar(&cfg.Width, "width", cfg.Width, "initial window width")
	flag.IntVar(&cfg.Height, "height", cfg.Height, "initial window height")
	flag.StringVar(&cfg.Source, "source", cfg.Source, "audio input: mic or file")
	flag.StringVar(&cfg.File, "file", cfg.File, "audio file for -source=file (wav, mp3, flac); asks when empty")
	flag.IntVar(&cfg.SampleRate, "rate", cfg.SampleRate, "microphone sample rate")
	flag.Int64Var(&cfg.RandSeed, "rand", cfg.RandSeed, "seed for the pulsation jitter")
	flag.StringVar(&cfg.LogFile, "log", cfg.LogFile, "write logs to this file instead of stderr")
	flag.StringVar(&cfg.LogLevel, "loglevel", cfg.LogLevel, "log level: debug, info, warn or error")
	flag.Parse()

	setupLogging(cfg)

	if err := run(cfg); err != nil {
		slog.Error("visualizer failed", "err", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	if cfg.Seeds <= 0 || cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("seeds, width and height must be positive")
	}

	open, err := openFunc(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	extractor := audio.NewExtractor(cfg.FFTSize, open)
	defer func() {
		if err := extractor.Close(); err != nil {
			slog.Warn("closing audio input", "err", err)
		}
	}()

	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	g := game.New(ctx, cfg, extractor, game.DialogNotifier{Title: "Phyllotaxis"})
	slog.Info("starting visualizer", "seeds", cfg.Seeds, "source", cfg.Source)
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

func openFunc(cfg *config.Config) (audio.OpenFunc, error) {
	switch cfg.Source {
	case config.SourceMic:
		return audio.OpenMicrophone(cfg.SampleRate), nil
	case config.SourceFile:
		path := cfg.File
		if path == "" {
			var err error
			if path, err = selectFile(); err != nil {
				return nil, err
			}
		}
		return audio.OpenFile(path), nil
	default:
		return nil, fmt.Errorf("unknown audio source %q", cfg.Source)
	}
}

func selectFile() (string, error) {
	filename, err := zenity.SelectFile(
		zenity.Title("Open Audio File"),
		zenity.FileFilters{{
			Name:     "Audio",
			Patterns: []string{"*.wav", "*.mp3", "*.flac"},
		}},
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return "", errors.New("no audio file selected")
		}
		return "", err
	}
	slog.Info("selected audio file", "path", filename)
	return filename, nil
}

func setupLogging(cfg *config.Config) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(cfg.LogLevel))); err != nil {
		level = slog.LevelInfo
	}

	var w io.Writer = os.Stderr
	if cfg.LogFile != "" {
		w = &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    10, // MB
			MaxBackups: 3,
		}
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}
