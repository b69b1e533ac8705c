package audio

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
)

// fileDevice plays an audio file through the speaker and taps the played
// samples into the analyser.
type fileDevice struct {
	file     *os.File
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
}

// speakerRate is the rate the speaker was last initialized with, 0 before the
// first file is opened.
var speakerRate beep.SampleRate

// OpenFile returns an OpenFunc that uses the audio file at path as input.
func OpenFile(path string) OpenFunc {
	return func(ctx context.Context, a *Analyser) (Device, error) {
		f, err := os.Open(path)
		if err != nil {
			if errors.Is(err, fs.ErrPermission) {
				return nil, fmt.Errorf("%w: %v", ErrPermissionDenied, err)
			}
			return nil, fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
		}

		streamer, format, err := decode(f, filepath.Ext(path))
		if err != nil {
			_ = f.Close()
			return nil, err
		}
		slog.Info("loaded audio file", "path", path, "sampleRate", int(format.SampleRate), "channels", format.NumChannels)

		if err := ctx.Err(); err != nil {
			_ = streamer.Close()
			_ = f.Close()
			return nil, err
		}

		if err := initSpeaker(format.SampleRate); err != nil {
			_ = streamer.Close()
			_ = f.Close()
			return nil, err
		}

		// Prepare audio chain: streamer -> tap -> ctrl
		ctrl := &beep.Ctrl{Streamer: newSampleTap(streamer, a), Paused: true}
		speaker.Play(ctrl)

		return &fileDevice{
			file:     f,
			streamer: streamer,
			format:   format,
			ctrl:     ctrl,
		}, nil
	}
}

func decode(f *os.File, ext string) (beep.StreamSeekCloser, beep.Format, error) {
	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
		err      error
	)
	switch strings.ToLower(ext) {
	case ".wav":
		streamer, format, err = wav.Decode(f)
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".flac":
		streamer, format, err = flac.Decode(f)
	default:
		return nil, beep.Format{}, fmt.Errorf("%w: unsupported file type %q", ErrDeviceUnavailable, ext)
	}
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("%w: decode: %v", ErrDeviceUnavailable, err)
	}
	return streamer, format, nil
}

func initSpeaker(rate beep.SampleRate) error {
	if speakerRate == rate {
		speaker.Lock()
		speaker.Clear()
		speaker.Unlock()
		return nil
	}
	// Re-init when sample rate changes
	if err := speaker.Init(rate, rate.N(time.Second/20)); err != nil {
		return fmt.Errorf("%w: speaker: %v", ErrUnsupportedEnvironment, err)
	}
	speakerRate = rate
	return nil
}

func (d *fileDevice) Start() error {
	speaker.Lock()
	d.ctrl.Paused = false
	speaker.Unlock()
	return nil
}

func (d *fileDevice) Stop() error {
	speaker.Lock()
	d.ctrl.Paused = true
	speaker.Unlock()
	return nil
}

// Position is the playback position within the file.
func (d *fileDevice) Position() time.Duration {
	speaker.Lock()
	defer speaker.Unlock()
	return d.format.SampleRate.D(d.streamer.Position())
}

func (d *fileDevice) Close() error {
	speaker.Lock()
	speaker.Clear()
	speaker.Unlock()
	err := d.streamer.Close()
	if ferr := d.file.Close(); err == nil {
		err = ferr
	}
	return err
}
