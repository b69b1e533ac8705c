package audio

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Device is an opened audio input that feeds an Analyser while started.
type Device interface {
	Start() error
	Stop() error
	Close() error
}

// OpenFunc opens an input device wired to the given analyser. The returned
// device is not started yet.
type OpenFunc func(ctx context.Context, a *Analyser) (Device, error)

// Extractor bridges an audio input to one bass intensity value per frame.
type Extractor struct {
	open    OpenFunc
	fftSize int

	analyser *Analyser
	device   Device
	snapshot []uint8
	paused   bool
}

// NewExtractor returns an extractor that opens its device with open on the
// first RequestAccess.
func NewExtractor(fftSize int, open OpenFunc) *Extractor {
	return &Extractor{
		open:    open,
		fftSize: fftSize,
	}
}

// RequestAccess opens and starts the input device. The returned error wraps
// ErrPermissionDenied, ErrDeviceUnavailable or ErrUnsupportedEnvironment; on
// error the extractor stays uninitialized and the call may be retried.
func (e *Extractor) RequestAccess(ctx context.Context) error {
	if e.device != nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("request audio access: %w", classify(err))
	}

	a := NewAnalyser(e.fftSize)
	dev, err := e.open(ctx, a)
	if err != nil {
		return fmt.Errorf("open audio input: %w", classify(err))
	}
	if err := dev.Start(); err != nil {
		_ = dev.Close()
		return fmt.Errorf("start audio input: %w", classify(err))
	}

	e.analyser = a
	e.device = dev
	e.snapshot = make([]uint8, a.BinCount())
	e.paused = false
	slog.Info("audio input ready", "fftSize", e.fftSize, "bins", a.BinCount())
	return nil
}

// Ready reports whether RequestAccess has succeeded.
func (e *Extractor) Ready() bool { return e.device != nil }

// CurrentBassIntensity samples the analyser and reduces the snapshot to a
// value in [0, 1]. It returns 0 before access has been granted.
func (e *Extractor) CurrentBassIntensity() float64 {
	if e.analyser == nil {
		return 0
	}
	e.analyser.ByteFrequencyData(e.snapshot)
	return BassIntensity(e.snapshot)
}

// Snapshot returns the frequency snapshot read by the last
// CurrentBassIntensity call.
func (e *Extractor) Snapshot() []uint8 { return e.snapshot }

// Pause suspends the device without releasing it.
func (e *Extractor) Pause() error {
	if e.device == nil || e.paused {
		return nil
	}
	if err := e.device.Stop(); err != nil {
		return fmt.Errorf("pause audio input: %w", err)
	}
	e.paused = true
	slog.Debug("audio input paused")
	return nil
}

// Resume restarts a paused device.
func (e *Extractor) Resume() error {
	if e.device == nil || !e.paused {
		return nil
	}
	if err := e.device.Start(); err != nil {
		return fmt.Errorf("resume audio input: %w", err)
	}
	e.paused = false
	slog.Debug("audio input resumed")
	return nil
}

// Paused reports whether the device is suspended.
func (e *Extractor) Paused() bool { return e.paused }

// Position returns the playback position for inputs that have one, such as
// audio files.
func (e *Extractor) Position() (time.Duration, bool) {
	p, ok := e.device.(interface{ Position() time.Duration })
	if !ok {
		return 0, false
	}
	return p.Position(), true
}

// Close releases the device.
func (e *Extractor) Close() error {
	if e.device == nil {
		return nil
	}
	err := e.device.Close()
	e.device = nil
	e.analyser = nil
	return err
}
