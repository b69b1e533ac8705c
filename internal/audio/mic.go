package audio

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gordonklaus/portaudio"
)

const framesPerBuffer = 512

// micDevice captures the default input device through PortAudio.
type micDevice struct {
	stream *portaudio.Stream
}

// OpenMicrophone returns an OpenFunc capturing mono audio from the default
// input device at sampleRate.
func OpenMicrophone(sampleRate int) OpenFunc {
	return func(ctx context.Context, a *Analyser) (Device, error) {
		if err := portaudio.Initialize(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedEnvironment, err)
		}

		in, err := portaudio.DefaultInputDevice()
		if err != nil {
			portaudio.Terminate()
			return nil, fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
		}
		if in == nil {
			portaudio.Terminate()
			return nil, fmt.Errorf("%w: no default input device", ErrDeviceUnavailable)
		}
		slog.Info("opening microphone", "device", in.Name, "sampleRate", sampleRate)

		if err := ctx.Err(); err != nil {
			portaudio.Terminate()
			return nil, err
		}

		stream, err := portaudio.OpenDefaultStream(1, 0, float64(sampleRate), framesPerBuffer, func(samples []float32) {
			a.WriteFloat32(samples)
		})
		if err != nil {
			portaudio.Terminate()
			return nil, classifyPortAudio(err)
		}
		return &micDevice{stream: stream}, nil
	}
}

func (m *micDevice) Start() error {
	if err := m.stream.Start(); err != nil {
		return classifyPortAudio(err)
	}
	return nil
}

func (m *micDevice) Stop() error { return m.stream.Stop() }

func (m *micDevice) Close() error {
	err := m.stream.Close()
	if terr := portaudio.Terminate(); err == nil {
		err = terr
	}
	return err
}

// classifyPortAudio maps PortAudio errors onto the access failures. Hosts
// that gate microphone access report denial through the error text.
func classifyPortAudio(err error) error {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "permission") || strings.Contains(msg, "not permitted") {
		return fmt.Errorf("%w: %v", ErrPermissionDenied, err)
	}
	return fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
}
