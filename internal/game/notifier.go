package game

import (
	"errors"
	"log/slog"

	"github.com/ncruces/zenity"

	"github.com/iburimskiy/phyllotaxis/internal/audio"
)

// DialogNotifier reports audio access failures in a blocking dialog.
type DialogNotifier struct {
	Title string
}

func (n DialogNotifier) Notify(err error) {
	if derr := zenity.Error(notificationText(err), zenity.Title(n.Title), zenity.ErrorIcon); derr != nil {
		slog.Warn("could not show error dialog", "err", derr)
	}
}

func notificationText(err error) string {
	switch {
	case errors.Is(err, audio.ErrUnsupportedEnvironment):
		return "Audio capture is not supported here. Please check your audio system and try again."
	case errors.Is(err, audio.ErrDeviceUnavailable):
		return "No usable audio input was found. Please connect a microphone and try again."
	default:
		return "Error accessing the microphone. Please ensure you've granted permission and try again."
	}
}
