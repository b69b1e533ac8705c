package audio

import (
	"errors"
	"fmt"
)

// Access failures. Every error returned by Extractor.RequestAccess wraps
// exactly one of these.
var (
	ErrPermissionDenied       = errors.New("audio input permission denied")
	ErrDeviceUnavailable      = errors.New("audio input device unavailable")
	ErrUnsupportedEnvironment = errors.New("audio pipeline unsupported in this environment")
)

// classify wraps err in ErrDeviceUnavailable unless it already carries one
// of the access failures.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrPermissionDenied) ||
		errors.Is(err, ErrDeviceUnavailable) ||
		errors.Is(err, ErrUnsupportedEnvironment) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
}
