package audio

import (
	"math"
	"math/cmplx"
	"sync"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"

	"github.com/iburimskiy/phyllotaxis/internal/config"
)

// Analyser keeps the most recent fftSize mono samples and turns them into a
// byte frequency snapshot: Blackman window, FFT, temporal smoothing and a
// decibel range mapped onto 0-255.
//
// Write methods may be called from the audio thread. ByteFrequencyData must
// only be called from one goroutine.
type Analyser struct {
	mu        sync.Mutex
	ring      []float64
	nextIndex int

	coeffs   []float64
	frame    []float64
	smoothed []float64

	smoothing float64
	minDB     float64
	maxDB     float64
}

// NewAnalyser returns an analyser for the given power-of-two FFT size.
func NewAnalyser(fftSize int) *Analyser {
	return &Analyser{
		ring:      make([]float64, fftSize),
		coeffs:    window.Blackman(fftSize),
		frame:     make([]float64, fftSize),
		smoothed:  make([]float64, fftSize/2),
		smoothing: config.SmoothingTimeConstant,
		minDB:     config.MinDecibels,
		maxDB:     config.MaxDecibels,
	}
}

// BinCount is the length of a frequency snapshot.
func (a *Analyser) BinCount() int { return len(a.smoothed) }

// Write appends mono samples.
func (a *Analyser) Write(samples []float64) {
	a.mu.Lock()
	for _, s := range samples {
		a.push(s)
	}
	a.mu.Unlock()
}

// WriteFloat32 appends mono samples as delivered by capture callbacks.
func (a *Analyser) WriteFloat32(samples []float32) {
	a.mu.Lock()
	for _, s := range samples {
		a.push(float64(s))
	}
	a.mu.Unlock()
}

// WriteStereo downmixes and appends stereo samples.
func (a *Analyser) WriteStereo(samples [][2]float64) {
	a.mu.Lock()
	for _, s := range samples {
		a.push((s[0] + s[1]) * 0.5)
	}
	a.mu.Unlock()
}

func (a *Analyser) push(s float64) {
	a.ring[a.nextIndex] = s
	a.nextIndex++
	if a.nextIndex >= len(a.ring) {
		a.nextIndex = 0
	}
}

// ByteFrequencyData fills dst with the current magnitude of each bin, low to
// high frequency. dst is truncated to BinCount.
func (a *Analyser) ByteFrequencyData(dst []uint8) {
	a.mu.Lock()
	// oldest sample first
	n := copy(a.frame, a.ring[a.nextIndex:])
	copy(a.frame[n:], a.ring[:a.nextIndex])
	a.mu.Unlock()

	for i := range a.frame {
		a.frame[i] *= a.coeffs[i]
	}
	spectrum := fft.FFTReal(a.frame)

	size := float64(len(a.frame))
	scale := 255 / (a.maxDB - a.minDB)
	for k := range a.smoothed {
		mag := cmplx.Abs(spectrum[k]) / size
		a.smoothed[k] = a.smoothing*a.smoothed[k] + (1-a.smoothing)*mag
		if k >= len(dst) {
			continue
		}

		db := 20 * math.Log10(a.smoothed[k])
		v := math.Floor(scale * (db - a.minDB))
		switch {
		case math.IsNaN(v) || v < 0:
			dst[k] = 0
		case v > 255:
			dst[k] = 255
		default:
			dst[k] = uint8(v)
		}
	}
}
