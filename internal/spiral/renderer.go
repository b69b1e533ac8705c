package spiral

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/iburimskiy/phyllotaxis/internal/config"
)

// State is the lifecycle state of a Renderer.
type State int

const (
	Idle State = iota
	Running
	Paused
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Paused:
		return "paused"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// EnergySource supplies the bass intensity of the current audio frame.
type EnergySource interface {
	RequestAccess(ctx context.Context) error
	CurrentBassIntensity() float64
	Pause() error
	Resume() error
}

// Surface receives the rendered seeds.
type Surface interface {
	SetCount(n int)
	Place(i int, p Point)
	Resize(width, height int)
}

// FrameClock runs a callback on the next display refresh.
type FrameClock interface {
	Schedule(fn func())
}

// Notifier shows a blocking message to the user.
type Notifier interface {
	Notify(err error)
}

// Jitter is a source of uniform values in [0, 1). *rand.Rand satisfies it.
type Jitter interface {
	Float64() float64
}

// Renderer owns the spiral animation state and produces one frame of seeds
// per tick. All methods must be called from the same goroutine.
type Renderer struct {
	source   EnergySource
	surface  Surface
	clock    FrameClock
	notifier Notifier
	jitter   Jitter

	count     int
	state     State
	scheduled bool

	rotation       float64
	pulsation      float64
	pulsationSpeed float64
	bassIntensity  float64

	width, height int
}

// NewRenderer returns an idle renderer for count seeds on a width x height
// viewport.
func NewRenderer(count, width, height int, source EnergySource, surface Surface, clock FrameClock, notifier Notifier, jitter Jitter) *Renderer {
	r := &Renderer{
		source:         source,
		surface:        surface,
		clock:          clock,
		notifier:       notifier,
		jitter:         jitter,
		count:          count,
		pulsationSpeed: 0.1,
	}
	surface.SetCount(count)
	r.Resize(width, height)
	return r
}

// State returns the current lifecycle state.
func (r *Renderer) State() State { return r.state }

// Rotation returns the current rotation in [0, 2π).
func (r *Renderer) Rotation() float64 { return r.rotation }

// Pulsation returns the current pulsation phase in [0, 2π).
func (r *Renderer) Pulsation() float64 { return r.pulsation }

// BassIntensity returns the bass intensity used by the last tick.
func (r *Renderer) BassIntensity() float64 { return r.bassIntensity }

// Size returns the viewport dimensions.
func (r *Renderer) Size() (int, int) { return r.width, r.height }

// Toggle starts the renderer on first use and afterwards switches between
// running and paused.
func (r *Renderer) Toggle(ctx context.Context) error {
	switch r.state {
	case Idle:
		return r.CompleteAccess(r.source.RequestAccess(ctx))
	case Running:
		if err := r.source.Pause(); err != nil {
			return err
		}
		r.state = Paused
		slog.Info("visualizer paused")
	case Paused:
		if err := r.source.Resume(); err != nil {
			return err
		}
		r.state = Running
		slog.Info("visualizer resumed")
		r.schedule()
	}
	return nil
}

// CompleteAccess applies the result of an audio access request. A failure
// is reported once through the notifier and leaves the renderer idle.
func (r *Renderer) CompleteAccess(err error) error {
	if r.state != Idle {
		return nil
	}
	if err != nil {
		slog.Error("error accessing the microphone", "err", err)
		r.notifier.Notify(err)
		return err
	}

	r.state = Running
	slog.Info("visualizer started", "seeds", r.count, "width", r.width, "height", r.height)
	r.schedule()
	return nil
}

// Resize records new viewport dimensions; the next tick lays out the seeds
// for them.
func (r *Renderer) Resize(width, height int) {
	if width == r.width && height == r.height {
		return
	}
	r.width, r.height = width, height
	r.surface.Resize(width, height)
	slog.Debug("viewport resized", "width", width, "height", height)
}

// Tick advances the animation by one frame, places every seed and schedules
// the next frame. It does nothing unless the renderer is running.
func (r *Renderer) Tick() {
	r.scheduled = false
	if r.state != Running {
		return
	}

	r.rotation = wrap(r.rotation + config.RotationStep)

	r.bassIntensity = r.source.CurrentBassIntensity()

	// Sync pulsation with beat
	r.pulsationSpeed = 0.05 + r.bassIntensity*0.2
	r.pulsation = wrap(r.pulsation + r.pulsationSpeed*r.bassIntensity)

	w, h := float64(r.width), float64(r.height)
	scaleFactor := math.Min(w, h) / 50
	maxDistance := math.Max(w, h) / 2
	cx, cy := w/2, h/2

	for i := 0; i < r.count; i++ {
		angle := Angle(i, r.rotation)
		distance := Distance(i, scaleFactor)

		x := math.Cos(angle) * distance
		y := math.Sin(angle) * distance
		distanceFromCenter := math.Sqrt(x*x + y*y)

		noise := (r.jitter.Float64() - 0.5) * 0.2
		pulse := PulseFactor(r.pulsation+noise, distanceFromCenter)

		r.surface.Place(i, Point{
			X: cx + x,
			Y: cy + y,
			R: Radius(r.bassIntensity, pulse, Dissipation(distanceFromCenter, maxDistance)),
		})
	}

	r.schedule()
}

// schedule asks for the next frame unless one is already pending. A tick left
// over from before a pause is reused on resume.
func (r *Renderer) schedule() {
	if r.scheduled {
		return
	}
	r.scheduled = true
	r.clock.Schedule(r.Tick)
}
