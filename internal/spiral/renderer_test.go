package spiral

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"
)

type fakeSource struct {
	bass      float64
	accessErr error
	requests  int
	pauses    int
	resumes   int
	suspended bool
}

func (s *fakeSource) RequestAccess(ctx context.Context) error {
	s.requests++
	return s.accessErr
}

func (s *fakeSource) CurrentBassIntensity() float64 { return s.bass }

func (s *fakeSource) Pause() error {
	if !s.suspended {
		s.pauses++
		s.suspended = true
	}
	return nil
}

func (s *fakeSource) Resume() error {
	if s.suspended {
		s.resumes++
		s.suspended = false
	}
	return nil
}

type recordingSurface struct {
	points        []Point
	width, height int
	resizes       int
}

func (s *recordingSurface) SetCount(n int) { s.points = make([]Point, n) }

func (s *recordingSurface) Place(i int, p Point) { s.points[i] = p }

func (s *recordingSurface) Resize(width, height int) {
	s.width, s.height = width, height
	s.resizes++
}

// manualClock queues scheduled callbacks until the test advances it.
type manualClock struct {
	pending []func()
}

func (c *manualClock) Schedule(fn func()) { c.pending = append(c.pending, fn) }

// step runs the callbacks pending at the time of the call.
func (c *manualClock) step() {
	run := c.pending
	c.pending = nil
	for _, fn := range run {
		fn()
	}
}

type countingNotifier struct {
	errs []error
}

func (n *countingNotifier) Notify(err error) { n.errs = append(n.errs, err) }

// constJitter always returns the same value; 0.5 yields zero noise.
type constJitter float64

func (j constJitter) Float64() float64 { return float64(j) }

type fixture struct {
	source   *fakeSource
	surface  *recordingSurface
	clock    *manualClock
	notifier *countingNotifier
	renderer *Renderer
}

func newFixture(count, width, height int, bass float64, jitter Jitter) *fixture {
	f := &fixture{
		source:   &fakeSource{bass: bass},
		surface:  &recordingSurface{},
		clock:    &manualClock{},
		notifier: &countingNotifier{},
	}
	f.renderer = NewRenderer(count, width, height, f.source, f.surface, f.clock, f.notifier, jitter)
	return f
}

func (f *fixture) start(t *testing.T) {
	t.Helper()
	if err := f.renderer.Toggle(context.Background()); err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if f.renderer.State() != Running {
		t.Fatalf("Expected running, got %v", f.renderer.State())
	}
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestSingleSeedAtRest(t *testing.T) {
	f := newFixture(1, 100, 100, 0, constJitter(0.5))
	f.start(t)
	f.clock.step()

	p := f.surface.points[0]
	if !approx(p.X, 50) || !approx(p.Y, 50) {
		t.Errorf("Expected seed at (50, 50), got (%v, %v)", p.X, p.Y)
	}
	if !approx(p.R, 0.6) {
		t.Errorf("Expected radius 0.6, got %v", p.R)
	}
	if f.renderer.Pulsation() != 0 {
		t.Errorf("Expected pulsation to stay 0 without bass, got %v", f.renderer.Pulsation())
	}
	if !approx(f.renderer.Rotation(), 0.001) {
		t.Errorf("Expected rotation 0.001, got %v", f.renderer.Rotation())
	}
}

func TestSingleSeedFullBass(t *testing.T) {
	f := newFixture(1, 100, 100, 1, constJitter(0.5))
	f.start(t)
	f.clock.step()

	// pulsation advances by (0.05 + 0.2) * 1 before the seed is placed
	if !approx(f.renderer.Pulsation(), 0.25) {
		t.Fatalf("Expected pulsation 0.25, got %v", f.renderer.Pulsation())
	}
	want := 29.8 * (math.Sin(0.25)*0.5 + 0.5) * 1.2
	if got := f.surface.points[0].R; !approx(got, want) {
		t.Errorf("Expected radius %v, got %v", want, got)
	}
}

func TestRadiusFormula(t *testing.T) {
	tests := []struct {
		name                     string
		bass, pulsation, dfc, md float64
		want                     float64
	}{
		{"rest", 0, 0, 0, 50, 0.6},
		{"full bass", 1, 0, 0, 50, 17.88},
		{"at max distance", 1, 0, 50, 50, 0.5},
		{"beyond max distance", 1, 0, 80, 50, 0.5},
		{"trough", 1, -math.Pi / 2, 0, 50, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Radius(tt.bass, PulseFactor(tt.pulsation, tt.dfc), Dissipation(tt.dfc, tt.md))
			if !approx(got, tt.want) {
				t.Errorf("radius = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDissipation(t *testing.T) {
	if d := Dissipation(0, 100); d != 1 {
		t.Errorf("center dissipation = %v, want 1", d)
	}
	if d := Dissipation(50, 100); !approx(d, 0.25) {
		t.Errorf("half-way dissipation = %v, want 0.25", d)
	}
	if d := Dissipation(100, 100); d != 0 {
		t.Errorf("edge dissipation = %v, want 0", d)
	}
	// a negative base must not square back into a positive factor
	if d := Dissipation(300, 100); d != 0 {
		t.Errorf("outside dissipation = %v, want 0", d)
	}
	if d := Dissipation(10, 0); d != 0 {
		t.Errorf("empty viewport dissipation = %v, want 0", d)
	}
}

func TestGoldenAngleLayout(t *testing.T) {
	if !approx(Phi, 0.6180339887498949) {
		t.Errorf("Phi = %v", Phi)
	}
	if a := Angle(1, 0.5); !approx(a, 2*math.Pi*Phi+0.5) {
		t.Errorf("Angle(1) = %v", a)
	}
	if d := Distance(16, 2); d != 8 {
		t.Errorf("Distance(16, 2) = %v, want 8", d)
	}
}

func TestRadiusFloorProperty(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	for iter := 0; iter < 50; iter++ {
		bass := r.Float64()
		width := 1 + r.Intn(2000)
		height := 1 + r.Intn(2000)

		f := newFixture(500, width, height, bass, rand.New(rand.NewSource(int64(iter))))
		f.start(t)
		for frame := 0; frame < 3; frame++ {
			f.clock.step()
		}

		for i, p := range f.surface.points {
			if p.R < 0.5 || math.IsNaN(p.R) {
				t.Fatalf("iteration %d (bass=%v, %dx%d): seed %d radius %v", iter, bass, width, height, i, p.R)
			}
		}
	}
}

func TestPhasesWrap(t *testing.T) {
	f := newFixture(1, 100, 100, 1, constJitter(0.5))
	f.start(t)

	for frame := 0; frame < 10000; frame++ {
		f.clock.step()
		rot, pulse := f.renderer.Rotation(), f.renderer.Pulsation()
		if rot < 0 || rot >= 2*math.Pi {
			t.Fatalf("frame %d: rotation %v outside [0, 2π)", frame, rot)
		}
		if pulse < 0 || pulse >= 2*math.Pi {
			t.Fatalf("frame %d: pulsation %v outside [0, 2π)", frame, pulse)
		}
	}
}

func TestWrap(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{0, 0},
		{1, 1},
		{2 * math.Pi, 0},
		{2*math.Pi + 0.25, 0.25},
		{-0.25, 2*math.Pi - 0.25},
		{-1e-300, 0},
	}
	for _, tt := range tests {
		if got := wrap(tt.in); !approx(got, tt.want) || got >= 2*math.Pi {
			t.Errorf("wrap(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFixedJitterIsDeterministic(t *testing.T) {
	run := func() []Point {
		f := newFixture(200, 640, 480, 0.7, rand.New(rand.NewSource(99)))
		f.start(t)
		f.clock.step()
		f.clock.step()
		return append([]Point(nil), f.surface.points...)
	}

	a, b := run(), run()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("seed %d differs between runs: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestResizeWhileRunning(t *testing.T) {
	f := newFixture(2, 100, 100, 0, constJitter(0.5))
	f.start(t)
	f.clock.step()

	before := f.surface.points[1]

	f.renderer.Resize(400, 200)
	if f.surface.width != 400 || f.surface.height != 200 {
		t.Fatalf("Expected surface resized to 400x200, got %dx%d", f.surface.width, f.surface.height)
	}
	// seeds are not moved until the next frame
	if f.surface.points[1] != before {
		t.Error("Expected seeds unchanged until next tick")
	}

	f.clock.step()
	p := f.surface.points[1]
	// scale factor min(400,200)/50 = 4, seed 1 sits at distance 4
	if got := math.Hypot(p.X-200, p.Y-100); !approx(got, 4) {
		t.Errorf("Expected seed 1 at distance 4 from (200, 100), got %v", got)
	}
	if f.renderer.State() != Running {
		t.Errorf("Expected still running, got %v", f.renderer.State())
	}
}

func TestAccessDenied(t *testing.T) {
	denied := errors.New("permission denied")
	f := newFixture(10, 100, 100, 0, constJitter(0.5))
	f.source.accessErr = denied

	err := f.renderer.Toggle(context.Background())
	if !errors.Is(err, denied) {
		t.Fatalf("Expected denial error, got %v", err)
	}
	if f.renderer.State() != Idle {
		t.Errorf("Expected idle after denial, got %v", f.renderer.State())
	}
	if len(f.notifier.errs) != 1 {
		t.Errorf("Expected exactly one notification, got %d", len(f.notifier.errs))
	}
	if len(f.clock.pending) != 0 {
		t.Errorf("Expected no frame scheduled, got %d", len(f.clock.pending))
	}

	// the user may retry
	f.source.accessErr = nil
	f.start(t)
	if f.source.requests != 2 {
		t.Errorf("Expected two access requests, got %d", f.source.requests)
	}
	if len(f.notifier.errs) != 1 {
		t.Errorf("Expected no further notification, got %d", len(f.notifier.errs))
	}
}

func TestPauseResume(t *testing.T) {
	f := newFixture(10, 100, 100, 0.5, constJitter(0.5))
	f.start(t)
	f.clock.step()

	if err := f.renderer.Toggle(context.Background()); err != nil {
		t.Fatalf("pause: %v", err)
	}
	if f.renderer.State() != Paused || !f.source.suspended {
		t.Fatalf("Expected paused with suspended audio, got %v", f.renderer.State())
	}

	rot := f.renderer.Rotation()
	f.clock.step()
	if f.renderer.Rotation() != rot {
		t.Error("Expected no animation while paused")
	}
	if len(f.clock.pending) != 0 {
		t.Errorf("Expected no frames scheduled while paused, got %d", len(f.clock.pending))
	}

	if err := f.renderer.Toggle(context.Background()); err != nil {
		t.Fatalf("resume: %v", err)
	}
	if f.renderer.State() != Running || f.source.suspended {
		t.Fatalf("Expected running with active audio, got %v", f.renderer.State())
	}
	if len(f.clock.pending) != 1 {
		t.Fatalf("Expected one frame scheduled, got %d", len(f.clock.pending))
	}
	f.clock.step()
	if f.renderer.Rotation() == rot {
		t.Error("Expected animation to continue after resume")
	}
}

func TestQuickToggleSchedulesOneFrame(t *testing.T) {
	f := newFixture(10, 100, 100, 0, constJitter(0.5))
	f.start(t)

	// pause and resume before the pending frame runs
	_ = f.renderer.Toggle(context.Background())
	_ = f.renderer.Toggle(context.Background())

	if len(f.clock.pending) != 1 {
		t.Errorf("Expected a single pending frame, got %d", len(f.clock.pending))
	}
}

func TestCompleteAccessIgnoredOnceStarted(t *testing.T) {
	f := newFixture(10, 100, 100, 0, constJitter(0.5))
	f.start(t)

	if err := f.renderer.CompleteAccess(errors.New("late failure")); err != nil {
		t.Errorf("Expected late result ignored, got %v", err)
	}
	if len(f.notifier.errs) != 0 || f.renderer.State() != Running {
		t.Errorf("Expected running without notification, got %v with %d notifications", f.renderer.State(), len(f.notifier.errs))
	}
}

func TestStateString(t *testing.T) {
	if Idle.String() != "idle" || Running.String() != "running" || Paused.String() != "paused" {
		t.Error("unexpected state names")
	}
	if State(7).String() != "State(7)" {
		t.Errorf("unexpected name %q", State(7).String())
	}
}
