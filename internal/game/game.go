package game

import (
	"context"
	"fmt"
	"image/color"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/phyllotaxis/internal/audio"
	"github.com/iburimskiy/phyllotaxis/internal/config"
	"github.com/iburimskiy/phyllotaxis/internal/spiral"
)

var background = color.RGBA{A: 255}

// Game hosts the spiral renderer in an ebiten window.
type Game struct {
	ctx context.Context
	cfg *config.Config

	extractor *audio.Extractor
	renderer  *spiral.Renderer
	surface   *pointSurface
	clock     *frameClock

	// result of the pending access request, nil when none is in flight
	access chan error

	// input edge detection
	prevKey map[ebiten.Key]bool

	// button state
	buttonHovered bool
	buttonPressed bool

	lastErr error
}

// New returns a game rendering cfg.Seeds seeds driven by extractor. Access
// failures are reported through notifier.
func New(ctx context.Context, cfg *config.Config, extractor *audio.Extractor, notifier spiral.Notifier) *Game {
	g := &Game{
		ctx:       ctx,
		cfg:       cfg,
		extractor: extractor,
		surface:   &pointSurface{},
		clock:     &frameClock{},
		prevKey:   map[ebiten.Key]bool{},
	}
	jitter := rand.New(rand.NewSource(cfg.RandSeed))
	g.renderer = spiral.NewRenderer(cfg.Seeds, cfg.Width, cfg.Height, extractor, g.surface, g.clock, notifier, jitter)
	return g
}

func (g *Game) Update() error {
	justPressed := func(k ebiten.Key) bool {
		pressed := ebiten.IsKeyPressed(k)
		jp := pressed && !g.prevKey[k]
		g.prevKey[k] = pressed
		return jp
	}

	// The start button only exists before the first start; afterwards the
	// whole window is the toggle.
	mouseX, mouseY := ebiten.CursorPosition()
	width, height := g.renderer.Size()
	bx, by := buttonRect(width, height, config.ButtonWidth, config.ButtonHeight)
	g.buttonHovered = g.renderer.State() == spiral.Idle &&
		inside(mouseX, mouseY, bx, by, config.ButtonWidth, config.ButtonHeight)

	if g.buttonHovered && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.buttonPressed = true
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		g.buttonPressed = false
		g.toggle()
	}

	if justPressed(ebiten.KeySpace) {
		g.toggle()
	}
	if justPressed(ebiten.KeyS) {
		if err := g.saveSnapshot(); err != nil {
			g.lastErr = err
		}
	}
	if justPressed(ebiten.KeyEscape) || justPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}

	g.pollAccess()
	g.clock.run()
	return nil
}

// toggle starts audio access on first use and pauses or resumes afterwards.
func (g *Game) toggle() {
	switch {
	case g.access != nil:
		// access request still in flight
	case g.renderer.State() == spiral.Idle:
		g.lastErr = nil
		ch := make(chan error, 1)
		g.access = ch
		go func() { ch <- g.extractor.RequestAccess(g.ctx) }()
	default:
		if err := g.renderer.Toggle(g.ctx); err != nil {
			g.lastErr = err
		}
	}
}

// pollAccess applies a finished access request on the update goroutine.
func (g *Game) pollAccess() {
	if g.access == nil {
		return
	}
	select {
	case err := <-g.access:
		g.access = nil
		if err := g.renderer.CompleteAccess(err); err != nil {
			g.lastErr = err
		}
	default:
	}
}

func (g *Game) saveSnapshot() error {
	name := fmt.Sprintf("phyllotaxis-%s.svg", time.Now().Format("20060102-150405"))
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	if _, err := g.surface.snapshot().WriteTo(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("save snapshot: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	slog.Info("saved snapshot", "file", name)
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(background)
	g.surface.draw(screen)

	if g.renderer.State() == spiral.Idle {
		g.drawButton(screen)
	}

	ebitenutil.DebugPrintAt(screen, g.status(), 12, 12)
}

func (g *Game) status() string {
	var status string
	switch g.renderer.State() {
	case spiral.Idle:
		status = "Click to start - Space: start/pause, S: save SVG, Esc/Q: quit"
		if g.access != nil {
			status = "Waiting for audio input..."
		}
	case spiral.Paused:
		status = "Paused - click or Space to resume"
	case spiral.Running:
		status = fmt.Sprintf("Bass %.2f - click or Space to pause", g.renderer.BassIntensity())
	}
	if g.renderer.State() != spiral.Idle {
		if pos, ok := g.extractor.Position(); ok {
			status += " | " + formatDuration(pos)
		}
	}
	if g.lastErr != nil {
		status += " | Error: " + g.lastErr.Error()
	}
	return status
}

func (g *Game) drawButton(screen *ebiten.Image) {
	width, height := g.renderer.Size()
	x, y := buttonRect(width, height, config.ButtonWidth, config.ButtonHeight)

	// Button background
	var bgColor color.Color
	if g.buttonPressed {
		bgColor = color.RGBA{R: 56, G: 142, B: 60, A: 255} // Pressed
	} else if g.buttonHovered {
		bgColor = color.RGBA{R: 67, G: 160, B: 71, A: 255} // Hovered
	} else {
		bgColor = color.RGBA{R: 76, G: 175, B: 80, A: 255} // Normal
	}
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(config.ButtonWidth), float32(config.ButtonHeight), bgColor, false)

	// Button text
	text := "Start Visualizer"
	textWidth := len(text) * 6 // Debug font glyphs are 6px wide
	textX := x + (config.ButtonWidth-textWidth)/2
	textY := y + (config.ButtonHeight-16)/2
	ebitenutil.DebugPrintAt(screen, text, textX, textY)
}

// Layout follows the window size so the spiral fills a resized window.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth > 0 && outsideHeight > 0 {
		g.renderer.Resize(outsideWidth, outsideHeight)
	}
	return g.renderer.Size()
}
