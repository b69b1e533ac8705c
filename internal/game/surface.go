package game

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/phyllotaxis/internal/spiral"
	"github.com/iburimskiy/phyllotaxis/internal/svg"
)

var seedColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// pointSurface keeps the seeds of the last tick for drawing.
type pointSurface struct {
	points        []spiral.Point
	width, height int
	placed        bool
}

func (s *pointSurface) SetCount(n int) {
	s.points = make([]spiral.Point, n)
	s.placed = false
}

func (s *pointSurface) Place(i int, p spiral.Point) {
	s.points[i] = p
	s.placed = true
}

func (s *pointSurface) Resize(width, height int) { s.width, s.height = width, height }

func (s *pointSurface) draw(screen *ebiten.Image) {
	if !s.placed {
		return
	}
	for _, p := range s.points {
		vector.DrawFilledCircle(screen, float32(p.X), float32(p.Y), float32(p.R), seedColor, true)
	}
}

// snapshot copies the current frame into an SVG surface.
func (s *pointSurface) snapshot() *svg.Surface {
	out := &svg.Surface{}
	out.SetCount(len(s.points))
	out.Resize(s.width, s.height)
	for i, p := range s.points {
		out.Place(i, p)
	}
	return out
}
