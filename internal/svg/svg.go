// Package svg renders spiral frames as SVG documents.
package svg

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/iburimskiy/phyllotaxis/internal/spiral"
)

// Surface keeps the last placed seeds in retained mode and writes them out
// as white circles on a black background.
type Surface struct {
	points        []spiral.Point
	width, height int
}

func (s *Surface) SetCount(n int) { s.points = make([]spiral.Point, n) }

func (s *Surface) Place(i int, p spiral.Point) { s.points[i] = p }

func (s *Surface) Resize(width, height int) { s.width, s.height = width, height }

// Len returns the number of circles written per document.
func (s *Surface) Len() int { return len(s.points) }

// WriteTo writes the current frame as a standalone SVG document.
func (s *Surface) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	bw := bufio.NewWriter(cw)

	fmt.Fprintf(bw, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n",
		s.width, s.height, s.width, s.height)
	fmt.Fprintf(bw, `<rect width="100%%" height="100%%" fill="black"/>`+"\n")
	for _, p := range s.points {
		fmt.Fprintf(bw, `<circle cx="%s" cy="%s" r="%s" fill="white"/>`+"\n", num(p.X), num(p.Y), num(p.R))
	}
	fmt.Fprint(bw, "</svg>\n")

	err := bw.Flush()
	return cw.n, err
}

func num(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
