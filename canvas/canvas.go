// Package canvas is an in-memory raster that receives draw events and
// writes them out as PNG or SVG.
package canvas

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"sync"

	"github.com/metaphox/drawlang/semantic"
)

// Background is the color of a cleared canvas.
var Background = color.RGBA{255, 255, 255, 255}

// ErrNotRecording is returned by WriteSVG when the canvas does not keep the
// plotted points.
var ErrNotRecording = errors.New("canvas is not recording points")

// pixel is one plotted point in canvas coordinates.
type pixel struct {
	x, y int
	half int
	c    color.RGBA
}

// Canvas is a fixed-size RGBA raster. It is safe for concurrent use.
//
// By default only the raster is kept, so memory does not grow with the
// number of points. SetRecording makes it also keep every plotted point,
// which WriteSVG needs.
type Canvas struct {
	mu        sync.Mutex
	img       *image.RGBA
	count     int
	recording bool
	pixels    []pixel
}

// New returns a cleared w×h canvas that does not record points.
func New(w, h int) *Canvas {
	c := &Canvas{img: image.NewRGBA(image.Rect(0, 0, w, h))}
	c.Clear()
	return c
}

// SetRecording turns point recording on or off. Turning it off forgets the
// points recorded so far; points plotted while it was off are never recorded.
func (c *Canvas) SetRecording(on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.recording = on
	if !on {
		c.pixels = nil
	}
}

// Recording reports whether plotted points are kept for WriteSVG.
func (c *Canvas) Recording() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.recording
}

// Bounds returns the canvas rectangle.
func (c *Canvas) Bounds() image.Rectangle { return c.img.Bounds() }

// Clear fills the canvas with Background and forgets every plotted point.
func (c *Canvas) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	draw.Draw(c.img, c.img.Bounds(), &image.Uniform{Background}, image.Point{}, draw.Src)
	c.count = 0
	c.pixels = c.pixels[:0]
}

// Plot draws e as a square centred on (int(X), int(Y)) reaching size/2
// pixels in every direction. Parts outside the canvas are clipped; points
// with non-finite coordinates are ignored.
func (c *Canvas) Plot(e semantic.Event) {
	if math.IsNaN(e.X) || math.IsNaN(e.Y) || math.IsInf(e.X, 0) || math.IsInf(e.Y, 0) {
		return
	}
	size := int(e.Size)
	if size < 1 {
		size = 1
	}
	p := pixel{
		x:    int(e.X),
		y:    int(e.Y),
		half: size / 2,
		c:    color.RGBA{e.Color.R, e.Color.G, e.Color.B, 255},
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.count++
	if c.recording {
		c.pixels = append(c.pixels, p)
	}
	r := image.Rect(p.x-p.half, p.y-p.half, p.x+p.half+1, p.y+p.half+1).Intersect(c.img.Bounds())
	if r.Empty() {
		return
	}
	draw.Draw(c.img, r, &image.Uniform{p.c}, image.Point{}, draw.Src)
}

// Count returns the number of points plotted since the last Clear,
// including clipped ones.
func (c *Canvas) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

// At returns the color of the pixel at (x, y).
func (c *Canvas) At(x, y int) color.RGBA {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.img.RGBAAt(x, y)
}

// WritePNG encodes the canvas as PNG.
func (c *Canvas) WritePNG(w io.Writer) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := png.Encode(w, c.img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// WriteSVG writes the recorded points as an SVG document, one rect per
// point, in plotting order. It fails with ErrNotRecording unless recording
// is on.
func (c *Canvas) WriteSVG(w io.Writer) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.recording {
		return fmt.Errorf("write svg: %w", ErrNotRecording)
	}

	bw := bufio.NewWriter(w)
	b := c.img.Bounds()
	fmt.Fprintf(bw, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n",
		b.Dx(), b.Dy(), b.Dx(), b.Dy())
	fmt.Fprintf(bw, `<rect width="100%%" height="100%%" fill="%s"/>`+"\n", hex(Background))
	for _, p := range c.pixels {
		side := 2*p.half + 1
		fmt.Fprintf(bw, `<rect x="%d" y="%d" width="%d" height="%d" fill="%s"/>`+"\n",
			p.x-p.half, p.y-p.half, side, side, hex(p.c))
	}
	fmt.Fprintln(bw, `</svg>`)
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}

func hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
