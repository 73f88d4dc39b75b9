package canvas_test

import (
	"bytes"
	"errors"
	"image/color"
	"image/png"
	"math"
	"strings"
	"testing"

	"github.com/metaphox/drawlang/ast"
	"github.com/metaphox/drawlang/canvas"
	"github.com/metaphox/drawlang/semantic"
)

var blue = ast.RGB{R: 0, G: 0, B: 255}

func TestCanvas_Plot(t *testing.T) {
	c := canvas.New(10, 10)
	c.Plot(semantic.Event{X: 2.9, Y: 3.2, Color: blue, Size: 1})
	if got := c.At(2, 3); got != (color.RGBA{0, 0, 255, 255}) {
		t.Errorf("plotted pixel = %v", got)
	}
	if got := c.At(3, 3); got != canvas.Background {
		t.Errorf("neighbour = %v, want background", got)
	}
}

func TestCanvas_PlotSize(t *testing.T) {
	c := canvas.New(10, 10)
	c.Plot(semantic.Event{X: 5, Y: 5, Color: blue, Size: 3})
	for y := 4; y <= 6; y++ {
		for x := 4; x <= 6; x++ {
			if c.At(x, y) == canvas.Background {
				t.Errorf("(%d, %d) not painted", x, y)
			}
		}
	}
	if c.At(7, 5) != canvas.Background || c.At(3, 5) != canvas.Background {
		t.Error("square is wider than its size")
	}
}

func TestCanvas_Clipping(t *testing.T) {
	c := canvas.New(4, 4)
	c.Plot(semantic.Event{X: -10, Y: 100, Color: blue, Size: 1})
	c.Plot(semantic.Event{X: 0, Y: 0, Color: blue, Size: 5})
	c.Plot(semantic.Event{X: math.NaN(), Y: 0, Color: blue, Size: 1})
	c.Plot(semantic.Event{X: math.Inf(1), Y: 0, Color: blue, Size: 1})
	if c.Count() != 2 {
		t.Errorf("Count = %d, want 2", c.Count())
	}
	if c.At(2, 2) == canvas.Background || c.At(3, 3) != canvas.Background {
		t.Error("clipped square painted the wrong pixels")
	}
	c.Clear()
	if c.Count() != 0 || c.At(0, 0) != canvas.Background {
		t.Error("Clear did not reset the canvas")
	}
}

func TestCanvas_WritePNG(t *testing.T) {
	c := canvas.New(8, 6)
	c.Plot(semantic.Event{X: 1, Y: 1, Color: blue, Size: 1})
	var buf bytes.Buffer
	if err := c.WritePNG(&buf); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 8 || b.Dy() != 6 {
		t.Errorf("bounds = %v", b)
	}
	r, g, bl, _ := img.At(1, 1).RGBA()
	if r != 0 || g != 0 || bl != 0xffff {
		t.Errorf("pixel = %v %v %v", r, g, bl)
	}
}

func TestCanvas_WriteSVG(t *testing.T) {
	c := canvas.New(20, 10)
	c.SetRecording(true)
	c.Plot(semantic.Event{X: 5, Y: 5, Color: ast.RGB{R: 255, G: 165, B: 0}, Size: 2})
	var buf bytes.Buffer
	if err := c.WriteSVG(&buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		`width="20" height="10"`,
		`fill="#ffffff"`,
		`<rect x="4" y="4" width="3" height="3" fill="#ffa500"/>`,
		`</svg>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("svg missing %q:\n%s", want, out)
		}
	}
}

func TestCanvas_RecordingOff(t *testing.T) {
	c := canvas.New(20, 10)
	if c.Recording() {
		t.Fatal("new canvas records points")
	}
	for i := 0; i < 1000; i++ {
		c.Plot(semantic.Event{X: 3, Y: 3, Color: blue, Size: 1})
	}
	if c.Count() != 1000 {
		t.Errorf("Count = %d, want 1000", c.Count())
	}
	var buf bytes.Buffer
	if err := c.WriteSVG(&buf); !errors.Is(err, canvas.ErrNotRecording) {
		t.Fatalf("WriteSVG error = %v, want ErrNotRecording", err)
	}
	if err := c.WritePNG(&buf); err != nil {
		t.Fatalf("WritePNG without recording: %v", err)
	}

	// Points plotted before recording started are not kept.
	c.SetRecording(true)
	c.Plot(semantic.Event{X: 5, Y: 5, Color: blue, Size: 1})
	buf.Reset()
	if err := c.WriteSVG(&buf); err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(buf.String(), `fill="#0000ff"`); n != 1 {
		t.Errorf("svg has %d points, want 1", n)
	}
}
