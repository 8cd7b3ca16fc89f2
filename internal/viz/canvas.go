package viz

import (
	"math"
	"strings"

	"github.com/san-kum/gravsim/internal/body"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Set turns on the sub-pixel at (x, y). The canvas is (Width*2) x
// (Height*4) sub-pixels; points outside are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&rune(pixelMap[y%4][x%2]) != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
		}
	}
}

// Dot draws a filled 2x2 block at (x, y).
func (c *Canvas) Dot(x, y int) {
	c.Set(x, y)
	c.Set(x+1, y)
	c.Set(x, y+1)
	c.Set(x+1, y+1)
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

// Frame maps universe coordinates in [-Radius, Radius] to canvas
// sub-pixels. Universe y grows upwards.
type Frame struct {
	Canvas *Canvas
	Radius float64
}

func (f Frame) Project(x, y float64) (int, int, bool) {
	if f.Radius <= 0 || math.IsNaN(x) || math.IsNaN(y) {
		return 0, 0, false
	}
	w := float64(f.Canvas.Width * 2)
	h := float64(f.Canvas.Height * 4)
	px := (x/f.Radius + 1) / 2 * (w - 1)
	py := (1 - y/f.Radius) / 2 * (h - 1)
	if px < 0 || py < 0 || px > w-1 || py > h-1 {
		return 0, 0, false
	}
	return int(math.Round(px)), int(math.Round(py)), true
}

// Plot draws every body that falls inside the frame and returns how many
// were drawn.
func (f Frame) Plot(bodies []*body.Body) int {
	n := 0
	for _, b := range bodies {
		if px, py, ok := f.Project(b.X(), b.Y()); ok {
			f.Canvas.Dot(px, py)
			n++
		}
	}
	return n
}

// Render plots bodies onto a fresh w x h canvas.
func Render(bodies []*body.Body, radius float64, w, h int) string {
	f := Frame{Canvas: NewCanvas(w, h), Radius: radius}
	f.Plot(bodies)
	return f.Canvas.String()
}
