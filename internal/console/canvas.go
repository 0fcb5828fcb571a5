package console

import (
	"math"
	"strings"

	"github.com/san-kum/evoviz/internal/jitter"
)

// Braille cells hold 2x4 dots:
// 1 4
// 2 5
// 3 6
// 7 8
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

// Canvas is a dot matrix drawn with Braille characters. Dot coordinates run
// from (0,0) at the top left to (2*Width-1, 4*Height-1).
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
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
		}
	}
	return c
}

// Set turns on the dot at (x, y). Out of range dots are ignored.
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

// IsSet reports whether the dot at (x, y) is on.
func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&rune(pixelMap[y%4][x%2]) != 0
}

// DrawLine draws a line using Bresenham's algorithm.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Scatter plots points over genes [0, xUpper-1] x [0, yUpper-1] inside a
// frame. Gene 0 on the y axis is the top row, matching the rendered image.
func Scatter(pts []jitter.Point, xUpper, yUpper, w, h int) *Canvas {
	c := NewCanvas(w, h)
	dw, dh := 2*w-1, 4*h-1
	c.DrawLine(0, 0, dw, 0)
	c.DrawLine(0, dh, dw, dh)
	c.DrawLine(0, 0, 0, dh)
	c.DrawLine(dw, 0, dw, dh)

	sx := float64(dw-2) / math.Max(float64(xUpper-1), 1)
	sy := float64(dh-2) / math.Max(float64(yUpper-1), 1)
	for _, p := range pts {
		x := 1 + int(math.Round(p.X*sx))
		y := 1 + int(math.Round(p.Y*sy))
		if x < 1 || y < 1 || x > dw-1 || y > dh-1 {
			continue
		}
		c.Set(x, y)
	}
	return c
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
