// Package viz renders runs in the terminal: a braille-dot particle view,
// asciigraph energy traces and a bubbletea live mode.
package viz

import "strings"

// Braille cells pack 2x4 dots, so a WxH character canvas holds
// (2W)x(4H) addressable pixels. Unicode offset 0x2800.
var dotBits = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

type Canvas struct {
	width, height int
	cells         []rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{width: w, height: h, cells: make([]rune, w*h)}
	c.Clear()
	return c
}

// PixelSize reports the canvas extent in dot coordinates.
func (c *Canvas) PixelSize() (w, h int) {
	return c.width * 2, c.height * 4
}

func (c *Canvas) Clear() {
	for i := range c.cells {
		c.cells[i] = 0x2800
	}
}

// Set lights the dot at (x, y) in dot coordinates. Out-of-range dots are
// dropped, which keeps callers free of clipping.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.width || row >= c.height {
		return
	}
	c.cells[row*c.width+col] |= dotBits[y%4][x%2]
}

// Dot lights a 3x3 blob so single particles stay visible.
func (c *Canvas) Dot(x, y int) {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			c.Set(x+dx, y+dy)
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for row := 0; row < c.height; row++ {
		b.WriteString(string(c.cells[row*c.width : (row+1)*c.width]))
		b.WriteByte('\n')
	}
	return b.String()
}

// Projection maps world coordinates onto the canvas. Axes picks the two
// position components shown on screen; Extent is the world half-width
// mapped to the canvas half-width.
type Projection struct {
	Axes   [2]int
	Extent float64
}

// Project converts one particle position (a 3-element window into a
// packed coordinate slice) to dot coordinates.
func (p Projection) Project(c *Canvas, pos []float64) (x, y int) {
	pw, ph := c.PixelSize()
	sx := float64(pw) / 2 / p.Extent
	sy := float64(ph) / 2 / p.Extent
	x = pw/2 + int(pos[p.Axes[0]]*sx)
	y = ph/2 - int(pos[p.Axes[1]]*sy)
	return x, y
}

// DrawCloud plots every particle of a packed position slice.
func (c *Canvas) DrawCloud(x []float64, proj Projection) {
	for i := 0; i+2 < len(x); i += 3 {
		px, py := proj.Project(c, x[i:i+3])
		c.Dot(px, py)
	}
}
