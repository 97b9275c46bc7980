package cli

import (
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"
)

// brailleBits maps a dot at (x, y) within a 2×4 cell to its braille bit.
var brailleBits = [4][2]uint8{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// canvas is a terminal drawing surface of braille cells. Every cell holds
// 2×4 dots, so dots are roughly square on common terminal fonts.
type canvas struct {
	cols, rows int
	cells      []uint8
}

func newCanvas(cols, rows int) *canvas {
	cols, rows = max(cols, 1), max(rows, 1)
	return &canvas{cols: cols, rows: rows, cells: make([]uint8, cols*rows)}
}

// dots returns the canvas size in dots.
func (c *canvas) dots() (w, h int) { return c.cols * 2, c.rows * 4 }

func (c *canvas) set(x, y int) {
	w, h := c.dots()
	if x < 0 || y < 0 || x >= w || y >= h {
		return
	}
	c.cells[(y/4)*c.cols+x/2] |= brailleBits[y%4][x%2]
}

// line sets every dot on the segment from (x0, y0) to (x1, y1).
func (c *canvas) line(x0, y0, x1, y1 float64) {
	n := int(math.Ceil(math.Max(math.Abs(x1-x0), math.Abs(y1-y0))))
	if n == 0 {
		c.set(int(math.Round(x0)), int(math.Round(y0)))
		return
	}
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		c.set(int(math.Round(x0+(x1-x0)*t)), int(math.Round(y0+(y1-y0)*t)))
	}
}

// String renders the canvas with one text line per cell row.
func (c *canvas) String() string {
	var b strings.Builder
	b.Grow(c.rows * (c.cols*3 + 1))
	for r := 0; r < c.rows; r++ {
		if r > 0 {
			b.WriteByte('\n')
		}
		for _, cell := range c.cells[r*c.cols : (r+1)*c.cols] {
			if cell == 0 {
				b.WriteByte(' ')
				continue
			}
			b.WriteRune(rune(0x2800 + int(cell)))
		}
	}
	return b.String()
}

// viewport maps world coordinates onto canvas dots with equal scale on both
// axes, centering the world box.
type viewport struct {
	box    r2.Box
	scale  float64
	ox, oy float64
}

func newViewport(box r2.Box, c *canvas) viewport {
	w, h := c.dots()
	bw, bh := box.Max.X-box.Min.X, box.Max.Y-box.Min.Y
	scale := math.Min(float64(w-1)/math.Max(bw, 1e-9), float64(h-1)/math.Max(bh, 1e-9))
	return viewport{
		box:   box,
		scale: scale,
		ox:    (float64(w-1) - bw*scale) / 2,
		oy:    (float64(h-1) - bh*scale) / 2,
	}
}

func (v viewport) project(p r2.Vec) (float64, float64) {
	return v.ox + (p.X-v.box.Min.X)*v.scale, v.oy + (p.Y-v.box.Min.Y)*v.scale
}

// grow returns a box covering both a and b.
func grow(a, b r2.Box) r2.Box {
	return r2.Box{
		Min: r2.Vec{X: math.Min(a.Min.X, b.Min.X), Y: math.Min(a.Min.Y, b.Min.Y)},
		Max: r2.Vec{X: math.Max(a.Max.X, b.Max.X), Y: math.Max(a.Max.Y, b.Max.Y)},
	}
}
