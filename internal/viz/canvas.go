package viz

import (
	"math"
	"strings"
)

const brailleBlank = 0x2800

// dotBits maps a sub-pixel inside a braille cell, [row][col], to its bit.
// Rows 0-2 use dots 1-3 and 4-6; the bottom row uses dots 7 and 8.
var dotBits = [4][2]uint8{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// Canvas is a Width x Height grid of braille cells, addressed in
// sub-pixels: two across and four down per cell.
type Canvas struct {
	Width, Height int

	dots   [][]uint8
	glyphs map[[2]int]rune
}

func NewCanvas(w, h int) *Canvas {
	dots := make([][]uint8, h)
	for i := range dots {
		dots[i] = make([]uint8, w)
	}
	return &Canvas{Width: w, Height: h, dots: dots, glyphs: make(map[[2]int]rune)}
}

// locate returns the cell holding sub-pixel (x, y) and its dot bit.
func (c *Canvas) locate(x, y int) (row, col int, bit uint8, ok bool) {
	if x < 0 || y < 0 {
		return 0, 0, 0, false
	}
	row, col = y/4, x/2
	if row >= c.Height || col >= c.Width {
		return 0, 0, 0, false
	}
	return row, col, dotBits[y%4][x%2], true
}

func (c *Canvas) Set(x, y int) {
	if row, col, bit, ok := c.locate(x, y); ok {
		c.dots[row][col] |= bit
	}
}

func (c *Canvas) Unset(x, y int) {
	if row, col, bit, ok := c.locate(x, y); ok {
		c.dots[row][col] &^= bit
	}
}

// Cell returns the rune drawn at cell (col, row), glyph overlay included.
func (c *Canvas) Cell(col, row int) rune {
	if g, ok := c.glyphs[[2]int{row, col}]; ok {
		return g
	}
	return brailleBlank + rune(c.dots[row][col])
}

func (c *Canvas) Clear() {
	for _, row := range c.dots {
		clear(row)
	}
	clear(c.glyphs)
}

// DrawLine sets every sub-pixel on the segment, stepping once per
// sub-pixel along the longer axis.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx, dy := x1-x0, y1-y0
	steps := max(abs(dx), abs(dy))
	if steps == 0 {
		c.Set(x0, y0)
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		c.Set(x0+int(math.Round(t*float64(dx))), y0+int(math.Round(t*float64(dy))))
	}
}

// Glyph puts r in the cell holding sub-pixel (x, y), hiding any dots.
func (c *Canvas) Glyph(x, y int, r rune) {
	if row, col, _, ok := c.locate(x, y); ok {
		c.glyphs[[2]int{row, col}] = r
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for row := range c.dots {
		for col := range c.dots[row] {
			b.WriteRune(c.Cell(col, row))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
