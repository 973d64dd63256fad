package sim

import "math"

// CoverageGrid approximates the area a walker has explored. The grid has
// side ⌊√duration⌋ and the walker's start maps to its centre.
//
// Each step fills the rectangle spanned by the absolute truncated x and y
// deltas from the tracked cell, then moves the tracked cell by those
// deltas. This is not a line rasterization: a step with a zero delta on
// either axis marks nothing, and large diagonal steps skip cells.
type CoverageGrid struct {
	size  int
	cells []bool
	posX  int
	posY  int
}

func NewCoverageGrid(duration int) *CoverageGrid {
	size := gridSize(duration)
	return newCoverageGrid(size, make([]bool, size*size))
}

func newCoverageGrid(size int, cells []bool) *CoverageGrid {
	g := &CoverageGrid{
		size:  size,
		cells: cells,
		posX:  size / 2,
		posY:  size / 2,
	}
	g.Mark(g.posX, g.posY)
	return g
}

func gridSize(duration int) int {
	return int(math.Sqrt(float64(max(duration, 0))))
}

func (g *CoverageGrid) Size() int { return g.size }

// Position returns the tracked cell, which may lie outside the grid.
func (g *CoverageGrid) Position() (int, int) { return g.posX, g.posY }

func (g *CoverageGrid) inside(i, j int) bool {
	return i >= 0 && i < g.size && j >= 0 && j < g.size
}

// Mark sets a cell as visited. Cells outside the grid are ignored and
// reported as false.
func (g *CoverageGrid) Mark(i, j int) bool {
	if !g.inside(i, j) {
		return false
	}
	g.cells[i*g.size+j] = true
	return true
}

func (g *CoverageGrid) Visited(i, j int) bool {
	return g.inside(i, j) && g.cells[i*g.size+j]
}

// Advance records a step of (dx, dy).
func (g *CoverageGrid) Advance(dx, dy float64) {
	xTravel := absInt(int(dx))
	yTravel := absInt(int(dy))

	for j := 0; j < xTravel; j++ {
		for k := 0; k < yTravel; k++ {
			g.Mark(g.posX+j, g.posY+k)
		}
	}

	g.posX += xTravel
	g.posY += yTravel
}

// Explored counts visited cells.
func (g *CoverageGrid) Explored() int {
	n := 0
	for _, v := range g.cells {
		if v {
			n++
		}
	}
	return n
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
