package sim

import "sync"

// CellPool recycles coverage grid storage between runs of a population.
type CellPool struct {
	pool sync.Pool
}

func NewCellPool() *CellPool {
	return &CellPool{}
}

// Get returns n cleared cells.
func (p *CellPool) Get(n int) []bool {
	if v, ok := p.pool.Get().(*[]bool); ok && cap(*v) >= n {
		cells := (*v)[:n]
		clear(cells)
		return cells
	}
	return make([]bool, n)
}

func (p *CellPool) Put(cells []bool) {
	if cap(cells) == 0 {
		return
	}
	p.pool.Put(&cells)
}

// Grid builds a coverage grid backed by pooled cells. Release hands the
// cells back once the grid is no longer read.
func (p *CellPool) Grid(duration int) *CoverageGrid {
	size := gridSize(duration)
	return newCoverageGrid(size, p.Get(size*size))
}

func (p *CellPool) Release(g *CoverageGrid) {
	p.Put(g.cells)
	g.cells = nil
}
