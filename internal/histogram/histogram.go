// Package histogram accumulates orbit visits into a per-pixel count grid.
//
// Increments happen through a [Pass]. Any number of goroutines may share one
// open pass and increment concurrently; each cell is updated with an atomic
// add and saturates instead of wrapping. [Grid.Clear] and [Grid.Snapshot] wait until every open pass has ended,
// so a readback can never observe a partially applied dispatch.
package histogram

import (
	"math"
	"sync"
	"sync/atomic"
)

// Accumulator is the readback side shared by CPU grids and device buffers.
type Accumulator interface {
	Clear() error
	Snapshot() (*Snapshot, error)
}

// Grid is a width×height array of visit counts. Row y grows with the imaginary axis.
type Grid struct {
	width, height int
	counts        []uint32

	// Passes hold the read side; Clear and Snapshot take the write side.
	barrier sync.RWMutex
}

// New allocates a zeroed grid.
func New(width, height int) *Grid {
	return &Grid{
		width:  width,
		height: height,
		counts: make([]uint32, width*height),
	}
}

// Size returns the grid dimensions.
func (g *Grid) Size() (int, int) { return g.width, g.height }

// Begin opens a pass. The caller must call End once every increment of the
// pass has been issued.
func (g *Grid) Begin() *Pass {
	g.barrier.RLock()
	return &Pass{grid: g}
}

// Clear zeroes every cell after all open passes have ended.
func (g *Grid) Clear() error {
	g.barrier.Lock()
	defer g.barrier.Unlock()

	clear(g.counts)
	return nil
}

// Snapshot copies the grid after all open passes have ended.
func (g *Grid) Snapshot() (*Snapshot, error) {
	g.barrier.Lock()
	defer g.barrier.Unlock()

	s := &Snapshot{
		Width:  g.width,
		Height: g.height,
		Counts: make([]uint32, len(g.counts)),
	}
	copy(s.Counts, g.counts)
	return s, nil
}

// Pass is an open accumulation window on a Grid.
type Pass struct {
	grid  *Grid
	ended atomic.Bool
}

// Increment adds one visit to (x, y). Counts saturate at math.MaxUint32.
// Out-of-range cells are ignored; the projector never produces them.
func (p *Pass) Increment(x, y int) {
	g := p.grid
	if x < 0 || y < 0 || x >= g.width || y >= g.height {
		return
	}
	c := &g.counts[y*g.width+x]
	if atomic.AddUint32(c, 1) == 0 {
		// Wrapped. Every wrapping caller stores the ceiling, so the cell
		// settles there once the pass ends.
		atomic.StoreUint32(c, math.MaxUint32)
	}
}

// End closes the pass. Calling End more than once is a no-op.
func (p *Pass) End() {
	if p.ended.CompareAndSwap(false, true) {
		p.grid.barrier.RUnlock()
	}
}
