package compute

import (
	"context"
	"errors"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/buddhabrot/internal/buddha"
	"github.com/san-kum/buddhabrot/internal/histogram"
	"github.com/san-kum/buddhabrot/internal/orbit"
)

// minChunk keeps tiny dispatches on one goroutine.
const minChunk = 64

type CPUBackend struct {
	workers int
	grid    *histogram.Grid
	bufs    orbit.BufferPool

	// Retained counts orbits kept by the policy since the last Clear.
	retained atomic.Uint64
}

// NewCPUBackend returns a backend with the given number of workers; zero or
// less means one per CPU. One worker is the sequential execution model.
func NewCPUBackend(workers int) *CPUBackend {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &CPUBackend{workers: workers}
}

func (c *CPUBackend) Name() string    { return "cpu" }
func (c *CPUBackend) Available() bool { return true }
func (c *CPUBackend) Cleanup()        {}

// Workers returns the configured worker count.
func (c *CPUBackend) Workers() int { return c.workers }

// Retained returns the number of orbits kept since the last Clear.
func (c *CPUBackend) Retained() uint64 { return c.retained.Load() }

// Init allocates a zeroed histogram, replacing any previous one.
func (c *CPUBackend) Init(width, height int) error {
	if width <= 0 || height <= 0 {
		return buddha.NewConfigError("size", [2]int{width, height}, "dimensions must be positive")
	}
	c.grid = histogram.New(width, height)
	c.retained.Store(0)
	return nil
}

var errNotInitialized = errors.New("compute: backend not initialized")

// Dispatch splits the samples into contiguous chunks, one per worker. All
// workers share one histogram pass; the pass ends only after every worker
// has returned.
func (c *CPUBackend) Dispatch(ctx context.Context, job Job) error {
	if c.grid == nil {
		return errNotInitialized
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	n := len(job.Samples)
	if n == 0 {
		return nil
	}

	w, h := c.grid.Size()
	pass := c.grid.Begin()
	defer pass.End()

	k := newKernel(job, w, h, pass)

	workers := c.workers
	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers <= 1 {
		buf, kept := k.run(0, n, c.bufs.Get(job.Tracer.MaxIterations))
		c.bufs.Put(buf)
		c.retained.Add(uint64(kept))
		return nil
	}

	chunkSize := (n + workers - 1) / workers

	var g errgroup.Group
	for worker := 0; worker < workers; worker++ {
		start := worker * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}
		if start >= end {
			break
		}

		g.Go(func() error {
			buf, kept := k.run(start, end, c.bufs.Get(job.Tracer.MaxIterations))
			c.bufs.Put(buf)
			c.retained.Add(uint64(kept))
			return nil
		})
	}
	return g.Wait()
}

// Clear zeroes the histogram once every open pass has ended.
func (c *CPUBackend) Clear() error {
	if c.grid == nil {
		return errNotInitialized
	}
	c.retained.Store(0)
	return c.grid.Clear()
}

// Snapshot copies the histogram once every open pass has ended.
func (c *CPUBackend) Snapshot() (*histogram.Snapshot, error) {
	if c.grid == nil {
		return nil, errNotInitialized
	}
	return c.grid.Snapshot()
}
