// Package engine drives accumulation passes against a compute backend.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/san-kum/buddhabrot/internal/buddha"
	"github.com/san-kum/buddhabrot/internal/compute"
	"github.com/san-kum/buddhabrot/internal/histogram"
	"github.com/san-kum/buddhabrot/internal/render"
	"github.com/san-kum/buddhabrot/internal/sample"
)

type Engine struct {
	mu        sync.Mutex
	settings  Settings
	backend   compute.Backend
	gen       sample.Generator
	last      *Params
	passes    int
	total     int
	observers []Observer
}

// New validates s and initializes backend at the configured size.
func New(s Settings, backend compute.Backend) (*Engine, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if err := backend.Init(s.Width, s.Height); err != nil {
		return nil, fmt.Errorf("init %s backend: %w", backend.Name(), err)
	}
	return &Engine{
		settings: s,
		backend:  backend,
		gen:      sample.New(s.Strategy, s.Seed),
	}, nil
}

func (e *Engine) AddObserver(o Observer) {
	e.mu.Lock()
	e.observers = append(e.observers, o)
	e.mu.Unlock()
}

func (e *Engine) Settings() Settings { return e.settings }

func (e *Engine) Backend() compute.Backend { return e.backend }

// Passes returns the number of passes accumulated since the last clear.
func (e *Engine) Passes() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.passes
}

// Accumulate runs one pass. The histogram is cleared first when p differs
// from the previous pass or the accumulation mode is per-pass; a parameter
// change also discards a persistent sample buffer. A cancelled ctx returns
// before anything is cleared, and a failed dispatch is not recorded as the
// previous pass.
func (e *Engine) Accumulate(ctx context.Context, p Params) (PassStats, error) {
	if err := p.Region.Validate(); err != nil {
		return PassStats{}, err
	}

	if err := ctx.Err(); err != nil {
		return PassStats{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()
	changed := e.last != nil && *e.last != p
	cleared := false
	if changed || e.settings.Accumulation == buddha.PerPass {
		if err := e.clearLocked(changed); err != nil {
			return PassStats{}, err
		}
		cleared = true
	}

	seeds := e.gen.NextSeeds(e.settings.SampleCount, e.settings.Domain(p.Region))
	job := compute.Job{
		Samples: seeds,
		Region:  p.Region,
		Tracer:  e.settings.Tracer(p.Constant),
	}
	if err := e.backend.Dispatch(ctx, job); err != nil {
		return PassStats{}, fmt.Errorf("dispatch pass %d: %w", e.passes+1, err)
	}
	e.last = &p
	e.passes++
	e.total++

	stats := PassStats{
		Pass:     e.passes,
		Total:    e.total,
		Samples:  len(seeds),
		Cleared:  cleared,
		Duration: time.Since(start),
	}
	buddha.Logger().Debug("pass complete",
		"pass", stats.Pass, "total", stats.Total, "samples", stats.Samples, "cleared", cleared, "duration", stats.Duration)

	for _, o := range e.observers {
		o.OnPass(stats)
	}
	return stats, nil
}

// Run accumulates passes with fixed parameters and returns the final
// snapshot. Cancellation is observed between passes; a started pass always
// completes.
func (e *Engine) Run(ctx context.Context, p Params, passes int) (*histogram.Snapshot, error) {
	if passes <= 0 {
		return nil, buddha.NewConfigError("passes", passes, "must be positive")
	}
	for i := 0; i < passes; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		if _, err := e.Accumulate(ctx, p); err != nil {
			return nil, err
		}
	}
	return e.Snapshot()
}

// Snapshot reads back the histogram after every open pass has finished.
func (e *Engine) Snapshot() (*histogram.Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.backend.Snapshot()
}

// Frame returns the normalized intensities of the current histogram.
func (e *Engine) Frame() (*render.Intensity, error) {
	s, err := e.Snapshot()
	if err != nil {
		return nil, err
	}
	return render.Normalize(s), nil
}

// Reset clears the histogram and discards any persistent samples.
func (e *Engine) Reset() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.last = nil
	return e.clearLocked(true)
}

// Resize reallocates the histogram at a new size; accumulated counts are lost.
func (e *Engine) Resize(width, height int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	next := e.settings
	next.Width, next.Height = width, height
	if err := next.Validate(); err != nil {
		return err
	}
	if err := e.backend.Init(width, height); err != nil {
		return err
	}
	e.settings = next
	e.passes = 0
	e.last = nil
	return nil
}

// Close releases backend resources.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.backend.Cleanup()
}

func (e *Engine) clearLocked(resetSamples bool) error {
	if err := e.backend.Clear(); err != nil {
		return err
	}
	e.passes = 0
	if r, ok := e.gen.(sample.Resetter); ok && resetSamples {
		r.Reset()
	}
	return nil
}
