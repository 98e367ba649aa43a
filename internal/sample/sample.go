// Package sample produces the points fed to the orbit tracer.
package sample

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/san-kum/buddhabrot/internal/buddha"
	"github.com/san-kum/buddhabrot/internal/plane"
)

// Generator yields count points uniformly distributed over domain.
type Generator interface {
	NextSeeds(count int, domain plane.Region) []complex128
}

// New returns the generator for strategy. A zero seed derives one from the clock.
func New(strategy buddha.Strategy, seed uint64) Generator {
	if strategy == buddha.PersistentBuffer {
		return NewBuffer(seed)
	}
	return NewResampler(seed)
}

func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func fill(rng *rand.Rand, dst []complex128, domain plane.Region) {
	w, h := domain.Size()
	for i := range dst {
		dst[i] = complex(domain.XMin+rng.Float64()*w, domain.YMin+rng.Float64()*h)
	}
}

// Resampler draws fresh samples on every call.
type Resampler struct {
	mu  sync.Mutex
	rng *rand.Rand
	buf []complex128
}

// NewResampler returns a per-dispatch generator.
func NewResampler(seed uint64) *Resampler {
	return &Resampler{rng: newRand(seed)}
}

// NextSeeds overwrites and returns the generator's internal slice; the result is
// only valid until the next call.
func (r *Resampler) NextSeeds(count int, domain plane.Region) []complex128 {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cap(r.buf) < count {
		r.buf = make([]complex128, count)
	}
	r.buf = r.buf[:count]
	fill(r.rng, r.buf, domain)
	return r.buf
}

// Buffer draws its samples once and returns the same buffer on every call.
// A different count or domain, or an explicit Reset, draws a new buffer.
type Buffer struct {
	mu     sync.Mutex
	rng    *rand.Rand
	seeds  []complex128
	domain plane.Region
	valid  bool
}

// NewBuffer returns a persistent-buffer generator.
func NewBuffer(seed uint64) *Buffer {
	return &Buffer{rng: newRand(seed)}
}

func (b *Buffer) NextSeeds(count int, domain plane.Region) []complex128 {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.valid && len(b.seeds) == count && b.domain == domain {
		return b.seeds
	}

	b.seeds = make([]complex128, count)
	fill(b.rng, b.seeds, domain)
	b.domain = domain
	b.valid = true
	buddha.Logger().Debug("sample buffer drawn", "count", count)
	return b.seeds
}

// Reset discards the buffer; the next call draws a new one.
func (b *Buffer) Reset() {
	b.mu.Lock()
	b.valid = false
	b.mu.Unlock()
}

// Resetter is implemented by generators that keep state across passes.
type Resetter interface {
	Reset()
}
