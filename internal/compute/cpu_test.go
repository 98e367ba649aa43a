package compute

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/san-kum/buddhabrot/internal/buddha"
	"github.com/san-kum/buddhabrot/internal/orbit"
	"github.com/san-kum/buddhabrot/internal/plane"
)

func classicJob(samples []complex128, policy buddha.Policy, fixed complex128, iters uint32) Job {
	return Job{
		Samples: samples,
		Region:  plane.Classic,
		Tracer: orbit.Tracer{
			MaxIterations: iters,
			EscapeRadius:  orbit.DefaultEscapeRadius,
			Policy:        policy,
			Mode:          buddha.RandomSeed,
			Fixed:         fixed,
		},
	}
}

func TestCPUBackend_SingleEscapingOrbit(t *testing.T) {
	b := NewCPUBackend(1)
	if err := b.Init(100, 100); err != nil {
		t.Fatal(err)
	}
	if err := b.Dispatch(context.Background(), classicJob([]complex128{0}, buddha.Escaping, 0.5, 100)); err != nil {
		t.Fatal(err)
	}

	s, err := b.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	if s.At(83, 50) != 1 || s.At(91, 50) != 1 {
		t.Errorf("counts at (83,50)=%d (91,50)=%d, want 1 and 1", s.At(83, 50), s.At(91, 50))
	}
	if s.Total() != 2 {
		t.Errorf("Total() = %d, want 2 (later iterates fall outside)", s.Total())
	}
	if b.Retained() != 1 {
		t.Errorf("Retained() = %d, want 1", b.Retained())
	}
}

func TestCPUBackend_PolicyFiltersOrbit(t *testing.T) {
	b := NewCPUBackend(1)
	_ = b.Init(100, 100)

	// c = 0.5 escapes, so the non-escaping policy drops it.
	_ = b.Dispatch(context.Background(), classicJob([]complex128{0}, buddha.NonEscaping, 0.5, 100))
	s, _ := b.Snapshot()
	if s.Total() != 0 {
		t.Fatalf("escaping orbit retained by non-escaping policy: total %d", s.Total())
	}

	// c = -1 cycles between -1 and 0.
	_ = b.Dispatch(context.Background(), classicJob([]complex128{0}, buddha.NonEscaping, -1, 10))
	s, _ = b.Snapshot()
	if s.At(33, 50) != 5 || s.At(66, 50) != 5 {
		t.Errorf("counts at (33,50)=%d (66,50)=%d, want 5 and 5", s.At(33, 50), s.At(66, 50))
	}
}

func TestCPUBackend_WorkerCountDoesNotChangeResult(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	samples := make([]complex128, 20000)
	for i := range samples {
		samples[i] = complex(rng.Float64()*3-2, rng.Float64()*3-1.5)
	}

	// Random-constant mode traces the Mandelbrot orbits themselves.
	job := classicJob(samples, buddha.Escaping, 0, 200)
	job.Tracer.Mode = buddha.RandomConstant

	seq := NewCPUBackend(1)
	par := NewCPUBackend(8)
	for _, b := range []*CPUBackend{seq, par} {
		if err := b.Init(64, 64); err != nil {
			t.Fatal(err)
		}
		if err := b.Dispatch(context.Background(), job); err != nil {
			t.Fatal(err)
		}
	}

	a, _ := seq.Snapshot()
	c, _ := par.Snapshot()
	if !a.Equal(c) {
		t.Error("parallel histogram differs from sequential histogram")
	}
	if seq.Retained() != par.Retained() {
		t.Errorf("retained %d vs %d", seq.Retained(), par.Retained())
	}
}

func TestCPUBackend_ClearAndProgressive(t *testing.T) {
	b := NewCPUBackend(2)
	_ = b.Init(100, 100)
	job := classicJob([]complex128{0}, buddha.Escaping, 0.5, 100)

	for i := 0; i < 3; i++ {
		_ = b.Dispatch(context.Background(), job)
	}
	s, _ := b.Snapshot()
	if s.At(83, 50) != 3 {
		t.Errorf("after 3 dispatches count = %d, want 3", s.At(83, 50))
	}

	if err := b.Clear(); err != nil {
		t.Fatal(err)
	}
	s, _ = b.Snapshot()
	if s.Total() != 0 {
		t.Errorf("Total() after Clear = %d", s.Total())
	}
}

func TestCPUBackend_Errors(t *testing.T) {
	b := NewCPUBackend(0)
	if b.Workers() <= 0 {
		t.Errorf("Workers() = %d", b.Workers())
	}
	if err := b.Dispatch(context.Background(), Job{}); err == nil {
		t.Error("dispatch before Init should fail")
	}
	if err := b.Init(0, 10); !errors.Is(err, buddha.ErrConfiguration) {
		t.Errorf("Init(0, 10) = %v, want configuration error", err)
	}

	_ = b.Init(10, 10)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := b.Dispatch(ctx, classicJob([]complex128{0}, buddha.Escaping, 0.5, 10)); !errors.Is(err, context.Canceled) {
		t.Errorf("Dispatch with cancelled context = %v", err)
	}
}

func TestNew(t *testing.T) {
	for _, name := range []string{"", "auto", "CPU"} {
		b, err := New(name, 2)
		if err != nil || b.Name() != "cpu" {
			t.Errorf("New(%q) = %v, %v", name, b, err)
		}
	}
	if b, err := New("gl", 0); err != nil || b.Name() != "gl" || b.Available() {
		t.Errorf("New(gl) = %v, %v", b, err)
	}
	if _, err := New("cuda", 0); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func BenchmarkCPUBackend_Dispatch(b *testing.B) {
	rng := rand.New(rand.NewPCG(3, 4))
	samples := make([]complex128, 10000)
	for i := range samples {
		samples[i] = complex(rng.Float64()*4-2, rng.Float64()*4-2)
	}
	job := classicJob(samples, buddha.Escaping, 0, 500)
	job.Tracer.Mode = buddha.RandomConstant

	be := NewCPUBackend(0)
	_ = be.Init(256, 256)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = be.Dispatch(context.Background(), job)
	}
}
