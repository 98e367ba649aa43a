package orbit

import (
	"math"
	"testing"

	"github.com/san-kum/buddhabrot/internal/buddha"
)

func TestTrace_EscapesForHalf(t *testing.T) {
	orbit, escaped := Trace(0, complex(0.5, 0), 1000, DefaultEscapeRadius, nil)
	if !escaped {
		t.Fatal("c=0.5 from z=0 must escape")
	}
	if len(orbit) != 5 {
		t.Fatalf("expected escape on iteration index 4 (5 iterates), got %d", len(orbit))
	}

	want := []float64{0.5, 0.75, 1.0625, 1.62890625}
	for i, w := range want {
		if math.Abs(real(orbit[i])-w) > 1e-12 || imag(orbit[i]) != 0 {
			t.Errorf("orbit[%d] = %v, want %v", i, orbit[i], w)
		}
	}
	if cmplxAbs(orbit[4]) <= 2 {
		t.Errorf("last iterate %v should be outside the escape radius", orbit[4])
	}
}

func TestTrace_BoundedOrbit(t *testing.T) {
	orbit, escaped := Trace(0, complex(-1, 0), 64, DefaultEscapeRadius, nil)
	if escaped {
		t.Fatal("c=-1 is a period-2 cycle and must not escape")
	}
	if len(orbit) != 64 {
		t.Errorf("bounded orbit should use the full budget, got %d", len(orbit))
	}
}

func TestTrace_ZeroBudget(t *testing.T) {
	orbit, escaped := Trace(complex(5, 5), 0, 0, DefaultEscapeRadius, nil)
	if escaped || len(orbit) != 0 {
		t.Errorf("zero budget: got len=%d escaped=%v", len(orbit), escaped)
	}
}

func TestTrace_ReusesBuffer(t *testing.T) {
	buf := make([]complex128, 0, 128)
	orbit, _ := Trace(0, complex(0.3, 0.5), 100, DefaultEscapeRadius, buf)
	if len(orbit) > 0 && &orbit[0] != &buf[:1][0] {
		t.Error("Trace should write into the provided buffer")
	}
}

func TestEscapes_MatchesTrace(t *testing.T) {
	for i := 0; i < 200; i++ {
		c := complex(-2+float64(i)*0.015, 0.3-float64(i%7)*0.1)
		orbit, escaped := Trace(0, c, 500, DefaultEscapeRadius, nil)
		e, n := Escapes(0, c, 500, DefaultEscapeRadius)
		if e != escaped || int(n) != len(orbit) {
			t.Fatalf("c=%v: Escapes=(%v,%d) Trace=(%v,%d)", c, e, n, escaped, len(orbit))
		}
	}
}

func TestEscapeMonotonicity(t *testing.T) {
	budgets := []uint32{10, 50, 100, 500, 2000}
	for i := 0; i < 300; i++ {
		c := complex(-2+float64(i)*0.0101, 0.65-float64(i%13)*0.1)
		escapedAt := uint32(0)
		for _, budget := range budgets {
			escaped, n := Escapes(0, c, budget, DefaultEscapeRadius)
			if escapedAt > 0 {
				if !escaped || n != escapedAt {
					t.Fatalf("c=%v escaped at %d but budget %d gives (%v, %d)", c, escapedAt, budget, escaped, n)
				}
				continue
			}
			if escaped {
				escapedAt = n
			}
		}
	}
}

func TestTracer_Policies(t *testing.T) {
	escaping := Tracer{MaxIterations: 100, EscapeRadius: 2, Policy: buddha.Escaping, Mode: buddha.RandomConstant}
	anti := escaping
	anti.Policy = buddha.NonEscaping

	outside, inside := complex(0.5, 0), complex(-1, 0)

	if _, ok := escaping.Retained(outside, nil); !ok {
		t.Error("escaping policy should keep c=0.5")
	}
	if _, ok := escaping.Retained(inside, nil); ok {
		t.Error("escaping policy should drop c=-1")
	}
	if _, ok := anti.Retained(inside, nil); !ok {
		t.Error("non-escaping policy should keep c=-1")
	}
	if _, ok := anti.Retained(outside, nil); ok {
		t.Error("non-escaping policy should drop c=0.5")
	}
}

func TestTracer_RandomSeedUsesFixedConstant(t *testing.T) {
	tr := Tracer{MaxIterations: 1000, EscapeRadius: 2, Policy: buddha.Escaping, Mode: buddha.RandomSeed, Fixed: complex(0.5, 0)}
	orbit, ok := tr.Retained(0, nil)
	if !ok || len(orbit) != 5 {
		t.Fatalf("expected the c=0.5 orbit, got len=%d ok=%v", len(orbit), ok)
	}
}

func cmplxAbs(z complex128) float64 {
	return math.Hypot(real(z), imag(z))
}

func BenchmarkTrace(b *testing.B) {
	buf := make([]complex128, 0, 1000)
	c := complex(-0.75, 0.1)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf, _ = Trace(0, c, 1000, DefaultEscapeRadius, buf)
	}
}

func BenchmarkEscapes(b *testing.B) {
	c := complex(-0.75, 0.1)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Escapes(0, c, 1000, DefaultEscapeRadius)
	}
}

func TestBufferPool(t *testing.T) {
	var p BufferPool

	buf := p.Get(16)
	if len(buf) != 0 || cap(buf) < 16 {
		t.Fatalf("Get(16) = len %d cap %d", len(buf), cap(buf))
	}
	buf, _ = Trace(0, complex(0.5, 0), 16, DefaultEscapeRadius, buf)
	p.Put(buf)

	again := p.Get(32)
	if len(again) != 0 || cap(again) < 32 {
		t.Errorf("Get(32) = len %d cap %d", len(again), cap(again))
	}
	p.Put(nil)
}
