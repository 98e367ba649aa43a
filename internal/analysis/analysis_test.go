package analysis

import (
	"math"
	"strings"
	"testing"

	"github.com/san-kum/buddhabrot/internal/histogram"
	"github.com/san-kum/buddhabrot/internal/render"
)

func snapshot(w, h int, counts ...uint32) *histogram.Snapshot {
	s := &histogram.Snapshot{Width: w, Height: h, Counts: make([]uint32, w*h)}
	copy(s.Counts, counts)
	return s
}

func TestCompute(t *testing.T) {
	st := Compute(snapshot(2, 2, 0, 4, 4, 0))

	if st.Total != 8 || st.Max != 4 || st.NonZero != 2 {
		t.Errorf("unexpected stats: %+v", st)
	}
	if st.Coverage != 0.5 {
		t.Errorf("coverage = %v, want 0.5", st.Coverage)
	}
	if st.Mean != 4 {
		t.Errorf("mean = %v, want 4", st.Mean)
	}
	if math.Abs(st.Entropy-1) > 1e-12 {
		t.Errorf("entropy = %v, want 1 bit", st.Entropy)
	}
}

func TestCompute_Empty(t *testing.T) {
	st := Compute(snapshot(3, 3))
	if st.Total != 0 || st.Coverage != 0 || st.Mean != 0 || st.Entropy != 0 {
		t.Errorf("empty histogram stats: %+v", st)
	}
	if len(st.Map()) != 6 {
		t.Errorf("Map() has %d keys", len(st.Map()))
	}
}

func TestProfiles(t *testing.T) {
	s := snapshot(3, 2,
		1, 0, 2,
		0, 5, 0,
	)
	cols := ColumnProfile(s)
	if cols[0] != 1 || cols[1] != 5 || cols[2] != 2 {
		t.Errorf("ColumnProfile = %v", cols)
	}
	rows := RowProfile(s)
	if rows[0] != 3 || rows[1] != 5 {
		t.Errorf("RowProfile = %v", rows)
	}
}

func TestDownsample(t *testing.T) {
	got := Downsample([]float64{1, 3, 5, 7}, 2)
	if len(got) != 2 || got[0] != 2 || got[1] != 6 {
		t.Errorf("Downsample = %v", got)
	}
	short := []float64{1, 2}
	if got := Downsample(short, 5); len(got) != 2 {
		t.Errorf("short input changed: %v", got)
	}
}

func TestLevelDistribution(t *testing.T) {
	in := render.Normalize(snapshot(2, 2, 0, 1, 1, 9))
	dist := LevelDistribution(in)
	if len(dist) != 255 {
		t.Fatalf("len = %d", len(dist))
	}
	if dist[254] != 1 {
		t.Errorf("cells at 255 = %v, want 1", dist[254])
	}
	sum := 0.0
	for _, v := range dist {
		sum += v
	}
	if sum != 3 {
		t.Errorf("non-zero cells = %v, want 3", sum)
	}
}

func TestConvergence(t *testing.T) {
	a := &render.Intensity{Width: 2, Height: 1, Pix: []uint8{0, 255}}
	b := &render.Intensity{Width: 2, Height: 1, Pix: []uint8{255, 255}}

	if got := Convergence(a, a); got != 0 {
		t.Errorf("identical frames = %v", got)
	}
	if got := Convergence(a, b); got != 0.5 {
		t.Errorf("Convergence = %v, want 0.5", got)
	}
	if !math.IsNaN(Convergence(a, nil)) {
		t.Error("nil frame should give NaN")
	}
}

func TestASCII(t *testing.T) {
	// Bright cell at row 0 (bottom of the plane).
	in := &render.Intensity{Width: 2, Height: 2, Pix: []uint8{255, 0, 0, 0}}
	out := ASCII(in, 2, 2)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines", len(lines))
	}
	if lines[1] != "@ " || lines[0] != "  " {
		t.Errorf("unexpected art:\n%s", out)
	}
	if ASCII(nil, 4, 4) != "" {
		t.Error("nil intensity should render empty")
	}
}
