package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/buddhabrot/internal/viz"
)

func TestCanvasToSVG(t *testing.T) {
	if CanvasToSVG(nil, 2, "#fff") != "" {
		t.Error("nil canvas should give empty output")
	}

	c := viz.NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)

	svg := CanvasToSVG(c, 2, "#ff00ff")
	if n := strings.Count(svg, "<circle"); n != 2 {
		t.Errorf("got %d circles, want 2", n)
	}
	if !strings.Contains(svg, `width="8" height="8"`) {
		t.Errorf("unexpected size in %q", svg[:200])
	}
	if !strings.Contains(svg, `cx="1.0" cy="1.0"`) || !strings.Contains(svg, `cx="7.0" cy="7.0"`) {
		t.Error("dots not placed at their centres")
	}
	if !strings.Contains(svg, `fill="#ff00ff"`) {
		t.Error("fill colour missing")
	}
}

func TestChartToSVG(t *testing.T) {
	if ChartToSVG([]float64{1}, 100, 100, "#fff") != "" {
		t.Error("single value should give empty output")
	}

	svg := ChartToSVG([]float64{0, 10}, 100, 200, "#00ff00")
	if !strings.Contains(svg, `points="5.0,190.0 95.0,10.0"`) {
		t.Errorf("unexpected polyline in %s", svg)
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chart.svg")
	svg := ChartToSVG([]float64{3, 1, 2}, 50, 50, "#fff")
	if err := WriteFile(path, svg); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != svg {
		t.Error("file content differs")
	}
}
