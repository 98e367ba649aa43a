package viz

import (
	"context"
	"errors"
	"image/color"
	"image/gif"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/buddhabrot/internal/buddha"
	"github.com/san-kum/buddhabrot/internal/compute"
	"github.com/san-kum/buddhabrot/internal/engine"
	"github.com/san-kum/buddhabrot/internal/plane"
	"github.com/san-kum/buddhabrot/internal/render"
	"github.com/san-kum/buddhabrot/internal/view"
)

func TestCanvas_SetAndUnset(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)
	if c.Grid[0][0] != 0x2801 || c.Grid[0][1] != 0x2880 {
		t.Errorf("unexpected runes %U %U", c.Grid[0][0], c.Grid[0][1])
	}
	c.Unset(0, 0)
	if c.Grid[0][0] != 0x2800 {
		t.Errorf("Unset left %U", c.Grid[0][0])
	}
	c.Set(-1, 0)
	c.Set(10, 0)
}

func TestCanvas_PlotFlipsRows(t *testing.T) {
	c := NewCanvas(1, 1)
	in := &render.Intensity{Width: 2, Height: 4, Pix: make([]uint8, 8)}
	in.Pix[0] = 255 // (0, 0): bottom-left of the plane

	c.Plot(in)
	// Bottom-left dot of a braille cell is 0x40.
	if c.Grid[0][0] != 0x2800+0x40 {
		t.Errorf("Plot drew %U, want bottom-left dot", c.Grid[0][0])
	}

	c.Plot(nil)
	if c.Grid[0][0] != 0x2800 {
		t.Error("Plot(nil) should clear")
	}
}

func TestCanvas_Line(t *testing.T) {
	c := NewCanvas(4, 2)
	c.Line(0, 0, 7, 7)
	for i := 0; i < 8; i++ {
		if !c.Dot(i, i) {
			t.Errorf("diagonal dot (%d, %d) not set", i, i)
		}
	}
	if c.Dot(7, 0) {
		t.Error("dot off the segment set")
	}

	c.Clear()
	c.Line(3, 5, 3, 5)
	if !c.Dot(3, 5) {
		t.Error("zero-length line should set its point")
	}
}

func TestCanvas_Crosshair(t *testing.T) {
	c := NewCanvas(8, 4)
	c.Crosshair(8, 8, 4)

	for _, p := range [][2]int{{4, 8}, {6, 8}, {10, 8}, {12, 8}, {8, 4}, {8, 6}, {8, 10}, {8, 12}} {
		if !c.Dot(p[0], p[1]) {
			t.Errorf("arm dot %v not set", p)
		}
	}
	for _, p := range [][2]int{{8, 8}, {7, 8}, {9, 8}, {8, 7}, {8, 9}} {
		if c.Dot(p[0], p[1]) {
			t.Errorf("gap dot %v set", p)
		}
	}
}

func TestModel_CrosshairToggle(t *testing.T) {
	m := newTestModel(t)
	w, h := m.canvas.DotSize()

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	m = next.(Model)
	if !m.crosshair || !m.canvas.Dot(w/2-2, h/2) {
		t.Fatal("x should draw the centre marker")
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	m = next.(Model)
	if m.crosshair || m.canvas.Dot(w/2-2, h/2) {
		t.Error("second x should remove the marker")
	}
}

func TestCanvas_Image(t *testing.T) {
	c := NewCanvas(1, 1)
	c.Set(1, 0)
	img := c.Image(2, ThemeMono.Palette())
	if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 8 {
		t.Fatalf("bounds %v", img.Bounds())
	}
	if img.ColorIndexAt(2, 0) != 1 || img.ColorIndexAt(0, 0) != 0 {
		t.Error("dot not rasterized at (1, 0)")
	}
}

func TestRecorder_Save(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rec.gif")

	r := NewRecorder()
	if err := r.Save(path); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("empty recording wrote a file")
	}

	c := NewCanvas(2, 1)
	r.Add(c, ThemeMono)
	c.Set(1, 2)
	r.Add(c, ThemeMono)
	if r.Len() != 2 {
		t.Fatalf("Len = %d", r.Len())
	}
	if err := r.Save(path); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	anim, err := gif.DecodeAll(f)
	if err != nil {
		t.Fatal(err)
	}
	if len(anim.Image) != 2 {
		t.Errorf("decoded %d frames, want 2", len(anim.Image))
	}
}

func TestKeyEvent(t *testing.T) {
	tests := []struct {
		msg  tea.KeyMsg
		key  view.Key
		mods view.Mod
	}{
		{tea.KeyMsg{Type: tea.KeyLeft}, view.KeyLeft, 0},
		{tea.KeyMsg{Type: tea.KeyShiftUp}, view.KeyUp, view.ModPan},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'+'}}, view.KeyZoomIn, 0},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'-'}}, view.KeyZoomOut, 0},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'0'}}, view.KeyReset, 0},
		{tea.KeyMsg{Type: tea.KeyCtrlC}, view.KeyQuit, 0},
	}
	for _, tt := range tests {
		ev, ok := KeyEvent(tt.msg)
		if !ok {
			t.Errorf("%q not mapped", tt.msg.String())
			continue
		}
		if ev.Kind != view.KindKey || ev.Key != tt.key || ev.Mods != tt.mods || ev.Action != view.Press {
			t.Errorf("%q -> %+v", tt.msg.String(), ev)
		}
	}
	if _, ok := KeyEvent(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}}); ok {
		t.Error("unbound key mapped")
	}
}

func TestMouseEvent(t *testing.T) {
	ev, ok := MouseEvent(tea.MouseMsg{X: 3, Y: 2, Button: tea.MouseButtonWheelUp, Action: tea.MouseActionPress}, 1, 0)
	if !ok || ev.Kind != view.KindScroll || ev.Scroll != 1 {
		t.Fatalf("wheel up -> %+v", ev)
	}
	if ev.X != 5 || ev.Y != 10 {
		t.Errorf("dot position (%v, %v), want (5, 10)", ev.X, ev.Y)
	}

	ev, _ = MouseEvent(tea.MouseMsg{X: 1, Y: 0, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress}, 1, 0)
	if ev.Kind != view.KindButton || ev.Action != view.Press {
		t.Errorf("left press -> %+v", ev)
	}
	ev, _ = MouseEvent(tea.MouseMsg{X: 4, Y: 4, Action: tea.MouseActionMotion}, 1, 0)
	if ev.Kind != view.KindMove {
		t.Errorf("motion -> %+v", ev)
	}
	if _, ok := MouseEvent(tea.MouseMsg{Button: tea.MouseButtonRight, Action: tea.MouseActionPress}, 0, 0); ok {
		t.Error("right press should be ignored")
	}
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	s := engine.Settings{
		Width: 40, Height: 40, SampleCount: 300, MaxIterations: 50, EscapeRadius: 2,
		Policy: buddha.Escaping, Mode: buddha.RandomConstant,
		Strategy: buddha.PerDispatch, Accumulation: buddha.Progressive, Seed: 7,
	}
	eng, err := engine.New(s, compute.NewCPUBackend(2))
	if err != nil {
		t.Fatal(err)
	}
	ctrl, err := view.NewController(plane.Classic, 0, s.Width, s.Height, view.DefaultSettings())
	if err != nil {
		t.Fatal(err)
	}
	return NewModel(context.Background(), "test", eng, ctrl)
}

func TestModel_PassUpdatesFrame(t *testing.T) {
	m := newTestModel(t)

	next, cmd := m.Update(tickMsg{})
	m = next.(Model)
	if !m.busy || cmd == nil {
		t.Fatal("tick should start a pass")
	}

	next, _ = m.Update(cmd())
	m = next.(Model)
	if m.busy || m.frame == nil {
		t.Fatal("pass result not applied")
	}
	if m.last.Pass != 1 || m.info.Total == 0 {
		t.Errorf("unexpected pass stats %+v, %+v", m.last, m.info)
	}
	if !strings.Contains(m.View(), "Max count") {
		t.Error("view missing stats panel")
	}
}

func TestModel_KeysDriveController(t *testing.T) {
	m := newTestModel(t)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m = next.(Model)
	if got := real(m.Controller().Constant()); got < 0.0099 || got > 0.0101 {
		t.Errorf("constant real = %v, want 0.01", got)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{' '}})
	m = next.(Model)
	if m.running {
		t.Error("space should pause")
	}
	next, cmd := m.Update(tickMsg{})
	m = next.(Model)
	if m.busy || cmd == nil {
		t.Error("paused model should only reschedule")
	}

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("quit should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestModel_RecoversAfterFailedPass(t *testing.T) {
	m := newTestModel(t)
	boom := errors.New("dispatch failed")

	next, cmd := m.Update(passMsg{params: m.ctrl.Params(), err: boom})
	m = next.(Model)
	if cmd == nil || !errors.Is(m.Err(), boom) {
		t.Fatalf("failed pass: err %v, cmd nil %v", m.Err(), cmd == nil)
	}

	// Same parameters: hold, but keep ticking.
	next, cmd = m.Update(tickMsg{})
	m = next.(Model)
	if m.busy || cmd == nil {
		t.Fatal("failed parameters should be held without stopping the loop")
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'0'}})
	m = next.(Model)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m = next.(Model)

	next, cmd = m.Update(tickMsg{})
	m = next.(Model)
	if !m.busy || cmd == nil {
		t.Fatal("changed parameters should start a pass")
	}
	next, _ = m.Update(cmd())
	m = next.(Model)
	if m.Err() != nil || m.frame == nil || !m.running {
		t.Errorf("after recovery: err %v, frame %v, running %v", m.Err(), m.frame != nil, m.running)
	}
}

func TestModel_ZoomKeysKeepRegionValid(t *testing.T) {
	m := newTestModel(t)
	for i := 0; i < 300; i++ {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'+'}})
		m = next.(Model)
	}
	if err := m.ctrl.Region().Validate(); err != nil {
		t.Fatalf("region after zooming: %v", err)
	}

	next, cmd := m.Update(tickMsg{})
	m = next.(Model)
	next, cmd = m.Update(cmd())
	m = next.(Model)
	if m.Err() != nil || cmd == nil {
		t.Errorf("deep zoom pass: err %v, cmd nil %v", m.Err(), cmd == nil)
	}
}

func TestModel_Resize(t *testing.T) {
	m := newTestModel(t)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = next.(Model)

	wantCols, wantRows := 100-panelWidth-4, 29
	if m.cols != wantCols || m.rows != wantRows {
		t.Fatalf("canvas %dx%d, want %dx%d", m.cols, m.rows, wantCols, wantRows)
	}
	s := m.eng.Settings()
	if s.Width != wantCols*2 || s.Height != wantRows*4 {
		t.Errorf("engine %dx%d", s.Width, s.Height)
	}
}

func TestMenu_LaunchesExplorer(t *testing.T) {
	var picked string
	menu := NewMenu([]MenuItem{{Name: "a"}, {Name: "b"}}, func(name string) (Model, error) {
		picked = name
		return newTestModel(t), nil
	})

	next, _ := menu.Update(tea.KeyMsg{Type: tea.KeyDown})
	next, cmd := next.Update(tea.KeyMsg{Type: tea.KeyEnter})
	menu = next.(Menu)
	if picked != "b" || menu.explorer == nil || cmd == nil {
		t.Fatalf("picked %q, explorer %v", picked, menu.explorer)
	}
	if !strings.Contains(menu.View(), "ACCUMULATING") {
		t.Error("menu should render the explorer once launched")
	}
}

func TestSparklineChart(t *testing.T) {
	if got := SparklineChart([]float64{0, 1}, 10); got != "▁█" {
		t.Errorf("SparklineChart = %q", got)
	}
	if got := SparklineChart(nil, 3); got != "───" {
		t.Errorf("empty chart = %q", got)
	}
}

func TestThemes(t *testing.T) {
	defer func(prev Theme) { CurrentTheme = prev }(CurrentTheme)

	if err := SetTheme("ember"); err != nil || CurrentTheme.Name != "ember" {
		t.Fatalf("SetTheme(ember): %v, current %s", err, CurrentTheme.Name)
	}
	if err := SetTheme("sepia"); !errors.Is(err, buddha.ErrConfiguration) {
		t.Errorf("SetTheme(sepia) = %v", err)
	}

	seen := map[string]bool{}
	for range Themes {
		seen[NextTheme().Name] = true
	}
	if len(seen) != len(Themes) || CurrentTheme.Name != "ember" {
		t.Errorf("NextTheme visited %v, ended on %s", seen, CurrentTheme.Name)
	}

	p := ThemeMono.Palette()
	if p[0] != (color.RGBA{A: 255}) || p[1] != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("mono palette = %v", p)
	}
}
