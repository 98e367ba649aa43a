package gui

import (
	"context"
	"errors"
	"fmt"
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/buddhabrot/internal/analysis"
	"github.com/san-kum/buddhabrot/internal/buddha"
	"github.com/san-kum/buddhabrot/internal/compute"
	"github.com/san-kum/buddhabrot/internal/engine"
	"github.com/san-kum/buddhabrot/internal/histogram"
	"github.com/san-kum/buddhabrot/internal/plane"
	"github.com/san-kum/buddhabrot/internal/render"
	"github.com/san-kum/buddhabrot/internal/view"
)

var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColAccent  = rl.NewColor(180, 180, 180, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
)

const telemetryCapacity = 200

// Options configure a window session.
type Options struct {
	Title    string
	Settings engine.Settings
	Base     plane.Region
	Constant complex128
	View     view.Settings
	// Backend is "cpu", "gl" or "auto"; auto tries the GPU first.
	Backend string
	Workers int
	Tint    color.RGBA
	// Zoom is the starting zoom; zero means 1.
	Zoom float64
}

type App struct {
	opts    Options
	eng     *engine.Engine
	ctrl    *view.Controller
	backend string

	tex    rl.Texture2D
	pixels []color.RGBA

	running   bool
	last      engine.PassStats
	info      analysis.Stats
	telemetry []float64
	err       error
	failed    *engine.Params
}

func initWindow(w, h int, title string) {
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(w), int32(h), title)
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)
}

// Run opens the window and blocks until it is closed or quit is requested.
func Run(ctx context.Context, opts Options) error {
	if opts.Title == "" {
		opts.Title = "buddhabrot"
	}
	if opts.Tint == (color.RGBA{}) {
		opts.Tint = ColSelect
	}
	initWindow(opts.Settings.Width, opts.Settings.Height, opts.Title)
	defer rl.CloseWindow()

	app, err := NewApp(opts)
	if err != nil {
		return err
	}
	defer app.Close()
	return app.RunLoop(ctx)
}

// NewApp builds the engine on the current GL context. A GPU backend that
// fails to initialize is replaced by the CPU backend.
func NewApp(opts Options) (*App, error) {
	eng, err := newEngine(opts)
	if err != nil {
		return nil, err
	}
	ctrl, err := newController(opts)
	if err != nil {
		eng.Close()
		return nil, err
	}

	img := rl.GenImageColor(opts.Settings.Width, opts.Settings.Height, rl.Black)
	tex := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)

	return &App{
		opts:      opts,
		eng:       eng,
		ctrl:      ctrl,
		backend:   eng.Backend().Name(),
		tex:       tex,
		pixels:    make([]color.RGBA, opts.Settings.Width*opts.Settings.Height),
		running:   true,
		telemetry: make([]float64, 0, telemetryCapacity),
	}, nil
}

func newController(opts Options) (*view.Controller, error) {
	ctrl, err := view.NewController(opts.Base, opts.Constant, opts.Settings.Width, opts.Settings.Height, opts.View)
	if err != nil {
		return nil, err
	}
	if opts.Zoom != 0 {
		if err := ctrl.SetZoom(opts.Zoom); err != nil {
			return nil, err
		}
	}
	return ctrl, nil
}

func newEngine(opts Options) (*engine.Engine, error) {
	if opts.Backend == "gl" || opts.Backend == "opengl" || opts.Backend == "auto" {
		eng, err := engine.New(opts.Settings, compute.NewOpenGLBackend())
		if err == nil {
			return eng, nil
		}
		if !errors.Is(err, buddha.ErrResourceInit) {
			return nil, err
		}
		buddha.Logger().Warn("gpu backend unavailable, using cpu", "error", err)
	}
	return engine.New(opts.Settings, compute.NewCPUBackend(opts.Workers))
}

func (a *App) Close() {
	rl.UnloadTexture(a.tex)
	a.eng.Close()
}

func (a *App) RunLoop(ctx context.Context) error {
	for !rl.WindowShouldClose() && !a.ctrl.QuitRequested() && ctx.Err() == nil {
		a.Update(ctx)
		a.Draw()
	}
	return a.exitErr(ctx)
}

// exitErr is the error RunLoop reports: none after an interrupt, otherwise
// the error of a pass still on hold.
func (a *App) exitErr(ctx context.Context) error {
	if ctx.Err() != nil {
		return nil
	}
	return a.err
}

func (a *App) Update(ctx context.Context) {
	if rl.IsKeyPressed(rl.KeySpace) {
		a.running = !a.running
	}

	sx, sy := a.textureScale()
	for _, ev := range pollEvents(sx, sy) {
		a.ctrl.Handle(ev)
	}

	in := a.step(ctx)
	if in == nil {
		return
	}
	fillPixels(a.pixels, in, a.opts.Tint)
	rl.UpdateTexture(a.tex, a.pixels)
}

// step runs one pass and returns the new frame, or nil when paused, held or
// failed. A failed pass holds its parameters until the view or constant
// changes.
func (a *App) step(ctx context.Context) *render.Intensity {
	if !a.running {
		return nil
	}
	p := a.ctrl.Params()
	if a.failed != nil && *a.failed == p {
		return nil
	}

	stats, err := a.eng.Accumulate(ctx, p)
	if err == nil {
		var snap *histogram.Snapshot
		if snap, err = a.eng.Snapshot(); err == nil {
			a.err, a.failed = nil, nil
			a.last = stats
			a.info = analysis.Compute(snap)
			a.telemetry = append(a.telemetry, float64(a.info.Max))
			if len(a.telemetry) > telemetryCapacity {
				a.telemetry = a.telemetry[1:]
			}
			return render.Normalize(snap)
		}
	}

	a.err = fmt.Errorf("accumulate: %w", err)
	a.failed = &p
	buddha.Logger().Error("pass failed", "error", err)
	return nil
}

// textureScale converts window pixels to histogram pixels.
func (a *App) textureScale() (float32, float32) {
	return float32(a.opts.Settings.Width) / float32(rl.GetScreenWidth()),
		float32(a.opts.Settings.Height) / float32(rl.GetScreenHeight())
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	w, h := float32(a.opts.Settings.Width), float32(a.opts.Settings.Height)
	rl.DrawTexturePro(a.tex,
		rl.NewRectangle(0, 0, w, h),
		rl.NewRectangle(0, 0, float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight())),
		rl.NewVector2(0, 0), 0, rl.White)

	a.DrawHUD()
	rl.EndDrawing()
}

func (a *App) DrawHUD() {
	st := a.ctrl.State()
	r := a.ctrl.Region()

	drawText(a.opts.Title, 20, 20, 20, ColSelect)
	drawText(fmt.Sprintf("c = %.4f%+.4fi", real(st.Constant), imag(st.Constant)), 20, 48, 16, ColText)
	drawText(fmt.Sprintf("zoom %.3gx  [%.4g, %.4g] x [%.4g, %.4g]", st.Zoom, r.XMin, r.XMax, r.YMin, r.YMax), 20, 68, 14, ColText)
	drawText(fmt.Sprintf("pass %d  max %d  coverage %.1f%%  %s", a.last.Pass, a.info.Max, a.info.Coverage*100, a.backend), 20, 88, 14, ColText)

	status, col := "RUNNING", ColSelect
	if !a.running {
		status, col = "PAUSED", ColTextDim
	}
	if a.err != nil {
		status, col = a.err.Error(), rl.Red
	}
	drawText(status, 20, 108, 14, col)

	a.DrawTelemetry()

	sh := int(rl.GetScreenHeight())
	drawText("[ARROWS] CONSTANT  [SHIFT] PAN  [+/-/WHEEL] ZOOM  [DRAG] PAN  [0] RESET  [SPACE] PAUSE  [Q] QUIT", 20, sh-24, 12, ColTextDim)
	drawText(fmt.Sprintf("%d FPS", rl.GetFPS()), int(rl.GetScreenWidth())-70, 20, 14, ColTextDim)
}

// DrawTelemetry plots the peak count of recent passes.
func (a *App) DrawTelemetry() {
	points := telemetryPoints(a.telemetry, 20, float32(rl.GetScreenHeight())-100, 300, 50)
	if len(points) < 2 {
		return
	}
	rl.DrawLineStrip(points, ColAccent)
}

func drawText(text string, x, y int, size int, col color.RGBA) {
	rl.DrawText(text, int32(x), int32(y), int32(size), col)
}

// WithHiddenContext runs fn with the GL context of an invisible window so
// the GPU backend can serve one-shot renders.
func WithHiddenContext(fn func() error) error {
	rl.SetConfigFlags(rl.FlagWindowHidden)
	rl.InitWindow(1, 1, "buddhabrot")
	defer rl.CloseWindow()
	if !rl.IsWindowReady() {
		return buddha.NewResourceError("gl context", errors.New("window creation failed"))
	}
	return fn()
}
