// Package view owns the interactive viewport and map-constant state.
//
// A [Controller] turns discrete input events into pan, zoom and constant
// changes. The active plane region is derived from the state on every call
// to [Controller.Region]; nothing is cached between passes.
package view

import (
	"fmt"
	"math"

	"github.com/san-kum/buddhabrot/internal/buddha"
	"github.com/san-kum/buddhabrot/internal/engine"
	"github.com/san-kum/buddhabrot/internal/plane"
)

// Defaults for Settings.
const (
	DefaultConstantStep = 0.01
	DefaultPanStep      = 0.1
	DefaultZoomFactor   = 1.2
	MinZoom             = 0.1
	MaxZoom             = 1e12
)

// Settings tune the step sizes of a Controller.
type Settings struct {
	ConstantStep float64
	PanStep      float64
	ZoomFactor   float64
	MinZoom      float64
	MaxZoom      float64
}

// DefaultSettings returns the interactive explorer defaults.
func DefaultSettings() Settings {
	return Settings{
		ConstantStep: DefaultConstantStep,
		PanStep:      DefaultPanStep,
		ZoomFactor:   DefaultZoomFactor,
		MinZoom:      MinZoom,
		MaxZoom:      MaxZoom,
	}
}

// Point is a screen position.
type Point struct {
	X, Y float64
}

// State is the mutable view. CenterX/CenterY are the pan offset from the
// centre of the base region.
type State struct {
	CenterX  float64
	CenterY  float64
	Zoom     float64
	Constant complex128
	Dragging bool
	LastDrag Point
}

// Controller applies input events to a State.
type Controller struct {
	state    State
	settings Settings

	baseX, baseY  float64
	baseW, baseH  float64
	screenW       int
	screenH       int
	quitRequested bool
}

// NewController starts at zoom 1 over base with the given map constant.
// screenW×screenH is the size of the display receiving pointer events.
func NewController(base plane.Region, constant complex128, screenW, screenH int, s Settings) (*Controller, error) {
	if err := base.Validate(); err != nil {
		return nil, err
	}
	if screenW <= 0 || screenH <= 0 {
		return nil, buddha.NewConfigError("screen", [2]int{screenW, screenH}, "dimensions must be positive")
	}
	if s.MinZoom <= 0 {
		s.MinZoom = MinZoom
	}
	if s.MaxZoom <= s.MinZoom {
		s.MaxZoom = MaxZoom
	}
	if s.ZoomFactor <= 1 {
		return nil, buddha.NewConfigError("view.zoom_factor", s.ZoomFactor, "must be greater than 1")
	}

	c := &Controller{
		settings: s,
		screenW:  screenW,
		screenH:  screenH,
		state:    State{Zoom: 1, Constant: constant},
	}
	c.baseX, c.baseY = base.Center()
	c.baseW, c.baseH = base.Size()
	return c, nil
}

// State returns a copy of the current state.
func (c *Controller) State() State { return c.state }

// SetZoom sets the zoom level, rejecting values outside [MinZoom, MaxZoom].
func (c *Controller) SetZoom(z float64) error {
	if math.IsNaN(z) || z < c.settings.MinZoom || z > c.settings.MaxZoom {
		return buddha.NewConfigError("view.zoom", z,
			fmt.Sprintf("must be within [%g, %g]", c.settings.MinZoom, c.settings.MaxZoom))
	}
	prev := c.state
	c.state.Zoom = z
	if !c.commit(prev) {
		return buddha.NewConfigError("view.zoom", z, "region collapses at this zoom")
	}
	return nil
}

// SetConstant replaces the map constant.
func (c *Controller) SetConstant(v complex128) { c.state.Constant = v }

// Resize updates the display size used to interpret pointer positions.
func (c *Controller) Resize(w, h int) {
	if w > 0 && h > 0 {
		c.screenW, c.screenH = w, h
	}
}

// QuitRequested reports whether a quit event has been received.
func (c *Controller) QuitRequested() bool { return c.quitRequested }

// Region recomputes the visible region from the current centre and zoom.
func (c *Controller) Region() plane.Region {
	return plane.FromCenter(
		c.baseX+c.state.CenterX,
		c.baseY+c.state.CenterY,
		c.baseW/c.state.Zoom,
		c.baseH/c.state.Zoom,
	)
}

// Constant returns the current map constant.
func (c *Controller) Constant() complex128 { return c.state.Constant }

// Params returns the pass parameters for the current state.
func (c *Controller) Params() engine.Params {
	return engine.Params{Region: c.Region(), Constant: c.state.Constant}
}

// Handle applies ev and reports whether the region or constant changed.
func (c *Controller) Handle(ev Event) bool {
	switch ev.Kind {
	case KindKey:
		return c.handleKey(ev)
	case KindButton:
		return c.handleButton(ev)
	case KindMove:
		return c.handleMove(ev)
	case KindScroll:
		return c.handleScroll(ev)
	}
	return false
}

func (c *Controller) handleKey(ev Event) bool {
	if ev.Action == Release {
		return false
	}

	pan := ev.Mods&ModPan != 0
	switch ev.Key {
	case KeyLeft:
		return c.nudge(-1, 0, pan)
	case KeyRight:
		return c.nudge(1, 0, pan)
	case KeyUp:
		return c.nudge(0, 1, pan)
	case KeyDown:
		return c.nudge(0, -1, pan)
	case KeyZoomIn:
		return c.setZoomClamped(c.state.Zoom * c.settings.ZoomFactor)
	case KeyZoomOut:
		return c.setZoomClamped(c.state.Zoom / c.settings.ZoomFactor)
	case KeyReset:
		if ev.Action != Press {
			return false
		}
		changed := c.state.CenterX != 0 || c.state.CenterY != 0 || c.state.Zoom != 1
		c.state.CenterX, c.state.CenterY, c.state.Zoom = 0, 0, 1
		return changed
	case KeyQuit:
		c.quitRequested = true
	}
	return false
}

// commit keeps the current state if its region is valid and otherwise
// restores prev. Regions collapse once the span drops below the float
// spacing at the centre.
func (c *Controller) commit(prev State) bool {
	if err := c.Region().Validate(); err != nil {
		c.state = prev
		return false
	}
	return true
}

func (c *Controller) nudge(dx, dy float64, pan bool) bool {
	if pan {
		prev := c.state
		step := c.settings.PanStep / c.state.Zoom
		c.state.CenterX += dx * step
		c.state.CenterY += dy * step
		return c.commit(prev)
	}
	step := c.settings.ConstantStep
	c.state.Constant += complex(dx*step, dy*step)
	return true
}

func (c *Controller) setZoomClamped(z float64) bool {
	z = min(max(z, c.settings.MinZoom), c.settings.MaxZoom)
	if z == c.state.Zoom {
		return false
	}
	prev := c.state
	c.state.Zoom = z
	return c.commit(prev)
}

func (c *Controller) handleButton(ev Event) bool {
	if ev.Button != ButtonLeft {
		return false
	}
	switch ev.Action {
	case Press:
		c.state.Dragging = true
		c.state.LastDrag = Point{ev.X, ev.Y}
	case Release:
		c.state.Dragging = false
	}
	return false
}

func (c *Controller) handleMove(ev Event) bool {
	if !c.state.Dragging {
		return false
	}

	dx := ev.X - c.state.LastDrag.X
	dy := ev.Y - c.state.LastDrag.Y
	c.state.LastDrag = Point{ev.X, ev.Y}
	if dx == 0 && dy == 0 {
		return false
	}

	prev := c.state
	w, h := c.Region().Size()
	c.state.CenterX -= dx * w / float64(c.screenW)
	c.state.CenterY += dy * h / float64(c.screenH)
	return c.commit(prev)
}

func (c *Controller) handleScroll(ev Event) bool {
	if ev.Scroll == 0 {
		return false
	}

	prev := c.state
	px, py := plane.ScreenToPlane(ev.X, ev.Y, c.Region(), c.screenW, c.screenH)

	zoom := c.state.Zoom
	if ev.Scroll > 0 {
		zoom *= c.settings.ZoomFactor
	} else {
		zoom /= c.settings.ZoomFactor
	}
	if !c.setZoomClamped(zoom) {
		return false
	}

	// Re-solve the centre so (px, py) stays under the pointer.
	w := c.baseW / c.state.Zoom
	h := c.baseH / c.state.Zoom
	cx := px - (ev.X/float64(c.screenW)-0.5)*w
	cy := py + (ev.Y/float64(c.screenH)-0.5)*h
	c.state.CenterX = cx - c.baseX
	c.state.CenterY = cy - c.baseY
	return c.commit(prev)
}
