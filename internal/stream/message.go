package stream

import (
	"github.com/san-kum/buddhabrot/internal/engine"
	"github.com/san-kum/buddhabrot/internal/plane"
	"github.com/san-kum/buddhabrot/internal/view"
)

// Op names a client command.
type Op string

const (
	OpInput  Op = "input"
	OpPause  Op = "pause"
	OpResume Op = "resume"
	OpResize Op = "resize"
	OpReset  Op = "reset"
)

// Command is one client message.
type Command struct {
	Op     Op         `json:"op"`
	Event  view.Event `json:"event,omitempty"`
	Width  int        `json:"width,omitempty"`
	Height int        `json:"height,omitempty"`
}

// Status precedes every frame.
type Status struct {
	Pass       int          `json:"pass"`
	Total      int          `json:"total"`
	Max        uint32       `json:"max"`
	Width      int          `json:"width"`
	Height     int          `json:"height"`
	Zoom       float64      `json:"zoom"`
	ConstantRe float64      `json:"constant_re"`
	ConstantIm float64      `json:"constant_im"`
	Region     plane.Region `json:"region"`
	Paused     bool         `json:"paused"`
	Error      string       `json:"error,omitempty"`
}

func newStatus(st engine.PassStats, max uint32, s engine.Settings, ctrl *view.Controller, paused bool) Status {
	v := ctrl.State()
	return Status{
		Pass:       st.Pass,
		Total:      st.Total,
		Max:        max,
		Width:      s.Width,
		Height:     s.Height,
		Zoom:       v.Zoom,
		ConstantRe: real(v.Constant),
		ConstantIm: imag(v.Constant),
		Region:     ctrl.Region(),
		Paused:     paused,
	}
}
