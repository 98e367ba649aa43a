package view

// Kind classifies an input event.
type Kind int

const (
	KindKey Kind = iota
	KindButton
	KindMove
	KindScroll
)

// Action is the phase of a key or button event.
type Action int

const (
	Press Action = iota
	Release
	Repeat
)

// Mod is a bit set of held modifiers.
type Mod uint8

const (
	// ModPan turns directional nudges into pans (shift on every front end).
	ModPan Mod = 1 << iota
	ModCtrl
)

// Key identifies the logical keys the controller understands.
type Key int

const (
	KeyNone Key = iota
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyZoomIn
	KeyZoomOut
	KeyReset
	KeyQuit
)

// Button identifies a pointer button.
type Button int

const (
	ButtonLeft Button = iota
	ButtonRight
)

// Event is one discrete input from a front end. X and Y are screen pixels
// with Y growing downward. Scroll is positive for zoom-in.
type Event struct {
	Kind   Kind    `json:"kind"`
	Key    Key     `json:"key,omitempty"`
	Button Button  `json:"button,omitempty"`
	Action Action  `json:"action,omitempty"`
	Mods   Mod     `json:"mods,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	Scroll float64 `json:"scroll,omitempty"`
}

// KeyEvent is shorthand for a key event.
func KeyEvent(k Key, a Action, mods Mod) Event {
	return Event{Kind: KindKey, Key: k, Action: a, Mods: mods}
}

// ButtonEvent is shorthand for a pointer button event at (x, y).
func ButtonEvent(b Button, a Action, x, y float64) Event {
	return Event{Kind: KindButton, Button: b, Action: a, X: x, Y: y}
}

// MoveEvent is shorthand for a pointer move to (x, y).
func MoveEvent(x, y float64) Event {
	return Event{Kind: KindMove, X: x, Y: y}
}

// ScrollEvent is shorthand for a wheel step at (x, y).
func ScrollEvent(delta, x, y float64) Event {
	return Event{Kind: KindScroll, Scroll: delta, X: x, Y: y}
}
