package viz

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/buddhabrot/internal/view"
)

var keyMap = map[string]struct {
	key  view.Key
	mods view.Mod
}{
	"left":        {view.KeyLeft, 0},
	"right":       {view.KeyRight, 0},
	"up":          {view.KeyUp, 0},
	"down":        {view.KeyDown, 0},
	"h":           {view.KeyLeft, 0},
	"l":           {view.KeyRight, 0},
	"k":           {view.KeyUp, 0},
	"j":           {view.KeyDown, 0},
	"shift+left":  {view.KeyLeft, view.ModPan},
	"shift+right": {view.KeyRight, view.ModPan},
	"shift+up":    {view.KeyUp, view.ModPan},
	"shift+down":  {view.KeyDown, view.ModPan},
	"H":           {view.KeyLeft, view.ModPan},
	"L":           {view.KeyRight, view.ModPan},
	"K":           {view.KeyUp, view.ModPan},
	"J":           {view.KeyDown, view.ModPan},
	"+":           {view.KeyZoomIn, 0},
	"=":           {view.KeyZoomIn, 0},
	"-":           {view.KeyZoomOut, 0},
	"_":           {view.KeyZoomOut, 0},
	"0":           {view.KeyReset, 0},
	"q":           {view.KeyQuit, 0},
	"ctrl+c":      {view.KeyQuit, 0},
}

// KeyEvent translates a terminal key press. Terminals only report presses.
func KeyEvent(msg tea.KeyMsg) (view.Event, bool) {
	k, ok := keyMap[msg.String()]
	if !ok {
		return view.Event{}, false
	}
	return view.KeyEvent(k.key, view.Press, k.mods), true
}

// MouseEvent translates a mouse report into dot coordinates. originX and
// originY are the terminal cell of the canvas's top-left corner; positions
// land on the centre of the cell's 2x4 dot block.
func MouseEvent(msg tea.MouseMsg, originX, originY int) (view.Event, bool) {
	x := float64((msg.X-originX)*2) + 1
	y := float64((msg.Y-originY)*4) + 2

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		return view.ScrollEvent(1, x, y), true
	case tea.MouseButtonWheelDown:
		return view.ScrollEvent(-1, x, y), true
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			return view.ButtonEvent(view.ButtonLeft, view.Press, x, y), true
		}
	case tea.MouseActionRelease:
		return view.ButtonEvent(view.ButtonLeft, view.Release, x, y), true
	case tea.MouseActionMotion:
		return view.MoveEvent(x, y), true
	}
	return view.Event{}, false
}
