package gui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/buddhabrot/internal/view"
)

type binding struct {
	keys []int32
	key  view.Key
}

var bindings = []binding{
	{[]int32{rl.KeyLeft}, view.KeyLeft},
	{[]int32{rl.KeyRight}, view.KeyRight},
	{[]int32{rl.KeyUp}, view.KeyUp},
	{[]int32{rl.KeyDown}, view.KeyDown},
	{[]int32{rl.KeyEqual, rl.KeyKpAdd}, view.KeyZoomIn},
	{[]int32{rl.KeyMinus, rl.KeyKpSubtract}, view.KeyZoomOut},
	{[]int32{rl.KeyZero, rl.KeyR}, view.KeyReset},
	{[]int32{rl.KeyQ, rl.KeyEscape}, view.KeyQuit},
}

// pollEvents reads this frame's input. Pointer positions are multiplied by
// (sx, sy) to land in histogram pixels.
func pollEvents(sx, sy float32) []view.Event {
	var events []view.Event

	var mods view.Mod
	if rl.IsKeyDown(rl.KeyLeftShift) || rl.IsKeyDown(rl.KeyRightShift) {
		mods |= view.ModPan
	}
	if rl.IsKeyDown(rl.KeyLeftControl) || rl.IsKeyDown(rl.KeyRightControl) {
		mods |= view.ModCtrl
	}

	for _, b := range bindings {
		for _, k := range b.keys {
			switch {
			case rl.IsKeyPressed(k):
				events = append(events, view.KeyEvent(b.key, view.Press, mods))
			case rl.IsKeyPressedRepeat(k):
				events = append(events, view.KeyEvent(b.key, view.Repeat, mods))
			}
		}
	}

	pos := rl.GetMousePosition()
	x, y := float64(pos.X*sx), float64(pos.Y*sy)
	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		events = append(events, view.ButtonEvent(view.ButtonLeft, view.Press, x, y))
	}
	if rl.IsMouseButtonReleased(rl.MouseButtonLeft) {
		events = append(events, view.ButtonEvent(view.ButtonLeft, view.Release, x, y))
	}
	if d := rl.GetMouseDelta(); d.X != 0 || d.Y != 0 {
		events = append(events, view.MoveEvent(x, y))
	}
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		events = append(events, scrollEvents(wheel, x, y)...)
	}
	return events
}

// scrollEvents splits a wheel movement into unit steps so that a fast flick
// zooms once per notch.
func scrollEvents(wheel float32, x, y float64) []view.Event {
	dir := 1.0
	if wheel < 0 {
		dir, wheel = -1, -wheel
	}
	n := max(1, int(wheel+0.5))
	events := make([]view.Event, n)
	for i := range events {
		events[i] = view.ScrollEvent(dir, x, y)
	}
	return events
}
