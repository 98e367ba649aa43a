// Package viz is the terminal front end of the explorer.
//
// A [Model] runs accumulation passes in the background and draws each
// normalized frame on a braille [Canvas] with ordered dithering, so every
// terminal cell shows a 2x4 block of histogram cells. [Menu] picks a preset
// before handing over to the explorer.
//
// # Key Bindings
//
//	Arrows       - Nudge the map constant by 0.01
//	Shift+Arrow  - Pan by 0.1/zoom
//	+ / -        - Zoom in / out
//	Wheel, drag  - Zoom to cursor, pan
//	0            - Reset the view
//	Space        - Pause / resume accumulation
//	T            - Cycle color themes
//	G            - Toggle GIF recording
//
// # Recording
//
// G records every drawn frame; pressing it again writes buddhabrot.gif to the
// current directory.
package viz
