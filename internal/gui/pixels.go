package gui

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/buddhabrot/internal/render"
)

// fillPixels writes in into dst as tint scaled by intensity. Texture row 0 is
// the top of the screen, so rows are flipped.
func fillPixels(dst []color.RGBA, in *render.Intensity, tint color.RGBA) {
	for y := 0; y < in.Height; y++ {
		src := in.Pix[(in.Height-1-y)*in.Width : (in.Height-y)*in.Width]
		row := dst[y*in.Width : (y+1)*in.Width]
		for x, v := range src {
			row[x] = color.RGBA{
				R: uint8(uint16(tint.R) * uint16(v) / 255),
				G: uint8(uint16(tint.G) * uint16(v) / 255),
				B: uint8(uint16(tint.B) * uint16(v) / 255),
				A: 255,
			}
		}
	}
}

// telemetryPoints lays values out as a line strip in the box at (x, y).
func telemetryPoints(values []float64, x, y, width, height float32) []rl.Vector2 {
	if len(values) < 2 {
		return nil
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo, hi = min(lo, v), max(hi, v)
	}
	if hi == lo {
		hi = lo + 1
	}

	points := make([]rl.Vector2, len(values))
	for i, v := range values {
		px := x + float32(i)/float32(len(values)-1)*width
		norm := float32((v - lo) / (hi - lo))
		points[i] = rl.NewVector2(px, y+height-norm*height)
	}
	return points
}
