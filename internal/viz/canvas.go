package viz

import (
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/san-kum/buddhabrot/internal/render"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800 // Empty braille char
		}
	}
	return c
}

// DotSize returns the canvas size in dots.
func (c *Canvas) DotSize() (int, int) { return c.Width * 2, c.Height * 4 }

// Set sets the dot at (x, y), in dot coordinates with y growing downward.
// The canvas size in sub-pixels is (Width*2) x (Height*4).
func (c *Canvas) Set(x, y int) {
	// Early bounds check for negative coordinates
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	subX := x % 2
	subY := y % 4

	c.Grid[row][col] |= rune(pixelMap[subY][subX])
}

// Dot reports whether the dot at (x, y) is set.
func (c *Canvas) Dot(x, y int) bool {
	if x < 0 || y < 0 || x >= c.Width*2 || y >= c.Height*4 {
		return false
	}
	r := c.Grid[y/4][x/2]
	return r >= 0x2800 && int(r-0x2800)&pixelMap[y%4][x%2] != 0
}

// Unset clears a pixel
func (c *Canvas) Unset(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	subX := x % 2
	subY := y % 4

	mask := ^rune(pixelMap[subY][subX])
	c.Grid[row][col] &= mask
	if c.Grid[row][col] < 0x2800 {
		c.Grid[row][col] = 0x2800
	}
}

// bayer is the 4x4 ordered-dither matrix.
var bayer = [4][4]uint8{
	{0, 8, 2, 10},
	{12, 4, 14, 6},
	{3, 11, 1, 9},
	{15, 7, 13, 5},
}

// Plot clears the canvas and draws in with ordered dithering, one dot per
// intensity cell. in is expected to be DotSize() large; extra cells are
// ignored. Intensity row 0 is the bottom of the plane, so rows are flipped.
func (c *Canvas) Plot(in *render.Intensity) {
	c.Clear()
	if in == nil {
		return
	}
	w, h := c.DotSize()
	w, h = min(w, in.Width), min(h, in.Height)
	for y := 0; y < h; y++ {
		row := in.Height - 1 - y
		for x := 0; x < w; x++ {
			level := in.At(x, row)
			if level == 0 {
				continue
			}
			if level > bayer[y%4][x%4]*16+8 {
				c.Set(x, y)
			}
		}
	}
}

// Image rasterizes the canvas, each dot drawn as a dotPx square.
func (c *Canvas) Image(dotPx int, p color.Palette) *image.Paletted {
	w, h := c.DotSize()
	img := image.NewPaletted(image.Rect(0, 0, w*dotPx, h*dotPx), p)
	for row := 0; row < c.Height; row++ {
		for col := 0; col < c.Width; col++ {
			pattern := int(c.Grid[row][col] - 0x2800)
			if pattern == 0 {
				continue
			}
			for sy := 0; sy < 4; sy++ {
				for sx := 0; sx < 2; sx++ {
					if pattern&pixelMap[sy][sx] == 0 {
						continue
					}
					x0, y0 := (col*2+sx)*dotPx, (row*4+sy)*dotPx
					for py := 0; py < dotPx; py++ {
						for px := 0; px < dotPx; px++ {
							img.SetColorIndex(x0+px, y0+py, 1)
						}
					}
				}
			}
		}
	}
	return img
}

// Clear resets the canvas
func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800
		}
	}
}

// Line sets every dot on the segment from (x0, y0) to (x1, y1).
func (c *Canvas) Line(x0, y0, x1, y1 int) {
	dx, dy := x1-x0, y1-y0
	n := max(dx, -dx, dy, -dy)
	if n == 0 {
		c.Set(x0, y0)
		return
	}
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		c.Set(x0+int(math.Round(t*float64(dx))), y0+int(math.Round(t*float64(dy))))
	}
}

// Crosshair marks the dot (x, y) with four arms of length arm, leaving a gap
// of one dot around the centre.
func (c *Canvas) Crosshair(x, y, arm int) {
	if arm < 2 {
		return
	}
	c.Line(x-arm, y, x-2, y)
	c.Line(x+2, y, x+arm, y)
	c.Line(x, y-arm, x, y-2)
	c.Line(x, y+2, x, y+arm)
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}
