// Package render turns histogram counts into displayable intensities.
//
// Counts are log-compressed with log(1+n) so that a few very bright cells do
// not wash out the rest of the image, then rescaled so the brightest cell
// maps to 255.
package render

import (
	"math"

	"github.com/san-kum/buddhabrot/internal/histogram"
)

// Intensity is a width×height grid of 8-bit levels. Row y grows with the
// imaginary axis, like the histogram it came from.
type Intensity struct {
	Width  int
	Height int
	Pix    []uint8
}

// At returns the level at (x, y).
func (in *Intensity) At(x, y int) uint8 {
	return in.Pix[y*in.Width+x]
}

// Normalize log-compresses and rescales s to [0, 255]. An empty histogram
// yields an all-zero grid.
func Normalize(s *histogram.Snapshot) *Intensity {
	out := &Intensity{
		Width:  s.Width,
		Height: s.Height,
		Pix:    make([]uint8, len(s.Counts)),
	}

	peak := s.Max()
	if peak == 0 {
		return out
	}

	// log1p is monotonic, so the post-log maximum is log1p of the peak count.
	scale := 255 / math.Log1p(float64(peak))
	for i, c := range s.Counts {
		if c == 0 {
			continue
		}
		out.Pix[i] = uint8(math.Round(math.Log1p(float64(c)) * scale))
	}
	return out
}

// Levels counts how many cells sit at each of the 256 intensities.
func (in *Intensity) Levels() [256]int {
	var levels [256]int
	for _, v := range in.Pix {
		levels[v]++
	}
	return levels
}
