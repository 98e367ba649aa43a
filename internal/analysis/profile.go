package analysis

import (
	"math"
	"strings"

	"github.com/san-kum/buddhabrot/internal/histogram"
	"github.com/san-kum/buddhabrot/internal/render"
)

// ColumnProfile sums each column of s, left to right.
func ColumnProfile(s *histogram.Snapshot) []float64 {
	out := make([]float64, s.Width)
	for y := 0; y < s.Height; y++ {
		row := s.Counts[y*s.Width : (y+1)*s.Width]
		for x, c := range row {
			out[x] += float64(c)
		}
	}
	return out
}

// RowProfile sums each row of s, from the bottom of the plane upward.
func RowProfile(s *histogram.Snapshot) []float64 {
	out := make([]float64, s.Height)
	for y := 0; y < s.Height; y++ {
		for _, c := range s.Counts[y*s.Width : (y+1)*s.Width] {
			out[y] += float64(c)
		}
	}
	return out
}

// LevelDistribution returns the number of cells at each non-zero intensity.
func LevelDistribution(in *render.Intensity) []float64 {
	levels := in.Levels()
	out := make([]float64, 255)
	for i := 1; i < 256; i++ {
		out[i-1] = float64(levels[i])
	}
	return out
}

// Downsample averages data into n buckets. Shorter input is returned as is.
func Downsample(data []float64, n int) []float64 {
	if n <= 0 || len(data) <= n {
		return data
	}
	out := make([]float64, n)
	for i := range out {
		lo := i * len(data) / n
		hi := (i + 1) * len(data) / n
		sum := 0.0
		for _, v := range data[lo:hi] {
			sum += v
		}
		out[i] = sum / float64(hi-lo)
	}
	return out
}

// Convergence is the mean absolute difference between two frames of the
// same size, scaled to [0, 1].
func Convergence(prev, cur *render.Intensity) float64 {
	if prev == nil || cur == nil || len(prev.Pix) != len(cur.Pix) || len(cur.Pix) == 0 {
		return math.NaN()
	}
	sum := 0
	for i := range cur.Pix {
		d := int(cur.Pix[i]) - int(prev.Pix[i])
		if d < 0 {
			d = -d
		}
		sum += d
	}
	return float64(sum) / float64(255*len(cur.Pix))
}

var shades = []rune(" .:-=+*#%@")

// ASCII renders in as width×height characters, brightest cells densest.
// The top line is the top of the plane.
func ASCII(in *render.Intensity, width, height int) string {
	if in == nil || width <= 0 || height <= 0 || in.Width == 0 || in.Height == 0 {
		return ""
	}

	var sb strings.Builder
	for row := 0; row < height; row++ {
		y0 := (height - 1 - row) * in.Height / height
		y1 := max((height-row)*in.Height/height, y0+1)
		for col := 0; col < width; col++ {
			x0 := col * in.Width / width
			x1 := max((col+1)*in.Width/width, x0+1)

			peak := uint8(0)
			for y := y0; y < y1 && y < in.Height; y++ {
				for x := x0; x < x1 && x < in.Width; x++ {
					peak = max(peak, in.At(x, y))
				}
			}
			sb.WriteRune(shades[int(peak)*(len(shades)-1)/255])
		}
		sb.WriteRune('\n')
	}
	return sb.String()
}
