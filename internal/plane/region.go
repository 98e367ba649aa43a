// Package plane maps between the complex plane and pixel grids.
//
// All conversions use one half-open convention: a region [XMin, XMax) spread
// over width pixels gives pixel x = floor((re - XMin) / (XMax - XMin) * width).
// Pixel rows grow with the imaginary axis; screen rows grow downward.
package plane

import (
	"math"
	"sort"

	"github.com/san-kum/buddhabrot/internal/buddha"
)

// Region is a rectangle of the complex plane.
type Region struct {
	XMin float64 `yaml:"x_min" json:"x_min"`
	XMax float64 `yaml:"x_max" json:"x_max"`
	YMin float64 `yaml:"y_min" json:"y_min"`
	YMax float64 `yaml:"y_max" json:"y_max"`
}

// Well-known regions.
var (
	// Classic frames the whole Mandelbrot set.
	Classic = Region{XMin: -2.0, XMax: 1.0, YMin: -1.5, YMax: 1.5}

	// Disk covers the escape disk of radius 2; the default domain for sampled constants.
	Disk = Region{XMin: -2.0, XMax: 2.0, YMin: -2.0, YMax: 2.0}

	// SeahorseValley has dense filaments and repeating curls.
	SeahorseValley = Region{XMin: -0.8, XMax: -0.7, YMin: 0.05, YMax: 0.15}

	// ElephantValley sits between the main cardioid and the positive real axis.
	ElephantValley = Region{XMin: 0.25, XMax: 0.35, YMin: -0.05, YMax: 0.05}
)

var named = map[string]Region{
	"classic":  Classic,
	"disk":     Disk,
	"seahorse": SeahorseValley,
	"elephant": ElephantValley,
}

// Lookup returns the well-known region called name.
func Lookup(name string) (Region, bool) {
	r, ok := named[name]
	return r, ok
}

// Names lists the well-known regions in sorted order.
func Names() []string {
	names := make([]string, 0, len(named))
	for n := range named {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// FromCenter builds the region of size w×h centred on (cx, cy).
func FromCenter(cx, cy, w, h float64) Region {
	return Region{
		XMin: cx - w/2,
		XMax: cx + w/2,
		YMin: cy - h/2,
		YMax: cy + h/2,
	}
}

// Validate rejects empty, inverted and non-finite regions.
func (r Region) Validate() error {
	for _, v := range []float64{r.XMin, r.XMax, r.YMin, r.YMax} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return buddha.NewConfigError("plane_region", r, "bounds must be finite")
		}
	}
	if r.XMin >= r.XMax {
		return buddha.NewConfigError("plane_region", r, "x_min must be less than x_max")
	}
	if r.YMin >= r.YMax {
		return buddha.NewConfigError("plane_region", r, "y_min must be less than y_max")
	}
	return nil
}

// Center returns the midpoint of the region.
func (r Region) Center() (float64, float64) {
	return (r.XMin + r.XMax) / 2, (r.YMin + r.YMax) / 2
}

// Size returns the width and height of the region.
func (r Region) Size() (float64, float64) {
	return r.XMax - r.XMin, r.YMax - r.YMin
}

// Contains reports whether p lies inside the half-open region.
func (r Region) Contains(p complex128) bool {
	x, y := real(p), imag(p)
	return x >= r.XMin && x < r.XMax && y >= r.YMin && y < r.YMax
}
