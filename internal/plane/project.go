package plane

import "math"

// Project maps p to the pixel grid of size width×height laid over r.
// ok is false when p falls outside the grid; that is a normal outcome, not an error.
func Project(p complex128, r Region, width, height int) (x, y int, ok bool) {
	return NewProjector(r, width, height).Project(p)
}

// Projector caches the per-axis scale of one region and grid size so the
// hot loop does not divide.
type Projector struct {
	region        Region
	width, height int
	sx, sy        float64
}

// NewProjector prepares a projector for r on a width×height grid.
func NewProjector(r Region, width, height int) Projector {
	return Projector{
		region: r,
		width:  width,
		height: height,
		sx:     float64(width) / (r.XMax - r.XMin),
		sy:     float64(height) / (r.YMax - r.YMin),
	}
}

// Project maps p onto the grid.
func (pr Projector) Project(p complex128) (int, int, bool) {
	fx := math.Floor((real(p) - pr.region.XMin) * pr.sx)
	fy := math.Floor((imag(p) - pr.region.YMin) * pr.sy)

	// NaN fails every comparison and is dropped here too.
	if !(fx >= 0 && fx < float64(pr.width) && fy >= 0 && fy < float64(pr.height)) {
		return 0, 0, false
	}
	return int(fx), int(fy), true
}

// Scale returns pixels per plane unit along each axis.
func (pr Projector) Scale() (float64, float64) {
	return pr.sx, pr.sy
}

// ScreenToPlane converts a screen position to plane coordinates.
// Screen rows grow downward, so sy = 0 is the top edge (YMax).
func ScreenToPlane(sx, sy float64, r Region, width, height int) (float64, float64) {
	w, h := r.Size()
	x := r.XMin + sx/float64(width)*w
	y := r.YMax - sy/float64(height)*h
	return x, y
}

// PlaneToScreen is the inverse of ScreenToPlane.
func PlaneToScreen(x, y float64, r Region, width, height int) (float64, float64) {
	w, h := r.Size()
	sx := (x - r.XMin) / w * float64(width)
	sy := (r.YMax - y) / h * float64(height)
	return sx, sy
}
