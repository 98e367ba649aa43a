// Package orbit iterates the quadratic map z -> z^2 + c and classifies escape.
//
// Trace is pure: it never retains the buffer it is given and has no side
// effects, so it is safe to call from any number of goroutines as long as each
// caller owns its buffer.
package orbit

import "github.com/san-kum/buddhabrot/internal/buddha"

// DefaultEscapeRadius is the canonical bailout radius.
const DefaultEscapeRadius = 2.0

// Trace iterates from z0 = seed with constant c for at most maxIterations steps.
// Every new iterate z1..zk is appended to buf[:0]; iteration stops at the first
// iterate with |z| > escapeRadius. The returned orbit therefore has length k and
// the escape happened on iteration index k-1.
func Trace(seed, c complex128, maxIterations uint32, escapeRadius float64, buf []complex128) ([]complex128, bool) {
	orbit := buf[:0]
	r2 := escapeRadius * escapeRadius

	zr, zi := real(seed), imag(seed)
	cr, ci := real(c), imag(c)

	for i := uint32(0); i < maxIterations; i++ {
		zr, zi = zr*zr-zi*zi+cr, 2*zr*zi+ci
		orbit = append(orbit, complex(zr, zi))
		if zr*zr+zi*zi > r2 {
			return orbit, true
		}
	}
	return orbit, false
}

// Escapes classifies seed without recording the orbit. iterations is the
// number of steps taken, equal to the length Trace would return.
func Escapes(seed, c complex128, maxIterations uint32, escapeRadius float64) (escaped bool, iterations uint32) {
	r2 := escapeRadius * escapeRadius

	zr, zi := real(seed), imag(seed)
	cr, ci := real(c), imag(c)

	for i := uint32(0); i < maxIterations; i++ {
		zr, zi = zr*zr-zi*zi+cr, 2*zr*zi+ci
		if zr*zr+zi*zi > r2 {
			return true, i + 1
		}
	}
	return false, maxIterations
}

// Tracer binds the iteration budget, policy and seed mode of one render.
type Tracer struct {
	MaxIterations uint32
	EscapeRadius  float64
	Policy        buddha.Policy
	Mode          buddha.SeedMode
	// Fixed is the map constant in random-seed mode and the starting value in
	// random-constant mode.
	Fixed complex128
}

// Retained traces sample and returns its orbit when the policy keeps it.
// The escape test runs first without recording, so rejected samples never
// touch buf.
func (t Tracer) Retained(sample complex128, buf []complex128) ([]complex128, bool) {
	z0, c := t.Mode.Start(sample, t.Fixed)

	escaped, _ := Escapes(z0, c, t.MaxIterations, t.EscapeRadius)
	if !t.Policy.Retain(escaped) {
		return nil, false
	}

	orbit, _ := Trace(z0, c, t.MaxIterations, t.EscapeRadius, buf)
	return orbit, true
}
