package engine

import (
	"time"

	"github.com/san-kum/buddhabrot/internal/buddha"
	"github.com/san-kum/buddhabrot/internal/orbit"
	"github.com/san-kum/buddhabrot/internal/plane"
)

// Settings are fixed for the lifetime of an Engine, apart from the size.
type Settings struct {
	Width         int
	Height        int
	SampleCount   int
	MaxIterations uint32
	EscapeRadius  float64
	Policy        buddha.Policy
	Mode          buddha.SeedMode
	Strategy      buddha.Strategy
	Accumulation  buddha.Accumulation
	// SampleDomain overrides the region samples are drawn from.
	SampleDomain *plane.Region
	// Seed seeds the sample generator; zero means time-based.
	Seed uint64
}

// Validate reports the first invalid setting as a configuration error.
func (s Settings) Validate() error {
	switch {
	case s.Width <= 0:
		return buddha.NewConfigError("width", s.Width, "must be positive")
	case s.Height <= 0:
		return buddha.NewConfigError("height", s.Height, "must be positive")
	case s.SampleCount <= 0:
		return buddha.NewConfigError("sample_count", s.SampleCount, "must be positive")
	case s.MaxIterations == 0:
		return buddha.NewConfigError("max_iterations", s.MaxIterations, "must be positive")
	case !(s.EscapeRadius > 0):
		return buddha.NewConfigError("escape_radius", s.EscapeRadius, "must be positive")
	case s.Strategy == buddha.PersistentBuffer && s.Accumulation == buddha.PerPass:
		return buddha.NewConfigError("sample_strategy", s.Strategy.String(),
			"persistent-buffer requires progressive accumulation")
	}
	if s.SampleDomain != nil {
		if err := s.SampleDomain.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Tracer returns the tracer for one pass with the given fixed value.
func (s Settings) Tracer(fixed complex128) orbit.Tracer {
	return orbit.Tracer{
		MaxIterations: s.MaxIterations,
		EscapeRadius:  s.EscapeRadius,
		Policy:        s.Policy,
		Mode:          s.Mode,
		Fixed:         fixed,
	}
}

// Domain returns the region samples are drawn from for view region r.
func (s Settings) Domain(r plane.Region) plane.Region {
	if s.SampleDomain != nil {
		return *s.SampleDomain
	}
	if s.Mode == buddha.RandomConstant {
		return plane.Disk
	}
	return r
}

// Params is the parameter set of one pass. A change between passes is a clear
// boundary.
type Params struct {
	Region   plane.Region
	Constant complex128
}

// PassStats describes one completed pass.
type PassStats struct {
	// Pass counts passes since the last clear, Total since the engine started.
	Pass     int
	Total    int
	Samples  int
	Cleared  bool
	Duration time.Duration
}

// Observer is notified after every pass.
type Observer interface {
	OnPass(PassStats)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(PassStats)

func (f ObserverFunc) OnPass(s PassStats) { f(s) }
