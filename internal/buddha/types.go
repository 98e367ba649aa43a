package buddha

import (
	"fmt"
	"strings"
)

// Policy selects which traced orbits contribute to the histogram.
type Policy int

const (
	// Escaping keeps orbits that leave the escape radius (Buddhabrot).
	Escaping Policy = iota
	// NonEscaping keeps orbits that stay bounded (Anti-Buddhabrot).
	NonEscaping
)

var policyNames = map[Policy]string{
	Escaping:    "escaping",
	NonEscaping: "non-escaping",
}

func (p Policy) String() string {
	if s, ok := policyNames[p]; ok {
		return s
	}
	return fmt.Sprintf("policy(%d)", int(p))
}

// Retain reports whether an orbit with the given escape flag is kept.
func (p Policy) Retain(escaped bool) bool {
	if p == NonEscaping {
		return !escaped
	}
	return escaped
}

// ParsePolicy accepts "escaping", "non-escaping" and the aliases "buddhabrot"/"anti".
func ParsePolicy(s string) (Policy, error) {
	switch normalize(s) {
	case "escaping", "buddhabrot", "":
		return Escaping, nil
	case "non-escaping", "nonescaping", "anti", "anti-buddhabrot":
		return NonEscaping, nil
	}
	return 0, NewConfigError("orbit_policy", s, "want escaping or non-escaping")
}

// SeedMode decides the role of the sampled value in the recurrence.
type SeedMode int

const (
	// RandomSeed samples z0 and iterates with the fixed map constant.
	RandomSeed SeedMode = iota
	// RandomConstant samples c and starts every orbit from the fixed value.
	RandomConstant
)

func (m SeedMode) String() string {
	switch m {
	case RandomSeed:
		return "random-seed"
	case RandomConstant:
		return "random-constant"
	}
	return fmt.Sprintf("seedmode(%d)", int(m))
}

// ParseSeedMode accepts "random-seed" and "random-constant".
func ParseSeedMode(s string) (SeedMode, error) {
	switch normalize(s) {
	case "random-seed", "seed", "":
		return RandomSeed, nil
	case "random-constant", "constant":
		return RandomConstant, nil
	}
	return 0, NewConfigError("seed_mode", s, "want random-seed or random-constant")
}

// Start resolves (z0, c) for one sample.
func (m SeedMode) Start(sample, fixed complex128) (z0, c complex128) {
	if m == RandomConstant {
		return fixed, sample
	}
	return sample, fixed
}

// Strategy selects how samples are produced across passes.
type Strategy int

const (
	// PerDispatch draws fresh samples for every pass.
	PerDispatch Strategy = iota
	// PersistentBuffer draws one buffer and reuses it for every pass.
	PersistentBuffer
)

func (s Strategy) String() string {
	switch s {
	case PerDispatch:
		return "per-dispatch"
	case PersistentBuffer:
		return "persistent-buffer"
	}
	return fmt.Sprintf("strategy(%d)", int(s))
}

// ParseStrategy accepts "per-dispatch" and "persistent-buffer".
func ParseStrategy(s string) (Strategy, error) {
	switch normalize(s) {
	case "per-dispatch", "resample", "":
		return PerDispatch, nil
	case "persistent-buffer", "persistent", "agents":
		return PersistentBuffer, nil
	}
	return 0, NewConfigError("sample_strategy", s, "want per-dispatch or persistent-buffer")
}

// Accumulation decides when the histogram is cleared.
type Accumulation int

const (
	// PerPass clears before every pass; the image shows one pass only.
	PerPass Accumulation = iota
	// Progressive keeps counts across passes and clears only when the parameters change.
	Progressive
)

func (a Accumulation) String() string {
	switch a {
	case PerPass:
		return "per-pass"
	case Progressive:
		return "progressive"
	}
	return fmt.Sprintf("accumulation(%d)", int(a))
}

// ParseAccumulation accepts "per-pass" and "progressive".
func ParseAccumulation(s string) (Accumulation, error) {
	switch normalize(s) {
	case "per-pass", "clear", "":
		return PerPass, nil
	case "progressive", "accumulate":
		return Progressive, nil
	}
	return 0, NewConfigError("accumulation", s, "want per-pass or progressive")
}

func normalize(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")
}
