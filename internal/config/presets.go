package config

import (
	"sort"

	"github.com/san-kum/buddhabrot/internal/buddha"
	"github.com/san-kum/buddhabrot/internal/plane"
)

// Preset adjusts the defaults for one kind of render.
type Preset struct {
	Description string
	Apply       func(*Config)
}

var Presets = map[string]Preset{
	"buddhabrot": {
		Description: "classic Buddhabrot, sampled constants from z0 = 0",
		Apply:       func(*Config) {},
	},
	"anti": {
		Description: "Anti-Buddhabrot, orbits that never escape",
		Apply: func(c *Config) {
			c.OrbitPolicy = buddha.NonEscaping.String()
			c.MaxIterations = 500
		},
	},
	"explorer": {
		Description: "interactive explorer, sampled z0 with a fixed constant redrawn every pass",
		Apply: func(c *Config) {
			c.SeedMode = buddha.RandomSeed.String()
			c.Accumulation = buddha.PerPass.String()
			c.SampleCount = 640000
			c.Constant = Complex{Re: 0.0, Im: 0.0}
		},
	},
	"agents": {
		Description: "persistent sample buffer accumulated across passes",
		Apply: func(c *Config) {
			c.SeedMode = buddha.RandomSeed.String()
			c.SampleStrategy = buddha.PersistentBuffer.String()
			c.Accumulation = buddha.Progressive.String()
			c.Constant = Complex{Re: -0.4, Im: 0.6}
			c.Passes = 50
		},
	},
	"cpu": {
		Description: "z0 sampled over the view with c = 0.5",
		Apply: func(c *Config) {
			c.SeedMode = buddha.RandomSeed.String()
			c.Constant = Complex{Re: 0.5}
			c.MaxIterations = 100
			c.SampleCount = 100000
		},
	},
	"seahorse": {
		Description: "deep Buddhabrot over the seahorse valley",
		Apply: func(c *Config) {
			c.PlaneRegion = plane.SeahorseValley
			c.MaxIterations = 5000
			c.SampleCount = 1000000
			c.Passes = 20
		},
	},
}

// GetPreset returns the defaults with the named preset applied, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	p.Apply(cfg)
	return cfg
}

// ListPresets returns the preset names in sorted order.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
