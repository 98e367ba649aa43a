package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/buddhabrot/internal/buddha"
	"github.com/san-kum/buddhabrot/internal/engine"
	"github.com/san-kum/buddhabrot/internal/plane"
	"github.com/san-kum/buddhabrot/internal/render"
	"github.com/san-kum/buddhabrot/internal/view"
)

const (
	DefaultWidth         = 800
	DefaultHeight        = 800
	DefaultSampleCount   = 200000
	DefaultMaxIterations = 1000
	DefaultEscapeRadius  = 2.0
	DefaultPasses        = 10
	DefaultOutputDir     = "./renders"
	DefaultFormat        = "png"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "BUDDHABROT_"

type Config struct {
	Width          int           `yaml:"width" env:"WIDTH"`
	Height         int           `yaml:"height" env:"HEIGHT"`
	SampleCount    int           `yaml:"sample_count" env:"SAMPLE_COUNT"`
	MaxIterations  uint32        `yaml:"max_iterations" env:"MAX_ITERATIONS"`
	EscapeRadius   float64       `yaml:"escape_radius" env:"ESCAPE_RADIUS"`
	Region         string        `yaml:"region,omitempty" env:"REGION"`
	PlaneRegion    plane.Region  `yaml:"plane_region"`
	OrbitPolicy    string        `yaml:"orbit_policy" env:"ORBIT_POLICY"`
	SampleStrategy string        `yaml:"sample_strategy" env:"SAMPLE_STRATEGY"`
	SeedMode       string        `yaml:"seed_mode" env:"SEED_MODE"`
	Constant       Complex       `yaml:"constant" envPrefix:"CONSTANT_"`
	SampleDomain   *plane.Region `yaml:"sample_domain,omitempty"`
	Accumulation   string        `yaml:"accumulation" env:"ACCUMULATION"`
	Passes         int           `yaml:"passes" env:"PASSES"`
	Workers        int           `yaml:"workers" env:"WORKERS"`
	Backend        string        `yaml:"backend" env:"BACKEND"`
	Seed           uint64        `yaml:"seed" env:"SEED"`
	View           ViewConfig    `yaml:"view" envPrefix:"VIEW_"`
	Output         OutputConfig  `yaml:"output" envPrefix:"OUTPUT_"`
}

// Complex is a YAML-friendly complex number.
type Complex struct {
	Re float64 `yaml:"re" env:"RE"`
	Im float64 `yaml:"im" env:"IM"`
}

func (c Complex) Value() complex128 { return complex(c.Re, c.Im) }

type ViewConfig struct {
	ConstantStep float64 `yaml:"constant_step" env:"CONSTANT_STEP"`
	PanStep      float64 `yaml:"pan_step" env:"PAN_STEP"`
	ZoomFactor   float64 `yaml:"zoom_factor" env:"ZOOM_FACTOR"`
	Zoom         float64 `yaml:"zoom" env:"ZOOM"`
}

type OutputConfig struct {
	Dir    string `yaml:"dir" env:"DIR"`
	Format string `yaml:"format" env:"FORMAT"`
	Mode   string `yaml:"mode" env:"MODE"`
	Scale  int    `yaml:"scale" env:"SCALE"`
}

// DefaultConfig renders the classic Buddhabrot: sampled constants, z0 = 0.
func DefaultConfig() *Config {
	return &Config{
		Width:          DefaultWidth,
		Height:         DefaultHeight,
		SampleCount:    DefaultSampleCount,
		MaxIterations:  DefaultMaxIterations,
		EscapeRadius:   DefaultEscapeRadius,
		PlaneRegion:    plane.Classic,
		OrbitPolicy:    buddha.Escaping.String(),
		SampleStrategy: buddha.PerDispatch.String(),
		SeedMode:       buddha.RandomConstant.String(),
		Accumulation:   buddha.Progressive.String(),
		Passes:         DefaultPasses,
		Backend:        "auto",
		View: ViewConfig{
			ConstantStep: view.DefaultConstantStep,
			PanStep:      view.DefaultPanStep,
			ZoomFactor:   view.DefaultZoomFactor,
			Zoom:         1,
		},
		Output: OutputConfig{
			Dir:    DefaultOutputDir,
			Format: DefaultFormat,
			Mode:   string(render.ModeRGB),
			Scale:  1,
		},
	}
}

// Load reads a YAML file over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ApplyEnv overrides fields from BUDDHABROT_* environment variables.
func (c *Config) ApplyEnv() error {
	if err := env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	if c.SampleDomain != nil {
		d := *c.SampleDomain
		out.SampleDomain = &d
	}
	return &out
}

// ViewRegion returns the configured region; a region name takes precedence
// over explicit bounds.
func (c *Config) ViewRegion() (plane.Region, error) {
	if c.Region == "" {
		return c.PlaneRegion, c.PlaneRegion.Validate()
	}
	r, ok := plane.Lookup(strings.ToLower(c.Region))
	if !ok {
		return plane.Region{}, buddha.NewConfigError("region", c.Region,
			"unknown region (available: "+strings.Join(plane.Names(), ", ")+")")
	}
	return r, nil
}

// Validate checks every field and returns the first problem as a
// configuration error.
func (c *Config) Validate() error {
	if _, err := c.Settings(); err != nil {
		return err
	}
	if _, err := c.ViewRegion(); err != nil {
		return err
	}
	switch {
	case c.Passes <= 0:
		return buddha.NewConfigError("passes", c.Passes, "must be positive")
	case c.Workers < 0:
		return buddha.NewConfigError("workers", c.Workers, "must not be negative")
	case !(c.View.Zoom >= view.MinZoom && c.View.Zoom <= view.MaxZoom):
		return buddha.NewConfigError("view.zoom", c.View.Zoom, fmt.Sprintf("must be within [%g, %g]", view.MinZoom, view.MaxZoom))
	case !(c.View.ZoomFactor > 1):
		return buddha.NewConfigError("view.zoom_factor", c.View.ZoomFactor, "must be greater than 1")
	case c.View.ConstantStep <= 0:
		return buddha.NewConfigError("view.constant_step", c.View.ConstantStep, "must be positive")
	case c.View.PanStep <= 0:
		return buddha.NewConfigError("view.pan_step", c.View.PanStep, "must be positive")
	case c.Output.Scale < 1:
		return buddha.NewConfigError("output.scale", c.Output.Scale, "must be at least 1")
	}
	if _, err := render.ParseMode(c.Output.Mode); err != nil {
		return err
	}
	if !validFormat(c.Output.Format) {
		return buddha.NewConfigError("output.format", c.Output.Format, "must be png, tiff or bmp")
	}
	return nil
}

// Formats lists the supported export encodings.
func Formats() []string { return []string{"png", "tiff", "bmp"} }

func validFormat(f string) bool {
	for _, known := range Formats() {
		if strings.EqualFold(f, known) {
			return true
		}
	}
	return false
}

// Settings converts the configuration into typed engine settings.
func (c *Config) Settings() (engine.Settings, error) {
	policy, err := buddha.ParsePolicy(c.OrbitPolicy)
	if err != nil {
		return engine.Settings{}, err
	}
	strategy, err := buddha.ParseStrategy(c.SampleStrategy)
	if err != nil {
		return engine.Settings{}, err
	}
	mode, err := buddha.ParseSeedMode(c.SeedMode)
	if err != nil {
		return engine.Settings{}, err
	}
	acc, err := buddha.ParseAccumulation(c.Accumulation)
	if err != nil {
		return engine.Settings{}, err
	}

	s := engine.Settings{
		Width:         c.Width,
		Height:        c.Height,
		SampleCount:   c.SampleCount,
		MaxIterations: c.MaxIterations,
		EscapeRadius:  c.EscapeRadius,
		Policy:        policy,
		Mode:          mode,
		Strategy:      strategy,
		Accumulation:  acc,
		Seed:          c.Seed,
	}
	if c.SampleDomain != nil {
		d := *c.SampleDomain
		s.SampleDomain = &d
	}
	return s, s.Validate()
}

// ViewSettings returns the controller step sizes.
func (c *Config) ViewSettings() view.Settings {
	s := view.DefaultSettings()
	s.ConstantStep = c.View.ConstantStep
	s.PanStep = c.View.PanStep
	s.ZoomFactor = c.View.ZoomFactor
	return s
}

// Params returns the pass parameters of a non-interactive render: the view
// region narrowed by the configured zoom around its centre.
func (c *Config) Params() (engine.Params, error) {
	r, err := c.ViewRegion()
	if err != nil {
		return engine.Params{}, err
	}
	if c.View.Zoom > 0 && c.View.Zoom != 1 {
		cx, cy := r.Center()
		w, h := r.Size()
		r = plane.FromCenter(cx, cy, w/c.View.Zoom, h/c.View.Zoom)
	}
	return engine.Params{Region: r, Constant: c.Constant.Value()}, nil
}
