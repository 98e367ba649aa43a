// Package automation runs scripted sequences of renders described in YAML.
package automation

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/buddhabrot/internal/buddha"
	"github.com/san-kum/buddhabrot/internal/config"
)

// Scenario is a named list of renders.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
}

// Step starts from a preset (or the defaults) and overlays Config, which
// uses the same keys as a config file.
type Step struct {
	SaveAs string    `yaml:"save_as"`
	Preset string    `yaml:"preset"`
	Config yaml.Node `yaml:"config"`
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	if len(sc.Steps) == 0 {
		return nil, buddha.NewConfigError("steps", 0, "scenario has no steps")
	}
	return &sc, nil
}

// Resolve builds and validates the configuration of step i.
func (sc *Scenario) Resolve(i int) (*config.Config, error) {
	step := sc.Steps[i]

	cfg := config.DefaultConfig()
	if step.Preset != "" {
		cfg = config.GetPreset(step.Preset)
		if cfg == nil {
			return nil, buddha.NewConfigError("preset", step.Preset, fmt.Sprintf("want one of %v", config.ListPresets()))
		}
	}
	if !step.Config.IsZero() {
		if err := step.Config.Decode(cfg); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// StepName returns the run name of step i.
func (sc *Scenario) StepName(i int) string {
	if name := sc.Steps[i].SaveAs; name != "" {
		return name
	}
	if sc.Name != "" {
		return fmt.Sprintf("%s-%d", sc.Name, i+1)
	}
	return fmt.Sprintf("step-%d", i+1)
}

// RenderFunc performs one step. It returns the run ID of the saved result.
type RenderFunc func(ctx context.Context, name string, cfg *config.Config) (string, error)

// StepResult records a completed step.
type StepResult struct {
	Name  string
	RunID string
}

// Run resolves every step up front, then renders them in order. It stops at
// the first failure and returns the steps completed so far.
func Run(ctx context.Context, sc *Scenario, render RenderFunc) ([]StepResult, error) {
	cfgs := make([]*config.Config, len(sc.Steps))
	for i := range sc.Steps {
		cfg, err := sc.Resolve(i)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		cfgs[i] = cfg
	}

	results := make([]StepResult, 0, len(sc.Steps))
	for i, cfg := range cfgs {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		name := sc.StepName(i)
		buddha.Logger().Info("scenario step", "step", i+1, "of", len(cfgs), "name", name)

		runID, err := render(ctx, name, cfg)
		if err != nil {
			return results, fmt.Errorf("step %d (%s): %w", i+1, name, err)
		}
		results = append(results, StepResult{Name: name, RunID: runID})
	}
	return results, nil
}
