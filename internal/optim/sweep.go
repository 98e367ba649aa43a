// Package optim searches the fixed value of a render for the most
// structured histogram.
package optim

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/buddhabrot/internal/analysis"
	"github.com/san-kum/buddhabrot/internal/buddha"
	"github.com/san-kum/buddhabrot/internal/compute"
	"github.com/san-kum/buddhabrot/internal/engine"
	"github.com/san-kum/buddhabrot/internal/plane"
)

// Objective scores a finished histogram; larger is better.
type Objective func(analysis.Stats) float64

var Objectives = map[string]Objective{
	"entropy":  func(s analysis.Stats) float64 { return s.Entropy },
	"coverage": func(s analysis.Stats) float64 { return s.Coverage },
	"total":    func(s analysis.Stats) float64 { return float64(s.Total) },
	"mean":     func(s analysis.Stats) float64 { return s.Mean },
}

// ObjectiveNames returns the objective names in sorted order.
func ObjectiveNames() []string {
	names := make([]string, 0, len(Objectives))
	for name := range Objectives {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type Candidate struct {
	Fixed complex128
	Score float64
	Stats analysis.Stats
}

// GridSearch renders every combination of Re and Im as the fixed value.
type GridSearch struct {
	Re       []float64
	Im       []float64
	Settings engine.Settings
	Region   plane.Region
	Passes   int
	// Parallel bounds concurrent renders; each render runs on one worker.
	Parallel int
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	return out
}

// Search scores every grid point and returns the candidates best first.
// Ties keep grid order.
func (g *GridSearch) Search(ctx context.Context, obj Objective) ([]Candidate, error) {
	if len(g.Re) == 0 || len(g.Im) == 0 {
		return nil, buddha.NewConfigError("sweep", fmt.Sprintf("%dx%d", len(g.Re), len(g.Im)), "grid is empty")
	}
	if g.Passes <= 0 {
		return nil, buddha.NewConfigError("passes", g.Passes, "must be positive")
	}
	if err := g.Settings.Validate(); err != nil {
		return nil, err
	}
	if err := g.Region.Validate(); err != nil {
		return nil, err
	}

	results := make([]Candidate, len(g.Re)*len(g.Im))

	eg, ctx := errgroup.WithContext(ctx)
	if g.Parallel > 0 {
		eg.SetLimit(g.Parallel)
	}
	for i, re := range g.Re {
		for j, im := range g.Im {
			idx := i*len(g.Im) + j
			fixed := complex(re, im)
			eg.Go(func() error {
				st, err := g.render(ctx, fixed)
				if err != nil {
					return fmt.Errorf("render %v: %w", fixed, err)
				}
				results[idx] = Candidate{Fixed: fixed, Score: obj(st), Stats: st}
				return nil
			})
		}
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(a, b int) bool { return results[a].Score > results[b].Score })
	return results, nil
}

func (g *GridSearch) render(ctx context.Context, fixed complex128) (analysis.Stats, error) {
	eng, err := engine.New(g.Settings, compute.NewCPUBackend(1))
	if err != nil {
		return analysis.Stats{}, err
	}
	defer eng.Close()

	snap, err := eng.Run(ctx, engine.Params{Region: g.Region, Constant: fixed}, g.Passes)
	if err != nil {
		return analysis.Stats{}, err
	}
	return analysis.Compute(snap), nil
}
