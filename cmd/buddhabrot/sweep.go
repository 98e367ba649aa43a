package main

import (
	"fmt"
	"os"
	"runtime"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/buddhabrot/internal/buddha"
	"github.com/san-kum/buddhabrot/internal/optim"
)

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	obj, ok := optim.Objectives[objective]
	if !ok {
		return buddha.NewConfigError("objective", objective, fmt.Sprintf("want one of %v", optim.ObjectiveNames()))
	}
	settings, err := cfg.Settings()
	if err != nil {
		return err
	}
	params, err := cfg.Params()
	if err != nil {
		return err
	}
	if parallel <= 0 {
		parallel = runtime.NumCPU()
	}

	g := &optim.GridSearch{
		Re:       optim.Linspace(reMin, reMax, steps),
		Im:       optim.Linspace(imMin, imMax, steps),
		Settings: settings,
		Region:   params.Region,
		Passes:   cfg.Passes,
		Parallel: parallel,
	}

	ctx, stop := signalContext()
	defer stop()

	fmt.Printf("sweeping %d fixed values (%s, %s), %d passes each\n", len(g.Re)*len(g.Im), cfg.OrbitPolicy, cfg.SeedMode, cfg.Passes)
	start := time.Now()
	results, err := g.Search(ctx, obj)
	if err != nil {
		return err
	}
	fmt.Printf("completed in %v\n\n", time.Since(start).Round(time.Millisecond))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "RANK\tFIXED\t%s\tMAX\tCOVERAGE\n", objective)
	for i, c := range results[:min(top, len(results))] {
		fmt.Fprintf(w, "%d\t%.4f%+.4fi\t%.4g\t%d\t%.1f%%\n",
			i+1, real(c.Fixed), imag(c.Fixed), c.Score, c.Stats.Max, c.Stats.Coverage*100)
	}
	return w.Flush()
}
