package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/buddhabrot/internal/analysis"
	"github.com/san-kum/buddhabrot/internal/automation"
	"github.com/san-kum/buddhabrot/internal/config"
	"github.com/san-kum/buddhabrot/internal/render"
)

func runBatch(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return fmt.Errorf("failed to load scenario: %w", err)
	}
	ctx, stop := signalContext()
	defer stop()

	overrideDir := cmd.Flags().Changed("data")
	fmt.Printf("scenario %q: %d steps\n", sc.Name, len(sc.Steps))

	results, err := automation.Run(ctx, sc, func(ctx context.Context, name string, cfg *config.Config) (string, error) {
		if overrideDir {
			cfg.Output.Dir = dataDir
		}
		fmt.Printf("\n[%s] %dx%d, %d passes of %d samples, %s %s\n",
			name, cfg.Width, cfg.Height, cfg.Passes, cfg.SampleCount, cfg.OrbitPolicy, cfg.SeedMode)

		res, err := accumulate(ctx, cfg, true)
		if err != nil {
			return "", err
		}
		m, err := render.ParseMode(cfg.Output.Mode)
		if err != nil {
			return "", err
		}
		img := render.Scale(render.Normalize(res.snap).Image(m), cfg.Output.Scale)
		runID, err := saveRun(cfg, name, res, img, analysis.Compute(res.snap))
		if err != nil {
			return "", err
		}
		fmt.Printf("[%s] run id %s in %v\n", name, runID, res.elapsed.Round(time.Millisecond))
		return runID, nil
	})

	if len(results) > 0 {
		fmt.Println("\ncompleted:")
		for _, r := range results {
			fmt.Printf("  %-24s %s\n", r.Name, r.RunID)
		}
	}
	return err
}
