package main

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/buddhabrot/internal/analysis"
	"github.com/san-kum/buddhabrot/internal/compute"
	"github.com/san-kum/buddhabrot/internal/config"
	"github.com/san-kum/buddhabrot/internal/engine"
	"github.com/san-kum/buddhabrot/internal/export"
	"github.com/san-kum/buddhabrot/internal/gui"
	"github.com/san-kum/buddhabrot/internal/histogram"
	"github.com/san-kum/buddhabrot/internal/render"
	"github.com/san-kum/buddhabrot/internal/storage"
	"github.com/san-kum/buddhabrot/internal/viz"
)

type renderResult struct {
	snap    *histogram.Snapshot
	params  engine.Params
	backend string
	elapsed time.Duration
}

// accumulate runs cfg.Passes passes on the configured backend. The GPU
// backend borrows the context of a hidden window.
func accumulate(ctx context.Context, cfg *config.Config, progress bool) (*renderResult, error) {
	settings, err := cfg.Settings()
	if err != nil {
		return nil, err
	}
	params, err := cfg.Params()
	if err != nil {
		return nil, err
	}

	res := &renderResult{params: params}
	start := time.Now()

	run := func(b compute.Backend) error {
		eng, err := engine.New(settings, b)
		if err != nil {
			return err
		}
		defer eng.Close()

		res.backend = b.Name()
		if progress {
			eng.AddObserver(engine.ObserverFunc(func(s engine.PassStats) {
				fmt.Fprintf(os.Stderr, "\rpass %d/%d  %v   ", s.Total, cfg.Passes, s.Duration.Round(time.Millisecond))
			}))
		}
		res.snap, err = eng.Run(ctx, params, cfg.Passes)
		return err
	}

	switch cfg.Backend {
	case "gl", "opengl":
		err = gui.WithHiddenContext(func() error { return run(compute.NewOpenGLBackend()) })
	default:
		b, berr := compute.New(cfg.Backend, cfg.Workers)
		if berr != nil {
			return nil, berr
		}
		err = run(b)
	}
	if progress {
		fmt.Fprintln(os.Stderr)
	}
	if err != nil {
		return nil, err
	}
	res.elapsed = time.Since(start)
	return res, nil
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx, stop := signalContext()
	defer stop()

	fmt.Printf("rendering %dx%d: %d passes of %d samples, %s %s\n",
		cfg.Width, cfg.Height, cfg.Passes, cfg.SampleCount, cfg.OrbitPolicy, cfg.SeedMode)

	res, err := accumulate(ctx, cfg, true)
	if err != nil {
		return err
	}

	m, err := render.ParseMode(cfg.Output.Mode)
	if err != nil {
		return err
	}
	img := render.Scale(render.Normalize(res.snap).Image(m), cfg.Output.Scale)
	stats := analysis.Compute(res.snap)

	if outFile != "" {
		f := cfg.Output.Format
		if !cmd.Flags().Changed("format") {
			f = storage.FormatFromPath(outFile)
		}
		if err := writeImage(outFile, img, f); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", outFile)
	} else {
		name := runName
		if name == "" {
			name = preset
		}
		runID, err := saveRun(cfg, name, res, img, stats)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}

	fmt.Printf("completed in %v on %s\n", res.elapsed.Round(time.Millisecond), res.backend)
	printStats(stats.Map())
	return nil
}

// saveRun stores img and its metadata under cfg.Output.Dir.
func saveRun(cfg *config.Config, name string, res *renderResult, img image.Image, stats analysis.Stats) (string, error) {
	meta := storage.RunMetadata{
		Name:          name,
		Width:         cfg.Width,
		Height:        cfg.Height,
		SampleCount:   cfg.SampleCount,
		Passes:        cfg.Passes,
		MaxIterations: cfg.MaxIterations,
		EscapeRadius:  cfg.EscapeRadius,
		Policy:        cfg.OrbitPolicy,
		SeedMode:      cfg.SeedMode,
		Strategy:      cfg.SampleStrategy,
		Accumulation:  cfg.Accumulation,
		Region:        res.params.Region,
		ConstantRe:    real(res.params.Constant),
		ConstantIm:    imag(res.params.Constant),
		Seed:          cfg.Seed,
		Backend:       res.backend,
		Elapsed:       res.elapsed,
		Stats:         stats.Map(),
	}
	return storage.New(cfg.Output.Dir).Save(meta, img, cfg.Output.Format)
}

func writeImage(path string, img image.Image, format string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := storage.Encode(f, img, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func printStats(stats map[string]float64) {
	keys := make([]string, 0, len(stats))
	for k := range stats {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Println("\nstats:")
	for _, k := range keys {
		fmt.Printf("  %s: %.6g\n", k, stats[k])
	}
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx, stop := signalContext()
	defer stop()

	res, err := accumulate(ctx, cfg, true)
	if err != nil {
		return err
	}
	in := render.Normalize(res.snap)

	fmt.Println(asciigraph.Plot(analysis.Downsample(analysis.LevelDistribution(in), 80),
		asciigraph.Height(10),
		asciigraph.Caption("cells per intensity level (1..255)"),
	))
	fmt.Println()
	fmt.Println(asciigraph.Plot(analysis.Downsample(analysis.ColumnProfile(res.snap), 80),
		asciigraph.Height(10),
		asciigraph.Caption("hits per column, real axis left to right"),
	))
	fmt.Println()
	fmt.Println(asciigraph.Plot(analysis.Downsample(analysis.RowProfile(res.snap), 80),
		asciigraph.Height(10),
		asciigraph.Caption("hits per row, imaginary axis bottom to top"),
	))

	fmt.Printf("\n%d passes in %v on %s\n", cfg.Passes, res.elapsed.Round(time.Millisecond), res.backend)
	printStats(analysis.Compute(res.snap).Map())

	if svgDir != "" {
		if err := writeSVGs(svgDir, res.snap, in); err != nil {
			return err
		}
		fmt.Printf("\nwrote charts to %s\n", svgDir)
	}
	return nil
}

// writeSVGs saves the three profiles as line charts and a dithered preview.
func writeSVGs(dir string, snap *histogram.Snapshot, in *render.Intensity) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	stroke := string(viz.CurrentTheme.Primary)

	charts := map[string][]float64{
		"levels.svg":  analysis.LevelDistribution(in),
		"columns.svg": analysis.ColumnProfile(snap),
		"rows.svg":    analysis.RowProfile(snap),
	}
	for name, data := range charts {
		if err := export.WriteFile(filepath.Join(dir, name), export.ChartToSVG(data, 800, 300, stroke)); err != nil {
			return err
		}
	}

	canvas := viz.NewCanvas(100, 50)
	dw, dh := canvas.DotSize()
	canvas.Plot(render.FromImage(render.Resample(in.Gray(), dw, dh)))
	return export.WriteFile(filepath.Join(dir, "preview.svg"), export.CanvasToSVG(canvas, 4, stroke))
}
