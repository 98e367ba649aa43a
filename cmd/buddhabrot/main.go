package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/buddhabrot/internal/buddha"
	"github.com/san-kum/buddhabrot/internal/config"
	"github.com/san-kum/buddhabrot/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	verbose    bool

	width        int
	height       int
	samples      int
	iterations   uint32
	escapeRadius float64
	region       string
	policy       string
	strategy     string
	seedMode     string
	accumulation string
	constRe      float64
	constIm      float64
	passes       int
	workers      int
	backend      string
	seed         uint64
	zoom         float64

	outFile string
	runName string
	format  string
	mode    string
	scale   int

	theme    string
	addr     string
	interval time.Duration
	origins  []string

	previewWidth int
	svgDir       string

	reMin, reMax float64
	imMin, imMax float64
	steps        int
	objective    string
	top          int
	parallel     int
)

// main registers the commands and exits with status 1 when one fails.
func main() {
	rootCmd := &cobra.Command{
		Use:           "buddhabrot",
		Short:         "buddhabrot and anti-buddhabrot orbit density renderer",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			buddha.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultOutputDir, "run store directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "start from a preset configuration")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "accumulate passes and export an image",
		Args:  cobra.NoArgs,
		RunE:  runRender,
	}
	addRenderFlags(renderCmd)
	addOutputFlags(renderCmd)
	renderCmd.Flags().StringVarP(&outFile, "output", "o", "", "write the image here instead of the run store")
	renderCmd.Flags().StringVar(&runName, "name", "", "run name in the store (defaults to the preset or \"render\")")

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "render without saving and print histogram statistics",
		Args:  cobra.NoArgs,
		RunE:  runStats,
	}
	addRenderFlags(statsCmd)
	statsCmd.Flags().StringVar(&svgDir, "svg", "", "also write svg charts and a preview into this directory")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "search a grid of fixed values for the most structured render",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addRenderFlags(sweepCmd)
	sweepCmd.Flags().Float64Var(&reMin, "re-min", -1, "lowest real part")
	sweepCmd.Flags().Float64Var(&reMax, "re-max", 0.5, "highest real part")
	sweepCmd.Flags().Float64Var(&imMin, "im-min", 0, "lowest imaginary part")
	sweepCmd.Flags().Float64Var(&imMax, "im-max", 1, "highest imaginary part")
	sweepCmd.Flags().IntVar(&steps, "steps", 5, "grid points per axis")
	sweepCmd.Flags().StringVar(&objective, "objective", "entropy", "score to maximize")
	sweepCmd.Flags().IntVar(&top, "top", 10, "candidates to print")
	sweepCmd.Flags().IntVar(&parallel, "parallel", 0, "concurrent renders (0 = all cores)")

	exploreCmd := &cobra.Command{
		Use:   "explore",
		Short: "interactive terminal explorer",
		Args:  cobra.NoArgs,
		RunE:  runExplore,
	}
	addRenderFlags(exploreCmd)
	exploreCmd.Flags().StringVar(&theme, "theme", "", fmt.Sprintf("colour theme %v", viz.ThemeNames()))

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "interactive window explorer",
		Args:  cobra.NoArgs,
		RunE:  runGUI,
	}
	addRenderFlags(guiCmd)

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the explorer over websocket with prometheus metrics",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	addRenderFlags(serveCmd)
	serveCmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	serveCmd.Flags().DurationVar(&interval, "interval", 50*time.Millisecond, "frame period per client")
	serveCmd.Flags().StringSliceVar(&origins, "origin", nil, "allowed websocket origin patterns")
	serveCmd.Flags().StringVar(&mode, "mode", "", "frame mode: gray, rgb or alpha")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show run metadata and a preview",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}
	showCmd.Flags().IntVar(&previewWidth, "width", 72, "preview width in characters")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "print run metadata as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "measure cpu backend throughput",
		Args:  cobra.NoArgs,
		RunE:  runBench,
	}

	batchCmd := &cobra.Command{
		Use:   "batch [scenario.yaml]",
		Short: "render every step of a yaml scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				fmt.Printf("  %-12s %s\n", name, config.Presets[name].Description)
			}
			return nil
		},
	}

	initCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write the resolved configuration to a yaml file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := config.Save(args[0], cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}

	rootCmd.AddCommand(renderCmd, statsCmd, sweepCmd, exploreCmd, guiCmd, serveCmd, listCmd, showCmd, exportCmd, benchCmd, batchCmd, presetsCmd, initCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addRenderFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.IntVar(&width, "width", config.DefaultWidth, "histogram width")
	f.IntVar(&height, "height", config.DefaultHeight, "histogram height")
	f.IntVar(&samples, "samples", config.DefaultSampleCount, "samples per pass")
	f.Uint32Var(&iterations, "iterations", config.DefaultMaxIterations, "maximum iterations per orbit")
	f.Float64Var(&escapeRadius, "escape", config.DefaultEscapeRadius, "escape radius")
	f.StringVar(&region, "region", "", "named plane region")
	f.StringVar(&policy, "policy", "", "orbit policy: escaping or non-escaping")
	f.StringVar(&strategy, "strategy", "", "sample strategy: per-dispatch or persistent")
	f.StringVar(&seedMode, "seed-mode", "", "random-constant or random-seed")
	f.StringVar(&accumulation, "accumulation", "", "progressive or per-pass")
	f.Float64Var(&constRe, "cre", 0, "real part of the fixed value")
	f.Float64Var(&constIm, "cim", 0, "imaginary part of the fixed value")
	f.IntVar(&passes, "passes", config.DefaultPasses, "passes to accumulate")
	f.IntVar(&workers, "workers", 0, "cpu workers (0 = all cores)")
	f.StringVar(&backend, "backend", "", "compute backend: auto, cpu or gl")
	f.Uint64Var(&seed, "seed", 0, "sampler seed (0 = random)")
	f.Float64Var(&zoom, "zoom", 1, "zoom around the region centre")
}

func addOutputFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&format, "format", "", "image format: png, tiff or bmp")
	f.StringVar(&mode, "mode", "", "image mode: gray, rgb or alpha")
	f.IntVar(&scale, "scale", 1, "integer upscale factor")
}

// loadConfig resolves preset, config file, environment and flags, in that
// order of precedence from lowest to highest.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("width") {
		cfg.Width = width
	}
	if f.Changed("height") {
		cfg.Height = height
	}
	if f.Changed("samples") {
		cfg.SampleCount = samples
	}
	if f.Changed("iterations") {
		cfg.MaxIterations = iterations
	}
	if f.Changed("escape") {
		cfg.EscapeRadius = escapeRadius
	}
	if f.Changed("region") {
		cfg.Region = region
	}
	if f.Changed("policy") {
		cfg.OrbitPolicy = policy
	}
	if f.Changed("strategy") {
		cfg.SampleStrategy = strategy
	}
	if f.Changed("seed-mode") {
		cfg.SeedMode = seedMode
	}
	if f.Changed("accumulation") {
		cfg.Accumulation = accumulation
	}
	if f.Changed("cre") {
		cfg.Constant.Re = constRe
	}
	if f.Changed("cim") {
		cfg.Constant.Im = constIm
	}
	if f.Changed("passes") {
		cfg.Passes = passes
	}
	if f.Changed("workers") {
		cfg.Workers = workers
	}
	if f.Changed("backend") {
		cfg.Backend = backend
	}
	if f.Changed("seed") {
		cfg.Seed = seed
	}
	if f.Changed("zoom") {
		cfg.View.Zoom = zoom
	}
	if f.Changed("format") {
		cfg.Output.Format = format
	}
	if f.Changed("mode") {
		cfg.Output.Mode = mode
	}
	if f.Changed("scale") {
		cfg.Output.Scale = scale
	}
	if f.Changed("data") {
		cfg.Output.Dir = dataDir
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}
