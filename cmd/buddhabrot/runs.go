package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/buddhabrot/internal/analysis"
	"github.com/san-kum/buddhabrot/internal/buddha"
	"github.com/san-kum/buddhabrot/internal/compute"
	"github.com/san-kum/buddhabrot/internal/engine"
	"github.com/san-kum/buddhabrot/internal/metrics"
	"github.com/san-kum/buddhabrot/internal/plane"
	"github.com/san-kum/buddhabrot/internal/render"
	"github.com/san-kum/buddhabrot/internal/storage"
)

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tSIZE\tPASSES\tSAMPLES\tITER\tPOLICY\tMODE\tBACKEND\tELAPSED")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%dx%d\t%d\t%d\t%d\t%s\t%s\t%s\t%v\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Width, run.Height,
			run.Passes,
			run.SampleCount,
			run.MaxIterations,
			run.Policy,
			run.SeedMode,
			run.Backend,
			run.Elapsed.Round(time.Millisecond),
		)
	}

	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	img, err := st.LoadImage(runID)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("created: %s\n", meta.Timestamp.Format(time.RFC3339))
	fmt.Printf("size: %dx%d (%s)\n", meta.Width, meta.Height, meta.Image)
	fmt.Printf("passes: %d x %d samples, %d iterations, escape radius %g\n",
		meta.Passes, meta.SampleCount, meta.MaxIterations, meta.EscapeRadius)
	fmt.Printf("policy: %s, %s, %s, %s\n", meta.Policy, meta.SeedMode, meta.Strategy, meta.Accumulation)
	fmt.Printf("region: [%g, %g] x [%g, %g]\n", meta.Region.XMin, meta.Region.XMax, meta.Region.YMin, meta.Region.YMax)
	fmt.Printf("fixed value: %g%+gi\n", meta.ConstantRe, meta.ConstantIm)
	fmt.Printf("backend: %s in %v\n\n", meta.Backend, meta.Elapsed.Round(time.Millisecond))

	b := img.Bounds()
	rows := previewWidth * b.Dy() / b.Dx() / 2
	fmt.Println(analysis.ASCII(render.FromImage(img), previewWidth, max(rows, 1)))

	if len(meta.Stats) > 0 {
		printStats(meta.Stats)
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	return storage.WriteJSON(os.Stdout, meta)
}

// runBench measures cpu throughput for a range of worker counts and sample
// sizes on the classic Buddhabrot.
func runBench(cmd *cobra.Command, args []string) error {
	workerCounts := []int{1, 2, 4, runtime.NumCPU()}
	sampleCounts := []int{10000, 100000}
	const benchPasses = 3

	fmt.Printf("benchmarking cpu backend, %d cores\n\n", runtime.NumCPU())
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WORKERS\tSAMPLES\tPASSES\tPASS LATENCY\tSAMPLES/SEC")

	seen := map[int]bool{}
	for _, n := range workerCounts {
		if seen[n] {
			continue
		}
		seen[n] = true

		for _, count := range sampleCounts {
			settings := engine.Settings{
				Width:         400,
				Height:        400,
				SampleCount:   count,
				MaxIterations: 1000,
				EscapeRadius:  2,
				Policy:        buddha.Escaping,
				Mode:          buddha.RandomConstant,
				Strategy:      buddha.PerDispatch,
				Accumulation:  buddha.Progressive,
				Seed:          42,
			}
			eng, err := engine.New(settings, compute.NewCPUBackend(n))
			if err != nil {
				return err
			}
			set := metrics.Default()
			eng.AddObserver(set)

			_, err = eng.Run(context.Background(), engine.Params{Region: plane.Classic}, benchPasses)
			eng.Close()
			if err != nil {
				return err
			}

			v := set.Values()
			fmt.Fprintf(w, "%d\t%d\t%d\t%.2fms\t%.0f\n",
				n, count, benchPasses, v["pass_latency_ms"], v["samples_per_second"])
		}
	}

	return w.Flush()
}
