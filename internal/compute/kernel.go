package compute

import (
	"github.com/san-kum/buddhabrot/internal/histogram"
	"github.com/san-kum/buddhabrot/internal/plane"
)

// kernel is the per-invocation body shared by every CPU worker: trace one
// sample, keep it if the policy retains it, project and count its orbit.
type kernel struct {
	job  Job
	proj plane.Projector
	pass *histogram.Pass
}

func newKernel(job Job, width, height int, pass *histogram.Pass) kernel {
	return kernel{
		job:  job,
		proj: plane.NewProjector(job.Region, width, height),
		pass: pass,
	}
}

// run processes samples[start:end] and returns how many orbits were retained.
func (k kernel) run(start, end int, buf []complex128) ([]complex128, int) {
	retained := 0
	for _, s := range k.job.Samples[start:end] {
		orbit, ok := k.job.Tracer.Retained(s, buf)
		if !ok {
			continue
		}
		retained++
		for _, z := range orbit {
			if x, y, in := k.proj.Project(z); in {
				k.pass.Increment(x, y)
			}
		}
		buf = orbit[:0]
	}
	return buf, retained
}
