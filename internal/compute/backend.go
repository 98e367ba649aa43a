package compute

import (
	"context"
	"fmt"
	"strings"

	"github.com/san-kum/buddhabrot/internal/histogram"
	"github.com/san-kum/buddhabrot/internal/orbit"
	"github.com/san-kum/buddhabrot/internal/plane"
)

// Job is one accumulation dispatch: every sample is traced, filtered by the
// tracer's policy and its orbit projected into the backend's histogram.
type Job struct {
	Samples []complex128
	Region  plane.Region
	Tracer  orbit.Tracer
}

// Backend executes dispatches against a histogram it owns.
//
// Dispatch returns only after every invocation of the job has finished, so a
// following Clear or Snapshot always observes the complete dispatch.
type Backend interface {
	histogram.Accumulator

	Name() string
	Available() bool
	Init(width, height int) error
	Dispatch(ctx context.Context, job Job) error
	Cleanup()
}

// Names lists the backends New understands.
func Names() []string {
	return []string{"auto", "cpu", "gl"}
}

// New returns the backend called name. "auto" picks CPU; the GL backend needs
// a current OpenGL 4.3 context and is only offered by the window front end.
func New(name string, workers int) (Backend, error) {
	switch strings.ToLower(name) {
	case "", "auto", "cpu":
		return NewCPUBackend(workers), nil
	case "gl", "opengl":
		return NewOpenGLBackend(), nil
	}
	return nil, fmt.Errorf("unknown backend: %s (available: %v)", name, Names())
}
