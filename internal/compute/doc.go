// Package compute provides the execution backends for accumulation dispatches.
//
// Two backends implement [Backend]:
//
//   - CPU: samples split over worker goroutines sharing one atomic histogram
//   - OpenGL: a GLSL 4.3 compute shader with an atomic counter buffer
//
// # Dispatch
//
//	backend := compute.NewCPUBackend(0)
//	_ = backend.Init(800, 800)
//	err := backend.Dispatch(ctx, compute.Job{Samples: seeds, Region: r, Tracer: tr})
//	snap, _ := backend.Snapshot()
//
// Dispatch is synchronous. Within a dispatch invocations run in no particular
// order; increments commute, so the result does not depend on scheduling.
//
// # GPU Acceleration
//
// The OpenGL backend must be created and used on the goroutine that owns a
// current OpenGL 4.3 context (the window front end). Shader compile or link
// failures are returned from Init as resource errors and are not retried.
package compute
