// Package buddha holds the vocabulary shared by every stage of the renderer.
//
// The renderer samples the quadratic map z -> z^2 + c, keeps the orbits selected
// by an orbit [Policy] and accumulates their points into a density histogram:
//
//   - [Policy]: which orbits are retained (escaping or non-escaping)
//   - [SeedMode]: whether the sampled value is the starting point or the constant
//   - [Strategy]: per-dispatch resampling or a persistent sample buffer
//   - [Accumulation]: clear every pass or accumulate until the parameters change
//
// # Errors
//
// Configuration problems are reported as [*ConfigError] and match
// [ErrConfiguration]. Failures to bring up a compute backend, a window or an
// export target are reported as [*ResourceError] and match [ErrResourceInit].
//
// # Logging
//
// The package is silent by default. Install a logger with [SetLogger]; every
// other package logs through [Logger].
package buddha
