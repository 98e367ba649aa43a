// Package analysis summarizes accumulated histograms.
//
// The functions here are read-only: they take a snapshot or an intensity
// grid and return numbers or text suitable for terminal output.
//
// # Statistics
//
//	st := analysis.Compute(snap)
//	fmt.Printf("coverage %.1f%%\n", st.Coverage*100)
//
// # Convergence
//
// Progressive accumulation converges as passes are added. [Convergence]
// measures the mean absolute change between two normalized frames; values
// close to zero mean further passes barely change the image.
package analysis
