// Package analysis extracts periodicity and sensitivity from recorded
// trajectories.
//
//   - [FFT], [PowerSpectrum]: spectrum of a sampled coordinate
//   - [DominantPeriod]: period of a coordinate from its autocorrelation
//   - [Crossings]: upward level crossings, for counting cycles
//   - [Sensitivity]: growth rate of a small perturbation between two worlds
//   - [TrajectoryToASCII]: terminal plot of a particle's path
//
// # Periodicity
//
// A crank-driven linkage settles onto a closed coupler curve whose period
// equals the crank period:
//
//	xs, _ := result.Series(0)
//	period, err := analysis.DominantPeriod(xs[skip:], dt)
package analysis
