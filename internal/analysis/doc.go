// Package analysis characterizes orbits recorded from a running simulation.
//
//   - [Track]: trajectory of one body relative to the focus body
//   - [TrackToASCII]: plot of a track with the focus body at the origin
//   - [PowerSpectrum] and [DominantPeriod]: orbital period from a sampled
//     coordinate series
//
// # Period Estimation
//
// A closed orbit shows up as one dominant frequency in either coordinate
// of its track:
//
//	period, ok := analysis.DominantPeriod(track.Xs(), sampleEvery)
//	if ok {
//	    // period is in ticks
//	}
package analysis
