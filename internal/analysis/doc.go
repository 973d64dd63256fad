// Package analysis turns finished runs into the statistics reported for
// a batch:
//
//   - [Fitness]: how much closer a vehicle ended to its light
//   - [ExploredFraction]: exploration count relative to the path's box
//   - [AverageDisplacement]: per-step mean distance from the origin
//   - [Summarize]: mean, median, extremes and spread of a sample
//   - [HistogramEdges], [Histogram]: shared binning across agent types
//
// Everything here works on plain slices and points, so results read back
// from storage can be analyzed without re-running a simulation.
package analysis
