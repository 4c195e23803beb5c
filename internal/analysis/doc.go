// Package analysis post-processes recorded order-parameter trajectories.
//
// The package includes:
//
//   - [RSeries]: magnitude of the centroid at every step
//   - [Stats]: mean and population standard deviation
//   - [CentroidSpeed]: |Δcentroid|/dt between consecutive steps
//   - [Score]: distance of a trajectory from a target R profile
//   - [CriticalCoupling]: onset of synchronization for normal frequencies
//   - [TooSimple]: flags trajectories not worth keeping in a study
//   - [DominantFrequency]: strongest oscillation in a series
//
// # Search objective
//
// Score is what parameter searches minimise:
//
//	score := analysis.Score(comX, comY, dt, analysis.DefaultScoreTarget())
package analysis
