// Package kuramoto holds the numerical core of the Kuramoto model.
//
// An ensemble of N phase oscillators, each with a natural frequency omega[j]
// and a phase theta[j], evolves as
//
//	dtheta[j]/dt = omega[j] + (k/N) * Σ_i sin(theta[i] - theta[j])
//
// The package provides:
//
//   - [Params]: validated simulation parameters
//   - [Initialize]: stochastic draw of the initial ensemble
//   - [ComputeOrderParameter]: the centroid of all phases on the unit circle
//   - [Coupling]: the phase-derivative strategy, as [MeanField] (O(N)) or
//     [Pairwise] (O(N²))
//
// # Order parameter clamping
//
// R is the magnitude of a mean of unit vectors and cannot exceed 1. Rounding
// can push the computed value a few ulps above 1, so [ComputeOrderParameter]
// clamps R to 1.0. The recorded centroid coordinates X and Y are left
// untouched.
//
// # Equivalence
//
// For a full mesh with uniform coupling the two strategies are the same
// function:
//
//	(k/N) * Σ_i sin(theta[i] - theta[j]) = k * R * sin(Θ - theta[j])
//
// [Pairwise] is kept as the ground truth that [MeanField] is checked against.
package kuramoto
