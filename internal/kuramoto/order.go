package kuramoto

import "math"

// OrderParameter is the centroid of the phases on the unit circle.
// X and Y are the raw centroid coordinates; R is its magnitude clamped to
// [0, 1] and Phase its argument.
type OrderParameter struct {
	X     float64
	Y     float64
	R     float64
	Phase float64
}

// ComputeOrderParameter reduces theta to its centroid. theta must be non-empty.
func ComputeOrderParameter(theta []float64) OrderParameter {
	var sx, sy float64
	for _, th := range theta {
		s, c := math.Sincos(th)
		sx += c
		sy += s
	}
	n := float64(len(theta))
	return FromCentroid(sx/n, sy/n)
}

// FromCentroid derives R and Phase from centroid coordinates.
func FromCentroid(x, y float64) OrderParameter {
	r := math.Hypot(x, y)
	if r > 1 {
		r = 1
	}
	return OrderParameter{
		X:     x,
		Y:     y,
		R:     r,
		Phase: math.Atan2(y, x),
	}
}

func (op OrderParameter) IsFinite() bool {
	return !math.IsNaN(op.X) && !math.IsInf(op.X, 0) &&
		!math.IsNaN(op.Y) && !math.IsInf(op.Y, 0)
}
