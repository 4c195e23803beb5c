package integrators

import "github.com/san-kum/ksim/internal/sim"

// Euler is the first-order explicit step x += dx * dt, applied in place.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(x, dx sim.State, dt float64) {
	for i := range x {
		x[i] += dx[i] * dt
	}
}
