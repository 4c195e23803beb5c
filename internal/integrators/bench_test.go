package integrators

import (
	"testing"

	"github.com/san-kum/ksim/internal/sim"
)

func BenchmarkEuler(b *testing.B) {
	integrator := NewEuler()
	x := make(sim.State, 1024)
	dx := make(sim.State, 1024)
	for i := range dx {
		dx[i] = float64(i)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		integrator.Step(x, dx, 0.01)
	}
}
