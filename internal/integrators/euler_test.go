package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/ksim/internal/sim"
)

func TestEulerStep(t *testing.T) {
	integ := NewEuler()
	x := sim.State{1, 2, 3}
	dx := sim.State{10, -10, 0}

	integ.Step(x, dx, 0.1)

	want := sim.State{2, 1, 3}
	for i := range x {
		if math.Abs(x[i]-want[i]) > 1e-12 {
			t.Errorf("x[%d] = %v, want %v", i, x[i], want[i])
		}
	}
	if dx[0] != 10 || dx[1] != -10 {
		t.Error("Step modified dx")
	}
}

func TestEulerDecay(t *testing.T) {
	integ := NewEuler()
	x := sim.State{1.0}
	dx := make(sim.State, 1)
	dt := 0.001

	for i := 0; i < 1000; i++ {
		dx[0] = -x[0]
		integ.Step(x, dx, dt)
	}

	expected := math.Exp(-1.0)
	if math.Abs(x[0]-expected) > 1e-3 {
		t.Errorf("expected ~%.4f, got %.4f", expected, x[0])
	}
}
