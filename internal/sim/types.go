package sim

import (
	"math"

	"github.com/san-kum/ksim/internal/kuramoto"
)

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Integrator advances x in place by one step of size dt along dx.
type Integrator interface {
	Step(x, dx State, dt float64)
}

type Metric interface {
	Name() string
	Observe(step int, op kuramoto.OrderParameter)
	Value() float64
	Reset()
}

// Observer receives the initial ensemble once and every step's order
// parameter. Observers must not keep or modify the ensemble slices.
type Observer interface {
	OnStart(omega, theta []float64)
	OnStep(step int, op kuramoto.OrderParameter)
}

type Config struct {
	K         float64
	Dt        float64
	LoopCount int
}

func (c Config) validate() error {
	p := kuramoto.DefaultParams()
	p.K, p.Dt, p.LoopCount = c.K, c.Dt, c.LoopCount
	return p.Validate()
}

type Result struct {
	Omega []float64
	Theta []float64
	ComX  []float64
	ComY  []float64

	Metrics    map[string]float64
	StepsTaken int
	Coupling   string

	// FirstNonFinite is the first step whose centroid or post-step phases
	// held NaN or Inf, or -1.
	FirstNonFinite int
}

func (r *Result) Diverged() bool { return r.FirstNonFinite >= 0 }

// OrderParameter re-derives step i's order parameter from the recorded centroid.
func (r *Result) OrderParameter(i int) kuramoto.OrderParameter {
	return kuramoto.FromCentroid(r.ComX[i], r.ComY[i])
}

// RSeries returns the clamped R of every recorded step.
func (r *Result) RSeries() []float64 {
	out := make([]float64, len(r.ComX))
	for i := range out {
		out[i] = r.OrderParameter(i).R
	}
	return out
}
