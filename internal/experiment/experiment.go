package experiment

import (
	"fmt"

	"github.com/san-kum/ksim/internal/kuramoto"
	"github.com/san-kum/ksim/internal/rng"
	"github.com/san-kum/ksim/internal/sim"
)

// Experiment wires one parameter set to a simulator. Parameters are
// validated before any buffer is allocated.
type Experiment struct {
	params    kuramoto.Params
	simulator *sim.Simulator
}

func New(params kuramoto.Params) (*Experiment, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Experiment{params: params}, nil
}

func (e *Experiment) Params() kuramoto.Params { return e.params }

// Setup draws the initial ensemble from the experiment's seed and prepares
// the simulator. Pass a nil ensemble to draw it.
func (e *Experiment) Setup(registry *Registry, ens *kuramoto.Ensemble, observers ...sim.Observer) error {
	coupling, err := registry.GetCoupling(e.params.Coupling)
	if err != nil {
		return err
	}
	integ, err := registry.GetIntegrator("euler")
	if err != nil {
		return err
	}

	if ens == nil {
		ens, err = kuramoto.Initialize(rng.New(e.params.Seed), e.params.N, e.params.Mu, e.params.Sigma)
		if err != nil {
			return err
		}
	} else if ens.Len() != e.params.N {
		return fmt.Errorf("%w: ensemble has %d oscillators, params say %d", kuramoto.ErrDimensionMismatch, ens.Len(), e.params.N)
	}

	s := sim.New(coupling, integ)
	for _, m := range registry.DefaultMetrics(e.params.Dt) {
		s.AddMetric(m)
	}
	for _, o := range observers {
		s.AddObserver(o)
	}

	cfg := sim.Config{K: e.params.K, Dt: e.params.Dt, LoopCount: e.params.LoopCount}
	if err := s.Initialize(ens, cfg); err != nil {
		return err
	}
	e.simulator = s
	return nil
}

func (e *Experiment) Run() (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Run()
}

// Simulate draws the ensemble from params.Seed and runs params.LoopCount
// steps. It returns the initial omega, final theta and the centroid
// trajectory in the Result.
func Simulate(params kuramoto.Params, observers ...sim.Observer) (*sim.Result, error) {
	exp, err := New(params)
	if err != nil {
		return nil, err
	}
	if err := exp.Setup(NewRegistry(), nil, observers...); err != nil {
		return nil, err
	}
	return exp.Run()
}

// SimulateFrom runs params against a caller-supplied ensemble; params.N,
// Mu, Sigma and Seed are not used to draw anything.
func SimulateFrom(params kuramoto.Params, ens *kuramoto.Ensemble, observers ...sim.Observer) (*sim.Result, error) {
	if ens == nil {
		return nil, fmt.Errorf("simulate: nil ensemble")
	}
	params.N = ens.Len()
	exp, err := New(params)
	if err != nil {
		return nil, err
	}
	if err := exp.Setup(NewRegistry(), ens, observers...); err != nil {
		return nil, err
	}
	return exp.Run()
}
