package sim

import (
	"fmt"

	"github.com/san-kum/ksim/internal/kuramoto"
)

// Phase is the lifecycle state of a Simulator.
type Phase int

const (
	Uninitialized Phase = iota
	Initialized
	Running
	Completed
)

func (p Phase) String() string {
	switch p {
	case Uninitialized:
		return "uninitialized"
	case Initialized:
		return "initialized"
	case Running:
		return "running"
	case Completed:
		return "completed"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Simulator drives one run: Uninitialized -> Initialized -> Running -> Completed.
// A Simulator is single use and not safe for concurrent use.
type Simulator struct {
	coupling   kuramoto.Coupling
	integrator Integrator
	metrics    []Metric
	observers  []Observer

	phase Phase
	cfg   Config
	ens   *kuramoto.Ensemble
}

func New(coupling kuramoto.Coupling, integrator Integrator) *Simulator {
	return &Simulator{
		coupling:   coupling,
		integrator: integrator,
		metrics:    make([]Metric, 0),
		observers:  make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Phase() Phase { return s.phase }

// Initialize takes a private copy of ens and validates cfg. Nothing is
// retained when validation fails.
func (s *Simulator) Initialize(ens *kuramoto.Ensemble, cfg Config) error {
	if s.phase != Uninitialized {
		return fmt.Errorf("%w: initialize from %s", ErrInvalidTransition, s.phase)
	}
	if ens == nil || ens.Len() == 0 {
		return fmt.Errorf("initialize: %w", &kuramoto.ParameterError{Name: "n", Value: 0, Reason: "must be positive"})
	}
	if len(ens.Omega) != len(ens.Theta) {
		return fmt.Errorf("initialize: %w", kuramoto.ErrDimensionMismatch)
	}
	if err := cfg.validate(); err != nil {
		return fmt.Errorf("initialize: %w", err)
	}

	s.ens = ens.Clone()
	s.cfg = cfg
	s.phase = Initialized
	return nil
}

// Run executes every step and hands the ensemble and trajectory over to the
// Result. Non-finite values do not stop the run; see Result.FirstNonFinite.
func (s *Simulator) Run() (*Result, error) {
	switch s.phase {
	case Uninitialized:
		return nil, ErrNotInitialized
	case Completed:
		return nil, ErrAlreadyCompleted
	case Running:
		return nil, fmt.Errorf("%w: run while running", ErrInvalidTransition)
	}
	s.phase = Running

	for _, m := range s.metrics {
		m.Reset()
	}

	omega := s.ens.Omega
	theta := State(s.ens.Theta)
	steps := s.cfg.LoopCount

	result := &Result{
		Omega:          omega,
		Theta:          theta,
		ComX:           make([]float64, steps),
		ComY:           make([]float64, steps),
		Metrics:        make(map[string]float64),
		Coupling:       s.coupling.Name(),
		FirstNonFinite: -1,
	}

	for _, obs := range s.observers {
		obs.OnStart(omega, theta)
	}

	dtheta := make(State, len(theta))
	for i := 0; i < steps; i++ {
		op := kuramoto.ComputeOrderParameter(theta)
		result.ComX[i] = op.X
		result.ComY[i] = op.Y

		for _, m := range s.metrics {
			m.Observe(i, op)
		}
		for _, obs := range s.observers {
			obs.OnStep(i, op)
		}

		// dtheta is filled from the pre-step snapshot before any phase moves.
		s.coupling.Derivative(omega, theta, s.cfg.K, op, dtheta)
		s.integrator.Step(theta, dtheta, s.cfg.Dt)
		result.StepsTaken++

		if result.FirstNonFinite < 0 && (!op.IsFinite() || !theta.IsValid()) {
			result.FirstNonFinite = i
		}
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	s.ens = nil
	s.phase = Completed
	return result, nil
}
