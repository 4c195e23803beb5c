package kuramoto

import (
	"fmt"
	"math"
	"sort"
)

const (
	MeanFieldName = "mean-field"
	PairwiseName  = "pairwise"
)

// Coupling computes dtheta for every oscillator from a read-only snapshot of
// theta. Implementations must not modify omega or theta; the caller applies
// dtheta only after Derivative returns, which keeps the update synchronous.
type Coupling interface {
	Name() string
	Derivative(omega, theta []float64, k float64, op OrderParameter, dtheta []float64)
}

// MeanField uses the step's order parameter: O(N) per step.
type MeanField struct{}

func NewMeanField() *MeanField { return &MeanField{} }

func (MeanField) Name() string { return MeanFieldName }

func (MeanField) Derivative(omega, theta []float64, k float64, op OrderParameter, dtheta []float64) {
	kr := k * op.R
	for j := range theta {
		dtheta[j] = omega[j] + kr*math.Sin(op.Phase-theta[j])
	}
}

// Pairwise sums the interaction of every ordered pair directly: O(N²) per
// step. It ignores op.
type Pairwise struct{}

func NewPairwise() *Pairwise { return &Pairwise{} }

func (Pairwise) Name() string { return PairwiseName }

func (Pairwise) Derivative(omega, theta []float64, k float64, _ OrderParameter, dtheta []float64) {
	n := float64(len(theta))
	for j, thj := range theta {
		sum := 0.0
		for _, thi := range theta {
			sum += math.Sin(thi - thj)
		}
		dtheta[j] = omega[j] + k/n*sum
	}
}

var couplings = map[string]func() Coupling{
	MeanFieldName: func() Coupling { return NewMeanField() },
	PairwiseName:  func() Coupling { return NewPairwise() },
}

// CouplingByName returns a fresh strategy. The empty name selects mean-field.
func CouplingByName(name string) (Coupling, error) {
	if name == "" {
		name = MeanFieldName
	}
	fn, ok := couplings[name]
	if !ok {
		return nil, invalid("coupling", name, fmt.Sprintf("unknown (available: %v)", CouplingNames()))
	}
	return fn(), nil
}

func CouplingNames() []string {
	names := make([]string, 0, len(couplings))
	for name := range couplings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
