package kuramoto

import (
	"fmt"
	"math"

	"github.com/san-kum/ksim/internal/rng"
)

// Ensemble is the oscillator population. Index identity is oscillator
// identity: Omega[j] and Theta[j] belong to the same oscillator.
type Ensemble struct {
	Omega []float64
	Theta []float64
}

// NewEnsemble copies caller-supplied vectors into a new Ensemble.
func NewEnsemble(omega, theta []float64) (*Ensemble, error) {
	if len(omega) != len(theta) {
		return nil, fmt.Errorf("%w: len(omega)=%d len(theta)=%d", ErrDimensionMismatch, len(omega), len(theta))
	}
	if len(omega) == 0 {
		return nil, invalid("n", 0, "must be positive")
	}
	e := &Ensemble{
		Omega: make([]float64, len(omega)),
		Theta: make([]float64, len(theta)),
	}
	copy(e.Omega, omega)
	copy(e.Theta, theta)
	return e, nil
}

// Initialize draws omega[i] ~ N(mu, sigma²) and theta[i] ~ U[0, 2π) for each
// i in order, omega before theta, so a given seed always yields the same
// ensemble.
func Initialize(src *rng.Source, n int, mu, sigma float64) (*Ensemble, error) {
	if n <= 0 {
		return nil, invalid("n", n, "must be positive")
	}
	if sigma < 0 || math.IsNaN(sigma) {
		return nil, invalid("sigma", sigma, "must be non-negative")
	}

	e := &Ensemble{
		Omega: make([]float64, n),
		Theta: make([]float64, n),
	}
	for i := 0; i < n; i++ {
		e.Omega[i] = src.Normal(mu, sigma)
		e.Theta[i] = 2 * math.Pi * src.Uniform()
	}
	return e, nil
}

func (e *Ensemble) Len() int { return len(e.Theta) }

func (e *Ensemble) Clone() *Ensemble {
	c := &Ensemble{
		Omega: make([]float64, len(e.Omega)),
		Theta: make([]float64, len(e.Theta)),
	}
	copy(c.Omega, e.Omega)
	copy(c.Theta, e.Theta)
	return c
}
