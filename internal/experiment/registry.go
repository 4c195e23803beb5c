package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/ksim/internal/integrators"
	"github.com/san-kum/ksim/internal/kuramoto"
	"github.com/san-kum/ksim/internal/metrics"
	"github.com/san-kum/ksim/internal/sim"
)

type Registry struct {
	couplings   map[string]func() kuramoto.Coupling
	integrators map[string]func() sim.Integrator
}

func NewRegistry() *Registry {
	r := &Registry{
		couplings:   make(map[string]func() kuramoto.Coupling),
		integrators: make(map[string]func() sim.Integrator),
	}

	for _, name := range kuramoto.CouplingNames() {
		r.couplings[name] = func() kuramoto.Coupling {
			c, _ := kuramoto.CouplingByName(name)
			return c
		}
	}

	r.integrators["euler"] = func() sim.Integrator { return integrators.NewEuler() }

	return r
}

func (r *Registry) GetCoupling(name string) (kuramoto.Coupling, error) {
	if name == "" {
		name = kuramoto.MeanFieldName
	}
	fn, ok := r.couplings[name]
	if !ok {
		return nil, fmt.Errorf("unknown coupling: %s", name)
	}
	return fn(), nil
}

func (r *Registry) GetIntegrator(name string) (sim.Integrator, error) {
	if name == "" {
		name = "euler"
	}
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListCouplings() []string {
	names := make([]string, 0, len(r.couplings))
	for name := range r.couplings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) DefaultMetrics(dt float64) []sim.Metric {
	return []sim.Metric{
		metrics.NewMeanR(),
		metrics.NewStdR(),
		metrics.NewFinalR(),
		metrics.NewSpeedStd(dt),
	}
}
