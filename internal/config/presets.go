package config

import (
	"sort"

	"github.com/san-kum/ksim/internal/analysis"
	"github.com/san-kum/ksim/internal/kuramoto"
)

// Presets only carry the run fields; sweep and search settings come from
// DefaultConfig.
var Presets = map[string]*Config{
	"default": {
		N: DefaultN, K: DefaultK, Dt: DefaultDt, LoopCount: DefaultLoopCount,
		Mu: DefaultMu, Sigma: DefaultSigma, Coupling: kuramoto.MeanFieldName,
	},
	"sync": {
		N: 50, K: 8, Dt: 0.01, LoopCount: 2000,
		Mu: 1, Sigma: 0.1, Coupling: kuramoto.MeanFieldName,
	},
	"incoherent": {
		N: 100, K: 0, Dt: 0.01, LoopCount: 1000,
		Mu: 1, Sigma: 5, Coupling: kuramoto.MeanFieldName,
	},
	"critical": {
		N: 200, K: analysis.CriticalCoupling(1), Dt: 0.01, LoopCount: 5000,
		Mu: 1, Sigma: 1, Coupling: kuramoto.MeanFieldName,
	},
	"crosscheck": {
		N: 5, K: 4, Dt: 0.01, LoopCount: 100,
		Mu: 1, Sigma: 1, Coupling: kuramoto.PairwiseName,
	},
}

// GetPreset returns a copy of the named preset merged over DefaultConfig,
// or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.N, cfg.K, cfg.Dt, cfg.LoopCount = p.N, p.K, p.Dt, p.LoopCount
	cfg.Mu, cfg.Sigma, cfg.Coupling = p.Mu, p.Sigma, p.Coupling
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
