package kuramoto

import "math"

const (
	DefaultN         = 30
	DefaultK         = 4.0
	DefaultDt        = 0.01
	DefaultLoopCount = 1000
	DefaultMu        = 1.0
	DefaultSigma     = 1.0
)

// Params is the immutable description of one run.
type Params struct {
	N         int     `json:"n"`
	K         float64 `json:"k"`
	Dt        float64 `json:"time_delta"`
	LoopCount int     `json:"loop_count"`
	Mu        float64 `json:"mu"`
	Sigma     float64 `json:"sigma"`
	Seed      uint64  `json:"seed"`
	Coupling  string  `json:"coupling"`
}

// DefaultParams mirrors the reference driver. Seed is left at zero; callers
// that want a time-based seed set it themselves.
func DefaultParams() Params {
	return Params{
		N:         DefaultN,
		K:         DefaultK,
		Dt:        DefaultDt,
		LoopCount: DefaultLoopCount,
		Mu:        DefaultMu,
		Sigma:     DefaultSigma,
		Coupling:  MeanFieldName,
	}
}

// Validate reports the first parameter that would make the run degenerate.
func (p Params) Validate() error {
	if p.N <= 0 {
		return invalid("n", p.N, "must be positive")
	}
	if !(p.Dt > 0) || math.IsInf(p.Dt, 0) {
		return invalid("time_delta", p.Dt, "must be positive and finite")
	}
	if p.LoopCount < 0 {
		return invalid("loop_count", p.LoopCount, "must be non-negative")
	}
	if p.Sigma < 0 || math.IsNaN(p.Sigma) || math.IsInf(p.Sigma, 0) {
		return invalid("sigma", p.Sigma, "must be non-negative and finite")
	}
	if math.IsNaN(p.Mu) || math.IsInf(p.Mu, 0) {
		return invalid("mu", p.Mu, "must be finite")
	}
	if math.IsNaN(p.K) || math.IsInf(p.K, 0) {
		return invalid("k", p.K, "must be finite")
	}
	if p.Coupling != "" {
		if _, err := CouplingByName(p.Coupling); err != nil {
			return err
		}
	}
	return nil
}
