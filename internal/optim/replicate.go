package optim

import (
	"context"

	"github.com/san-kum/ksim/internal/analysis"
	"github.com/san-kum/ksim/internal/kuramoto"
)

// Replicate runs base with seeds base.Seed, base.Seed+1, ... and returns
// one row per seed in seed order.
func Replicate(ctx context.Context, base kuramoto.Params, runs, workers int) ([]SweepRow, error) {
	if runs < 1 {
		return nil, &kuramoto.ParameterError{Name: "runs", Value: runs, Reason: "must be positive"}
	}
	if err := base.Validate(); err != nil {
		return nil, err
	}

	points := make([]kuramoto.Params, runs)
	for i := range points {
		points[i] = base
		points[i].Seed = base.Seed + uint64(i)
	}
	return runAll(ctx, points, analysis.DefaultScoreTarget(), workers)
}

// Spread summarises a metric across replicates.
type Spread struct {
	Mean, Std, Min, Max float64
}

// RMeanSpread reports how the per-run mean R varies across rows.
func RMeanSpread(rows []SweepRow) Spread {
	if len(rows) == 0 {
		return Spread{}
	}
	vals := make([]float64, len(rows))
	s := Spread{Min: rows[0].RMean, Max: rows[0].RMean}
	for i, r := range rows {
		vals[i] = r.RMean
		s.Min = min(s.Min, r.RMean)
		s.Max = max(s.Max, r.RMean)
	}
	s.Mean, s.Std = analysis.Stats(vals)
	return s
}
