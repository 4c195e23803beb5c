package optim

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/ksim/internal/analysis"
	"github.com/san-kum/ksim/internal/experiment"
	"github.com/san-kum/ksim/internal/kuramoto"
)

// SweepRow summarises one run of a sweep or search. Skip marks a
// trajectory analysis.TooSimple considers uninteresting.
type SweepRow struct {
	N     int
	K     float64
	Seed  uint64
	RMean float64
	RStd  float64
	Score float64
	Skip  bool
}

type SearchResult struct {
	Rows []SweepRow
	Best SweepRow
}

// Sweep runs base once for every (n, k) pair, n-major. Every run shares
// base.Seed. At most workers runs execute at a time; rows are returned in
// grid order regardless.
func Sweep(ctx context.Context, base kuramoto.Params, ns []int, ks []float64, workers int) ([]SweepRow, error) {
	points := make([]kuramoto.Params, 0, len(ns)*len(ks))
	for _, n := range ns {
		for _, k := range ks {
			p := base
			p.N, p.K = n, k
			if err := p.Validate(); err != nil {
				return nil, fmt.Errorf("sweep point n=%d k=%g: %w", n, k, err)
			}
			points = append(points, p)
		}
	}
	return runAll(ctx, points, analysis.DefaultScoreTarget(), workers)
}

// RatioCouplings turns multiples of the critical coupling for sigma into
// absolute couplings. It fails when sigma is 0, where every ratio would
// collapse to k = 0.
func RatioCouplings(sigma float64, ratios []float64) ([]float64, error) {
	kc := analysis.CriticalCoupling(sigma)
	if kc <= 0 {
		return nil, &kuramoto.ParameterError{Name: "sigma", Value: sigma, Reason: "k ratios need a positive frequency spread"}
	}
	ks := make([]float64, len(ratios))
	for i, r := range ratios {
		ks[i] = r * kc
	}
	return ks, nil
}

// Search scores steps evenly spaced couplings in [kMin, kMax] against
// target and reports the lowest score.
func Search(ctx context.Context, base kuramoto.Params, kMin, kMax float64, steps int, target analysis.ScoreTarget, workers int) (*SearchResult, error) {
	if steps < 1 {
		return nil, &kuramoto.ParameterError{Name: "steps", Value: steps, Reason: "must be positive"}
	}
	if kMax < kMin {
		return nil, &kuramoto.ParameterError{Name: "k_max", Value: kMax, Reason: fmt.Sprintf("must not be below k_min %g", kMin)}
	}
	if err := base.Validate(); err != nil {
		return nil, err
	}

	points := make([]kuramoto.Params, steps)
	for i := range points {
		points[i] = base
		points[i].K = linspace(kMin, kMax, steps, i)
	}

	rows, err := runAll(ctx, points, target, workers)
	if err != nil {
		return nil, err
	}

	best := rows[0]
	for _, r := range rows[1:] {
		if r.Score < best.Score {
			best = r
		}
	}
	return &SearchResult{Rows: rows, Best: best}, nil
}

func runAll(ctx context.Context, points []kuramoto.Params, target analysis.ScoreTarget, workers int) ([]SweepRow, error) {
	if workers < 1 {
		workers = 1
	}
	rows := make([]SweepRow, len(points))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, p := range points {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			row, err := runPoint(p, target)
			if err != nil {
				return fmt.Errorf("run n=%d k=%g: %w", p.N, p.K, err)
			}
			rows[i] = row
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rows, nil
}

func runPoint(p kuramoto.Params, target analysis.ScoreTarget) (SweepRow, error) {
	result, err := experiment.Simulate(p)
	if err != nil {
		return SweepRow{}, err
	}
	rMean, rStd := result.Metrics["r_mean"], result.Metrics["r_std"]
	return SweepRow{
		N:     p.N,
		K:     p.K,
		Seed:  p.Seed,
		RMean: rMean,
		RStd:  rStd,
		Score: analysis.Score(result.ComX, result.ComY, p.Dt, target),
		Skip:  analysis.TooSimple(rMean, rStd),
	}, nil
}

func linspace(lo, hi float64, steps, i int) float64 {
	if steps == 1 {
		return lo
	}
	return lo + (hi-lo)*float64(i)/float64(steps-1)
}
