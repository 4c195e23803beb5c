package optim

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/ksim/internal/analysis"
	"github.com/san-kum/ksim/internal/experiment"
	"github.com/san-kum/ksim/internal/kuramoto"
)

func smallParams() kuramoto.Params {
	p := kuramoto.DefaultParams()
	p.N = 8
	p.LoopCount = 50
	p.Seed = 3
	return p
}

func TestSweepGridOrder(t *testing.T) {
	ns := []int{4, 8}
	ks := []float64{0, 1, 2}

	rows, err := Sweep(context.Background(), smallParams(), ns, ks, 4)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if len(rows) != 6 {
		t.Fatalf("rows = %d, want 6", len(rows))
	}
	i := 0
	for _, n := range ns {
		for _, k := range ks {
			if rows[i].N != n || rows[i].K != k || rows[i].Seed != 3 {
				t.Errorf("row %d = %+v, want n=%d k=%g", i, rows[i], n, k)
			}
			if rows[i].RMean < 0 || rows[i].RMean > 1 {
				t.Errorf("row %d r_mean = %v", i, rows[i].RMean)
			}
			if rows[i].Score < 1 {
				t.Errorf("row %d score = %v, want >= 1", i, rows[i].Score)
			}
			i++
		}
	}
}

func TestSweepMatchesSerial(t *testing.T) {
	base := smallParams()
	ks := []float64{0.5, 1.5, 2.5, 3.5}

	parallel, err := Sweep(context.Background(), base, []int{6}, ks, 4)
	if err != nil {
		t.Fatal(err)
	}
	for i, k := range ks {
		p := base
		p.N, p.K = 6, k
		result, err := experiment.Simulate(p)
		if err != nil {
			t.Fatal(err)
		}
		if parallel[i].RMean != result.Metrics["r_mean"] {
			t.Errorf("k=%g: parallel r_mean %v != serial %v", k, parallel[i].RMean, result.Metrics["r_mean"])
		}
	}
}

func TestSweepMarksTooSimple(t *testing.T) {
	base := smallParams()
	base.N = 20
	base.LoopCount = 400

	rows, err := Sweep(context.Background(), base, []int{20}, []float64{0, 20}, 2)
	if err != nil {
		t.Fatal(err)
	}
	for i, r := range rows {
		if r.Skip != analysis.TooSimple(r.RMean, r.RStd) {
			t.Errorf("row %d skip = %v for r_mean %v r_std %v", i, r.Skip, r.RMean, r.RStd)
		}
	}
	if !rows[1].Skip {
		t.Errorf("strongly coupled row should lock and be skipped: %+v", rows[1])
	}
}

func TestSweepRejectsInvalidPoint(t *testing.T) {
	_, err := Sweep(context.Background(), smallParams(), []int{0}, []float64{1}, 1)
	if !errors.Is(err, kuramoto.ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter, got %v", err)
	}
}

func TestSweepCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Sweep(ctx, smallParams(), []int{4}, []float64{1, 2}, 1)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestSearch(t *testing.T) {
	res, err := Search(context.Background(), smallParams(), 0, 4, 5, analysis.DefaultScoreTarget(), 2)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(res.Rows) != 5 {
		t.Fatalf("rows = %d, want 5", len(res.Rows))
	}
	for i, want := range []float64{0, 1, 2, 3, 4} {
		if res.Rows[i].K != want {
			t.Errorf("row %d k = %v, want %v", i, res.Rows[i].K, want)
		}
		if res.Rows[i].Score < res.Best.Score {
			t.Errorf("row %d scores below reported best", i)
		}
	}
}

func TestSearchSingleStep(t *testing.T) {
	res, err := Search(context.Background(), smallParams(), 2, 9, 1, analysis.DefaultScoreTarget(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Rows) != 1 || res.Best.K != 2 {
		t.Errorf("single step search = %+v", res)
	}
}

func TestSearchRejects(t *testing.T) {
	target := analysis.DefaultScoreTarget()
	if _, err := Search(context.Background(), smallParams(), 0, 1, 0, target, 1); !errors.Is(err, kuramoto.ErrInvalidParameter) {
		t.Errorf("steps=0: got %v", err)
	}
	if _, err := Search(context.Background(), smallParams(), 3, 1, 4, target, 1); !errors.Is(err, kuramoto.ErrInvalidParameter) {
		t.Errorf("k_max<k_min: got %v", err)
	}
}

func TestGridSearch(t *testing.T) {
	gs := NewGridSearch([]string{"k", "sigma"}, [][]float64{{0, 8}, {0.1, 5}})

	best, val, err := gs.Search(context.Background(), ExperimentBuilder(smallParams()), "r_mean")
	if err != nil {
		t.Fatal(err)
	}
	if best == nil {
		t.Fatal("no best point")
	}
	if _, ok := best["k"]; !ok {
		t.Errorf("best point missing k: %v", best)
	}
	if val < 0 || val > 1 {
		t.Errorf("best r_mean = %v", val)
	}
}

func TestGridSearchSkipsInvalidPoints(t *testing.T) {
	gs := NewGridSearch([]string{"n"}, [][]float64{{0, 5}})

	best, _, err := gs.Search(context.Background(), ExperimentBuilder(smallParams()), "r_mean")
	if err != nil {
		t.Fatal(err)
	}
	if best["n"] != 5 {
		t.Errorf("best = %v, want the only valid point n=5", best)
	}
}

func TestGridSearchMismatchedRanges(t *testing.T) {
	gs := NewGridSearch([]string{"k", "mu"}, [][]float64{{1}})
	if _, _, err := gs.Search(context.Background(), ExperimentBuilder(smallParams()), "r_mean"); err == nil {
		t.Error("expected error for mismatched names and ranges")
	}
}

func TestGridSearchRecordsPoints(t *testing.T) {
	gs := NewGridSearch([]string{"k", "n"}, [][]float64{{0, 2, 4}, {4, 6}})

	best, val, err := gs.Search(context.Background(), ExperimentBuilder(smallParams()), ScoreMetric)
	if err != nil {
		t.Fatal(err)
	}
	points := gs.Points()
	if len(points) != 6 {
		t.Fatalf("points = %d, want 6", len(points))
	}
	if points[0].Values["k"] != 0 || points[0].Values["n"] != 4 || points[1].Values["n"] != 6 {
		t.Errorf("points not in walk order: %v, %v", points[0].Values, points[1].Values)
	}
	for i, pt := range points {
		if pt.Value < 1 {
			t.Errorf("point %d score = %v, want >= 1", i, pt.Value)
		}
		if pt.Value < val {
			t.Errorf("point %d scores below reported best", i)
		}
	}
	if best["k"] < 0 || best["n"] == 0 {
		t.Errorf("best = %v", best)
	}
}

func TestParseAxis(t *testing.T) {
	name, values, err := ParseAxis("k=0:2:5")
	if err != nil {
		t.Fatal(err)
	}
	if name != "k" || len(values) != 5 || values[0] != 0 || values[2] != 1 || values[4] != 2 {
		t.Errorf("range axis = %s %v", name, values)
	}

	name, values, err = ParseAxis("sigma=0.5, 1,2")
	if err != nil {
		t.Fatal(err)
	}
	if name != "sigma" || len(values) != 3 || values[0] != 0.5 || values[2] != 2 {
		t.Errorf("list axis = %s %v", name, values)
	}

	for _, bad := range []string{"k", "=1,2", "k=", "k=a,b", "k=2:1:3", "k=0:1:0"} {
		if _, _, err := ParseAxis(bad); err == nil {
			t.Errorf("ParseAxis(%q) accepted", bad)
		}
	}
}

func TestRatioCouplings(t *testing.T) {
	ks, err := RatioCouplings(1, []float64{0.5, 1, 2})
	if err != nil {
		t.Fatal(err)
	}
	kc := analysis.CriticalCoupling(1)
	for i, r := range []float64{0.5, 1, 2} {
		if ks[i] != r*kc {
			t.Errorf("ks[%d] = %v, want %v", i, ks[i], r*kc)
		}
	}

	if _, err := RatioCouplings(0, []float64{0.5, 1, 2}); !errors.Is(err, kuramoto.ErrInvalidParameter) {
		t.Errorf("sigma=0: got %v, want ErrInvalidParameter", err)
	}
}

func TestApplyParams(t *testing.T) {
	p, err := ApplyParams(smallParams(), map[string]float64{"n": 12, "k": 2.5, "time_delta": 0.05})
	if err != nil {
		t.Fatal(err)
	}
	if p.N != 12 || p.K != 2.5 || p.Dt != 0.05 {
		t.Errorf("ApplyParams() = %+v", p)
	}
	if _, err := ApplyParams(p, map[string]float64{"seed": 1}); !errors.Is(err, kuramoto.ErrInvalidParameter) {
		t.Errorf("unknown name: got %v", err)
	}
}

func TestReplicateSeeds(t *testing.T) {
	base := smallParams()
	rows, err := Replicate(context.Background(), base, 4, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 4 {
		t.Fatalf("rows = %d, want 4", len(rows))
	}
	for i, r := range rows {
		if r.Seed != base.Seed+uint64(i) {
			t.Errorf("row %d seed = %d", i, r.Seed)
		}
	}
	if rows[0].RMean == rows[1].RMean {
		t.Error("different seeds produced identical runs")
	}

	s := RMeanSpread(rows)
	if s.Min > s.Mean || s.Mean > s.Max || s.Std < 0 {
		t.Errorf("inconsistent spread %+v", s)
	}
}

func TestReplicateRejects(t *testing.T) {
	if _, err := Replicate(context.Background(), smallParams(), 0, 1); !errors.Is(err, kuramoto.ErrInvalidParameter) {
		t.Errorf("runs=0: got %v", err)
	}
	if s := RMeanSpread(nil); s != (Spread{}) {
		t.Errorf("empty spread = %+v", s)
	}
}
