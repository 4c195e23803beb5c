package optim

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/san-kum/ksim/internal/analysis"
	"github.com/san-kum/ksim/internal/experiment"
	"github.com/san-kum/ksim/internal/kuramoto"
	"github.com/san-kum/ksim/internal/sim"
)

// ScoreMetric selects analysis.Score against the default target as the
// grid objective.
const ScoreMetric = "score"

// GridPoint is one evaluated point of a grid search.
type GridPoint struct {
	Values map[string]float64
	Value  float64
}

// GridSearch walks the cartesian product of named parameter ranges and
// keeps the point with the lowest metric value.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	points     []GridPoint
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Search returns the best point and its metric value. Points whose
// experiment fails to build or run are skipped; a cancelled ctx stops the
// walk.
func (g *GridSearch) Search(
	ctx context.Context,
	buildExperiment func(params map[string]float64) (*experiment.Experiment, error),
	metricName string,
) (map[string]float64, float64, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, 0, fmt.Errorf("grid search: %d names for %d ranges", len(g.paramNames), len(g.ranges))
	}

	g.points = g.points[:0]
	best := math.Inf(1)
	var bestParams map[string]float64

	err := g.searchRecursive(ctx, 0, make(map[string]float64), buildExperiment, metricName, &best, &bestParams)
	if err != nil {
		return nil, 0, err
	}
	return bestParams, best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	buildExperiment func(map[string]float64) (*experiment.Experiment, error),
	metricName string,
	best *float64,
	bestParams *map[string]float64,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		exp, err := buildExperiment(current)
		if err != nil {
			return nil
		}

		result, err := exp.Run()
		if err != nil {
			return nil
		}

		val, ok := metricValue(result, exp.Params().Dt, metricName)
		if !ok {
			return nil
		}
		g.points = append(g.points, GridPoint{Values: copyValues(current), Value: val})
		if val < *best {
			*best = val
			*bestParams = copyValues(current)
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := copyValues(current)
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, buildExperiment, metricName, best, bestParams); err != nil {
			return err
		}
	}
	return nil
}

// Names returns the searched parameter names in walk order.
func (g *GridSearch) Names() []string { return g.paramNames }

// Points returns every point the last Search evaluated, in walk order.
func (g *GridSearch) Points() []GridPoint { return g.points }

func metricValue(result *sim.Result, dt float64, name string) (float64, bool) {
	if name == ScoreMetric {
		return analysis.Score(result.ComX, result.ComY, dt, analysis.DefaultScoreTarget()), true
	}
	v, ok := result.Metrics[name]
	return v, ok
}

func copyValues(m map[string]float64) map[string]float64 {
	c := make(map[string]float64, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

// ParseAxis parses "name=v1,v2,..." or "name=lo:hi:steps" into a grid axis.
func ParseAxis(s string) (string, []float64, error) {
	name, def, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" || def == "" {
		return "", nil, fmt.Errorf("axis %q: want name=v1,v2 or name=lo:hi:steps", s)
	}

	if parts := strings.Split(def, ":"); len(parts) == 3 {
		lo, err1 := strconv.ParseFloat(parts[0], 64)
		hi, err2 := strconv.ParseFloat(parts[1], 64)
		steps, err3 := strconv.Atoi(parts[2])
		if err1 != nil || err2 != nil || err3 != nil || steps < 1 || hi < lo {
			return "", nil, fmt.Errorf("axis %q: bad range %q", s, def)
		}
		values := make([]float64, steps)
		for i := range values {
			values[i] = linspace(lo, hi, steps, i)
		}
		return name, values, nil
	}

	fields := strings.Split(def, ",")
	values := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return "", nil, fmt.Errorf("axis %q: %w", s, err)
		}
		values[i] = v
	}
	return name, values, nil
}

// ApplyParams overrides the named fields of base. Known names are n, k, mu,
// sigma, time_delta and loop_count.
func ApplyParams(base kuramoto.Params, values map[string]float64) (kuramoto.Params, error) {
	p := base
	for name, v := range values {
		switch name {
		case "n":
			p.N = int(v)
		case "k":
			p.K = v
		case "mu":
			p.Mu = v
		case "sigma":
			p.Sigma = v
		case "time_delta":
			p.Dt = v
		case "loop_count":
			p.LoopCount = int(v)
		default:
			return p, &kuramoto.ParameterError{Name: name, Value: v, Reason: "not a searchable parameter"}
		}
	}
	return p, nil
}

// ExperimentBuilder returns a buildExperiment function for GridSearch that
// applies each grid point to base.
func ExperimentBuilder(base kuramoto.Params) func(map[string]float64) (*experiment.Experiment, error) {
	return func(values map[string]float64) (*experiment.Experiment, error) {
		p, err := ApplyParams(base, values)
		if err != nil {
			return nil, err
		}
		exp, err := experiment.New(p)
		if err != nil {
			return nil, err
		}
		if err := exp.Setup(experiment.NewRegistry(), nil); err != nil {
			return nil, err
		}
		return exp, nil
	}
}
