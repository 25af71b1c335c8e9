// Package optim tunes controller gains by exhaustive search over
// integer gain grids.
package optim

import (
	"context"
	"math"

	"github.com/san-kum/heatsim/internal/experiment"
)

type GridSearch struct {
	paramNames []string
	ranges     [][]int
}

func NewGridSearch(params []string, ranges [][]int) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Search evaluates every gain combination and returns the one that
// minimizes the named metric. Combinations whose experiment fails to
// build (a zero divisor, for instance) are skipped.
func (g *GridSearch) Search(
	ctx context.Context,
	buildExperiment func(params map[string]int) (*experiment.Experiment, error),
	metricName string,
) (map[string]int, float64, error) {

	best := math.Inf(1)
	var bestParams map[string]int

	if err := g.searchRecursive(ctx, 0, make(map[string]int), buildExperiment, metricName, &best, &bestParams); err != nil {
		return nil, 0, err
	}

	return bestParams, best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]int,
	buildExperiment func(map[string]int) (*experiment.Experiment, error),
	metricName string,
	best *float64,
	bestParams *map[string]int,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		exp, err := buildExperiment(current)
		if err != nil {
			return nil
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return nil
		}

		val := result.Metrics[metricName]
		if val < *best {
			*best = val
			*bestParams = make(map[string]int)
			for k, v := range current {
				(*bestParams)[k] = v
			}
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]int)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, buildExperiment, metricName, best, bestParams); err != nil {
			return err
		}
	}
	return nil
}

// Range builds an inclusive integer range with the given stride.
func Range(from, to, step int) []int {
	if step <= 0 {
		step = 1
	}
	vals := make([]int, 0, (to-from)/step+1)
	for v := from; v <= to; v += step {
		vals = append(vals, v)
	}
	return vals
}
