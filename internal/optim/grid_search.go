// Package optim searches run settings for the cheapest acceptable run.
package optim

import (
	"context"
	"errors"
	"math"

	"github.com/san-kum/orrery/internal/experiment"
)

var ErrNoCandidate = errors.New("optim: no candidate satisfied the objective")

// Objective scores a finished run; lower is better. +Inf rejects the run.
type Objective func(params map[string]float64, result *experiment.Result) float64

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Search runs one experiment per grid point and returns the parameters with
// the lowest score. Points whose experiment cannot be built or fails are
// skipped.
func (g *GridSearch) Search(
	ctx context.Context,
	buildExperiment func(params map[string]float64) (*experiment.Experiment, error),
	objective Objective,
) (map[string]float64, float64, error) {

	best := math.Inf(1)
	var bestParams map[string]float64

	err := g.searchRecursive(ctx, 0, make(map[string]float64), buildExperiment, objective, &best, &bestParams)
	if err != nil {
		return nil, 0, err
	}
	if bestParams == nil {
		return nil, 0, ErrNoCandidate
	}
	return bestParams, best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	buildExperiment func(map[string]float64) (*experiment.Experiment, error),
	objective Objective,
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

		result, err := exp.Run(ctx)
		if err != nil {
			return nil
		}

		val := objective(current, result)
		if val < *best {
			*best = val
			*bestParams = make(map[string]float64)
			for k, v := range current {
				(*bestParams)[k] = v
			}
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, buildExperiment, objective, best, bestParams); err != nil {
			return err
		}
	}
	return nil
}

// CheapestWithin scores a run by its step count per simulated second,
// rejecting runs whose energy drift exceeds tolerance.
func CheapestWithin(tolerance float64) Objective {
	return func(params map[string]float64, result *experiment.Result) float64 {
		if result.Metrics["energy_drift"] > tolerance || result.Final.Time == 0 {
			return math.Inf(1)
		}
		cost := float64(result.Steps) / result.Final.Time
		// rk4 evaluates the field four times per step
		if result.Method == "rk4" {
			cost *= 4
		}
		return cost
	}
}
