// Package optim searches rule parameters for the setting that drives a
// metric lowest or highest.
package optim

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"

	"github.com/san-kum/cellsim/internal/config"
	"github.com/san-kum/cellsim/internal/experiment"
)

var ErrNoPoints = errors.New("sweep has no parameter values")

// Point is one parameter combination and the metric it produced.
type Point struct {
	Params map[string]string
	Value  float64
}

func (p Point) String() string {
	keys := slices.Sorted(maps.Keys(p.Params))
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + p.Params[k]
	}
	return strings.Join(parts, " ")
}

// GridSearch runs an experiment for every combination of parameter values.
type GridSearch struct {
	names    []string
	values   [][]string
	maximize bool
}

func NewGridSearch(names []string, values [][]string) *GridSearch {
	return &GridSearch{names: names, values: values}
}

// Maximize flips the search goal.
func (g *GridSearch) Maximize(on bool) { g.maximize = on }

// ParseAxes reads "key=v1,v2,..." strings into names and value lists.
func ParseAxes(axes []string) ([]string, [][]string, error) {
	names := make([]string, 0, len(axes))
	values := make([][]string, 0, len(axes))
	for _, axis := range axes {
		key, list, ok := strings.Cut(axis, "=")
		if !ok || key == "" || list == "" {
			return nil, nil, fmt.Errorf("malformed sweep axis %q, want key=v1,v2", axis)
		}
		names = append(names, key)
		values = append(values, strings.Split(list, ","))
	}
	return names, values, nil
}

// Search returns every evaluated point in sweep order and the best one.
// Each point runs a copy of base with the point's parameters merged over
// base.Params.
func (g *GridSearch) Search(ctx context.Context, reg *experiment.Registry, base *config.Config, metric string) ([]Point, Point, error) {
	if len(g.names) == 0 {
		return nil, Point{}, ErrNoPoints
	}
	var points []Point
	err := g.searchRecursive(ctx, 0, map[string]string{}, func(params map[string]string) error {
		cfg := base.Clone()
		if cfg.Params == nil {
			cfg.Params = make(map[string]string, len(params))
		}
		maps.Copy(cfg.Params, params)

		exp, err := experiment.New(reg, cfg)
		if err != nil {
			return err
		}
		res, err := exp.Run(ctx)
		if err != nil {
			return err
		}
		val, ok := res.Metrics[metric]
		if !ok {
			return fmt.Errorf("unknown metric: %s", metric)
		}
		points = append(points, Point{Params: params, Value: val})
		return nil
	})
	if err != nil {
		return points, Point{}, err
	}

	best := Point{Value: math.Inf(1)}
	if g.maximize {
		best.Value = math.Inf(-1)
	}
	for _, p := range points {
		if (!g.maximize && p.Value < best.Value) || (g.maximize && p.Value > best.Value) {
			best = p
		}
	}
	return points, best, nil
}

func (g *GridSearch) searchRecursive(ctx context.Context, depth int, current map[string]string, eval func(map[string]string) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if depth == len(g.names) {
		return eval(maps.Clone(current))
	}
	if len(g.values[depth]) == 0 {
		return ErrNoPoints
	}
	for _, val := range g.values[depth] {
		current[g.names[depth]] = val
		if err := g.searchRecursive(ctx, depth+1, current, eval); err != nil {
			return err
		}
	}
	return nil
}
