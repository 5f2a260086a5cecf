package config

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/san-kum/cellsim/internal/cellular"
)

// InitialStates builds the generation zero matrix of state names. states is
// the kind's full state list, used by the random distributions.
func (c *Config) InitialStates(states []string, rng cellular.Random) ([][]string, error) {
	switch c.Grid.DistributionName() {
	case Specified:
		return c.specified()
	case Random:
		return c.fill(uniform(states), rng), nil
	case RandomTotal:
		if len(c.Grid.Weights) == 0 {
			return c.fill(uniform(states), rng), nil
		}
		w, err := c.weightedStates(states)
		if err != nil {
			return nil, err
		}
		return c.fill(w, rng), nil
	default:
		return nil, fmt.Errorf("%w: unknown distribution %q", ErrInvalidConfig, c.Grid.Distribution)
	}
}

func (c *Config) specified() ([][]string, error) {
	if len(c.Grid.Rows) != c.Grid.Height {
		return nil, fmt.Errorf("%w: %d rows given, grid height is %d",
			cellular.ErrShapeMismatch, len(c.Grid.Rows), c.Grid.Height)
	}
	out := make([][]string, len(c.Grid.Rows))
	for y, row := range c.Grid.Rows {
		out[y] = strings.Fields(row)
		if len(out[y]) != c.Grid.Width {
			return nil, fmt.Errorf("%w: row %d has %d cells, grid width is %d",
				cellular.ErrShapeMismatch, y, len(out[y]), c.Grid.Width)
		}
	}
	return out, nil
}

// weighted draws a state with probability weight/total by walking the
// cumulative weights.
type weighted struct {
	names []string
	upto  []int
	total int
}

func uniform(states []string) weighted {
	w := weighted{names: states, upto: make([]int, len(states)), total: len(states)}
	for i := range states {
		w.upto[i] = i + 1
	}
	return w
}

func (w weighted) pick(rng cellular.Random) string {
	r := rng.IntN(w.total)
	for i, upto := range w.upto {
		if r < upto {
			return w.names[i]
		}
	}
	return w.names[len(w.names)-1]
}

func (c *Config) fill(w weighted, rng cellular.Random) [][]string {
	out := make([][]string, c.Grid.Height)
	for y := range out {
		out[y] = make([]string, c.Grid.Width)
		for x := range out[y] {
			out[y][x] = w.pick(rng)
		}
	}
	return out
}

// weightedStates reads the per-state weights. Weights must name every state
// of the kind and nothing else.
func (c *Config) weightedStates(states []string) (weighted, error) {
	for name := range c.Grid.Weights {
		if !slices.Contains(states, name) {
			return weighted{}, fmt.Errorf("%w: weight for %q", cellular.ErrUnknownState, name)
		}
	}
	w := weighted{names: states, upto: make([]int, len(states))}
	for i, name := range states {
		n, ok := c.Grid.Weights[name]
		if !ok {
			return weighted{}, fmt.Errorf("%w: weights must include every state, %q is missing", ErrInvalidConfig, name)
		}
		if n < 0 {
			return weighted{}, fmt.Errorf("%w: weight for %q is negative", ErrInvalidConfig, name)
		}
		if n > math.MaxInt-w.total {
			return weighted{}, fmt.Errorf("%w: weights overflow", ErrInvalidConfig)
		}
		w.total += n
		w.upto[i] = w.total
	}
	if w.total == 0 {
		return weighted{}, fmt.Errorf("%w: weights sum to zero", ErrInvalidConfig)
	}
	return w, nil
}
