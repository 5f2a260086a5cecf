package experiment

import (
	"errors"
	"fmt"
	"sort"

	"github.com/san-kum/cellsim/internal/cellular"
	"github.com/san-kum/cellsim/internal/rules"
)

var ErrUnknownKind = errors.New("unknown kind")

// Kind describes one family of automata: its states and how to build its rule.
type Kind struct {
	Name             string
	Title            string
	States           []string
	Parse            func(string) (cellular.State, error)
	NewRule          func(params map[string]string) cellular.Rule
	DefaultTopology  string
	DefaultNeighbors int
	// Empty is the background state used when a grid is padded or cleared.
	Empty string
}

type Registry struct {
	kinds map[string]Kind
}

func NewRegistry() *Registry {
	r := &Registry{kinds: make(map[string]Kind)}

	r.Register(Kind{
		Name: "gameoflife", Title: "Game of Life",
		States: rules.LifeStates, Parse: rules.ParseLifeState,
		NewRule:         func(p map[string]string) cellular.Rule { return rules.NewLife(p) },
		DefaultTopology: "rectangular", DefaultNeighbors: 8, Empty: "DEAD",
	})
	r.Register(Kind{
		Name: "fire", Title: "Spreading fire",
		States: rules.FireStates, Parse: rules.ParseFireState,
		NewRule:         func(p map[string]string) cellular.Rule { return rules.NewFire(p) },
		DefaultTopology: "rectangular", DefaultNeighbors: 4, Empty: "EMPTY",
	})
	r.Register(Kind{
		Name: "percolation", Title: "Percolation",
		States: rules.PercolationStates, Parse: rules.ParsePercolationState,
		NewRule:         func(p map[string]string) cellular.Rule { return rules.NewPercolation(p) },
		DefaultTopology: "rectangular", DefaultNeighbors: 4, Empty: "BLOCKED",
	})
	r.Register(Kind{
		Name: "rps", Title: "Rock paper scissors",
		States: rules.RPSStates, Parse: rules.ParseRPSState,
		NewRule:         func(p map[string]string) cellular.Rule { return rules.NewRPS(p) },
		DefaultTopology: "rectangular", DefaultNeighbors: 8, Empty: "EMPTY",
	})
	r.Register(Kind{
		Name: "segregation", Title: "Schelling segregation",
		States: rules.SegregationStates, Parse: rules.ParseSegregationState,
		NewRule:         func(p map[string]string) cellular.Rule { return rules.NewSegregation(p) },
		DefaultTopology: "rectangular", DefaultNeighbors: 8, Empty: "OPEN",
	})
	r.Register(Kind{
		Name: "wator", Title: "Wa-Tor predator and prey",
		States: rules.SpeciesNames, Parse: rules.ParseCreature,
		NewRule:         func(p map[string]string) cellular.Rule { return rules.NewWaTor(p) },
		DefaultTopology: "rectangular", DefaultNeighbors: 4, Empty: "EMPTY",
	})
	r.Register(Kind{
		Name: "elementary", Title: "Elementary 1-D automaton",
		States: rules.LifeStates, Parse: rules.ParseElementaryState,
		NewRule:         func(p map[string]string) cellular.Rule { return rules.NewElementary(p) },
		DefaultTopology: "rectangular", DefaultNeighbors: 8, Empty: "DEAD",
	})

	return r
}

// Register adds or replaces a kind.
func (r *Registry) Register(k Kind) {
	r.kinds[k.Name] = k
}

func (r *Registry) Kind(name string) (Kind, error) {
	k, ok := r.kinds[name]
	if !ok {
		return Kind{}, fmt.Errorf("%w: %s", ErrUnknownKind, name)
	}
	return k, nil
}

// ListKinds returns the registered kind names in sorted order.
func (r *Registry) ListKinds() []string {
	names := make([]string, 0, len(r.kinds))
	for name := range r.kinds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Topology resolves the configured topology, falling back to the kind's
// defaults for the parts left empty.
func (k Kind) Topology(name string, neighbors int) (cellular.Topology, error) {
	if name == "" {
		name = k.DefaultTopology
	}
	if neighbors == 0 && name == k.DefaultTopology {
		neighbors = k.DefaultNeighbors
	}
	return cellular.TopologyFor(name, neighbors)
}

// ParseMatrix converts state names into states, rejecting unknown names.
func (k Kind) ParseMatrix(names [][]string) ([][]cellular.State, error) {
	out := make([][]cellular.State, len(names))
	for y, row := range names {
		out[y] = make([]cellular.State, len(row))
		for x, name := range row {
			s, err := k.Parse(name)
			if err != nil {
				return nil, fmt.Errorf("cell (%d,%d): %w", x, y, err)
			}
			out[y][x] = s
		}
	}
	return out, nil
}
