// Package rules implements the concrete cellular automaton rules: life-like
// birth/survival, forest fire, percolation, rock-paper-scissors,
// segregation, Wa-Tor and elementary 1-D automata.
//
// Rules are configured from flat string maps. Parsing is permissive: a
// missing or malformed value keeps the documented default instead of failing
// the simulation.
package rules

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/san-kum/cellsim/internal/cellular"
)

// Param documents one recognized rule parameter.
type Param struct {
	Key         string
	Value       string
	Default     string
	Description string
}

// Describer is implemented by rules that can list their parameters.
type Describer interface {
	Describe() []Param
}

func intParam(params map[string]string, key string, def int, valid func(int) bool) int {
	v, ok := params[key]
	if !ok {
		return def
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || (valid != nil && !valid(parsed)) {
		return def
	}
	return parsed
}

func floatParam(params map[string]string, key string, def float64, valid func(float64) bool) float64 {
	v, ok := params[key]
	if !ok {
		return def
	}
	parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || (valid != nil && !valid(parsed)) {
		return def
	}
	return parsed
}

// parseEnum resolves name against the state names of one kind.
func parseEnum[S ~uint8](kind, name string, names []string) (S, error) {
	for i, n := range names {
		if n == name {
			return S(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q is not a %s state (want one of %s)",
		cellular.ErrUnknownState, name, kind, strings.Join(names, ", "))
}

func enumName(names []string, i uint8) string {
	if int(i) < len(names) {
		return names[i]
	}
	return fmt.Sprintf("STATE(%d)", i)
}

func count(neighbors []*cellular.Cell, match func(cellular.State) bool) int {
	n := 0
	for _, c := range neighbors {
		if match(c.State()) {
			n++
		}
	}
	return n
}

func is(s cellular.State) func(cellular.State) bool {
	return func(o cellular.State) bool { return o == s }
}
