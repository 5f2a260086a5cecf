package rules

import (
	"strconv"

	"github.com/san-kum/cellsim/internal/cellular"
)

// SegregationState is a Schelling segregation state.
type SegregationState uint8

const (
	AgentX SegregationState = iota
	AgentO
	Vacant
)

var SegregationStates = []string{"X", "O", "OPEN"}

func (s SegregationState) String() string { return enumName(SegregationStates, uint8(s)) }

func ParseSegregationState(name string) (cellular.State, error) {
	return parseEnum[SegregationState]("segregation", name, SegregationStates)
}

const DefaultNeighborsNeeded = 0.2

// Segregation relocates unhappy agents to a random vacant cell anywhere on the
// grid. An agent moves when populated/similar >= neighborsNeeded over its
// neighbors, or when it has populated neighbors but none of its own kind.
// Agents with no populated neighbors stay put.
type Segregation struct {
	neighborsNeeded float64
}

func NewSegregation(params map[string]string) *Segregation {
	s := &Segregation{}
	s.Configure(params)
	return s
}

// Configure reads "neighborsNeeded", a ratio strictly between 0 and 1.
func (s *Segregation) Configure(params map[string]string) {
	s.neighborsNeeded = floatParam(params, "neighborsNeeded", DefaultNeighborsNeeded,
		func(v float64) bool { return v > 0 && v < 1 })
}

func (s *Segregation) NeighborsNeeded() float64 { return s.neighborsNeeded }

func (s *Segregation) Advance(g *cellular.Generation, cell *cellular.Cell, neighbors []*cellular.Cell) {
	cur := cell.State()
	if cur == Vacant {
		return
	}
	if !s.unhappy(cur, neighbors) {
		return
	}
	dest := g.PickClaimable(g.Grid().Cells(), is(Vacant))
	if dest == nil {
		return
	}
	g.SetNext(dest, cur)
	g.SetNext(cell, Vacant)
}

func (s *Segregation) unhappy(self cellular.State, neighbors []*cellular.Cell) bool {
	populated := count(neighbors, func(o cellular.State) bool { return o != nil && o != Vacant })
	if populated == 0 {
		return false
	}
	similar := count(neighbors, is(self))
	if similar == 0 {
		return true
	}
	return float64(populated)/float64(similar) >= s.neighborsNeeded
}

func (s *Segregation) Describe() []Param {
	return []Param{{
		Key:         "neighborsNeeded",
		Value:       strconv.FormatFloat(s.neighborsNeeded, 'g', -1, 64),
		Default:     strconv.FormatFloat(DefaultNeighborsNeeded, 'g', -1, 64),
		Description: "minimum share of populated neighbors of the same kind, 0 < r < 1",
	}}
}
