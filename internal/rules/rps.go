package rules

import (
	"strconv"

	"github.com/san-kum/cellsim/internal/cellular"
)

// RPSState is a rock-paper-scissors state.
type RPSState uint8

const (
	Rock RPSState = iota
	Paper
	Scissor
	RPSEmpty
)

var RPSStates = []string{"ROCK", "PAPER", "SCISSOR", "EMPTY"}

func (s RPSState) String() string { return enumName(RPSStates, uint8(s)) }

func ParseRPSState(name string) (cellular.State, error) {
	return parseEnum[RPSState]("rps", name, RPSStates)
}

// lossesTo lists, in tie-break order, the kinds that can take over a cell.
// Empty cells are colonized by any kind.
var lossesTo = map[RPSState][]RPSState{
	Rock:     {Paper},
	Paper:    {Scissor},
	Scissor:  {Rock},
	RPSEmpty: {Rock, Scissor, Paper},
}

const DefaultRPSThreshold = 3

// RPS converts a cell to the kind that beats it once at least threshold
// neighbors are of that kind. When several kinds qualify the most numerous
// wins, with earlier kinds in lossesTo winning ties.
type RPS struct {
	threshold int
}

func NewRPS(params map[string]string) *RPS {
	r := &RPS{}
	r.Configure(params)
	return r
}

func (r *RPS) Configure(params map[string]string) {
	r.threshold = intParam(params, "threshold", DefaultRPSThreshold, func(v int) bool { return v > 0 })
}

func (r *RPS) Threshold() int { return r.threshold }

func (r *RPS) Advance(g *cellular.Generation, cell *cellular.Cell, neighbors []*cellular.Cell) {
	cur, ok := cell.State().(RPSState)
	if !ok {
		return
	}
	best, bestCount := cur, 0
	for _, winner := range lossesTo[cur] {
		n := count(neighbors, is(winner))
		if n >= r.threshold && n > bestCount {
			best, bestCount = winner, n
		}
	}
	if best != cur {
		g.SetNext(cell, best)
	}
}

func (r *RPS) Describe() []Param {
	return []Param{{
		Key:         "threshold",
		Value:       strconv.Itoa(r.threshold),
		Default:     strconv.Itoa(DefaultRPSThreshold),
		Description: "neighbors of the winning kind needed to convert a cell",
	}}
}
