package rules

import (
	"strconv"

	"github.com/san-kum/cellsim/internal/cellular"
)

// FireState is a forest fire state.
type FireState uint8

const (
	FireEmpty FireState = iota
	Tree
	Burning
)

var FireStates = []string{"EMPTY", "TREE", "BURNING"}

func (s FireState) String() string { return enumName(FireStates, uint8(s)) }

func ParseFireState(name string) (cellular.State, error) {
	return parseEnum[FireState]("fire", name, FireStates)
}

// DefaultProbCatch is the ignition chance, in percent, of a tree next to fire.
const DefaultProbCatch = 50

// Fire burns out every BURNING cell and ignites each TREE that has at least
// one burning neighbor with probability probCatch percent.
type Fire struct {
	probCatch int
}

func NewFire(params map[string]string) *Fire {
	f := &Fire{}
	f.Configure(params)
	return f
}

// Configure reads "probCatch" as an integer percentage in [0, 100].
func (f *Fire) Configure(params map[string]string) {
	f.probCatch = intParam(params, "probCatch", DefaultProbCatch, func(v int) bool { return v >= 0 && v <= 100 })
}

func (f *Fire) ProbCatch() int { return f.probCatch }

func (f *Fire) Advance(g *cellular.Generation, cell *cellular.Cell, neighbors []*cellular.Cell) {
	switch cell.State() {
	case Burning:
		g.SetNext(cell, FireEmpty)
	case Tree:
		if count(neighbors, is(Burning)) > 0 && g.Rand().IntN(100) < f.probCatch {
			g.SetNext(cell, Burning)
		}
	}
}

func (f *Fire) Describe() []Param {
	return []Param{{
		Key:         "probCatch",
		Value:       strconv.Itoa(f.probCatch),
		Default:     strconv.Itoa(DefaultProbCatch),
		Description: "percent chance a tree next to a burning cell ignites",
	}}
}
