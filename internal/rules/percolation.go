package rules

import "github.com/san-kum/cellsim/internal/cellular"

// PercolationState is a percolation state.
type PercolationState uint8

const (
	Blocked PercolationState = iota
	Open
	Percolated
)

var PercolationStates = []string{"BLOCKED", "OPEN", "PERCOLATED"}

func (s PercolationState) String() string { return enumName(PercolationStates, uint8(s)) }

func ParsePercolationState(name string) (cellular.State, error) {
	return parseEnum[PercolationState]("percolation", name, PercolationStates)
}

// Percolation floods OPEN cells adjacent to PERCOLATED ones. It takes no
// parameters.
type Percolation struct{}

func NewPercolation(map[string]string) *Percolation { return &Percolation{} }

func (Percolation) Configure(map[string]string) {}

func (Percolation) Advance(g *cellular.Generation, cell *cellular.Cell, neighbors []*cellular.Cell) {
	if cell.State() != Open {
		return
	}
	if count(neighbors, is(Percolated)) > 0 {
		g.SetNext(cell, Percolated)
	}
}

func (Percolation) Describe() []Param { return nil }
