package rules

import (
	"strconv"

	"github.com/san-kum/cellsim/internal/cellular"
)

// ElementaryState is a 1-D automaton state. Elementary reuses the life
// state names so a drawing can be loaded with either kind.
type ElementaryState = LifeState

func ParseElementaryState(name string) (cellular.State, error) {
	return parseEnum[LifeState]("elementary", name, LifeStates)
}

const DefaultElementaryRule = 30

// Elementary draws the history of a Wolfram elementary automaton down the
// grid: row y+1 is the successor of row y. A live cell is never cleared.
type Elementary struct {
	rule int
}

func NewElementary(params map[string]string) *Elementary {
	e := &Elementary{}
	e.Configure(params)
	return e
}

// Configure reads "rule", a Wolfram code in [0, 255].
func (e *Elementary) Configure(params map[string]string) {
	e.rule = intParam(params, "rule", DefaultElementaryRule, func(v int) bool { return v >= 0 && v <= 255 })
}

func (e *Elementary) Code() int { return e.rule }

func (e *Elementary) Advance(g *cellular.Generation, cell *cellular.Cell, neighbors []*cellular.Cell) {
	if cell.State() == Alive {
		return
	}
	at := cell.Coords()
	if at.Y == 0 {
		return
	}
	grid := g.Grid()
	pattern := 0
	for _, n := range neighbors {
		d := unwrap(grid, n.Coords().Sub(at))
		if d.Y != -1 || d.X < -1 || d.X > 1 || n.State() != Alive {
			continue
		}
		// left neighbor is the high bit
		pattern |= 1 << (1 - d.X)
	}
	if e.rule>>pattern&1 == 1 {
		g.SetNext(cell, Alive)
	}
}

// unwrap maps a delta that crossed a wrapped edge back to its short form.
func unwrap(grid *cellular.Grid, d cellular.Coords) cellular.Coords {
	if !grid.Wrapping() {
		return d
	}
	w, h := grid.Width(), grid.Height()
	switch {
	case d.X > w/2:
		d.X -= w
	case d.X < -w/2:
		d.X += w
	}
	switch {
	case d.Y > h/2:
		d.Y -= h
	case d.Y < -h/2:
		d.Y += h
	}
	return d
}

func (e *Elementary) Describe() []Param {
	return []Param{{
		Key:         "rule",
		Value:       strconv.Itoa(e.rule),
		Default:     strconv.Itoa(DefaultElementaryRule),
		Description: "Wolfram code 0..255",
	}}
}
