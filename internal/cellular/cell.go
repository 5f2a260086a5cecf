package cellular

// State is the value held by a cell for one generation. Each simulation kind
// defines its own state type.
type State interface {
	String() string
}

// Cell is one location of a Grid together with its state history. A cell
// never changes coordinates and belongs to exactly one grid.
type Cell struct {
	coords Coords
	grid   *Grid
	states *Timeline[State]
}

// Coords returns the cell's location within its grid.
func (c *Cell) Coords() Coords { return c.coords }

// State returns the state at the grid's current generation, or nil when the
// grid has no generation yet.
func (c *Cell) State() State {
	s, _ := c.StateAt(0)
	return s
}

// StateAt returns the state at the current generation plus delta. Only
// present and past generations are visible here; the next generation can
// only be read through a Generation during a step.
func (c *Cell) StateAt(delta int) (State, bool) {
	if delta > 0 {
		return nil, false
	}
	return c.states.At(c.grid.generation + delta)
}

// History returns the retained states, oldest first.
func (c *Cell) History() []State {
	out := make([]State, 0, c.states.Len())
	for t := c.states.Oldest(); t >= 0 && t <= c.states.Latest(); t++ {
		s, _ := c.states.At(t)
		out = append(out, s)
	}
	return out
}

// ForceState overwrites the state of the current generation. It is meant for
// interactive edits between steps and bypasses the append-only history.
func (c *Cell) ForceState(s State) {
	if s == nil {
		panic(protocolf("force nil state at %v", c.coords))
	}
	if c.grid.stepping {
		panic(protocolf("force state at %v during a step", c.coords))
	}
	c.states.replaceLatest(c.grid.generation, s)
}

func (c *Cell) next() State {
	s, _ := c.states.At(c.grid.generation + 1)
	return s
}
