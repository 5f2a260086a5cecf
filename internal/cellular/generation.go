package cellular

// Generation is the capability a Rule receives while the next generation is
// being built. It is the only way to read or write next-generation states
// and becomes unusable once the step that created it returns.
type Generation struct {
	grid   *Grid
	rng    Random
	index  int
	closed bool
}

// Index returns the generation being built.
func (g *Generation) Index() int {
	g.check()
	return g.index
}

// Grid returns the grid being stepped.
func (g *Generation) Grid() *Grid {
	g.check()
	return g.grid
}

// Rand returns the random source for tie-breaking and probabilities.
func (g *Generation) Rand() Random {
	g.check()
	return g.rng
}

// Next returns the state c will hold in the generation being built. Before
// any rule writes it, this equals the current state.
func (g *Generation) Next(c *Cell) State {
	g.checkCell(c)
	return c.next()
}

// SetNext writes the state c will hold in the generation being built.
func (g *Generation) SetNext(c *Cell, s State) {
	g.checkCell(c)
	if s == nil {
		panic(protocolf("nil next state at %v", c.coords))
	}
	c.states.replaceLatest(g.index, s)
}

// Claimable reports whether c matches in both the current and the next
// generation, i.e. no earlier cell has claimed it in this generation.
func (g *Generation) Claimable(c *Cell, match func(State) bool) bool {
	g.checkCell(c)
	return match(c.State()) && match(c.next())
}

// PickClaimable returns a uniformly random claimable cell among candidates,
// or nil if there is none.
func (g *Generation) PickClaimable(candidates []*Cell, match func(State) bool) *Cell {
	open := make([]*Cell, 0, len(candidates))
	for _, c := range candidates {
		if g.Claimable(c, match) {
			open = append(open, c)
		}
	}
	if len(open) == 0 {
		return nil
	}
	return open[g.rng.IntN(len(open))]
}

func (g *Generation) check() {
	if g == nil || g.closed {
		panic(protocolf("generation handle used outside its step"))
	}
}

func (g *Generation) checkCell(c *Cell) {
	g.check()
	if c == nil || c.grid != g.grid {
		panic(protocolf("cell does not belong to the stepped grid"))
	}
}
