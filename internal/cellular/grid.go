package cellular

import "fmt"

// Grid is a fixed-size dense width×height arrangement of cells with one
// shared generation counter. Every coordinate in [0,width)×[0,height) maps
// to exactly one cell; other coordinates map to the wrapped cell when
// wrapping is enabled and to no cell otherwise.
type Grid struct {
	width, height int
	wrapping      bool
	topology      Topology
	keep          int
	cells         []*Cell
	generation    int
	stepping      bool
}

// GridOption customizes a Grid at construction.
type GridOption func(*Grid)

// WithWrapping enables or disables toroidal wrapping at the edges.
func WithWrapping(wrap bool) GridOption {
	return func(g *Grid) { g.wrapping = wrap }
}

// WithHistory bounds the number of generations retained per cell. Unbounded
// keeps every generation. Positive bounds below 2 are raised to 2 because a
// step needs the current and the next generation side by side.
func WithHistory(keep int) GridOption {
	return func(g *Grid) {
		switch {
		case keep <= Unbounded:
			g.keep = Unbounded
		case keep < 2:
			g.keep = 2
		default:
			g.keep = keep
		}
	}
}

// NewGrid creates an empty grid at generation -1. Cells are laid out in
// row-major order.
func NewGrid(width, height int, topology Topology, opts ...GridOption) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if topology == nil {
		return nil, fmt.Errorf("%w: nil", ErrUnknownTopology)
	}
	g := &Grid{
		width:      width,
		height:     height,
		topology:   topology,
		keep:       Unbounded,
		generation: -1,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.cells = make([]*Cell, 0, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			g.cells = append(g.cells, &Cell{
				coords: Coords{x, y},
				grid:   g,
				states: NewTimeline[State](g.keep),
			})
		}
	}
	return g, nil
}

func (g *Grid) Width() int         { return g.width }
func (g *Grid) Height() int        { return g.height }
func (g *Grid) Wrapping() bool     { return g.wrapping }
func (g *Grid) Topology() Topology { return g.topology }
func (g *Grid) History() int       { return g.keep }
func (g *Grid) Len() int           { return len(g.cells) }

// Generation returns the latest committed generation, or -1 before any
// states were appended.
func (g *Grid) Generation() int { return g.generation }

// Cells returns every cell in row-major order. The slice is shared and must
// not be modified.
func (g *Grid) Cells() []*Cell { return g.cells }

// Resolve maps coordinates to a cell following the wrapping policy.
func (g *Grid) Resolve(at Coords) (*Cell, bool) {
	x, y := at.X, at.Y
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		if !g.wrapping {
			return nil, false
		}
		x, y = g.Wrap(x, y)
	}
	return g.cells[y*g.width+x], true
}

// CellAt is Resolve without the presence flag; it returns nil for
// coordinates past a non-wrapping edge.
func (g *Grid) CellAt(x, y int) *Cell {
	c, _ := g.Resolve(Coords{x, y})
	return c
}

// Wrap reduces coordinates into [0,width)×[0,height) with floored modulo.
func (g *Grid) Wrap(x, y int) (int, int) {
	x = (x%g.width + g.width) % g.width
	y = (y%g.height + g.height) % g.height
	return x, y
}

// NeighborCoords returns the absolute, unresolved neighbor coordinates of at.
func (g *Grid) NeighborCoords(at Coords) []Coords {
	offsets := g.topology.Offsets(at)
	out := make([]Coords, len(offsets))
	for i, off := range offsets {
		out[i] = off.Add(at)
	}
	return out
}

// Neighbors returns the cells adjacent to c in topology order. Neighbors
// past a non-wrapping edge are omitted, so the list may be shorter than the
// topology's nominal size.
func (g *Grid) Neighbors(c *Cell) []*Cell {
	offsets := g.topology.Offsets(c.coords)
	out := make([]*Cell, 0, len(offsets))
	for _, off := range offsets {
		if n, ok := g.Resolve(off.Add(c.coords)); ok {
			out = append(out, n)
		}
	}
	return out
}

// AppendInitialStates appends states[y][x] to every cell and advances the
// generation. The matrix must be exactly height rows of width states.
func (g *Grid) AppendInitialStates(states [][]State) error {
	if g.stepping {
		panic(protocolf("append initial states during a step"))
	}
	if len(states) != g.height {
		return fmt.Errorf("%w: got %d rows, want %d", ErrShapeMismatch, len(states), g.height)
	}
	for y, row := range states {
		if len(row) != g.width {
			return fmt.Errorf("%w: row %d has %d cells, want %d", ErrShapeMismatch, y, len(row), g.width)
		}
		for x, s := range row {
			if s == nil {
				return fmt.Errorf("%w: nil state at (%d,%d)", ErrUnknownState, x, y)
			}
		}
	}
	next := g.generation + 1
	for y, row := range states {
		for x, s := range row {
			g.cells[y*g.width+x].states.AppendAt(next, s)
		}
	}
	g.generation = next
	return nil
}

// ExtractStates returns a height×width snapshot of every cell's state at
// the current generation plus delta. Absent entries are nil.
func (g *Grid) ExtractStates(delta int) [][]State {
	out := make([][]State, g.height)
	gen := g.generation + delta
	for y := 0; y < g.height; y++ {
		row := make([]State, g.width)
		for x := 0; x < g.width; x++ {
			row[x], _ = g.cells[y*g.width+x].states.At(gen)
		}
		out[y] = row
	}
	return out
}

// ExtractNames is ExtractStates rendered through State.String. Absent
// entries are empty strings.
func (g *Grid) ExtractNames(delta int) [][]string {
	states := g.ExtractStates(delta)
	out := make([][]string, len(states))
	for y, row := range states {
		names := make([]string, len(row))
		for x, s := range row {
			if s != nil {
				names[x] = s.String()
			}
		}
		out[y] = names
	}
	return out
}

// copyForward seeds the next generation of every cell with its current
// state. Repeating it before any rule runs resets the next slot instead of
// appending a second generation.
func (g *Grid) copyForward() {
	if g.generation < 0 {
		panic(protocolf("step before initial states were appended"))
	}
	next := g.generation + 1
	for _, c := range g.cells {
		cur, ok := c.states.At(g.generation)
		if !ok {
			panic(protocolf("cell %v has no state at generation %d", c.coords, g.generation))
		}
		if c.states.Latest() == next {
			c.states.replaceLatest(next, cur)
			continue
		}
		c.states.AppendAt(next, cur)
	}
}

func (g *Grid) advance() {
	g.generation++
}
