// Package cellular provides the core primitives for discrete-time cellular
// automata.
//
// The package defines the grid, cell and rule types shared by every
// simulation kind:
//
//   - [Coords]: integer 2-D vector used both as a location and an offset
//   - [Timeline]: bounded or unbounded per-cell state history
//   - [Grid]: the cells and their [Topology] (rectangular 4/8, hexagonal)
//   - [Rule]: evolution of one cell given its neighbors
//   - [Automaton]: runs one generation at a time
//
// # Stepping protocol
//
// Every [Automaton.Step] first copies each cell's latest state into the next
// generation, then calls the rule once per cell with a [Generation] handle.
// The handle is the only way to read or write the next generation, so a rule
// can see that a destination was already claimed by an earlier cell in the
// same generation.
//
// # Example
//
//	grid, _ := cellular.NewGrid(16, 16, cellular.Rect8, cellular.WithWrapping(true))
//	_ = grid.AppendInitialStates(initial)
//	a := cellular.New(grid, rules.NewLife(nil), cellular.WithSeed(1))
//	a.Step()
//	snapshot := grid.ExtractStates(0)
//
// # Thread Safety
//
// Automaton and Grid are NOT thread-safe. Step must not be called
// concurrently on the same automaton.
package cellular
