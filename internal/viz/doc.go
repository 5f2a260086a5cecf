// Package viz renders cellular automaton runs in the terminal.
//
// The package provides:
//
//   - [RenderFrame]: a colored drawing of one generation, staggered for
//     hexagonal grids
//   - [CensusChart]: an asciigraph plot of state counts over time
//   - [Model]: an interactive Bubble Tea viewer that steps a live experiment
//
// # Key Bindings
//
//	Space - Pause/Resume
//	N     - Single step while paused
//	R     - Reset to generation zero
//	T     - Cycle color themes
//	Tab   - Select a rule parameter
//	Up/K  - Increase the selected parameter
//	Down/J - Decrease the selected parameter
//	+/-   - Change speed
//	[ ]   - Replay earlier generations
//	?     - Show help overlay
package viz
