package cellular

// Rule evolves a single cell. Advance is called once per cell per
// generation. It may only read the current generation of cell and its
// neighbors, and only writes next-generation states through g.
type Rule interface {
	Advance(g *Generation, cell *Cell, neighbors []*Cell)
}

// Configurable rules accept a flat parameter map. Unrecognized keys are
// ignored and malformed values fall back to the rule's defaults.
type Configurable interface {
	Configure(params map[string]string)
}

// RuleFunc adapts a function to the Rule interface.
type RuleFunc func(g *Generation, cell *Cell, neighbors []*Cell)

func (f RuleFunc) Advance(g *Generation, cell *Cell, neighbors []*Cell) { f(g, cell, neighbors) }

// Observer is notified after every committed generation.
type Observer interface {
	OnStep(generation int, grid *Grid)
}

// Metric summarizes a run generation by generation.
type Metric interface {
	Name() string
	Observe(generation int, grid *Grid)
	Value() float64
	Reset()
}
