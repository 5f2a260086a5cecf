package cellular

import (
	"context"
	"fmt"
	"log/slog"
)

// Automaton owns one grid and the rule currently governing it.
type Automaton struct {
	grid      *Grid
	rule      Rule
	rng       Random
	logger    *slog.Logger
	observers []Observer
	metrics   []Metric
}

// Option customizes an Automaton.
type Option func(*Automaton)

// WithSeed seeds the default random source.
func WithSeed(seed int64) Option {
	return func(a *Automaton) { a.rng = NewRandom(seed) }
}

// WithRandom replaces the random source.
func WithRandom(r Random) Option {
	return func(a *Automaton) {
		if r != nil {
			a.rng = r
		}
	}
}

// WithLogger logs every committed generation at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(a *Automaton) { a.logger = l }
}

// New returns an automaton stepping grid with rule.
func New(grid *Grid, rule Rule, opts ...Option) *Automaton {
	a := &Automaton{
		grid:      grid,
		rule:      rule,
		rng:       NewRandom(0),
		observers: make([]Observer, 0),
		metrics:   make([]Metric, 0),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Automaton) Grid() *Grid { return a.grid }
func (a *Automaton) Rule() Rule  { return a.rule }

// SetRule replaces the rule for subsequent steps. Past generations are
// untouched.
func (a *Automaton) SetRule(r Rule) { a.rule = r }

func (a *Automaton) AddObserver(o Observer) { a.observers = append(a.observers, o) }
func (a *Automaton) AddMetric(m Metric)     { a.metrics = append(a.metrics, m) }

// Step computes and commits one generation: every cell's state is copied
// forward, the rule is applied to each cell in row-major order, and the
// generation counter advances.
func (a *Automaton) Step() {
	g := a.grid
	if g.stepping {
		panic(protocolf("re-entrant step"))
	}
	g.copyForward()

	gen := &Generation{grid: g, rng: a.rng, index: g.generation + 1}
	g.stepping = true
	func() {
		defer func() {
			gen.closed = true
			g.stepping = false
		}()
		for _, c := range g.cells {
			a.rule.Advance(gen, c, g.Neighbors(c))
		}
	}()
	g.advance()

	if a.logger != nil {
		a.logger.Debug("generation committed", "generation", g.generation, "cells", len(g.cells))
	}
	for _, o := range a.observers {
		o.OnStep(g.generation, g)
	}
}

// Result summarizes a Run.
type Result struct {
	Generations     int
	FinalGeneration int
	Metrics         map[string]float64
}

// Run steps the automaton generations times. The context is checked between
// generations; a step in progress always completes.
func (a *Automaton) Run(ctx context.Context, generations int) (*Result, error) {
	if generations < 0 {
		return nil, fmt.Errorf("generations must be non-negative, got %d", generations)
	}
	if a.grid.generation < 0 {
		return nil, fmt.Errorf("grid has no initial states")
	}

	result := &Result{Metrics: make(map[string]float64)}

	for _, m := range a.metrics {
		m.Reset()
		m.Observe(a.grid.generation, a.grid)
	}

	var err error
	for i := 0; i < generations; i++ {
		select {
		case <-ctx.Done():
			err = ctx.Err()
		default:
		}
		if err != nil {
			break
		}

		a.Step()
		result.Generations++

		for _, m := range a.metrics {
			m.Observe(a.grid.generation, a.grid)
		}
	}

	result.FinalGeneration = a.grid.generation
	for _, m := range a.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	return result, err
}
