package experiment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/san-kum/cellsim/internal/cellular"
	"github.com/san-kum/cellsim/internal/config"
	"github.com/san-kum/cellsim/internal/metrics"
	"github.com/san-kum/cellsim/internal/rules"
	"github.com/san-kum/cellsim/internal/storage"
)

type Option func(*Experiment)

func WithLogger(l *slog.Logger) Option {
	return func(e *Experiment) { e.logger = l }
}

// WithObserver attaches an observer to the automaton, after the snapshot
// recorder.
func WithObserver(o cellular.Observer) Option {
	return func(e *Experiment) { e.observers = append(e.observers, o) }
}

// Experiment is a configured automaton ready to run.
type Experiment struct {
	cfg       *config.Config
	kind      Kind
	grid      *cellular.Grid
	automaton *cellular.Automaton
	census    []*metrics.Census
	snapshots *recorder
	logger    *slog.Logger
	observers []cellular.Observer
}

// New validates cfg, builds the grid with its initial states and attaches
// the default metrics.
func New(reg *Registry, cfg *config.Config, opts ...Option) (*Experiment, error) {
	e := &Experiment{cfg: cfg, logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(e)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	kind, err := reg.Kind(cfg.Kind)
	if err != nil {
		return nil, err
	}
	e.kind = kind

	topo, err := kind.Topology(cfg.Grid.Topology, cfg.Grid.Neighbors)
	if err != nil {
		return nil, err
	}
	grid, err := cellular.NewGrid(cfg.Grid.Width, cfg.Grid.Height, topo,
		cellular.WithWrapping(cfg.Grid.Wrapping), cellular.WithHistory(cfg.Grid.History))
	if err != nil {
		return nil, err
	}

	rng := cellular.NewRandom(cfg.Seed)
	names, err := cfg.InitialStates(kind.States, rng)
	if err != nil {
		return nil, err
	}
	states, err := kind.ParseMatrix(names)
	if err != nil {
		return nil, err
	}
	if err := grid.AppendInitialStates(states); err != nil {
		return nil, err
	}
	e.grid = grid

	e.automaton = cellular.New(grid, kind.NewRule(cfg.Params),
		cellular.WithRandom(rng), cellular.WithLogger(e.logger))
	for _, name := range kind.States {
		c := metrics.NewCensus(name)
		e.census = append(e.census, c)
		e.automaton.AddMetric(c)
	}
	e.automaton.AddMetric(metrics.NewActivity())
	e.automaton.AddMetric(metrics.NewStability())

	e.snapshots = &recorder{}
	e.automaton.AddObserver(e.snapshots)
	for _, o := range e.observers {
		e.automaton.AddObserver(o)
	}

	e.logger.Info("experiment ready",
		"kind", kind.Name, "topology", topo.Name(), "width", grid.Width(), "height", grid.Height(),
		"wrapping", grid.Wrapping(), "seed", cfg.Seed)
	return e, nil
}

func (e *Experiment) Config() *config.Config         { return e.cfg }
func (e *Experiment) Kind() Kind                     { return e.kind }
func (e *Experiment) Grid() *cellular.Grid           { return e.grid }
func (e *Experiment) Automaton() *cellular.Automaton { return e.automaton }

// Params describes the active rule parameters, if the rule lists them.
func (e *Experiment) Params() []rules.Param {
	if d, ok := e.automaton.Rule().(rules.Describer); ok {
		return d.Describe()
	}
	return nil
}

// Result is a finished run. Snapshots holds one matrix of state names per
// generation, starting with the initial one.
type Result struct {
	Kind        string
	Generations int
	Metrics     map[string]float64
	Census      map[string][]float64
	Snapshots   [][][]string
	Elapsed     time.Duration
}

// Run steps cfg.Generations times. A canceled context stops the run between
// generations and returns what was computed so far along with the error.
func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	e.snapshots.reset(e.grid)

	res, err := e.automaton.Run(ctx, e.cfg.Generations)
	if res == nil {
		return nil, err
	}

	out := &Result{
		Kind:        e.kind.Name,
		Generations: res.Generations,
		Metrics:     res.Metrics,
		Census:      make(map[string][]float64, len(e.census)),
		Snapshots:   e.snapshots.frames,
		Elapsed:     time.Since(start),
	}
	for _, c := range e.census {
		out.Census[c.State()] = append([]float64(nil), c.Series()...)
	}

	if err != nil {
		e.logger.Warn("run interrupted", "generations", res.Generations, "err", err)
		return out, fmt.Errorf("run interrupted after %d generations: %w", res.Generations, err)
	}
	e.logger.Info("run complete", "generations", res.Generations, "elapsed", out.Elapsed)
	return out, nil
}

// Record flattens the result and its configuration for storage.
func (e *Experiment) Record(res *Result) *storage.Run {
	params := make(map[string]string)
	for _, p := range e.Params() {
		params[p.Key] = p.Value
	}
	return &storage.Run{
		Metadata: storage.RunMetadata{
			Kind:        e.kind.Name,
			Title:       e.cfg.Title,
			Timestamp:   time.Now(),
			Seed:        e.cfg.Seed,
			Generations: res.Generations,
			Width:       e.grid.Width(),
			Height:      e.grid.Height(),
			Topology:    e.grid.Topology().Name(),
			Neighbors:   e.grid.Topology().Size(),
			Wrapping:    e.grid.Wrapping(),
			States:      e.kind.States,
			Params:      params,
			Metrics:     res.Metrics,
		},
		Census:    res.Census,
		Snapshots: res.Snapshots,
	}
}

// recorder keeps a copy of every generation's state names.
type recorder struct {
	frames [][][]string
}

func (r *recorder) reset(grid *cellular.Grid) {
	r.frames = [][][]string{grid.ExtractNames(0)}
}

func (r *recorder) OnStep(_ int, grid *cellular.Grid) {
	r.frames = append(r.frames, grid.ExtractNames(0))
}
