package experiment

import (
	"context"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/cellsim/internal/config"
)

// Ensemble runs one configuration under consecutive seeds.
type Ensemble struct {
	reg       *Registry
	cfg       *config.Config
	numRuns   int
	seedStart int64
	workers   int
	logger    *slog.Logger
}

func NewEnsemble(reg *Registry, cfg *config.Config, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{
		reg:       reg,
		cfg:       cfg,
		numRuns:   numRuns,
		seedStart: seedStart,
		workers:   runtime.GOMAXPROCS(0),
		logger:    slog.New(slog.DiscardHandler),
	}
}

// SetWorkers bounds the number of runs in flight. n <= 0 leaves it unbounded.
func (e *Ensemble) SetWorkers(n int) { e.workers = n }

func (e *Ensemble) SetLogger(l *slog.Logger) { e.logger = l }

// Run returns one result per seed, in seed order. The first failing run
// cancels the others.
func (e *Ensemble) Run(ctx context.Context) ([]*Result, error) {
	results := make([]*Result, e.numRuns)

	g, ctx := errgroup.WithContext(ctx)
	if e.workers > 0 {
		g.SetLimit(e.workers)
	}
	for i := 0; i < e.numRuns; i++ {
		cfg := e.cfg.Clone()
		cfg.Seed = e.seedStart + int64(i)
		g.Go(func() error {
			exp, err := New(e.reg, cfg, WithLogger(e.logger.With("seed", cfg.Seed)))
			if err != nil {
				return err
			}
			res, err := exp.Run(ctx)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
