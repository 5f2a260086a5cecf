package optim

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/san-kum/cellsim/internal/config"
	"github.com/san-kum/cellsim/internal/experiment"
)

func fireConfig() *config.Config {
	return &config.Config{
		Kind:        "fire",
		Seed:        3,
		Generations: 4,
		Grid: config.GridConfig{
			Width:    3,
			Height:   1,
			Wrapping: false,
			Rows:     []string{"BURNING TREE TREE"},
		},
	}
}

func TestParseAxes(t *testing.T) {
	names, values, err := ParseAxes([]string{"probCatch=0,100", "x=1"})
	if err != nil {
		t.Fatalf("ParseAxes: %v", err)
	}
	if diff := cmp.Diff([]string{"probCatch", "x"}, names); diff != "" {
		t.Errorf("names (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([][]string{{"0", "100"}, {"1"}}, values); diff != "" {
		t.Errorf("values (-want +got):\n%s", diff)
	}

	for _, bad := range []string{"probCatch", "=1", "k="} {
		if _, _, err := ParseAxes([]string{bad}); err == nil {
			t.Errorf("ParseAxes(%q): expected error", bad)
		}
	}
}

func TestSearchFire(t *testing.T) {
	g := NewGridSearch([]string{"probCatch"}, [][]string{{"0", "100"}})
	points, best, err := g.Search(context.Background(), experiment.NewRegistry(), fireConfig(), "census:TREE")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(points))
	}
	// 0 percent never spreads, 100 percent burns the whole row.
	if points[0].Value != 2 || points[1].Value != 0 {
		t.Errorf("unexpected tree counts: %v", points)
	}
	if best.Params["probCatch"] != "100" {
		t.Errorf("best should minimize trees, got %v", best)
	}

	g.Maximize(true)
	_, best, err = g.Search(context.Background(), experiment.NewRegistry(), fireConfig(), "census:TREE")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if best.String() != "probCatch=0" {
		t.Errorf("best should maximize trees, got %v", best)
	}
}

func TestSearchErrors(t *testing.T) {
	reg := experiment.NewRegistry()
	if _, _, err := NewGridSearch(nil, nil).Search(context.Background(), reg, fireConfig(), "census:TREE"); !errors.Is(err, ErrNoPoints) {
		t.Errorf("expected ErrNoPoints, got %v", err)
	}

	g := NewGridSearch([]string{"probCatch"}, [][]string{{"50"}})
	if _, _, err := g.Search(context.Background(), reg, fireConfig(), "nope"); err == nil {
		t.Error("expected unknown metric error")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := g.Search(ctx, reg, fireConfig(), "census:TREE"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
