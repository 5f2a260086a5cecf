package metrics

import (
	"context"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/san-kum/cellsim/internal/cellular"
	"github.com/san-kum/cellsim/internal/rules"
)

func lifeGrid(t *testing.T, rows ...string) *cellular.Grid {
	t.Helper()
	states := make([][]cellular.State, len(rows))
	for y, row := range rows {
		for _, r := range row {
			if r == '#' {
				states[y] = append(states[y], rules.Alive)
			} else {
				states[y] = append(states[y], rules.Dead)
			}
		}
	}
	g, err := cellular.NewGrid(len(rows[0]), len(rows), cellular.Rect8)
	if err != nil {
		t.Fatal(err)
	}
	if err := g.AppendInitialStates(states); err != nil {
		t.Fatal(err)
	}
	return g
}

func TestCensusSeries(t *testing.T) {
	g := lifeGrid(t, ".....", ".###.", ".....")
	alive := NewCensus("ALIVE")
	a := cellular.New(g, rules.NewLife(nil))
	a.AddMetric(alive)

	if _, err := a.Run(context.Background(), 3); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if diff := cmp.Diff([]float64{3, 3, 3, 3}, alive.Series()); diff != "" {
		t.Errorf("census series mismatch (-want +got):\n%s", diff)
	}
	if alive.Name() != "census:ALIVE" {
		t.Errorf("unexpected name %q", alive.Name())
	}
}

func TestCensusReset(t *testing.T) {
	g := lifeGrid(t, "#.")
	c := NewCensus("ALIVE")
	c.Observe(0, g)
	c.Reset()
	if c.Value() != 0 || len(c.Series()) != 0 {
		t.Error("reset should clear the series")
	}
}

func TestActivityBlinker(t *testing.T) {
	// a blinker flips four of nine cells every generation
	g := lifeGrid(t, "...", "###", "...")
	act := NewActivity()
	a := cellular.New(g, rules.NewLife(nil))
	a.AddMetric(act)

	res, err := a.Run(context.Background(), 4)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	want := 4.0 / 9.0
	if got := res.Metrics["activity"]; math.Abs(got-want) > 1e-9 {
		t.Errorf("expected activity %f, got %f", want, got)
	}
}

func TestStability(t *testing.T) {
	tests := []struct {
		name string
		rows []string
		want float64
	}{
		{"block is stable at once", []string{"....", ".##.", ".##.", "...."}, 1},
		{"lone cell dies then holds", []string{"...", ".#.", "..."}, 2},
		{"blinker never settles", []string{"...", "###", "..."}, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStability()
			a := cellular.New(lifeGrid(t, tt.rows...), rules.NewLife(nil))
			a.AddMetric(s)
			if _, err := a.Run(context.Background(), 6); err != nil {
				t.Fatalf("run failed: %v", err)
			}
			if s.Value() != tt.want {
				t.Errorf("expected %v, got %v", tt.want, s.Value())
			}
		})
	}
}

func TestStabilityIgnoresCounters(t *testing.T) {
	g, err := cellular.NewGrid(1, 1, cellular.Rect4)
	if err != nil {
		t.Fatal(err)
	}
	if err := g.AppendInitialStates([][]cellular.State{{rules.Creature{Species: rules.Fish}}}); err != nil {
		t.Fatal(err)
	}
	s := NewStability()
	act := NewActivity()
	a := cellular.New(g, rules.NewWaTor(nil))
	a.AddMetric(s)
	a.AddMetric(act)
	if _, err := a.Run(context.Background(), 3); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	// the trapped fish ages in place
	if got := g.CellAt(0, 0).State().(rules.Creature).Survived; got != 3 {
		t.Fatalf("expected survived 3, got %d", got)
	}
	if s.Value() != 1 {
		t.Errorf("expected stability at 1, got %v", s.Value())
	}
	if act.Value() != 0 {
		t.Errorf("expected no activity, got %v", act.Value())
	}
}
