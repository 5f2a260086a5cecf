package cellular

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var noop = RuleFunc(func(*Generation, *Cell, []*Cell) {})

// invert flips every cell.
var invert = RuleFunc(func(g *Generation, c *Cell, _ []*Cell) {
	if c.State() == on {
		g.SetNext(c, off)
		return
	}
	g.SetNext(c, on)
})

func TestStepPreservesUntouchedCells(t *testing.T) {
	rows := []string{"#.#", ".#.", "#.."}
	g := newLoadedGrid(t, Rect8, false, rows...)
	a := New(g, noop)

	a.Step()
	a.Step()

	if g.Generation() != 2 {
		t.Fatalf("expected generation 2, got %d", g.Generation())
	}
	if diff := cmp.Diff(rows, render(g.ExtractStates(0))); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(rows, render(g.ExtractStates(-2))); diff != "" {
		t.Errorf("history (-want +got):\n%s", diff)
	}
}

func TestStepReadsCurrentWritesNext(t *testing.T) {
	g := newLoadedGrid(t, Rect4, true, "#..", "...")

	// Every cell copies its left neighbor; with double buffering the
	// pattern shifts by exactly one column per generation.
	shift := RuleFunc(func(gen *Generation, c *Cell, _ []*Cell) {
		left, _ := gen.Grid().Resolve(c.Coords().Add(At(-1, 0)))
		gen.SetNext(c, left.State())
	})
	a := New(g, shift)
	a.Step()

	if diff := cmp.Diff([]string{".#.", "..."}, render(g.ExtractStates(0))); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestSetRuleAffectsOnlyLaterGenerations(t *testing.T) {
	g := newLoadedGrid(t, Rect8, false, "#.")
	a := New(g, invert)
	a.Step()
	a.SetRule(noop)
	a.Step()

	want := [][]string{{"#."}, {".#"}, {".#"}}
	for i, w := range want {
		got := render(g.ExtractStates(i - 2))
		if diff := cmp.Diff(w, got); diff != "" {
			t.Errorf("generation %d (-want +got):\n%s", i, diff)
		}
	}
}

func TestMoveClaimNeverDoubleBooks(t *testing.T) {
	// Two movers share a single empty neighbor between them.
	isOff := func(s State) bool { return s == off }

	move := RuleFunc(func(gen *Generation, c *Cell, neighbors []*Cell) {
		if c.State() != on {
			return
		}
		if dest := gen.PickClaimable(neighbors, isOff); dest != nil {
			gen.SetNext(dest, on)
			gen.SetNext(c, off)
		}
	})

	for seed := int64(0); seed < 20; seed++ {
		g := newLoadedGrid(t, Rect4, false, "#.#")
		New(g, move, WithSeed(seed)).Step()

		if diff := cmp.Diff([]string{".##"}, render(g.ExtractStates(0))); diff != "" {
			t.Fatalf("seed %d (-want +got):\n%s", seed, diff)
		}
	}
}

func TestGenerationHandleExpiresAfterStep(t *testing.T) {
	g := newLoadedGrid(t, Rect8, false, "#")
	var leaked *Generation
	a := New(g, RuleFunc(func(gen *Generation, _ *Cell, _ []*Cell) { leaked = gen }))
	a.Step()

	expectProtocolPanic(t, func() { leaked.SetNext(g.CellAt(0, 0), off) })
	expectProtocolPanic(t, func() { _ = leaked.Next(g.CellAt(0, 0)) })
}

func TestGenerationRejectsForeignCells(t *testing.T) {
	g := newLoadedGrid(t, Rect8, false, "#")
	other := newLoadedGrid(t, Rect8, false, "#")

	a := New(g, RuleFunc(func(gen *Generation, _ *Cell, _ []*Cell) {
		gen.SetNext(other.CellAt(0, 0), off)
	}))
	expectProtocolPanic(t, a.Step)
}

func TestForceStateDuringStepPanics(t *testing.T) {
	g := newLoadedGrid(t, Rect8, false, "#")
	a := New(g, RuleFunc(func(_ *Generation, c *Cell, _ []*Cell) { c.ForceState(off) }))
	expectProtocolPanic(t, a.Step)
}

func TestStepBeforeInitialStatesPanics(t *testing.T) {
	g, _ := NewGrid(2, 2, Rect8)
	expectProtocolPanic(t, New(g, noop).Step)
}

func TestNextReadsOnlyThroughGeneration(t *testing.T) {
	g := newLoadedGrid(t, Rect8, false, "#.")
	var sawNext State
	a := New(g, RuleFunc(func(gen *Generation, c *Cell, _ []*Cell) {
		if c.Coords() == At(0, 0) {
			gen.SetNext(c, off)
			return
		}
		left := gen.Grid().CellAt(0, 0)
		if _, ok := left.StateAt(1); ok {
			t.Error("StateAt(+1) must not expose the next generation")
		}
		sawNext = gen.Next(left)
	}))
	a.Step()

	if sawNext != off {
		t.Errorf("expected the claimed next state, got %v", sawNext)
	}
}

type countingObserver struct{ generations []int }

func (o *countingObserver) OnStep(gen int, _ *Grid) { o.generations = append(o.generations, gen) }

type onCount struct{ last, samples int }

func (m *onCount) Name() string { return "on" }
func (m *onCount) Observe(_ int, g *Grid) {
	m.samples++
	m.last = 0
	for _, c := range g.Cells() {
		if c.State() == on {
			m.last++
		}
	}
}
func (m *onCount) Value() float64 { return float64(m.last) }
func (m *onCount) Reset()         { m.last, m.samples = 0, 0 }

func TestRunCollectsObserversAndMetrics(t *testing.T) {
	g := newLoadedGrid(t, Rect8, false, "#..")
	a := New(g, invert)
	obs := &countingObserver{}
	metric := &onCount{}
	a.AddObserver(obs)
	a.AddMetric(metric)

	result, err := a.Run(context.Background(), 3)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if result.Generations != 3 || result.FinalGeneration != 3 {
		t.Errorf("unexpected result %+v", result)
	}
	if diff := cmp.Diff([]int{1, 2, 3}, obs.generations); diff != "" {
		t.Errorf("observer generations (-want +got):\n%s", diff)
	}
	if metric.samples != 4 {
		t.Errorf("expected 4 metric samples, got %d", metric.samples)
	}
	if result.Metrics["on"] != 2 {
		t.Errorf("expected 2 cells on after 3 inversions, got %v", result.Metrics["on"])
	}
}

func TestRunHonorsCanceledContext(t *testing.T) {
	g := newLoadedGrid(t, Rect8, false, "#")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := New(g, invert).Run(ctx, 10)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if result.Generations != 0 || g.Generation() != 0 {
		t.Errorf("expected no generations, got %d", result.Generations)
	}
}

func TestRunInvalidInput(t *testing.T) {
	empty, _ := NewGrid(2, 2, Rect8)
	if _, err := New(empty, noop).Run(context.Background(), 1); err == nil {
		t.Error("expected error for a grid without initial states")
	}
	loaded := newLoadedGrid(t, Rect8, false, "#")
	if _, err := New(loaded, noop).Run(context.Background(), -1); err == nil {
		t.Error("expected error for negative generations")
	}
}
