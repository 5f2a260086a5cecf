package cellular

import (
	"strings"
	"testing"
)

type testState string

func (s testState) String() string { return string(s) }

const (
	on  testState = "ON"
	off testState = "OFF"
)

// matrix builds a state matrix from rows such as "#..#", where '#' is on.
func matrix(rows ...string) [][]State {
	out := make([][]State, len(rows))
	for y, r := range rows {
		out[y] = make([]State, len(r))
		for x, ch := range r {
			if ch == '#' {
				out[y][x] = on
			} else {
				out[y][x] = off
			}
		}
	}
	return out
}

func render(states [][]State) []string {
	out := make([]string, len(states))
	for y, row := range states {
		var b strings.Builder
		for _, s := range row {
			if s == on {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
		out[y] = b.String()
	}
	return out
}

func newLoadedGrid(t *testing.T, topo Topology, wrap bool, rows ...string) *Grid {
	t.Helper()
	g, err := NewGrid(len(rows[0]), len(rows), topo, WithWrapping(wrap))
	if err != nil {
		t.Fatalf("new grid: %v", err)
	}
	if err := g.AppendInitialStates(matrix(rows...)); err != nil {
		t.Fatalf("append initial states: %v", err)
	}
	return g
}

func expectProtocolPanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected protocol violation panic")
		}
		pe, ok := r.(*ProtocolError)
		if !ok {
			t.Fatalf("expected *ProtocolError, got %T: %v", r, r)
		}
		if !strings.Contains(pe.Error(), "protocol") {
			t.Errorf("unexpected message %q", pe.Error())
		}
	}()
	fn()
}
