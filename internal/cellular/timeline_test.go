package cellular

import (
	"errors"
	"testing"
)

func TestTimelineEmpty(t *testing.T) {
	tl := NewTimeline[int](Unbounded)
	if tl.Latest() != -1 || tl.Oldest() != -1 {
		t.Fatalf("empty timeline: latest=%d oldest=%d", tl.Latest(), tl.Oldest())
	}
	if _, ok := tl.At(0); ok {
		t.Error("expected generation 0 to be absent")
	}
}

func TestTimelineUnboundedKeepsEverything(t *testing.T) {
	tl := NewTimeline[int](Unbounded)
	for i := 0; i < 50; i++ {
		tl.AppendAt(i, i*10)
	}
	if tl.Len() != 50 || tl.Oldest() != 0 || tl.Latest() != 49 {
		t.Fatalf("len=%d oldest=%d latest=%d", tl.Len(), tl.Oldest(), tl.Latest())
	}
	if v, ok := tl.At(17); !ok || v != 170 {
		t.Errorf("At(17) = %d, %v", v, ok)
	}
	if _, ok := tl.At(-1); ok {
		t.Error("negative generation must be absent")
	}
}

func TestTimelineBoundedTrimsOldest(t *testing.T) {
	tl := NewTimeline[string](3)
	for i, s := range []string{"a", "b", "c", "d", "e"} {
		tl.AppendAt(i, s)
	}

	if tl.Len() != 3 {
		t.Fatalf("expected 3 retained entries, got %d", tl.Len())
	}
	if tl.Oldest() != 2 || tl.Latest() != 4 {
		t.Fatalf("expected range [2,4], got [%d,%d]", tl.Oldest(), tl.Latest())
	}
	if _, ok := tl.At(1); ok {
		t.Error("trimmed generation must be absent")
	}
	for gen, want := range map[int]string{2: "c", 3: "d", 4: "e"} {
		if got, ok := tl.At(gen); !ok || got != want {
			t.Errorf("At(%d) = %q, %v; want %q", gen, got, ok, want)
		}
	}
}

func TestTimelineOutOfSequencePanics(t *testing.T) {
	tests := []struct {
		name string
		fill int
		at   int
	}{
		{"skip on empty", 0, 1},
		{"skip ahead", 3, 5},
		{"rewrite past", 3, 1},
		{"repeat latest", 3, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tl := NewTimeline[int](Unbounded)
			for i := 0; i < tt.fill; i++ {
				tl.AppendAt(i, i)
			}
			expectProtocolPanic(t, func() { tl.AppendAt(tt.at, 0) })
		})
	}
}

func TestProtocolErrorUnwraps(t *testing.T) {
	err := error(protocolf("boom"))
	if !errors.Is(err, ErrProtocolViolation) {
		t.Error("ProtocolError must unwrap to ErrProtocolViolation")
	}
}
