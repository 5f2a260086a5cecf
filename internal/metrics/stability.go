package metrics

import "github.com/san-kum/cellsim/internal/cellular"

// Stability records the first generation identical to its predecessor.
// Value is -1 while no fixed point has been seen.
type Stability struct {
	primed bool
	first  int
}

func NewStability() *Stability {
	return &Stability{first: -1}
}

func (s *Stability) Name() string {
	return "stability"
}

func (s *Stability) Observe(gen int, grid *cellular.Grid) {
	if !s.primed {
		s.primed = true
		return
	}
	if s.first >= 0 {
		return
	}
	if changed(grid) == 0 {
		s.first = gen
	}
}

func (s *Stability) Value() float64 {
	return float64(s.first)
}

func (s *Stability) Reached() bool { return s.first >= 0 }

func (s *Stability) Reset() {
	s.primed = false
	s.first = -1
}
