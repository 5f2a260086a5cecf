package metrics

import "github.com/san-kum/cellsim/internal/cellular"

// Activity is the mean fraction of cells that changed state per generation.
// The first observation after Reset is the baseline.
type Activity struct {
	primed  bool
	sum     float64
	samples int
}

func NewActivity() *Activity {
	return &Activity{}
}

func (a *Activity) Name() string {
	return "activity"
}

func (a *Activity) Observe(_ int, grid *cellular.Grid) {
	if !a.primed {
		a.primed = true
		return
	}
	a.sum += float64(changed(grid)) / float64(grid.Len())
	a.samples++
}

func (a *Activity) Value() float64 {
	if a.samples == 0 {
		return 0
	}
	return a.sum / float64(a.samples)
}

func (a *Activity) Reset() {
	a.primed = false
	a.sum = 0
	a.samples = 0
}

// changed counts cells whose state name differs from the previous
// generation, so per-creature counters do not count as change. Cells without
// a previous entry are not counted.
func changed(grid *cellular.Grid) int {
	n := 0
	for _, c := range grid.Cells() {
		prev, ok := c.StateAt(-1)
		if ok && name(prev) != name(c.State()) {
			n++
		}
	}
	return n
}

func name(s cellular.State) string {
	if s == nil {
		return ""
	}
	return s.String()
}
