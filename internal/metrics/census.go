package metrics

import "github.com/san-kum/cellsim/internal/cellular"

// Census counts the cells in one named state every generation.
type Census struct {
	state  string
	series []float64
}

func NewCensus(state string) *Census {
	return &Census{state: state}
}

func (c *Census) Name() string {
	return "census:" + c.state
}

func (c *Census) State() string { return c.state }

func (c *Census) Observe(_ int, grid *cellular.Grid) {
	n := 0
	for _, cell := range grid.Cells() {
		if s := cell.State(); s != nil && s.String() == c.state {
			n++
		}
	}
	c.series = append(c.series, float64(n))
}

// Value is the count in the latest observed generation.
func (c *Census) Value() float64 {
	if len(c.series) == 0 {
		return 0
	}
	return c.series[len(c.series)-1]
}

// Series returns one count per observed generation, oldest first.
func (c *Census) Series() []float64 {
	return c.series
}

func (c *Census) Reset() {
	c.series = c.series[:0]
}
