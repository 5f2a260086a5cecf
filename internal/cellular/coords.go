package cellular

import "fmt"

// Coords is an immutable integer vector on a 2-D grid. The same type is used
// for absolute cell locations and relative neighbor offsets.
type Coords struct {
	X, Y int
}

// At is shorthand for Coords{X: x, Y: y}.
func At(x, y int) Coords { return Coords{X: x, Y: y} }

func (c Coords) Add(o Coords) Coords { return Coords{c.X + o.X, c.Y + o.Y} }

func (c Coords) Sub(o Coords) Coords { return Coords{c.X - o.X, c.Y - o.Y} }

func (c Coords) Dot(o Coords) int { return c.X*o.X + c.Y*o.Y }

func (c Coords) String() string { return fmt.Sprintf("(%d,%d)", c.X, c.Y) }
