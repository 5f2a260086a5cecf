package cellular

import "fmt"

// Topology maps a cell location to the relative offsets of its neighbors.
// Returned slices are shared and must not be modified.
type Topology interface {
	Name() string
	// Size is the nominal neighborhood size of an interior cell.
	Size() int
	Offsets(at Coords) []Coords
}

type rectangular struct {
	offsets []Coords
}

func (r rectangular) Name() string              { return "rectangular" }
func (r rectangular) Size() int                 { return len(r.offsets) }
func (r rectangular) Offsets(_ Coords) []Coords { return r.offsets }

var (
	directOffsets = []Coords{
		{1, 0},
		{-1, 0},
		{0, 1},
		{0, -1},
	}
	diagonalOffsets = []Coords{
		{1, 1},
		{1, -1},
		{-1, 1},
		{-1, -1},
	}
)

var (
	// Rect4 is the rectangular von Neumann neighborhood (N, S, E, W).
	Rect4 Topology = rectangular{offsets: directOffsets}

	// Rect8 is the rectangular Moore neighborhood including diagonals.
	Rect8 Topology = rectangular{offsets: append(append([]Coords{}, directOffsets...), diagonalOffsets...)}

	// Hexagonal is the six-neighbor staggered hexagonal layout.
	Hexagonal Topology = hexagonal{}
)

// hexagonal lays hexagons out on a dense grid with every odd row shifted
// half a cell to the right, so the cross-row offsets depend on row parity.
type hexagonal struct{}

var (
	sameRowOffsets = [2]Coords{{1, 0}, {-1, 0}}

	adjacentRowOffsets = [2][4]Coords{
		{{-1, -1}, {0, -1}, {-1, 1}, {0, 1}},
		{{0, -1}, {1, -1}, {0, 1}, {1, 1}},
	}

	hexOffsets = [2][]Coords{
		append(sameRowOffsets[:], adjacentRowOffsets[0][:]...),
		append(sameRowOffsets[:], adjacentRowOffsets[1][:]...),
	}
)

func (hexagonal) Name() string { return "hexagonal" }
func (hexagonal) Size() int    { return 6 }

func (hexagonal) Offsets(at Coords) []Coords {
	return hexOffsets[at.Y&1]
}

// TopologyFor resolves a topology by name and neighborhood size. A zero
// neighbor count selects the topology's default.
func TopologyFor(name string, neighbors int) (Topology, error) {
	switch name {
	case "", "rectangular", "rect", "square":
		switch neighbors {
		case 0, 8:
			return Rect8, nil
		case 4:
			return Rect4, nil
		}
	case "hexagonal", "hex":
		if neighbors == 0 || neighbors == 6 {
			return Hexagonal, nil
		}
	}
	return nil, fmt.Errorf("%w: %q with %d neighbors", ErrUnknownTopology, name, neighbors)
}
