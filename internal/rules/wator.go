package rules

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/san-kum/cellsim/internal/cellular"
)

// Species is the occupant of a Wa-Tor cell.
type Species uint8

const (
	Water Species = iota
	Fish
	Shark
)

var SpeciesNames = []string{"EMPTY", "FISH", "SHARK"}

func (s Species) String() string { return enumName(SpeciesNames, uint8(s)) }

// Creature is a Wa-Tor state. Survived counts generations since birth or the
// last breeding; Hunger counts generations since a shark last ate.
type Creature struct {
	Species  Species
	Survived int
	Hunger   int
}

func (c Creature) String() string { return c.Species.String() }

// ParseCreature parses a species name into a newborn creature.
func ParseCreature(name string) (cellular.State, error) {
	s, err := parseEnum[Species]("wator", name, SpeciesNames)
	if err != nil {
		return nil, err
	}
	return Creature{Species: s}, nil
}

func speciesOf(s cellular.State) Species {
	if c, ok := s.(Creature); ok {
		return c.Species
	}
	return Water
}

func isSpecies(sp Species) func(cellular.State) bool {
	return func(s cellular.State) bool {
		c, ok := s.(Creature)
		return ok && c.Species == sp
	}
}

var empty = Creature{Species: Water}

// WaTorRules holds the fish and shark breeding ages and the shark starvation
// limit, all in generations.
type WaTorRules struct {
	FishBreed  int
	SharkBreed int
	Starve     int
}

var DefaultWaTorRules = WaTorRules{FishBreed: 3, SharkBreed: 5, Starve: 3}

func (r WaTorRules) String() string {
	return fmt.Sprintf("F%d/S%d/X%d", r.FishBreed, r.SharkBreed, r.Starve)
}

// ParseWaTorRules parses "F<n>/S<n>/X<n>". Parts that are missing,
// malformed or non-positive keep their default.
func ParseWaTorRules(s string) WaTorRules {
	out := DefaultWaTorRules
	for _, part := range strings.Split(strings.ToUpper(strings.TrimSpace(s)), "/") {
		if len(part) < 2 {
			continue
		}
		n, err := strconv.Atoi(part[1:])
		if err != nil || n <= 0 {
			continue
		}
		switch part[0] {
		case 'F':
			out.FishBreed = n
		case 'S':
			out.SharkBreed = n
		case 'X':
			out.Starve = n
		}
	}
	return out
}

// WaTor is the predator-prey ocean. Fish wander into empty water and breed.
// Sharks eat an adjacent fish when they can, otherwise wander, and starve
// after too long without food.
type WaTor struct {
	rules WaTorRules
}

func NewWaTor(params map[string]string) *WaTor {
	w := &WaTor{}
	w.Configure(params)
	return w
}

func (w *WaTor) Configure(params map[string]string) {
	w.rules = DefaultWaTorRules
	if v, ok := params["rules"]; ok {
		w.rules = ParseWaTorRules(v)
	}
}

func (w *WaTor) Rules() WaTorRules { return w.rules }

func (w *WaTor) Advance(g *cellular.Generation, cell *cellular.Cell, neighbors []*cellular.Cell) {
	cur, ok := cell.State().(Creature)
	if !ok {
		return
	}
	switch cur.Species {
	case Fish:
		// eaten earlier this step
		if speciesOf(g.Next(cell)) != Fish {
			return
		}
		w.act(g, cell, cur, neighbors, w.rules.FishBreed)
	case Shark:
		w.act(g, cell, cur, neighbors, w.rules.SharkBreed)
	}
}

func (w *WaTor) act(g *cellular.Generation, cell *cellular.Cell, cur Creature, neighbors []*cellular.Cell, breedAt int) {
	aged := Creature{Species: cur.Species, Survived: cur.Survived + 1, Hunger: cur.Hunger + 1}
	home := cell

	var food *cellular.Cell
	if cur.Species == Shark {
		food = g.PickClaimable(neighbors, isSpecies(Fish))
	}
	switch {
	case food != nil:
		g.SetNext(food, empty)
		aged.Hunger = 0
		g.SetNext(cell, aged)
	case cur.Species == Shark && cur.Hunger >= w.rules.Starve:
		g.SetNext(cell, empty)
		return
	default:
		if dest := g.PickClaimable(neighbors, isSpecies(Water)); dest != nil {
			g.SetNext(dest, aged)
			g.SetNext(cell, empty)
			home = dest
		} else {
			g.SetNext(cell, aged)
		}
	}

	if cur.Survived < breedAt {
		return
	}
	if spawn := g.PickClaimable(neighbors, isSpecies(Water)); spawn != nil {
		g.SetNext(spawn, Creature{Species: cur.Species})
		aged.Survived = 0
		g.SetNext(home, aged)
	}
}

func (w *WaTor) Describe() []Param {
	return []Param{{
		Key:         "rules",
		Value:       w.rules.String(),
		Default:     DefaultWaTorRules.String(),
		Description: "F<fish breed>/S<shark breed>/X<shark starve>",
	}}
}
