package rules

import (
	"strings"

	"github.com/san-kum/cellsim/internal/cellular"
)

// LifeState is a life-like automaton state.
type LifeState uint8

const (
	Dead LifeState = iota
	Alive
)

// LifeStates lists the state names accepted by ParseLifeState.
var LifeStates = []string{"DEAD", "ALIVE"}

func (s LifeState) String() string { return enumName(LifeStates, uint8(s)) }

// ParseLifeState parses "DEAD" or "ALIVE".
func ParseLifeState(name string) (cellular.State, error) {
	return parseEnum[LifeState]("gameoflife", name, LifeStates)
}

// DefaultLifeRule is Conway's Game of Life.
const DefaultLifeRule = "B3/S23"

// Life is a life-like birth/survival rule. A live cell survives when its live
// neighbor count is in the survive set; a dead cell is born when the count
// is in the birth set.
//
// Parameters:
//
//	rules  birth/survival string such as "B3/S23" (default B3/S23)
type Life struct {
	rule    string
	birth   [10]bool
	survive [10]bool
}

// NewLife returns a Life rule configured from params.
func NewLife(params map[string]string) *Life {
	l := &Life{}
	l.Configure(params)
	return l
}

// Configure parses the "rules" parameter, keeping B3/S23 when it is absent
// or malformed.
func (l *Life) Configure(params map[string]string) {
	rule := DefaultLifeRule
	if v, ok := params["rules"]; ok {
		if _, _, valid := ParseBirthSurvive(v); valid {
			rule = strings.ToUpper(strings.TrimSpace(v))
		}
	}
	birth, survive, _ := ParseBirthSurvive(rule)
	l.rule = rule
	l.birth = [10]bool{}
	l.survive = [10]bool{}
	for _, n := range birth {
		l.birth[n] = true
	}
	for _, n := range survive {
		l.survive[n] = true
	}
}

// Rule returns the active birth/survival string.
func (l *Life) Rule() string { return l.rule }

func (l *Life) Advance(g *cellular.Generation, cell *cellular.Cell, neighbors []*cellular.Cell) {
	alive := count(neighbors, is(Alive))
	if cell.State() == Alive {
		if !l.survive[alive] {
			g.SetNext(cell, Dead)
		}
		return
	}
	if l.birth[alive] {
		g.SetNext(cell, Alive)
	}
}

func (l *Life) Describe() []Param {
	return []Param{{
		Key:         "rules",
		Value:       l.rule,
		Default:     DefaultLifeRule,
		Description: "birth/survival neighbor counts, B<digits>/S<digits>",
	}}
}

// ParseBirthSurvive parses a "B<digits>/S<digits>" string. Either digit list
// may be empty. ok is false when the string is malformed.
func ParseBirthSurvive(rule string) (birth, survive []int, ok bool) {
	parts := strings.Split(strings.ToUpper(strings.TrimSpace(rule)), "/")
	if len(parts) != 2 || !strings.HasPrefix(parts[0], "B") || !strings.HasPrefix(parts[1], "S") {
		return nil, nil, false
	}
	if birth, ok = digits(parts[0][1:]); !ok {
		return nil, nil, false
	}
	if survive, ok = digits(parts[1][1:]); !ok {
		return nil, nil, false
	}
	return birth, survive, true
}

func digits(s string) ([]int, bool) {
	out := make([]int, 0, len(s))
	for _, r := range s {
		if r < '0' || r > '9' {
			return nil, false
		}
		out = append(out, int(r-'0'))
	}
	return out, true
}
