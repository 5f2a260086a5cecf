package config

import (
	"maps"
	"slices"
	"strings"
)

var Presets = map[string]map[string]*Config{
	"gameoflife": {
		"glider": {
			Title: "Glider", Kind: "gameoflife", Generations: 40,
			Grid: GridConfig{Width: 8, Height: 8, Wrapping: true, Rows: picture("ALIVE", "DEAD",
				".#......",
				"..#.....",
				"###.....",
				"........",
				"........",
				"........",
				"........",
				"........",
			)},
		},
		"soup": {
			Title: "Random soup", Kind: "gameoflife", Generations: 200,
			Grid: GridConfig{Width: 48, Height: 32, Wrapping: true, Distribution: RandomTotal,
				Weights: map[string]int{"ALIVE": 1, "DEAD": 2}},
		},
		"highlife": {
			Title: "HighLife", Kind: "gameoflife", Generations: 200,
			Grid:   GridConfig{Width: 48, Height: 32, Wrapping: true, Distribution: Random},
			Params: map[string]string{"rules": "B36/S23"},
		},
	},
	"fire": {
		"forest": {
			Title: "Forest fire", Kind: "fire", Generations: 60,
			Grid: GridConfig{Width: 40, Height: 24, Topology: "rectangular", Neighbors: 4,
				Distribution: RandomTotal, Weights: map[string]int{"EMPTY": 1, "TREE": 18, "BURNING": 1}},
			Params: map[string]string{"probCatch": "60"},
		},
	},
	"percolation": {
		"porous": {
			Title: "Percolation", Kind: "percolation", Generations: 80,
			Grid: GridConfig{Width: 40, Height: 24, Topology: "rectangular", Neighbors: 4,
				Distribution: RandomTotal, Weights: map[string]int{"BLOCKED": 8, "OPEN": 11, "PERCOLATED": 1}},
		},
	},
	"rps": {
		"spirals": {
			Title: "Rock paper scissors", Kind: "rps", Generations: 150,
			Grid:   GridConfig{Width: 48, Height: 32, Wrapping: true, Distribution: Random},
			Params: map[string]string{"threshold": "3"},
		},
	},
	"segregation": {
		"schelling": {
			Title: "Schelling segregation", Kind: "segregation", Generations: 50,
			Grid: GridConfig{Width: 30, Height: 20, Distribution: RandomTotal,
				Weights: map[string]int{"X": 4, "O": 4, "OPEN": 2}},
			Params: map[string]string{"neighborsNeeded": "0.4"},
		},
	},
	"wator": {
		"ocean": {
			Title: "Wa-Tor", Kind: "wator", Generations: 200,
			Grid: GridConfig{Width: 48, Height: 32, Wrapping: true, Topology: "rectangular", Neighbors: 4,
				Distribution: RandomTotal, Weights: map[string]int{"EMPTY": 14, "FISH": 5, "SHARK": 1}},
			Params: map[string]string{"rules": "F3/S8/X4"},
		},
	},
	"elementary": {
		"rule30": {
			Title: "Rule 30", Kind: "elementary", Generations: 32,
			Grid: GridConfig{Width: 65, Height: 33, Rows: seeded(65, 33)},
		},
		"rule110": {
			Title: "Rule 110", Kind: "elementary", Generations: 32,
			Grid:   GridConfig{Width: 65, Height: 33, Rows: seeded(65, 33)},
			Params: map[string]string{"rule": "110"},
		},
	},
}

// picture turns '#'/'.' art into rows of state names.
func picture(on, off string, art ...string) []string {
	rows := make([]string, len(art))
	for y, line := range art {
		names := make([]string, len(line))
		for x, r := range line {
			names[x] = off
			if r == '#' {
				names[x] = on
			}
		}
		rows[y] = strings.Join(names, " ")
	}
	return rows
}

// seeded is a dead canvas with one live cell in the middle of the top row.
func seeded(width, height int) []string {
	art := make([]string, height)
	for y := range art {
		art[y] = strings.Repeat(".", width)
	}
	art[0] = strings.Repeat(".", width/2) + "#" + strings.Repeat(".", width-width/2-1)
	return picture("ALIVE", "DEAD", art...)
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(kind, preset string) *Config {
	kindPresets, ok := Presets[kind]
	if !ok {
		return nil
	}
	cfg, ok := kindPresets[preset]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets(kind string) []string {
	kindPresets, ok := Presets[kind]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(kindPresets))
	for name := range kindPresets {
		names = append(names, name)
	}
	return names
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Grid.Rows = slices.Clone(c.Grid.Rows)
	out.Grid.Weights = maps.Clone(c.Grid.Weights)
	out.Params = maps.Clone(c.Params)
	return &out
}
