package rules_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/cellsim/internal/cellular"
	"github.com/san-kum/cellsim/internal/rules"
)

var lifeGlyphs = map[string]rune{"ALIVE": '#', "DEAD": '.'}

var _ = Describe("Life", func() {
	It("kills an isolated cell", func() {
		g := load(rules.ParseLifeState, cellular.Rect8, false,
			"DEAD DEAD DEAD",
			"DEAD ALIVE DEAD",
			"DEAD DEAD DEAD")
		cellular.New(g, rules.NewLife(nil)).Step()
		Expect(countState(g, "ALIVE")).To(Equal(0))
	})

	It("keeps a block stable for many generations", func() {
		g := load(rules.ParseLifeState, cellular.Rect8, false,
			"DEAD DEAD DEAD DEAD",
			"DEAD ALIVE ALIVE DEAD",
			"DEAD ALIVE ALIVE DEAD",
			"DEAD DEAD DEAD DEAD")
		a := cellular.New(g, rules.NewLife(nil))
		before := picture(g, lifeGlyphs)
		for i := 0; i < 10; i++ {
			a.Step()
		}
		Expect(picture(g, lifeGlyphs)).To(Equal(before))
	})

	It("oscillates a blinker with period two", func() {
		g := load(rules.ParseLifeState, cellular.Rect8, false,
			"DEAD DEAD DEAD",
			"ALIVE ALIVE ALIVE",
			"DEAD DEAD DEAD")
		a := cellular.New(g, rules.NewLife(nil))
		a.Step()
		Expect(picture(g, lifeGlyphs)).To(Equal([]string{".#.", ".#.", ".#."}))
		a.Step()
		Expect(picture(g, lifeGlyphs)).To(Equal([]string{"...", "###", "..."}))
	})

	It("honors a custom birth rule", func() {
		g := load(rules.ParseLifeState, cellular.Rect8, false,
			"ALIVE DEAD DEAD",
			"DEAD DEAD DEAD",
			"DEAD DEAD DEAD")
		cellular.New(g, rules.NewLife(map[string]string{"rules": "B1/S"})).Step()
		Expect(picture(g, lifeGlyphs)).To(Equal([]string{".#.", "##.", "..."}))
	})

	DescribeTable("rule string parsing",
		func(in, want string) {
			Expect(rules.NewLife(map[string]string{"rules": in}).Rule()).To(Equal(want))
		},
		Entry("conway", "B3/S23", "B3/S23"),
		Entry("highlife lower case", "b36/s23", "B36/S23"),
		Entry("empty sets", "B/S", "B/S"),
		Entry("missing slash", "B3S23", rules.DefaultLifeRule),
		Entry("letters", "B3x/S23", rules.DefaultLifeRule),
		Entry("swapped", "S23/B3", rules.DefaultLifeRule),
	)

	It("defaults when the parameter is absent", func() {
		Expect(rules.NewLife(map[string]string{}).Rule()).To(Equal(rules.DefaultLifeRule))
	})
})

var _ = Describe("Fire", func() {
	It("burns out and always spreads at probability 100", func() {
		g := load(rules.ParseFireState, cellular.Rect4, false,
			"TREE BURNING TREE",
			"EMPTY TREE EMPTY")
		cellular.New(g, rules.NewFire(map[string]string{"probCatch": "100"})).Step()
		Expect(g.ExtractNames(0)).To(Equal([][]string{
			{"BURNING", "EMPTY", "BURNING"},
			{"EMPTY", "BURNING", "EMPTY"},
		}))
	})

	It("never spreads at probability 0", func() {
		g := load(rules.ParseFireState, cellular.Rect8, false,
			"TREE BURNING TREE")
		cellular.New(g, rules.NewFire(map[string]string{"probCatch": "0"})).Step()
		Expect(g.ExtractNames(0)).To(Equal([][]string{{"TREE", "EMPTY", "TREE"}}))
	})

	It("falls back to the default chance", func() {
		Expect(rules.NewFire(map[string]string{"probCatch": "150"}).ProbCatch()).To(Equal(rules.DefaultProbCatch))
		Expect(rules.NewFire(nil).ProbCatch()).To(Equal(rules.DefaultProbCatch))
	})
})

var _ = Describe("Percolation", func() {
	It("floods one step per generation through open cells", func() {
		g := load(rules.ParsePercolationState, cellular.Rect4, false,
			"PERCOLATED OPEN OPEN BLOCKED OPEN")
		a := cellular.New(g, rules.NewPercolation(nil))
		a.Step()
		Expect(g.ExtractNames(0)[0]).To(Equal([]string{"PERCOLATED", "PERCOLATED", "OPEN", "BLOCKED", "OPEN"}))
		a.Step()
		a.Step()
		Expect(g.ExtractNames(0)[0]).To(Equal([]string{"PERCOLATED", "PERCOLATED", "PERCOLATED", "BLOCKED", "OPEN"}))
	})
})

var _ = Describe("RPS", func() {
	It("converts a cell surrounded by its winner", func() {
		g := load(rules.ParseRPSState, cellular.Rect8, false,
			"PAPER PAPER PAPER",
			"PAPER ROCK PAPER",
			"PAPER PAPER PAPER")
		cellular.New(g, rules.NewRPS(nil)).Step()
		Expect(g.CellAt(1, 1).State()).To(Equal(rules.Paper))
	})

	It("leaves a cell below threshold alone", func() {
		g := load(rules.ParseRPSState, cellular.Rect8, false,
			"PAPER PAPER EMPTY",
			"EMPTY ROCK EMPTY",
			"EMPTY EMPTY EMPTY")
		cellular.New(g, rules.NewRPS(nil)).Step()
		Expect(g.CellAt(1, 1).State()).To(Equal(rules.Rock))
	})

	It("colonizes empty cells with the majority kind", func() {
		g := load(rules.ParseRPSState, cellular.Rect8, false,
			"SCISSOR SCISSOR SCISSOR",
			"SCISSOR EMPTY SCISSOR",
			"ROCK ROCK ROCK")
		cellular.New(g, rules.NewRPS(nil)).Step()
		Expect(g.CellAt(1, 1).State()).To(Equal(rules.Scissor))
	})
})

var segGlyphs = map[string]rune{"X": 'x', "O": 'o', "OPEN": '.'}

var _ = Describe("Segregation", func() {
	It("always relocates an agent with no similar neighbors", func() {
		for seed := int64(0); seed < 20; seed++ {
			g := load(rules.ParseSegregationState, cellular.Rect8, false,
				"O X OPEN OPEN OPEN",
				"OPEN OPEN OPEN OPEN OPEN")
			cellular.New(g, rules.NewSegregation(map[string]string{"neighborsNeeded": "0.01"}), cellular.WithSeed(seed)).Step()
			// each agent only sees the other, so both leave
			Expect(countState(g, "X")).To(Equal(1))
			Expect(countState(g, "O")).To(Equal(1))
			Expect(g.CellAt(0, 0).State()).To(Equal(rules.Vacant), "seed %d", seed)
			Expect(g.CellAt(1, 0).State()).To(Equal(rules.Vacant), "seed %d", seed)
		}
	})

	It("keeps isolated agents in place", func() {
		g := load(rules.ParseSegregationState, cellular.Rect8, false,
			"X OPEN OPEN OPEN",
			"OPEN OPEN OPEN O")
		cellular.New(g, rules.NewSegregation(nil)).Step()
		Expect(picture(g, segGlyphs)).To(Equal([]string{"x...", "...o"}))
	})

	It("moves agents whose populated to similar ratio reaches the threshold", func() {
		for seed := int64(0); seed < 20; seed++ {
			g := load(rules.ParseSegregationState, cellular.Rect8, false,
				"X X OPEN OPEN",
				"OPEN OPEN OPEN O")
			cellular.New(g, rules.NewSegregation(nil), cellular.WithSeed(seed)).Step()
			// 1/1 >= 0.2 for both X agents; O has no populated neighbors
			Expect(g.CellAt(0, 0).State()).To(Equal(rules.Vacant), "seed %d", seed)
			Expect(g.CellAt(1, 0).State()).To(Equal(rules.Vacant), "seed %d", seed)
			Expect(g.CellAt(3, 1).State()).To(Equal(rules.AgentO), "seed %d", seed)
			Expect(countState(g, "X")).To(Equal(2))
		}
	})

	It("leaves unhappy agents in place when no cell is vacant", func() {
		g := load(rules.ParseSegregationState, cellular.Rect8, false,
			"X O X O",
			"O X O X")
		cellular.New(g, rules.NewSegregation(map[string]string{"neighborsNeeded": "0.99"})).Step()
		Expect(picture(g, segGlyphs)).To(Equal([]string{"xoxo", "oxox"}))
	})

	It("rejects ratios outside (0,1)", func() {
		Expect(rules.NewSegregation(map[string]string{"neighborsNeeded": "1"}).NeighborsNeeded()).
			To(Equal(rules.DefaultNeighborsNeeded))
		Expect(rules.NewSegregation(map[string]string{"neighborsNeeded": "0.5"}).NeighborsNeeded()).
			To(Equal(0.5))
	})
})

var _ = Describe("WaTor", func() {
	It("moves a lone shark into exactly one of two empty neighbors", func() {
		for seed := int64(0); seed < 20; seed++ {
			g := load(rules.ParseCreature, cellular.Rect4, false,
				"EMPTY SHARK EMPTY")
			cellular.New(g, rules.NewWaTor(nil), cellular.WithSeed(seed)).Step()
			row := g.ExtractNames(0)[0]
			Expect(row[1]).To(Equal("EMPTY"))
			Expect(strings.Join(row, " ")).To(Or(Equal("SHARK EMPTY EMPTY"), Equal("EMPTY EMPTY SHARK")))
		}
	})

	It("eats an adjacent fish and resets hunger", func() {
		g := load(rules.ParseCreature, cellular.Rect4, false,
			"SHARK FISH")
		cellular.New(g, rules.NewWaTor(nil)).Step()
		Expect(g.ExtractNames(0)).To(Equal([][]string{{"SHARK", "EMPTY"}}))
		shark := g.CellAt(0, 0).State().(rules.Creature)
		Expect(shark.Hunger).To(Equal(0))
		Expect(shark.Survived).To(Equal(1))
	})

	It("starves a shark with nothing to eat", func() {
		g := load(rules.ParseCreature, cellular.Rect4, false, "SHARK")
		a := cellular.New(g, rules.NewWaTor(map[string]string{"rules": "F3/S9/X2"}))
		a.Step()
		a.Step()
		Expect(g.CellAt(0, 0).State().String()).To(Equal("SHARK"))
		a.Step()
		Expect(g.CellAt(0, 0).State().String()).To(Equal("EMPTY"))
	})

	It("does not move or breed a fish eaten earlier in the generation", func() {
		g := load(rules.ParseCreature, cellular.Rect4, false, "SHARK FISH EMPTY")
		g.CellAt(1, 0).ForceState(rules.Creature{Species: rules.Fish, Survived: 3})
		cellular.New(g, rules.NewWaTor(nil)).Step()
		Expect(g.ExtractNames(0)).To(Equal([][]string{{"SHARK", "EMPTY", "EMPTY"}}))
		Expect(g.CellAt(0, 0).State().(rules.Creature).Hunger).To(Equal(0))
	})

	It("breeds into the origin's other empty neighbor", func() {
		g := load(rules.ParseCreature, cellular.Rect4, false, "EMPTY FISH EMPTY")
		g.CellAt(1, 0).ForceState(rules.Creature{Species: rules.Fish, Survived: 3})
		cellular.New(g, rules.NewWaTor(nil)).Step()
		Expect(g.ExtractNames(0)).To(Equal([][]string{{"FISH", "EMPTY", "FISH"}}))
		for _, x := range []int{0, 2} {
			Expect(g.CellAt(x, 0).State().(rules.Creature).Survived).To(Equal(0))
		}
	})

	It("parses rule strings part by part", func() {
		Expect(rules.ParseWaTorRules("F7/S-1/X2")).To(Equal(rules.WaTorRules{FishBreed: 7, SharkBreed: 5, Starve: 2}))
		Expect(rules.ParseWaTorRules("garbage")).To(Equal(rules.DefaultWaTorRules))
		Expect(rules.DefaultWaTorRules.String()).To(Equal("F3/S5/X3"))
	})
})

var _ = Describe("Elementary", func() {
	It("draws rule 30 from a single seed", func() {
		rows := make([]string, 6)
		for y := range rows {
			rows[y] = strings.TrimSpace(strings.Repeat("DEAD ", 11))
		}
		rows[0] = "DEAD DEAD DEAD DEAD DEAD ALIVE DEAD DEAD DEAD DEAD DEAD"
		g := load(rules.ParseElementaryState, cellular.Rect8, false, rows...)
		a := cellular.New(g, rules.NewElementary(nil))
		for i := 0; i < 5; i++ {
			a.Step()
		}
		Expect(picture(g, lifeGlyphs)).To(Equal([]string{
			".....#.....",
			"....###....",
			"...##..#...",
			"..##.####..",
			".##..#...#.",
			"##.####.###",
		}))
	})

	It("never clears a live cell", func() {
		g := load(rules.ParseElementaryState, cellular.Rect8, false,
			"DEAD DEAD DEAD",
			"DEAD ALIVE DEAD")
		cellular.New(g, rules.NewElementary(map[string]string{"rule": "0"})).Step()
		Expect(g.CellAt(1, 1).State()).To(Equal(rules.Alive))
	})

	It("keeps the seed row fixed for odd codes", func() {
		g := load(rules.ParseElementaryState, cellular.Rect8, false,
			"DEAD DEAD DEAD",
			"DEAD DEAD DEAD")
		cellular.New(g, rules.NewElementary(map[string]string{"rule": "1"})).Step()
		Expect(picture(g, lifeGlyphs)).To(Equal([]string{"...", "###"}))
	})

	It("rejects codes out of range", func() {
		Expect(rules.NewElementary(map[string]string{"rule": "256"}).Code()).To(Equal(rules.DefaultElementaryRule))
		Expect(rules.NewElementary(map[string]string{"rule": "110"}).Code()).To(Equal(110))
	})
})

var _ = Describe("state parsing", func() {
	It("rejects unknown names with ErrUnknownState", func() {
		_, err := rules.ParseFireState("ASH")
		Expect(err).To(MatchError(cellular.ErrUnknownState))
		_, err = rules.ParseLifeState("alive")
		Expect(err).To(MatchError(cellular.ErrUnknownState))
	})

	It("round trips names", func() {
		for _, name := range rules.RPSStates {
			s, err := rules.ParseRPSState(name)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.String()).To(Equal(name))
		}
	})
})
