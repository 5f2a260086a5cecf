package cellular

import "math/rand/v2"

// Random is the source of randomness handed to rules. Implementations must
// be deterministic for a fixed seed so runs can be replayed.
type Random interface {
	// IntN returns a uniform integer in [0, n).
	IntN(n int) int
	// Float64 returns a uniform float in [0, 1).
	Float64() float64
}

// NewRandom returns a PCG-backed Random seeded with seed.
func NewRandom(seed int64) Random {
	return rand.New(rand.NewPCG(uint64(seed), 0))
}
