package agent

import (
	"math"
	"math/rand/v2"
)

// Rand is the subset of *rand.Rand the agents draw from.
type Rand interface {
	IntN(n int) int
}

// NewRand returns a PCG generator derived from seed.
func NewRand(seed int64) *rand.Rand {
	s := uint64(seed)
	return rand.New(rand.NewPCG(s, s^0x9e3779b97f4a7c15))
}

// Cardinal headings a walker may face, in radians.
var Cardinals = [4]float64{0, 0.5 * math.Pi, math.Pi, 1.5 * math.Pi}

func cardinal(rng Rand) float64 {
	return Cardinals[rng.IntN(len(Cardinals))]
}

// intIn draws an integer uniformly from [lo, hi).
func intIn(rng Rand, lo, hi int) int {
	return lo + rng.IntN(hi-lo)
}
