package analysis

import (
	"math"

	"github.com/san-kum/walkersim/internal/agent"
)

// Fitness scores how much closer a vehicle ended to the light than it
// started: clamp(1 - end/start, 0, 1). A run that starts on the light has
// nothing to improve and scores 1.
func Fitness(start, end agent.Point, light agent.Light) float64 {
	startDist := light.Distance(start.X, start.Y)
	if startDist == 0 {
		return 1
	}
	endDist := light.Distance(end.X, end.Y)
	return agent.Clamp(1-endDist/startDist, 0, 1)
}

// MeanFitness averages scores, returning 0 for none.
func MeanFitness(scores []float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	total := 0.0
	for _, s := range scores {
		total += s
	}
	return total / float64(len(scores))
}

// ExploredFraction normalizes an exploration count by the number of unit
// edges in the bounding box of the path. A path with a degenerate box
// returns 0.
func ExploredFraction(xs, ys []float64, exploration int) float64 {
	if len(xs) == 0 || len(ys) == 0 {
		return 0
	}
	xr := span(xs)
	yr := span(ys)
	size := xr*(yr+1) + yr*(xr+1)
	if size == 0 {
		return 0
	}
	return float64(exploration) / size
}

func span(v []float64) float64 {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, x := range v {
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}
	return hi - lo
}
