package analysis

import (
	"math"
	"sort"
)

type Summary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Max    float64 `json:"max"`
	Min    float64 `json:"min"`
	StdDev float64 `json:"std_dev"`
}

// Summarize computes descriptive statistics. StdDev is the population
// standard deviation. An empty input yields a zero Summary.
func Summarize(values []float64) Summary {
	n := len(values)
	if n == 0 {
		return Summary{}
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	sum := 0.0
	for _, v := range sorted {
		sum += v
	}
	mean := sum / float64(n)

	variance := 0.0
	for _, v := range sorted {
		d := v - mean
		variance += d * d
	}
	variance /= float64(n)

	median := sorted[n/2]
	if n%2 == 0 {
		median = (sorted[n/2-1] + sorted[n/2]) / 2
	}

	return Summary{
		Count:  n,
		Mean:   mean,
		Median: median,
		Max:    sorted[n-1],
		Min:    sorted[0],
		StdDev: math.Sqrt(variance),
	}
}

// AverageDisplacement returns the per-step mean across runs. Runs shorter
// than the longest contribute only to the steps they cover.
func AverageDisplacement(runs [][]float64) []float64 {
	length := 0
	for _, r := range runs {
		length = max(length, len(r))
	}

	sums := make([]float64, length)
	counts := make([]int, length)
	for _, r := range runs {
		for i, v := range r {
			sums[i] += v
			counts[i]++
		}
	}
	for i := range sums {
		if counts[i] > 0 {
			sums[i] /= float64(counts[i])
		}
	}
	return sums
}

// HistogramEdges returns bins+1 evenly spaced edges covering values.
func HistogramEdges(values []float64, bins int) []float64 {
	if len(values) == 0 || bins <= 0 {
		return nil
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo == hi {
		lo -= 0.5
		hi += 0.5
	}

	edges := make([]float64, bins+1)
	width := (hi - lo) / float64(bins)
	for i := range edges {
		edges[i] = lo + float64(i)*width
	}
	edges[bins] = hi
	return edges
}

// Histogram counts values into the bins delimited by edges. The last bin
// is closed on the right; values outside the edges are dropped.
func Histogram(values, edges []float64) []int {
	if len(edges) < 2 {
		return nil
	}
	counts := make([]int, len(edges)-1)
	last := len(edges) - 1
	for _, v := range values {
		if v < edges[0] || v > edges[last] {
			continue
		}
		idx := sort.SearchFloat64s(edges, v)
		switch {
		case idx == 0:
		case idx > last || edges[idx] != v:
			idx--
		}
		if idx == last {
			idx--
		}
		counts[idx]++
	}
	return counts
}
