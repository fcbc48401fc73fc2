package analytics

import (
	"math"
	"sort"
)

// Quantile returns the p-quantile (p in [0,1]) of values using linear
// interpolation between order statistics: h = (n-1)p, interpolating between
// the floor(h)-th and ceil(h)-th sorted values. This matches the default
// interpolated percentile used when the efficiency thresholds were first
// defined, and the classification boundaries depend on reproducing it
// exactly. Returns NaN for an empty input.
func Quantile(values []float64, p float64) float64 {
	n := len(values)
	if n == 0 {
		return math.NaN()
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	h := float64(n-1) * p
	lo := int(math.Floor(h))
	frac := h - float64(lo)
	if lo+1 >= n {
		return sorted[n-1]
	}
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}
