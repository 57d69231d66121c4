package stats

import (
	"math"
	"sort"
)

const minValuesForGini = 2

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	var sum float64

	for _, v := range values {
		sum += v
	}

	return sum / float64(len(values))
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	n := len(sorted)

	if n%2 == 1 {
		return sorted[n/2]
	}

	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// sampleStdDev computes the sample standard deviation (n-1 divisor).
// It is undefined for fewer than two values and returns 0.
func sampleStdDev(values []float64, avg float64) float64 {
	if len(values) < 2 {
		return 0
	}

	var sum float64

	for _, v := range values {
		diff := v - avg
		sum += diff * diff
	}

	return math.Sqrt(sum / float64(len(values)-1))
}

// percentile estimates the p-th quantile of an ascending-sorted slice
// using linear interpolation between order statistics: the rank is
// (n-1)*p and non-integral ranks interpolate between the neighbouring
// values by the fractional weight.
func percentile(sorted []float64, p float64) float64 {
	n := len(sorted)

	if n == 0 {
		return 0
	}

	index := float64(n-1) * p
	lower := int(math.Floor(index))

	if float64(lower) == index {
		return sorted[lower]
	}

	upper := lower + 1

	if upper > n-1 {
		return sorted[lower]
	}

	weight := index - float64(lower)

	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// gini computes the Gini coefficient of the distribution using the
// rank formula G = 2*Σ(i*v_i)/(n*Σv_i) - (n+1)/n over ascending
// 1-based ranks. Fewer than two values or a zero total yield 0.
func gini(values []float64) float64 {
	if len(values) < minValuesForGini {
		return 0
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	n := float64(len(sorted))

	var total, ranked float64

	for i, v := range sorted {
		total += v
		ranked += float64(i+1) * v
	}

	if total == 0 {
		return 0
	}

	return 2*ranked/(n*total) - (n+1)/n
}

func minValue(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	lowest := values[0]

	for _, v := range values[1:] {
		if v < lowest {
			lowest = v
		}
	}

	return lowest
}

func maxValue(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	highest := values[0]

	for _, v := range values[1:] {
		if v > highest {
			highest = v
		}
	}

	return highest
}
