// Package stats provides the small set of descriptive statistics shared by
// the analysis stages: mean, median, percentiles and percentage helpers.
// All functions are pure and treat an empty input as zero rather than
// panicking, so callers can feed them filtered subsets directly.
package stats

import (
	"math"
	"sort"
)

// Mean returns the arithmetic mean of values, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Median returns the median of values, or 0 for an empty slice.
// The input is not modified.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// Sum returns the sum of values.
func Sum(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum
}

// Percentile returns the p-th percentile (0-100) of values using linear
// interpolation between closest ranks. Returns 0 for an empty slice.
// The input is not modified.
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[len(sorted)-1]
	}

	rank := p / 100 * float64(len(sorted)-1)
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))
	if lower == upper {
		return sorted[lower]
	}
	frac := rank - float64(lower)
	return sorted[lower] + frac*(sorted[upper]-sorted[lower])
}

// Round2 rounds v to two decimal places. Percentages throughout the
// report use this so that distributions sum to 100 within ±0.01.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// PctOf returns part/total as a percentage rounded to two decimals,
// or 0 when total is zero.
func PctOf(part, total float64) float64 {
	if total == 0 {
		return 0
	}
	return Round2(part / total * 100)
}

// PctChange returns the percentage change from previous to current and
// whether it is defined. A previous value of exactly zero yields ok=false;
// callers report the absolute change instead.
func PctChange(previous, current float64) (float64, bool) {
	if previous == 0 {
		return 0, false
	}
	return (current - previous) / previous * 100, true
}
