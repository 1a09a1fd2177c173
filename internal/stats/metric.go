// Package stats holds the summary metrics and the ordered grouping and ranking
// helpers shared by the analytic engines.
package stats

import (
	"math"
	"slices"
)

// Metric reduces a sequence of scores to a single number.
type Metric func(values []float64) float64

// Mean returns the arithmetic mean, or 0 for no values.
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

// Median returns the middle value of the sorted scores, averaging the two
// middle values for an even count. Returns 0 for no values.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	s := slices.Clone(values)
	slices.Sort(s)
	mid := len(s) / 2
	if len(s)%2 != 0 {
		return s[mid]
	}
	return (s[mid-1] + s[mid]) / 2
}

// Variance returns the population variance, or 0 for no values.
func Variance(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	avg := Mean(values)
	var sum float64
	for _, v := range values {
		d := v - avg
		sum += d * d
	}
	return sum / float64(len(values))
}

// Round2 rounds to two decimal places, halves away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// MetricByName resolves "mean", "median" or "variance". An empty name is the mean.
func MetricByName(name string) (Metric, bool) {
	switch name {
	case "", "mean", "average":
		return Mean, true
	case "median":
		return Median, true
	case "variance":
		return Variance, true
	default:
		return nil, false
	}
}
