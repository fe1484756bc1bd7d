// Package aggregate folds scored records into per-airport topic summaries.
package aggregate

import (
	"fmt"
	"math"
	"strings"
)

// ZeroWeightFallback decides what WeightedMean returns when all weights are zero.
type ZeroWeightFallback int

const (
	// FallbackMean uses the unweighted mean.
	FallbackMean ZeroWeightFallback = iota
	// FallbackNaN reports the mean as undefined.
	FallbackNaN
)

// ParseFallback reads the configured fallback ("mean" or "nan").
func ParseFallback(raw string) (ZeroWeightFallback, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "mean":
		return FallbackMean, nil
	case "nan", "none":
		return FallbackNaN, nil
	}
	return FallbackMean, fmt.Errorf("unknown zero weight fallback %q", raw)
}

// WeightedMean returns sum(v*w)/sum(w). Empty input yields NaN.
func WeightedMean(values, weights []float64, fallback ZeroWeightFallback) float64 {
	n := min(len(values), len(weights))
	if n == 0 {
		return math.NaN()
	}

	var num, den float64
	for i := 0; i < n; i++ {
		num += values[i] * weights[i]
		den += weights[i]
	}
	if den != 0 {
		return num / den
	}

	if fallback == FallbackNaN {
		return math.NaN()
	}
	return Mean(values[:n])
}

// Mean returns the arithmetic mean, NaN for empty input.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
