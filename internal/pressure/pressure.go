// Package pressure converts mention volume and sentiment into a bounded
// media pressure impact score.
package pressure

import "math"

const (
	// ImpactMin and ImpactMax are the open bounds of Impact.
	ImpactMin = 1.0
	ImpactMax = 10.0

	midpoint  = 5.5
	steepness = 0.05
)

// Index is the log-scaled mention volume, log(1+count).
func Index(count int) float64 {
	if count <= 0 {
		return 0
	}
	return math.Log1p(float64(count))
}

// Rescale10 maps a 1-5 star score onto 1-10 and clips to that range.
func Rescale10(raw float64) float64 {
	return math.Max(1, math.Min(10, raw*1.5+1))
}

// Impact combines volume, sentiment (1-5 scale) and mean time weight into a
// score strictly inside (1, 10). Neutral sentiment or zero volume give 5.5.
func Impact(count int, sentiment, weight float64) float64 {
	centered := Rescale10(sentiment) - midpoint
	raw := centered * weight * Index(count)
	score := ImpactMin + (ImpactMax-ImpactMin)*logistic(steepness*raw)

	if score <= ImpactMin {
		return math.Nextafter(ImpactMin, ImpactMax)
	}
	if score >= ImpactMax {
		return math.Nextafter(ImpactMax, ImpactMin)
	}
	return score
}

func logistic(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
