package sentiment

import (
	"math"
	"strings"

	"AirportSentiment/internal/domain"
)

// Thresholds split the continuous star scale into polarity bands:
// score <= Negative -> -1, score <= Neutral -> 0, otherwise 1.
type Thresholds struct {
	Negative float64
	Neutral  float64
}

// DefaultThresholds is the canonical ensemble scheme.
var DefaultThresholds = Thresholds{Negative: 2.4, Neutral: 3.6}

// Polarity classifies a continuous star score.
func (t Thresholds) Polarity(score float64) domain.Polarity {
	switch {
	case score <= t.Negative:
		return domain.PolarityNegative
	case score <= t.Neutral:
		return domain.PolarityNeutral
	default:
		return domain.PolarityPositive
	}
}

// LegacyPolarity is the single-model discrete scheme (<=2 -> -1, ==3 -> 0,
// >3 -> 1) applied to the score rounded to the nearest star.
//
// Deprecated: kept for reproducing older result tables; use Thresholds.Polarity.
func LegacyPolarity(score float64) domain.Polarity {
	stars := math.Round(score)
	switch {
	case stars <= 2:
		return domain.PolarityNegative
	case stars == 3:
		return domain.PolarityNeutral
	default:
		return domain.PolarityPositive
	}
}

// PolarityFunc assigns a polarity to a star score.
type PolarityFunc func(score float64) domain.Polarity

// PolarityScheme resolves a configured scheme name. Anything but "legacy"
// selects the canonical thresholds.
func PolarityScheme(name string) PolarityFunc {
	if strings.EqualFold(strings.TrimSpace(name), "legacy") {
		return LegacyPolarity
	}
	return DefaultThresholds.Polarity
}
