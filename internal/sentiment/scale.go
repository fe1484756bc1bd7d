package sentiment

import (
	"errors"
	"fmt"
	"math"
)

const (
	// MinStars and MaxStars bound the common star scale.
	MinStars = 1.0
	MaxStars = 5.0
	// NeutralStars is the scale midpoint used for missing text and failures.
	NeutralStars = 3.0
)

var (
	ErrArity        = errors.New("unexpected distribution size")
	ErrDistribution = errors.New("invalid probability distribution")
)

// ExpectedStars turns a 5-way distribution over classes 1..5 into its
// expectation sum(i * P(i)).
func ExpectedStars(probs []float64) (float64, error) {
	p, err := normalized(probs, 5)
	if err != nil {
		return 0, err
	}

	var stars float64
	for i, pi := range p {
		stars += float64(i+1) * pi
	}
	return stars, nil
}

// ThreeWayStars maps a {negative, neutral, positive} distribution onto the
// star scale: 1*P(neg) + 3*P(neu) + 5*P(pos).
func ThreeWayStars(probs []float64) (float64, error) {
	p, err := normalized(probs, 3)
	if err != nil {
		return 0, err
	}
	return 1.0*p[0] + 3.0*p[1] + 5.0*p[2], nil
}

func normalized(probs []float64, arity int) ([]float64, error) {
	if len(probs) != arity {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrArity, len(probs), arity)
	}

	var sum float64
	for _, p := range probs {
		if math.IsNaN(p) || math.IsInf(p, 0) || p < 0 {
			return nil, fmt.Errorf("%w: entry %v", ErrDistribution, p)
		}
		sum += p
	}
	if sum <= 0 {
		return nil, fmt.Errorf("%w: zero mass", ErrDistribution)
	}

	out := make([]float64, arity)
	for i, p := range probs {
		out[i] = p / sum
	}
	return out, nil
}

func clampStars(v float64) float64 {
	return math.Max(MinStars, math.Min(MaxStars, v))
}
