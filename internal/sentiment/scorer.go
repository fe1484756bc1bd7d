// Package sentiment implements the two-classifier ensemble star scorer.
package sentiment

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"AirportSentiment/internal/domain"
	"AirportSentiment/internal/ports"
)

// FallbackReason explains why a record received the neutral default.
type FallbackReason string

const (
	FallbackNone       FallbackReason = ""
	FallbackEmptyText  FallbackReason = "empty_text"
	FallbackClassifier FallbackReason = "classifier_error"
)

// Result is the ensemble output for one text.
type Result struct {
	Stars    float64
	Polarity domain.Polarity
	Fallback FallbackReason
}

// Options tune the ensemble.
type Options struct {
	// MaxTokensA and MaxTokensB cap classifier input; zero means DefaultMaxTokens.
	MaxTokensA int
	MaxTokensB int
	Polarity   PolarityFunc
	Logger     *slog.Logger
}

// EnsembleScorer owns both classifier handles for the lifetime of a batch.
// Classifier A emits five ordinal star classes, classifier B emits
// negative/neutral/positive.
type EnsembleScorer struct {
	starsModel     ports.Classifier
	sentimentModel ports.Classifier
	maxA           int
	maxB           int
	polarity       PolarityFunc
	logger         *slog.Logger
}

// NewEnsembleScorer wires both classifiers.
func NewEnsembleScorer(a, b ports.Classifier, opts Options) *EnsembleScorer {
	s := &EnsembleScorer{
		starsModel:     a,
		sentimentModel: b,
		maxA:           opts.MaxTokensA,
		maxB:           opts.MaxTokensB,
		polarity:       opts.Polarity,
		logger:         opts.Logger,
	}
	if s.maxA <= 0 {
		s.maxA = DefaultMaxTokens
	}
	if s.maxB <= 0 {
		s.maxB = DefaultMaxTokens
	}
	if s.polarity == nil {
		s.polarity = DefaultThresholds.Polarity
	}
	return s
}

// Neutral is the fixed result for missing text.
func Neutral(reason FallbackReason) Result {
	return Result{Stars: NeutralStars, Polarity: domain.PolarityNeutral, Fallback: reason}
}

// Score rates a text on the 1-5 star scale. It never fails: empty text and
// classifier errors both yield the neutral result.
func (s *EnsembleScorer) Score(ctx context.Context, text string) Result {
	if strings.TrimSpace(text) == "" {
		return Neutral(FallbackEmptyText)
	}

	stars, err := s.ensemble(ctx, text)
	if err != nil {
		if s.logger != nil {
			s.logger.Debug("classifier failed, using neutral score", "error", err)
		}
		return Neutral(FallbackClassifier)
	}

	return Result{Stars: stars, Polarity: s.polarity(stars)}
}

func (s *EnsembleScorer) ensemble(ctx context.Context, text string) (float64, error) {
	if s.starsModel == nil || s.sentimentModel == nil {
		return 0, fmt.Errorf("ensemble requires two classifiers")
	}

	probsA, err := s.starsModel.Classify(ctx, Truncate(text, s.maxA))
	if err != nil {
		return 0, fmt.Errorf("classifier %s: %w", s.starsModel.Name(), err)
	}
	starsA, err := ExpectedStars(probsA)
	if err != nil {
		return 0, fmt.Errorf("classifier %s: %w", s.starsModel.Name(), err)
	}

	probsB, err := s.sentimentModel.Classify(ctx, Truncate(text, s.maxB))
	if err != nil {
		return 0, fmt.Errorf("classifier %s: %w", s.sentimentModel.Name(), err)
	}
	starsB, err := ThreeWayStars(probsB)
	if err != nil {
		return 0, fmt.Errorf("classifier %s: %w", s.sentimentModel.Name(), err)
	}

	return clampStars((starsA + starsB) / 2), nil
}
