// Package weighting assigns recency weights to scored records.
package weighting

import (
	"math"
	"time"
)

// UnknownDateWeight is returned for records whose date cannot be read.
const UnknownDateWeight = 0.5

// Weighter maps a record date and airport code to a weight in (0, 1].
type Weighter interface {
	Weight(date string, airport string) float64
}

// DecayParams describes one logistic decay curve.
type DecayParams struct {
	InflectionDays float64
	Slope          float64
}

var (
	// HubDecay halves at eighteen months.
	HubDecay = DecayParams{InflectionDays: 547.5, Slope: 0.005}
	// RegionalDecay halves at three years.
	RegionalDecay = DecayParams{InflectionDays: 1095, Slope: 0.003}
)

// SigmoidDecay weights records by a hub-aware logistic curve. News about
// strategic hubs goes stale faster.
type SigmoidDecay struct {
	Now      time.Time
	Hubs     HubSet
	Hub      DecayParams
	Regional DecayParams
}

// NewSigmoidDecay uses the default curves.
func NewSigmoidDecay(now time.Time, hubs HubSet) *SigmoidDecay {
	return &SigmoidDecay{Now: now, Hubs: hubs, Hub: HubDecay, Regional: RegionalDecay}
}

func (d *SigmoidDecay) Weight(date string, airport string) float64 {
	t, ok := ParseDate(date)
	if !ok {
		return UnknownDateWeight
	}

	params := d.Regional
	if d.Hubs.Contains(airport) {
		params = d.Hub
	}
	return Sigmoid(ageDays(d.Now, t), params)
}

// Sigmoid evaluates 1/(1+exp(slope*(age-inflection))).
func Sigmoid(ageDays float64, p DecayParams) float64 {
	return 1.0 / (1.0 + math.Exp(p.Slope*(ageDays-p.InflectionDays)))
}

// DefaultReference anchors exponential decay when no reference date is configured.
var DefaultReference = time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

// ExponentialDecay halves a record's weight every HalfLifeDays before Reference.
type ExponentialDecay struct {
	Reference    time.Time
	HalfLifeDays float64
}

// NewExponentialDecay uses a one year half-life. A zero reference selects
// DefaultReference.
func NewExponentialDecay(reference time.Time) *ExponentialDecay {
	if reference.IsZero() {
		reference = DefaultReference
	}
	return &ExponentialDecay{Reference: reference, HalfLifeDays: 365}
}

func (d *ExponentialDecay) Weight(date string, _ string) float64 {
	t, ok := ParseDate(date)
	if !ok {
		return UnknownDateWeight
	}

	halfLife := d.HalfLifeDays
	if halfLife <= 0 {
		halfLife = 365
	}
	return math.Pow(0.5, ageDays(d.Reference, t)/halfLife)
}

// ageDays counts whole days from t to now; dates after now have age 0.
func ageDays(now, t time.Time) float64 {
	age := now.Sub(t)
	if age <= 0 {
		return 0
	}
	return math.Floor(age.Hours() / 24)
}
