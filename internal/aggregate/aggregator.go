package aggregate

import (
	"log/slog"
	"math"
	"sort"

	"AirportSentiment/internal/domain"
	"AirportSentiment/internal/normalize"
	"AirportSentiment/internal/pressure"
)

// Aggregator builds AirportTopicSummary rows. The registry is optional and only
// used to enrich rows with airport names.
type Aggregator struct {
	registry *normalize.Registry
	fallback ZeroWeightFallback
	logger   *slog.Logger
}

func NewAggregator(registry *normalize.Registry, fallback ZeroWeightFallback, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{registry: registry, fallback: fallback, logger: logger}
}

type group struct {
	code    string
	sources map[domain.Source]int
	stars   []float64
	weights []float64
}

func groupByAirport(records []domain.ScoredRecord) []*group {
	index := make(map[string]*group)
	var order []*group
	for _, r := range records {
		g, ok := index[r.AirportCode]
		if !ok {
			g = &group{code: r.AirportCode, sources: make(map[domain.Source]int)}
			index[r.AirportCode] = g
			order = append(order, g)
		}
		g.sources[r.Source]++
		g.stars = append(g.stars, r.StarsScore)
		g.weights = append(g.weights, r.TimeWeight)
	}
	return order
}

// Summarize produces one row per airport with at least one mention, sorted by
// mentions descending then airport code.
func (a *Aggregator) Summarize(topic domain.Topic, records []domain.ScoredRecord) []domain.AirportTopicSummary {
	groups := groupByAirport(records)
	rows := make([]domain.AirportTopicSummary, 0, len(groups))

	for _, g := range groups {
		total := 0
		counts := make(map[domain.Source]int, len(g.sources))
		for src, n := range g.sources {
			counts[src] = n
			total += n
		}
		if total == 0 {
			continue
		}

		sentiment := WeightedMean(g.stars, g.weights, a.fallback)
		meanWeight := Mean(g.weights)

		row := domain.AirportTopicSummary{
			Topic:                   topic,
			AirportCode:             g.code,
			SourceCounts:            counts,
			TotalMentions:           total,
			GlobalWeightedSentiment: sentiment,
			SentimentScore10:        math.NaN(),
			MeanTimeWeight:          meanWeight,
			MediaPressureIndex:      pressure.Index(total),
			PressureImpactScore:     math.NaN(),
		}
		if !math.IsNaN(sentiment) {
			row.SentimentScore10 = pressure.Rescale10(sentiment)
			row.PressureImpactScore = pressure.Impact(total, sentiment, meanWeight)
		}
		a.enrich(&row)
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].TotalMentions != rows[j].TotalMentions {
			return rows[i].TotalMentions > rows[j].TotalMentions
		}
		return rows[i].AirportCode < rows[j].AirportCode
	})

	a.logger.Debug("summarized topic", "topic", topic, "records", len(records), "airports", len(rows))
	return rows
}

func (a *Aggregator) enrich(row *domain.AirportTopicSummary) {
	if a.registry == nil {
		return
	}
	airport, ok := a.registry.Lookup(row.AirportCode)
	if !ok {
		return
	}
	row.Name = airport.Name
	row.ISOCountry = airport.ISOCountry
	row.Municipality = airport.Municipality
}

// BySource breaks the topic down per airport and source, ordered by airport
// code then source.
func (a *Aggregator) BySource(topic domain.Topic, records []domain.ScoredRecord) []domain.SourceSummary {
	type key struct {
		code   string
		source domain.Source
	}
	stars := make(map[key][]float64)
	weights := make(map[key][]float64)
	for _, r := range records {
		k := key{r.AirportCode, r.Source}
		stars[k] = append(stars[k], r.StarsScore)
		weights[k] = append(weights[k], r.TimeWeight)
	}

	out := make([]domain.SourceSummary, 0, len(stars))
	for k, s := range stars {
		out = append(out, domain.SourceSummary{
			Topic:             topic,
			AirportCode:       k.code,
			Source:            k.source,
			Count:             len(s),
			WeightedSentiment: WeightedMean(s, weights[k], a.fallback),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AirportCode != out[j].AirportCode {
			return out[i].AirportCode < out[j].AirportCode
		}
		return out[i].Source < out[j].Source
	})
	return out
}

// VirtualRecords turns summary rows back into one record per airport carrying
// the row sentiment with unit weight.
func VirtualRecords(rows []domain.AirportTopicSummary) []domain.ScoredRecord {
	out := make([]domain.ScoredRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.ScoredRecord{
			TextRecord:    domain.TextRecord{AirportCode: row.AirportCode, City: row.Municipality},
			StarsScore:    row.GlobalWeightedSentiment,
			TimeWeight:    1,
			WeightedScore: row.GlobalWeightedSentiment,
		})
	}
	return out
}
