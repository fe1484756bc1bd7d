package aggregate

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AirportSentiment/internal/domain"
	"AirportSentiment/internal/normalize"
	"AirportSentiment/internal/pressure"
)

func scored(code string, src domain.Source, stars, weight float64) domain.ScoredRecord {
	return domain.ScoredRecord{
		TextRecord:    domain.TextRecord{AirportCode: code, Source: src, Text: "t"},
		StarsScore:    stars,
		TimeWeight:    weight,
		WeightedScore: stars * weight,
	}
}

func TestWeightedMean(t *testing.T) {
	t.Parallel()

	got := WeightedMean([]float64{4, 2, 5}, []float64{1, 0.5, 0.2}, FallbackMean)
	assert.InDelta(t, 6.0/1.7, got, 1e-12)

	assert.InDelta(t, 3.0, WeightedMean([]float64{2, 4}, []float64{0, 0}, FallbackMean), 1e-12)
	assert.True(t, math.IsNaN(WeightedMean([]float64{2, 4}, []float64{0, 0}, FallbackNaN)))
	assert.True(t, math.IsNaN(WeightedMean(nil, nil, FallbackMean)))
}

func TestParseFallback(t *testing.T) {
	t.Parallel()

	f, err := ParseFallback("NaN")
	require.NoError(t, err)
	assert.Equal(t, FallbackNaN, f)

	f, err = ParseFallback("")
	require.NoError(t, err)
	assert.Equal(t, FallbackMean, f)

	_, err = ParseFallback("median")
	assert.Error(t, err)
}

func TestSummarizeHeathrowScenario(t *testing.T) {
	t.Parallel()

	registry := normalize.NewRegistry([]domain.Airport{
		{Ident: "EGLL", IATACode: "LHR", ICAOCode: "EGLL", Name: "London Heathrow Airport", ISOCountry: "GB", Municipality: "London"},
	})
	records := []domain.ScoredRecord{
		scored("LHR", domain.SourceGoogleNews, 4.0, 1.0),
		scored("LHR", domain.SourceReddit, 2.0, 0.5),
		scored("LHR", domain.SourceSkytrax, 5.0, 0.2),
		scored("BRS", domain.SourceSkytrax, 3.0, 1.0),
	}

	rows := NewAggregator(registry, FallbackMean, nil).Summarize(domain.TopicGeneral, records)
	require.Len(t, rows, 2)

	lhr := rows[0]
	assert.Equal(t, "LHR", lhr.AirportCode)
	assert.Equal(t, "London Heathrow Airport", lhr.Name)
	assert.Equal(t, "GB", lhr.ISOCountry)
	assert.Equal(t, 3, lhr.TotalMentions)
	assert.Equal(t, 1, lhr.SourceCounts[domain.SourceReddit])
	assert.InDelta(t, 3.53, lhr.GlobalWeightedSentiment, 0.005)
	assert.InDelta(t, pressure.Rescale10(6.0/1.7), lhr.SentimentScore10, 1e-12)
	assert.InDelta(t, 1.7/3, lhr.MeanTimeWeight, 1e-12)
	assert.InDelta(t, math.Log1p(3), lhr.MediaPressureIndex, 1e-12)
	assert.InDelta(t, pressure.Impact(3, 6.0/1.7, 1.7/3), lhr.PressureImpactScore, 1e-12)

	assert.Equal(t, "BRS", rows[1].AirportCode)
	assert.Empty(t, rows[1].Name, "unknown airports stay unenriched")
}

func TestSummarizeSingleRecordRoundTrip(t *testing.T) {
	t.Parallel()

	records := []domain.ScoredRecord{
		scored("AMS", domain.SourceReddit, 4.2, 0.3),
		scored("CDG", domain.SourceGoogleNews, 1.7, 0.9),
		scored("FRA", domain.SourceSkytrax, 3.3, 0),
	}
	rows := NewAggregator(nil, FallbackMean, nil).Summarize(domain.TopicDelay, records)
	require.Len(t, rows, 3)

	byCode := map[string]float64{}
	for _, r := range rows {
		assert.Equal(t, domain.TopicDelay, r.Topic)
		byCode[r.AirportCode] = r.GlobalWeightedSentiment
	}
	assert.InDelta(t, 4.2, byCode["AMS"], 1e-12)
	assert.InDelta(t, 1.7, byCode["CDG"], 1e-12)
	assert.InDelta(t, 3.3, byCode["FRA"], 1e-12, "zero weight falls back to the plain mean")
}

func TestSummarizeNaNFallbackLeavesScoresUndefined(t *testing.T) {
	t.Parallel()

	rows := NewAggregator(nil, FallbackNaN, nil).Summarize(domain.TopicNoise, []domain.ScoredRecord{
		scored("FRA", domain.SourceSkytrax, 3.3, 0),
	})
	require.Len(t, rows, 1)
	assert.True(t, math.IsNaN(rows[0].GlobalWeightedSentiment))
	assert.True(t, math.IsNaN(rows[0].PressureImpactScore))
	assert.Equal(t, 1, rows[0].TotalMentions)
}

func TestSummarizeEmptyInput(t *testing.T) {
	t.Parallel()

	assert.Empty(t, NewAggregator(nil, FallbackMean, nil).Summarize(domain.TopicGeneral, nil))
}

func TestSummarizeOrdersByMentions(t *testing.T) {
	t.Parallel()

	records := []domain.ScoredRecord{
		scored("ZRH", domain.SourceReddit, 3, 1),
		scored("AMS", domain.SourceReddit, 3, 1),
		scored("MUC", domain.SourceReddit, 3, 1),
		scored("MUC", domain.SourceReddit, 3, 1),
	}
	rows := NewAggregator(nil, FallbackMean, nil).Summarize(domain.TopicGeneral, records)

	codes := make([]string, 0, len(rows))
	for _, r := range rows {
		codes = append(codes, r.AirportCode)
	}
	assert.Equal(t, []string{"MUC", "AMS", "ZRH"}, codes)
}

func TestReaggregatingSummariesDoesNotFail(t *testing.T) {
	t.Parallel()

	agg := NewAggregator(nil, FallbackMean, nil)
	first := agg.Summarize(domain.TopicGeneral, []domain.ScoredRecord{
		scored("LHR", domain.SourceReddit, 4, 1),
		scored("LHR", domain.SourceReddit, 2, 1),
		scored("CDG", domain.SourceReddit, 5, 0.5),
	})

	second := agg.Summarize(domain.TopicGeneral, VirtualRecords(first))
	require.Len(t, second, 2)
	for _, r := range second {
		assert.Equal(t, 1, r.TotalMentions)
	}
}

func TestBySource(t *testing.T) {
	t.Parallel()

	rows := NewAggregator(nil, FallbackMean, nil).BySource(domain.TopicGeneral, []domain.ScoredRecord{
		scored("LHR", domain.SourceSkytrax, 2, 1),
		scored("LHR", domain.SourceReddit, 4, 1),
		scored("LHR", domain.SourceReddit, 2, 1),
		scored("AMS", domain.SourceGoogleNews, 5, 1),
	})

	require.Len(t, rows, 3)
	assert.Equal(t, "AMS", rows[0].AirportCode)
	assert.Equal(t, domain.SourceReddit, rows[1].Source)
	assert.Equal(t, 2, rows[1].Count)
	assert.InDelta(t, 3.0, rows[1].WeightedSentiment, 1e-12)
	assert.Equal(t, domain.SourceSkytrax, rows[2].Source)
}

func TestMerge(t *testing.T) {
	t.Parallel()

	general := []domain.AirportTopicSummary{{AirportCode: "LHR"}, {AirportCode: "CDG"}, {AirportCode: "AMS"}}
	delay := []domain.AirportTopicSummary{{AirportCode: "LHR", TotalMentions: 4}, {AirportCode: "AMS"}}
	noise := []domain.AirportTopicSummary{{AirportCode: "LHR", TotalMentions: 2}}

	left := Merge(general, delay, noise, JoinLeft)
	require.Len(t, left, 3)
	require.NotNil(t, left[0].Delay)
	assert.Equal(t, 4, left[0].Delay.TotalMentions)
	assert.Equal(t, 2, left[0].Noise.TotalMentions)
	assert.Nil(t, left[1].Delay)
	assert.NotNil(t, left[2].Delay)
	assert.Nil(t, left[2].Noise)

	inner := Merge(general, delay, noise, JoinInner)
	require.Len(t, inner, 1)
	assert.Equal(t, "LHR", inner[0].General.AirportCode)
}
