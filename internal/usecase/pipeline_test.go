package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AirportSentiment/internal/aggregate"
	"AirportSentiment/internal/correlate"
	"AirportSentiment/internal/domain"
	"AirportSentiment/internal/metrics"
	"AirportSentiment/internal/ports"
	"AirportSentiment/internal/topics"
	"AirportSentiment/internal/weighting"
)

type fixedWeight float64

func (w fixedWeight) Weight(date string, _ string) float64 {
	if date == "" {
		return weighting.UnknownDateWeight
	}
	return float64(w)
}

func fixture() *memoryStore {
	store := newMemoryStore()
	store.airports = []domain.Airport{
		{Ident: "EGLL", ICAOCode: "EGLL", IATACode: "LHR", Name: "London Heathrow Airport", ISOCountry: "GB", Municipality: "London"},
		{Ident: "LIRF", ICAOCode: "LIRF", IATACode: "FCO", Name: "Rome Fiumicino", ISOCountry: "IT", Municipality: "Rome"},
	}
	store.text[ports.CombinedTable] = []domain.TextRecord{
		{AirportCode: "EGLL", Source: domain.SourceReddit, Text: "great lounge, short delay", Date: "2025-03-01"},
		{AirportCode: "LHR", Source: domain.SourceGoogleNews, Text: "long delay and noise complaints", Date: "2025-04-01"},
		{AirportCode: "FCO", Source: domain.SourceSkytrax, Text: "queues everywhere", Date: "2024-01-01"},
		{AirportCode: "FCO", Source: domain.SourceSkytrax, Text: "", Date: "2024-01-02"},
	}
	return store
}

func newTestPipeline(store *memoryStore, scorer Scorer, counters *metrics.Metrics, repo ports.SummaryRepository) *Pipeline {
	return NewPipeline(PipelineDeps{
		Store:      store,
		Repository: repo,
		Scorer:     scorer,
		Keywords: topics.KeywordConfig{
			"EN": {"delays": {"delay"}, "noise": {"noise"}},
		},
		Weighter:    func(weighting.HubSet) weighting.Weighter { return fixedWeight(1) },
		Fallback:    aggregate.FallbackMean,
		Join:        aggregate.JoinLeft,
		Metrics:     []string{"MinLateDeparted"},
		DelayMetric: "MinLateDeparted",
		Counters:    counters,
	})
}

func TestPipelineScoreRequiresCombinedTable(t *testing.T) {
	store := newMemoryStore()
	p := newTestPipeline(store, &keywordScorer{}, nil, nil)

	err := p.Score(context.Background(), domain.Topics())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingInput))

	err = p.Run(context.Background(), domain.Topics())
	assert.ErrorIs(t, err, ErrMissingInput)
}

func TestPipelineScorePartitionsAndScoresOnce(t *testing.T) {
	store := fixture()
	scorer := &keywordScorer{}
	counters := metrics.New()
	p := newTestPipeline(store, scorer, counters, nil)

	require.NoError(t, p.Score(context.Background(), domain.Topics()))

	assert.Equal(t, 4, scorer.calls)
	require.Len(t, store.scored[domain.TopicGeneral], 4)
	require.Len(t, store.scored[domain.TopicDelay], 2)
	require.Len(t, store.scored[domain.TopicNoise], 1)

	first := store.scored[domain.TopicGeneral][0]
	assert.Equal(t, "LHR", first.AirportCode)
	assert.Equal(t, 5.0, first.StarsScore)
	assert.Equal(t, 5.0, first.WeightedScore)

	empty := store.scored[domain.TopicGeneral][3]
	assert.Equal(t, 3.0, empty.StarsScore)
	assert.Equal(t, domain.PolarityNeutral, empty.Polarity)

	assert.Equal(t, "long delay and noise complaints", store.scored[domain.TopicNoise][0].Text)
	assert.Equal(t, 4.0, testutil.ToFloat64(counters.RecordsScored.WithLabelValues("general")))
	assert.Equal(t, 1.0, testutil.ToFloat64(counters.Fallbacks.WithLabelValues("empty_text")))
}

func TestPipelineScoreWithoutRegistryKeepsCodes(t *testing.T) {
	store := fixture()
	store.airports = nil
	p := newTestPipeline(store, &keywordScorer{}, nil, nil)

	require.NoError(t, p.Score(context.Background(), []domain.Topic{domain.TopicGeneral}))
	assert.Equal(t, "EGLL", store.scored[domain.TopicGeneral][0].AirportCode)
	_, ok := store.scored[domain.TopicDelay]
	assert.False(t, ok)
}

func TestPipelineSummarizeWritesMaster(t *testing.T) {
	store := fixture()
	sink := &summarySink{}
	p := newTestPipeline(store, &keywordScorer{}, nil, sink)
	ctx := context.Background()

	require.NoError(t, p.Score(ctx, domain.Topics()))
	require.NoError(t, p.Summarize(ctx, domain.Topics()))

	general := store.summaries[domain.TopicGeneral]
	require.Len(t, general, 2)
	assert.Equal(t, "FCO", general[0].AirportCode)
	assert.Equal(t, "LHR", general[1].AirportCode)
	assert.Equal(t, "London Heathrow Airport", general[1].Name)
	assert.InDelta(t, 3.0, general[1].GlobalWeightedSentiment, 1e-9)

	require.Len(t, store.master, 2)
	assert.Nil(t, store.master[0].Delay)
	require.NotNil(t, store.master[1].Delay)
	assert.Equal(t, 2, store.master[1].Delay.TotalMentions)

	assert.Equal(t, map[domain.Topic]int{domain.TopicGeneral: 2, domain.TopicDelay: 1, domain.TopicNoise: 1}, sink.saved)
	assert.NotEmpty(t, store.breakdown[domain.TopicGeneral])
}

func TestPipelineSummarizeSkipsMissingTopics(t *testing.T) {
	store := fixture()
	p := newTestPipeline(store, &keywordScorer{}, nil, nil)
	ctx := context.Background()

	require.NoError(t, p.Score(ctx, []domain.Topic{domain.TopicDelay}))
	require.NoError(t, p.Summarize(ctx, domain.Topics()))

	assert.Len(t, store.summaries[domain.TopicDelay], 1)
	assert.Nil(t, store.master)
}

func TestPipelineCorrelate(t *testing.T) {
	store := fixture()
	p := newTestPipeline(store, &keywordScorer{}, nil, nil)
	ctx := context.Background()

	require.NoError(t, p.Run(ctx, []domain.Topic{domain.TopicGeneral}))
	_, ok := store.matrices[domain.TopicGeneral]
	assert.False(t, ok, "no flights, no correlation")

	store.flights = []domain.Flight{
		{Origin: "FCO", Destination: "LHR", Metrics: map[string]float64{"MinLateDeparted": 10}},
		{Origin: "LHR", Destination: "FCO", Metrics: map[string]float64{"MinLateDeparted": 20}},
		{Origin: "EGLL", Destination: "LIRF", Metrics: map[string]float64{"MinLateDeparted": 70}},
	}
	require.NoError(t, p.Correlate(ctx, domain.TopicGeneral))

	matrix := store.matrices[domain.TopicGeneral]
	assert.Equal(t, 2, matrix.Samples)
	assert.Equal(t, correlate.ColumnSentiment, matrix.Columns[0])
	assert.Len(t, store.volumes[domain.TopicGeneral], 2)
}

func TestPipelineCorrelateWithoutSummary(t *testing.T) {
	store := fixture()
	p := newTestPipeline(store, &keywordScorer{}, nil, nil)
	assert.NoError(t, p.Correlate(context.Background(), domain.TopicNoise))
}

func TestPipelineHubs(t *testing.T) {
	store := fixture()
	p := newTestPipeline(store, &keywordScorer{}, nil, nil)

	_, err := p.Hubs(context.Background(), 1)
	assert.ErrorIs(t, err, ErrMissingInput)

	store.flights = []domain.Flight{
		{Origin: "FCO", Destination: "LHR"},
		{Origin: "EGLL", Destination: "LIRF"},
		{Origin: "LHR", Destination: "CDG"},
	}
	ranks, err := p.Hubs(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []weighting.HubRank{{Code: "LHR", Movements: 3}}, ranks)
}
