package usecase

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"AirportSentiment/internal/aggregate"
	"AirportSentiment/internal/correlate"
	"AirportSentiment/internal/domain"
	"AirportSentiment/internal/metrics"
	"AirportSentiment/internal/normalize"
	"AirportSentiment/internal/ports"
	"AirportSentiment/internal/sentiment"
	"AirportSentiment/internal/topics"
	"AirportSentiment/internal/weighting"
)

// ErrMissingInput marks a required table that does not exist.
var ErrMissingInput = errors.New("missing required input")

// Scorer turns text into a star score. Implemented by sentiment.EnsembleScorer.
type Scorer interface {
	Score(ctx context.Context, text string) sentiment.Result
}

// WeighterFactory builds the temporal weighter once the hub set is known.
type WeighterFactory func(hubs weighting.HubSet) weighting.Weighter

// PipelineDeps wires all driven adapters into the scoring pipeline.
type PipelineDeps struct {
	Store       ports.TableStore
	Repository  ports.SummaryRepository
	Scorer      Scorer
	Keywords    topics.KeywordConfig
	Weighter    WeighterFactory
	HubTopN     int
	Fallback    aggregate.ZeroWeightFallback
	Join        aggregate.JoinMode
	Metrics     []string
	DelayMetric string
	Counters    *metrics.Metrics
	Logger      *slog.Logger
}

// Pipeline runs the score, summarize and correlate stages over the table store.
type Pipeline struct {
	store       ports.TableStore
	repository  ports.SummaryRepository
	scorer      Scorer
	partitioner *topics.Partitioner
	weighter    WeighterFactory
	hubTopN     int
	fallback    aggregate.ZeroWeightFallback
	join        aggregate.JoinMode
	metrics     []string
	delayMetric string
	counters    *metrics.Metrics
	logger      *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	weighter := deps.Weighter
	if weighter == nil {
		weighter = func(weighting.HubSet) weighting.Weighter {
			return weighting.NewExponentialDecay(weighting.DefaultReference)
		}
	}
	flightMetrics := deps.Metrics
	if len(flightMetrics) == 0 {
		flightMetrics = correlate.DefaultMetrics
	}
	return &Pipeline{
		store:       deps.Store,
		repository:  deps.Repository,
		scorer:      deps.Scorer,
		partitioner: topics.NewPartitioner(deps.Keywords),
		weighter:    weighter,
		hubTopN:     deps.HubTopN,
		fallback:    deps.Fallback,
		join:        deps.Join,
		metrics:     flightMetrics,
		delayMetric: deps.DelayMetric,
		counters:    deps.Counters,
		logger:      logger,
	}
}

// Run executes every stage in order. A stage error stops the run.
func (p *Pipeline) Run(ctx context.Context, selected []domain.Topic) error {
	if err := p.Score(ctx, selected); err != nil {
		return err
	}
	if err := p.Summarize(ctx, selected); err != nil {
		return err
	}
	for _, topic := range selected {
		if err := p.Correlate(ctx, topic); err != nil {
			return err
		}
	}
	return nil
}

// Score normalizes the combined table, partitions it into topics and writes
// one scored table per topic. Each record is scored once even when it belongs
// to several topics.
func (p *Pipeline) Score(ctx context.Context, selected []domain.Topic) error {
	defer p.counters.Stage("score")()

	if p.scorer == nil {
		return fmt.Errorf("scorer is not configured")
	}

	records, err := p.store.ReadTextRecords(ctx, ports.CombinedTable)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: combined records: %w", ErrMissingInput, err)
		}
		return fmt.Errorf("read combined records: %w", err)
	}

	registry, err := p.registry(ctx)
	if err != nil {
		return err
	}
	normalizer := normalize.FromRegistry(registry)
	records = normalizer.Normalize(records)

	hubs, err := p.hubs(ctx, normalizer)
	if err != nil {
		return err
	}
	weighter := p.weighter(hubs)

	p.logger.Info("scoring records", "records", len(records), "hubs", len(hubs), "topics", len(selected))

	cache := make(map[int]domain.ScoredRecord, len(records))
	for _, topic := range selected {
		if err := ctx.Err(); err != nil {
			return err
		}

		var scored []domain.ScoredRecord
		for i, rec := range records {
			if !p.partitioner.Member(topic, rec) {
				continue
			}
			sr, ok := cache[i]
			if !ok {
				sr = p.scoreRecord(ctx, rec, weighter)
				cache[i] = sr
			}
			p.counters.Scored(string(topic))
			scored = append(scored, sr)
		}

		if err := p.store.WriteScored(ctx, topic, scored); err != nil {
			return fmt.Errorf("write scored %s: %w", topic, err)
		}
		p.logger.Info("topic scored", "topic", topic, "records", len(scored))
	}
	return nil
}

func (p *Pipeline) scoreRecord(ctx context.Context, rec domain.TextRecord, weighter weighting.Weighter) domain.ScoredRecord {
	result := p.scorer.Score(ctx, rec.Text)
	if result.Fallback != sentiment.FallbackNone {
		p.counters.Fallback(string(result.Fallback))
	}

	weight := weighter.Weight(rec.Date, rec.AirportCode)
	return domain.ScoredRecord{
		TextRecord:    rec,
		StarsScore:    result.Stars,
		Polarity:      result.Polarity,
		TimeWeight:    weight,
		WeightedScore: result.Stars * weight,
	}
}

// registry returns nil when the airports table is absent.
func (p *Pipeline) registry(ctx context.Context) (*normalize.Registry, error) {
	airports, err := p.store.ReadAirports(ctx)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			p.logger.Warn("airport registry not found, codes are left as is", "error", err)
			return nil, nil
		}
		return nil, fmt.Errorf("read airports: %w", err)
	}
	return normalize.NewRegistry(airports), nil
}

// flights returns nil when the flights table is absent.
func (p *Pipeline) flights(ctx context.Context, normalizer *normalize.Normalizer) ([]domain.Flight, error) {
	flights, err := p.store.ReadFlights(ctx)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			p.logger.Warn("flights table not found", "error", err)
			return nil, nil
		}
		return nil, fmt.Errorf("read flights: %w", err)
	}
	for i := range flights {
		flights[i].Origin = normalizer.Code(flights[i].Origin)
		flights[i].Destination = normalizer.Code(flights[i].Destination)
	}
	return flights, nil
}

func (p *Pipeline) hubs(ctx context.Context, normalizer *normalize.Normalizer) (weighting.HubSet, error) {
	flights, err := p.flights(ctx, normalizer)
	if err != nil {
		return nil, err
	}
	if len(flights) == 0 {
		return weighting.HubSet{}, nil
	}
	return weighting.RankHubs(flights, p.hubTopN), nil
}

// Hubs ranks airports by flight movements and returns the top n.
func (p *Pipeline) Hubs(ctx context.Context, n int) ([]weighting.HubRank, error) {
	registry, err := p.registry(ctx)
	if err != nil {
		return nil, err
	}
	flights, err := p.flights(ctx, normalize.FromRegistry(registry))
	if err != nil {
		return nil, err
	}
	if flights == nil {
		return nil, fmt.Errorf("%w: flights table", ErrMissingInput)
	}

	if n <= 0 {
		n = p.hubTopN
	}
	if n <= 0 {
		n = weighting.DefaultHubCount
	}
	ranks := weighting.RankAirports(flights)
	if len(ranks) > n {
		ranks = ranks[:n]
	}
	return ranks, nil
}

// Summarize aggregates every scored topic table and joins them into the
// master table. Topics without a scored table are skipped.
func (p *Pipeline) Summarize(ctx context.Context, selected []domain.Topic) error {
	defer p.counters.Stage("summarize")()

	registry, err := p.registry(ctx)
	if err != nil {
		return err
	}
	agg := aggregate.NewAggregator(registry, p.fallback, p.logger.With("component", "aggregate"))

	summaries := make(map[domain.Topic][]domain.AirportTopicSummary, len(domain.Topics()))
	for _, topic := range selected {
		scored, err := p.store.ReadScored(ctx, topic)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				p.logger.Warn("scored table not found, topic skipped", "topic", topic, "error", err)
				continue
			}
			return fmt.Errorf("read scored %s: %w", topic, err)
		}

		rows := agg.Summarize(topic, scored)
		if err := p.store.WriteSummaries(ctx, topic, rows); err != nil {
			return fmt.Errorf("write summaries %s: %w", topic, err)
		}
		if err := p.store.WriteSourceBreakdown(ctx, topic, agg.BySource(topic, scored)); err != nil {
			return fmt.Errorf("write source breakdown %s: %w", topic, err)
		}
		if p.repository != nil {
			if err := p.repository.SaveSummaries(ctx, topic, rows); err != nil {
				return fmt.Errorf("persist summaries %s: %w", topic, err)
			}
		}

		summaries[topic] = rows
		p.counters.Summarized(string(topic), len(rows))
		p.logger.Info("topic summarized", "topic", topic, "airports", len(rows), "records", len(scored))
	}

	return p.writeMaster(ctx, summaries)
}

// writeMaster fills topics not summarized in this run from earlier output.
func (p *Pipeline) writeMaster(ctx context.Context, summaries map[domain.Topic][]domain.AirportTopicSummary) error {
	for _, topic := range domain.Topics() {
		if _, ok := summaries[topic]; ok {
			continue
		}
		rows, err := p.store.ReadSummaries(ctx, topic)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("read summaries %s: %w", topic, err)
		}
		summaries[topic] = rows
	}

	general, ok := summaries[domain.TopicGeneral]
	if !ok {
		p.logger.Warn("general summary not available, master table skipped")
		return nil
	}

	master := aggregate.Merge(general, summaries[domain.TopicDelay], summaries[domain.TopicNoise], p.join)
	if err := p.store.WriteMaster(ctx, master); err != nil {
		return fmt.Errorf("write master: %w", err)
	}
	p.logger.Info("master table written", "airports", len(master))
	return nil
}

// Correlate relates a topic summary to flight statistics. A missing summary
// or flights table skips the stage.
func (p *Pipeline) Correlate(ctx context.Context, topic domain.Topic) error {
	defer p.counters.Stage("correlate")()

	summaries, err := p.store.ReadSummaries(ctx, topic)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			p.logger.Warn("summary not found, correlation skipped", "topic", topic, "error", err)
			return nil
		}
		return fmt.Errorf("read summaries %s: %w", topic, err)
	}

	registry, err := p.registry(ctx)
	if err != nil {
		return err
	}
	normalizer := normalize.FromRegistry(registry)
	flights, err := p.flights(ctx, normalizer)
	if err != nil {
		return err
	}
	if flights == nil {
		p.logger.Warn("correlation skipped", "topic", topic)
		return nil
	}

	stats := correlate.AggregateFlights(flights, normalizer, p.metrics)
	matrix := correlate.SentimentMatrix(topic, summaries, stats, p.metrics)
	if err := p.store.WriteCorrelation(ctx, matrix); err != nil {
		return fmt.Errorf("write correlation %s: %w", topic, err)
	}

	scores := correlate.VolumeScores(summaries, stats)
	if err := p.store.WriteVolumeScores(ctx, topic, scores); err != nil {
		return fmt.Errorf("write volume scores %s: %w", topic, err)
	}

	if p.delayMetric != "" {
		for _, b := range correlate.DelayBuckets(flights, p.delayMetric) {
			p.logger.Info("delay bucket", "topic", topic, "bucket", b.Label, "flights", b.Count)
		}
	}

	p.logger.Info("correlation written", "topic", topic, "samples", matrix.Samples, "ranked", len(scores))
	return nil
}
