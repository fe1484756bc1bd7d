package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"AirportSentiment/internal/aggregate"
	"AirportSentiment/internal/config"
	"AirportSentiment/internal/domain"
	"AirportSentiment/internal/infrastructure/ml"
	"AirportSentiment/internal/infrastructure/parser"
	"AirportSentiment/internal/infrastructure/storage"
	"AirportSentiment/internal/logging"
	"AirportSentiment/internal/metrics"
	"AirportSentiment/internal/ports"
	"AirportSentiment/internal/scanner"
	"AirportSentiment/internal/sentiment"
	"AirportSentiment/internal/topics"
	"AirportSentiment/internal/usecase"
	"AirportSentiment/internal/weighting"
)

const metricsFile = "metrics.prom"

// Application wires configs to use cases.
type Application struct {
	cfg       config.Config
	logger    *slog.Logger
	runID     string
	counters  *metrics.Metrics
	pipeline  *usecase.Pipeline
	collector *usecase.Collector
	db        *sql.DB
}

// New builds every adapter from configuration. The database is opened only
// when a DSN is configured.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}
	logger, runID := logging.WithRun(baseLogger)

	fallback, err := aggregate.ParseFallback(cfg.Aggregation.ZeroWeightFallback)
	if err != nil {
		return nil, err
	}
	join, err := aggregate.ParseJoinMode(cfg.Aggregation.MasterJoin)
	if err != nil {
		return nil, err
	}
	weighter, err := weighterFactory(cfg.Weighting)
	if err != nil {
		return nil, err
	}

	keywords := loadKeywords(cfg.Paths, logger)
	counters := metrics.New()
	store := storage.NewCSVStore(storage.CSVLayout{
		AirportsPath: cfg.Paths.Resolve(cfg.Paths.Airports),
		FlightsPath:  cfg.Paths.Resolve(cfg.Paths.Flights),
		CombinedPath: cfg.Paths.Resolve(cfg.Paths.Combined),
		RawDir:       cfg.Paths.Resolve(cfg.Paths.RawDir),
		ResultsDir:   cfg.Paths.ResultsDir,
	}, storage.FlightColumns{
		Origin:      cfg.Flights.OriginColumn,
		Destination: cfg.Flights.DestinationColumn,
		Metrics:     cfg.Flights.Metrics,
	}, logger.With("component", "storage"))

	application := &Application{cfg: cfg, logger: logger, runID: runID, counters: counters}

	var repository ports.SummaryRepository
	if cfg.Database.DSN != "" {
		db, err := storage.OpenPostgres(ctx, cfg.Database.DSN)
		if err != nil {
			return nil, err
		}
		application.db = db
		repository = storage.NewPostgresRepository(db, cfg.Database.Table)
	}

	application.pipeline = usecase.NewPipeline(usecase.PipelineDeps{
		Store:       store,
		Repository:  repository,
		Scorer:      newScorer(cfg, logger.With("component", "sentiment")),
		Keywords:    keywords,
		Weighter:    weighter,
		HubTopN:     cfg.Weighting.HubTopN,
		Fallback:    fallback,
		Join:        join,
		Metrics:     cfg.Flights.Metrics,
		DelayMetric: cfg.Flights.DelayMetric,
		Counters:    counters,
		Logger:      logger.With("component", "pipeline"),
	})
	application.collector = usecase.NewCollector(
		newRecordSource(cfg.Collectors, keywords, logger),
		store,
		counters,
		logger.With("component", "collector"),
	)
	return application, nil
}

func (a *Application) Logger() *slog.Logger {
	return a.logger
}

func (a *Application) RunID() string {
	return a.runID
}

func newScorer(cfg config.Config, logger *slog.Logger) *sentiment.EnsembleScorer {
	c := cfg.Classifiers
	stars := ml.NewClient(c.Stars.Name, c.Stars.URL, c.APIKey, c.Stars.Labels, c.Stars.Timeout)
	polarity := ml.NewClient(c.Sentiment.Name, c.Sentiment.URL, c.APIKey, c.Sentiment.Labels, c.Sentiment.Timeout)
	return sentiment.NewEnsembleScorer(stars, polarity, sentiment.Options{
		MaxTokensA: c.Stars.MaxTokens,
		MaxTokensB: c.Sentiment.MaxTokens,
		Polarity:   sentiment.PolarityScheme(cfg.Scoring.PolarityScheme),
		Logger:     logger,
	})
}

// newRecordSource shares one rate limited fetcher between all scanners.
func newRecordSource(cfg config.CollectorsConfig, keywords topics.KeywordConfig, logger *slog.Logger) *parser.StrategySource {
	fetcher := parser.NewFetcher(&http.Client{Timeout: cfg.Timeout}, parser.FetcherOptions{
		Limiter:   parser.NewLimiter(cfg.RequestsPerSecond, cfg.Burst),
		UserAgent: cfg.UserAgent,
		Retries:   cfg.Retries,
		Backoff:   cfg.Backoff,
	})

	registry := scanner.NewRegistry()
	registry.Register(parser.NewGoogleNewsScanner(fetcher, cfg.Editions, cfg.MinYear, logger.With("component", "scanner.googlenews")))
	registry.Register(parser.NewRedditScanner(fetcher, cfg.MinYear, logger.With("component", "scanner.reddit")))
	registry.Register(parser.NewSkytraxScanner(fetcher, cfg.SkytraxSlugs, cfg.MinYear))

	return parser.NewStrategySource(registry, cfg.Sources, keywords, cfg.Workers, logger.With("component", "source"))
}

// loadKeywords tolerates a missing file: every keyword topic is then empty.
func loadKeywords(paths config.PathsConfig, logger *slog.Logger) topics.KeywordConfig {
	path := paths.Resolve(paths.Keywords)
	if path == "" {
		return topics.KeywordConfig{}
	}
	keywords, err := topics.LoadKeywords(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warn("keyword file not found, topic subsets will be empty", "path", path)
		} else {
			logger.Error("keyword file unreadable, topic subsets will be empty", "path", path, "error", err)
		}
		return topics.KeywordConfig{}
	}
	return keywords
}

func weighterFactory(cfg config.WeightingConfig) (usecase.WeighterFactory, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Strategy)) {
	case "", "sigmoid":
		now := time.Now().UTC()
		if cfg.Now != "" {
			t, ok := weighting.ParseDate(cfg.Now)
			if !ok {
				return nil, fmt.Errorf("weighting.now: cannot parse %q", cfg.Now)
			}
			now = t
		}
		hub := decayParams(cfg.Hub, weighting.HubDecay)
		regional := decayParams(cfg.Regional, weighting.RegionalDecay)
		return func(hubs weighting.HubSet) weighting.Weighter {
			return &weighting.SigmoidDecay{Now: now, Hubs: hubs, Hub: hub, Regional: regional}
		}, nil

	case "exponential":
		reference := weighting.DefaultReference
		if cfg.ReferenceDate != "" {
			t, ok := weighting.ParseDate(cfg.ReferenceDate)
			if !ok {
				return nil, fmt.Errorf("weighting.referenceDate: cannot parse %q", cfg.ReferenceDate)
			}
			reference = t
		}
		return func(weighting.HubSet) weighting.Weighter {
			d := weighting.NewExponentialDecay(reference)
			if cfg.HalfLifeDays > 0 {
				d.HalfLifeDays = cfg.HalfLifeDays
			}
			return d
		}, nil
	}
	return nil, fmt.Errorf("unknown weighting strategy %q", cfg.Strategy)
}

func decayParams(c config.DecayConfig, fallback weighting.DecayParams) weighting.DecayParams {
	if c.InflectionDays <= 0 || c.Slope <= 0 {
		return fallback
	}
	return weighting.DecayParams{InflectionDays: c.InflectionDays, Slope: c.Slope}
}

func (a *Application) Score(ctx context.Context, selected []domain.Topic) error {
	return a.pipeline.Score(ctx, selected)
}

func (a *Application) Summarize(ctx context.Context, selected []domain.Topic) error {
	return a.pipeline.Summarize(ctx, selected)
}

func (a *Application) Correlate(ctx context.Context, selected []domain.Topic) error {
	for _, topic := range selected {
		if err := a.pipeline.Correlate(ctx, topic); err != nil {
			return err
		}
	}
	return nil
}

func (a *Application) Run(ctx context.Context, selected []domain.Topic) error {
	return a.pipeline.Run(ctx, selected)
}

func (a *Application) Hubs(ctx context.Context, n int) ([]weighting.HubRank, error) {
	return a.pipeline.Hubs(ctx, n)
}

func (a *Application) Collect(ctx context.Context, sources []string) error {
	return a.collector.Collect(ctx, sources)
}

func (a *Application) Combine(ctx context.Context) error {
	return a.collector.Combine(ctx)
}

// Close flushes metrics to the results directory and releases the database.
func (a *Application) Close() error {
	var errs []error
	if err := a.counters.WriteTextfile(filepath.Join(a.cfg.Paths.ResultsDir, metricsFile)); err != nil {
		errs = append(errs, err)
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
	}
	return errors.Join(errs...)
}
