package ports

import (
	"context"

	"AirportSentiment/internal/domain"
)

// Classifier maps text to a probability distribution over its label space.
// Implementations are loaded once per batch and are not assumed to be safe for
// concurrent use.
type Classifier interface {
	Name() string
	Classify(ctx context.Context, text string) ([]float64, error)
}

// RecordSource pulls raw text records from named upstream providers.
// FetchSource may return partial records together with an error.
type RecordSource interface {
	SourceNames() []string
	FetchSource(ctx context.Context, name string, airports []domain.Airport) ([]domain.TextRecord, error)
}

// CombinedTable names the merged text table produced by Combine.
const CombinedTable = "combined"

// TableStore reads and writes the flat tables exchanged between stages.
// Read methods return an error wrapping fs.ErrNotExist when a table is absent.
type TableStore interface {
	ReadTextRecords(ctx context.Context, name string) ([]domain.TextRecord, error)
	WriteTextRecords(ctx context.Context, name string, records []domain.TextRecord) error
	ReadAirports(ctx context.Context) ([]domain.Airport, error)
	ReadFlights(ctx context.Context) ([]domain.Flight, error)
	ReadScored(ctx context.Context, topic domain.Topic) ([]domain.ScoredRecord, error)
	WriteScored(ctx context.Context, topic domain.Topic, records []domain.ScoredRecord) error
	ReadSummaries(ctx context.Context, topic domain.Topic) ([]domain.AirportTopicSummary, error)
	WriteSummaries(ctx context.Context, topic domain.Topic, rows []domain.AirportTopicSummary) error
	WriteSourceBreakdown(ctx context.Context, topic domain.Topic, rows []domain.SourceSummary) error
	WriteMaster(ctx context.Context, rows []domain.MasterRow) error
	WriteCorrelation(ctx context.Context, matrix domain.CorrelationMatrix) error
	WriteVolumeScores(ctx context.Context, topic domain.Topic, rows []domain.VolumeScore) error
}

// SummaryRepository persists topic summaries for downstream consumers.
type SummaryRepository interface {
	SaveSummaries(ctx context.Context, topic domain.Topic, rows []domain.AirportTopicSummary) error
}
