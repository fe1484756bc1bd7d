package usecase

import (
	"context"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"AirportSentiment/internal/domain"
	"AirportSentiment/internal/ports"
	"AirportSentiment/internal/sentiment"
)

// memoryStore keeps tables in maps. Absent tables report fs.ErrNotExist.
type memoryStore struct {
	text      map[string][]domain.TextRecord
	airports  []domain.Airport
	flights   []domain.Flight
	scored    map[domain.Topic][]domain.ScoredRecord
	summaries map[domain.Topic][]domain.AirportTopicSummary
	breakdown map[domain.Topic][]domain.SourceSummary
	master    []domain.MasterRow
	matrices  map[domain.Topic]domain.CorrelationMatrix
	volumes   map[domain.Topic][]domain.VolumeScore
}

var _ ports.TableStore = (*memoryStore)(nil)

func newMemoryStore() *memoryStore {
	return &memoryStore{
		text:      map[string][]domain.TextRecord{},
		scored:    map[domain.Topic][]domain.ScoredRecord{},
		summaries: map[domain.Topic][]domain.AirportTopicSummary{},
		breakdown: map[domain.Topic][]domain.SourceSummary{},
		matrices:  map[domain.Topic]domain.CorrelationMatrix{},
		volumes:   map[domain.Topic][]domain.VolumeScore{},
	}
}

func missing(name string) error {
	return fmt.Errorf("open %s: %w", name, fs.ErrNotExist)
}

func (m *memoryStore) ReadTextRecords(_ context.Context, name string) ([]domain.TextRecord, error) {
	records, ok := m.text[name]
	if !ok {
		return nil, missing(name)
	}
	return append([]domain.TextRecord(nil), records...), nil
}

func (m *memoryStore) WriteTextRecords(_ context.Context, name string, records []domain.TextRecord) error {
	m.text[name] = records
	return nil
}

func (m *memoryStore) ReadAirports(context.Context) ([]domain.Airport, error) {
	if m.airports == nil {
		return nil, missing("airports")
	}
	return m.airports, nil
}

func (m *memoryStore) ReadFlights(context.Context) ([]domain.Flight, error) {
	if m.flights == nil {
		return nil, missing("flights")
	}
	out := make([]domain.Flight, len(m.flights))
	copy(out, m.flights)
	return out, nil
}

func (m *memoryStore) ReadScored(_ context.Context, topic domain.Topic) ([]domain.ScoredRecord, error) {
	records, ok := m.scored[topic]
	if !ok {
		return nil, missing(string(topic))
	}
	return records, nil
}

func (m *memoryStore) WriteScored(_ context.Context, topic domain.Topic, records []domain.ScoredRecord) error {
	m.scored[topic] = records
	return nil
}

func (m *memoryStore) ReadSummaries(_ context.Context, topic domain.Topic) ([]domain.AirportTopicSummary, error) {
	rows, ok := m.summaries[topic]
	if !ok {
		return nil, missing(string(topic))
	}
	return rows, nil
}

func (m *memoryStore) WriteSummaries(_ context.Context, topic domain.Topic, rows []domain.AirportTopicSummary) error {
	m.summaries[topic] = rows
	return nil
}

func (m *memoryStore) WriteSourceBreakdown(_ context.Context, topic domain.Topic, rows []domain.SourceSummary) error {
	m.breakdown[topic] = rows
	return nil
}

func (m *memoryStore) WriteMaster(_ context.Context, rows []domain.MasterRow) error {
	m.master = rows
	return nil
}

func (m *memoryStore) WriteCorrelation(_ context.Context, matrix domain.CorrelationMatrix) error {
	m.matrices[matrix.Topic] = matrix
	return nil
}

func (m *memoryStore) WriteVolumeScores(_ context.Context, topic domain.Topic, rows []domain.VolumeScore) error {
	m.volumes[topic] = rows
	return nil
}

// keywordScorer gives five stars to texts containing "great" and one star
// otherwise. Empty texts get the neutral fallback.
type keywordScorer struct {
	mu    sync.Mutex
	calls int
}

func (s *keywordScorer) Score(_ context.Context, text string) sentiment.Result {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()

	switch {
	case strings.TrimSpace(text) == "":
		return sentiment.Neutral(sentiment.FallbackEmptyText)
	case strings.Contains(text, "great"):
		return sentiment.Result{Stars: 5, Polarity: domain.PolarityPositive}
	default:
		return sentiment.Result{Stars: 1, Polarity: domain.PolarityNegative}
	}
}

type summarySink struct {
	saved map[domain.Topic]int
}

func (s *summarySink) SaveSummaries(_ context.Context, topic domain.Topic, rows []domain.AirportTopicSummary) error {
	if s.saved == nil {
		s.saved = map[domain.Topic]int{}
	}
	s.saved[topic] = len(rows)
	return nil
}
