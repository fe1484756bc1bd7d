package parser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"AirportSentiment/internal/config"
	"AirportSentiment/internal/domain"
	"AirportSentiment/internal/ports"
	"AirportSentiment/internal/scanner"
	"AirportSentiment/internal/topics"
)

// StrategySource implements RecordSource via registered scanner strategies.
type StrategySource struct {
	registry *scanner.Registry
	sources  []config.SourceConfig
	keywords topics.KeywordConfig
	workers  int
	logger   *slog.Logger
}

var _ ports.RecordSource = (*StrategySource)(nil)

// NewStrategySource wires the scanner registry with config-defined sources.
func NewStrategySource(reg *scanner.Registry, sources []config.SourceConfig, keywords topics.KeywordConfig, workers int, log *slog.Logger) *StrategySource {
	if workers <= 0 {
		workers = 1
	}
	return &StrategySource{
		registry: reg,
		sources:  sources,
		keywords: keywords,
		workers:  workers,
		logger:   log,
	}
}

// SourceNames lists configured sources in config order.
func (s *StrategySource) SourceNames() []string {
	names := make([]string, 0, len(s.sources))
	for _, src := range s.sources {
		names = append(names, src.Name)
	}
	return names
}

// FetchSource scans every airport with the named source on a bounded pool.
// After a scanner reports an unavailable upstream, running airports finish
// but no new ones start; the records gathered so far are returned with an
// error wrapping scanner.ErrUnavailable.
func (s *StrategySource) FetchSource(ctx context.Context, name string, airports []domain.Airport) ([]domain.TextRecord, error) {
	if s.registry == nil {
		return nil, fmt.Errorf("scanner registry is not configured")
	}

	site, ok := s.source(name)
	if !ok {
		return nil, fmt.Errorf("source %s is not configured", name)
	}
	strategy, err := s.registry.Resolve(site.Scanner)
	if err != nil {
		return nil, fmt.Errorf("source %s: %w", site.Name, err)
	}

	s.debug("fetch source", "source", site.Name, "scanner", site.Scanner, "airports", len(airports), "workers", s.workers)

	var (
		stopped  atomic.Bool
		stopErr  atomic.Value
		perIndex = make([][]domain.TextRecord, len(airports))
		g        errgroup.Group
	)
	g.SetLimit(s.workers)

	for i, airport := range airports {
		if stopped.Load() || ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if stopped.Load() || ctx.Err() != nil {
				return nil
			}

			req := scanner.Request{
				Airport:  airport,
				City:     scanner.CityName(airport),
				Keywords: s.keywords,
				Options:  site.Options,
			}
			records, err := strategy.Scan(ctx, req)
			perIndex[i] = records

			switch {
			case err == nil:
				s.debug("airport scanned", "source", site.Name, "airport", airport.Code(), "count", len(records))
			case errors.Is(err, scanner.ErrUnavailable):
				if stopped.CompareAndSwap(false, true) {
					stopErr.Store(err)
					s.warn("upstream unavailable, stopping source", "source", site.Name, "airport", airport.Code(), "error", err)
				}
			default:
				s.warn("airport scan failed", "source", site.Name, "airport", airport.Code(), "error", err)
			}
			return nil
		})
	}
	_ = g.Wait()

	var aggregated []domain.TextRecord
	for _, records := range perIndex {
		for _, r := range records {
			if r.Source == "" {
				r.Source = domain.ParseSource(site.Name)
			}
			aggregated = append(aggregated, r)
		}
	}

	s.debug("strategy source done", "source", site.Name, "total_records", len(aggregated))

	if err := ctx.Err(); err != nil {
		return aggregated, err
	}
	if err, ok := stopErr.Load().(error); ok {
		return aggregated, fmt.Errorf("source %s: %w", site.Name, err)
	}
	return aggregated, nil
}

func (s *StrategySource) source(name string) (config.SourceConfig, bool) {
	for _, src := range s.sources {
		if strings.EqualFold(src.Name, name) || strings.EqualFold(src.Scanner, name) {
			return src, true
		}
	}
	return config.SourceConfig{}, false
}

func (s *StrategySource) debug(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}

func (s *StrategySource) warn(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}
