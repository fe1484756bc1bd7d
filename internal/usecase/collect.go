package usecase

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"AirportSentiment/internal/domain"
	"AirportSentiment/internal/metrics"
	"AirportSentiment/internal/ports"
	"AirportSentiment/internal/scanner"
)

// Collector fetches raw text tables and merges them into the combined table.
type Collector struct {
	source   ports.RecordSource
	store    ports.TableStore
	counters *metrics.Metrics
	logger   *slog.Logger
}

func NewCollector(source ports.RecordSource, store ports.TableStore, counters *metrics.Metrics, logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Collector{source: source, store: store, counters: counters, logger: logger}
}

// RawTable names the per-source table, e.g. google_news_raw.
func RawTable(source string) string {
	return domain.ParseSource(source).ColumnPrefix() + "_raw"
}

// Collect scans every airport of the registry with the named sources, all
// configured sources when none are given. A source whose upstream becomes
// unavailable keeps its partial table and the run moves on.
func (c *Collector) Collect(ctx context.Context, sources []string) error {
	defer c.counters.Stage("collect")()

	if c.source == nil {
		return fmt.Errorf("record source is not configured")
	}

	airports, err := c.store.ReadAirports(ctx)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: airports: %w", ErrMissingInput, err)
		}
		return fmt.Errorf("read airports: %w", err)
	}

	if len(sources) == 0 {
		sources = c.source.SourceNames()
	}

	for _, name := range sources {
		records, err := c.source.FetchSource(ctx, name, airports)
		if err != nil && !errors.Is(err, scanner.ErrUnavailable) {
			return fmt.Errorf("collect %s: %w", name, err)
		}
		if err != nil {
			c.logger.Warn("source stopped early, keeping partial records", "source", name, "records", len(records), "error", err)
		}

		if werr := c.store.WriteTextRecords(ctx, RawTable(name), records); werr != nil {
			return fmt.Errorf("write %s: %w", RawTable(name), werr)
		}
		c.counters.Collected(string(domain.ParseSource(name)), len(records))
		c.logger.Info("source collected", "source", name, "airports", len(airports), "records", len(records))
	}
	return nil
}

// Combine concatenates the raw tables of all configured sources and drops
// records with empty text.
func (c *Collector) Combine(ctx context.Context) error {
	var names []string
	if c.source != nil {
		names = c.source.SourceNames()
	} else {
		for _, src := range domain.KnownSources() {
			names = append(names, string(src))
		}
	}

	var (
		combined []domain.TextRecord
		found    int
	)
	for _, name := range names {
		records, err := c.store.ReadTextRecords(ctx, RawTable(name))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				c.logger.Warn("raw table not found", "table", RawTable(name))
				continue
			}
			return fmt.Errorf("read %s: %w", RawTable(name), err)
		}
		found++

		dropped := 0
		for _, r := range records {
			if strings.TrimSpace(r.Text) == "" {
				dropped++
				continue
			}
			if r.Source == "" {
				r.Source = domain.ParseSource(name)
			}
			combined = append(combined, r)
		}
		c.logger.Debug("raw table merged", "table", RawTable(name), "records", len(records), "dropped", dropped)
	}

	if found == 0 {
		return fmt.Errorf("%w: no raw tables", ErrMissingInput)
	}

	if err := c.store.WriteTextRecords(ctx, ports.CombinedTable, combined); err != nil {
		return fmt.Errorf("write combined: %w", err)
	}
	c.logger.Info("combined table written", "tables", found, "records", len(combined))
	return nil
}
