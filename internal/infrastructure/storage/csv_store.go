package storage

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"AirportSentiment/internal/ports"
)

// CSVLayout locates the tables exchanged between pipeline stages.
type CSVLayout struct {
	AirportsPath string
	FlightsPath  string
	CombinedPath string
	RawDir       string
	ResultsDir   string
}

// FlightColumns maps the flights table onto domain.Flight.
type FlightColumns struct {
	Origin      string
	Destination string
	Metrics     []string
}

// CSVStore keeps every table as a headed CSV file.
type CSVStore struct {
	layout  CSVLayout
	flights FlightColumns
	logger  *slog.Logger
}

var _ ports.TableStore = (*CSVStore)(nil)

func NewCSVStore(layout CSVLayout, flights FlightColumns, logger *slog.Logger) *CSVStore {
	return &CSVStore{layout: layout, flights: flights, logger: logger}
}

func (s *CSVStore) textPath(name string) string {
	if name == ports.CombinedTable {
		return s.layout.CombinedPath
	}
	return filepath.Join(s.layout.RawDir, name+".csv")
}

func (s *CSVStore) resultPath(file string) string {
	return filepath.Join(s.layout.ResultsDir, file)
}

// table is a parsed CSV file with header-driven column access.
type table struct {
	index map[string]int
	rows  [][]string
}

func (t *table) has(column string) bool {
	_, ok := t.index[column]
	return ok
}

// get returns the trimmed cell or "" when the column is absent.
func (t *table) get(row []string, column string) string {
	i, ok := t.index[column]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// first returns the first non-empty value among alternative column names.
func (t *table) first(row []string, columns ...string) string {
	for _, c := range columns {
		if v := t.get(row, c); v != "" {
			return v
		}
	}
	return ""
}

func (t *table) float(row []string, column string) (float64, bool) {
	v := t.get(row, column)
	if v == "" {
		return math.NaN(), false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return math.NaN(), false
	}
	return f, true
}

func (t *table) int(row []string, column string) int {
	f, ok := t.float(row, column)
	if !ok {
		return 0
	}
	return int(f)
}

// readTable loads a CSV file. Missing files produce an error wrapping fs.ErrNotExist.
func readTable(ctx context.Context, path string) (*table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return &table{index: map[string]int{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header %s: %w", path, err)
	}

	t := &table{index: make(map[string]int, len(header))}
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, dup := t.index[name]; !dup {
			t.index[name] = i
		}
	}

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		t.rows = append(t.rows, row)
	}
	return t, nil
}

// writeTable replaces path with header and rows, creating parent directories.
func (s *CSVStore) writeTable(ctx context.Context, path string, header []string, rows [][]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		_ = file.Close()
		return fmt.Errorf("write header %s: %w", path, err)
	}
	if err := writer.WriteAll(rows); err != nil {
		_ = file.Close()
		return fmt.Errorf("write rows %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}

	if s.logger != nil {
		s.logger.Debug("table written", "path", path, "rows", len(rows))
	}
	return nil
}

// formatFloat renders NaN as an empty cell.
func formatFloat(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
