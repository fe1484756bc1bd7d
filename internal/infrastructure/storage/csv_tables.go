package storage

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"AirportSentiment/internal/domain"
)

var textHeader = []string{"airport_code", "city", "source", "text", "date"}

func (s *CSVStore) ReadTextRecords(ctx context.Context, name string) ([]domain.TextRecord, error) {
	t, err := readTable(ctx, s.textPath(name))
	if err != nil {
		return nil, err
	}

	records := make([]domain.TextRecord, 0, len(t.rows))
	for _, row := range t.rows {
		records = append(records, textRecord(t, row))
	}
	return records, nil
}

func textRecord(t *table, row []string) domain.TextRecord {
	return domain.TextRecord{
		AirportCode: t.get(row, "airport_code"),
		City:        t.first(row, "city", "search_term"),
		Source:      domain.ParseSource(t.get(row, "source")),
		Text:        t.get(row, "text"),
		Date:        t.first(row, "date", "published", "created_utc"),
	}
}

func textRow(r domain.TextRecord) []string {
	return []string{r.AirportCode, r.City, string(r.Source), r.Text, r.Date}
}

func (s *CSVStore) WriteTextRecords(ctx context.Context, name string, records []domain.TextRecord) error {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, textRow(r))
	}
	return s.writeTable(ctx, s.textPath(name), textHeader, rows)
}

// ReadAirports loads an OurAirports-style registry.
func (s *CSVStore) ReadAirports(ctx context.Context) ([]domain.Airport, error) {
	t, err := readTable(ctx, s.layout.AirportsPath)
	if err != nil {
		return nil, err
	}

	airports := make([]domain.Airport, 0, len(t.rows))
	for _, row := range t.rows {
		lat, _ := t.float(row, "latitude_deg")
		lon, _ := t.float(row, "longitude_deg")
		airports = append(airports, domain.Airport{
			Ident:        t.get(row, "ident"),
			IATACode:     t.get(row, "iata_code"),
			ICAOCode:     t.first(row, "icao_code", "gps_code"),
			Name:         t.get(row, "name"),
			ISOCountry:   t.get(row, "iso_country"),
			Municipality: t.get(row, "municipality"),
			Latitude:     lat,
			Longitude:    lon,
		})
	}
	return airports, nil
}

func (s *CSVStore) ReadFlights(ctx context.Context) ([]domain.Flight, error) {
	t, err := readTable(ctx, s.layout.FlightsPath)
	if err != nil {
		return nil, err
	}
	if !t.has(s.flights.Origin) {
		return nil, fmt.Errorf("flights table %s has no %s column", s.layout.FlightsPath, s.flights.Origin)
	}

	flights := make([]domain.Flight, 0, len(t.rows))
	for _, row := range t.rows {
		metrics := make(map[string]float64, len(s.flights.Metrics))
		for _, m := range s.flights.Metrics {
			if v, ok := t.float(row, m); ok {
				metrics[m] = v
			}
		}
		flights = append(flights, domain.Flight{
			Origin:      t.get(row, s.flights.Origin),
			Destination: t.get(row, s.flights.Destination),
			Metrics:     metrics,
		})
	}
	return flights, nil
}

var scoredHeader = append(append([]string{}, textHeader...), "stars_score", "polarity", "time_weight", "weighted_score")

func scoredFile(topic domain.Topic) string {
	return fmt.Sprintf("sentiment_results_%s.csv", topic)
}

func (s *CSVStore) ReadScored(ctx context.Context, topic domain.Topic) ([]domain.ScoredRecord, error) {
	t, err := readTable(ctx, s.resultPath(scoredFile(topic)))
	if err != nil {
		return nil, err
	}

	records := make([]domain.ScoredRecord, 0, len(t.rows))
	for _, row := range t.rows {
		stars, _ := t.float(row, "stars_score")
		weight, _ := t.float(row, "time_weight")
		weighted, _ := t.float(row, "weighted_score")
		records = append(records, domain.ScoredRecord{
			TextRecord:    textRecord(t, row),
			StarsScore:    stars,
			Polarity:      domain.Polarity(t.int(row, "polarity")),
			TimeWeight:    weight,
			WeightedScore: weighted,
		})
	}
	return records, nil
}

func (s *CSVStore) WriteScored(ctx context.Context, topic domain.Topic, records []domain.ScoredRecord) error {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, append(textRow(r.TextRecord),
			formatFloat(r.StarsScore),
			strconv.Itoa(int(r.Polarity)),
			formatFloat(r.TimeWeight),
			formatFloat(r.WeightedScore),
		))
	}
	return s.writeTable(ctx, s.resultPath(scoredFile(topic)), scoredHeader, rows)
}

func summaryFile(topic domain.Topic) string {
	return fmt.Sprintf("airport_summary_%s.csv", topic)
}

var summaryMetricColumns = []string{
	"total_mentions", "global_weighted_sentiment", "sentiment_score_10",
	"mean_time_weight", "media_pressure_index", "pressure_impact_score",
}

// summarySources returns the known sources plus any extra ones present, so
// every source gets its own count column.
func summarySources(rows []domain.AirportTopicSummary) []domain.Source {
	sources := domain.KnownSources()
	known := map[domain.Source]bool{}
	for _, src := range sources {
		known[src] = true
	}
	var extra []domain.Source
	for _, row := range rows {
		for src := range row.SourceCounts {
			if !known[src] {
				known[src] = true
				extra = append(extra, src)
			}
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	return append(sources, extra...)
}

func (s *CSVStore) WriteSummaries(ctx context.Context, topic domain.Topic, rows []domain.AirportTopicSummary) error {
	sources := summarySources(rows)

	header := []string{"airport_code", "name", "iso_country", "municipality"}
	for _, src := range sources {
		header = append(header, src.ColumnPrefix()+"_count")
	}
	header = append(header, summaryMetricColumns...)

	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		line := []string{r.AirportCode, r.Name, r.ISOCountry, r.Municipality}
		for _, src := range sources {
			line = append(line, strconv.Itoa(r.SourceCounts[src]))
		}
		line = append(line,
			strconv.Itoa(r.TotalMentions),
			formatFloat(r.GlobalWeightedSentiment),
			formatFloat(r.SentimentScore10),
			formatFloat(r.MeanTimeWeight),
			formatFloat(r.MediaPressureIndex),
			formatFloat(r.PressureImpactScore),
		)
		out = append(out, line)
	}
	return s.writeTable(ctx, s.resultPath(summaryFile(topic)), header, out)
}

func (s *CSVStore) ReadSummaries(ctx context.Context, topic domain.Topic) ([]domain.AirportTopicSummary, error) {
	t, err := readTable(ctx, s.resultPath(summaryFile(topic)))
	if err != nil {
		return nil, err
	}

	var countColumns []string
	for column := range t.index {
		if strings.HasSuffix(column, "_count") {
			countColumns = append(countColumns, column)
		}
	}

	rows := make([]domain.AirportTopicSummary, 0, len(t.rows))
	for _, row := range t.rows {
		counts := make(map[domain.Source]int, len(countColumns))
		for _, column := range countColumns {
			if n := t.int(row, column); n > 0 {
				counts[sourceFromPrefix(strings.TrimSuffix(column, "_count"))] = n
			}
		}
		sentiment, _ := t.float(row, "global_weighted_sentiment")
		score10, _ := t.float(row, "sentiment_score_10")
		meanWeight, _ := t.float(row, "mean_time_weight")
		index, _ := t.float(row, "media_pressure_index")
		impact, _ := t.float(row, "pressure_impact_score")
		rows = append(rows, domain.AirportTopicSummary{
			Topic:                   topic,
			AirportCode:             t.get(row, "airport_code"),
			Name:                    t.get(row, "name"),
			ISOCountry:              t.get(row, "iso_country"),
			Municipality:            t.get(row, "municipality"),
			SourceCounts:            counts,
			TotalMentions:           t.int(row, "total_mentions"),
			GlobalWeightedSentiment: sentiment,
			SentimentScore10:        score10,
			MeanTimeWeight:          meanWeight,
			MediaPressureIndex:      index,
			PressureImpactScore:     impact,
		})
	}
	return rows, nil
}

func sourceFromPrefix(prefix string) domain.Source {
	for _, src := range domain.KnownSources() {
		if src.ColumnPrefix() == prefix {
			return src
		}
	}
	return domain.Source(prefix)
}

func (s *CSVStore) WriteSourceBreakdown(ctx context.Context, topic domain.Topic, rows []domain.SourceSummary) error {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{r.AirportCode, string(r.Source), strconv.Itoa(r.Count), formatFloat(r.WeightedSentiment)})
	}
	header := []string{"airport_code", "source", "count", "weighted_sentiment"}
	return s.writeTable(ctx, s.resultPath(fmt.Sprintf("airport_source_breakdown_%s.csv", topic)), header, out)
}

var masterMetrics = []string{"total_mentions", "global_weighted_sentiment", "sentiment_score_10", "media_pressure_index", "pressure_impact_score"}

func masterCells(row *domain.AirportTopicSummary) []string {
	if row == nil {
		return make([]string, len(masterMetrics))
	}
	return []string{
		strconv.Itoa(row.TotalMentions),
		formatFloat(row.GlobalWeightedSentiment),
		formatFloat(row.SentimentScore10),
		formatFloat(row.MediaPressureIndex),
		formatFloat(row.PressureImpactScore),
	}
}

func (s *CSVStore) WriteMaster(ctx context.Context, rows []domain.MasterRow) error {
	header := []string{"airport_code", "name", "iso_country", "municipality"}
	for _, topic := range domain.Topics() {
		for _, m := range masterMetrics {
			header = append(header, string(topic)+"_"+m)
		}
	}

	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		general := r.General
		line := []string{general.AirportCode, general.Name, general.ISOCountry, general.Municipality}
		line = append(line, masterCells(&general)...)
		line = append(line, masterCells(r.Delay)...)
		line = append(line, masterCells(r.Noise)...)
		out = append(out, line)
	}
	return s.writeTable(ctx, s.resultPath("airport_master_summary.csv"), header, out)
}

func (s *CSVStore) WriteCorrelation(ctx context.Context, matrix domain.CorrelationMatrix) error {
	header := append([]string{"column"}, matrix.Columns...)
	out := make([][]string, 0, len(matrix.Columns))
	for i, column := range matrix.Columns {
		line := []string{column}
		for _, v := range matrix.Values[i] {
			line = append(line, formatFloat(v))
		}
		out = append(out, line)
	}
	return s.writeTable(ctx, s.resultPath(fmt.Sprintf("correlation_%s.csv", matrix.Topic)), header, out)
}

func (s *CSVStore) WriteVolumeScores(ctx context.Context, topic domain.Topic, rows []domain.VolumeScore) error {
	header := []string{
		"airport_code", "name", "total_flights", "weighted_sentiment", "sentiment_norm",
		"log_volume", "volume_norm", "composite_score", "composite_scaled", "pressure_impact_score",
	}
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			r.AirportCode,
			r.Name,
			strconv.Itoa(r.TotalFlights),
			formatFloat(r.WeightedSentiment),
			formatFloat(r.SentimentNorm),
			formatFloat(r.LogVolume),
			formatFloat(r.VolumeNorm),
			formatFloat(r.CompositeScore),
			formatFloat(r.CompositeScaled),
			formatFloat(r.PressureImpact),
		})
	}
	return s.writeTable(ctx, s.resultPath(fmt.Sprintf("volume_analysis_%s.csv", topic)), header, out)
}
