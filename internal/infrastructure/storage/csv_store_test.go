package storage

import (
	"context"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AirportSentiment/internal/domain"
	"AirportSentiment/internal/ports"
)

func newTestStore(t *testing.T) (*CSVStore, string) {
	t.Helper()
	dir := t.TempDir()
	layout := CSVLayout{
		AirportsPath: filepath.Join(dir, "airports.csv"),
		FlightsPath:  filepath.Join(dir, "flights.csv"),
		CombinedPath: filepath.Join(dir, "combined_data.csv"),
		RawDir:       filepath.Join(dir, "raw"),
		ResultsDir:   filepath.Join(dir, "results"),
	}
	columns := FlightColumns{Origin: "SchedDepApt", Destination: "SchedArrApt", Metrics: []string{"depdelay", "temp"}}
	return NewCSVStore(layout, columns, nil), dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestCSVStoreTextRecordsRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	records := []domain.TextRecord{
		{AirportCode: "LHR", City: "London", Source: domain.SourceReddit, Text: "Long queue, \"again\"", Date: "2024-05-01"},
		{AirportCode: "FCO", City: "Rome", Source: domain.SourceGoogleNews, Text: "Ritardi", Date: ""},
	}
	require.NoError(t, store.WriteTextRecords(ctx, ports.CombinedTable, records))

	got, err := store.ReadTextRecords(ctx, ports.CombinedTable)
	require.NoError(t, err)
	assert.Equal(t, records, got)
}

func TestCSVStoreMissingTable(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.ReadTextRecords(context.Background(), "reddit_raw")
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	_, err = store.ReadSummaries(context.Background(), domain.TopicNoise)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestCSVStoreReadsAirportRegistry(t *testing.T) {
	store, dir := newTestStore(t)
	writeFile(t, filepath.Join(dir, "airports.csv"),
		"\ufeffident,name,iso_country,municipality,gps_code,iata_code,latitude_deg,longitude_deg\n"+
			"EGLL,London Heathrow Airport,GB,London,EGLL,LHR,51.47,-0.46\n"+
			"LIRF,Rome Fiumicino,IT,Rome,LIRF,,41.8,12.25\n")

	airports, err := store.ReadAirports(context.Background())
	require.NoError(t, err)
	require.Len(t, airports, 2)

	assert.Equal(t, "EGLL", airports[0].Ident)
	assert.Equal(t, "EGLL", airports[0].ICAOCode)
	assert.Equal(t, "LHR", airports[0].Code())
	assert.InDelta(t, 51.47, airports[0].Latitude, 1e-9)
	assert.Equal(t, "LIRF", airports[1].Code())
}

func TestCSVStoreReadsFlights(t *testing.T) {
	store, dir := newTestStore(t)
	writeFile(t, filepath.Join(dir, "flights.csv"),
		"SchedDepApt,SchedArrApt,depdelay,temp,other\n"+
			"FCO,LHR,12.5,,x\n"+
			"FCO,CDG,,18,y\n")

	flights, err := store.ReadFlights(context.Background())
	require.NoError(t, err)
	require.Len(t, flights, 2)

	assert.Equal(t, "FCO", flights[0].Origin)
	assert.Equal(t, map[string]float64{"depdelay": 12.5}, flights[0].Metrics)
	assert.Equal(t, map[string]float64{"temp": 18}, flights[1].Metrics)
}

func TestCSVStoreFlightsWithoutOriginColumn(t *testing.T) {
	store, dir := newTestStore(t)
	writeFile(t, filepath.Join(dir, "flights.csv"), "from,to\nFCO,LHR\n")

	_, err := store.ReadFlights(context.Background())
	assert.Error(t, err)
}

func TestCSVStoreScoredRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	records := []domain.ScoredRecord{{
		TextRecord:    domain.TextRecord{AirportCode: "LHR", City: "London", Source: domain.SourceSkytrax, Text: "fine", Date: "2025-01-01"},
		StarsScore:    4.25,
		Polarity:      domain.PolarityPositive,
		TimeWeight:    0.75,
		WeightedScore: 3.1875,
	}}
	require.NoError(t, store.WriteScored(ctx, domain.TopicGeneral, records))

	got, err := store.ReadScored(ctx, domain.TopicGeneral)
	require.NoError(t, err)
	assert.Equal(t, records, got)

	_, err = os.Stat(filepath.Join(store.layout.ResultsDir, "sentiment_results_general.csv"))
	assert.NoError(t, err)
}

func TestCSVStoreSummariesRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	rows := []domain.AirportTopicSummary{
		{
			Topic:                   domain.TopicDelay,
			AirportCode:             "LHR",
			Name:                    "London Heathrow Airport",
			ISOCountry:              "GB",
			Municipality:            "London",
			SourceCounts:            map[domain.Source]int{domain.SourceReddit: 2, domain.SourceSkytrax: 1},
			TotalMentions:           3,
			GlobalWeightedSentiment: 3.5,
			SentimentScore10:        6.625,
			MeanTimeWeight:          0.8,
			MediaPressureIndex:      math.Log1p(3),
			PressureImpactScore:     5.9,
		},
		{
			Topic:                   domain.TopicDelay,
			AirportCode:             "XXX",
			SourceCounts:            map[domain.Source]int{"Forum": 1},
			TotalMentions:           1,
			GlobalWeightedSentiment: math.NaN(),
			SentimentScore10:        math.NaN(),
			MeanTimeWeight:          0,
			MediaPressureIndex:      math.Log1p(1),
			PressureImpactScore:     math.NaN(),
		},
	}
	require.NoError(t, store.WriteSummaries(ctx, domain.TopicDelay, rows))

	got, err := store.ReadSummaries(ctx, domain.TopicDelay)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, rows[0], got[0])
	assert.Equal(t, map[domain.Source]int{"forum": 1}, got[1].SourceCounts)
	assert.True(t, math.IsNaN(got[1].GlobalWeightedSentiment))
	assert.True(t, math.IsNaN(got[1].PressureImpactScore))
}

func TestCSVStoreWritesMasterWithEmptyTopics(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	delay := domain.AirportTopicSummary{Topic: domain.TopicDelay, AirportCode: "LHR", TotalMentions: 1, GlobalWeightedSentiment: 2}
	rows := []domain.MasterRow{{
		General: domain.AirportTopicSummary{Topic: domain.TopicGeneral, AirportCode: "LHR", Name: "Heathrow", TotalMentions: 4},
		Delay:   &delay,
	}}
	require.NoError(t, store.WriteMaster(ctx, rows))

	tbl, err := readTable(ctx, filepath.Join(store.layout.ResultsDir, "airport_master_summary.csv"))
	require.NoError(t, err)
	require.Len(t, tbl.rows, 1)

	row := tbl.rows[0]
	assert.Equal(t, "4", tbl.get(row, "general_total_mentions"))
	assert.Equal(t, "1", tbl.get(row, "delay_total_mentions"))
	assert.Equal(t, "2", tbl.get(row, "delay_global_weighted_sentiment"))
	assert.Equal(t, "", tbl.get(row, "noise_total_mentions"))
}

func TestCSVStoreWritesCorrelation(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	matrix := domain.CorrelationMatrix{
		Topic:   domain.TopicGeneral,
		Columns: []string{"a", "b"},
		Values:  [][]float64{{1, math.NaN()}, {math.NaN(), 1}},
	}
	require.NoError(t, store.WriteCorrelation(ctx, matrix))

	tbl, err := readTable(ctx, filepath.Join(store.layout.ResultsDir, "correlation_general.csv"))
	require.NoError(t, err)
	require.Len(t, tbl.rows, 2)
	assert.Equal(t, "a", tbl.get(tbl.rows[0], "column"))
	assert.Equal(t, "1", tbl.get(tbl.rows[0], "a"))
	assert.Equal(t, "", tbl.get(tbl.rows[0], "b"))
}
