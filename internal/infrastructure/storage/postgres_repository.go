package storage

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"

	"AirportSentiment/internal/domain"
	"AirportSentiment/internal/ports"
)

const DefaultSummaryTable = "airport_topic_summaries"

var summaryColumns = []string{
	"topic", "airport_code", "name", "iso_country", "municipality",
	"google_news_count", "reddit_count", "skytrax_count", "total_mentions",
	"global_weighted_sentiment", "sentiment_score_10", "mean_time_weight",
	"media_pressure_index", "pressure_impact_score", "updated_at",
}

// PostgresRepository upserts topic summaries keyed by (topic, airport_code).
type PostgresRepository struct {
	db    *sql.DB
	table string
}

var _ ports.SummaryRepository = (*PostgresRepository)(nil)

// OpenPostgres connects with the lib/pq driver and checks the connection.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB, table string) *PostgresRepository {
	if table == "" {
		table = DefaultSummaryTable
	}
	return &PostgresRepository{db: db, table: table}
}

// SaveSummaries writes all rows of a topic in a single transaction.
func (r *PostgresRepository) SaveSummaries(ctx context.Context, topic domain.Topic, rows []domain.AirportTopicSummary) error {
	if r.db == nil || len(rows) == 0 {
		return nil
	}

	query, args, err := r.upsert(topic, rows).ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("upsert summaries: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit summaries: %w", err)
	}
	return nil
}

func (r *PostgresRepository) upsert(topic domain.Topic, rows []domain.AirportTopicSummary) sq.InsertBuilder {
	insert := sq.Insert(r.table).
		Columns(summaryColumns...).
		PlaceholderFormat(sq.Dollar)

	for _, row := range rows {
		insert = insert.Values(
			string(topic),
			row.AirportCode,
			row.Name,
			row.ISOCountry,
			row.Municipality,
			int64(row.SourceCounts[domain.SourceGoogleNews]),
			int64(row.SourceCounts[domain.SourceReddit]),
			int64(row.SourceCounts[domain.SourceSkytrax]),
			int64(row.TotalMentions),
			nullFloat(row.GlobalWeightedSentiment),
			nullFloat(row.SentimentScore10),
			nullFloat(row.MeanTimeWeight),
			nullFloat(row.MediaPressureIndex),
			nullFloat(row.PressureImpactScore),
			sq.Expr("NOW()"),
		)
	}

	return insert.Suffix(`ON CONFLICT (topic, airport_code) DO UPDATE
SET name = EXCLUDED.name,
    iso_country = EXCLUDED.iso_country,
    municipality = EXCLUDED.municipality,
    google_news_count = EXCLUDED.google_news_count,
    reddit_count = EXCLUDED.reddit_count,
    skytrax_count = EXCLUDED.skytrax_count,
    total_mentions = EXCLUDED.total_mentions,
    global_weighted_sentiment = EXCLUDED.global_weighted_sentiment,
    sentiment_score_10 = EXCLUDED.sentiment_score_10,
    mean_time_weight = EXCLUDED.mean_time_weight,
    media_pressure_index = EXCLUDED.media_pressure_index,
    pressure_impact_score = EXCLUDED.pressure_impact_score,
    updated_at = EXCLUDED.updated_at`)
}

// nullFloat stores NaN as NULL.
func nullFloat(v float64) sql.NullFloat64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}
