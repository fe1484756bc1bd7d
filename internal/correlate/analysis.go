package correlate

import (
	"math"
	"sort"

	"AirportSentiment/internal/domain"
)

const (
	ColumnSentiment = "global_weighted_sentiment"
	ColumnImpact    = "pressure_impact_score"
	ColumnMovements = "total_movements"
)

// DefaultMetrics are the flight columns correlated with sentiment.
var DefaultMetrics = []string{"MinLateDeparted", "MinLateArrived", "Dep_prcp", "Dep_wspd", "Dep_temp"}

// SentimentMatrix inner-joins summaries with flight statistics and returns the
// Pearson matrix over sentiment, pressure impact, movements and each metric.
func SentimentMatrix(topic domain.Topic, summaries []domain.AirportTopicSummary, stats []domain.FlightStats, metrics []string) domain.CorrelationMatrix {
	byCode := make(map[string]domain.FlightStats, len(stats))
	for _, s := range stats {
		byCode[s.AirportCode] = s
	}

	columns := append([]string{ColumnSentiment, ColumnImpact, ColumnMovements}, metrics...)
	series := make([][]float64, len(columns))

	samples := 0
	for _, row := range summaries {
		st, ok := byCode[row.AirportCode]
		if !ok {
			continue
		}
		samples++
		series[0] = append(series[0], row.GlobalWeightedSentiment)
		series[1] = append(series[1], row.PressureImpactScore)
		series[2] = append(series[2], float64(st.TotalMovements))
		for i, m := range metrics {
			v, ok := st.Means[m]
			if !ok {
				v = math.NaN()
			}
			series[3+i] = append(series[3+i], v)
		}
	}

	values := make([][]float64, len(columns))
	for i := range columns {
		values[i] = make([]float64, len(columns))
		for j := range columns {
			values[i][j] = Pearson(series[i], series[j])
		}
	}

	return domain.CorrelationMatrix{Topic: topic, Columns: columns, Values: values, Samples: samples}
}

// VolumeScores ranks airports with flights and a defined sentiment by an even
// blend of min-max normalized sentiment and log10 flight volume, scaled to 0-10.
func VolumeScores(summaries []domain.AirportTopicSummary, stats []domain.FlightStats) []domain.VolumeScore {
	byCode := make(map[string]domain.FlightStats, len(stats))
	for _, s := range stats {
		byCode[s.AirportCode] = s
	}

	var rows []domain.VolumeScore
	for _, s := range summaries {
		st, ok := byCode[s.AirportCode]
		if !ok || st.TotalMovements <= 0 || !finite(s.GlobalWeightedSentiment) {
			continue
		}
		rows = append(rows, domain.VolumeScore{
			AirportCode:       s.AirportCode,
			Name:              s.Name,
			TotalFlights:      st.TotalMovements,
			WeightedSentiment: s.GlobalWeightedSentiment,
			LogVolume:         math.Log10(float64(st.TotalMovements) + 1),
			PressureImpact:    s.PressureImpactScore,
		})
	}
	if len(rows) == 0 {
		return nil
	}

	sentLo, sentHi := bounds(rows, func(r domain.VolumeScore) float64 { return r.WeightedSentiment })
	volLo, volHi := bounds(rows, func(r domain.VolumeScore) float64 { return r.LogVolume })
	for i := range rows {
		rows[i].SentimentNorm = minMax(rows[i].WeightedSentiment, sentLo, sentHi)
		rows[i].VolumeNorm = minMax(rows[i].LogVolume, volLo, volHi)
		rows[i].CompositeScore = 0.5*rows[i].SentimentNorm + 0.5*rows[i].VolumeNorm
		rows[i].CompositeScaled = rows[i].CompositeScore * 10
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].CompositeScore != rows[j].CompositeScore {
			return rows[i].CompositeScore > rows[j].CompositeScore
		}
		return rows[i].AirportCode < rows[j].AirportCode
	})
	return rows
}

func bounds(rows []domain.VolumeScore, f func(domain.VolumeScore) float64) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, r := range rows {
		v := f(r)
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

// minMax maps v onto [0,1]; a degenerate range maps everything to 0.5.
func minMax(v, lo, hi float64) float64 {
	if hi <= lo {
		return 0.5
	}
	return (v - lo) / (hi - lo)
}
