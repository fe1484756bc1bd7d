package correlate

import (
	"math"
	"sort"

	"AirportSentiment/internal/domain"
)

// CodeMapper canonicalizes airport codes, typically a normalize.Normalizer.
type CodeMapper interface {
	Code(code string) string
}

// AggregateFlights computes per-origin means of each metric and the total
// movements (departures plus arrivals) of every airport seen. Missing cells
// are skipped; a metric with no values has a NaN mean.
func AggregateFlights(flights []domain.Flight, mapper CodeMapper, metrics []string) []domain.FlightStats {
	code := func(raw string) string {
		if mapper == nil {
			return raw
		}
		return mapper.Code(raw)
	}

	type acc struct {
		movements int
		sums      map[string]float64
		counts    map[string]int
	}
	byCode := make(map[string]*acc)
	get := func(c string) *acc {
		a, ok := byCode[c]
		if !ok {
			a = &acc{sums: make(map[string]float64), counts: make(map[string]int)}
			byCode[c] = a
		}
		return a
	}

	for _, f := range flights {
		if origin := code(f.Origin); origin != "" {
			a := get(origin)
			a.movements++
			for _, m := range metrics {
				if v, ok := f.Metrics[m]; ok && finite(v) {
					a.sums[m] += v
					a.counts[m]++
				}
			}
		}
		if dest := code(f.Destination); dest != "" {
			get(dest).movements++
		}
	}

	out := make([]domain.FlightStats, 0, len(byCode))
	for c, a := range byCode {
		means := make(map[string]float64, len(metrics))
		for _, m := range metrics {
			if a.counts[m] == 0 {
				means[m] = math.NaN()
				continue
			}
			means[m] = a.sums[m] / float64(a.counts[m])
		}
		out = append(out, domain.FlightStats{AirportCode: c, TotalMovements: a.movements, Means: means})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AirportCode < out[j].AirportCode })
	return out
}

// DelayBucket counts flights whose delay falls in [Lower, Upper).
type DelayBucket struct {
	Label string
	Lower float64
	Upper float64
	Count int
}

// DelayBuckets sorts flights into on-time, 15-30, 30-60 and 60+ minute bands
// using the given delay metric. Flights without the metric are ignored.
func DelayBuckets(flights []domain.Flight, metric string) []DelayBucket {
	buckets := []DelayBucket{
		{Label: "on_time", Lower: math.Inf(-1), Upper: 15},
		{Label: "15_30", Lower: 15, Upper: 30},
		{Label: "30_60", Lower: 30, Upper: 60},
		{Label: "60_plus", Lower: 60, Upper: math.Inf(1)},
	}
	for _, f := range flights {
		v, ok := f.Metrics[metric]
		if !ok || math.IsNaN(v) {
			continue
		}
		for i := range buckets {
			if v >= buckets[i].Lower && v < buckets[i].Upper {
				buckets[i].Count++
				break
			}
		}
	}
	return buckets
}
