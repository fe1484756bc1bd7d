package weighting

import (
	"sort"
	"strings"

	"AirportSentiment/internal/domain"
)

// DefaultHubCount is the number of busiest airports treated as strategic hubs.
const DefaultHubCount = 30

// HubSet is the set of strategic hub codes.
type HubSet map[string]struct{}

// NewHubSet builds a set from codes, trimmed and upper-cased.
func NewHubSet(codes ...string) HubSet {
	set := make(HubSet, len(codes))
	for _, code := range codes {
		if key := canonical(code); key != "" {
			set[key] = struct{}{}
		}
	}
	return set
}

func (h HubSet) Contains(code string) bool {
	_, ok := h[canonical(code)]
	return ok
}

// Codes returns the members in sorted order.
func (h HubSet) Codes() []string {
	out := make([]string, 0, len(h))
	for code := range h {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

// HubRank is the movement count of one airport.
type HubRank struct {
	Code      string
	Movements int
}

// RankAirports counts departures plus arrivals per airport, busiest first.
// Ties are broken by code.
func RankAirports(flights []domain.Flight) []HubRank {
	counts := make(map[string]int)
	for _, f := range flights {
		if code := canonical(f.Origin); code != "" {
			counts[code]++
		}
		if code := canonical(f.Destination); code != "" {
			counts[code]++
		}
	}

	ranks := make([]HubRank, 0, len(counts))
	for code, n := range counts {
		ranks = append(ranks, HubRank{Code: code, Movements: n})
	}
	sort.Slice(ranks, func(i, j int) bool {
		if ranks[i].Movements != ranks[j].Movements {
			return ranks[i].Movements > ranks[j].Movements
		}
		return ranks[i].Code < ranks[j].Code
	})
	return ranks
}

// RankHubs returns the top n airports by traffic as a HubSet.
func RankHubs(flights []domain.Flight, n int) HubSet {
	if n <= 0 {
		n = DefaultHubCount
	}

	ranks := RankAirports(flights)
	if len(ranks) > n {
		ranks = ranks[:n]
	}

	set := make(HubSet, len(ranks))
	for _, r := range ranks {
		set[r.Code] = struct{}{}
	}
	return set
}

func canonical(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
