package aggregate

import (
	"fmt"
	"strings"

	"AirportSentiment/internal/domain"
)

// JoinMode selects how topic subsets attach to the general summary.
type JoinMode int

const (
	// JoinLeft keeps every general airport.
	JoinLeft JoinMode = iota
	// JoinInner keeps airports present in all three topics.
	JoinInner
)

// ParseJoinMode reads "left" or "inner".
func ParseJoinMode(raw string) (JoinMode, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "left":
		return JoinLeft, nil
	case "inner":
		return JoinInner, nil
	}
	return JoinLeft, fmt.Errorf("unknown join mode %q", raw)
}

// Merge joins the topic summaries on airport code, preserving general order.
func Merge(general, delay, noise []domain.AirportTopicSummary, mode JoinMode) []domain.MasterRow {
	delayBy := indexByCode(delay)
	noiseBy := indexByCode(noise)

	out := make([]domain.MasterRow, 0, len(general))
	for _, g := range general {
		row := domain.MasterRow{General: g}
		if d, ok := delayBy[g.AirportCode]; ok {
			row.Delay = &d
		}
		if n, ok := noiseBy[g.AirportCode]; ok {
			row.Noise = &n
		}
		if mode == JoinInner && (row.Delay == nil || row.Noise == nil) {
			continue
		}
		out = append(out, row)
	}
	return out
}

func indexByCode(rows []domain.AirportTopicSummary) map[string]domain.AirportTopicSummary {
	out := make(map[string]domain.AirportTopicSummary, len(rows))
	for _, r := range rows {
		if _, seen := out[r.AirportCode]; !seen {
			out[r.AirportCode] = r
		}
	}
	return out
}
