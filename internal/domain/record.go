package domain

import "strings"

// Source identifies the upstream provider of a text record.
type Source string

const (
	SourceGoogleNews Source = "GoogleNews"
	SourceReddit     Source = "Reddit"
	SourceSkytrax    Source = "Skytrax"
)

// KnownSources lists providers in the column order used by summary tables.
func KnownSources() []Source {
	return []Source{SourceGoogleNews, SourceReddit, SourceSkytrax}
}

// ParseSource maps the spellings found in collector tables to a Source.
// Unknown values are kept verbatim so they still get their own count column.
func ParseSource(raw string) Source {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.NewReplacer(" ", "", "_", "", "-", "").Replace(key)
	switch key {
	case "googlenews", "news":
		return SourceGoogleNews
	case "reddit":
		return SourceReddit
	case "skytrax", "airlinequality":
		return SourceSkytrax
	default:
		return Source(strings.TrimSpace(raw))
	}
}

// ColumnPrefix returns the snake_case prefix for per-source columns (google_news_count).
func (s Source) ColumnPrefix() string {
	switch s {
	case SourceGoogleNews:
		return "google_news"
	case SourceReddit:
		return "reddit"
	case SourceSkytrax:
		return "skytrax"
	}
	prefix := strings.ToLower(strings.TrimSpace(string(s)))
	prefix = strings.NewReplacer(" ", "_", "-", "_").Replace(prefix)
	if prefix == "" {
		return "unknown"
	}
	return prefix
}

// TextRecord is the uniform record every collector delivers.
type TextRecord struct {
	AirportCode string
	City        string
	Source      Source
	Text        string
	Date        string
}

// Polarity is the coarse sentiment direction derived from a star score.
type Polarity int

const (
	PolarityNegative Polarity = -1
	PolarityNeutral  Polarity = 0
	PolarityPositive Polarity = 1
)

// ScoredRecord is a TextRecord enriched by the ensemble scorer and the weighter.
type ScoredRecord struct {
	TextRecord
	StarsScore    float64
	Polarity      Polarity
	TimeWeight    float64
	WeightedScore float64
}

// Topic names a keyword-defined subset of the record collection.
type Topic string

const (
	TopicGeneral Topic = "general"
	TopicDelay   Topic = "delay"
	TopicNoise   Topic = "noise"
)

// Topics returns all topics, general first.
func Topics() []Topic {
	return []Topic{TopicGeneral, TopicDelay, TopicNoise}
}

// ParseTopic validates a topic name.
func ParseTopic(raw string) (Topic, bool) {
	switch Topic(strings.ToLower(strings.TrimSpace(raw))) {
	case TopicGeneral:
		return TopicGeneral, true
	case TopicDelay, "delays":
		return TopicDelay, true
	case TopicNoise:
		return TopicNoise, true
	}
	return "", false
}

// KeywordCategory is the keyword-config category that selects the topic.
// General has no category: it is the full collection.
func (t Topic) KeywordCategory() string {
	switch t {
	case TopicDelay:
		return "delays"
	case TopicNoise:
		return "noise"
	}
	return ""
}
