package domain

// AirportTopicSummary is one aggregated row per airport and topic.
type AirportTopicSummary struct {
	Topic         Topic
	AirportCode   string
	Name          string
	ISOCountry    string
	Municipality  string
	SourceCounts  map[Source]int
	TotalMentions int

	// GlobalWeightedSentiment is the time-weighted mean star score (1-5 scale).
	GlobalWeightedSentiment float64
	// SentimentScore10 is GlobalWeightedSentiment rescaled onto 1-10.
	SentimentScore10    float64
	MeanTimeWeight      float64
	MediaPressureIndex  float64
	PressureImpactScore float64
}

// SourceSummary breaks a topic summary down by provider.
type SourceSummary struct {
	Topic             Topic
	AirportCode       string
	Source            Source
	Count             int
	WeightedSentiment float64
}

// MasterRow joins the topic summaries of a single airport.
// Delay and Noise are nil when the airport has no mentions for that topic.
type MasterRow struct {
	General AirportTopicSummary
	Delay   *AirportTopicSummary
	Noise   *AirportTopicSummary
}
