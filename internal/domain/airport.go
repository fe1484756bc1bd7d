package domain

// Airport is a row of the airport registry.
type Airport struct {
	Ident        string
	IATACode     string
	ICAOCode     string
	Name         string
	ISOCountry   string
	Municipality string
	Latitude     float64
	Longitude    float64
}

// Code returns the canonical identifier: IATA when present, else ICAO, else ident.
func (a Airport) Code() string {
	switch {
	case a.IATACode != "":
		return a.IATACode
	case a.ICAOCode != "":
		return a.ICAOCode
	default:
		return a.Ident
	}
}

// Flight is a single scheduled movement. Metrics holds the numeric columns
// configured for correlation (delay minutes, weather); empty cells are absent.
type Flight struct {
	Origin      string
	Destination string
	Metrics     map[string]float64
}

// FlightStats aggregates flights departing from one airport.
type FlightStats struct {
	AirportCode    string
	TotalMovements int
	Means          map[string]float64
}

// CorrelationMatrix is a square Pearson matrix over named columns.
type CorrelationMatrix struct {
	Topic   Topic
	Columns []string
	Values  [][]float64
	Samples int
}

// VolumeScore ranks an airport by combined sentiment and flight volume.
type VolumeScore struct {
	AirportCode       string
	Name              string
	TotalFlights      int
	WeightedSentiment float64
	SentimentNorm     float64
	LogVolume         float64
	VolumeNorm        float64
	CompositeScore    float64
	CompositeScaled   float64
	PressureImpact    float64
}
