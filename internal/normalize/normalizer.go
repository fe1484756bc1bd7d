package normalize

import (
	"strings"

	"AirportSentiment/internal/domain"
)

// Normalizer rewrites airport identifiers to their canonical IATA form.
type Normalizer struct {
	mapping map[string]string
}

// NewNormalizer wraps an ICAO -> IATA table. A nil table maps nothing.
func NewNormalizer(icaoToIATA map[string]string) *Normalizer {
	mapping := make(map[string]string, len(icaoToIATA))
	for icao, iata := range icaoToIATA {
		mapping[canonicalKey(icao)] = strings.TrimSpace(iata)
	}
	return &Normalizer{mapping: mapping}
}

// FromRegistry builds a normalizer from the registry's ICAO table.
func FromRegistry(r *Registry) *Normalizer {
	if r == nil {
		return NewNormalizer(nil)
	}
	return NewNormalizer(r.icaoIATA)
}

// Code maps a single identifier. Unknown, IATA or malformed codes pass through.
func (n *Normalizer) Code(code string) string {
	if n == nil {
		return code
	}
	if iata, ok := n.mapping[canonicalKey(code)]; ok && iata != "" {
		return iata
	}
	return code
}

// Normalize returns new records with canonical airport codes and parsed sources.
func (n *Normalizer) Normalize(records []domain.TextRecord) []domain.TextRecord {
	out := make([]domain.TextRecord, len(records))
	for i, rec := range records {
		rec.AirportCode = n.Code(rec.AirportCode)
		rec.Source = domain.ParseSource(string(rec.Source))
		out[i] = rec
	}
	return out
}
