package normalize

import (
	"strings"

	"AirportSentiment/internal/domain"
)

// Registry indexes airports by every identifier a source table may use.
type Registry struct {
	airports []domain.Airport
	byCode   map[string]int
	icaoIATA map[string]string
}

// NewRegistry builds lookup tables; later rows never shadow earlier ones.
func NewRegistry(airports []domain.Airport) *Registry {
	r := &Registry{
		airports: append([]domain.Airport(nil), airports...),
		byCode:   make(map[string]int, len(airports)*3),
		icaoIATA: make(map[string]string, len(airports)),
	}

	for i, ap := range r.airports {
		for _, code := range []string{ap.IATACode, ap.ICAOCode, ap.Ident} {
			key := canonicalKey(code)
			if key == "" {
				continue
			}
			if _, exists := r.byCode[key]; !exists {
				r.byCode[key] = i
			}
		}

		icao := strings.TrimSpace(ap.ICAOCode)
		if icao == "" {
			continue
		}
		if _, exists := r.icaoIATA[icao]; exists {
			continue
		}
		if iata := strings.TrimSpace(ap.IATACode); iata != "" {
			r.icaoIATA[icao] = iata
		} else {
			r.icaoIATA[icao] = icao
		}
	}

	return r
}

// ICAOToIATA returns a copy of the ICAO -> IATA table. Airports without an IATA
// code map to their own ICAO code.
func (r *Registry) ICAOToIATA() map[string]string {
	out := make(map[string]string, len(r.icaoIATA))
	for k, v := range r.icaoIATA {
		out[k] = v
	}
	return out
}

// Lookup finds an airport by IATA, ICAO or ident.
func (r *Registry) Lookup(code string) (domain.Airport, bool) {
	if r == nil {
		return domain.Airport{}, false
	}
	idx, ok := r.byCode[canonicalKey(code)]
	if !ok {
		return domain.Airport{}, false
	}
	return r.airports[idx], true
}

// Airports returns the registry rows in input order.
func (r *Registry) Airports() []domain.Airport {
	if r == nil {
		return nil
	}
	return append([]domain.Airport(nil), r.airports...)
}

// Len reports how many airports were loaded.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.airports)
}

func canonicalKey(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
