package scanner

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"AirportSentiment/internal/domain"
	"AirportSentiment/internal/topics"
)

// ErrUnavailable marks an upstream that kept failing after all retries.
// Collectors stop starting new airports once a scanner reports it.
var ErrUnavailable = errors.New("upstream unavailable")

// Request carries all parameters required to scan one airport.
type Request struct {
	Airport  domain.Airport
	City     string
	Keywords topics.KeywordConfig
	Options  map[string]string
}

// Scanner captures a single provider implementation (Google News, Reddit, Skytrax).
type Scanner interface {
	Name() string
	Scan(ctx context.Context, req Request) ([]domain.TextRecord, error)
}

// Registry keeps a mapping from scanner names to their implementations.
type Registry struct {
	scanners map[string]Scanner
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{scanners: map[string]Scanner{}}
}

// Register adds or replaces a scanner implementation.
func (r *Registry) Register(scanner Scanner) {
	if r.scanners == nil {
		r.scanners = map[string]Scanner{}
	}
	r.scanners[scanner.Name()] = scanner
}

// Resolve returns a scanner by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Scanner, error) {
	if scanner, ok := r.scanners[name]; ok {
		return scanner, nil
	}
	return nil, fmt.Errorf("scanner %s is not registered", name)
}

// Names lists registered scanners in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.scanners))
	for name := range r.scanners {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var nameNoise = strings.NewReplacer("International", "", "Airport", "", "Intl", "")

// CityName derives the search term for an airport: its name stripped of
// generic words, or the municipality when nothing is left.
func CityName(a domain.Airport) string {
	name := nameNoise.Replace(a.Name)
	if i := strings.IndexAny(name, "/("); i >= 0 {
		name = name[:i]
	}
	if term := strings.Join(strings.Fields(name), " "); term != "" {
		return term
	}
	return strings.TrimSpace(a.Municipality)
}
