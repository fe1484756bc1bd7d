package parser

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strings"

	"github.com/mmcdole/gofeed"

	"AirportSentiment/internal/config"
	"AirportSentiment/internal/domain"
	"AirportSentiment/internal/scanner"
)

const (
	googleNewsBaseURL = "https://news.google.com/rss/search"
	defaultLanguage   = "EN"
	dateLayout        = "2006-01-02 15:04:05"
)

var defaultEdition = config.EditionConfig{Language: defaultLanguage, GL: "US", HL: "en-US", CEID: "US:en"}

// GoogleNewsScanner queries the Google News RSS search for every keyword
// phrase in the airport country's language.
type GoogleNewsScanner struct {
	fetcher  *Fetcher
	baseURL  string
	editions map[string]config.EditionConfig
	minYear  int
	logger   *slog.Logger
}

func NewGoogleNewsScanner(fetcher *Fetcher, editions map[string]config.EditionConfig, minYear int, logger *slog.Logger) *GoogleNewsScanner {
	return &GoogleNewsScanner{
		fetcher:  fetcher,
		baseURL:  googleNewsBaseURL,
		editions: editions,
		minYear:  minYear,
		logger:   logger,
	}
}

func (g *GoogleNewsScanner) Name() string {
	return "googlenews"
}

// Scan deduplicates headlines by link across all phrase queries.
func (g *GoogleNewsScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.TextRecord, error) {
	edition := g.edition(req.Airport.ISOCountry)
	phrases := g.phrases(req, edition.Language)
	if len(phrases) == 0 || req.City == "" {
		return nil, nil
	}

	parser := gofeed.NewParser()
	seen := map[string]struct{}{}
	var records []domain.TextRecord

	for _, phrase := range phrases {
		body, err := g.fetcher.Get(ctx, g.searchURL(req.City, phrase, edition))
		if err != nil {
			var status *StatusError
			if errors.As(err, &status) {
				g.debug("skip query", "airport", req.Airport.Code(), "phrase", phrase, "status", status.Code)
				continue
			}
			return records, fmt.Errorf("google news %s: %w", req.Airport.Code(), err)
		}

		feed, err := parser.Parse(bytes.NewReader(body))
		if err != nil {
			g.debug("skip unparsable feed", "airport", req.Airport.Code(), "phrase", phrase, "error", err)
			continue
		}

		for _, item := range feed.Items {
			if item == nil || strings.TrimSpace(item.Title) == "" {
				continue
			}
			key := item.Link
			if key == "" {
				key = item.Title
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			records = append(records, domain.TextRecord{
				AirportCode: req.Airport.Code(),
				City:        req.City,
				Source:      domain.SourceGoogleNews,
				Text:        strings.TrimSpace(item.Title),
				Date:        publishedDate(item),
			})
		}
	}
	return records, nil
}

func (g *GoogleNewsScanner) edition(country string) config.EditionConfig {
	if e, ok := g.editions[strings.ToUpper(strings.TrimSpace(country))]; ok {
		return e
	}
	return defaultEdition
}

// phrases falls back to the English keywords for languages without a list.
func (g *GoogleNewsScanner) phrases(req scanner.Request, language string) []string {
	byCategory := req.Keywords.Language(language)
	if len(byCategory) == 0 {
		byCategory = req.Keywords.Language(defaultLanguage)
	}

	set := map[string]struct{}{}
	for _, list := range byCategory {
		for _, p := range list {
			if p = strings.TrimSpace(p); p != "" {
				set[p] = struct{}{}
			}
		}
	}
	out := make([]string, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

func (g *GoogleNewsScanner) searchURL(city, phrase string, e config.EditionConfig) string {
	query := fmt.Sprintf("%s %s", city, phrase)
	if g.minYear > 0 {
		query = fmt.Sprintf("%s after:%d-01-01", query, g.minYear)
	}
	values := url.Values{}
	values.Set("q", query)
	values.Set("hl", e.HL)
	values.Set("gl", e.GL)
	values.Set("ceid", e.CEID)
	return g.baseURL + "?" + values.Encode()
}

func publishedDate(item *gofeed.Item) string {
	switch {
	case item.PublishedParsed != nil:
		return item.PublishedParsed.UTC().Format(dateLayout)
	case item.UpdatedParsed != nil:
		return item.UpdatedParsed.UTC().Format(dateLayout)
	default:
		return strings.TrimSpace(item.Published)
	}
}

func (g *GoogleNewsScanner) debug(msg string, args ...any) {
	if g.logger != nil {
		g.logger.Debug(msg, args...)
	}
}
