package parser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"AirportSentiment/internal/domain"
	"AirportSentiment/internal/scanner"
)

const (
	redditSearchURL = "https://www.reddit.com/search.json"
	maxSelfText     = 1000
)

var spamKeywords = []string{
	"pre-order", "fiction", "chapter", "author", "book", "novel", "coin", "numismatic", "microbiome", "diabetes",
	"university", "tcg", "card game", "movie", "film", "oscar",
	"hiring", "job", "salary", "recruit", "freelance", "part-time", "full-time", "vacancy", "distributor", "earn",
}

var fallbackMustHave = []string{
	"delay", "cancelled", "stuck", "chaos", "wait", "queue", "missed connection",
	"luggage", "baggage", "airline", "airport", "flight", "stranded",
}

var redditQueries = []string{"%s airport delay", "%s flight cancelled"}

type redditListing struct {
	Data struct {
		Children []struct {
			Data redditPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type redditPost struct {
	Title      string  `json:"title"`
	SelfText   string  `json:"selftext"`
	Permalink  string  `json:"permalink"`
	CreatedUTC float64 `json:"created_utc"`
}

// RedditScanner searches public posts mentioning the airport city together
// with a delay keyword.
type RedditScanner struct {
	fetcher *Fetcher
	baseURL string
	minYear int
	logger  *slog.Logger
}

func NewRedditScanner(fetcher *Fetcher, minYear int, logger *slog.Logger) *RedditScanner {
	return &RedditScanner{fetcher: fetcher, baseURL: redditSearchURL, minYear: minYear, logger: logger}
}

func (r *RedditScanner) Name() string {
	return "reddit"
}

func (r *RedditScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.TextRecord, error) {
	city := strings.TrimSpace(req.City)
	if city == "" {
		return nil, nil
	}

	mustHave := lowerAll(req.Keywords.Phrases("delays"))
	if len(mustHave) == 0 {
		mustHave = fallbackMustHave
	}

	seen := map[string]struct{}{}
	var records []domain.TextRecord
	for _, pattern := range redditQueries {
		body, err := r.fetcher.Get(ctx, r.searchURL(fmt.Sprintf(pattern, city)))
		if err != nil {
			var status *StatusError
			if errors.As(err, &status) {
				r.debug("skip query", "airport", req.Airport.Code(), "status", status.Code)
				continue
			}
			return records, fmt.Errorf("reddit %s: %w", req.Airport.Code(), err)
		}

		var listing redditListing
		if err := json.Unmarshal(body, &listing); err != nil {
			r.debug("skip undecodable listing", "airport", req.Airport.Code(), "error", err)
			continue
		}

		for _, child := range listing.Data.Children {
			post := child.Data
			if _, ok := seen[post.Permalink]; ok {
				continue
			}
			if !r.accept(post, city, mustHave) {
				continue
			}
			seen[post.Permalink] = struct{}{}

			records = append(records, domain.TextRecord{
				AirportCode: req.Airport.Code(),
				City:        city,
				Source:      domain.SourceReddit,
				Text:        strings.TrimSpace(post.Title + " " + truncateRunes(post.SelfText, maxSelfText)),
				Date:        time.Unix(int64(post.CreatedUTC), 0).UTC().Format(dateLayout),
			})
		}
	}
	return records, nil
}

func (r *RedditScanner) accept(post redditPost, city string, mustHave []string) bool {
	full := strings.ToLower(post.Title + " " + post.SelfText)
	if containsAny(full, spamKeywords) {
		return false
	}
	if !strings.Contains(full, strings.ToLower(city)) {
		return false
	}
	if !containsAny(full, mustHave) {
		return false
	}
	created := time.Unix(int64(post.CreatedUTC), 0).UTC()
	return r.minYear <= 0 || created.Year() >= r.minYear
}

func (r *RedditScanner) searchURL(query string) string {
	values := url.Values{}
	values.Set("q", query)
	values.Set("sort", "relevance")
	values.Set("t", "all")
	values.Set("limit", "25")
	return r.baseURL + "?" + values.Encode()
}

func (r *RedditScanner) debug(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Debug(msg, args...)
	}
}

func containsAny(text string, needles []string) bool {
	for _, n := range needles {
		if n != "" && strings.Contains(text, n) {
			return true
		}
	}
	return false
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, strings.ToLower(s))
	}
	return out
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
