package parser

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"AirportSentiment/internal/domain"
	"AirportSentiment/internal/scanner"
	"AirportSentiment/internal/weighting"
)

const skytraxBaseURL = "https://www.airlinequality.com/airport-reviews"

var verifiedPrefixes = []string{"✅ Trip Verified |", "Not Verified |", "cTrip Verified |", "Trip Verified |"}

// SkytraxScanner walks the newest-first review pages of an airport.
type SkytraxScanner struct {
	fetcher *Fetcher
	baseURL string
	slugs   map[string]string
	minYear int
}

// NewSkytraxScanner maps airport idents (or ICAO/IATA codes) to review page slugs.
func NewSkytraxScanner(fetcher *Fetcher, slugs map[string]string, minYear int) *SkytraxScanner {
	return &SkytraxScanner{
		fetcher: fetcher,
		baseURL: skytraxBaseURL,
		slugs:   slugs,
		minYear: minYear,
	}
}

func (s *SkytraxScanner) Name() string {
	return "skytrax"
}

// Scan returns every review of the airport published in or after the minimum
// year. Airports without a slug yield nothing.
func (s *SkytraxScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.TextRecord, error) {
	slug := s.slugFor(req.Airport)
	if slug == "" {
		return nil, nil
	}

	var records []domain.TextRecord
	for page := 1; ; page++ {
		body, err := s.fetcher.Get(ctx, s.pageURL(slug, page))
		if err != nil {
			var status *StatusError
			if errors.As(err, &status) {
				break
			}
			return records, fmt.Errorf("skytrax %s page %d: %w", slug, page, err)
		}

		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
		if err != nil {
			return records, fmt.Errorf("parse skytrax page: %w", err)
		}

		pageRecords, more := s.extractReviews(doc, req)
		records = append(records, pageRecords...)
		if !more {
			break
		}
	}
	return records, nil
}

func (s *SkytraxScanner) slugFor(a domain.Airport) string {
	for _, key := range []string{a.Ident, a.ICAOCode, a.IATACode} {
		if key == "" {
			continue
		}
		if slug := s.slugs[strings.ToUpper(key)]; slug != "" {
			return slug
		}
	}
	return ""
}

func (s *SkytraxScanner) pageURL(slug string, page int) string {
	return fmt.Sprintf("%s/%s/page/%d/?sortby=post_date%%3ADesc&pagesize=100", strings.TrimSuffix(s.baseURL, "/"), slug, page)
}

// extractReviews reports false once the page is empty or a review is older
// than the minimum year.
func (s *SkytraxScanner) extractReviews(doc *goquery.Document, req scanner.Request) ([]domain.TextRecord, bool) {
	reviews := doc.Find(`article[itemprop="review"]`)
	if reviews.Length() == 0 {
		reviews = doc.Find("article.comp_media-review-rated")
	}
	if reviews.Length() == 0 {
		return nil, false
	}

	var (
		collected []domain.TextRecord
		more      = true
	)
	reviews.EachWithBreak(func(_ int, review *goquery.Selection) bool {
		record, year := parseReview(review, req)
		if year > 0 && year < s.minYear {
			more = false
			return false
		}
		if record.Text != "" {
			collected = append(collected, record)
		}
		return true
	})
	return collected, more
}

func parseReview(review *goquery.Selection, req scanner.Request) (domain.TextRecord, int) {
	date, _ := review.Find(`time[itemprop="datePublished"]`).First().Attr("datetime")
	date = strings.TrimSpace(date)

	year := 0
	if t, ok := weighting.ParseDate(date); ok {
		year = t.Year()
	}

	title := strings.TrimSpace(review.Find("h2.text_header").First().Text())
	body := strings.TrimSpace(review.Find("div.text_content").First().Text())
	for _, prefix := range verifiedPrefixes {
		body = strings.ReplaceAll(body, prefix, "")
	}
	body = strings.TrimSpace(body)

	text := body
	if title != "" {
		text = strings.TrimSpace(title + ". " + body)
	}

	return domain.TextRecord{
		AirportCode: req.Airport.Code(),
		City:        req.City,
		Source:      domain.SourceSkytrax,
		Text:        text,
		Date:        date,
	}, year
}
