package parser

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"AirportSentiment/internal/scanner"
)

const defaultUserAgent = "AirportSentiment/1.0"

// StatusError reports a non-retryable HTTP status.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned %d", e.URL, e.Code)
}

// Fetcher performs rate limited GET requests with retries. Network errors and
// 403/429/503 responses are retried with linear backoff; when retries run out
// the error wraps scanner.ErrUnavailable.
type Fetcher struct {
	client    *http.Client
	limiter   *rate.Limiter
	userAgent string
	retries   int
	backoff   time.Duration
}

// FetcherOptions tune a Fetcher. A nil limiter disables rate limiting.
type FetcherOptions struct {
	Limiter   *rate.Limiter
	UserAgent string
	Retries   int
	Backoff   time.Duration
}

// NewFetcher wires an HTTP client; retries default to 3.
func NewFetcher(client *http.Client, opts FetcherOptions) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	f := &Fetcher{
		client:    client,
		limiter:   opts.Limiter,
		userAgent: opts.UserAgent,
		retries:   opts.Retries,
		backoff:   opts.Backoff,
	}
	if f.userAgent == "" {
		f.userAgent = defaultUserAgent
	}
	if f.retries <= 0 {
		f.retries = 3
	}
	return f
}

// NewLimiter builds the limiter shared by every scanner of a run.
func NewLimiter(rps float64, burst int) *rate.Limiter {
	if rps <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}

// Get returns the body of a 200 response.
func (f *Fetcher) Get(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= f.retries; attempt++ {
		if f.limiter != nil {
			if err := f.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		body, retry, err := f.do(ctx, url)
		if err == nil {
			return body, nil
		}
		if !retry {
			return nil, err
		}
		lastErr = err

		if attempt < f.retries {
			if err := sleep(ctx, time.Duration(attempt)*f.backoff); err != nil {
				return nil, err
			}
		}
	}
	return nil, fmt.Errorf("%w: %s after %d attempts: %v", scanner.ErrUnavailable, url, f.retries, lastErr)
}

func (f *Fetcher) do(ctx context.Context, url string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, ctx.Err()
		}
		return nil, true, fmt.Errorf("request %s: %w", url, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusTooManyRequests, http.StatusForbidden, http.StatusServiceUnavailable:
		return nil, true, &StatusError{URL: url, Code: resp.StatusCode}
	default:
		return nil, false, &StatusError{URL: url, Code: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("read %s: %w", url, err)
	}
	return body, false, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
