package ml

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"AirportSentiment/internal/ports"
)

var ErrLabels = errors.New("response labels do not match configured labels")

// Client talks to an external text-classification service. The service
// receives {"inputs": text} and answers with label scores.
type Client struct {
	name     string
	endpoint string
	apiKey   string
	labels   []string
	http     *http.Client
}

var _ ports.Classifier = (*Client)(nil)

// NewClient creates a reusable HTTP client. Labels define the order of the
// returned distribution.
func NewClient(name, endpoint, apiKey string, labels []string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		name:     name,
		endpoint: endpoint,
		apiKey:   apiKey,
		labels:   labels,
		http:     &http.Client{Timeout: timeout},
	}
}

func (c *Client) Name() string {
	return c.name
}

type labelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Classify returns the probabilities in configured label order.
func (c *Client) Classify(ctx context.Context, text string) ([]float64, error) {
	var raw json.RawMessage
	if err := c.post(ctx, map[string]any{"inputs": text}, &raw); err != nil {
		return nil, err
	}
	return c.decode(raw)
}

// decode accepts [{label, score}], [[{label, score}]] or {"probabilities": [...]}.
func (c *Client) decode(raw json.RawMessage) ([]float64, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty response")
	}

	if trimmed[0] == '{' {
		var resp struct {
			Probabilities []float64 `json:"probabilities"`
		}
		if err := json.Unmarshal(trimmed, &resp); err != nil {
			return nil, fmt.Errorf("decode probabilities: %w", err)
		}
		return resp.Probabilities, nil
	}

	var scores []labelScore
	if err := json.Unmarshal(trimmed, &scores); err != nil {
		var nested [][]labelScore
		if nestedErr := json.Unmarshal(trimmed, &nested); nestedErr != nil || len(nested) == 0 {
			return nil, fmt.Errorf("decode label scores: %w", err)
		}
		scores = nested[0]
	}
	return c.order(scores)
}

func (c *Client) order(scores []labelScore) ([]float64, error) {
	if len(c.labels) == 0 {
		out := make([]float64, len(scores))
		for i, s := range scores {
			out[i] = s.Score
		}
		return out, nil
	}

	byLabel := make(map[string]float64, len(scores))
	for _, s := range scores {
		byLabel[strings.ToLower(strings.TrimSpace(s.Label))] = s.Score
	}

	out := make([]float64, len(c.labels))
	for i, label := range c.labels {
		v, ok := byLabel[strings.ToLower(label)]
		if !ok {
			return nil, fmt.Errorf("%w: missing %q", ErrLabels, label)
		}
		out[i] = v
	}
	return out, nil
}

func (c *Client) post(ctx context.Context, payload any, v any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		closeErr := resp.Body.Close()
		if closeErr != nil {
			return fmt.Errorf("unexpected status %s, close body: %v", resp.Status, closeErr)
		}
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		_ = resp.Body.Close()
		return fmt.Errorf("decode response: %w", err)
	}

	if err := resp.Body.Close(); err != nil {
		return fmt.Errorf("close response body: %w", err)
	}

	return nil
}
