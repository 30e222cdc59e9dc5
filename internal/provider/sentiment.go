package provider

import (
	"context"
	"fmt"
	"time"
)

// Sentiment is the client for the sentiment analysis sidecar. It returns
// polarity scores keyed "negative", "neutral", "positive".
type Sentiment struct {
	client
}

// sentimentRequest is the request body for POST /classify.
type sentimentRequest struct {
	Text string `json:"text"`
}

// sentimentResponse is the response body from /classify.
type sentimentResponse struct {
	Scores       map[string]float64 `json:"scores"`
	ModelVersion string             `json:"model_version"`
}

// NewSentiment creates a sentiment client for the given sidecar URL.
func NewSentiment(baseURL string, timeout time.Duration) *Sentiment {
	return &Sentiment{client: newClient("sentiment", baseURL, timeout)}
}

// Classify returns the sidecar's polarity scores. Candidate labels are
// ignored; the sentiment model has a fixed label set.
func (s *Sentiment) Classify(ctx context.Context, text string, _ []string) (map[string]float64, error) {
	req := &sentimentRequest{Text: text}
	var resp sentimentResponse
	if err := doClassify(ctx, s.http, s.baseURL, req, &resp); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if resp.Scores == nil {
		return nil, fmt.Errorf("%w: response missing scores", ErrUnavailable)
	}
	return resp.Scores, nil
}
