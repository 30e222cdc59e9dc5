package provider

import (
	"context"
	"fmt"
	"time"
)

// Emotion is the client for the emotion detection sidecar. It returns
// scores for emotion labels such as "anger", "fear", and "joy".
type Emotion struct {
	client
}

// emotionRequest is the request body for POST /classify.
type emotionRequest struct {
	Text string `json:"text"`
}

// emotionResponse is the response body from /classify.
type emotionResponse struct {
	Scores       map[string]float64 `json:"scores"`
	ModelVersion string             `json:"model_version"`
}

// NewEmotion creates an emotion client for the given sidecar URL.
func NewEmotion(baseURL string, timeout time.Duration) *Emotion {
	return &Emotion{client: newClient("emotion", baseURL, timeout)}
}

// Classify returns the sidecar's emotion scores. Candidate labels are
// ignored; the emotion model has a fixed label set.
func (e *Emotion) Classify(ctx context.Context, text string, _ []string) (map[string]float64, error) {
	req := &emotionRequest{Text: text}
	var resp emotionResponse
	if err := doClassify(ctx, e.http, e.baseURL, req, &resp); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if resp.Scores == nil {
		return nil, fmt.Errorf("%w: response missing scores", ErrUnavailable)
	}
	return resp.Scores, nil
}
