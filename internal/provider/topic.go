package provider

import (
	"context"
	"fmt"
	"time"
)

// Topic is the client for the zero-shot topic sidecar. Unlike the fixed
// sentiment and emotion models, it scores whatever candidate labels the
// active snapshot routes on.
type Topic struct {
	client
}

// topicRequest is the request body for POST /classify.
type topicRequest struct {
	Text            string   `json:"text"`
	CandidateLabels []string `json:"candidate_labels"`
}

// topicResponse is the response body from /classify. Labels and scores
// are parallel arrays sorted by descending score.
type topicResponse struct {
	Labels       []string  `json:"labels"`
	Scores       []float64 `json:"scores"`
	ModelVersion string    `json:"model_version"`
}

// NewTopic creates a topic client for the given sidecar URL.
func NewTopic(baseURL string, timeout time.Duration) *Topic {
	return &Topic{client: newClient("topic", baseURL, timeout)}
}

// Classify scores the candidate labels against the text and returns them
// as a label score map.
func (t *Topic) Classify(ctx context.Context, text string, candidateLabels []string) (map[string]float64, error) {
	req := &topicRequest{Text: text, CandidateLabels: candidateLabels}
	var resp topicResponse
	if err := doClassify(ctx, t.http, t.baseURL, req, &resp); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if len(resp.Labels) != len(resp.Scores) {
		return nil, fmt.Errorf("%w: %d labels but %d scores in response", ErrUnavailable, len(resp.Labels), len(resp.Scores))
	}
	if len(resp.Labels) == 0 {
		return nil, fmt.Errorf("%w: response missing scores", ErrUnavailable)
	}

	scores := make(map[string]float64, len(resp.Labels))
	for i, label := range resp.Labels {
		scores[label] = resp.Scores[i]
	}
	return scores, nil
}
