// Package provider contains HTTP clients for the external ML signal
// services consulted during classification: sentiment, emotion, and
// zero-shot topic. Each client implements SignalProvider; the engine
// treats a failed provider as a missing signal, never as a failed
// classification.
package provider

import (
	"context"
	"errors"
)

// ErrUnavailable indicates a signal provider could not be reached or
// returned an unusable response.
var ErrUnavailable = errors.New("signal provider unavailable")

// Health is the reachability report for one provider endpoint.
type Health struct {
	Reachable    bool   `json:"reachable"`
	LatencyMs    int64  `json:"latency_ms"`
	ModelVersion string `json:"model_version,omitempty"`
}

// SignalProvider is one external ML service.
//
// Classify returns the provider's label scores in [0, 1] for the given
// text. candidateLabels is forwarded by zero-shot providers and ignored
// by the rest. A nil score map is only valid together with a non-nil
// error.
type SignalProvider interface {
	Name() string
	Classify(ctx context.Context, text string, candidateLabels []string) (map[string]float64, error)
	Health(ctx context.Context) (Health, error)
}
