package api

import (
	"github.com/jonesrussell/mail-triage/internal/config"
	"github.com/jonesrussell/mail-triage/internal/domain"
)

// ClassifyRequest represents a single classification request.
type ClassifyRequest struct {
	Email *domain.EmailInput `json:"email" binding:"required"`
}

// ClassifyResponse represents a classification response.
type ClassifyResponse struct {
	Result *domain.ClassificationResult `json:"result"`
	Error  string                       `json:"error,omitempty"`
}

// BatchClassifyRequest represents a batch classification request.
type BatchClassifyRequest struct {
	Emails []domain.EmailInput `json:"emails" binding:"required,min=1"`
}

// BatchItemResult is the outcome for one batch slot, index-aligned with
// the request array.
type BatchItemResult struct {
	Index  int                          `json:"index"`
	Result *domain.ClassificationResult `json:"result,omitempty"`
	Error  string                       `json:"error,omitempty"`
}

// BatchClassifyResponse represents a batch classification response.
type BatchClassifyResponse struct {
	Results []BatchItemResult `json:"results"`
	Total   int               `json:"total"`
	Success int               `json:"success"`
	Failed  int               `json:"failed"`
}

// ReloadResponse reports the outcome of a snapshot reload.
type ReloadResponse struct {
	Status     string   `json:"status"` // "applied" or "unchanged"
	OldVersion string   `json:"old_version"`
	NewVersion string   `json:"new_version"`
	Changed    []string `json:"changed"`
}

// toReloadResponse converts a snapshot diff to an API response.
func toReloadResponse(diff *config.Diff) ReloadResponse {
	status := "applied"
	if diff.Empty() {
		status = "unchanged"
	}
	return ReloadResponse{
		Status:     status,
		OldVersion: diff.OldVersion,
		NewVersion: diff.NewVersion,
		Changed:    diff.Changed,
	}
}

// ProviderHealth is one provider's reachability report.
type ProviderHealth struct {
	Name         string `json:"name"`
	Reachable    bool   `json:"reachable"`
	LatencyMs    int64  `json:"latency_ms"`
	ModelVersion string `json:"model_version,omitempty"`
	Error        string `json:"error,omitempty"`
}

// ProvidersHealthResponse lists the health of all configured providers.
type ProvidersHealthResponse struct {
	Providers []ProviderHealth `json:"providers"`
}
