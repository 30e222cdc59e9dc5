package domain

import "time"

// Urgency labels, from highest to lowest priority.
const (
	UrgencyCritical = "critical"
	UrgencyHigh     = "high"
	UrgencyMedium   = "medium"
	UrgencyLow      = "low"
)

// Department labels.
const (
	DepartmentTechnical = "technical"
	DepartmentBilling   = "billing"
	DepartmentSales     = "sales"
	DepartmentSupport   = "support"
)

// Classification axes.
const (
	AxisUrgency    = "urgency"
	AxisDepartment = "department"
)

// ClassificationResult represents the outcome of classifying one email.
// Results are immutable once returned; persistence is the caller's concern.
type ClassificationResult struct {
	// Urgency axis
	Urgency           string  `json:"urgency"`            // "critical", "high", "medium", "low"
	UrgencyConfidence float64 `json:"urgency_confidence"` // 0.0-1.0

	// Department axis
	Department           string  `json:"department"`            // "technical", "billing", "sales", "support"
	DepartmentConfidence float64 `json:"department_confidence"` // 0.0-1.0

	// Cross-axis escalation
	EscalationApplied bool `json:"escalation_applied"`

	// Aggregate metadata
	OverallConfidence float64  `json:"overall_confidence"` // 0.0-1.0
	SignalsUsed       []string `json:"signals_used"`       // provider names that contributed, e.g. ["sentiment", "topic"]

	ConfigVersion    string    `json:"config_version"`
	ProcessingTimeMs int64     `json:"processing_time_ms"`
	ClassifiedAt     time.Time `json:"classified_at"`
}
