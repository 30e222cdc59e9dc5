package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/mail-triage/internal/domain"
)

// History record statuses.
const (
	StatusClassified = "classified"
	StatusFailed     = "failed"
)

// HistoryRecord is one persisted classification outcome.
type HistoryRecord struct {
	ID                   int64     `db:"id"`
	Status               string    `db:"status"`
	Urgency              string    `db:"urgency"`
	UrgencyConfidence    float64   `db:"urgency_confidence"`
	Department           string    `db:"department"`
	DepartmentConfidence float64   `db:"department_confidence"`
	EscalationApplied    bool      `db:"escalation_applied"`
	OverallConfidence    float64   `db:"overall_confidence"`
	SignalsUsed          string    `db:"signals_used"` // comma-separated provider names
	ConfigVersion        string    `db:"config_version"`
	ProcessingTimeMs     int64     `db:"processing_time_ms"`
	ErrorDetail          string    `db:"error_detail"`
	ClassifiedAt         time.Time `db:"classified_at"`
}

// NewHistoryRecord flattens a classification result for persistence.
func NewHistoryRecord(result *domain.ClassificationResult) *HistoryRecord {
	return &HistoryRecord{
		Status:               StatusClassified,
		Urgency:              result.Urgency,
		UrgencyConfidence:    result.UrgencyConfidence,
		Department:           result.Department,
		DepartmentConfidence: result.DepartmentConfidence,
		EscalationApplied:    result.EscalationApplied,
		OverallConfidence:    result.OverallConfidence,
		SignalsUsed:          strings.Join(result.SignalsUsed, ","),
		ConfigVersion:        result.ConfigVersion,
		ProcessingTimeMs:     result.ProcessingTimeMs,
		ClassifiedAt:         result.ClassifiedAt,
	}
}

// NewFailedHistoryRecord records a classification attempt that returned
// an error instead of a result.
func NewFailedHistoryRecord(classifyErr error) *HistoryRecord {
	return &HistoryRecord{
		Status:       StatusFailed,
		ErrorDetail:  classifyErr.Error(),
		ClassifiedAt: time.Now().UTC(),
	}
}

const historySchemaPostgres = `
CREATE TABLE IF NOT EXISTS classification_history (
	id BIGSERIAL PRIMARY KEY,
	status TEXT NOT NULL,
	urgency TEXT NOT NULL DEFAULT '',
	urgency_confidence DOUBLE PRECISION NOT NULL DEFAULT 0,
	department TEXT NOT NULL DEFAULT '',
	department_confidence DOUBLE PRECISION NOT NULL DEFAULT 0,
	escalation_applied BOOLEAN NOT NULL DEFAULT FALSE,
	overall_confidence DOUBLE PRECISION NOT NULL DEFAULT 0,
	signals_used TEXT NOT NULL DEFAULT '',
	config_version TEXT NOT NULL DEFAULT '',
	processing_time_ms BIGINT NOT NULL DEFAULT 0,
	error_detail TEXT NOT NULL DEFAULT '',
	classified_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_classification_history_classified_at
	ON classification_history (classified_at);
`

const historySchemaSQLite = `
CREATE TABLE IF NOT EXISTS classification_history (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	status TEXT NOT NULL,
	urgency TEXT NOT NULL DEFAULT '',
	urgency_confidence REAL NOT NULL DEFAULT 0,
	department TEXT NOT NULL DEFAULT '',
	department_confidence REAL NOT NULL DEFAULT 0,
	escalation_applied BOOLEAN NOT NULL DEFAULT 0,
	overall_confidence REAL NOT NULL DEFAULT 0,
	signals_used TEXT NOT NULL DEFAULT '',
	config_version TEXT NOT NULL DEFAULT '',
	processing_time_ms INTEGER NOT NULL DEFAULT 0,
	error_detail TEXT NOT NULL DEFAULT '',
	classified_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_classification_history_classified_at
	ON classification_history (classified_at);
`

// HistoryRepository handles database operations for classification history.
type HistoryRepository struct {
	db *sqlx.DB
}

// NewHistoryRepository creates a new classification history repository.
func NewHistoryRepository(db *sqlx.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Ping verifies the underlying database connection.
func (r *HistoryRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// EnsureSchema creates the history table when it does not exist yet.
func (r *HistoryRepository) EnsureSchema(ctx context.Context) error {
	schema := historySchemaPostgres
	if r.db.DriverName() == DriverSQLite {
		schema = historySchemaSQLite
	}

	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create classification history schema: %w", err)
	}
	return nil
}

// Create inserts a new classification history record.
func (r *HistoryRepository) Create(ctx context.Context, rec *HistoryRecord) error {
	query := r.db.Rebind(`
		INSERT INTO classification_history (
			status, urgency, urgency_confidence, department, department_confidence,
			escalation_applied, overall_confidence, signals_used, config_version,
			processing_time_ms, error_detail, classified_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)

	_, err := r.db.ExecContext(
		ctx,
		query,
		rec.Status,
		rec.Urgency,
		rec.UrgencyConfidence,
		rec.Department,
		rec.DepartmentConfidence,
		rec.EscalationApplied,
		rec.OverallConfidence,
		rec.SignalsUsed,
		rec.ConfigVersion,
		rec.ProcessingTimeMs,
		rec.ErrorDetail,
		rec.ClassifiedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create classification history: %w", err)
	}

	return nil
}

// Stats represents overall classification statistics.
type Stats struct {
	TotalClassified      int            `json:"total_classified"`
	TotalFailed          int            `json:"total_failed"`
	EscalationsApplied   int            `json:"escalations_applied"`
	AvgOverallConfidence float64        `json:"avg_overall_confidence"`
	AvgProcessingTimeMs  float64        `json:"avg_processing_time_ms"`
	UrgencyCounts        map[string]int `json:"urgency_counts"`
	DepartmentCounts     map[string]int `json:"department_counts"`
}

// labelCount is one row of a GROUP BY label aggregation.
type labelCount struct {
	Label string `db:"label"`
	Count int    `db:"count"`
}

// GetStats retrieves overall classification statistics.
func (r *HistoryRepository) GetStats(ctx context.Context) (*Stats, error) {
	var totals struct {
		TotalClassified      int     `db:"total_classified"`
		TotalFailed          int     `db:"total_failed"`
		EscalationsApplied   int     `db:"escalations_applied"`
		AvgOverallConfidence float64 `db:"avg_overall_confidence"`
		AvgProcessingTimeMs  float64 `db:"avg_processing_time_ms"`
	}

	query := `
		SELECT
			COALESCE(SUM(CASE WHEN status = 'classified' THEN 1 ELSE 0 END), 0) AS total_classified,
			COALESCE(SUM(CASE WHEN status = 'failed' THEN 1 ELSE 0 END), 0) AS total_failed,
			COALESCE(SUM(CASE WHEN escalation_applied THEN 1 ELSE 0 END), 0) AS escalations_applied,
			COALESCE(AVG(CASE WHEN status = 'classified' THEN overall_confidence END), 0) AS avg_overall_confidence,
			COALESCE(AVG(CASE WHEN status = 'classified' THEN processing_time_ms END), 0) AS avg_processing_time_ms
		FROM classification_history
	`

	if err := r.db.GetContext(ctx, &totals, query); err != nil {
		return nil, fmt.Errorf("failed to get classification stats: %w", err)
	}

	stats := &Stats{
		TotalClassified:      totals.TotalClassified,
		TotalFailed:          totals.TotalFailed,
		EscalationsApplied:   totals.EscalationsApplied,
		AvgOverallConfidence: totals.AvgOverallConfidence,
		AvgProcessingTimeMs:  totals.AvgProcessingTimeMs,
	}

	var err error
	stats.UrgencyCounts, err = r.labelDistribution(ctx, "urgency")
	if err != nil {
		return nil, err
	}
	stats.DepartmentCounts, err = r.labelDistribution(ctx, "department")
	if err != nil {
		return nil, err
	}

	return stats, nil
}

// labelDistribution aggregates classified rows per label on one axis.
// column is always one of the fixed axis column names, never user input.
func (r *HistoryRepository) labelDistribution(ctx context.Context, column string) (map[string]int, error) {
	query := fmt.Sprintf(`
		SELECT %s AS label, COUNT(*) AS count
		FROM classification_history
		WHERE status = 'classified'
		GROUP BY %s
	`, column, column)

	var rows []labelCount
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to get %s distribution: %w", column, err)
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Label] = row.Count
	}
	return counts, nil
}
