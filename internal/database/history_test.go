package database_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/mail-triage/internal/database"
	"github.com/jonesrussell/mail-triage/internal/domain"
)

func newTestRepository(t *testing.T) *database.HistoryRepository {
	t.Helper()

	db, err := database.Connect(database.Config{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "history.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := database.NewHistoryRepository(db)
	require.NoError(t, repo.EnsureSchema(context.Background()))

	return repo
}

func TestConnect_UnsupportedDriver(t *testing.T) {
	_, err := database.Connect(database.Config{Driver: "oracle"})

	require.Error(t, err)
	require.Contains(t, err.Error(), "unsupported database driver")
}

func TestHistoryRepository_EnsureSchema_Idempotent(t *testing.T) {
	repo := newTestRepository(t)

	require.NoError(t, repo.EnsureSchema(context.Background()))
}

func TestHistoryRepository_CreateAndGetStats(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	records := []*database.HistoryRecord{
		{
			Status:               database.StatusClassified,
			Urgency:              domain.UrgencyCritical,
			UrgencyConfidence:    0.92,
			Department:           domain.DepartmentTechnical,
			DepartmentConfidence: 0.88,
			EscalationApplied:    true,
			OverallConfidence:    0.9,
			SignalsUsed:          "sentiment,topic",
			ConfigVersion:        "builtin-v1",
			ProcessingTimeMs:     12,
			ClassifiedAt:         time.Now().UTC(),
		},
		{
			Status:               database.StatusClassified,
			Urgency:              domain.UrgencyHigh,
			UrgencyConfidence:    0.75,
			Department:           domain.DepartmentTechnical,
			DepartmentConfidence: 0.65,
			OverallConfidence:    0.7,
			ConfigVersion:        "builtin-v1",
			ProcessingTimeMs:     8,
			ClassifiedAt:         time.Now().UTC(),
		},
		{
			Status:               database.StatusClassified,
			Urgency:              domain.UrgencyLow,
			UrgencyConfidence:    0.45,
			Department:           domain.DepartmentBilling,
			DepartmentConfidence: 0.55,
			OverallConfidence:    0.5,
			ConfigVersion:        "builtin-v1",
			ProcessingTimeMs:     4,
			ClassifiedAt:         time.Now().UTC(),
		},
	}
	for _, rec := range records {
		require.NoError(t, repo.Create(ctx, rec))
	}
	require.NoError(t, repo.Create(ctx, database.NewFailedHistoryRecord(context.DeadlineExceeded)))

	stats, err := repo.GetStats(ctx)
	require.NoError(t, err)

	require.Equal(t, 3, stats.TotalClassified)
	require.Equal(t, 1, stats.TotalFailed)
	require.Equal(t, 1, stats.EscalationsApplied)
	require.InDelta(t, 0.7, stats.AvgOverallConfidence, 1e-9)
	require.InDelta(t, 8.0, stats.AvgProcessingTimeMs, 1e-9)

	require.Equal(t, map[string]int{
		domain.UrgencyCritical: 1,
		domain.UrgencyHigh:     1,
		domain.UrgencyLow:      1,
	}, stats.UrgencyCounts)
	require.Equal(t, map[string]int{
		domain.DepartmentTechnical: 2,
		domain.DepartmentBilling:   1,
	}, stats.DepartmentCounts)
}

func TestHistoryRepository_GetStats_Empty(t *testing.T) {
	repo := newTestRepository(t)

	stats, err := repo.GetStats(context.Background())
	require.NoError(t, err)

	require.Equal(t, 0, stats.TotalClassified)
	require.Equal(t, 0, stats.TotalFailed)
	require.Equal(t, 0, stats.EscalationsApplied)
	require.Zero(t, stats.AvgOverallConfidence)
	require.Zero(t, stats.AvgProcessingTimeMs)
	require.Empty(t, stats.UrgencyCounts)
	require.Empty(t, stats.DepartmentCounts)
}

func TestNewHistoryRecord(t *testing.T) {
	classifiedAt := time.Date(2025, 11, 3, 15, 4, 5, 0, time.UTC)
	result := &domain.ClassificationResult{
		Urgency:              domain.UrgencyHigh,
		UrgencyConfidence:    0.8,
		Department:           domain.DepartmentBilling,
		DepartmentConfidence: 0.9,
		EscalationApplied:    true,
		OverallConfidence:    0.85,
		SignalsUsed:          []string{"sentiment", "topic"},
		ConfigVersion:        "builtin-v1",
		ProcessingTimeMs:     6,
		ClassifiedAt:         classifiedAt,
	}

	rec := database.NewHistoryRecord(result)

	require.Equal(t, database.StatusClassified, rec.Status)
	require.Equal(t, domain.UrgencyHigh, rec.Urgency)
	require.Equal(t, "sentiment,topic", rec.SignalsUsed)
	require.Equal(t, classifiedAt, rec.ClassifiedAt)
	require.Empty(t, rec.ErrorDetail)
}

func TestNewFailedHistoryRecord(t *testing.T) {
	rec := database.NewFailedHistoryRecord(errors.New("classification failed: context canceled"))

	require.Equal(t, database.StatusFailed, rec.Status)
	require.Equal(t, "classification failed: context canceled", rec.ErrorDetail)
	require.Empty(t, rec.Urgency)
	require.False(t, rec.ClassifiedAt.IsZero())
}
