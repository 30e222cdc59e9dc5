package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/mail-triage/internal/classifier"
	"github.com/jonesrussell/mail-triage/internal/config"
	"github.com/jonesrussell/mail-triage/internal/database"
	"github.com/jonesrussell/mail-triage/internal/domain"
	"github.com/jonesrussell/mail-triage/internal/processor"
	"github.com/jonesrussell/mail-triage/internal/provider"
	"github.com/jonesrussell/mail-triage/internal/telemetry"
)

// DefaultMaxBatchSize caps batch requests when the config does not set one.
const DefaultMaxBatchSize = 50

// providerHealthTimeout bounds each probe during GET /providers/health.
const providerHealthTimeout = 3 * time.Second

// Handler handles HTTP requests for the triage API
type Handler struct {
	engine       *classifier.Engine
	batch        *processor.BatchProcessor
	store        *config.Store
	providers    []provider.SignalProvider
	historyRepo  *database.HistoryRepository
	telemetry    *telemetry.Provider
	maxBatchSize int
	serviceName  string
	version      string
	logger       Logger
}

// Logger defines the logging interface
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// NewHandler creates a new API handler. historyRepo and telemetryProvider
// may be nil when those subsystems are disabled.
func NewHandler(
	engine *classifier.Engine,
	batch *processor.BatchProcessor,
	store *config.Store,
	providers []provider.SignalProvider,
	historyRepo *database.HistoryRepository,
	telemetryProvider *telemetry.Provider,
	maxBatchSize int,
	serviceName, version string,
	logger Logger,
) *Handler {
	if maxBatchSize <= 0 {
		maxBatchSize = DefaultMaxBatchSize
	}

	return &Handler{
		engine:       engine,
		batch:        batch,
		store:        store,
		providers:    providers,
		historyRepo:  historyRepo,
		telemetry:    telemetryProvider,
		maxBatchSize: maxBatchSize,
		serviceName:  serviceName,
		version:      version,
		logger:       logger,
	}
}

// Classify handles POST /api/v1/classify
func (h *Handler) Classify(c *gin.Context) {
	var req ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid classification request", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := req.Email.Validate(); err != nil {
		h.logger.Warn("Rejected email without usable text", "sender", req.Email.Sender)
		h.recordFailure(c.Request.Context(), err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.engine.Classify(c.Request.Context(), *req.Email)
	if err != nil {
		h.logger.Error("Classification failed", "error", err)
		h.recordFailure(c.Request.Context(), err)
		c.JSON(http.StatusInternalServerError, ClassifyResponse{
			Error: err.Error(),
		})
		return
	}

	h.recordHistory(c.Request.Context(), result)

	c.JSON(http.StatusOK, ClassifyResponse{
		Result: result,
	})
}

// ClassifyBatch handles POST /api/v1/classify/batch
func (h *Handler) ClassifyBatch(c *gin.Context) {
	var req BatchClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid batch classification request", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if len(req.Emails) > h.maxBatchSize {
		h.logger.Warn("Batch too large", "batch_size", len(req.Emails), "max", h.maxBatchSize)
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("batch size %d exceeds maximum %d", len(req.Emails), h.maxBatchSize),
		})
		return
	}

	if h.telemetry != nil {
		h.telemetry.RecordBatchSize(len(req.Emails))
	}

	results := h.batch.Process(c.Request.Context(), req.Emails)
	items, success, failed := h.toBatchResults(c.Request.Context(), results)

	h.logger.Info("Batch classification completed",
		"total", len(results),
		"success", success,
		"failed", failed,
	)

	c.JSON(http.StatusOK, BatchClassifyResponse{
		Results: items,
		Total:   len(results),
		Success: success,
		Failed:  failed,
	})
}

// toBatchResults converts processor results into response items and records
// each outcome.
func (h *Handler) toBatchResults(ctx context.Context, results []processor.ProcessResult) (items []BatchItemResult, success, failed int) {
	items = make([]BatchItemResult, len(results))
	for i, res := range results {
		items[i] = BatchItemResult{Index: i}
		if res.Err != nil {
			items[i].Error = res.Err.Error()
			h.recordFailure(ctx, res.Err)
			continue
		}
		items[i].Result = res.Result
		success++
		h.recordHistory(ctx, res.Result)
	}
	return items, success, len(results) - success
}

// ReloadConfig handles POST /api/v1/config/reload
func (h *Handler) ReloadConfig(c *gin.Context) {
	h.logger.Info("Reloading classification snapshot")

	diff, err := h.store.Reload()
	if err != nil {
		h.logger.Error("Snapshot reload rejected", "error", err)
		if h.telemetry != nil {
			h.telemetry.RecordSnapshotReload(c.Request.Context(), false)
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.engine.UpdateSnapshot(h.store.Active())
	if h.telemetry != nil {
		h.telemetry.RecordSnapshotReload(c.Request.Context(), true)
	}

	c.JSON(http.StatusOK, toReloadResponse(diff))
}

// GetProvidersHealth handles GET /api/v1/providers/health
func (h *Handler) GetProvidersHealth(c *gin.Context) {
	resp := ProvidersHealthResponse{
		Providers: make([]ProviderHealth, 0, len(h.providers)),
	}

	for _, p := range h.providers {
		probeCtx, cancel := context.WithTimeout(c.Request.Context(), providerHealthTimeout)
		health, err := p.Health(probeCtx)
		cancel()

		item := ProviderHealth{
			Name:         p.Name(),
			Reachable:    health.Reachable,
			LatencyMs:    health.LatencyMs,
			ModelVersion: health.ModelVersion,
		}
		if err != nil {
			item.Error = err.Error()
		}
		resp.Providers = append(resp.Providers, item)
	}

	c.JSON(http.StatusOK, resp)
}

// GetStats handles GET /api/v1/stats
func (h *Handler) GetStats(c *gin.Context) {
	h.logger.Debug("Getting classification stats")

	if h.historyRepo == nil {
		c.JSON(http.StatusOK, emptyStats())
		return
	}

	stats, err := h.historyRepo.GetStats(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to get stats", "error", err)
		// Return empty stats instead of an error to avoid breaking dashboards
		c.JSON(http.StatusOK, emptyStats())
		return
	}

	c.JSON(http.StatusOK, stats)
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": h.serviceName,
		"version": h.version,
	})
}

// ReadyCheck handles GET /ready
func (h *Handler) ReadyCheck(c *gin.Context) {
	checks := gin.H{"snapshot": h.engine.SnapshotVersion()}

	status := http.StatusOK
	ready := "ready"

	if h.historyRepo == nil {
		checks["database"] = "disabled"
	} else if err := h.historyRepo.Ping(c.Request.Context()); err != nil {
		h.logger.Error("Readiness database check failed", "error", err)
		checks["database"] = "unreachable"
		status = http.StatusServiceUnavailable
		ready = "not_ready"
	} else {
		checks["database"] = "ok"
	}

	c.JSON(status, gin.H{"status": ready, "checks": checks})
}

// recordHistory persists a successful classification when history is enabled.
func (h *Handler) recordHistory(ctx context.Context, result *domain.ClassificationResult) {
	if h.historyRepo == nil {
		return
	}
	if err := h.historyRepo.Create(ctx, database.NewHistoryRecord(result)); err != nil {
		h.logger.Warn("Failed to record classification history", "error", err)
	}
}

// recordFailure counts a failed classification and, for engine failures,
// persists a failure record. Invalid input is counted but not persisted.
func (h *Handler) recordFailure(ctx context.Context, classifyErr error) {
	code := "internal"
	switch {
	case errors.Is(classifyErr, domain.ErrInvalidInput):
		code = "invalid_input"
	case errors.Is(classifyErr, context.Canceled), errors.Is(classifyErr, context.DeadlineExceeded):
		code = "canceled"
	}

	if h.telemetry != nil {
		h.telemetry.RecordClassificationFailure(ctx, code)
	}
	if code == "invalid_input" || h.historyRepo == nil {
		return
	}

	// The request context may already be canceled when we get here.
	persistCtx := context.WithoutCancel(ctx)
	if err := h.historyRepo.Create(persistCtx, database.NewFailedHistoryRecord(classifyErr)); err != nil {
		h.logger.Warn("Failed to record classification failure", "error", err)
	}
}

func emptyStats() *database.Stats {
	return &database.Stats{
		UrgencyCounts:    map[string]int{},
		DepartmentCounts: map[string]int{},
	}
}
