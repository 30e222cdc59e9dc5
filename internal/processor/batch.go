package processor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jonesrussell/mail-triage/internal/domain"
)

// DefaultConcurrency bounds the worker pool when the config does not set one.
const DefaultConcurrency = 10

// Classifier is the part of the engine the processor needs.
type Classifier interface {
	Classify(ctx context.Context, email domain.EmailInput) (*domain.ClassificationResult, error)
}

// Logger defines the logging interface
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// ProcessResult holds the outcome for a single email. Exactly one of
// Result and Err is set.
type ProcessResult struct {
	Email  domain.EmailInput
	Result *domain.ClassificationResult
	Err    error
}

// BatchProcessor classifies batches of emails on a bounded worker pool.
// Results keep input order, and a failing item only fails its own slot.
type BatchProcessor struct {
	classifier  Classifier
	concurrency int
	logger      Logger
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(classifier Classifier, concurrency int, logger Logger) *BatchProcessor {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	return &BatchProcessor{
		classifier:  classifier,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Concurrency returns the worker pool size.
func (b *BatchProcessor) Concurrency() int {
	return b.concurrency
}

// Process classifies every email in the batch and returns one result per
// input, in input order. Workers pull indices from the jobs channel and
// write into their own slot, so no reordering pass is needed.
func (b *BatchProcessor) Process(ctx context.Context, emails []domain.EmailInput) []ProcessResult {
	if len(emails) == 0 {
		return []ProcessResult{}
	}

	b.logger.Info("Starting batch processing",
		"batch_size", len(emails),
		"concurrency", b.concurrency,
	)
	start := time.Now()

	jobs := make(chan int, len(emails))
	results := make([]ProcessResult, len(emails))

	workers := b.concurrency
	if workers > len(emails) {
		workers = len(emails)
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if err := ctx.Err(); err != nil {
					results[i] = ProcessResult{Email: emails[i], Err: fmt.Errorf("batch canceled: %w", err)}
					continue
				}
				results[i] = b.processItem(ctx, i, emails[i])
			}
		}()
	}

	for i := range emails {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	success := 0
	for i := range results {
		if results[i].Err == nil {
			success++
		}
	}

	duration := time.Since(start)
	b.logger.Info("Batch processing complete",
		"total", len(emails),
		"success", success,
		"errors", len(emails)-success,
		"duration_ms", duration.Milliseconds(),
	)

	return results
}

// processItem classifies a single email
func (b *BatchProcessor) processItem(ctx context.Context, index int, email domain.EmailInput) ProcessResult {
	out := ProcessResult{Email: email}

	if err := email.Validate(); err != nil {
		out.Err = err
		return out
	}

	result, err := b.classifier.Classify(ctx, email)
	if err != nil {
		out.Err = fmt.Errorf("classification failed: %w", err)
		b.logger.Error("Failed to classify email",
			"index", index,
			"error", err,
		)
		return out
	}
	out.Result = result

	b.logger.Debug("Email processed",
		"index", index,
		"urgency", result.Urgency,
		"department", result.Department,
	)

	return out
}
