package classifier

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/jonesrussell/mail-triage/internal/config"
	"github.com/jonesrussell/mail-triage/internal/domain"
	"github.com/jonesrussell/mail-triage/internal/logger"
	"github.com/jonesrussell/mail-triage/internal/provider"
	"github.com/jonesrussell/mail-triage/internal/telemetry"
)

// axisCount is the number of classification axes (urgency, department).
const axisCount = 2

// signalResult is one provider's contribution to a single classification.
// err and scores are mutually exclusive: a client never returns nil scores
// without an error.
type signalResult struct {
	name    string
	scores  map[string]float64
	err     error
	elapsed time.Duration
}

// compiledSnapshot bundles a snapshot with the matchers and escalator
// built from it. Classify captures one compiledSnapshot per call, so a
// reload mid-flight never mixes old patterns with new thresholds.
type compiledSnapshot struct {
	snap       *config.Snapshot
	urgency    *Matcher
	department *Matcher
	escalator  *Escalator
}

func compile(snap *config.Snapshot) *compiledSnapshot {
	return &compiledSnapshot{
		snap:       snap,
		urgency:    NewMatcher(snap.Urgency.Patterns),
		department: NewMatcher(snap.Department.Patterns),
		escalator:  NewEscalator(snap),
	}
}

// Engine classifies emails on the urgency and department axes by combining
// keyword pattern weights, external provider signals, and structural text
// features, then applying the snapshot's escalation rules to the resolved
// pair.
//
// Provider failures degrade a classification instead of failing it; the
// only error Classify returns is context cancellation.
type Engine struct {
	mu        sync.RWMutex
	compiled  *compiledSnapshot
	providers []provider.SignalProvider
	logger    logger.Logger
	telemetry *telemetry.Provider
}

// NewEngine builds an engine from an already validated snapshot. The
// provider slice fixes the fan-out order; whether each provider is
// consulted on a given call is decided by the active snapshot.
func NewEngine(
	snap *config.Snapshot,
	providers []provider.SignalProvider,
	log logger.Logger,
	tp *telemetry.Provider,
) *Engine {
	e := &Engine{
		compiled:  compile(snap),
		providers: providers,
		logger:    log,
		telemetry: tp,
	}

	log.Info("Classification engine initialized",
		logger.String("snapshot_version", snap.Version),
		logger.Int("urgency_keywords", e.compiled.urgency.KeywordCount()),
		logger.Int("department_keywords", e.compiled.department.KeywordCount()),
		logger.Int("escalation_rules", len(snap.Escalation)),
		logger.Int("providers", len(providers)),
	)
	return e
}

// UpdateSnapshot rebuilds the matchers and escalation rules from a new
// snapshot and swaps them in atomically. The caller (the config store)
// has already validated the snapshot; in-flight classifications finish
// on the snapshot they captured.
func (e *Engine) UpdateSnapshot(snap *config.Snapshot) {
	c := compile(snap)

	e.mu.Lock()
	e.compiled = c
	e.mu.Unlock()

	e.logger.Info("Classification snapshot updated",
		logger.String("snapshot_version", snap.Version),
		logger.Int("urgency_keywords", c.urgency.KeywordCount()),
		logger.Int("department_keywords", c.department.KeywordCount()),
		logger.Int("escalation_rules", len(snap.Escalation)),
	)
}

// SnapshotVersion returns the version of the snapshot the engine is
// currently classifying with.
func (e *Engine) SnapshotVersion() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.compiled.snap.Version
}

// Classify runs the full pipeline for a single email and returns a
// complete result. Empty input is not an error: it resolves both axes
// through the zero-signal path.
func (e *Engine) Classify(ctx context.Context, email domain.EmailInput) (*domain.ClassificationResult, error) {
	start := time.Now()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("classify: %w", err)
	}
	if e.telemetry != nil {
		var span trace.Span
		ctx, span = e.telemetry.StartSpan(ctx, "engine.classify")
		defer span.End()
	}

	e.mu.RLock()
	c := e.compiled
	e.mu.RUnlock()

	// 1. Sanitize and tokenize once; the matchers and the escalator share
	// the token stream.
	sanitized := email.Sanitize()
	tokens := Tokenize(sanitized.Text())

	// 2. Keyword pattern weights per axis.
	matchStart := time.Now()
	patternUrgency := c.urgency.MatchTokens(tokens)
	patternDepartment := c.department.MatchTokens(tokens)
	if e.telemetry != nil {
		e.telemetry.RecordPatternMatch(ctx, time.Since(matchStart), len(patternUrgency)+len(patternDepartment))
	}

	// 3. External provider signals, collected concurrently.
	signals := e.collectSignals(ctx, c.snap, sanitized.Text())

	// 4. Aggregate patterns, provider routes, and structural features
	// into one score vector per axis.
	urgencyScores, departmentScores := aggregate(c.snap, sanitized, patternUrgency, patternDepartment, signals)

	// 5. Resolve each axis to a band and confidence.
	urgency := resolve(&c.snap.Urgency, urgencyScores, c.snap.SaturationFactor, c.snap.ZeroSignalFloor)
	department := resolve(&c.snap.Department, departmentScores, c.snap.SaturationFactor, c.snap.ZeroSignalFloor)

	if urgency.ZeroSignal && department.ZeroSignal {
		e.logZeroSignal(sanitized)
		if e.telemetry != nil {
			e.telemetry.RecordZeroSignal(ctx)
		}
	}

	// 6. Escalation rules over the resolved pair.
	urgency, fired := c.escalator.Apply(urgency, department, tokens)
	if e.telemetry != nil {
		for _, name := range fired {
			e.telemetry.RecordEscalation(ctx, name)
		}
	}

	result := buildResult(c.snap.Version, urgency, department, fired, signals, start)

	if e.telemetry != nil {
		e.telemetry.RecordClassification(ctx, result.Urgency, result.Department, time.Since(start))
	}
	e.logger.Info("Email classified",
		logger.String("urgency", result.Urgency),
		logger.Float64("urgency_confidence", result.UrgencyConfidence),
		logger.String("department", result.Department),
		logger.Float64("department_confidence", result.DepartmentConfidence),
		logger.Bool("escalation_applied", result.EscalationApplied),
		logger.Strings("signals_used", result.SignalsUsed),
		logger.String("snapshot_version", result.ConfigVersion),
		logger.Int64("processing_time_ms", result.ProcessingTimeMs),
	)

	return result, nil
}

// collectSignals fans out to every provider the snapshot enables and waits
// for all of them. Results keep provider registration order so SignalsUsed
// is deterministic. Per-call time is bounded by each client's own timeout.
func (e *Engine) collectSignals(ctx context.Context, snap *config.Snapshot, text string) []signalResult {
	type task struct {
		p      provider.SignalProvider
		labels []string
	}

	tasks := make([]task, 0, len(e.providers))
	for _, p := range e.providers {
		settings, ok := snap.Providers[p.Name()]
		if !ok || !settings.Enabled {
			continue
		}
		tasks = append(tasks, task{p: p, labels: settings.CandidateLabels})
	}
	if len(tasks) == 0 {
		return nil
	}

	results := make([]signalResult, len(tasks))
	var wg sync.WaitGroup
	for i, t := range tasks {
		i, t := i, t
		wg.Add(1)
		go func() {
			defer wg.Done()
			started := time.Now()
			scores, err := t.p.Classify(ctx, text, t.labels)
			results[i] = signalResult{
				name:    t.p.Name(),
				scores:  scores,
				err:     err,
				elapsed: time.Since(started),
			}
		}()
	}
	wg.Wait()

	for _, sig := range results {
		if e.telemetry != nil {
			e.telemetry.RecordProviderCall(ctx, sig.name, sig.err == nil, sig.elapsed)
		}
		switch {
		case sig.err != nil:
			e.logProviderFailure(sig)
		case sig.scores == nil:
			e.logProviderNilScores(sig)
		}
	}
	return results
}

// buildResult assembles the public record. SignalsUsed lists only the
// providers that actually contributed and is never nil, so the JSON field
// encodes as an array.
func buildResult(
	version string,
	urgency, department Resolution,
	fired []string,
	signals []signalResult,
	start time.Time,
) *domain.ClassificationResult {
	used := make([]string, 0, len(signals))
	for _, sig := range signals {
		if sig.err == nil && sig.scores != nil {
			used = append(used, sig.name)
		}
	}

	return &domain.ClassificationResult{
		Urgency:              urgency.Label,
		UrgencyConfidence:    urgency.Confidence,
		Department:           department.Label,
		DepartmentConfidence: department.Confidence,
		EscalationApplied:    len(fired) > 0,
		OverallConfidence:    (urgency.Confidence + department.Confidence) / axisCount,
		SignalsUsed:          used,
		ConfigVersion:        version,
		ProcessingTimeMs:     time.Since(start).Milliseconds(),
		ClassifiedAt:         time.Now().UTC(),
	}
}
