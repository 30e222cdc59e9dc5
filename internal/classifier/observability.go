package classifier

import (
	"strings"

	"github.com/jonesrussell/mail-triage/internal/domain"
	"github.com/jonesrussell/mail-triage/internal/logger"
)

const subjectExcerptWordLimit = 10

// truncateWords returns the first n words of s, appending "..." if truncated.
func truncateWords(s string, n int) string {
	words := strings.Fields(s)
	if len(words) <= n {
		return s
	}
	return strings.Join(words[:n], " ") + "..."
}

// classifyErrorType categorizes a provider error message for dashboard filtering.
func classifyErrorType(errMsg string) string {
	lower := strings.ToLower(errMsg)
	switch {
	case strings.Contains(lower, "deadline exceeded") || strings.Contains(lower, "timeout"):
		return "timeout"
	case strings.Contains(lower, "returned 5"):
		return "5xx"
	case strings.Contains(lower, "returned 4"):
		return "4xx"
	case strings.Contains(lower, "connection refused") || strings.Contains(lower, "dial tcp") ||
		strings.Contains(lower, "no such host"):
		return "connection"
	case strings.Contains(lower, "decode") || strings.Contains(lower, "unmarshal") ||
		strings.Contains(lower, "eof"):
		return "decode"
	default:
		return "unknown"
	}
}

// logProviderFailure emits a structured Warn log for a failed provider call.
// A failed provider degrades the classification; it never fails it.
func (e *Engine) logProviderFailure(sig signalResult) {
	e.logger.Warn("Signal provider failed, classifying without it",
		logger.String("provider", sig.name),
		logger.String("error_type", classifyErrorType(sig.err.Error())),
		logger.String("error_detail", sig.err.Error()),
		logger.Int64("latency_ms", sig.elapsed.Milliseconds()),
		logger.String("outcome", "error"),
	)
}

// logProviderNilScores emits a structured Error log when a provider returns
// nil scores with no error. That is a contract violation in the provider
// interface and indicates a client bug.
func (e *Engine) logProviderNilScores(sig signalResult) {
	e.logger.Error("Signal provider returned nil scores without error",
		logger.String("provider", sig.name),
		logger.Int64("latency_ms", sig.elapsed.Milliseconds()),
		logger.String("outcome", "nil_scores"),
	)
}

// logZeroSignal emits a Debug log when neither axis produced any score and
// both fell through to their lowest band at the floor confidence.
func (e *Engine) logZeroSignal(email domain.EmailInput) {
	e.logger.Debug("No classification signal in email",
		logger.String("subject_excerpt", truncateWords(email.Subject, subjectExcerptWordLimit)),
		logger.String("sender", email.Sender),
	)
}
