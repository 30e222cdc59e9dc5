// Package logging adapts the structured zap-backed logger to the loosely
// typed key-value interface the processing and API layers log through.
package logging

import (
	"fmt"

	"github.com/jonesrussell/mail-triage/internal/logger"
)

// Logger is the key-value logging interface used outside the logger package.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// Adapter turns key-value pairs into logger fields.
type Adapter struct {
	log logger.Logger
}

// NewAdapter wraps log in the key-value interface.
func NewAdapter(log logger.Logger) *Adapter {
	return &Adapter{log: log}
}

// Debug logs a debug message with key-value pairs.
func (a *Adapter) Debug(msg string, keysAndValues ...any) {
	a.log.Debug(msg, fields(keysAndValues)...)
}

// Info logs an info message with key-value pairs.
func (a *Adapter) Info(msg string, keysAndValues ...any) {
	a.log.Info(msg, fields(keysAndValues)...)
}

// Warn logs a warning message with key-value pairs.
func (a *Adapter) Warn(msg string, keysAndValues ...any) {
	a.log.Warn(msg, fields(keysAndValues)...)
}

// Error logs an error message with key-value pairs.
func (a *Adapter) Error(msg string, keysAndValues ...any) {
	a.log.Error(msg, fields(keysAndValues)...)
}

// fields converts alternating key-value pairs into structured fields.
// Non-string keys are stringified, and a trailing key without a value is
// kept with a nil value rather than silently dropped.
func fields(keysAndValues []any) []logger.Field {
	out := make([]logger.Field, 0, (len(keysAndValues)+1)/2)
	for i := 0; i < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			key = fmt.Sprint(keysAndValues[i])
		}
		var val any
		if i+1 < len(keysAndValues) {
			val = keysAndValues[i+1]
		}
		out = append(out, logger.Any(key, val))
	}
	return out
}
