package logger

// NoOpLogger discards every log call. It backs tests and components that
// run with logging disabled.
type NoOpLogger struct{}

// NewNop returns a Logger that discards everything.
func NewNop() Logger {
	return &NoOpLogger{}
}

func (l *NoOpLogger) Debug(string, ...Field) {}
func (l *NoOpLogger) Info(string, ...Field)  {}
func (l *NoOpLogger) Warn(string, ...Field)  {}
func (l *NoOpLogger) Error(string, ...Field) {}
func (l *NoOpLogger) Fatal(string, ...Field) {}

// With returns the same no-op logger.
func (l *NoOpLogger) With(...Field) Logger {
	return l
}

// Sync is a no-op.
func (l *NoOpLogger) Sync() error {
	return nil
}
