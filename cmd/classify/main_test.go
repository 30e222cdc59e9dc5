package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/jonesrussell/mail-triage/internal/domain"
	"github.com/jonesrussell/mail-triage/internal/processor"
)

type stubLogger struct{}

func (stubLogger) Debug(msg string, keysAndValues ...interface{}) {}
func (stubLogger) Info(msg string, keysAndValues ...interface{})  {}
func (stubLogger) Warn(msg string, keysAndValues ...interface{})  {}
func (stubLogger) Error(msg string, keysAndValues ...interface{}) {}

// stubClassifier echoes the subject into the department so output lines can
// be matched back to input lines.
type stubClassifier struct{}

func (stubClassifier) Classify(_ context.Context, email domain.EmailInput) (*domain.ClassificationResult, error) {
	if strings.Contains(email.Subject, "boom") {
		return nil, errors.New("provider unavailable")
	}
	return &domain.ClassificationResult{
		Urgency:    domain.UrgencyLow,
		Department: email.Subject,
	}, nil
}

func newTestBatch() *processor.BatchProcessor {
	return processor.NewBatchProcessor(stubClassifier{}, 2, stubLogger{})
}

func decodeLines(t *testing.T, out *bytes.Buffer) []lineResult {
	t.Helper()

	var lines []lineResult
	decoder := json.NewDecoder(out)
	for decoder.More() {
		var line lineResult
		if err := decoder.Decode(&line); err != nil {
			t.Fatalf("decode output line: %v", err)
		}
		lines = append(lines, line)
	}
	return lines
}

func TestClassifyStream_PreservesLineOrder(t *testing.T) {
	input := `{"subject":"first","body":"a"}
{"subject":"second","body":"b"}
{"subject":"third","body":"c"}
`
	var out bytes.Buffer

	total, failed, err := classifyStream(context.Background(), newTestBatch(), strings.NewReader(input), &out, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 3 {
		t.Errorf("expected total 3, got %d", total)
	}
	if failed != 0 {
		t.Errorf("expected 0 failed, got %d", failed)
	}

	lines := decodeLines(t, &out)
	if len(lines) != 3 {
		t.Fatalf("expected 3 output lines, got %d", len(lines))
	}
	for i, want := range []string{"first", "second", "third"} {
		if lines[i].Line != i+1 {
			t.Errorf("line %d: expected line number %d, got %d", i, i+1, lines[i].Line)
		}
		if lines[i].Result == nil || lines[i].Result.Department != want {
			t.Errorf("line %d: expected department %q, got %+v", i, want, lines[i].Result)
		}
	}
}

func TestClassifyStream_MalformedLine(t *testing.T) {
	input := `{"subject":"ok","body":"a"}
not json
{"subject":"also ok","body":"b"}
`
	var out bytes.Buffer

	total, failed, err := classifyStream(context.Background(), newTestBatch(), strings.NewReader(input), &out, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 3 {
		t.Errorf("expected total 3, got %d", total)
	}
	if failed != 1 {
		t.Errorf("expected 1 failed, got %d", failed)
	}

	lines := decodeLines(t, &out)
	if len(lines) != 3 {
		t.Fatalf("expected 3 output lines, got %d", len(lines))
	}
	if lines[1].Error == "" || !strings.Contains(lines[1].Error, "parse line 2") {
		t.Errorf("expected parse error on line 2, got %+v", lines[1])
	}
	if lines[0].Result == nil || lines[2].Result == nil {
		t.Errorf("expected surrounding lines to classify, got %+v and %+v", lines[0], lines[2])
	}
}

func TestClassifyStream_ClassificationFailure(t *testing.T) {
	input := `{"subject":"boom","body":"a"}
{"subject":"fine","body":"b"}
`
	var out bytes.Buffer

	total, failed, err := classifyStream(context.Background(), newTestBatch(), strings.NewReader(input), &out, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 2 {
		t.Errorf("expected total 2, got %d", total)
	}
	if failed != 1 {
		t.Errorf("expected 1 failed, got %d", failed)
	}

	lines := decodeLines(t, &out)
	if len(lines) != 2 {
		t.Fatalf("expected 2 output lines, got %d", len(lines))
	}
	if lines[0].Error == "" || lines[0].Result != nil {
		t.Errorf("expected error-only first line, got %+v", lines[0])
	}
	if lines[1].Result == nil {
		t.Errorf("expected second line to classify, got %+v", lines[1])
	}
}

func TestClassifyStream_SkipsBlankLines(t *testing.T) {
	input := "{\"subject\":\"one\",\"body\":\"a\"}\n\n{\"subject\":\"two\",\"body\":\"b\"}\n"
	var out bytes.Buffer

	total, failed, err := classifyStream(context.Background(), newTestBatch(), strings.NewReader(input), &out, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 2 {
		t.Errorf("expected total 2, got %d", total)
	}
	if failed != 0 {
		t.Errorf("expected 0 failed, got %d", failed)
	}

	lines := decodeLines(t, &out)
	if len(lines) != 2 {
		t.Fatalf("expected 2 output lines, got %d", len(lines))
	}
	// Blank line consumed line number 2, so the second email is line 3.
	if lines[0].Line != 1 || lines[1].Line != 3 {
		t.Errorf("expected line numbers 1 and 3, got %d and %d", lines[0].Line, lines[1].Line)
	}
}
